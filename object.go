// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package euclid

import (
	"fmt"
	"log/slog"

	"github.com/go-air/euclid/lang"
)

// Kind is the kind of a geometric entity.
type Kind int

const (
	KindPoint Kind = iota
	KindLine
	KindCircle
)

var kinds = [...]struct {
	name string
	sort lang.Sort
}{
	{"point", lang.Point},
	{"line", lang.Line},
	{"circle", lang.Circle},
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kinds) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kinds[k].name
}

// Sort gives the sort of the terms of kind k.
func (k Kind) Sort() lang.Sort {
	return kinds[k].sort
}

func kindOf(s lang.Sort) (Kind, bool) {
	for i := range kinds {
		if kinds[i].sort == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// Entity is a point, line or circle of a session.
//
// A draft entity accumulates preconditions, which must hold before it may
// be constructed, and postconditions, which hold once it is.  Drafts never
// touch the decision procedure; Session.Construct does.
type Entity interface {
	Label() string
	Kind() Kind
	// Term is the constant standing for the entity in sentences.
	Term() lang.Const
	Pre() []lang.Formula
	Post() []lang.Formula
	Constructed() bool
	// Distinct reports whether the entity is to differ from all other
	// entities of its kind.
	Distinct() bool

	base() *entity
}

// DraftOption configures a draft entity.
type DraftOption func(*entity)

// NonDistinct lets the entity coincide with other entities of its kind.
func NonDistinct() DraftOption {
	return func(e *entity) { e.distinct = false }
}

type entity struct {
	sess        *Session
	kind        Kind
	term        lang.Const
	pre, post   []lang.Formula
	distinct    bool
	constructed bool
}

func newEntity(s *Session, k Kind, label string, opts []DraftOption) entity {
	e := entity{
		sess:     s,
		kind:     k,
		term:     lang.C(label, k.Sort()),
		distinct: true}
	for _, o := range opts {
		o(&e)
	}
	return e
}

func (e *entity) Label() string { return e.term.Name }
func (e *entity) Kind() Kind { return e.kind }
func (e *entity) Term() lang.Const { return e.term }
func (e *entity) Constructed() bool { return e.constructed }
func (e *entity) Distinct() bool { return e.distinct }
func (e *entity) base() *entity { return e }
func (e *entity) Pre() []lang.Formula { return append([]lang.Formula(nil), e.pre...) }
func (e *entity) Post() []lang.Formula { return append([]lang.Formula(nil), e.post...) }

func (e *entity) String() string {
	return e.kind.String() + " " + e.term.Name
}

// add appends to the conditions of a draft.  A constructed entity is left
// as it is.
func (e *entity) add(method string, pre, post []lang.Formula) {
	if e.constructed {
		e.sess.log.Warn("ignoring construction method on constructed entity",
			slog.String("label", e.term.Name),
			slog.String("method", method))
		return
	}
	e.pre = append(e.pre, pre...)
	e.post = append(e.post, post...)
}

func fs(f ...lang.Formula) []lang.Formula { return f }

// Point is a point of a session.
type Point struct {
	entity
}

// Require adds preconditions.
func (p *Point) Require(f ...lang.Formula) *Point {
	p.add("Require", f, nil)
	return p
}

// Ensure adds postconditions.
func (p *Point) Ensure(f ...lang.Formula) *Point {
	p.add("Ensure", nil, f)
	return p
}

// OnLine puts p on l.
func (p *Point) OnLine(l *Line) *Point {
	p.add("OnLine", nil, fs(lang.On(p.term, l.term)))
	return p
}

// OnCircle puts p on c.
func (p *Point) OnCircle(c *Circle) *Point {
	p.add("OnCircle", nil, fs(lang.OnCircle(p.term, c.term)))
	return p
}

// Between puts p strictly between a and b, which must differ.
func (p *Point) Between(a, b *Point) *Point {
	p.add("Between",
		fs(lang.Neq(a.term, b.term)),
		fs(lang.Between(a.term, p.term, b.term)))
	return p
}

// SameSide puts p on the side of l where a is; a must not be on l.
func (p *Point) SameSide(a *Point, l *Line) *Point {
	p.add("SameSide",
		fs(lang.Neg(lang.On(a.term, l.term))),
		fs(lang.SameSide(p.term, a.term, l.term)))
	return p
}

// Opposite puts p on the other side of l from a; a must not be on l.
func (p *Point) Opposite(a *Point, l *Line) *Point {
	p.add("Opposite",
		fs(lang.Neg(lang.On(a.term, l.term))),
		fs(lang.Neg(lang.SameSide(p.term, a.term, l.term)), lang.Neg(lang.On(p.term, l.term))))
	return p
}

// Inside puts p inside c.
func (p *Point) Inside(c *Circle) *Point {
	p.add("Inside", nil, fs(lang.Inside(p.term, c.term)))
	return p
}

// Outside puts p outside c: neither inside nor on it.
func (p *Point) Outside(c *Circle) *Point {
	p.add("Outside", nil, fs(
		lang.Neg(lang.Inside(p.term, c.term)),
		lang.Neg(lang.OnCircle(p.term, c.term))))
	return p
}

// AtLines makes p an intersection of l and m, which must intersect.
func (p *Point) AtLines(l, m *Line) *Point {
	p.add("AtLines",
		fs(lang.IntersectsLL(l.term, m.term)),
		fs(lang.On(p.term, l.term), lang.On(p.term, m.term)))
	return p
}

// AtLineCircle makes p an intersection of l and c, which must intersect.
func (p *Point) AtLineCircle(l *Line, c *Circle) *Point {
	p.add("AtLineCircle",
		fs(lang.IntersectsLC(l.term, c.term)),
		fs(lang.On(p.term, l.term), lang.OnCircle(p.term, c.term)))
	return p
}

// AtCircles makes p an intersection of c and d, which must intersect.
func (p *Point) AtCircles(c, d *Circle) *Point {
	p.add("AtCircles",
		fs(lang.IntersectsCC(c.term, d.term)),
		fs(lang.OnCircle(p.term, c.term), lang.OnCircle(p.term, d.term)))
	return p
}

// Line is a line of a session.
type Line struct {
	entity
}

// Require adds preconditions.
func (l *Line) Require(f ...lang.Formula) *Line {
	l.add("Require", f, nil)
	return l
}

// Ensure adds postconditions.
func (l *Line) Ensure(f ...lang.Formula) *Line {
	l.add("Ensure", nil, f)
	return l
}

// Through makes l the line through a and b, which must differ.
func (l *Line) Through(a, b *Point) *Line {
	l.add("Through",
		fs(lang.Neq(a.term, b.term)),
		fs(lang.On(a.term, l.term), lang.On(b.term, l.term)))
	return l
}

// Circle is a circle of a session.
type Circle struct {
	entity
}

// Require adds preconditions.
func (c *Circle) Require(f ...lang.Formula) *Circle {
	c.add("Require", f, nil)
	return c
}

// Ensure adds postconditions.
func (c *Circle) Ensure(f ...lang.Formula) *Circle {
	c.add("Ensure", nil, f)
	return c
}

// CenterThrough makes c the circle with center a through b, which must
// differ.
func (c *Circle) CenterThrough(a, b *Point) *Circle {
	c.add("CenterThrough",
		fs(lang.Neq(a.term, b.term)),
		fs(lang.Center(a.term, c.term), lang.OnCircle(b.term, c.term)))
	return c
}
