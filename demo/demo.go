// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package demo holds hard coded proof scripts exercising euclid sessions.
package demo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-air/euclid"
	"github.com/go-air/euclid/lang"
)

// Outcomes of steps.
const (
	Committed = "committed"
	Rejected  = "rejected"
	Assumed   = "assumed"
	Undecided = "undecided"
)

var (
	Entailed    = euclid.Entailed.String()
	NotEntailed = euclid.NotEntailed.String()
)

// Step is one operation of a script and its outcome.
type Step struct {
	Op      string
	Subject string
	Want    string // expected outcome, empty if any will do
	Got     string
	Detail  string // the rejection, if any
}

// OK reports whether the step had its expected outcome.
func (s Step) OK() bool {
	return s.Want == "" || s.Want == s.Got
}

func (s Step) String() string {
	res := fmt.Sprintf("%s %s: %s", s.Op, s.Subject, s.Got)
	if !s.OK() {
		res += fmt.Sprintf(" (want %s)", s.Want)
	}
	return res
}

// Script is a proof script.
type Script struct {
	Name    string
	Summary string
	// NeedsSMT is set for scripts the grounding backend can only leave
	// undecided.
	NeedsSMT bool

	run func(r *runner)
}

// Scripts returns all scripts.
func Scripts() []Script {
	return []Script{
		{Name: "scenario1", Summary: "two lines through two points coincide", run: twoLines},
		{Name: "scenario2", Summary: "no point is both inside and on a circle", run: degenerateCircle},
		{Name: "scenario3", Summary: "betweenness is symmetric and strict", run: betweenness},
		{Name: "scenario4", Summary: "a contradiction is not entailed", run: contradiction},
		{Name: "construction", Summary: "constructions through two points", run: construction},
		{Name: "inconsistent", Summary: "constructions with unmeetable conditions", run: inconsistent},
		{Name: "pasch", Summary: "diagram reasoning on seven points and five lines", NeedsSMT: true, run: pasch},
	}
}

// Lookup finds the script called name.
func Lookup(name string) (Script, bool) {
	for _, sc := range Scripts() {
		if sc.Name == name {
			return sc, true
		}
	}
	return Script{}, false
}

// Run runs sc in session s.  Rejections are outcomes recorded in the
// steps; any other error ends the script.
func (sc Script) Run(ctx context.Context, s *euclid.Session) (steps []Step, err error) {
	r := &runner{ctx: ctx, s: s}
	defer func() {
		if e := recover(); e != nil {
			a, ok := e.(abort)
			if !ok {
				panic(e)
			}
			steps, err = r.steps, fmt.Errorf("%s: %w", sc.Name, a.err)
		}
	}()
	sc.run(r)
	return r.steps, nil
}

// abort carries an error out of a script.
type abort struct {
	err error
}

type runner struct {
	ctx   context.Context
	s     *euclid.Session
	steps []Step
}

func (r *runner) check(err error) {
	if err != nil {
		panic(abort{err})
	}
}

func (r *runner) point(label string, opts ...euclid.DraftOption) *euclid.Point {
	p, err := r.s.NewPoint(label, opts...)
	r.check(err)
	return p
}

func (r *runner) line(label string, opts ...euclid.DraftOption) *euclid.Line {
	l, err := r.s.NewLine(label, opts...)
	r.check(err)
	return l
}

func (r *runner) circle(label string, opts ...euclid.DraftOption) *euclid.Circle {
	c, err := r.s.NewCircle(label, opts...)
	r.check(err)
	return c
}

// outcome classifies the error of an operation.
func (r *runner) outcome(err error, ok string) (string, string) {
	var rej *euclid.Rejection
	switch {
	case err == nil:
		return ok, ""
	case errors.As(err, &rej):
		if rej.Undecided() {
			return Undecided, rej.Error()
		}
		return Rejected, rej.Error()
	}
	r.check(err)
	return "", ""
}

func (r *runner) construct(want string, es ...euclid.Entity) {
	for _, e := range es {
		got, detail := r.outcome(r.s.Construct(r.ctx, e), Committed)
		r.steps = append(r.steps, Step{
			Op:      "construct",
			Subject: e.Kind().String() + " " + e.Label(),
			Want:    want,
			Got:     got,
			Detail:  detail})
	}
}

func (r *runner) hence(want string, f lang.Formula) {
	v, err := r.s.Hence(r.ctx, f)
	var rej *euclid.Rejection
	if err != nil && !errors.As(err, &rej) {
		r.check(err)
	}
	st := Step{Op: "hence", Subject: f.String(), Want: want, Got: v.String()}
	if rej != nil {
		st.Detail = rej.Error()
	}
	r.steps = append(r.steps, st)
}

func (r *runner) assume(want string, fs ...lang.Formula) {
	got, detail := r.outcome(r.s.Assume(r.ctx, fs...), Assumed)
	r.steps = append(r.steps, Step{
		Op:      "assume",
		Subject: lang.And(fs).String(),
		Want:    want,
		Got:     got,
		Detail:  detail})
}
