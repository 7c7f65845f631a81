// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package axiom

import (
	"fmt"

	"github.com/go-air/euclid/lang"
)

var (
	a = lang.V("a", lang.Point)
	b = lang.V("b", lang.Point)
	c = lang.V("c", lang.Point)
	d = lang.V("d", lang.Point)
	e = lang.V("e", lang.Point)

	l = lang.V("L", lang.Line)
	m = lang.V("M", lang.Line)
	n = lang.V("N", lang.Line)

	al = lang.V("alpha", lang.Circle)
	be = lang.V("beta", lang.Circle)
)

func vs(v ...lang.Var) []lang.Var { return v }

func onOrIn(p, k lang.Term) lang.Formula {
	return lang.Or{lang.Inside(p, k), lang.OnCircle(p, k)}
}

type builder struct {
	as    []Axiom
	count map[Group]int
}

func (u *builder) add(g Group, vars []lang.Var, f lang.Formula) {
	u.count[g]++
	u.as = append(u.as, Axiom{
		Name:    fmt.Sprintf("%s-%d", g, u.count[g]),
		Group:   g,
		Formula: lang.Forall(vars, f)})
}

// Set returns the axioms of E.  Each call builds a fresh list.
func Set() []Axiom {
	u := &builder{count: make(map[Group]int)}

	// two points determine a line
	u.add(Generality, vs(a, b, l, m), lang.Impl(
		lang.And{lang.Neq(a, b), lang.On(a, l), lang.On(b, l), lang.On(a, m), lang.On(b, m)},
		lang.Equal(l, m)))
	// the center of a circle is unique and inside it
	u.add(Generality, vs(a, b, al), lang.Impl(
		lang.And{lang.Center(a, al), lang.Center(b, al)},
		lang.Equal(a, b)))
	u.add(Generality, vs(a, al), lang.Impl(lang.Center(a, al), lang.Inside(a, al)))
	// no degenerate circles
	u.add(Generality, vs(a, al), lang.Impl(lang.Inside(a, al), lang.Neg(lang.OnCircle(a, al))))

	u.add(Betweenness, vs(a, b, c), lang.Impl(
		lang.Between(a, b, c),
		lang.And{lang.Between(c, b, a), lang.Neq(a, b), lang.Neq(a, c), lang.Neg(lang.Between(b, a, c))}))
	u.add(Betweenness, vs(a, b, c, l), lang.Impl(
		lang.And{lang.Between(a, b, c), lang.On(a, l), lang.On(b, l)},
		lang.On(c, l)))
	u.add(Betweenness, vs(a, b, c, l), lang.Impl(
		lang.And{lang.Between(a, b, c), lang.On(a, l), lang.On(c, l)},
		lang.On(b, l)))
	u.add(Betweenness, vs(a, b, c, d), lang.Impl(
		lang.And{lang.Between(a, b, c), lang.Between(a, d, b)},
		lang.Between(a, d, c)))
	u.add(Betweenness, vs(a, b, c, d), lang.Impl(
		lang.And{lang.Between(a, b, c), lang.Between(b, c, d)},
		lang.Between(a, b, d)))
	u.add(Betweenness, vs(a, b, c, l), lang.Impl(
		lang.And{lang.On(a, l), lang.On(b, l), lang.On(c, l), lang.Neq(a, b), lang.Neq(a, c), lang.Neq(b, c)},
		lang.Or{lang.Between(a, b, c), lang.Between(b, a, c), lang.Between(a, c, b)}))
	u.add(Betweenness, vs(a, b, c, d), lang.Impl(
		lang.And{lang.Between(a, b, c), lang.Between(a, b, d)},
		lang.Neg(lang.Between(c, b, d))))

	u.add(SameSides, vs(a, l), lang.Impl(lang.Neg(lang.On(a, l)), lang.SameSide(a, a, l)))
	u.add(SameSides, vs(a, b, l), lang.Impl(
		lang.SameSide(a, b, l),
		lang.And{lang.Neg(lang.On(a, l)), lang.SameSide(b, a, l)}))
	u.add(SameSides, vs(a, b, c, l), lang.Impl(
		lang.And{lang.SameSide(a, b, l), lang.SameSide(a, c, l)},
		lang.SameSide(b, c, l)))
	u.add(SameSides, vs(a, b, c, l), lang.Impl(
		lang.And{lang.Neg(lang.On(a, l)), lang.Neg(lang.On(b, l)), lang.Neg(lang.On(c, l)), lang.Neg(lang.SameSide(a, b, l))},
		lang.Or{lang.SameSide(a, c, l), lang.SameSide(b, c, l)}))

	u.add(Pasch, vs(a, b, c, l), lang.Impl(
		lang.And{lang.Between(a, b, c), lang.SameSide(a, c, l)},
		lang.SameSide(a, b, l)))
	u.add(Pasch, vs(a, b, c, l), lang.Impl(
		lang.And{lang.Between(a, b, c), lang.On(a, l), lang.Neg(lang.On(b, l))},
		lang.SameSide(b, c, l)))
	u.add(Pasch, vs(a, b, c, l), lang.Impl(
		lang.And{lang.Between(a, b, c), lang.On(b, l)},
		lang.Neg(lang.SameSide(a, c, l))))
	u.add(Pasch, vs(a, b, c, l, m), lang.Impl(
		lang.And{lang.Neq(l, m), lang.On(b, l), lang.On(b, m), lang.On(a, m), lang.On(c, m),
			lang.Neq(a, b), lang.Neq(c, b), lang.Neq(a, c), lang.Neg(lang.SameSide(a, c, l))},
		lang.Between(a, b, c)))

	u.add(TripleIncidence, vs(a, b, c, d, l, m, n), lang.Impl(
		lang.And{lang.On(a, l), lang.On(a, m), lang.On(a, n), lang.On(b, l), lang.On(c, m), lang.On(d, n),
			lang.SameSide(c, d, l), lang.SameSide(b, c, n)},
		lang.Neg(lang.SameSide(b, d, m))))
	u.add(TripleIncidence, vs(a, b, c, d, l, m, n), lang.Impl(
		lang.And{lang.On(a, l), lang.On(a, m), lang.On(a, n), lang.On(b, l), lang.On(c, m), lang.On(d, n),
			lang.SameSide(c, d, l), lang.Neg(lang.SameSide(d, b, m)), lang.Neg(lang.On(d, m)), lang.Neq(b, a)},
		lang.SameSide(b, c, n)))
	u.add(TripleIncidence, vs(a, b, c, d, e, l, m, n), lang.Impl(
		lang.And{lang.On(a, l), lang.On(a, m), lang.On(a, n), lang.On(b, l), lang.On(c, m), lang.On(d, n),
			lang.SameSide(b, c, n), lang.SameSide(d, c, l), lang.SameSide(d, e, m), lang.SameSide(c, e, n)},
		lang.SameSide(c, e, l)))

	u.add(Circles, vs(a, b, c, al, l), lang.Impl(
		lang.And{lang.Inside(a, al), lang.OnCircle(b, al), lang.OnCircle(c, al), lang.On(a, l), lang.On(b, l), lang.On(c, l), lang.Neq(b, c)},
		lang.Between(b, a, c)))
	u.add(Circles, vs(a, b, c, al), lang.Impl(
		lang.And{onOrIn(a, al), onOrIn(b, al), lang.Between(a, c, b)},
		lang.Inside(c, al)))
	u.add(Circles, vs(a, b, c, al), lang.Impl(
		lang.And{onOrIn(a, al), lang.Neg(lang.Inside(c, al)), lang.Between(a, c, b)},
		lang.And{lang.Neg(lang.Inside(b, al)), lang.Neg(lang.OnCircle(b, al))}))
	u.add(Circles, vs(a, b, c, d, al, be, l), lang.Impl(
		lang.And{lang.Neq(al, be), lang.OnCircle(c, al), lang.OnCircle(c, be), lang.OnCircle(d, al), lang.OnCircle(d, be), lang.Neq(c, d),
			lang.Center(a, al), lang.Center(b, be), lang.On(a, l), lang.On(b, l)},
		lang.Neg(lang.SameSide(c, d, l))))

	u.add(Intersection, vs(a, b, l, m), lang.Impl(
		lang.And{lang.On(a, m), lang.On(b, m), lang.Neg(lang.On(a, l)), lang.Neg(lang.On(b, l)), lang.Neg(lang.SameSide(a, b, l))},
		lang.IntersectsLL(l, m)))
	u.add(Intersection, vs(a, b, l, al), lang.Impl(
		lang.And{onOrIn(a, al), onOrIn(b, al), lang.Neg(lang.On(a, l)), lang.Neg(lang.On(b, l)), lang.Neg(lang.SameSide(a, b, l))},
		lang.IntersectsLC(l, al)))
	u.add(Intersection, vs(a, l, al), lang.Impl(
		lang.And{lang.Inside(a, al), lang.On(a, l)},
		lang.IntersectsLC(l, al)))
	u.add(Intersection, vs(a, b, al, be), lang.Impl(
		lang.And{lang.OnCircle(a, al), onOrIn(b, al), lang.Inside(a, be), lang.Neg(lang.Inside(b, be)), lang.Neg(lang.OnCircle(b, be))},
		lang.IntersectsCC(al, be)))
	u.add(Intersection, vs(a, b, al, be), lang.Impl(
		lang.And{lang.OnCircle(a, al), lang.Inside(b, al), lang.Inside(a, be), lang.OnCircle(b, be)},
		lang.IntersectsCC(al, be)))

	zero := lang.N(0)
	u.add(Segments, vs(a, b), lang.Impl(lang.Equal(lang.SegmentOf(a, b), zero), lang.Equal(a, b)))
	u.add(Segments, vs(a), lang.Equal(lang.SegmentOf(a, a), zero))
	u.add(Segments, vs(a, b), lang.GreaterEq(lang.SegmentOf(a, b), zero))
	u.add(Segments, vs(a, b), lang.Equal(lang.SegmentOf(a, b), lang.SegmentOf(b, a)))

	u.add(Angles, vs(a, b, c), lang.Impl(
		lang.And{lang.Neq(a, b), lang.Neq(b, c)},
		lang.Equal(lang.AngleOf(a, b, c), lang.AngleOf(c, b, a))))
	u.add(Angles, vs(a, b, c), lang.Impl(
		lang.And{lang.Neq(a, b), lang.Neq(b, c)},
		lang.And{lang.GreaterEq(lang.AngleOf(a, b, c), zero), lang.LessEq(lang.AngleOf(a, b, c), lang.Add(lang.RightAngle, lang.RightAngle))}))

	u.add(Areas, vs(a, b), lang.Equal(lang.AreaOf(a, a, b), zero))
	u.add(Areas, vs(a, b, c), lang.GreaterEq(lang.AreaOf(a, b, c), zero))
	u.add(Areas, vs(a, b, c), lang.And{
		lang.Equal(lang.AreaOf(a, b, c), lang.AreaOf(c, a, b)),
		lang.Equal(lang.AreaOf(a, b, c), lang.AreaOf(a, c, b))})

	u.add(SegmentTransfer, vs(a, b, c), lang.Impl(
		lang.Between(a, b, c),
		lang.Equal(lang.Add(lang.SegmentOf(a, b), lang.SegmentOf(b, c)), lang.SegmentOf(a, c))))
	u.add(SegmentTransfer, vs(a, b, c, al, be), lang.Impl(
		lang.And{lang.Center(a, al), lang.Center(a, be), lang.OnCircle(b, al), lang.OnCircle(c, be), lang.Equal(lang.SegmentOf(a, b), lang.SegmentOf(a, c))},
		lang.Equal(al, be)))
	u.add(SegmentTransfer, vs(a, b, c, al), lang.Impl(
		lang.And{lang.Center(a, al), lang.OnCircle(b, al), lang.Equal(lang.SegmentOf(a, c), lang.SegmentOf(a, b))},
		lang.OnCircle(c, al)))
	u.add(SegmentTransfer, vs(a, b, c, al), lang.Impl(
		lang.And{lang.Center(a, al), lang.OnCircle(b, al)},
		lang.Equiv(lang.Less(lang.SegmentOf(a, c), lang.SegmentOf(a, b)), lang.Inside(c, al))))

	u.add(AngleTransfer, vs(a, b, c, l), lang.Impl(
		lang.And{lang.Neq(a, b), lang.Neq(a, c), lang.On(a, l), lang.On(b, l)},
		lang.Equiv(lang.And{lang.On(c, l), lang.Neg(lang.Between(c, a, b))}, lang.Equal(lang.AngleOf(b, a, c), zero))))
	u.add(AngleTransfer, vs(a, b, c, d, l, m), lang.Impl(
		lang.And{lang.On(a, l), lang.On(b, l), lang.On(a, m), lang.On(c, m), lang.Neq(a, b), lang.Neq(a, c),
			lang.Neg(lang.On(d, l)), lang.Neg(lang.On(d, m)), lang.Neq(l, m)},
		lang.Equiv(
			lang.Equal(lang.AngleOf(b, a, c), lang.Add(lang.AngleOf(b, a, d), lang.AngleOf(d, a, c))),
			lang.And{lang.SameSide(b, d, m), lang.SameSide(d, c, l)})))
	u.add(AngleTransfer, vs(a, b, c, d, l), lang.Impl(
		lang.And{lang.On(a, l), lang.On(b, l), lang.Between(a, c, b), lang.Neg(lang.On(d, l))},
		lang.Equiv(
			lang.Equal(lang.AngleOf(a, c, d), lang.AngleOf(d, c, b)),
			lang.Equal(lang.AngleOf(a, c, d), lang.RightAngle))))

	u.add(AreaTransfer, vs(a, b, c, l), lang.Impl(
		lang.And{lang.On(a, l), lang.On(b, l), lang.Neq(a, b)},
		lang.Equiv(lang.Equal(lang.AreaOf(a, b, c), zero), lang.On(c, l))))
	u.add(AreaTransfer, vs(a, b, c, d, l), lang.Impl(
		lang.And{lang.On(a, l), lang.On(b, l), lang.On(c, l), lang.Neg(lang.On(d, l)), lang.Neq(a, b), lang.Neq(c, a), lang.Neq(c, b)},
		lang.Equiv(
			lang.Between(a, c, b),
			lang.Equal(lang.Add(lang.AreaOf(a, c, d), lang.AreaOf(d, c, b)), lang.AreaOf(a, d, b)))))

	return u.as
}
