// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package demo

import (
	"github.com/go-air/euclid"
	"github.com/go-air/euclid/lang"
)

func twoLines(r *runner) {
	a, b := r.point("a"), r.point("b")
	r.construct(Committed, a, b)
	l := r.line("L").Through(a, b)
	r.construct(Committed, l)
	m := r.line("M", euclid.NonDistinct()).Through(a, b)
	r.construct(Committed, m)
	r.hence(Entailed, lang.Equal(l.Term(), m.Term()))
	// a third line through a and b distinct from L
	n := r.line("N").Through(a, b)
	r.construct(Rejected, n)
}

func degenerateCircle(r *runner) {
	alpha := r.circle("alpha")
	r.construct(Committed, alpha)
	a := r.point("a").Inside(alpha).OnCircle(alpha)
	r.construct(Rejected, a)
	a = r.point("a").Inside(alpha)
	r.construct(Committed, a)
}

func between(r *runner) (a, b, c *euclid.Point) {
	a, c = r.point("a"), r.point("c")
	r.construct(Committed, a, c)
	b = r.point("b").Between(a, c)
	r.construct(Committed, b)
	return
}

func betweenness(r *runner) {
	a, b, c := between(r)
	r.hence(Entailed, lang.Between(c.Term(), b.Term(), a.Term()))
	r.hence(NotEntailed, lang.Between(b.Term(), a.Term(), c.Term()))
}

func contradiction(r *runner) {
	a, b, c := between(r)
	r.hence(NotEntailed, lang.Neg(lang.Between(a.Term(), b.Term(), c.Term())))
	r.hence(Entailed, lang.Between(a.Term(), b.Term(), c.Term()))
}

func construction(r *runner) {
	a, b := r.point("a"), r.point("b")
	r.construct(Committed, a, b)
	l := r.line("L").Through(a, b)
	r.construct(Committed, l)
	r.hence(NotEntailed, lang.Equal(a.Term(), b.Term()))
	m := r.line("M", euclid.NonDistinct()).Through(a, b)
	r.construct(Committed, m)
	r.hence(Entailed, lang.Equal(l.Term(), m.Term()))
	// a line meets itself
	r.hence(NotEntailed, lang.Neg(lang.IntersectsLL(l.Term(), m.Term())))
}

func inconsistent(r *runner) {
	alpha := r.circle("alpha")
	r.construct(Committed, alpha)
	a := r.point("a").Inside(alpha).OnCircle(alpha)
	r.construct(Rejected, a)
	a = r.point("a").Inside(alpha)
	r.construct(Committed, a)
	b := r.point("b").Outside(alpha).Inside(alpha)
	r.construct(Rejected, b)
	b = r.point("b").OnCircle(alpha)
	r.construct(Committed, b)
	beta := r.circle("beta").CenterThrough(b, b)
	r.construct(Rejected, beta)
	r.hence(NotEntailed, lang.Equal(a.Term(), b.Term()))
	r.hence(Entailed, lang.Neq(a.Term(), b.Term()))
}

// pasch is a diagram where s lies between p and t on N, u between s and
// t, and the line O through q and r crosses N at s.
func pasch(r *runner) {
	pts := make(map[string]lang.Term)
	for _, n := range []string{"p", "q", "r", "s", "t", "u", "v"} {
		p := r.point(n)
		r.construct(Committed, p)
		pts[n] = p.Term()
	}
	lns := make(map[string]lang.Term)
	for _, n := range []string{"K", "L", "M", "N", "O"} {
		l := r.line(n)
		r.construct(Committed, l)
		lns[n] = l.Term()
	}
	p, q, rr, s, t, u, v := pts["p"], pts["q"], pts["r"], pts["s"], pts["t"], pts["u"], pts["v"]
	K, L, M, N, O := lns["K"], lns["L"], lns["M"], lns["N"], lns["O"]

	r.assume(Assumed,
		lang.On(p, L), lang.On(q, L),
		lang.On(p, N), lang.On(s, N), lang.On(t, N),
		lang.On(p, M), lang.On(rr, M),
		lang.On(q, O), lang.On(s, O), lang.On(rr, O),
		lang.On(q, K), lang.On(t, K),
		lang.Neg(lang.On(rr, L)),
		lang.Between(p, s, t),
		lang.Between(q, s, rr),
		lang.Between(s, u, t),
		lang.Between(p, q, v))

	r.hence(Entailed, lang.True)
	r.hence(Entailed, lang.Neg(lang.SameSide(s, t, O)))
	r.hence(Entailed, lang.SameSide(u, t, M))
	r.hence(Entailed, lang.Neg(lang.SameSide(p, t, O)))
	r.hence(Entailed, lang.SameSide(s, t, M))
	r.hence(Entailed, lang.Neg(lang.Between(s, p, t)))
	r.hence(Entailed, lang.Neq(M, N))
	r.hence(Entailed, lang.Neg(lang.Between(q, s, u)))
	r.hence(Entailed, lang.Less(lang.SegmentOf(s, u), lang.SegmentOf(s, t)))
	r.hence(Entailed, lang.Neq(L, K))
}
