// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package lang

func atom(y *Symbol, ts ...Term) Formula {
	return &Atom{Pred: y, Args: ts}
}

// On states that point a lies on line l.
func On(a, l Term) Formula { return atom(SymOn, a, l) }

// OnCircle states that point a lies on circle c.
func OnCircle(a, c Term) Formula { return atom(SymOnCircle, a, c) }

// Inside states that point a is inside circle c.
func Inside(a, c Term) Formula { return atom(SymInside, a, c) }

// Center states that point a is the center of circle c.
func Center(a, c Term) Formula { return atom(SymCenter, a, c) }

// Between states that b lies strictly between a and c.
func Between(a, b, c Term) Formula { return atom(SymBetween, a, b, c) }

// SameSide states that a and b lie on the same side of line l.
func SameSide(a, b, l Term) Formula { return atom(SymSameSide, a, b, l) }

// IntersectsLL states that lines l and m intersect.
func IntersectsLL(l, m Term) Formula { return atom(SymIntersectsLL, l, m) }

// IntersectsLC states that line l and circle c intersect.
func IntersectsLC(l, c Term) Formula { return atom(SymIntersectsLC, l, c) }

// IntersectsCC states that circles c and d intersect.
func IntersectsCC(c, d Term) Formula { return atom(SymIntersectsCC, c, d) }

// Equal returns l == r.
func Equal(l, r Term) Formula { return &Eq{L: l, R: r} }

// Neq returns Not(l == r).
func Neq(l, r Term) Formula { return &Not{F: &Eq{L: l, R: r}} }

// Neg returns the negation of f.
func Neg(f Formula) Formula { return &Not{F: f} }

// Impl returns Implies(a, b).
func Impl(a, b Formula) Formula { return &Implies{If: a, Then: b} }

// Equiv returns Iff(a, b).
func Equiv(a, b Formula) Formula { return &Iff{L: a, R: b} }

// Forall quantifies f universally over vs.
func Forall(vs []Var, f Formula) Formula { return &ForAll{Vars: vs, Body: f} }

// Exist quantifies f existentially over vs.
func Exist(vs []Var, f Formula) Formula { return &Exists{Vars: vs, Body: f} }

func cmp(op Op, l, r Term) Formula { return &Cmp{Op: op, L: l, R: r} }

// Less returns l < r.
func Less(l, r Term) Formula { return cmp(Lt, l, r) }

// LessEq returns l <= r.
func LessEq(l, r Term) Formula { return cmp(Le, l, r) }

// GreaterEq returns l >= r.
func GreaterEq(l, r Term) Formula { return cmp(Ge, l, r) }

// Greater returns l > r.
func Greater(l, r Term) Formula { return cmp(Gt, l, r) }
