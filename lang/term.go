// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package lang

import (
	"math/big"
	"strings"
)

// Term is a first order term.
type Term interface {
	Sort() Sort
	String() string
	isTerm()
}

// Const is a named constant, such as the term of a constructed point.
type Const struct {
	Name string
	S    Sort
}

// C returns the constant name of sort s.
func C(name string, s Sort) Const {
	return Const{Name: name, S: s}
}

func (c Const) Sort() Sort     { return c.S }
func (c Const) String() string { return c.Name }
func (Const) isTerm()          {}

// Var is a variable bound by a quantifier.
type Var struct {
	Name string
	S    Sort
}

// V returns the variable name of sort s.
func V(name string, s Sort) Var {
	return Var{Name: name, S: s}
}

func (v Var) Sort() Sort     { return v.S }
func (v Var) String() string { return v.Name }
func (Var) isTerm()          {}

// App is the application of a function symbol.
type App struct {
	Fn   *Symbol
	Args []Term
}

func (a *App) Sort() Sort { return a.Fn.Result }

func (a *App) String() string {
	if len(a.Args) == 0 {
		return a.Fn.Name
	}
	return a.Fn.Name + "(" + joinTerms(a.Args) + ")"
}

func (*App) isTerm() {}

// Num is a rational numeral.  The zero value is 0.
type Num struct {
	r *big.Rat
}

// N returns the integer numeral i.
func N(i int64) Num {
	return Num{r: big.NewRat(i, 1)}
}

// Q returns the numeral p/q; q must not be 0.
func Q(p, q int64) Num {
	return Num{r: big.NewRat(p, q)}
}

// Rat returns the value of n.
func (n Num) Rat() *big.Rat {
	if n.r == nil {
		return new(big.Rat)
	}
	return new(big.Rat).Set(n.r)
}

func (n Num) Sort() Sort { return Real }

func (n Num) String() string {
	r := n.Rat()
	if r.IsInt() {
		return r.Num().String()
	}
	return r.RatString()
}

func (Num) isTerm() {}

// Sum is the sum of its (metric) terms.
type Sum []Term

// Add returns the sum of ts.
func Add(ts ...Term) Sum {
	return Sum(ts)
}

// Sort is the common sort of the summands, or Real if they differ.
func (s Sum) Sort() Sort {
	if len(s) == 0 {
		return Real
	}
	r := s[0].Sort()
	for _, t := range s[1:] {
		if t.Sort() != r {
			return Real
		}
	}
	return r
}

func (s Sum) String() string {
	if len(s) == 0 {
		return "0"
	}
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}

func (Sum) isTerm() {}

// SegmentOf is the length of segment ab.
func SegmentOf(a, b Term) Term {
	return &App{Fn: SymSegment, Args: []Term{a, b}}
}

// AngleOf is the magnitude of angle abc.
func AngleOf(a, b, c Term) Term {
	return &App{Fn: SymAngle, Args: []Term{a, b, c}}
}

// AreaOf is the area of triangle abc.
func AreaOf(a, b, c Term) Term {
	return &App{Fn: SymArea, Args: []Term{a, b, c}}
}

// RightAngle is the constant magnitude of a right angle.
var RightAngle Term = &App{Fn: SymRightAngle}

func joinTerms(ts []Term) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
