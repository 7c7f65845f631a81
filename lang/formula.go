// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package lang

import (
	"strings"
)

// Formula is a first order formula over some signature.
type Formula interface {
	String() string
	isFormula()
}

// Truth is a constant formula.
type Truth bool

const (
	True  Truth = true
	False Truth = false
)

func (t Truth) String() string {
	if t {
		return "True"
	}
	return "False"
}

// Atom applies a predicate symbol.
type Atom struct {
	Pred *Symbol
	Args []Term
}

func (a *Atom) String() string {
	return a.Pred.Name + "(" + joinTerms(a.Args) + ")"
}

// Eq is equality of two terms of the same sort, or of two magnitudes.
type Eq struct {
	L, R Term
}

func (e *Eq) String() string {
	return e.L.String() + " == " + e.R.String()
}

// Op is a comparison operator on magnitudes.
type Op uint8

const (
	Lt Op = iota
	Le
	Ge
	Gt
)

var opNames = [...]string{"<", "<=", ">=", ">"}

func (o Op) String() string {
	return opNames[o]
}

// Cmp compares two magnitudes.
type Cmp struct {
	Op   Op
	L, R Term
}

func (c *Cmp) String() string {
	return c.L.String() + " " + c.Op.String() + " " + c.R.String()
}

// Not is negation.
type Not struct {
	F Formula
}

func (n *Not) String() string {
	return "Not(" + n.F.String() + ")"
}

// And is conjunction; the empty And is true.
type And []Formula

func (a And) String() string {
	return "And(" + joinFormulas(a) + ")"
}

// Or is disjunction; the empty Or is false.
type Or []Formula

func (o Or) String() string {
	return "Or(" + joinFormulas(o) + ")"
}

// Implies is material implication.
type Implies struct {
	If, Then Formula
}

func (i *Implies) String() string {
	return "Implies(" + i.If.String() + ", " + i.Then.String() + ")"
}

// Iff is equivalence.
type Iff struct {
	L, R Formula
}

func (i *Iff) String() string {
	return "Iff(" + i.L.String() + ", " + i.R.String() + ")"
}

// Distinct states that its terms are pairwise different.
type Distinct []Term

func (d Distinct) String() string {
	return "Distinct(" + joinTerms(d) + ")"
}

// ForAll is universal quantification.
type ForAll struct {
	Vars []Var
	Body Formula
}

func (q *ForAll) String() string {
	return "ForAll([" + joinVars(q.Vars) + "], " + q.Body.String() + ")"
}

// Exists is existential quantification.
type Exists struct {
	Vars []Var
	Body Formula
}

func (q *Exists) String() string {
	return "Exists([" + joinVars(q.Vars) + "], " + q.Body.String() + ")"
}

func (Truth) isFormula()    {}
func (*Atom) isFormula()    {}
func (*Eq) isFormula()      {}
func (*Cmp) isFormula()     {}
func (*Not) isFormula()     {}
func (And) isFormula()      {}
func (Or) isFormula()       {}
func (*Implies) isFormula() {}
func (*Iff) isFormula()     {}
func (Distinct) isFormula() {}
func (*ForAll) isFormula()  {}
func (*Exists) isFormula()  {}

func joinFormulas(fs []Formula) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = f.String()
	}
	return strings.Join(parts, ", ")
}

func joinVars(vs []Var) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.Name
	}
	return strings.Join(parts, ", ")
}
