// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package lang

// Walk calls ft for every term occurrence in f, outermost first.  ft
// may be nil.
func Walk(f Formula, ft func(Term)) {
	if ft == nil {
		return
	}
	switch f := f.(type) {
	case *Atom:
		walkTerms(f.Args, ft)
	case *Eq:
		walkTerm(f.L, ft)
		walkTerm(f.R, ft)
	case *Cmp:
		walkTerm(f.L, ft)
		walkTerm(f.R, ft)
	case *Not:
		Walk(f.F, ft)
	case And:
		for _, g := range f {
			Walk(g, ft)
		}
	case Or:
		for _, g := range f {
			Walk(g, ft)
		}
	case *Implies:
		Walk(f.If, ft)
		Walk(f.Then, ft)
	case *Iff:
		Walk(f.L, ft)
		Walk(f.R, ft)
	case Distinct:
		walkTerms(f, ft)
	case *ForAll:
		Walk(f.Body, ft)
	case *Exists:
		Walk(f.Body, ft)
	}
}

func walkTerms(ts []Term, ft func(Term)) {
	for _, t := range ts {
		walkTerm(t, ft)
	}
}

func walkTerm(t Term, ft func(Term)) {
	ft(t)
	switch t := t.(type) {
	case *App:
		walkTerms(t.Args, ft)
	case Sum:
		walkTerms(t, ft)
	}
}

// Consts returns the constants occurring in fs, each once, in order of
// first occurrence.
func Consts(fs ...Formula) []Const {
	var res []Const
	seen := make(map[Const]bool)
	for _, f := range fs {
		Walk(f, func(t Term) {
			if c, ok := t.(Const); ok && !seen[c] {
				seen[c] = true
				res = append(res, c)
			}
		})
	}
	return res
}

// Metric returns whether f mentions a magnitude.
func Metric(f Formula) bool {
	m := false
	Walk(f, func(t Term) {
		if t.Sort().Metric() {
			m = true
		}
	})
	return m
}

// Quantified returns whether f contains a quantifier.
func Quantified(f Formula) bool {
	switch f := f.(type) {
	case *ForAll, *Exists:
		return true
	case *Not:
		return Quantified(f.F)
	case And:
		for _, g := range f {
			if Quantified(g) {
				return true
			}
		}
	case Or:
		for _, g := range f {
			if Quantified(g) {
				return true
			}
		}
	case *Implies:
		return Quantified(f.If) || Quantified(f.Then)
	case *Iff:
		return Quantified(f.L) || Quantified(f.R)
	}
	return false
}
