// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package lang

import (
	"errors"
	"fmt"
)

var (
	ErrUndeclared = errors.New("undeclared symbol")
	ErrArity      = errors.New("arity mismatch")
	ErrSort       = errors.New("sort mismatch")
	ErrFree       = errors.New("free variable")
)

// Check verifies that f is a sentence over g: every symbol is declared in
// g and applied to the right number of terms of the right sorts, every
// variable is bound by an enclosing quantifier over a diagrammatic sort,
// and equalities and comparisons relate compatible sorts.
func (g *Signature) Check(f Formula) error {
	c := &checker{sig: g}
	return c.formula(f)
}

type checker struct {
	sig   *Signature
	scope []Var
}

func (c *checker) bound(v Var) (Var, bool) {
	for i := len(c.scope) - 1; i >= 0; i-- {
		if c.scope[i].Name == v.Name {
			return c.scope[i], true
		}
	}
	return Var{}, false
}

func (c *checker) formula(f Formula) error {
	switch f := f.(type) {
	case nil:
		return fmt.Errorf("%w: nil formula", ErrSort)
	case Truth:
		return nil
	case *Atom:
		if !f.Pred.Pred {
			return fmt.Errorf("%w: %s is a function, used as a predicate", ErrSort, f.Pred.Name)
		}
		return c.apply(f.Pred, f.Args)
	case *Eq:
		return c.relate("==", f.L, f.R, false)
	case *Cmp:
		return c.relate(f.Op.String(), f.L, f.R, true)
	case *Not:
		return c.formula(f.F)
	case And:
		return c.formulas(f)
	case Or:
		return c.formulas(f)
	case *Implies:
		if err := c.formula(f.If); err != nil {
			return err
		}
		return c.formula(f.Then)
	case *Iff:
		if err := c.formula(f.L); err != nil {
			return err
		}
		return c.formula(f.R)
	case Distinct:
		for i, t := range f {
			if err := c.term(t); err != nil {
				return err
			}
			if i > 0 && !compatible(f[0].Sort(), t.Sort()) {
				return fmt.Errorf("%w: %s: %s vs %s", ErrSort, f, f[0].Sort(), t.Sort())
			}
		}
		return nil
	case *ForAll:
		return c.quant(f.Vars, f.Body)
	case *Exists:
		return c.quant(f.Vars, f.Body)
	}
	return fmt.Errorf("%w: unknown formula %T", ErrSort, f)
}

func (c *checker) formulas(fs []Formula) error {
	for _, f := range fs {
		if err := c.formula(f); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) quant(vs []Var, body Formula) error {
	n := len(c.scope)
	defer func() { c.scope = c.scope[:n] }()
	for _, v := range vs {
		if !v.S.Diagrammatic() {
			return fmt.Errorf("%w: variable %s ranges over %s", ErrSort, v.Name, v.S)
		}
		c.scope = append(c.scope, v)
	}
	return c.formula(body)
}

func (c *checker) relate(op string, l, r Term, metric bool) error {
	if err := c.term(l); err != nil {
		return err
	}
	if err := c.term(r); err != nil {
		return err
	}
	if metric && !(l.Sort().Metric() && r.Sort().Metric()) {
		return fmt.Errorf("%w: %s %s %s compares non magnitudes", ErrSort, l, op, r)
	}
	if !compatible(l.Sort(), r.Sort()) {
		return fmt.Errorf("%w: %s %s %s: %s vs %s", ErrSort, l, op, r, l.Sort(), r.Sort())
	}
	return nil
}

func (c *checker) apply(y *Symbol, args []Term) error {
	if !c.sig.Has(y) {
		return fmt.Errorf("%w: %s", ErrUndeclared, y.Name)
	}
	if len(args) != len(y.Args) {
		return fmt.Errorf("%w: %s takes %d arguments, got %d", ErrArity, y.Name, len(y.Args), len(args))
	}
	for i, t := range args {
		if err := c.term(t); err != nil {
			return err
		}
		if t.Sort() != y.Args[i] {
			return fmt.Errorf("%w: argument %d of %s is %s, want %s", ErrSort, i+1, y.Name, t.Sort(), y.Args[i])
		}
	}
	return nil
}

func (c *checker) term(t Term) error {
	switch t := t.(type) {
	case nil:
		return fmt.Errorf("%w: nil term", ErrSort)
	case Const:
		if t.Name == "" || !t.S.Valid() || t.S == Real {
			return fmt.Errorf("%w: bad constant %q of sort %s", ErrSort, t.Name, t.S)
		}
		return nil
	case Var:
		b, ok := c.bound(t)
		if !ok {
			return fmt.Errorf("%w: %s", ErrFree, t.Name)
		}
		if b.S != t.S {
			return fmt.Errorf("%w: variable %s bound as %s, used as %s", ErrSort, t.Name, b.S, t.S)
		}
		return nil
	case *App:
		if t.Fn.Pred {
			return fmt.Errorf("%w: %s is a predicate, used as a term", ErrSort, t.Fn.Name)
		}
		return c.apply(t.Fn, t.Args)
	case Num:
		return nil
	case Sum:
		for _, u := range t {
			if err := c.term(u); err != nil {
				return err
			}
			if !u.Sort().Metric() {
				return fmt.Errorf("%w: summand %s is a %s", ErrSort, u, u.Sort())
			}
		}
		return nil
	}
	return fmt.Errorf("%w: unknown term %T", ErrSort, t)
}
