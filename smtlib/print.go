// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package smtlib

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/go-air/euclid/lang"
)

var simple = regexp.MustCompile(`^[A-Za-z~!@$%^&*_+=<>.?/\-][0-9A-Za-z~!@$%^&*_+=<>.?/\-]*$`)

var reserved = map[string]bool{
	"true": true, "false": true, "not": true, "and": true, "or": true,
	"distinct": true, "ite": true, "let": true, "forall": true, "exists": true,
	"par": true, "as": true, "_": true, "!": true, "Real": true, "Int": true,
	"Bool": true, "assert": true, "=>": true, "=": true,
}

// Ident returns name as an SMT-LIB symbol, quoting it when needed.
func Ident(name string) string {
	if simple.MatchString(name) && !reserved[name] {
		return name
	}
	return "|" + strings.ReplaceAll(name, "|", "") + "|"
}

// SortName gives the SMT-LIB sort of s.
func SortName(s lang.Sort) string {
	if s.Metric() {
		return "Real"
	}
	return s.String()
}

// Declarations returns the commands declaring the sorts and symbols of sig.
func Declarations(sig *lang.Signature) []string {
	var res []string
	for _, s := range []lang.Sort{lang.Point, lang.Line, lang.Circle} {
		res = append(res, "(declare-sort "+s.String()+" 0)")
	}
	for _, y := range sig.Symbols() {
		var b strings.Builder
		b.WriteString("(declare-fun ")
		b.WriteString(Ident(y.Name))
		b.WriteString(" (")
		for i, s := range y.Args {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(SortName(s))
		}
		b.WriteString(") ")
		if y.Pred {
			b.WriteString("Bool")
		} else {
			b.WriteString(SortName(y.Result))
		}
		b.WriteByte(')')
		res = append(res, b.String())
	}
	return res
}

// DeclareConst returns the command declaring k.
func DeclareConst(k lang.Const) string {
	return "(declare-const " + Ident(k.Name) + " " + SortName(k.S) + ")"
}

// Formula prints f as an SMT-LIB term of sort Bool.
func Formula(f lang.Formula) string {
	var p printer
	p.formula(f)
	return p.String()
}

// Term prints t as an SMT-LIB term.
func Term(t lang.Term) string {
	var p printer
	p.term(t)
	return p.String()
}

type printer struct {
	strings.Builder
}

func (p *printer) open(op string) {
	p.WriteByte('(')
	p.WriteString(op)
}

func (p *printer) formulas(op string, fs []lang.Formula) {
	p.open(op)
	for _, f := range fs {
		p.WriteByte(' ')
		p.formula(f)
	}
	p.WriteByte(')')
}

func (p *printer) terms(op string, ts []lang.Term) {
	p.open(op)
	for _, t := range ts {
		p.WriteByte(' ')
		p.term(t)
	}
	p.WriteByte(')')
}

func (p *printer) formula(f lang.Formula) {
	switch f := f.(type) {
	case lang.Truth:
		if f {
			p.WriteString("true")
		} else {
			p.WriteString("false")
		}
	case *lang.Atom:
		if len(f.Args) == 0 {
			p.WriteString(Ident(f.Pred.Name))
			return
		}
		p.terms(Ident(f.Pred.Name), f.Args)
	case *lang.Eq:
		p.terms("=", []lang.Term{f.L, f.R})
	case *lang.Cmp:
		p.terms(f.Op.String(), []lang.Term{f.L, f.R})
	case *lang.Not:
		p.formulas("not", []lang.Formula{f.F})
	case lang.And:
		switch len(f) {
		case 0:
			p.WriteString("true")
		case 1:
			p.formula(f[0])
		default:
			p.formulas("and", f)
		}
	case lang.Or:
		switch len(f) {
		case 0:
			p.WriteString("false")
		case 1:
			p.formula(f[0])
		default:
			p.formulas("or", f)
		}
	case *lang.Implies:
		p.formulas("=>", []lang.Formula{f.If, f.Then})
	case *lang.Iff:
		p.formulas("=", []lang.Formula{f.L, f.R})
	case lang.Distinct:
		if len(f) < 2 {
			p.WriteString("true")
			return
		}
		p.terms("distinct", f)
	case *lang.ForAll:
		p.quant("forall", f.Vars, f.Body)
	case *lang.Exists:
		p.quant("exists", f.Vars, f.Body)
	}
}

func (p *printer) quant(q string, vs []lang.Var, body lang.Formula) {
	if len(vs) == 0 {
		p.formula(body)
		return
	}
	p.open(q)
	p.WriteString(" (")
	for i, v := range vs {
		if i > 0 {
			p.WriteByte(' ')
		}
		p.WriteString("(" + Ident(v.Name) + " " + SortName(v.S) + ")")
	}
	p.WriteString(") ")
	p.formula(body)
	p.WriteByte(')')
}

func (p *printer) term(t lang.Term) {
	switch t := t.(type) {
	case lang.Const:
		p.WriteString(Ident(t.Name))
	case lang.Var:
		p.WriteString(Ident(t.Name))
	case *lang.App:
		if len(t.Args) == 0 {
			p.WriteString(Ident(t.Fn.Name))
			return
		}
		p.terms(Ident(t.Fn.Name), t.Args)
	case lang.Num:
		p.num(t.Rat())
	case lang.Sum:
		switch len(t) {
		case 0:
			p.WriteString("0.0")
		case 1:
			p.term(t[0])
		default:
			p.terms("+", t)
		}
	}
}

func (p *printer) num(r *big.Rat) {
	neg := r.Sign() < 0
	if neg {
		r = new(big.Rat).Neg(r)
		p.WriteString("(- ")
	}
	if r.IsInt() {
		p.WriteString(r.Num().String() + ".0")
	} else {
		p.WriteString("(/ " + r.Num().String() + ".0 " + r.Denom().String() + ".0)")
	}
	if neg {
		p.WriteByte(')')
	}
}
