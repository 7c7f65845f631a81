// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package ground

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/go-air/euclid/lang"
)

type polarity int8

const (
	pos polarity = iota
	neg
	both
)

func (p polarity) flip() polarity {
	switch p {
	case pos:
		return neg
	case neg:
		return pos
	}
	return both
}

// binding maps a quantified variable to an element of its sort.
type binding struct {
	v   lang.Var
	elt int
}

// atom is a ground predicate atom, kept for congruence.
type atom struct {
	args []int
	m    z.Lit
}

type grounder struct {
	c     *logic.C
	names [lang.Circle + 1][]string
	index map[lang.Const]int
	eqs   [lang.Circle + 1]map[[2]int]z.Lit
	preds map[*lang.Symbol][]atom
	props map[string]z.Lit
	env   []binding

	inst, max int
	overflow  bool
	expanded  bool
	err       error
}

// newGrounder builds the universe: the diagrammatic constants of fs, or one
// anonymous element per sort without constants.
func newGrounder(max int, fss ...[]lang.Formula) *grounder {
	g := &grounder{
		c:     logic.NewC(),
		index: make(map[lang.Const]int),
		preds: make(map[*lang.Symbol][]atom),
		props: make(map[string]z.Lit),
		max:   max}
	for _, fs := range fss {
		for _, k := range lang.Consts(fs...) {
			if !k.S.Diagrammatic() {
				continue
			}
			g.index[k] = len(g.names[k.S])
			g.names[k.S] = append(g.names[k.S], k.Name)
		}
	}
	for s := lang.Point; s <= lang.Circle; s++ {
		if len(g.names[s]) == 0 {
			g.names[s] = []string{"_" + s.String()}
		}
		g.eqs[s] = make(map[[2]int]z.Lit)
	}
	return g
}

// run grounds fss and returns the literals which must hold.
func (g *grounder) run(ctx context.Context, fss ...[]lang.Formula) ([]z.Lit, error) {
	var roots []z.Lit
	for _, fs := range fss {
		for _, f := range fs {
			if ctx.Err() != nil || g.overflow {
				return roots, nil
			}
			m := g.formula(f, pos)
			if g.err != nil {
				return nil, g.err
			}
			roots = append(roots, m)
		}
	}
	roots = append(roots, g.equality()...)
	return roots, nil
}

func (g *grounder) formula(f lang.Formula, p polarity) z.Lit {
	c := g.c
	switch f := f.(type) {
	case lang.Truth:
		if f {
			return c.T
		}
		return c.F
	case *lang.Atom:
		return g.atom(f.Pred, f.Args)
	case *lang.Eq:
		if f.L.Sort().Diagrammatic() {
			return g.eq(f.L.Sort(), g.elt(f.L), g.elt(f.R))
		}
		return g.metricEq(f.L, f.R)
	case *lang.Cmp:
		l, r, op := f.L, f.R, f.Op
		switch op {
		case lang.Gt:
			l, r, op = r, l, lang.Lt
		case lang.Ge:
			l, r, op = r, l, lang.Le
		}
		return g.prop(op.String() + "(" + g.key(l) + "," + g.key(r) + ")")
	case *lang.Not:
		return g.formula(f.F, p.flip()).Not()
	case lang.And:
		ms := make([]z.Lit, len(f))
		for i, h := range f {
			ms[i] = g.formula(h, p)
		}
		return c.Ands(ms...)
	case lang.Or:
		ms := make([]z.Lit, len(f))
		for i, h := range f {
			ms[i] = g.formula(h, p)
		}
		return c.Ors(ms...)
	case *lang.Implies:
		return c.Implies(g.formula(f.If, p.flip()), g.formula(f.Then, p))
	case *lang.Iff:
		a, b := g.formula(f.L, both), g.formula(f.R, both)
		return c.And(c.Implies(a, b), c.Implies(b, a))
	case lang.Distinct:
		var ms []z.Lit
		for i := range f {
			for j := i + 1; j < len(f); j++ {
				if f[i].Sort().Diagrammatic() {
					ms = append(ms, g.eq(f[i].Sort(), g.elt(f[i]), g.elt(f[j])).Not())
				} else {
					ms = append(ms, g.metricEq(f[i], f[j]).Not())
				}
			}
		}
		return c.Ands(ms...)
	case *lang.ForAll:
		if p != pos {
			g.expanded = true
		}
		return g.quant(f.Vars, f.Body, p, true)
	case *lang.Exists:
		if p != neg {
			g.expanded = true
		}
		return g.quant(f.Vars, f.Body, p, false)
	}
	g.fail(fmt.Errorf("ground: unknown formula %T", f))
	return c.T
}

// quant instantiates vs in body with all elements, returning the
// conjunction (all) or disjunction of the instances.
func (g *grounder) quant(vs []lang.Var, body lang.Formula, p polarity, all bool) z.Lit {
	var ms []z.Lit
	var rec func(i int)
	rec = func(i int) {
		if g.overflow || g.err != nil {
			return
		}
		if i == len(vs) {
			g.inst++
			if g.inst > g.max {
				g.overflow = true
				return
			}
			ms = append(ms, g.formula(body, p))
			return
		}
		v := vs[i]
		if !v.S.Diagrammatic() {
			g.fail(fmt.Errorf("ground: cannot quantify over %s", v.S))
			return
		}
		for e := range g.names[v.S] {
			g.env = append(g.env, binding{v: v, elt: e})
			rec(i + 1)
			g.env = g.env[:len(g.env)-1]
		}
	}
	rec(0)
	if all {
		return g.c.Ands(ms...)
	}
	return g.c.Ors(ms...)
}

func (g *grounder) fail(err error) {
	if g.err == nil {
		g.err = err
	}
}

// elt evaluates a diagrammatic term to an element index.
func (g *grounder) elt(t lang.Term) int {
	switch t := t.(type) {
	case lang.Const:
		if i, ok := g.index[t]; ok {
			return i
		}
		g.fail(fmt.Errorf("ground: constant %s not in universe", t.Name))
	case lang.Var:
		for i := len(g.env) - 1; i >= 0; i-- {
			if g.env[i].v == t {
				return g.env[i].elt
			}
		}
		g.fail(fmt.Errorf("ground: free variable %s", t.Name))
	default:
		g.fail(fmt.Errorf("ground: %s is not a diagrammatic term", t))
	}
	return 0
}

// eq is the literal for element i equals element j of sort s.
func (g *grounder) eq(s lang.Sort, i, j int) z.Lit {
	if i == j {
		return g.c.T
	}
	if i > j {
		i, j = j, i
	}
	k := [2]int{i, j}
	m, ok := g.eqs[s][k]
	if !ok {
		m = g.c.Lit()
		g.eqs[s][k] = m
	}
	return m
}

func (g *grounder) atom(y *lang.Symbol, ts []lang.Term) z.Lit {
	args := make([]int, len(ts))
	var b strings.Builder
	b.WriteString(y.Name)
	for i, t := range ts {
		args[i] = g.elt(t)
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(args[i]))
	}
	k := b.String()
	if m, ok := g.props[k]; ok {
		return m
	}
	m := g.c.Lit()
	g.props[k] = m
	g.preds[y] = append(g.preds[y], atom{args: args, m: m})
	return m
}

func (g *grounder) metricEq(l, r lang.Term) z.Lit {
	kl, kr := g.key(l), g.key(r)
	if kl == kr {
		return g.c.T
	}
	if kl > kr {
		kl, kr = kr, kl
	}
	return g.prop("=(" + kl + "," + kr + ")")
}

// prop is the free proposition standing for an uninterpreted metric atom.
func (g *grounder) prop(k string) z.Lit {
	k = "#" + k
	m, ok := g.props[k]
	if !ok {
		m = g.c.Lit()
		g.props[k] = m
	}
	return m
}

// key prints a metric term with bound variables replaced by elements.
func (g *grounder) key(t lang.Term) string {
	switch t := t.(type) {
	case lang.Const:
		if t.S.Diagrammatic() {
			return g.names[t.S][g.elt(t)]
		}
		return t.Name
	case lang.Var:
		return g.names[t.S][g.elt(t)]
	case *lang.App:
		if len(t.Args) == 0 {
			return t.Fn.Name
		}
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = g.key(a)
		}
		return t.Fn.Name + "(" + strings.Join(parts, ",") + ")"
	case lang.Sum:
		parts := make([]string, len(t))
		for i, a := range t {
			parts[i] = g.key(a)
		}
		return "(" + strings.Join(parts, "+") + ")"
	}
	return t.String()
}

// equality returns the transitivity and congruence constraints over the
// equality literals created so far.
func (g *grounder) equality() []z.Lit {
	c := g.c
	var res []z.Lit
	for s := lang.Point; s <= lang.Circle; s++ {
		n := len(g.names[s])
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				for k := j + 1; k < n; k++ {
					ij, jk, ik := g.eq(s, i, j), g.eq(s, j, k), g.eq(s, i, k)
					res = append(res,
						c.Implies(c.And(ij, jk), ik),
						c.Implies(c.And(ij, ik), jk),
						c.Implies(c.And(ik, jk), ij))
				}
			}
		}
	}
	for y, as := range g.preds {
		for i := range as {
			for j := i + 1; j < len(as); j++ {
				same := c.T
				for k, srt := range y.Args {
					same = c.And(same, g.eq(srt, as[i].args[k], as[j].args[k]))
				}
				res = append(res, c.Implies(same, c.And(
					c.Implies(as[i].m, as[j].m),
					c.Implies(as[j].m, as[i].m))))
			}
		}
	}
	return res
}
