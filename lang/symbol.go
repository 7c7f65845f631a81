// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package lang

import (
	"fmt"
	"strings"
)

// Symbol is a relation or function symbol.
type Symbol struct {
	Name   string
	Args   []Sort
	Result Sort // meaningless when Pred
	Pred   bool
}

// Arity is the number of arguments of y.
func (y *Symbol) Arity() int {
	return len(y.Args)
}

// String gives the declaration of y, for example
//
//	On(Point, Line)
//	Segment(Point, Point) -> Segment
func (y *Symbol) String() string {
	var b strings.Builder
	b.WriteString(y.Name)
	if len(y.Args) > 0 || y.Pred {
		b.WriteByte('(')
		for i, s := range y.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(s.String())
		}
		b.WriteByte(')')
	}
	if !y.Pred {
		fmt.Fprintf(&b, " -> %s", y.Result)
	}
	return b.String()
}

// The symbols of the language E.
var (
	SymOn           = &Symbol{Name: "On", Args: []Sort{Point, Line}, Pred: true}
	SymOnCircle     = &Symbol{Name: "OnCircle", Args: []Sort{Point, Circle}, Pred: true}
	SymInside       = &Symbol{Name: "Inside", Args: []Sort{Point, Circle}, Pred: true}
	SymCenter       = &Symbol{Name: "Center", Args: []Sort{Point, Circle}, Pred: true}
	SymBetween      = &Symbol{Name: "Between", Args: []Sort{Point, Point, Point}, Pred: true}
	SymSameSide     = &Symbol{Name: "SameSide", Args: []Sort{Point, Point, Line}, Pred: true}
	SymIntersectsLL = &Symbol{Name: "IntersectsLL", Args: []Sort{Line, Line}, Pred: true}
	SymIntersectsLC = &Symbol{Name: "IntersectsLC", Args: []Sort{Line, Circle}, Pred: true}
	SymIntersectsCC = &Symbol{Name: "IntersectsCC", Args: []Sort{Circle, Circle}, Pred: true}

	SymSegment    = &Symbol{Name: "Segment", Args: []Sort{Point, Point}, Result: Segment}
	SymAngle      = &Symbol{Name: "Angle", Args: []Sort{Point, Point, Point}, Result: Angle}
	SymArea       = &Symbol{Name: "Area", Args: []Sort{Point, Point, Point}, Result: Area}
	SymRightAngle = &Symbol{Name: "RightAngle", Result: Angle}
)

// E is the signature of the language E.
var E = mustSignature(
	SymOn, SymOnCircle, SymInside, SymCenter, SymBetween, SymSameSide,
	SymIntersectsLL, SymIntersectsLC, SymIntersectsCC,
	SymSegment, SymAngle, SymArea, SymRightAngle)

// Signature is an immutable symbol table.
type Signature struct {
	syms   []*Symbol
	byName map[string]*Symbol
}

// NewSignature creates a signature holding syms.  Symbol names must be
// unique and non-empty, and functions must be real valued.
func NewSignature(syms ...*Symbol) (*Signature, error) {
	g := &Signature{
		syms:   make([]*Symbol, 0, len(syms)),
		byName: make(map[string]*Symbol, len(syms))}
	for _, y := range syms {
		if y == nil || y.Name == "" {
			return nil, fmt.Errorf("%w: empty symbol", ErrSort)
		}
		if _, dup := g.byName[y.Name]; dup {
			return nil, fmt.Errorf("duplicate symbol %q", y.Name)
		}
		for _, s := range y.Args {
			if !s.Valid() || s == Real {
				return nil, fmt.Errorf("%w: symbol %s has argument sort %s", ErrSort, y.Name, s)
			}
		}
		if !y.Pred && !y.Result.Metric() {
			return nil, fmt.Errorf("%w: function %s must be real valued", ErrSort, y.Name)
		}
		g.syms = append(g.syms, y)
		g.byName[y.Name] = y
	}
	return g, nil
}

func mustSignature(syms ...*Symbol) *Signature {
	g, err := NewSignature(syms...)
	if err != nil {
		panic(err)
	}
	return g
}

// Lookup finds the symbol named name.
func (g *Signature) Lookup(name string) (*Symbol, bool) {
	y, ok := g.byName[name]
	return y, ok
}

// Has returns whether y is the symbol of its name in g.
func (g *Signature) Has(y *Symbol) bool {
	z, ok := g.byName[y.Name]
	return ok && z == y
}

// Symbols returns the symbols of g in declaration order.
func (g *Signature) Symbols() []*Symbol {
	res := make([]*Symbol, len(g.syms))
	copy(res, g.syms)
	return res
}

// Len returns the number of symbols in g.
func (g *Signature) Len() int {
	return len(g.syms)
}
