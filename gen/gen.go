// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/go-air/euclid/lang"
)

// make the rng seedable
var rng = rand.New(rand.NewSource(33))
var mu sync.Mutex

func Seed(s int64) {
	mu.Lock()
	defer mu.Unlock()
	rng = rand.New(rand.NewSource(s))
}

// Diagram is a set of labelled objects with facts about them.
type Diagram struct {
	Points  []lang.Const
	Lines   []lang.Const
	Circles []lang.Const
	Facts   []lang.Formula
}

// Consts returns all objects of d, points first.
func (d *Diagram) Consts() []lang.Const {
	res := make([]lang.Const, 0, len(d.Points)+len(d.Lines)+len(d.Circles))
	res = append(res, d.Points...)
	res = append(res, d.Lines...)
	return append(res, d.Circles...)
}

func names(prefix string, n int, s lang.Sort) []lang.Const {
	res := make([]lang.Const, n)
	for i := range res {
		res[i] = lang.C(fmt.Sprintf("%s%d", prefix, i), s)
	}
	return res
}

// Collinear generates n >= 2 distinct points p0 .. p(n-1) on line L0,
// in order: pi is between p(i-1) and p(i+1).
func Collinear(n int) *Diagram {
	d := &Diagram{Points: names("p", n, lang.Point), Lines: names("L", 1, lang.Line)}
	ps := make(lang.Distinct, n)
	for i, p := range d.Points {
		ps[i] = p
		d.Facts = append(d.Facts, lang.On(p, d.Lines[0]))
	}
	d.Facts = append(d.Facts, ps)
	for i := 1; i+1 < n; i++ {
		d.Facts = append(d.Facts, lang.Between(d.Points[i-1], d.Points[i], d.Points[i+1]))
	}
	return d
}

// Pencil generates n >= 2 distinct lines L0 .. L(n-1) through the point o,
// with one more point pi on each line Li.
func Pencil(n int) *Diagram {
	o := lang.C("o", lang.Point)
	d := &Diagram{
		Points: append([]lang.Const{o}, names("p", n, lang.Point)...),
		Lines:  names("L", n, lang.Line)}
	ls := make(lang.Distinct, n)
	for i, l := range d.Lines {
		ls[i] = l
		p := d.Points[i+1]
		d.Facts = append(d.Facts, lang.On(o, l), lang.On(p, l), lang.Neq(p, o))
	}
	d.Facts = append(d.Facts, ls)
	return d
}

// RandIncidence generates np points and nl lines with m random, possibly
// contradictory, incidence facts.
func RandIncidence(np, nl, m int) *Diagram {
	mu.Lock() // for package rng
	defer mu.Unlock()
	d := &Diagram{Points: names("p", np, lang.Point), Lines: names("L", nl, lang.Line)}
	for i := 0; i < m; i++ {
		p := d.Points[rng.Intn(np)]
		l := d.Lines[rng.Intn(nl)]
		f := lang.On(p, l)
		if rng.Intn(2) == 0 {
			f = lang.Neg(f)
		}
		d.Facts = append(d.Facts, f)
	}
	return d
}
