// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package axiom holds the axioms of the formal system E of Avigad, Dean and
// Mumma, written in the language of package lang.
package axiom

import (
	"errors"
	"fmt"

	"github.com/go-air/euclid/lang"
)

// ErrMalformed is returned by Validate for an axiom which is not a closed,
// well sorted sentence of the signature.
var ErrMalformed = errors.New("malformed axiom")

// Axiom is a named sentence of the background theory.
type Axiom struct {
	Name    string
	Group   Group
	Formula lang.Formula
}

func (a Axiom) String() string {
	return a.Name + ": " + a.Formula.String()
}

// Group classifies axioms the way E does.
type Group string

const (
	Generality      Group = "generality"
	Betweenness     Group = "betweenness"
	SameSides       Group = "same-side"
	Pasch           Group = "pasch"
	TripleIncidence Group = "triple-incidence"
	Circles         Group = "circle"
	Intersection    Group = "intersection"
	Segments        Group = "segment"
	Angles          Group = "angle"
	Areas           Group = "area"
	SegmentTransfer Group = "transfer-segment"
	AngleTransfer   Group = "transfer-angle"
	AreaTransfer    Group = "transfer-area"
)

// Groups lists the groups in the order of Set.
var Groups = []Group{
	Generality, Betweenness, SameSides, Pasch, TripleIncidence, Circles,
	Intersection, Segments, Angles, Areas, SegmentTransfer, AngleTransfer,
	AreaTransfer}

// Validate checks that every axiom in as is a sentence over sig with a
// unique name.  The error names the first offending axiom.
func Validate(sig *lang.Signature, as []Axiom) error {
	names := make(map[string]bool, len(as))
	for _, a := range as {
		if a.Name == "" || names[a.Name] {
			return fmt.Errorf("%w: duplicate or empty name %q", ErrMalformed, a.Name)
		}
		names[a.Name] = true
		if a.Formula == nil {
			return fmt.Errorf("%w: %s has no formula", ErrMalformed, a.Name)
		}
		if err := sig.Check(a.Formula); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrMalformed, a.Name, err)
		}
	}
	return nil
}

// Formulas returns the sentences of as.
func Formulas(as []Axiom) []lang.Formula {
	fs := make([]lang.Formula, len(as))
	for i := range as {
		fs[i] = as[i].Formula
	}
	return fs
}

// Select returns the axioms of as belonging to one of gs.
func Select(as []Axiom, gs ...Group) []Axiom {
	var res []Axiom
	for _, a := range as {
		for _, g := range gs {
			if a.Group == g {
				res = append(res, a)
				break
			}
		}
	}
	return res
}
