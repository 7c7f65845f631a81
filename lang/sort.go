// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package lang

import "fmt"

// Sort is the type of a term.
type Sort uint8

const (
	Point Sort = iota
	Line
	Circle
	Segment
	Angle
	Area
	// Real is the sort of numerals and of sums mixing magnitudes.
	Real
)

var sortNames = [...]string{"Point", "Line", "Circle", "Segment", "Angle", "Area", "Real"}

// Sorts lists the six sorts of the language in declaration order.
var Sorts = []Sort{Point, Line, Circle, Segment, Angle, Area}

// Diagrammatic returns whether s is Point, Line or Circle.
func (s Sort) Diagrammatic() bool {
	return s <= Circle
}

// Metric returns whether s is real valued.
func (s Sort) Metric() bool {
	return s >= Segment && s <= Real
}

// Valid returns whether s is a known sort.
func (s Sort) Valid() bool {
	return int(s) < len(sortNames)
}

func (s Sort) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Sort(%d)", s)
	}
	return sortNames[s]
}

// compatible reports whether terms of sorts a and b may be compared.
func compatible(a, b Sort) bool {
	if a.Metric() && b.Metric() {
		return true
	}
	return a == b
}
