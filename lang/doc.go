// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package lang contains the language of E: its six sorts, the fixed symbol
// table, and first order terms and formulas over them.
//
// Sorts Point, Line and Circle are uninterpreted.  Segment, Angle and Area
// are real valued magnitudes of diagrammatic objects.  Formulas are plain
// values; they are built with the constructors in this package and printed
// deterministically, so their String() form can serve as an identity.
//
// A Signature is the symbol table of a session.  It is built once and never
// extended; Check verifies that a formula only uses symbols of the signature,
// with the right arities and sorts.
package lang
