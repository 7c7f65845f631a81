// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package ground provides a decision procedure for the language E which
// needs no external solver.
//
// On each Check, every sentence is grounded over the constants it mentions:
// universally quantified variables are instantiated with every constant of
// their sort (or with one anonymous element if there is none), equality
// between constants becomes a propositional variable constrained by
// transitivity and congruence, and the result is put in conjunctive normal
// form with a gini logic.C circuit and decided by gini.
//
// Atoms about magnitudes (segments, angles, areas) are not interpreted;
// each distinct such atom is a free proposition.  The grounding is thus a
// relaxation of the sentences and an Unsat result is exact.  By Herbrand's
// theorem, so is a Sat result when no asserted sentence mentions a
// magnitude, with the metric part of the background theory taken as
// unconstrained.  Otherwise a Sat result is reported as Unknown.
//
// An existential in positive position is expanded into a disjunction over
// the constants, which strengthens it: a Sat result stays exact, an Unsat
// result obtained that way is reported as Unknown.
package ground
