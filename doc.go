// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package euclid checks geometric constructions and claims in the
// language E of Avigad, Dean and Mumma against a decision procedure.
//
// A Session holds the axioms of E as background truth.  Points, lines and
// circles are drafted with NewPoint, NewLine and NewCircle, described by
// construction methods such as Point.Between or Line.Through, and then
// committed with Construct, which succeeds only if their preconditions and
// postconditions are consistent with everything established so far.
// Hence asks whether a claim follows; if it does the claim becomes part
// of the session.
//
//	s, err := euclid.New(ctx, ground.New())
//	a, _ := s.NewPoint("a")
//	b, _ := s.NewPoint("b")
//	...
//	l, _ := s.NewLine("L")
//	l.Through(a, b)
//	err = s.Construct(ctx, l)
//
// Every operation either commits completely or leaves the session as it
// was.  Rejections are returned as *Rejection errors telling which
// sentence could not be established.  A decision procedure giving up is
// reported as undecided, never as success.
//
// Decision procedures implement inter.S; see packages smtlib and ground.
package euclid
