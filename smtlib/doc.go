// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package smtlib decides sentences of the language E with an external SMT
// solver speaking SMT-LIB 2 over its standard input and output.
//
// Protocol
//
// The solver is started once per Solver and kept running.  The session is
//
//	(set-option :print-success true)
//	(echo "euclid")
//	(set-logic UFLRA)
//	<declarations of the signature>
//	( (push 1) | (pop 1) | (declare-const ...) | (assert ...) |
//	  (set-option :timeout <ms>) | (check-sat) (get-info :reason-unknown)? )*
//	(exit)
//
// Every command is answered before the next is sent: "success" for
// commands, one of sat, unsat or unknown for check-sat, and an
// s-expression for get-info.  An (error "...") response is returned to the
// caller as an error and does not end the session.
//
// Sorts Point, Line and Circle are declared with declare-sort; magnitudes
// are Real.  Constants are declared when first asserted, in the current
// scope, so that popping the scope forgets them on both sides.
//
// Timeouts
//
// If the context passed to Check has a deadline, the remaining time is
// given to the solver with the configured timeout option.  Should the
// solver not answer within the deadline plus a grace period, the process is
// killed, restarted and brought back to the current state by replaying the
// commands of all open scopes, and Check returns Unknown.
//
// Scripts
//
// WriteScript writes a standalone .smt2 file stating the axioms and facts,
// for running a query offline.
package smtlib
