// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package inter contains the interfaces between proof sessions and the
// decision procedures deciding their queries.
package inter

import (
	"context"

	"github.com/go-air/euclid/lang"
)

// Result is the outcome of a satisfiability check.
//
//	 1  Sat
//	 0  Unknown: the procedure gave up, ran out of time or cannot tell
//	-1  Unsat
//
// These codes follow gini's Solve.
type Result int

const (
	Unsat   Result = -1
	Unknown Result = 0
	Sat     Result = 1
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	}
	return "unknown"
}

// Asserter encapsulates something to which sentences can be added.
//
// Sentences must be closed and well sorted over the signature in use;
// implementations may reject anything else with an error.
type Asserter interface {
	Assert(fs ...lang.Formula) error
}

// Interface Scoped provides nested scopes on asserted sentences.  Pop
// forgets everything asserted since the matching Push.  Scopes nest.
type Scoped interface {
	Push() error
	Pop() error
}

// Interface Solvable encapsulates a decision procedure which may run for a
// long time.
//
// Check decides the conjunction of all sentences asserted in open scopes.
// If ctx carries a deadline, Check must return by then with Unknown rather
// than block.
type Solvable interface {
	Check(ctx context.Context) (Result, error)
}

// Interface S encapsulates a complete incremental decision procedure.
type S interface {
	Asserter
	Scoped
	Solvable

	// Close releases the resources of the procedure, such as an external
	// process.  The S must not be used afterwards.
	Close() error
}

// Axiomatizer is implemented by procedures which treat a background theory
// specially.  Sentences passed to Axiomatize are asserted permanently,
// outside of any scope.
type Axiomatizer interface {
	Axiomatize(fs ...lang.Formula) error
}

// Reasoner is implemented by procedures which can explain an Unknown
// result.
type Reasoner interface {
	// ReasonUnknown gives the reason for the last Unknown returned
	// by Check, or "" if the last Check was decided.
	ReasonUnknown() string
}
