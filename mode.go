// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package euclid

import "fmt"

// Mode decides what Hence establishes.
type Mode int

const (
	// Entailment accepts a claim whose negation is unsatisfiable with
	// the session.
	Entailment Mode = iota
	// Consistency accepts a claim which is satisfiable with the session.
	// It is weaker than entailment: both a claim and its negation may be
	// accepted.
	Consistency
)

func (m Mode) String() string {
	switch m {
	case Entailment:
		return "entailment"
	case Consistency:
		return "consistency"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "entailment", "":
		return Entailment, nil
	case "consistency":
		return Consistency, nil
	}
	return 0, fmt.Errorf("unknown proof mode %q", s)
}

// Verdict is the outcome of Hence.
type Verdict int

const (
	NotEntailed Verdict = iota
	Entailed
	// Undecided means the decision procedure gave up.
	Undecided
)

var verdicts = [...]string{"not entailed", "entailed", "undecided"}

func (v Verdict) String() string {
	return verdicts[v]
}
