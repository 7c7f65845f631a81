// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package euclid

import (
	"errors"
	"strings"

	"github.com/go-air/euclid/axiom"
	"github.com/go-air/euclid/inter"
	"github.com/go-air/euclid/lang"
)

var (
	// ErrMalformedAxiom is fatal: the session cannot be created.
	ErrMalformedAxiom = axiom.ErrMalformed

	ErrInconsistentAxioms = errors.New("axioms are inconsistent")
	ErrUnknownLabel       = errors.New("unknown label")
	ErrDuplicateLabel     = errors.New("duplicate label")
	ErrBadLabel           = errors.New("bad label")
	ErrConstructed        = errors.New("already constructed")
	ErrForeignEntity      = errors.New("entity of another session")
	ErrClosed             = errors.New("session closed")
	ErrBroken             = errors.New("session broken by a failed commit")

	// Errors carried by a *Rejection.
	ErrPreconditionUnmet = errors.New("construction rejected")
	ErrNotEntailed       = errors.New("not entailed")
	ErrInconsistent      = errors.New("inconsistent assumption")
	ErrUndecided         = errors.New("undecided")
)

// Stage tells which sentence of an operation was rejected.
type Stage int

const (
	StagePrecondition Stage = iota
	StagePostcondition
	StageClaim
	StageAssumption
)

var stageNames = [...]string{"precondition", "postcondition", "claim", "assumption"}

func (s Stage) String() string {
	return stageNames[s]
}

// Rejection is the outcome of an operation which left the session
// unchanged because a sentence could not be established.
//
// Errors.Is matches a Rejection against ErrPreconditionUnmet (construct),
// ErrNotEntailed (hence) or ErrInconsistent (assume), and also against
// ErrUndecided when the decision procedure gave up.
type Rejection struct {
	Op      string
	Label   string // the entity, for construct
	Stage   Stage
	Formula lang.Formula // nil if no single sentence is to blame
	Result  inter.Result
	Reason  string // why the result is Unknown
}

func (r *Rejection) Error() string {
	var b strings.Builder
	b.WriteString(r.Op)
	if r.Label != "" {
		b.WriteString(" " + r.Label)
	}
	b.WriteString(": ")
	if r.Formula != nil {
		b.WriteString(r.Stage.String() + " " + r.Formula.String() + ": ")
	}
	switch {
	case r.Undecided():
		b.WriteString("undecided")
		if r.Reason != "" {
			b.WriteString(" (" + r.Reason + ")")
		}
	case r.Op == opHence:
		b.WriteString("not entailed")
	default:
		b.WriteString("unsatisfiable")
	}
	return b.String()
}

// Undecided reports whether the decision procedure gave up rather than
// refuting.
func (r *Rejection) Undecided() bool {
	return r.Result == inter.Unknown
}

func (r *Rejection) Is(target error) bool {
	switch target {
	case ErrUndecided:
		return r.Undecided()
	case ErrPreconditionUnmet:
		return r.Op == opConstruct
	case ErrNotEntailed:
		return r.Op == opHence
	case ErrInconsistent:
		return r.Op == opAssume
	}
	return false
}
