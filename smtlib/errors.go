// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package smtlib

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInstalled indicates the solver binary was not found.
	ErrNotInstalled = errors.New("smt solver not installed")

	// ErrCrashed indicates the solver process terminated unexpectedly.
	ErrCrashed = errors.New("smt solver crashed")

	// ErrClosed indicates use of a closed Solver.
	ErrClosed = errors.New("smt solver closed")

	// ErrPop indicates a pop without matching push.
	ErrPop = errors.New("pop without push")
)

// Error is an (error ...) response of the solver.
type Error struct {
	Command string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("smt error on %s: %s", e.Command, e.Message)
}

// UnexpectedError is a response which does not fit the command.
type UnexpectedError struct {
	Command  string
	Response string
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("smt: unexpected response %q to %s", e.Response, e.Command)
}
