// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package smtlib

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-air/euclid/axiom"
	"github.com/go-air/euclid/inter"
	"github.com/go-air/euclid/lang"
)

const fakeEnv = "EUCLID_FAKE_SMT"

// The test binary doubles as a small solver speaking the subset of
// SMT-LIB used by Solver, so the process protocol can be tested without
// an installed solver.
func TestMain(m *testing.M) {
	if os.Getenv(fakeEnv) == "1" {
		fakeSolver(os.Stdin, os.Stdout)
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// fakeSolver answers check-sat by looking at the asserted text: "slow"
// never answers, "false" is unsat, "mystery" unknown, anything else sat.
// A command mentioning "oops" is an error and "crash" ends the process.
func fakeSolver(in io.Reader, out io.Writer) {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 1<<16), 1<<24)
	w := bufio.NewWriter(out)
	reply := func(s string) {
		w.WriteString(s + "\n")
		w.Flush()
	}
	success := false
	ok := func() {
		if success {
			reply("success")
		}
	}
	levels := [][]string{nil}
	for sc.Scan() {
		cmd := strings.TrimSpace(sc.Text())
		switch {
		case strings.Contains(cmd, "crash"):
			fmt.Fprintln(os.Stderr, "boom")
			os.Exit(3)
		case strings.Contains(cmd, "oops"):
			reply(`(error "line 1: oops")`)
		case cmd == "(set-option :print-success true)":
			success = true
			ok()
		case strings.HasPrefix(cmd, "(echo "):
			reply(strings.TrimSuffix(strings.TrimPrefix(cmd, "(echo "), ")"))
		case cmd == "(push 1)":
			levels = append(levels, nil)
			ok()
		case cmd == "(pop 1)":
			if len(levels) == 1 {
				reply(`(error "pop on empty stack")`)
				continue
			}
			levels = levels[:len(levels)-1]
			ok()
		case strings.HasPrefix(cmd, "(assert "):
			top := len(levels) - 1
			levels[top] = append(levels[top], cmd)
			ok()
		case cmd == "(check-sat)":
			reply(fakeCheck(levels))
		case cmd == "(get-info :reason-unknown)":
			reply(`(:reason-unknown "incomplete quantifiers")`)
		case cmd == "(exit)":
			return
		default:
			ok()
		}
	}
}

func fakeCheck(levels [][]string) string {
	res := "sat"
	for _, lv := range levels {
		for _, a := range lv {
			switch {
			case strings.Contains(a, "slow"):
				time.Sleep(time.Hour)
			case strings.Contains(a, "false"):
				return "unsat"
			case strings.Contains(a, "mystery"):
				res = "unknown"
			}
		}
	}
	return res
}

func fakeConfig() Config {
	return Config{
		Command:       os.Args[0],
		Env:           []string{fakeEnv + "=1"},
		TimeoutOption: "-",
		Grace:         100 * time.Millisecond,
		Trace:         true,
	}
}

func startFake(t *testing.T) *Solver {
	t.Helper()
	s, err := Start(context.Background(), fakeConfig(), lang.E)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func pt(name string) lang.Const { return lang.C(name, lang.Point) }

var _ inter.S = (*Solver)(nil)
var _ inter.Reasoner = (*Solver)(nil)

func TestNotInstalled(t *testing.T) {
	cfg := Config{Command: "euclid-no-such-solver"}
	assert.False(t, Available(cfg))
	_, err := Start(context.Background(), cfg, lang.E)
	assert.ErrorIs(t, err, ErrNotInstalled)
}

func TestFakeScopes(t *testing.T) {
	s := startFake(t)
	ctx := context.Background()

	require.NoError(t, s.Assert(lang.On(pt("a"), l)))
	res, err := s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, inter.Sat, res)

	require.NoError(t, s.Push())
	assert.Equal(t, 1, s.Depth())
	require.NoError(t, s.Assert(lang.False))
	res, err = s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, inter.Unsat, res)

	require.NoError(t, s.Pop())
	assert.Equal(t, 0, s.Depth())
	res, err = s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, inter.Sat, res)

	assert.ErrorIs(t, s.Pop(), ErrPop)
}

func TestFakeDeclarationsFollowScopes(t *testing.T) {
	s := startFake(t)
	require.NoError(t, s.Push())
	require.NoError(t, s.Assert(lang.On(pt("p"), l)))
	assert.Contains(t, s.decls, "p")
	assert.Contains(t, s.decls, "L")
	require.NoError(t, s.Pop())
	assert.NotContains(t, s.decls, "p")

	// same name, other sort
	require.NoError(t, s.Assert(lang.On(pt("q"), l)))
	assert.Error(t, s.Assert(lang.On(pt("a"), lang.C("q", lang.Line))))
}

func TestFakeUnknownReason(t *testing.T) {
	s := startFake(t)
	require.NoError(t, s.Assert(lang.On(pt("mystery"), l)))
	res, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, inter.Unknown, res)
	assert.Equal(t, "incomplete quantifiers", s.ReasonUnknown())
}

func TestFakeErrorResponse(t *testing.T) {
	s := startFake(t)
	err := s.Assert(lang.On(pt("oops"), l))
	var serr *Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "line 1: oops", serr.Message)
	assert.Equal(t, "(declare-const oops Point)", serr.Command)

	// the solver is still usable
	res, err := s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, inter.Sat, res)
}

func TestFakeTimeoutRestart(t *testing.T) {
	s := startFake(t)
	require.NoError(t, s.Assert(lang.On(pt("a"), l)))
	require.NoError(t, s.Push())
	require.NoError(t, s.Assert(lang.On(pt("slow"), l)))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	res, err := s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, inter.Unknown, res)
	assert.Equal(t, "timeout", s.ReasonUnknown())
	assert.Less(t, time.Since(start), 5*time.Second)

	// the restarted process has the same scopes
	assert.Equal(t, 1, s.Depth())
	require.NoError(t, s.Pop())
	res, err = s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, inter.Sat, res)
}

func TestFakeCancelRestart(t *testing.T) {
	s := startFake(t)
	require.NoError(t, s.Push())
	require.NoError(t, s.Assert(lang.On(pt("slow"), l)))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)
	res, err := s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, inter.Unknown, res)
	assert.Equal(t, "canceled", s.ReasonUnknown())

	// the pending check-sat died with the old process
	popped := make(chan error, 1)
	go func() { popped <- s.Pop() }()
	select {
	case err := <-popped:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("pop blocked after a canceled check")
	}
	res, err = s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, inter.Sat, res)
}

func TestFakeExpiredContext(t *testing.T) {
	s := startFake(t)
	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()
	res, err := s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, inter.Unknown, res)
	assert.Equal(t, "timeout", s.ReasonUnknown())
}

func TestFakeCrash(t *testing.T) {
	s := startFake(t)
	err := s.Assert(lang.On(pt("crash"), l))
	require.ErrorIs(t, err, ErrCrashed)
}

func TestFakeClose(t *testing.T) {
	s := startFake(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Assert(lang.True), ErrClosed)
	assert.ErrorIs(t, s.Push(), ErrClosed)
	_, err := s.Check(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func startZ3(t *testing.T) *Solver {
	t.Helper()
	if !Available(Config{}) {
		t.Skip("z3 not installed")
	}
	s, err := Start(context.Background(), Config{}, lang.E)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Assert(axiom.Formulas(axiom.Set())...))
	return s
}

func TestZ3TwoLines(t *testing.T) {
	s := startZ3(t)
	a, b := pt("a"), pt("b")
	m := lang.C("M", lang.Line)
	require.NoError(t, s.Assert(
		lang.Neq(a, b), lang.On(a, l), lang.On(b, l), lang.On(a, m), lang.On(b, m)))

	require.NoError(t, s.Push())
	require.NoError(t, s.Assert(lang.Neq(l, m)))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res, err := s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, inter.Unsat, res)
	require.NoError(t, s.Pop())
}

func TestZ3Betweenness(t *testing.T) {
	s := startZ3(t)
	a, b, c := pt("a"), pt("b"), pt("c")
	require.NoError(t, s.Assert(lang.Between(a, b, c), lang.Between(b, a, c)))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res, err := s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, inter.Unsat, res)
}
