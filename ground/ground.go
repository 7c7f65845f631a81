// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package ground

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-air/gini"

	"github.com/go-air/euclid/inter"
	"github.com/go-air/euclid/lang"
)

// Reasons given for Unknown results.
const (
	ReasonLimit     = "grounding limit"
	ReasonExpansion = "existential expansion"
	ReasonMetric    = "metric abstraction"
	ReasonTimeout   = "timeout"
)

// DefaultMaxInstances bounds the number of quantifier instances generated
// by a single Check.
const DefaultMaxInstances = 200000

var (
	ErrClosed = errors.New("ground: solver closed")
	ErrPop    = errors.New("ground: pop without push")
)

// Solver is an inter.S deciding sentences by grounding.
type Solver struct {
	theory  []lang.Formula
	levels  [][]lang.Formula
	maxInst int
	log     *slog.Logger
	reason  string
	closed  bool
}

// Option configures a Solver.
type Option func(*Solver)

// MaxInstances sets the instance bound of each Check.  n <= 0 selects
// DefaultMaxInstances.
func MaxInstances(n int) Option {
	return func(s *Solver) {
		if n <= 0 {
			n = DefaultMaxInstances
		}
		s.maxInst = n
	}
}

// WithLogger sets the logger of the solver.
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) { s.log = l }
}

// New creates a solver with no sentences.
func New(opts ...Option) *Solver {
	s := &Solver{
		levels:  make([][]lang.Formula, 1),
		maxInst: DefaultMaxInstances,
		log:     slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Axiomatize adds background sentences.  They are never popped.
func (s *Solver) Axiomatize(fs ...lang.Formula) error {
	if s.closed {
		return ErrClosed
	}
	s.theory = append(s.theory, fs...)
	return nil
}

// Assert implements inter.Asserter.
func (s *Solver) Assert(fs ...lang.Formula) error {
	if s.closed {
		return ErrClosed
	}
	top := len(s.levels) - 1
	s.levels[top] = append(s.levels[top], fs...)
	return nil
}

// Push implements inter.Scoped.
func (s *Solver) Push() error {
	if s.closed {
		return ErrClosed
	}
	s.levels = append(s.levels, nil)
	return nil
}

// Pop implements inter.Scoped.
func (s *Solver) Pop() error {
	if s.closed {
		return ErrClosed
	}
	if len(s.levels) == 1 {
		return ErrPop
	}
	s.levels[len(s.levels)-1] = nil
	s.levels = s.levels[:len(s.levels)-1]
	return nil
}

// ReasonUnknown implements inter.Reasoner.
func (s *Solver) ReasonUnknown() string {
	return s.reason
}

// Close implements inter.S.
func (s *Solver) Close() error {
	s.closed = true
	s.theory, s.levels = nil, nil
	return nil
}

// Check implements inter.Solvable.
func (s *Solver) Check(ctx context.Context) (inter.Result, error) {
	if s.closed {
		return inter.Unknown, ErrClosed
	}
	s.reason = ""
	var user []lang.Formula
	for _, lv := range s.levels {
		user = append(user, lv...)
	}
	start := time.Now()
	g := newGrounder(s.maxInst, s.theory, user)
	roots, err := g.run(ctx, s.theory, user)
	if err != nil {
		return inter.Unknown, err
	}
	if g.overflow {
		return s.unknown(ReasonLimit), nil
	}
	if ctx.Err() != nil {
		return s.unknown(ReasonTimeout), nil
	}
	s.log.Debug("grounded",
		slog.Int("instances", g.inst),
		slog.Int("nodes", g.c.Len()),
		slog.Duration("elapsed", time.Since(start)))

	sat := gini.New()
	g.c.ToCnf(sat)
	sat.Add(g.c.T)
	sat.Add(0)
	for _, m := range roots {
		sat.Add(m)
		sat.Add(0)
	}
	switch solve(ctx, sat) {
	case 1:
		for _, f := range user {
			if lang.Metric(f) {
				return s.unknown(ReasonMetric), nil
			}
		}
		return inter.Sat, nil
	case -1:
		if g.expanded {
			return s.unknown(ReasonExpansion), nil
		}
		return inter.Unsat, nil
	}
	return s.unknown(ReasonTimeout), nil
}

func (s *Solver) unknown(reason string) inter.Result {
	s.reason = reason
	return inter.Unknown
}

// solve decides g, giving 0 when ctx is done first.
func solve(ctx context.Context, g *gini.Gini) int {
	if ctx.Done() == nil {
		return g.Solve()
	}
	if ctx.Err() != nil {
		return 0
	}
	conn := g.GoSolve()
	tick := time.NewTicker(time.Millisecond)
	defer tick.Stop()
	for {
		if res, ok := conn.Test(); ok {
			return res
		}
		select {
		case <-ctx.Done():
			return conn.Stop()
		case <-tick.C:
		}
	}
}
