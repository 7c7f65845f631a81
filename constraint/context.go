// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package constraint provides Context, the single point of truth about
// which sentences are satisfiable given everything asserted so far.
//
// A Context wraps a decision procedure (an inter.S).  The background
// axioms are loaded once by Init.  Afterwards, sentences are added with
// Assert and scoped with Checkpoint and Rollback, which nest like a stack.
// Satisfiable decides candidate sentences without ever leaking them into
// the context.
//
// A Context is not safe for concurrent use; each proof session owns one.
package constraint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-air/euclid/axiom"
	"github.com/go-air/euclid/inter"
	"github.com/go-air/euclid/lang"
)

var (
	ErrNotInitialized = errors.New("constraint context not initialized")
	ErrInitialized    = errors.New("constraint context already initialized")
)

// Answer is the outcome of a satisfiability query.
type Answer struct {
	Result  inter.Result
	Reason  string // why the result is Unknown
	Elapsed time.Duration
}

func (a Answer) String() string {
	if a.Result == inter.Unknown && a.Reason != "" {
		return fmt.Sprintf("unknown (%s)", a.Reason)
	}
	return a.Result.String()
}

// Context is an incrementally extended set of sentences over a decision
// procedure.
type Context struct {
	s       inter.S
	sig     *lang.Signature
	timeout time.Duration
	log     *slog.Logger
	tracer  trace.Tracer
	depth   int
	inited  bool
}

// Option configures a Context.
type Option func(*Context)

// WithTimeout bounds each satisfiability check by d.  A check running
// out of time answers Unknown.  d <= 0 means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Context) { c.timeout = d }
}

// WithLogger sets the logger of the context.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.log = l }
}

// WithSignature sets the signature sentences are checked against.  The
// default is lang.E.
func WithSignature(sig *lang.Signature) Option {
	return func(c *Context) { c.sig = sig }
}

// WithTracer sets the tracer used for check spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Context) { c.tracer = t }
}

// New creates a context deciding with s.  The context owns s.
func New(s inter.S, opts ...Option) *Context {
	c := &Context{
		s:      s,
		sig:    lang.E,
		log:    slog.Default(),
		tracer: tracer}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Init validates and loads the background axioms and checks that they are
// satisfiable.  A malformed axiom is an error wrapping axiom.ErrMalformed
// and leaves the context unusable.  The answer of the sanity check is
// returned for the caller to judge.
func (c *Context) Init(ctx context.Context, as []axiom.Axiom) (Answer, error) {
	if c.inited {
		return Answer{}, ErrInitialized
	}
	if err := axiom.Validate(c.sig, as); err != nil {
		return Answer{}, err
	}
	fs := axiom.Formulas(as)
	var err error
	if ax, ok := c.s.(inter.Axiomatizer); ok {
		err = ax.Axiomatize(fs...)
	} else {
		err = c.s.Assert(fs...)
	}
	if err != nil {
		return Answer{}, fmt.Errorf("loading axioms: %w", err)
	}
	c.inited = true
	c.log.Debug("axioms loaded", slog.Int("count", len(as)))
	return c.check(ctx, "init")
}

// Checkpoint opens a scope.
func (c *Context) Checkpoint() error {
	if !c.inited {
		return ErrNotInitialized
	}
	if err := c.s.Push(); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	c.depth++
	return nil
}

// Rollback discards everything asserted since the matching Checkpoint.
// Rollback panics if no checkpoint is open.
func (c *Context) Rollback() error {
	if c.depth == 0 {
		panic("constraint: rollback without checkpoint")
	}
	c.depth--
	if err := c.s.Pop(); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// Depth returns the number of open checkpoints.
func (c *Context) Depth() int {
	return c.depth
}

// Assert adds fs to the current scope.  Nothing is asserted if any of fs
// is not a sentence over the signature.
func (c *Context) Assert(fs ...lang.Formula) error {
	if !c.inited {
		return ErrNotInitialized
	}
	for _, f := range fs {
		if err := c.sig.Check(f); err != nil {
			return fmt.Errorf("assert %s: %w", f, err)
		}
	}
	return c.s.Assert(fs...)
}

// Satisfiable decides whether fs are satisfiable together with everything
// asserted so far.  The context is unchanged afterwards, whatever the
// outcome.
func (c *Context) Satisfiable(ctx context.Context, fs ...lang.Formula) (ans Answer, err error) {
	if !c.inited {
		return Answer{}, ErrNotInitialized
	}
	for _, f := range fs {
		if err := c.sig.Check(f); err != nil {
			return Answer{}, fmt.Errorf("candidate %s: %w", f, err)
		}
	}
	if err := c.Checkpoint(); err != nil {
		return Answer{}, err
	}
	defer func() {
		if rerr := c.Rollback(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	if err := c.s.Assert(fs...); err != nil {
		return Answer{}, err
	}
	return c.check(ctx, "satisfiable")
}

func (c *Context) check(ctx context.Context, op string) (Answer, error) {
	ctx, span := c.tracer.Start(ctx, "constraint.Check", trace.WithAttributes(
		attribute.String("constraint.op", op),
		attribute.Int("constraint.depth", c.depth)))
	defer span.End()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	start := time.Now()
	res, err := c.s.Check(ctx)
	ans := Answer{Result: res, Elapsed: time.Since(start)}
	if err != nil {
		if ctx.Err() == nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			checkErrors.Inc()
			return ans, fmt.Errorf("check: %w", err)
		}
		ans.Result = inter.Unknown
	}
	if ans.Result == inter.Unknown {
		if r, ok := c.s.(inter.Reasoner); ok {
			ans.Reason = r.ReasonUnknown()
		}
		if ans.Reason == "" {
			ans.Reason = ctxReason(ctx)
		}
	}
	span.SetAttributes(attribute.String("constraint.result", ans.Result.String()))
	observe(ans)

	attrs := []any{
		slog.String("op", op),
		slog.Int("depth", c.depth),
		slog.String("result", ans.Result.String()),
		slog.Duration("elapsed", ans.Elapsed)}
	if ans.Result == inter.Unknown {
		c.log.Warn("decision procedure gave up", append(attrs, slog.String("reason", ans.Reason))...)
	} else {
		c.log.Debug("check", attrs...)
	}
	return ans, nil
}

func ctxReason(ctx context.Context) string {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "timeout"
	case ctx.Err() != nil:
		return "canceled"
	}
	return "incomplete"
}
