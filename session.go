// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package euclid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-air/euclid/axiom"
	"github.com/go-air/euclid/constraint"
	"github.com/go-air/euclid/inter"
	"github.com/go-air/euclid/journal"
	"github.com/go-air/euclid/lang"
)

const (
	opInit      = journal.OpInit
	opConstruct = journal.OpConstruct
	opHence     = journal.OpHence
	opAssume    = journal.OpAssume
)

// Option configures a Session.
type Option func(*Session)

// WithTimeout bounds each decision procedure check by d.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithLogger sets the logger of the session.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithMode sets what Hence establishes, Entailment by default.
func WithMode(m Mode) Option {
	return func(s *Session) { s.mode = m }
}

// WithJournal records every operation of the session in j.  The journal
// stays owned by the caller.
func WithJournal(j journal.Journal) Option {
	return func(s *Session) { s.journal = j }
}

// AllowInconsistent lets New succeed when the axioms are found to be
// inconsistent.
func AllowInconsistent() Option {
	return func(s *Session) { s.allowInconsistent = true }
}

// WithID sets the session id, a random uuid by default.  The id must not
// be empty or contain '/'.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// Session is a proof in progress: the entities constructed so far, the
// assumptions and conclusions established, over a constraint context of
// its own.
//
// Only Construct, Hence and Assume change the context, and each either
// commits completely or leaves the session as it was.
//
// A Session is not safe for concurrent use.
type Session struct {
	id                string
	backend           inter.S
	cc                *constraint.Context
	mode              Mode
	timeout           time.Duration
	log               *slog.Logger
	journal           journal.Journal
	seq               uint64
	allowInconsistent bool

	committed   map[string]Entity
	drafts      map[string]Kind
	order       []Entity
	assumptions []lang.Formula
	conclusions []lang.Formula
	concluded   map[string]bool
	closed      bool
	broken      error // failed commit
}

// New starts a session deciding with backend, which it owns from then on.
//
// The axioms are loaded and checked for consistency.  A malformed axiom
// gives an error wrapping ErrMalformedAxiom.  Inconsistent axioms give
// ErrInconsistentAxioms unless AllowInconsistent is set.
func New(ctx context.Context, backend inter.S, opts ...Option) (*Session, error) {
	s := &Session{
		id:        uuid.NewString(),
		backend:   backend,
		log:       slog.Default(),
		committed: make(map[string]Entity),
		drafts:    make(map[string]Kind),
		concluded: make(map[string]bool)}
	for _, o := range opts {
		o(s)
	}
	if err := journal.CheckSession(s.id); err != nil {
		backend.Close()
		return nil, fmt.Errorf("starting session: %w", err)
	}
	s.log = s.log.With(slog.String("session", s.id))
	s.cc = constraint.New(backend,
		constraint.WithTimeout(s.timeout),
		constraint.WithLogger(s.log))

	ctx, span := tracer.Start(ctx, "euclid.New",
		trace.WithAttributes(attribute.String("euclid.session", s.id)))
	defer span.End()

	ans, err := s.cc.Init(ctx, axiom.Set())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		backend.Close()
		return nil, fmt.Errorf("starting session: %w", err)
	}
	s.record(ctx, journal.Entry{Op: opInit, Outcome: ans.Result.String(), Reason: ans.Reason})
	switch ans.Result {
	case inter.Unsat:
		if !s.allowInconsistent {
			s.log.Error("axioms are inconsistent")
			backend.Close()
			return nil, ErrInconsistentAxioms
		}
		s.log.Error("axioms are inconsistent, continuing")
	case inter.Unknown:
		s.log.Warn("axiom consistency undecided", slog.String("reason", ans.Reason))
	}
	sessionsActive.Inc()
	s.log.Info("session started",
		slog.String("mode", s.mode.String()),
		slog.Duration("timeout", s.timeout))
	return s, nil
}

// ID returns the id of the session.
func (s *Session) ID() string {
	return s.id
}

// Mode returns what Hence establishes.
func (s *Session) Mode() Mode {
	return s.mode
}

var labelRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

var reservedLabels = map[string]bool{
	"true": true, "false": true, "not": true, "and": true, "or": true,
	"distinct": true, "ite": true, "let": true, "forall": true, "exists": true,
	"as": true, "par": true, "Bool": true, "Int": true, "Real": true,
}

func reserved(label string) bool {
	if reservedLabels[label] {
		return true
	}
	if _, ok := lang.E.Lookup(label); ok {
		return true
	}
	for _, s := range lang.Sorts {
		if s.String() == label {
			return true
		}
	}
	return false
}

// draft reserves label for a new draft of kind k.
func (s *Session) draft(label string, k Kind) error {
	if err := s.usable(); err != nil {
		return err
	}
	if !labelRE.MatchString(label) || reserved(label) {
		return fmt.Errorf("%w: %q", ErrBadLabel, label)
	}
	if e, ok := s.committed[label]; ok {
		return fmt.Errorf("%w: %s is a constructed %s", ErrDuplicateLabel, label, e.Kind())
	}
	if dk, ok := s.drafts[label]; ok && dk != k {
		return fmt.Errorf("%w: %s is a draft %s", ErrDuplicateLabel, label, dk)
	}
	s.drafts[label] = k
	return nil
}

// NewPoint creates a draft point.
func (s *Session) NewPoint(label string, opts ...DraftOption) (*Point, error) {
	if err := s.draft(label, KindPoint); err != nil {
		return nil, err
	}
	return &Point{newEntity(s, KindPoint, label, opts)}, nil
}

// NewLine creates a draft line.
func (s *Session) NewLine(label string, opts ...DraftOption) (*Line, error) {
	if err := s.draft(label, KindLine); err != nil {
		return nil, err
	}
	return &Line{newEntity(s, KindLine, label, opts)}, nil
}

// NewCircle creates a draft circle.
func (s *Session) NewCircle(label string, opts ...DraftOption) (*Circle, error) {
	if err := s.draft(label, KindCircle); err != nil {
		return nil, err
	}
	return &Circle{newEntity(s, KindCircle, label, opts)}, nil
}

// Construct commits the draft e.
//
// The preconditions and postconditions of e, with its distinctness from
// the other entities of its kind, are first checked together in a scope
// which is rolled back.  Only if they are satisfiable are they asserted
// for good and e registered under its label; the preconditions are logged
// as assumptions and the postconditions as conclusions.
//
// Otherwise the session is unchanged and the error is a *Rejection naming
// the first sentence which could not be added.
func (s *Session) Construct(ctx context.Context, e Entity) (err error) {
	if err := s.usable(); err != nil {
		return err
	}
	b := e.base()
	ctx, span := tracer.Start(ctx, "euclid.Construct", trace.WithAttributes(
		attribute.String("euclid.label", b.Label()),
		attribute.String("euclid.kind", b.kind.String())))
	defer func() { endSpan(span, err) }()

	switch {
	case b.sess != s:
		return fmt.Errorf("%w: %s", ErrForeignEntity, b)
	case b.constructed:
		return fmt.Errorf("%w: %s", ErrConstructed, b)
	}
	label := b.Label()
	if other, ok := s.committed[label]; ok {
		return fmt.Errorf("%w: %s is a constructed %s", ErrDuplicateLabel, label, other.Kind())
	}

	pre := b.Pre()
	post := append(b.Post(), s.distinctness(b)...)
	var all []lang.Formula
	var stages []staged
	for _, f := range pre {
		all = append(all, f)
		stages = append(stages, staged{StagePrecondition, f})
	}
	for _, f := range post {
		all = append(all, f)
		stages = append(stages, staged{StagePostcondition, f})
	}
	if err := s.resolve(b, all); err != nil {
		return fmt.Errorf("construct %s: %w", label, err)
	}

	ans, err := s.cc.Satisfiable(ctx, all...)
	if err != nil {
		return fmt.Errorf("construct %s: %w", label, err)
	}
	if ans.Result != inter.Sat {
		rej, err := s.blame(ctx, stages, ans)
		if err != nil {
			return fmt.Errorf("construct %s: %w", label, err)
		}
		rej.Op, rej.Label = opConstruct, label
		s.reject(ctx, rej)
		return rej
	}

	if err := s.cc.Assert(all...); err != nil {
		return s.fail(fmt.Errorf("construct %s: commit: %w", label, err))
	}
	b.post = post
	b.constructed = true
	delete(s.drafts, label)
	s.committed[label] = e
	s.order = append(s.order, e)
	s.assumptions = append(s.assumptions, pre...)
	for _, f := range post {
		s.conclusions = append(s.conclusions, f)
		s.concluded[f.String()] = true
	}

	s.record(ctx, journal.Entry{Op: opConstruct, Label: label, Formula: lang.And(all).String(), Outcome: "committed"})
	operationsTotal.WithLabelValues(opConstruct, "committed").Inc()
	s.log.Info("constructed",
		slog.String("label", label),
		slog.String("kind", b.kind.String()),
		slog.Int("pre", len(pre)),
		slog.Int("post", len(post)))
	return nil
}

// distinctness is the postcondition making b differ from each constructed
// entity of its kind.  Each disequation stands alone: the constructed
// entities need not differ from one another.
func (s *Session) distinctness(b *entity) []lang.Formula {
	if !b.distinct {
		return nil
	}
	var res []lang.Formula
	for _, e := range s.order {
		if e.Kind() == b.kind {
			res = append(res, lang.Neq(b.term, e.Term()))
		}
	}
	return res
}

// Hence decides whether claim follows from the session.
//
// In Entailment mode claim follows if its negation is unsatisfiable; in
// Consistency mode if claim itself is satisfiable.  A claim which follows
// is asserted and logged as a conclusion, once.  Otherwise the session is
// unchanged and the error is a *Rejection.
func (s *Session) Hence(ctx context.Context, claim lang.Formula) (v Verdict, err error) {
	if err := s.usable(); err != nil {
		return NotEntailed, err
	}
	if claim == nil {
		return NotEntailed, errors.New("hence: nil claim")
	}
	key := claim.String()
	ctx, span := tracer.Start(ctx, "euclid.Hence",
		trace.WithAttributes(attribute.String("euclid.claim", key)))
	defer func() { endSpan(span, err) }()

	if err := s.resolve(nil, []lang.Formula{claim}); err != nil {
		return NotEntailed, fmt.Errorf("hence %s: %w", claim, err)
	}
	q, want := lang.Neg(claim), inter.Unsat
	if s.mode == Consistency {
		q, want = claim, inter.Sat
	}
	ans, err := s.cc.Satisfiable(ctx, q)
	if err != nil {
		return NotEntailed, fmt.Errorf("hence %s: %w", claim, err)
	}
	if ans.Result != want {
		rej := &Rejection{Op: opHence, Stage: StageClaim, Formula: claim, Result: ans.Result, Reason: ans.Reason}
		s.reject(ctx, rej)
		if rej.Undecided() {
			return Undecided, rej
		}
		return NotEntailed, rej
	}

	if !s.concluded[key] {
		if err := s.cc.Assert(claim); err != nil {
			return NotEntailed, s.fail(fmt.Errorf("hence %s: commit: %w", claim, err))
		}
		s.concluded[key] = true
		s.conclusions = append(s.conclusions, claim)
	}
	s.record(ctx, journal.Entry{Op: opHence, Formula: key, Outcome: Entailed.String()})
	operationsTotal.WithLabelValues(opHence, Entailed.String()).Inc()
	s.log.Info("hence", slog.String("claim", key), slog.String("verdict", Entailed.String()))
	return Entailed, nil
}

// Assume asserts facts about constructed entities after checking that
// they are consistent with the session.  They are logged as assumptions.
// Inconsistent facts leave the session unchanged and give a *Rejection.
func (s *Session) Assume(ctx context.Context, facts ...lang.Formula) (err error) {
	if err := s.usable(); err != nil {
		return err
	}
	if len(facts) == 0 {
		return nil
	}
	text := lang.And(facts).String()
	ctx, span := tracer.Start(ctx, "euclid.Assume",
		trace.WithAttributes(attribute.String("euclid.facts", text)))
	defer func() { endSpan(span, err) }()

	if err := s.resolve(nil, facts); err != nil {
		return fmt.Errorf("assume: %w", err)
	}
	ans, err := s.cc.Satisfiable(ctx, facts...)
	if err != nil {
		return fmt.Errorf("assume: %w", err)
	}
	if ans.Result != inter.Sat {
		stages := make([]staged, len(facts))
		for i, f := range facts {
			stages[i] = staged{StageAssumption, f}
		}
		rej, err := s.blame(ctx, stages, ans)
		if err != nil {
			return fmt.Errorf("assume: %w", err)
		}
		rej.Op = opAssume
		s.reject(ctx, rej)
		return rej
	}
	if err := s.cc.Assert(facts...); err != nil {
		return s.fail(fmt.Errorf("assume: commit: %w", err))
	}
	s.assumptions = append(s.assumptions, facts...)
	s.record(ctx, journal.Entry{Op: opAssume, Formula: text, Outcome: "assumed"})
	operationsTotal.WithLabelValues(opAssume, "assumed").Inc()
	s.log.Info("assumed", slog.String("facts", text))
	return nil
}

// resolve checks that every point, line and circle mentioned in fs is
// constructed, or is self.
func (s *Session) resolve(self *entity, fs []lang.Formula) error {
	for _, f := range fs {
		if f == nil {
			return fmt.Errorf("%w: nil formula", lang.ErrSort)
		}
	}
	for _, k := range lang.Consts(fs...) {
		kind, ok := kindOf(k.S)
		if !ok {
			continue
		}
		if self != nil && k == self.term {
			continue
		}
		if e, ok := s.committed[k.Name]; !ok || e.Term() != k {
			return fmt.Errorf("%w: %s %s", ErrUnknownLabel, kind, k.Name)
		}
	}
	return nil
}

type staged struct {
	stage Stage
	f     lang.Formula
}

// blame finds the first of fs which cannot be added to the session after
// the ones before it.  Only a refutation is blamed on a sentence; an
// undecided answer is reported as is.
func (s *Session) blame(ctx context.Context, fs []staged, whole constraint.Answer) (rej *Rejection, err error) {
	rej = &Rejection{Result: whole.Result, Reason: whole.Reason}
	if len(fs) > 0 {
		rej.Stage = fs[len(fs)-1].stage
	}
	if whole.Result != inter.Unsat || len(fs) == 0 {
		return rej, nil
	}
	if err := s.cc.Checkpoint(); err != nil {
		return nil, err
	}
	defer func() {
		if rerr := s.cc.Rollback(); rerr != nil && err == nil {
			rej, err = nil, rerr
		}
	}()
	for _, x := range fs {
		ans, err := s.cc.Satisfiable(ctx, x.f)
		if err != nil {
			return nil, err
		}
		if ans.Result != inter.Sat {
			rej.Stage, rej.Formula = x.stage, x.f
			rej.Result, rej.Reason = ans.Result, ans.Reason
			return rej, nil
		}
		if err := s.cc.Assert(x.f); err != nil {
			return nil, err
		}
	}
	return rej, nil
}

func (s *Session) reject(ctx context.Context, r *Rejection) {
	outcome := "rejected"
	if r.Undecided() {
		outcome = "undecided"
	}
	var text string
	if r.Formula != nil {
		text = r.Formula.String()
	}
	s.record(ctx, journal.Entry{Op: r.Op, Label: r.Label, Formula: text, Outcome: outcome, Reason: r.Reason})
	operationsTotal.WithLabelValues(r.Op, outcome).Inc()
	if r.Undecided() {
		s.log.Warn("decision procedure gave up", slog.String("op", r.Op), slog.String("error", r.Error()))
		return
	}
	s.log.Info("rejected", slog.String("op", r.Op), slog.String("error", r.Error()))
}

func (s *Session) record(ctx context.Context, e journal.Entry) {
	if s.journal == nil {
		return
	}
	s.seq++
	e.Session, e.Seq = s.id, s.seq
	if err := s.journal.Append(context.WithoutCancel(ctx), e); err != nil {
		s.log.Error("journal append failed", slog.String("op", e.Op), slog.String("error", err.Error()))
	}
}

func endSpan(span trace.Span, err error) {
	var rej *Rejection
	switch {
	case err == nil:
	case errors.As(err, &rej):
		span.SetAttributes(attribute.String("euclid.rejection", rej.Error()))
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Entity returns the constructed entity labelled label.
func (s *Session) Entity(label string) (Entity, bool) {
	e, ok := s.committed[label]
	return e, ok
}

// Point returns the constructed point labelled label.
func (s *Session) Point(label string) (*Point, error) {
	if p, ok := s.committed[label].(*Point); ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: point %s", ErrUnknownLabel, label)
}

// Line returns the constructed line labelled label.
func (s *Session) Line(label string) (*Line, error) {
	if l, ok := s.committed[label].(*Line); ok {
		return l, nil
	}
	return nil, fmt.Errorf("%w: line %s", ErrUnknownLabel, label)
}

// Circle returns the constructed circle labelled label.
func (s *Session) Circle(label string) (*Circle, error) {
	if c, ok := s.committed[label].(*Circle); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: circle %s", ErrUnknownLabel, label)
}

// usable gives the error of operations on a closed or broken session.
func (s *Session) usable() error {
	switch {
	case s.closed:
		return ErrClosed
	case s.broken != nil:
		return fmt.Errorf("%w: %v", ErrBroken, s.broken)
	}
	return nil
}

// fail marks s broken by err.  A commit which fails part way may have
// asserted some of its sentences, so the backend no longer matches the
// session.
func (s *Session) fail(err error) error {
	s.broken = err
	s.log.Error("session broken", slog.String("error", err.Error()))
	return err
}

// Close ends the session and closes its backend.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	sessionsActive.Dec()
	s.log.Info("session closed",
		slog.Int("entities", len(s.order)),
		slog.Int("conclusions", len(s.conclusions)))
	return s.backend.Close()
}
