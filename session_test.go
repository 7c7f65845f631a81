// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package euclid

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-air/euclid/gen"
	"github.com/go-air/euclid/ground"
	"github.com/go-air/euclid/inter"
	"github.com/go-air/euclid/journal"
	"github.com/go-air/euclid/lang"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithLogger(quiet)}, opts...)
	s, err := New(context.Background(), ground.New(ground.WithLogger(quiet)), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func point(t *testing.T, s *Session, label string, opts ...DraftOption) *Point {
	t.Helper()
	p, err := s.NewPoint(label, opts...)
	require.NoError(t, err)
	return p
}

func line(t *testing.T, s *Session, label string, opts ...DraftOption) *Line {
	t.Helper()
	l, err := s.NewLine(label, opts...)
	require.NoError(t, err)
	return l
}

func circle(t *testing.T, s *Session, label string, opts ...DraftOption) *Circle {
	t.Helper()
	c, err := s.NewCircle(label, opts...)
	require.NoError(t, err)
	return c
}

func construct(t *testing.T, s *Session, es ...Entity) {
	t.Helper()
	for _, e := range es {
		require.NoError(t, s.Construct(context.Background(), e), e.Label())
	}
}

func hence(s *Session, f lang.Formula) Verdict {
	v, _ := s.Hence(context.Background(), f)
	return v
}

// twoPoints constructs distinct points a and b and the line L through
// them.
func twoPoints(t *testing.T, s *Session) (a, b *Point, l *Line) {
	a, b = point(t, s, "a"), point(t, s, "b")
	construct(t, s, a, b)
	l = line(t, s, "L").Through(a, b)
	construct(t, s, l)
	return
}

func TestScenarioTwoLines(t *testing.T) {
	s := newSession(t)
	a, b, l := twoPoints(t, s)
	m := line(t, s, "M", NonDistinct()).Through(a, b)
	construct(t, s, m)

	v, err := s.Hence(context.Background(), lang.Equal(l.Term(), m.Term()))
	require.NoError(t, err)
	assert.Equal(t, Entailed, v)
	assert.Equal(t, []string{"L", "M"}, s.Status().Lines)
}

func TestDistinctLineRejected(t *testing.T) {
	s := newSession(t)
	a, b, _ := twoPoints(t, s)
	before := s.Status()

	n := line(t, s, "N").Through(a, b)
	err := s.Construct(context.Background(), n)
	var rej *Rejection
	require.True(t, errors.As(err, &rej))
	assert.ErrorIs(t, err, ErrPreconditionUnmet)
	assert.NotErrorIs(t, err, ErrUndecided)
	assert.Equal(t, StagePostcondition, rej.Stage)
	assert.Equal(t, lang.Neq(n.Term(), lang.C("L", lang.Line)), rej.Formula)
	assert.Equal(t, inter.Unsat, rej.Result)
	assert.False(t, n.Constructed())
	assert.Equal(t, before, s.Status())
}

func TestScenarioDegenerateCircle(t *testing.T) {
	s := newSession(t)
	alpha := circle(t, s, "alpha")
	construct(t, s, alpha)
	before := s.Status()

	a := point(t, s, "a").Inside(alpha).OnCircle(alpha)
	err := s.Construct(context.Background(), a)
	var rej *Rejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, StagePostcondition, rej.Stage)
	assert.Equal(t, lang.OnCircle(a.Term(), alpha.Term()), rej.Formula)
	assert.Equal(t, "construct a: postcondition OnCircle(a, alpha): unsatisfiable", rej.Error())
	assert.Equal(t, before, s.Status())

	// the label is still free
	_, err = s.Point("a")
	assert.ErrorIs(t, err, ErrUnknownLabel)
	a2 := point(t, s, "a").Inside(alpha)
	construct(t, s, a2)
}

// betweenness constructs a, c and then b between them.
func betweenness(t *testing.T, s *Session) (a, b, c *Point) {
	a, c = point(t, s, "a"), point(t, s, "c")
	construct(t, s, a, c)
	b = point(t, s, "b").Between(a, c)
	construct(t, s, b)
	return
}

func TestScenarioBetweenness(t *testing.T) {
	s := newSession(t)
	a, b, c := betweenness(t, s)

	assert.Equal(t, Entailed, hence(s, lang.Between(c.Term(), b.Term(), a.Term())))

	before := s.Status()
	v, err := s.Hence(context.Background(), lang.Between(b.Term(), a.Term(), c.Term()))
	assert.Equal(t, NotEntailed, v)
	assert.ErrorIs(t, err, ErrNotEntailed)
	assert.Equal(t, before, s.Status())
}

func TestScenarioContradiction(t *testing.T) {
	s := newSession(t)
	a, b, c := betweenness(t, s)
	before := s.Status()

	claim := lang.Neg(lang.Between(a.Term(), b.Term(), c.Term()))
	v, err := s.Hence(context.Background(), claim)
	assert.Equal(t, NotEntailed, v)
	var rej *Rejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, StageClaim, rej.Stage)
	assert.Equal(t, "hence: claim Not(Between(a, b, c)): not entailed", rej.Error())

	st := s.Status()
	assert.Equal(t, before.String(), st.String())
	assert.NotContains(t, st.Conclusions, claim)
}

func TestHenceIdempotent(t *testing.T) {
	s := newSession(t)
	a, b, c := betweenness(t, s)
	claim := lang.Between(c.Term(), b.Term(), a.Term())
	assert.Equal(t, Entailed, hence(s, claim))
	n := len(s.Status().Conclusions)
	assert.Equal(t, Entailed, hence(s, claim))
	assert.Len(t, s.Status().Conclusions, n)

	// already a conclusion of the construction of b
	assert.Equal(t, Entailed, hence(s, lang.Between(a.Term(), b.Term(), c.Term())))
	assert.Len(t, s.Status().Conclusions, n)
}

func TestMonotonicEntailment(t *testing.T) {
	s := newSession(t)
	a, b, l := twoPoints(t, s)
	m := line(t, s, "M", NonDistinct()).Through(a, b)
	construct(t, s, m)
	claim := lang.Equal(l.Term(), m.Term())
	require.Equal(t, Entailed, hence(s, claim))

	err := s.Assume(context.Background(), lang.Neg(claim))
	var rej *Rejection
	require.True(t, errors.As(err, &rej))
	assert.ErrorIs(t, err, ErrInconsistent)
	assert.Equal(t, StageAssumption, rej.Stage)
	assert.Equal(t, NotEntailed, hence(s, lang.Neg(claim)))
}

func TestAtomicity(t *testing.T) {
	s := newSession(t)
	a, b, l := twoPoints(t, s)
	probe := func() (Verdict, Verdict) {
		return hence(s, lang.On(a.Term(), l.Term())), hence(s, lang.Equal(a.Term(), b.Term()))
	}
	on, eq := probe()
	require.Equal(t, Entailed, on)
	require.Equal(t, NotEntailed, eq)
	before := s.Status()

	bad := lang.Neg(lang.On(a.Term(), l.Term()))
	p := point(t, s, "p").Require(
		lang.On(b.Term(), l.Term()),
		bad,
		lang.Neq(a.Term(), b.Term())).OnLine(l)
	err := s.Construct(context.Background(), p)
	var rej *Rejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, StagePrecondition, rej.Stage)
	assert.Equal(t, bad, rej.Formula)

	on2, eq2 := probe()
	assert.Equal(t, on, on2)
	assert.Equal(t, eq, eq2)
	assert.Equal(t, before, s.Status())

	// the same draft may be fixed up and constructed
	q := point(t, s, "p").OnLine(l)
	construct(t, s, q)
	assert.Equal(t, []string{"a", "b", "p"}, s.Status().Points)
}

func TestConstructRules(t *testing.T) {
	s := newSession(t)
	a := point(t, s, "a")
	construct(t, s, a)
	ctx := context.Background()

	assert.ErrorIs(t, s.Construct(ctx, a), ErrConstructed)

	_, err := s.NewPoint("a")
	assert.ErrorIs(t, err, ErrDuplicateLabel)
	_, err = s.NewLine("a")
	assert.ErrorIs(t, err, ErrDuplicateLabel)

	p1 := point(t, s, "p")
	_, err = s.NewCircle("p")
	assert.ErrorIs(t, err, ErrDuplicateLabel)
	p2 := point(t, s, "p")
	construct(t, s, p2)
	assert.ErrorIs(t, s.Construct(ctx, p1), ErrDuplicateLabel)

	for _, label := range []string{"", "1a", "a-b", "On", "Point", "Segment", "true", "forall"} {
		_, err := s.NewPoint(label)
		assert.ErrorIs(t, err, ErrBadLabel, label)
	}

	other := newSession(t)
	q := point(t, other, "q")
	assert.ErrorIs(t, s.Construct(ctx, q), ErrForeignEntity)
}

func TestUnknownLabels(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	a := point(t, s, "a")
	construct(t, s, a)
	b := point(t, s, "b")
	l := line(t, s, "L").Through(a, b)
	assert.ErrorIs(t, s.Construct(ctx, l), ErrUnknownLabel)

	_, err := s.Hence(ctx, lang.On(a.Term(), lang.C("M", lang.Line)))
	assert.ErrorIs(t, err, ErrUnknownLabel)
	// a constant of the wrong sort is not the entity
	_, err = s.Hence(ctx, lang.Equal(lang.C("a", lang.Line), lang.C("a", lang.Line)))
	assert.ErrorIs(t, err, ErrUnknownLabel)
	assert.ErrorIs(t, s.Assume(ctx, lang.On(b.Term(), l.Term())), ErrUnknownLabel)

	_, err = s.Point("b")
	assert.ErrorIs(t, err, ErrUnknownLabel)
	_, err = s.Line("a")
	assert.ErrorIs(t, err, ErrUnknownLabel)
	got, err := s.Point("a")
	require.NoError(t, err)
	assert.Same(t, a, got)
}

func TestIllSorted(t *testing.T) {
	s := newSession(t)
	a := point(t, s, "a")
	construct(t, s, a)
	_, err := s.Hence(context.Background(), lang.On(a.Term(), a.Term()))
	assert.ErrorIs(t, err, lang.ErrSort)
	_, err = s.Hence(context.Background(), nil)
	assert.Error(t, err)
}

func TestCommittedImmutable(t *testing.T) {
	s := newSession(t)
	a, b, l := twoPoints(t, s)
	post := l.Post()
	l.Through(b, a).Ensure(lang.False)
	assert.Equal(t, post, l.Post())
	assert.True(t, l.Constructed())
	assert.True(t, l.Distinct())
	assert.Equal(t, []lang.Formula{lang.Neq(a.Term(), b.Term())}, l.Pre())
}

func TestDistinctness(t *testing.T) {
	s := newSession(t)
	a := point(t, s, "a")
	b := point(t, s, "b", NonDistinct())
	c := point(t, s, "c")
	construct(t, s, a, b, c)
	assert.Empty(t, a.Post())
	assert.Empty(t, b.Post())
	assert.Equal(t, []lang.Formula{
		lang.Neq(c.Term(), a.Term()),
		lang.Neq(c.Term(), b.Term())}, c.Post())

	assert.Equal(t, NotEntailed, hence(s, lang.Neq(a.Term(), b.Term())))
	assert.Equal(t, Entailed, hence(s, lang.Neq(a.Term(), c.Term())))
}

// A distinct line may follow two lines which coincide.
func TestDistinctAfterCoincident(t *testing.T) {
	s := newSession(t)
	a, b, l := twoPoints(t, s)
	m := line(t, s, "M", NonDistinct()).Through(a, b)
	construct(t, s, m)
	require.Equal(t, Entailed, hence(s, lang.Equal(l.Term(), m.Term())))

	c := point(t, s, "c")
	construct(t, s, c)
	n := line(t, s, "N").Through(a, c)
	require.NoError(t, s.Construct(context.Background(), n))
	assert.Equal(t, []lang.Formula{
		lang.On(a.Term(), n.Term()),
		lang.On(c.Term(), n.Term()),
		lang.Neq(n.Term(), l.Term()),
		lang.Neq(n.Term(), m.Term())}, n.Post())
	assert.Equal(t, Entailed, hence(s, lang.Neg(lang.On(c.Term(), l.Term()))))
	assert.Equal(t, []string{"L", "M", "N"}, s.Status().Lines)
}

func TestAssume(t *testing.T) {
	s := newSession(t)
	a, b, l := twoPoints(t, s)
	c := point(t, s, "c")
	construct(t, s, c)
	ctx := context.Background()

	assert.Equal(t, NotEntailed, hence(s, lang.On(c.Term(), l.Term())))
	require.NoError(t, s.Assume(ctx, lang.On(c.Term(), l.Term())))
	assert.Equal(t, Entailed, hence(s, lang.On(c.Term(), l.Term())))
	assert.Contains(t, s.Status().Assumptions, lang.On(c.Term(), l.Term()))

	before := s.Status()
	err := s.Assume(ctx, lang.Between(a.Term(), c.Term(), b.Term()), lang.Between(c.Term(), a.Term(), b.Term()))
	var rej *Rejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, lang.Between(c.Term(), a.Term(), b.Term()), rej.Formula)
	assert.Equal(t, before, s.Status())
	require.NoError(t, s.Assume(ctx))
}

func TestConsistencyMode(t *testing.T) {
	s := newSession(t, WithMode(Consistency))
	assert.Equal(t, Consistency, s.Mode())
	a, b, l := twoPoints(t, s)
	c := point(t, s, "c")
	construct(t, s, c)

	// either of two contradictory claims is consistent; the first one wins
	on := lang.On(c.Term(), l.Term())
	assert.Equal(t, Entailed, hence(s, lang.Neg(on)))
	assert.Equal(t, NotEntailed, hence(s, on))
	assert.Equal(t, NotEntailed, hence(s, lang.Equal(a.Term(), b.Term())))
}

func TestUndecided(t *testing.T) {
	s, err := New(context.Background(), gen.RandS(time.Hour, inter.Sat),
		WithLogger(quiet), WithTimeout(10*time.Millisecond))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	a := point(t, s, "a")
	err = s.Construct(ctx, a)
	var rej *Rejection
	require.True(t, errors.As(err, &rej))
	assert.ErrorIs(t, err, ErrUndecided)
	assert.ErrorIs(t, err, ErrPreconditionUnmet)
	assert.Nil(t, rej.Formula)
	assert.Equal(t, "random timeout", rej.Reason)
	assert.Equal(t, "construct a: undecided (random timeout)", rej.Error())

	v, err := s.Hence(ctx, lang.True)
	assert.Equal(t, Undecided, v)
	assert.ErrorIs(t, err, ErrUndecided)
	assert.ErrorIs(t, err, ErrNotEntailed)
	assert.Empty(t, s.Status().Conclusions)
}

func TestInconsistentAxioms(t *testing.T) {
	_, err := New(context.Background(), gen.RandS(0, inter.Unsat), WithLogger(quiet))
	assert.ErrorIs(t, err, ErrInconsistentAxioms)

	s, err := New(context.Background(), gen.RandS(0, inter.Unsat), WithLogger(quiet), AllowInconsistent())
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestJournal(t *testing.T) {
	j, err := journal.Open("", nil)
	require.NoError(t, err)
	defer j.Close()
	s := newSession(t, WithJournal(j), WithID("s1"))
	assert.Equal(t, "s1", s.ID())
	ctx := context.Background()
	a, b, c := betweenness(t, s)
	hence(s, lang.Between(c.Term(), b.Term(), a.Term()))
	hence(s, lang.Between(b.Term(), a.Term(), c.Term()))

	es, err := j.Entries(ctx, "s1")
	require.NoError(t, err)
	var got []string
	for _, e := range es {
		got = append(got, e.Op+" "+e.Label+" "+e.Outcome)
	}
	assert.Equal(t, []string{
		"init  sat",
		"construct a committed",
		"construct c committed",
		"construct b committed",
		"hence  entailed",
		"hence  rejected",
	}, got)
	assert.Equal(t, "Between(c, b, a)", es[4].Formula)
	assert.Equal(t, uint64(6), es[5].Seq)
}

func TestBadID(t *testing.T) {
	for _, id := range []string{"", "a/b"} {
		_, err := New(context.Background(), ground.New(ground.WithLogger(quiet)),
			WithLogger(quiet), WithID(id))
		assert.ErrorIs(t, err, journal.ErrBadSession, id)
	}
}

// draw constructs the objects of d, leaving distinctness to its facts.
func draw(t *testing.T, s *Session, d *gen.Diagram) {
	t.Helper()
	for _, k := range d.Consts() {
		var e Entity
		var err error
		switch k.S {
		case lang.Point:
			e, err = s.NewPoint(k.Name, NonDistinct())
		case lang.Line:
			e, err = s.NewLine(k.Name, NonDistinct())
		default:
			e, err = s.NewCircle(k.Name, NonDistinct())
		}
		require.NoError(t, err)
		construct(t, s, e)
	}
}

func TestCollinearDiagram(t *testing.T) {
	s := newSession(t)
	d := gen.Collinear(4)
	draw(t, s, d)
	require.NoError(t, s.Assume(context.Background(), d.Facts...))
	p := d.Points
	assert.Equal(t, Entailed, hence(s, lang.Between(p[0], p[1], p[3])))
	assert.Equal(t, Entailed, hence(s, lang.Between(p[3], p[2], p[1])))
	assert.Equal(t, Entailed, hence(s, lang.Neg(lang.Between(p[1], p[0], p[2]))))
	assert.Equal(t, NotEntailed, hence(s, lang.Equal(p[0], p[1])))
	assert.Equal(t, NotEntailed, hence(s, lang.Between(p[1], p[0], p[2])))
}

func TestPencilDiagram(t *testing.T) {
	s := newSession(t)
	d := gen.Pencil(2)
	draw(t, s, d)
	require.NoError(t, s.Assume(context.Background(), d.Facts...))
	p, l := d.Points, d.Lines
	// p0 on L1 would give L0 and L1 two common points
	assert.Equal(t, Entailed, hence(s, lang.Neg(lang.On(p[1], l[1]))))
	assert.Equal(t, Entailed, hence(s, lang.Neg(lang.On(p[2], l[0]))))
	assert.Equal(t, NotEntailed, hence(s, lang.Equal(p[1], p[2])))
}

func TestRandomDiagrams(t *testing.T) {
	gen.Seed(11)
	for i := 0; i < 5; i++ {
		s := newSession(t)
		d := gen.RandIncidence(3, 2, 6)
		draw(t, s, d)
		before := s.Status()
		err := s.Assume(context.Background(), d.Facts...)
		if err == nil {
			assert.Equal(t, d.Facts, s.Status().Assumptions, "diagram %d", i)
			continue
		}
		var rej *Rejection
		require.True(t, errors.As(err, &rej), "diagram %d: %v", i, err)
		assert.ErrorIs(t, err, ErrInconsistent)
		assert.Equal(t, before, s.Status())
	}
}

func TestClosed(t *testing.T) {
	s := newSession(t)
	a := point(t, s, "a")
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	ctx := context.Background()
	assert.ErrorIs(t, s.Construct(ctx, a), ErrClosed)
	_, err := s.Hence(ctx, lang.True)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Assume(ctx, lang.True), ErrClosed)
	_, err = s.NewLine("L")
	assert.ErrorIs(t, err, ErrClosed)
}

var errBackend = errors.New("backend gone")

// flaky fails assertions outside any scope once fail is set.
type flaky struct {
	*ground.Solver
	depth int
	fail  bool
}

func (f *flaky) Push() error {
	f.depth++
	return f.Solver.Push()
}

func (f *flaky) Pop() error {
	f.depth--
	return f.Solver.Pop()
}

func (f *flaky) Assert(fs ...lang.Formula) error {
	if f.fail && f.depth == 0 {
		return errBackend
	}
	return f.Solver.Assert(fs...)
}

func TestBrokenCommit(t *testing.T) {
	ctx := context.Background()
	backend := &flaky{Solver: ground.New(ground.WithLogger(quiet))}
	s, err := New(ctx, backend, WithLogger(quiet))
	require.NoError(t, err)
	defer s.Close()
	a, b := point(t, s, "a"), point(t, s, "b")
	construct(t, s, a)

	backend.fail = true
	err = s.Construct(ctx, b)
	assert.ErrorIs(t, err, errBackend)
	assert.False(t, b.Constructed())
	assert.Equal(t, []string{"a"}, s.Status().Points)

	backend.fail = false
	assert.ErrorIs(t, s.Construct(ctx, b), ErrBroken)
	_, err = s.Hence(ctx, lang.True)
	assert.ErrorIs(t, err, ErrBroken)
	assert.ErrorIs(t, s.Assume(ctx, lang.True), ErrBroken)
	_, err = s.NewCircle("alpha")
	assert.ErrorIs(t, err, ErrBroken)
	require.NoError(t, s.Close())
}

func TestKinds(t *testing.T) {
	assert.Equal(t, "circle", KindCircle.String())
	assert.Equal(t, lang.Line, KindLine.Sort())
	assert.Equal(t, "Kind(7)", Kind(7).String())
	m, err := ParseMode("consistency")
	require.NoError(t, err)
	assert.Equal(t, Consistency, m)
	_, err = ParseMode("proof")
	assert.Error(t, err)
	assert.Equal(t, "undecided", Undecided.String())
}
