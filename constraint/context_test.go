// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package constraint

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-air/euclid/axiom"
	"github.com/go-air/euclid/gen"
	"github.com/go-air/euclid/ground"
	"github.com/go-air/euclid/inter"
	"github.com/go-air/euclid/lang"
)

var (
	a, b = lang.C("a", lang.Point), lang.C("b", lang.Point)
	l, m = lang.C("L", lang.Line), lang.C("M", lang.Line)
)

func newGround(t *testing.T, opts ...Option) *Context {
	t.Helper()
	c := New(ground.New(), opts...)
	ans, err := c.Init(context.Background(), axiom.Set())
	require.NoError(t, err)
	require.Equal(t, inter.Sat, ans.Result)
	return c
}

func TestNotInitialized(t *testing.T) {
	c := New(ground.New())
	assert.ErrorIs(t, c.Assert(lang.True), ErrNotInitialized)
	assert.ErrorIs(t, c.Checkpoint(), ErrNotInitialized)
	_, err := c.Satisfiable(context.Background(), lang.True)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestInitTwice(t *testing.T) {
	c := newGround(t)
	_, err := c.Init(context.Background(), axiom.Set())
	assert.ErrorIs(t, err, ErrInitialized)
}

func TestInitMalformed(t *testing.T) {
	bad := axiom.Axiom{
		Name:    "bad",
		Group:   axiom.Generality,
		Formula: lang.On(lang.V("x", lang.Point), l)}
	c := New(ground.New())
	_, err := c.Init(context.Background(), []axiom.Axiom{bad})
	require.ErrorIs(t, err, axiom.ErrMalformed)
	assert.ErrorIs(t, c.Assert(lang.True), ErrNotInitialized)
}

func TestAssertRejectsIllSorted(t *testing.T) {
	c := newGround(t)
	err := c.Assert(lang.On(a, b))
	assert.ErrorIs(t, err, lang.ErrSort)
	_, err = c.Satisfiable(context.Background(), lang.On(l, a))
	assert.ErrorIs(t, err, lang.ErrSort)
	assert.Equal(t, 0, c.Depth())
}

func TestSatisfiableLeavesNoTrace(t *testing.T) {
	c := newGround(t)
	ctx := context.Background()
	require.NoError(t, c.Assert(lang.Neq(a, b), lang.On(a, l), lang.On(b, l), lang.On(a, m)))

	ans, err := c.Satisfiable(ctx, lang.On(b, m), lang.Neq(l, m))
	require.NoError(t, err)
	assert.Equal(t, inter.Unsat, ans.Result)
	assert.Equal(t, 0, c.Depth())

	ans, err = c.Satisfiable(ctx, lang.Neq(l, m))
	require.NoError(t, err)
	assert.Equal(t, inter.Sat, ans.Result)

	ans, err = c.Satisfiable(ctx, lang.On(b, m))
	require.NoError(t, err)
	assert.Equal(t, inter.Sat, ans.Result)
}

func TestCheckpointRollback(t *testing.T) {
	c := newGround(t)
	ctx := context.Background()
	require.NoError(t, c.Checkpoint())
	require.NoError(t, c.Assert(lang.Neq(a, a)))
	ans, err := c.Satisfiable(ctx)
	require.NoError(t, err)
	assert.Equal(t, inter.Unsat, ans.Result)
	assert.Equal(t, 1, c.Depth())

	require.NoError(t, c.Rollback())
	ans, err = c.Satisfiable(ctx)
	require.NoError(t, err)
	assert.Equal(t, inter.Sat, ans.Result)

	assert.PanicsWithValue(t, "constraint: rollback without checkpoint", func() {
		c.Rollback()
	})
}

func TestTimeout(t *testing.T) {
	c := New(gen.RandS(time.Hour, inter.Sat), WithTimeout(10*time.Millisecond))
	ans, err := c.Init(context.Background(), axiom.Set())
	require.NoError(t, err)
	assert.Equal(t, inter.Unknown, ans.Result)
	assert.Equal(t, "random timeout", ans.Reason)
	assert.Equal(t, "unknown (random timeout)", ans.String())
	assert.Less(t, ans.Elapsed, time.Minute)
}

func TestCallerDeadline(t *testing.T) {
	c := New(gen.RandS(time.Hour, inter.Unsat))
	_, err := c.Init(withDeadline(t, time.Millisecond), axiom.Set())
	require.NoError(t, err)

	ans, err := c.Satisfiable(withDeadline(t, time.Millisecond), lang.On(a, l))
	require.NoError(t, err)
	assert.Equal(t, inter.Unknown, ans.Result)
	assert.Equal(t, 0, c.Depth())
}

func TestRandomResults(t *testing.T) {
	c := New(gen.RandS(time.Millisecond, inter.Unsat))
	ans, err := c.Init(context.Background(), axiom.Set())
	require.NoError(t, err)
	assert.Equal(t, inter.Unsat, ans.Result)
	assert.Equal(t, "unsat", ans.String())
}

func withDeadline(t *testing.T, d time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	t.Cleanup(cancel)
	return ctx
}
