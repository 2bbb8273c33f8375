package mip

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backendCases runs the scenarios every backend must agree on.
func backendCases(t *testing.T, s Solver) {
	ctx := context.Background()
	inf := math.Inf(1)

	t.Run("cover", func(t *testing.T) {
		// min x + 2y  s.t.  x + y >= 3, x <= 2
		m := NewModel("cover")
		x, _ := m.AddVar("x", 0, inf, true)
		y, _ := m.AddVar("y", 0, inf, true)
		require.NoError(t, m.AddObjectiveTerm(x, 1))
		require.NoError(t, m.AddObjectiveTerm(y, 2))
		require.NoError(t, m.AddConstraint("need", []Term{{x, 1}, {y, 1}}, GreaterEq, 3))
		require.NoError(t, m.AddConstraint("capx", []Term{{x, 1}}, LessEq, 2))

		res, err := s.Solve(ctx, m)
		require.NoError(t, err)
		require.True(t, res.Optimal(), "status %s (%s)", res.Status, res.Detail)
		assert.InDelta(t, 4, res.Objective, 1e-6)
		assert.Equal(t, 2, res.IntValue(x))
		assert.Equal(t, 1, res.IntValue(y))
		assert.True(t, m.Feasible(res.Values, 1e-6))
	})

	t.Run("infeasible", func(t *testing.T) {
		m := NewModel("infeasible")
		x, _ := m.AddVar("x", 0, inf, true)
		require.NoError(t, m.AddConstraint("hi", []Term{{x, 1}}, LessEq, 1))
		require.NoError(t, m.AddConstraint("lo", []Term{{x, 1}}, GreaterEq, 2))

		res, err := s.Solve(ctx, m)
		require.NoError(t, err)
		assert.Equal(t, StatusInfeasible, res.Status)
		assert.False(t, res.Optimal())
	})

	t.Run("bounded variable", func(t *testing.T) {
		// min x  s.t.  x >= 0, 2 <= x <= 5
		m := NewModel("bounded")
		x, _ := m.AddVar("x", 2, 5, false)
		require.NoError(t, m.AddObjectiveTerm(x, 1))
		require.NoError(t, m.AddConstraint("nonneg", []Term{{x, 1}}, GreaterEq, 0))

		res, err := s.Solve(ctx, m)
		require.NoError(t, err)
		require.True(t, res.Optimal())
		assert.InDelta(t, 2, res.Value(x), 1e-6)
		assert.InDelta(t, 2, res.Objective, 1e-6)
	})

	t.Run("equality", func(t *testing.T) {
		// min 3a + b  s.t.  a + b = 4, a >= 1
		m := NewModel("eq")
		a, _ := m.AddVar("a", 0, inf, false)
		b, _ := m.AddVar("b", 0, inf, false)
		require.NoError(t, m.AddObjectiveTerm(a, 3))
		require.NoError(t, m.AddObjectiveTerm(b, 1))
		require.NoError(t, m.AddConstraint("sum", []Term{{a, 1}, {b, 1}}, Equal, 4))
		require.NoError(t, m.AddConstraint("amin", []Term{{a, 1}}, GreaterEq, 1))

		res, err := s.Solve(ctx, m)
		require.NoError(t, err)
		require.True(t, res.Optimal())
		assert.InDelta(t, 6, res.Objective, 1e-6)
	})

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := s.Solve(cctx, NewModel("x"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSimplexBackend(t *testing.T) {
	backendCases(t, &Simplex{})
}

func TestSimplexUnbounded(t *testing.T) {
	m := NewModel("unbounded")
	x, _ := m.AddVar("x", 0, math.Inf(1), false)
	require.NoError(t, m.AddObjectiveTerm(x, -1))
	require.NoError(t, m.AddConstraint("lo", []Term{{x, 1}}, GreaterEq, 1))

	res, err := (&Simplex{}).Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, StatusUnbounded, res.Status)
}

func TestSimplexFreeColumn(t *testing.T) {
	m := NewModel("free")
	x, _ := m.AddVar("x", 1, math.Inf(1), false)
	require.NoError(t, m.AddObjectiveTerm(x, 2))

	res, err := (&Simplex{}).Solve(context.Background(), m)
	require.NoError(t, err)
	require.True(t, res.Optimal())
	assert.Equal(t, 1.0, res.Value(x))
	assert.Equal(t, 2.0, res.Objective)

	require.NoError(t, m.AddObjectiveTerm(x, -3))
	res, err = (&Simplex{}).Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, StatusUnbounded, res.Status)
}

func TestSimplexFractionalRelaxation(t *testing.T) {
	// max x  s.t.  2x <= 3, x integer: the relaxation stops at 1.5
	m := NewModel("frac")
	x, _ := m.AddVar("x", 0, math.Inf(1), true)
	require.NoError(t, m.AddObjectiveTerm(x, -1))
	require.NoError(t, m.AddConstraint("half", []Term{{x, 2}}, LessEq, 3))

	res, err := (&Simplex{}).Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, StatusOther, res.Status)
	assert.Equal(t, "relaxation not integral", res.Detail)

	res, err = (&Simplex{Relax: true}).Solve(context.Background(), m)
	require.NoError(t, err)
	require.True(t, res.Optimal())
	assert.InDelta(t, -1.5, res.Objective, 1e-9)
}

func TestSimplexNeedsFiniteLowerBound(t *testing.T) {
	m := NewModel("free-lower")
	_, _ = m.AddVar("x", math.Inf(-1), 0, false)
	_, err := (&Simplex{}).Solve(context.Background(), m)
	assert.Error(t, err)
}
