package mip

import (
	"context"
	"fmt"
	"math"

	"github.com/bartolsthoorn/gohighs/highs"
)

// HiGHS solves models with the HiGHS LP/MIP solver through its cgo bindings.
type HiGHS struct {
	Options
}

func (h *HiGHS) Name() string { return BackendHiGHS }

func (h *HiGHS) Solve(ctx context.Context, m *Model) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.NumVars() == 0 {
		return emptyResult(m), nil
	}

	hm := highs.Model{
		ColCosts: make([]float64, m.NumVars()),
		ColLower: make([]float64, m.NumVars()),
		ColUpper: make([]float64, m.NumVars()),
		VarTypes: make([]highs.VariableType, m.NumVars()),
	}
	for i, v := range m.vars {
		hm.ColCosts[i] = v.Cost
		hm.ColLower[i] = v.Lower
		hm.ColUpper[i] = v.Upper
		if v.Integer {
			hm.VarTypes[i] = highs.Integer
		}
	}
	for _, c := range m.cons {
		lower, upper := rowBounds(c)
		cols := make([]int, len(c.Terms))
		vals := make([]float64, len(c.Terms))
		for k, t := range c.Terms {
			cols[k] = int(t.Var)
			vals[k] = t.Coef
		}
		hm.AddSparseRow(lower, cols, vals, upper)
	}

	opts := []highs.SolveOption{highs.WithOutput(h.Output)}
	if limit := h.timeLimit(ctx); limit > 0 {
		opts = append(opts, highs.WithTimeLimit(limit.Seconds()))
	}
	if h.MIPRelGap > 0 {
		opts = append(opts, highs.WithMIPRelGap(h.MIPRelGap))
	}
	if h.Threads > 0 {
		opts = append(opts, highs.WithThreads(h.Threads))
	}

	sol, err := hm.Solve(opts...)
	if err != nil {
		return nil, fmt.Errorf("mip: highs: %w", err)
	}
	res := &Result{Status: highsStatus(sol.Status), Detail: sol.Status.String()}
	if sol.HasSolution() {
		res.Objective = sol.Objective
		res.Values = sol.ColValues
	}
	return res, nil
}

func rowBounds(c Constraint) (lower, upper float64) {
	switch c.Sense {
	case LessEq:
		return math.Inf(-1), c.RHS
	case GreaterEq:
		return c.RHS, math.Inf(1)
	default:
		return c.RHS, c.RHS
	}
}

func highsStatus(s highs.ModelStatus) Status {
	switch s {
	case highs.ModelStatusOptimal:
		return StatusOptimal
	case highs.ModelStatusInfeasible, highs.ModelStatusUnboundedOrInfeasible:
		return StatusInfeasible
	case highs.ModelStatusUnbounded:
		return StatusUnbounded
	case highs.ModelStatusTimeLimit:
		return StatusTimeLimit
	default:
		return StatusOther
	}
}

// emptyResult handles a model without variables: every constraint reads 0 on
// its left-hand side.
func emptyResult(m *Model) *Result {
	if !m.Feasible(nil, 0) {
		return &Result{Status: StatusInfeasible, Detail: "empty model"}
	}
	return &Result{Status: StatusOptimal, Values: []float64{}, Detail: "empty model"}
}
