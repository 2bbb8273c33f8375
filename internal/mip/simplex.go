package mip

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const integralTol = 1e-6

// Simplex solves the linear relaxation of a model with gonum's dense simplex.
// Integer variables are accepted; the result is Optimal only when the relaxed
// optimum is integral on them, which holds for totally unimodular problems such
// as transportation models with integral data.
type Simplex struct {
	// Relax reports the relaxed optimum as Optimal even when integer variables
	// take fractional values.
	Relax bool
	// Tol is passed to lp.Simplex; 0 means 1e-10.
	Tol float64
}

func (s *Simplex) Name() string { return BackendSimplex }

type stdRow struct {
	terms []Term
	slack float64 // +1 for <=, -1 for >=, 0 for =
	rhs   float64
}

func (s *Simplex) Solve(ctx context.Context, m *Model) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := m.NumVars()
	if n == 0 {
		return emptyResult(m), nil
	}
	for _, v := range m.vars {
		if math.IsInf(v.Lower, 0) {
			return nil, fmt.Errorf("mip: simplex: variable %q needs a finite lower bound", v.Name)
		}
	}

	// Standard form over y = x - lower >= 0: one row per constraint, with a
	// slack unless it is an equality, and one row y + w = upper - lower per
	// finite upper bound.
	used := make([]bool, n)
	var rows []stdRow
	for _, c := range m.cons {
		rhs := c.RHS
		var terms []Term
		for _, t := range c.Terms {
			if t.Coef == 0 {
				continue
			}
			rhs -= t.Coef * m.vars[t.Var].Lower
			terms = append(terms, t)
			used[t.Var] = true
		}
		if len(terms) == 0 {
			if !holds(0, c.Sense, rhs, integralTol) {
				return &Result{Status: StatusInfeasible, Detail: "constraint " + c.Name}, nil
			}
			continue
		}
		row := stdRow{terms: terms, rhs: rhs}
		switch c.Sense {
		case LessEq:
			row.slack = 1
		case GreaterEq:
			row.slack = -1
		}
		rows = append(rows, row)
	}
	for i, v := range m.vars {
		if !math.IsInf(v.Upper, 1) {
			rows = append(rows, stdRow{terms: []Term{{Var: Var(i), Coef: 1}}, slack: 1, rhs: v.Upper - v.Lower})
			used[i] = true
		}
	}
	// A column in no row sits at its lower bound unless it pays to grow it.
	for i, v := range m.vars {
		if !used[i] && v.Cost < 0 {
			return &Result{Status: StatusUnbounded, Detail: "variable " + v.Name}, nil
		}
	}

	values := make([]float64, n)
	for i, v := range m.vars {
		values[i] = v.Lower
	}
	if len(rows) == 0 {
		return &Result{Status: StatusOptimal, Objective: m.Objective(values), Values: values, Detail: "trivial"}, nil
	}

	cols := map[Var]int{}
	for i := range m.vars {
		if used[i] {
			cols[Var(i)] = len(cols)
		}
	}
	width := len(cols)
	for _, r := range rows {
		if r.slack != 0 {
			width++
		}
	}
	if len(rows) > width {
		return nil, fmt.Errorf("mip: simplex: %d rows exceed %d columns", len(rows), width)
	}

	A := mat.NewDense(len(rows), width, nil)
	b := make([]float64, len(rows))
	c := make([]float64, width)
	for i, v := range m.vars {
		if j, ok := cols[Var(i)]; ok {
			c[j] = v.Cost
		}
	}
	next := len(cols)
	for r, row := range rows {
		sign := 1.0
		if row.rhs < 0 {
			sign = -1
		}
		for _, t := range row.terms {
			j := cols[t.Var]
			A.Set(r, j, A.At(r, j)+sign*t.Coef)
		}
		if row.slack != 0 {
			A.Set(r, next, sign*row.slack)
			next++
		}
		b[r] = sign * row.rhs
	}

	tol := s.Tol
	if tol == 0 {
		tol = 1e-10
	}
	_, x, err := lp.Simplex(c, A, b, tol, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return &Result{Status: StatusInfeasible, Detail: err.Error()}, nil
	case errors.Is(err, lp.ErrUnbounded):
		return &Result{Status: StatusUnbounded, Detail: err.Error()}, nil
	case err != nil:
		return nil, fmt.Errorf("mip: simplex: %w", err)
	}

	integral := true
	for i, v := range m.vars {
		if j, ok := cols[Var(i)]; ok {
			values[i] += x[j]
		}
		if v.Integer {
			r := math.Round(values[i])
			if math.Abs(values[i]-r) > integralTol {
				integral = false
				continue
			}
			values[i] = r
		}
	}
	res := &Result{Status: StatusOptimal, Objective: m.Objective(values), Values: values, Detail: "optimal"}
	if !integral && !s.Relax {
		res.Status = StatusOther
		res.Detail = "relaxation not integral"
	}
	return res, nil
}

func holds(lhs float64, sense Sense, rhs, tol float64) bool {
	switch sense {
	case LessEq:
		return lhs <= rhs+tol
	case GreaterEq:
		return lhs >= rhs-tol
	default:
		return math.Abs(lhs-rhs) <= tol
	}
}
