// Package assign turns an aircraft/route dataset into an integer program, runs
// it through a mip.Solver and renders the assignment.
package assign

import (
	"fmt"
	"math"

	"airassign/internal/mip"
	"airassign/internal/model"
)

// ModelError reports a dataset whose tables disagree about which aircraft and
// routes exist, or a model the builder could not assemble.
type ModelError struct {
	Op  string
	Err error
}

func (e *ModelError) Error() string { return fmt.Sprintf("model: %s: %v", e.Op, e.Err) }
func (e *ModelError) Unwrap() error { return e.Err }

// Vars maps each (aircraft, route) pair to its decision variable. Pairs keeps
// aircraft-major order for reporting.
type Vars struct {
	X     map[model.Pair]mip.Var
	Pairs []model.Pair
}

// Build assembles
//
//	min  sum cost[i,j] * x[i,j]
//	s.t. sum_i x[i,j] >= demand[j]        demand_j
//	     sum_j x[i,j] <= availability[i]  availability_i
//	     x[i,j] <= capability[i,j]        capabilities_i_j
//	     x[i,j] >= 0, integer
func Build(ds *model.Dataset) (*mip.Model, *Vars, error) {
	m := mip.NewModel("aircraft_allocation")
	vars := &Vars{X: map[model.Pair]mip.Var{}}

	for _, p := range ds.Pairs() {
		cost, ok := ds.Cost[p]
		if !ok {
			return nil, nil, &ModelError{Op: "objective", Err: fmt.Errorf("no cost for aircraft %d route %d", p.Aircraft, p.Route)}
		}
		v, err := m.AddVar(fmt.Sprintf("x[%d,%d]", p.Aircraft, p.Route), 0, math.Inf(1), true)
		if err != nil {
			return nil, nil, &ModelError{Op: "variables", Err: err}
		}
		if err := m.AddObjectiveTerm(v, float64(cost)); err != nil {
			return nil, nil, &ModelError{Op: "objective", Err: err}
		}
		vars.X[p] = v
		vars.Pairs = append(vars.Pairs, p)
	}

	for _, r := range ds.Routes {
		demand, ok := ds.Demand[r]
		if !ok {
			return nil, nil, &ModelError{Op: fmt.Sprintf("demand_%d", r), Err: fmt.Errorf("no demand for route %d", r)}
		}
		terms := make([]mip.Term, 0, len(ds.Aircraft))
		for _, a := range ds.Aircraft {
			terms = append(terms, mip.Term{Var: vars.X[model.Pair{Aircraft: a, Route: r}], Coef: 1})
		}
		if err := m.AddConstraint(fmt.Sprintf("demand_%d", r), terms, mip.GreaterEq, float64(demand)); err != nil {
			return nil, nil, &ModelError{Op: fmt.Sprintf("demand_%d", r), Err: err}
		}
	}

	for _, a := range ds.Aircraft {
		avail, ok := ds.Availability[a]
		if !ok {
			return nil, nil, &ModelError{Op: fmt.Sprintf("availability_%d", a), Err: fmt.Errorf("no availability for aircraft %d", a)}
		}
		terms := make([]mip.Term, 0, len(ds.Routes))
		for _, r := range ds.Routes {
			terms = append(terms, mip.Term{Var: vars.X[model.Pair{Aircraft: a, Route: r}], Coef: 1})
		}
		if err := m.AddConstraint(fmt.Sprintf("availability_%d", a), terms, mip.LessEq, float64(avail)); err != nil {
			return nil, nil, &ModelError{Op: fmt.Sprintf("availability_%d", a), Err: err}
		}
	}

	for _, p := range vars.Pairs {
		name := fmt.Sprintf("capabilities_%d_%d", p.Aircraft, p.Route)
		capacity, ok := ds.Capability[p]
		if !ok {
			return nil, nil, &ModelError{Op: name, Err: fmt.Errorf("no capability for aircraft %d route %d", p.Aircraft, p.Route)}
		}
		if err := m.AddConstraint(name, []mip.Term{{Var: vars.X[p], Coef: 1}}, mip.LessEq, float64(capacity)); err != nil {
			return nil, nil, &ModelError{Op: name, Err: err}
		}
	}
	return m, vars, nil
}
