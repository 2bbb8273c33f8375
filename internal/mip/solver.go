package mip

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// Status is the terminal state reported by a backend.
type Status int

const (
	StatusOther Status = iota
	StatusOptimal
	StatusInfeasible
	StatusUnbounded
	StatusTimeLimit
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusTimeLimit:
		return "time_limit"
	default:
		return "other"
	}
}

// Result is what a backend returns for one solve.
type Result struct {
	Status    Status
	Objective float64
	Values    []float64 // indexed by Var; empty unless a solution is available
	Detail    string    // backend-native status, for logs
}

func (r *Result) Optimal() bool { return r != nil && r.Status == StatusOptimal }

// Value returns the value of v, or 0 if no solution is available.
func (r *Result) Value(v Var) float64 {
	if r == nil || int(v) < 0 || int(v) >= len(r.Values) {
		return 0
	}
	return r.Values[v]
}

// IntValue returns Value rounded to the nearest integer.
func (r *Result) IntValue(v Var) int {
	return int(math.Round(r.Value(v)))
}

// Solver optimizes a Model. Implementations must not retain the model.
type Solver interface {
	Name() string
	Solve(ctx context.Context, m *Model) (*Result, error)
}

// Options are backend-independent solve settings. Zero values mean "backend
// default".
type Options struct {
	TimeLimit time.Duration
	MIPRelGap float64
	Threads   int
	Output    bool
}

// timeLimit returns the effective limit, tightened by the context deadline.
func (o Options) timeLimit(ctx context.Context) time.Duration {
	limit := o.TimeLimit
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); limit <= 0 || left < limit {
			limit = left
		}
	}
	return limit
}

const (
	BackendHiGHS   = "highs"
	BackendSimplex = "simplex"
)

// New returns the backend registered under name.
func New(name string, opts Options) (Solver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendHiGHS:
		return &HiGHS{Options: opts}, nil
	case BackendSimplex:
		return &Simplex{}, nil
	default:
		return nil, fmt.Errorf("mip: unknown backend %q (want %s or %s)", name, BackendHiGHS, BackendSimplex)
	}
}
