// Package mip is the narrow capability interface between the assignment code
// and whichever mathematical-optimization library performs the solve: declare
// variables, add linear terms and constraints, optimize, read status and values.
package mip

import (
	"errors"
	"fmt"
	"math"
)

// Var is a handle to a declared variable (its column index).
type Var int

// Sense is the relation of a linear constraint to its right-hand side.
type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Equal:
		return "="
	default:
		return "?"
	}
}

// Term is coef * var.
type Term struct {
	Var  Var
	Coef float64
}

// Variable describes one column.
type Variable struct {
	Name    string
	Lower   float64
	Upper   float64
	Integer bool
	Cost    float64
}

// Constraint is sum(terms) <sense> RHS.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

var (
	ErrDuplicateName = errors.New("mip: duplicate name")
	ErrUnknownVar    = errors.New("mip: unknown variable")
	ErrBadBounds     = errors.New("mip: bad bounds")
)

// Model is a minimization problem over declared variables. The zero value is
// not usable; call NewModel.
type Model struct {
	Name  string
	vars  []Variable
	cons  []Constraint
	names map[string]Var
	rows  map[string]int
}

func NewModel(name string) *Model {
	return &Model{Name: name, names: map[string]Var{}, rows: map[string]int{}}
}

// AddVar declares a variable with bounds [lower, upper]. Use math.Inf for an
// open side.
func (m *Model) AddVar(name string, lower, upper float64, integer bool) (Var, error) {
	if _, dup := m.names[name]; dup {
		return 0, fmt.Errorf("%w: variable %q", ErrDuplicateName, name)
	}
	if math.IsNaN(lower) || math.IsNaN(upper) || lower > upper {
		return 0, fmt.Errorf("%w: %q [%v, %v]", ErrBadBounds, name, lower, upper)
	}
	v := Var(len(m.vars))
	m.vars = append(m.vars, Variable{Name: name, Lower: lower, Upper: upper, Integer: integer})
	m.names[name] = v
	return v, nil
}

// AddObjectiveTerm adds coef*v to the objective.
func (m *Model) AddObjectiveTerm(v Var, coef float64) error {
	if !m.valid(v) {
		return fmt.Errorf("%w: %d", ErrUnknownVar, v)
	}
	m.vars[v].Cost += coef
	return nil
}

// AddConstraint appends sum(terms) <sense> rhs. Repeated variables in terms are
// summed.
func (m *Model) AddConstraint(name string, terms []Term, sense Sense, rhs float64) error {
	if _, dup := m.rows[name]; dup {
		return fmt.Errorf("%w: constraint %q", ErrDuplicateName, name)
	}
	merged := make([]Term, 0, len(terms))
	at := map[Var]int{}
	for _, t := range terms {
		if !m.valid(t.Var) {
			return fmt.Errorf("%w: %d in constraint %q", ErrUnknownVar, t.Var, name)
		}
		if i, ok := at[t.Var]; ok {
			merged[i].Coef += t.Coef
			continue
		}
		at[t.Var] = len(merged)
		merged = append(merged, t)
	}
	m.rows[name] = len(m.cons)
	m.cons = append(m.cons, Constraint{Name: name, Terms: merged, Sense: sense, RHS: rhs})
	return nil
}

func (m *Model) valid(v Var) bool { return v >= 0 && int(v) < len(m.vars) }

func (m *Model) NumVars() int        { return len(m.vars) }
func (m *Model) NumConstraints() int { return len(m.cons) }

// Lookup returns the variable declared under name.
func (m *Model) Lookup(name string) (Var, bool) {
	v, ok := m.names[name]
	return v, ok
}

// Variable returns the declaration of v.
func (m *Model) Variable(v Var) Variable { return m.vars[v] }

// Constraint returns the constraint declared under name.
func (m *Model) Constraint(name string) (Constraint, bool) {
	i, ok := m.rows[name]
	if !ok {
		return Constraint{}, false
	}
	return m.cons[i], true
}

// Constraints returns the constraints in declaration order.
func (m *Model) Constraints() []Constraint { return m.cons }

// Objective evaluates the objective at values (indexed by Var).
func (m *Model) Objective(values []float64) float64 {
	total := 0.0
	for i, v := range m.vars {
		if i < len(values) {
			total += v.Cost * values[i]
		}
	}
	return total
}

// Feasible reports whether values satisfy every bound and constraint within tol.
func (m *Model) Feasible(values []float64, tol float64) bool {
	if len(values) != len(m.vars) {
		return false
	}
	for i, v := range m.vars {
		x := values[i]
		if x < v.Lower-tol || x > v.Upper+tol {
			return false
		}
		if v.Integer && math.Abs(x-math.Round(x)) > tol {
			return false
		}
	}
	for _, c := range m.cons {
		lhs := 0.0
		for _, t := range c.Terms {
			lhs += t.Coef * values[t.Var]
		}
		switch c.Sense {
		case LessEq:
			if lhs > c.RHS+tol {
				return false
			}
		case GreaterEq:
			if lhs < c.RHS-tol {
				return false
			}
		case Equal:
			if math.Abs(lhs-c.RHS) > tol {
				return false
			}
		}
	}
	return true
}
