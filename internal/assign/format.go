package assign

import (
	"fmt"
	"strings"

	"airassign/internal/mip"
	"airassign/internal/model"
)

const (
	OptimalHeader = "Optimal solution found:"
	NoSolution    = "No optimal solution found."
)

// Format renders one line per pair when res is optimal, otherwise the single
// NoSolution line.
func Format(vars *Vars, res *mip.Result) string {
	if !res.Optimal() {
		return NoSolution + "\n"
	}
	var b strings.Builder
	b.WriteString(OptimalHeader + "\n")
	for _, a := range Assignments(vars, res) {
		fmt.Fprintf(&b, "Aircraft %d -> Route %d: %d passengers\n", a.Aircraft, a.Route, a.Passengers)
	}
	return b.String()
}

// Assignments lists the solved passenger counts in aircraft-major order. It is
// empty unless res is optimal.
func Assignments(vars *Vars, res *mip.Result) []model.Assignment {
	if !res.Optimal() {
		return nil
	}
	out := make([]model.Assignment, 0, len(vars.Pairs))
	for _, p := range vars.Pairs {
		out = append(out, model.Assignment{Aircraft: p.Aircraft, Route: p.Route, Passengers: res.IntValue(vars.X[p])})
	}
	return out
}
