package metrics

import (
    "testing"

    "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterDefaultOnce(t *testing.T) {
    RegisterDefault()
    RegisterDefault()
    SolveRuns.WithLabelValues("simplex", "optimal").Inc()
    if got := testutil.ToFloat64(SolveRuns.WithLabelValues("simplex", "optimal")); got < 1 {
        t.Fatalf("solve runs: got %v", got)
    }
    n, err := testutil.GatherAndCount(Registry, "assign_solve_runs_total")
    if err != nil { t.Fatalf("gather: %v", err) }
    if n == 0 { t.Fatal("assign_solve_runs_total not registered") }
}
