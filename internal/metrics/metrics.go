package metrics

import (
    "sync"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
)

var (
    // Registry is the dedicated Prometheus registry for the service
    Registry = prometheus.NewRegistry()
    // HTTPRequests counts requests by method, path, and status
    HTTPRequests = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
        []string{"method", "path", "status"},
    )
    // HTTPDuration records request durations in seconds
    HTTPDuration = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
        []string{"method", "path", "status"},
    )

    // SolveRuns counts finished solves by backend and solver status
    SolveRuns = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "assign_solve_runs_total", Help: "Assignment solves by backend and status."},
        []string{"backend", "status"},
    )
    // SolveDuration tracks wall time of the solver call in seconds
    SolveDuration = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{Name: "assign_solve_duration_seconds", Help: "Solver wall time in seconds.", Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120}},
        []string{"backend"},
    )
    // SolveFailures counts runs aborted before a solver status was obtained
    SolveFailures = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "assign_solve_failures_total", Help: "Runs aborted by data, model or solver errors."},
        []string{"kind"},
    )
    // VerifyMismatches counts runs whose LP relaxation disagreed with the MIP objective
    VerifyMismatches = prometheus.NewCounter(
        prometheus.CounterOpts{Name: "assign_verify_mismatches_total", Help: "LP relaxation cross-checks that disagreed with the MIP objective."},
    )
)

// RegisterDefault registers collectors to the service registry.
func RegisterDefault() {
    regOnce.Do(func(){
        Registry.MustRegister(HTTPRequests)
        Registry.MustRegister(HTTPDuration)
        Registry.MustRegister(SolveRuns)
        Registry.MustRegister(SolveDuration)
        Registry.MustRegister(SolveFailures)
        Registry.MustRegister(VerifyMismatches)
        // Go/process collectors on our registry
        Registry.MustRegister(collectors.NewGoCollector())
        Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    })
}

var regOnce sync.Once
