package api

import (
    "context"
    "log"
    "net/http"
    "strings"
    "time"

    "github.com/prometheus/client_golang/prometheus/promhttp"
    "golang.org/x/time/rate"

    "airassign/internal/config"
    "airassign/internal/metrics"
    "airassign/internal/mip"
    "airassign/internal/store"
)

type Server struct {
    Cfg     config.Config
    Source  store.Source
    Runs    *store.Memory
    Broker  EventBroker
    Limiter *rate.Limiter
    // NewSolver builds the backend for one request; defaults to Cfg.NewSolver.
    NewSolver func() (mip.Solver, error)
}

// NewServer wires a Server from cfg. Datasets come from Postgres when
// DatabaseURL is set, otherwise from subdirectories of DataDir.
func NewServer(cfg config.Config) (*Server, error) {
    var src store.Source
    if strings.TrimSpace(cfg.DatabaseURL) == "" {
        src = store.NewDir(cfg.DataDir, cfg.Files)
    } else {
        pg, err := store.NewPostgres(cfg.DatabaseURL)
        if err != nil {
            return nil, err
        }
        if cfg.DBMigrate {
            ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
            err := pg.Migrate(ctx)
            cancel()
            if err != nil { log.Printf("migrate: %v", err) }
        }
        src = pg
    }
    // Broker selection
    var broker EventBroker
    if cfg.RedisURL != "" {
        if rb, err := NewRedisBroker(cfg.RedisURL); err == nil {
            broker = rb
        } else {
            log.Printf("redis broker unavailable, using in-memory: %v", err)
            broker = NewBroker()
        }
    } else {
        broker = NewBroker()
    }
    limit := rate.Inf
    if cfg.RateRPS > 0 { limit = rate.Limit(cfg.RateRPS) }
    metrics.RegisterDefault()
    return &Server{
        Cfg:       cfg,
        Source:    src,
        Runs:      store.NewMemory(cfg.MaxRuns),
        Broker:    broker,
        Limiter:   rate.NewLimiter(limit, cfg.RateBurst),
        NewSolver: cfg.NewSolver,
    }, nil
}

// Routes returns the service mux wrapped in logging and metrics middleware.
func (s *Server) Routes() http.Handler {
    mux := http.NewServeMux()

    // Solving
    mux.Handle("/v1/solve", s.rateLimit(http.HandlerFunc(s.SolveHandler)))
    mux.HandleFunc("/v1/datasets", s.DatasetsHandler)

    // Runs
    mux.HandleFunc("/v1/runs", s.RunsHandler)
    mux.HandleFunc("/v1/runs/ws", s.RunsWSHandler)
    mux.HandleFunc("/v1/runs/", s.RunByIDHandler) // includes /events/stream

    // Health
    mux.HandleFunc("/healthz", s.HealthHandler)
    mux.HandleFunc("/readyz", s.ReadyHandler)

    // Admin
    mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
    mux.HandleFunc("/debug/vars.json", s.DebugJSON)

    return logMiddleware(metricsMiddleware(mux))
}

// publish fans a run event out to the run's own topic and the runs topic.
func (s *Server) publish(runID, event string, data map[string]any) {
    d := map[string]any{"runId": runID, "ts": time.Now().UTC().Format(time.RFC3339)}
    for k, v := range data { d[k] = v }
    evt := SSEEvent{Type: event, Data: d}
    s.Broker.Publish(runID, evt)
    s.Broker.Publish(TopicRuns, evt)
}

func (s *Server) Close() error {
    if c, ok := s.Source.(interface{ Close() error }); ok {
        _ = c.Close()
    }
    return s.Broker.Close()
}
