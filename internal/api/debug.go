package api

import (
    "encoding/json"
    "net/http"
    "time"

    "airassign/internal/buildinfo"
)

func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
    info := map[string]any{
        "build": buildinfo.Info(),
        "time":  time.Now().UTC().Format(time.RFC3339),
        "config": map[string]any{
            "PORT": s.Cfg.Port,
            "DATA_DIR": s.Cfg.DataDir,
            "SOLVER_BACKEND": s.Cfg.Solver.Backend,
            "SOLVER_TIME_LIMIT": s.Cfg.Solver.TimeLimit.String(),
            "RATE_RPS": s.Cfg.RateRPS,
            "RATE_BURST": s.Cfg.RateBurst,
            "MAX_RUNS": s.Cfg.MaxRuns,
            "HAS_DATABASE_URL": s.Cfg.DatabaseURL != "",
            "HAS_REDIS_URL": s.Cfg.RedisURL != "",
        },
    }
    w.Header().Set("Content-Type", "application/json")
    _ = json.NewEncoder(w).Encode(info)
}
