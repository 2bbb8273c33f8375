package main

import (
    "context"
    "errors"
    "flag"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "airassign/internal/api"
    "airassign/internal/buildinfo"
    "airassign/internal/config"
)

func main() {
    cfgPath := flag.String("config", os.Getenv("ASSIGN_CONFIG"), "YAML config file")
    flag.Parse()

    cfg, err := config.Load(*cfgPath)
    if err != nil {
        log.Fatalf("config: %v", err)
    }
    srvDeps, err := api.NewServer(cfg)
    if err != nil {
        log.Fatalf("failed to init server: %v", err)
    }
    defer srvDeps.Close()

    addr := ":" + cfg.Port
    srv := &http.Server{
        Addr:              addr,
        Handler:           srvDeps.Routes(),
        ReadHeaderTimeout: 5 * time.Second,
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()
    go func() {
        <-ctx.Done()
        shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()
        _ = srv.Shutdown(shutdown)
    }()

    log.Printf("API %s listening on %s (solver=%s)", buildinfo.Version, addr, cfg.Solver.Backend)
    if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
        log.Fatalf("server error: %v", err)
    }
}
