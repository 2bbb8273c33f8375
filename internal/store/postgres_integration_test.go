//go:build postgres_integration

package store

import (
    "errors"
    "os"
    "testing"

    "airassign/internal/model"
)

func TestPostgresDatasetRoundTrip(t *testing.T) {
    dsn := os.Getenv("DATABASE_URL")
    if dsn == "" { t.Skip("DATABASE_URL not set; skipping integration test") }
    p, err := NewPostgres(dsn)
    if err != nil { t.Fatalf("NewPostgres: %v", err) }
    defer p.Close()
    if err := p.Ping(t.Context()); err != nil { t.Fatalf("Ping: %v", err) }
    if err := p.Migrate(t.Context()); err != nil { t.Fatalf("Migrate: %v", err) }

    ds := model.NewDataset("it_small")
    ds.Aircraft = []int{1, 2}
    ds.Routes = []int{1}
    ds.Availability[1], ds.Availability[2] = 5, 7
    ds.Demand[1] = 6
    for _, a := range ds.Aircraft {
        pr := model.Pair{Aircraft: a, Route: 1}
        ds.Capability[pr] = 4
        ds.Cost[pr] = a * 10
    }
    if err := p.SaveDataset(t.Context(), ds); err != nil { t.Fatalf("SaveDataset: %v", err) }
    // saving twice replaces
    if err := p.SaveDataset(t.Context(), ds); err != nil { t.Fatalf("SaveDataset again: %v", err) }

    got, err := p.Dataset(t.Context(), "it_small")
    if err != nil { t.Fatalf("Dataset: %v", err) }
    if len(got.Aircraft) != 2 || got.Demand[1] != 6 || got.Cost[model.Pair{Aircraft: 2, Route: 1}] != 20 {
        t.Fatalf("unexpected dataset: %+v", got)
    }
    names, err := p.Names(t.Context())
    if err != nil || len(names) == 0 { t.Fatalf("Names: %v %v", names, err) }

    if _, err := p.Dataset(t.Context(), "it_missing"); !errors.Is(err, ErrNotFound) {
        t.Fatalf("want ErrNotFound, got %v", err)
    }
}
