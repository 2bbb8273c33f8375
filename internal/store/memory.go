package store

import (
    "context"
    "fmt"
    "sync"
    "time"

    "airassign/internal/model"
)

// Memory keeps the most recent run reports. Runs are not durable; the oldest
// report is evicted once max is reached.
type Memory struct {
    mu    sync.Mutex
    max   int
    runs  map[string]model.Report // runId -> report
    order []string                // oldest first
}

func NewMemory(max int) *Memory {
    if max <= 0 { max = 500 }
    return &Memory{max: max, runs: map[string]model.Report{}}
}

// Reserve records a pending entry for id unless one exists, in which case it
// returns ErrConflict. The check and insert happen under one lock.
func (m *Memory) Reserve(ctx context.Context, id string) error {
    if id == "" { return fmt.Errorf("reserve run: empty run id") }
    m.mu.Lock(); defer m.mu.Unlock()
    if _, ok := m.runs[id]; ok {
        return fmt.Errorf("run %s: %w", id, ErrConflict)
    }
    m.put(model.Report{RunID: id, Status: model.StatusPending, CreatedAt: time.Now().UTC().Format(time.RFC3339)})
    return nil
}

// SaveRun stores rep, replacing any entry with the same id.
func (m *Memory) SaveRun(ctx context.Context, rep model.Report) error {
    if rep.RunID == "" { return fmt.Errorf("save run: empty run id") }
    m.mu.Lock(); defer m.mu.Unlock()
    if _, ok := m.runs[rep.RunID]; ok {
        m.drop(rep.RunID)
    }
    m.put(rep)
    return nil
}

func (m *Memory) put(rep model.Report) {
    m.runs[rep.RunID] = rep
    m.order = append(m.order, rep.RunID)
    for len(m.order) > m.max {
        delete(m.runs, m.order[0])
        m.order = m.order[1:]
    }
}

func (m *Memory) drop(id string) {
    for i, v := range m.order {
        if v == id {
            m.order = append(m.order[:i], m.order[i+1:]...)
            return
        }
    }
}

func (m *Memory) GetRun(ctx context.Context, id string) (model.Report, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    rep, ok := m.runs[id]
    if !ok { return model.Report{}, ErrNotFound }
    return rep, nil
}

// ListRuns returns up to limit reports, newest first. limit <= 0 means all.
func (m *Memory) ListRuns(ctx context.Context, limit int) ([]model.Report, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    n := len(m.order)
    if limit <= 0 || limit > n { limit = n }
    out := make([]model.Report, 0, limit)
    for i := n - 1; i >= 0 && len(out) < limit; i-- {
        out = append(out, m.runs[m.order[i]])
    }
    return out, nil
}
