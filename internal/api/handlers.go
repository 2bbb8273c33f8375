package api

import (
    "context"
    "encoding/json"
    "fmt"
    "log"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/google/uuid"

    "airassign/internal/assign"
    "airassign/internal/dataset"
    "airassign/internal/metrics"
    "airassign/internal/model"
)

const maxBodyBytes = 4 << 20

// SolveHandler handles POST /v1/solve
func (s *Server) SolveHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    var req model.SolveRequest
    r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
        return
    }
    if err := validateSolveRequest(&req); err != nil {
        writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error(), r.URL.Path)
        return
    }
    runID := req.RunID
    if runID == "" { runID = uuid.New().String() }
    if err := s.Runs.Reserve(r.Context(), runID); err != nil {
        writeError(w, r, err)
        return
    }

    var ds *model.Dataset
    var err error
    dsName := req.Dataset
    if req.Inline != nil {
        dsName = "inline"
        ds, err = dataset.FromInline(dsName, req.Inline)
    } else {
        ds, err = s.Source.Dataset(r.Context(), req.Dataset)
    }
    if err != nil {
        s.abort(runID, dsName, "", "data", err)
        writeError(w, r, err)
        return
    }

    solver, err := s.NewSolver()
    if err != nil {
        s.abort(runID, dsName, s.Cfg.Solver.Backend, "solver", err)
        writeProblem(w, http.StatusInternalServerError, "Solver unavailable", err.Error(), r.URL.Path)
        return
    }
    runner := &assign.Runner{
        Solver: solver,
        Verify: req.Verify || s.Cfg.Solver.Verify,
        Notify: s.publish,
        Done:   s.record,
    }
    rep, err := runner.Run(r.Context(), ds, runID)
    if err != nil {
        writeError(w, r, err)
        return
    }
    writeJSON(w, http.StatusOK, rep)
}

// record stores a finished run; Runner calls it before the terminal event.
func (s *Server) record(rep *model.Report) {
    if err := s.Runs.SaveRun(context.Background(), *rep); err != nil {
        log.Printf("run=%s save: %v", rep.RunID, err)
    }
}

// abort finishes a reserved run that failed before the solver was reached.
func (s *Server) abort(runID, dsName, backend, kind string, err error) {
    metrics.SolveFailures.WithLabelValues(kind).Inc()
    s.record(assign.FailedReport(runID, dsName, backend, err))
    s.publish(runID, assign.EventFailed, map[string]any{"kind": kind, "error": err.Error()})
}

// DatasetsHandler handles GET /v1/datasets
func (s *Server) DatasetsHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    names, err := s.Source.Names(r.Context())
    if err != nil {
        writeProblem(w, http.StatusInternalServerError, "List failed", err.Error(), r.URL.Path)
        return
    }
    writeJSON(w, http.StatusOK, map[string]any{"items": names})
}

// RunsHandler handles GET /v1/runs?limit=N
func (s *Server) RunsHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    limit := 50
    if v := r.URL.Query().Get("limit"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil || n < 1 || n > 500 {
            writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be 1..500", r.URL.Path)
            return
        }
        limit = n
    }
    items, err := s.Runs.ListRuns(r.Context(), limit)
    if err != nil {
        writeProblem(w, http.StatusInternalServerError, "List failed", err.Error(), r.URL.Path)
        return
    }
    writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// RunByIDHandler handles GET /v1/runs/{id} and GET /v1/runs/{id}/events/stream
func (s *Server) RunByIDHandler(w http.ResponseWriter, r *http.Request) {
    path := r.URL.Path
    rest := strings.TrimPrefix(path, "/v1/runs/")
    if rest == path || rest == "" {
        writeProblem(w, http.StatusNotFound, "Not Found", "missing id", path)
        return
    }
    if r.Method != http.MethodGet {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    parts := strings.Split(rest, "/")
    id := parts[0]
    switch {
    case len(parts) == 1:
        rep, err := s.Runs.GetRun(r.Context(), id)
        if err != nil {
            writeError(w, r, fmt.Errorf("run %s: %w", id, err))
            return
        }
        writeJSON(w, http.StatusOK, rep)
    case len(parts) == 3 && parts[1] == "events" && parts[2] == "stream":
        s.streamRun(w, r, id)
    default:
        writeProblem(w, http.StatusNotFound, "Not Found", "", path)
    }
}

// streamRun serves run events as SSE until the run finishes or the client
// leaves. A run that already finished is replayed as one event.
func (s *Server) streamRun(w http.ResponseWriter, r *http.Request, id string) {
    flusher, ok := w.(http.Flusher)
    if !ok { writeProblem(w, 500, "Streaming unsupported", "", r.URL.Path); return }
    // subscribe before checking the registry so a run finishing in between is not missed
    ch := s.Broker.Subscribe(id)
    defer s.Broker.Unsubscribe(id, ch)

    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("Connection", "keep-alive")

    if rep, err := s.Runs.GetRun(r.Context(), id); err == nil && rep.Terminal() {
        writeSSE(w, terminalEvent(rep), reportEvent(rep))
        flusher.Flush()
        return
    }
    // initial heartbeat
    writeSSE(w, "heartbeat", map[string]any{"runId": id, "ts": time.Now().UTC().Format(time.RFC3339)})
    flusher.Flush()
    heartbeat := time.NewTicker(15 * time.Second)
    defer heartbeat.Stop()
    for {
        select {
        case <-r.Context().Done():
            return
        case evt, ok := <-ch:
            if !ok { return }
            writeSSE(w, evt.Type, evt.Data)
            flusher.Flush()
            if evt.Type == assign.EventCompleted || evt.Type == assign.EventFailed {
                return
            }
        case <-heartbeat.C:
            writeSSE(w, "heartbeat", map[string]any{"runId": id, "ts": time.Now().UTC().Format(time.RFC3339)})
            flusher.Flush()
        }
    }
}

func writeSSE(w http.ResponseWriter, event string, data map[string]any) {
    b, _ := json.Marshal(data)
    fmt.Fprintf(w, "event: %s\n", event)
    fmt.Fprintf(w, "data: %s\n\n", string(b))
}

func terminalEvent(rep model.Report) string {
    if rep.Status == model.StatusFailed { return assign.EventFailed }
    return assign.EventCompleted
}

func reportEvent(rep model.Report) map[string]any {
    if rep.Status == model.StatusFailed {
        return map[string]any{"runId": rep.RunID, "status": rep.Status, "error": rep.Error}
    }
    return map[string]any{"runId": rep.RunID, "status": rep.Status, "optimal": rep.Optimal, "objective": rep.Objective}
}

// Health
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
    // Check DB connectivity when datasets come from Postgres
    type pinger interface{ Ping(ctx context.Context) error }
    if pg, ok := s.Source.(pinger); ok {
        ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
        defer cancel()
        if err := pg.Ping(ctx); err != nil { writeProblem(w, 503, "Not Ready", err.Error(), r.URL.Path); return }
    }
    if _, err := s.NewSolver(); err != nil {
        writeProblem(w, 503, "Not Ready", err.Error(), r.URL.Path)
        return
    }
    writeJSON(w, 200, map[string]string{"status": "ready"})
}
