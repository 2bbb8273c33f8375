package api

import (
    "bufio"
    "errors"
    "log"
    "net"
    "net/http"
    "strconv"
    "strings"
    "time"

    "airassign/internal/metrics"
)

func logMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        next.ServeHTTP(w, r)
        dur := time.Since(start)
        log.Printf("%s %s %s %v", r.RemoteAddr, r.Method, r.URL.Path, dur)
    })
}

// statusRecorder captures the response code and still exposes the streaming
// interfaces SSE and WebSocket handlers need.
type statusRecorder struct {
    http.ResponseWriter
    status int
}

func (s *statusRecorder) WriteHeader(code int) {
    if s.status == 0 { s.status = code }
    s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
    if s.status == 0 { s.status = http.StatusOK }
    return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Flush() {
    if f, ok := s.ResponseWriter.(http.Flusher); ok { f.Flush() }
}

func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
    h, ok := s.ResponseWriter.(http.Hijacker)
    if !ok { return nil, nil, errors.New("hijack not supported") }
    if s.status == 0 { s.status = http.StatusSwitchingProtocols }
    return h.Hijack()
}

func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }

func metricsMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        rec := &statusRecorder{ResponseWriter: w}
        next.ServeHTTP(rec, r)
        if rec.status == 0 { rec.status = http.StatusOK }
        path := pathLabel(r.URL.Path)
        code := strconv.Itoa(rec.status)
        metrics.HTTPRequests.WithLabelValues(r.Method, path, code).Inc()
        metrics.HTTPDuration.WithLabelValues(r.Method, path, code).Observe(time.Since(start).Seconds())
    })
}

// pathLabel collapses run ids so the label set stays bounded.
func pathLabel(p string) string {
    rest, ok := strings.CutPrefix(p, "/v1/runs/")
    if !ok || rest == "ws" { return p }
    if strings.HasSuffix(rest, "/events/stream") { return "/v1/runs/{id}/events/stream" }
    return "/v1/runs/{id}"
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if s.Limiter != nil && !s.Limiter.Allow() {
            w.Header().Set("Retry-After", "1")
            writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "solve rate limit exceeded", r.URL.Path)
            return
        }
        next.ServeHTTP(w, r)
    })
}
