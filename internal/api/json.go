package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"airassign/internal/assign"
	"airassign/internal/dataset"
	"airassign/internal/store"
)

// Problem represents an RFC7807 problem details response body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}

// writeError maps run errors onto problem responses: bad input is 400, unknown
// datasets and runs 404, reused run ids 409, anything else 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var de *dataset.DataError
	var me *assign.ModelError
	switch {
	case errors.As(err, &de):
		writeProblem(w, http.StatusBadRequest, "Invalid dataset", err.Error(), r.URL.Path)
	case errors.As(err, &me):
		writeProblem(w, http.StatusBadRequest, "Invalid model", err.Error(), r.URL.Path)
	case errors.Is(err, store.ErrConflict):
		writeProblem(w, http.StatusConflict, "Run exists", err.Error(), r.URL.Path)
	case errors.Is(err, store.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error(), r.URL.Path)
	default:
		writeProblem(w, http.StatusInternalServerError, "Solve failed", err.Error(), r.URL.Path)
	}
}
