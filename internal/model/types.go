package model

// Core domain types for aircraft/route assignment

// Pair identifies one (aircraft, route) cell of the capability and cost matrices.
type Pair struct {
    Aircraft int `json:"aircraft"`
    Route    int `json:"route"`
}

// Dataset holds the four input tables of one solve. Aircraft and Routes list the
// identifiers in file order; they are dense and 1-based once validated.
type Dataset struct {
    Name         string       `json:"name,omitempty"`
    Aircraft     []int        `json:"aircraft"`
    Routes       []int        `json:"routes"`
    Availability map[int]int  `json:"availability"`
    Demand       map[int]int  `json:"demand"`
    Capability   map[Pair]int `json:"-"`
    Cost         map[Pair]int `json:"-"`
}

// NewDataset returns an empty dataset with its maps allocated.
func NewDataset(name string) *Dataset {
    return &Dataset{
        Name:         name,
        Availability: map[int]int{},
        Demand:       map[int]int{},
        Capability:   map[Pair]int{},
        Cost:         map[Pair]int{},
    }
}

// Pairs returns every (aircraft, route) pair, aircraft-major.
func (d *Dataset) Pairs() []Pair {
    out := make([]Pair, 0, len(d.Aircraft)*len(d.Routes))
    for _, a := range d.Aircraft {
        for _, r := range d.Routes {
            out = append(out, Pair{Aircraft: a, Route: r})
        }
    }
    return out
}

// InlineDataset is the JSON shape of a dataset posted to the API. Capability and
// Cost are dense matrices indexed [aircraft-1][route-1].
type InlineDataset struct {
    Availability []int   `json:"availability"`
    Demand       []int   `json:"demand"`
    Capability   [][]int `json:"capability"`
    Cost         [][]int `json:"cost"`
}

type SolveRequest struct {
    RunID   string         `json:"runId,omitempty"`
    Dataset string         `json:"dataset,omitempty"`
    Inline  *InlineDataset `json:"inline,omitempty"`
    Verify  bool           `json:"verify,omitempty"`
}

// Assignment is the solved passenger count for one pair.
type Assignment struct {
    Aircraft   int `json:"aircraft"`
    Route      int `json:"route"`
    Passengers int `json:"passengers"`
}

// Run states besides the solver statuses.
const (
    StatusPending = "pending"
    StatusFailed  = "failed"
)

// Report is the structured outcome of one run. Status is a solver status, or
// StatusPending while the run is in flight, or StatusFailed when it aborted
// with Error.
type Report struct {
    RunID       string       `json:"runId"`
    Dataset     string       `json:"dataset,omitempty"`
    Backend     string       `json:"backend"`
    Status      string       `json:"status"`
    Optimal     bool         `json:"optimal"`
    Objective   float64      `json:"objective"`
    Assignments []Assignment `json:"assignments,omitempty"`
    Verified    *bool        `json:"verified,omitempty"`
    DurationMs  int64        `json:"durationMs"`
    CreatedAt   string       `json:"createdAt"`
    Text        string       `json:"text"`
    Error       string       `json:"error,omitempty"`
}

// Terminal reports no longer change.
func (r Report) Terminal() bool { return r.Status != StatusPending }
