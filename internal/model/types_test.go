package model

import (
    "encoding/json"
    "strings"
    "testing"
)

func TestReportKeepsZeroObjective(t *testing.T) {
    b, err := json.Marshal(Report{RunID: "r", Status: "optimal", Optimal: true})
    if err != nil { t.Fatalf("marshal: %v", err) }
    if !strings.Contains(string(b), `"objective":0`) { t.Fatalf("objective dropped: %s", b) }
    if strings.Contains(string(b), `"error"`) { t.Fatalf("empty error serialized: %s", b) }
}

func TestReportTerminal(t *testing.T) {
    if (Report{Status: StatusPending}).Terminal() { t.Fatal("pending is not terminal") }
    for _, s := range []string{StatusFailed, "optimal", "infeasible"} {
        if !(Report{Status: s}).Terminal() { t.Fatalf("%s should be terminal", s) }
    }
}

func TestPairsAircraftMajor(t *testing.T) {
    ds := NewDataset("x")
    ds.Aircraft = []int{1, 2}
    ds.Routes = []int{1, 2}
    got := ds.Pairs()
    want := []Pair{{1, 1}, {1, 2}, {2, 1}, {2, 2}}
    if len(got) != len(want) { t.Fatalf("got %v", got) }
    for i := range want {
        if got[i] != want[i] { t.Fatalf("pair %d: got %v want %v", i, got[i], want[i]) }
    }
}
