package store

import (
    "context"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "sync"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "airassign/internal/dataset"
    "airassign/internal/model"
)

func smallDataset(name string) *model.Dataset {
    ds := model.NewDataset(name)
    ds.Aircraft = []int{1}
    ds.Routes = []int{1, 2}
    ds.Availability[1] = 10
    ds.Demand[1], ds.Demand[2] = 3, 4
    for _, r := range ds.Routes {
        p := model.Pair{Aircraft: 1, Route: r}
        ds.Capability[p] = 5
        ds.Cost[p] = r
    }
    return ds
}

func TestDirSource(t *testing.T) {
    root := t.TempDir()
    require.NoError(t, dataset.WriteDir(filepath.Join(root, "small"), smallDataset("small"), dataset.DefaultFiles))
    require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))
    src := NewDir(root, dataset.Files{})
    ctx := context.Background()

    names, err := src.Names(ctx)
    require.NoError(t, err)
    assert.Equal(t, []string{"small"}, names)

    ds, err := src.Dataset(ctx, "small")
    require.NoError(t, err)
    assert.Equal(t, "small", ds.Name)
    assert.Equal(t, 4, ds.Demand[2])

    for _, bad := range []string{"missing", "../small", "", ".."} {
        _, err := src.Dataset(ctx, bad)
        assert.ErrorIs(t, err, ErrNotFound, bad)
    }

    _, err = src.Dataset(ctx, "empty")
    var de *dataset.DataError
    assert.True(t, errors.As(err, &de), "got %v", err)
}

func TestDirSourceMissingRoot(t *testing.T) {
    names, err := NewDir(filepath.Join(t.TempDir(), "none"), dataset.Files{}).Names(context.Background())
    require.NoError(t, err)
    assert.Empty(t, names)
}

func TestMemoryRuns(t *testing.T) {
    m := NewMemory(3)
    ctx := context.Background()
    for i := 1; i <= 4; i++ {
        require.NoError(t, m.SaveRun(ctx, model.Report{RunID: fmt.Sprintf("r%d", i)}))
    }
    _, err := m.GetRun(ctx, "r1")
    assert.ErrorIs(t, err, ErrNotFound)

    got, err := m.ListRuns(ctx, 0)
    require.NoError(t, err)
    ids := []string{}
    for _, r := range got { ids = append(ids, r.RunID) }
    assert.Equal(t, []string{"r4", "r3", "r2"}, ids)

    // re-saving moves a run to the front
    require.NoError(t, m.SaveRun(ctx, model.Report{RunID: "r2", Status: "optimal"}))
    got, _ = m.ListRuns(ctx, 1)
    require.Len(t, got, 1)
    assert.Equal(t, "r2", got[0].RunID)
    assert.Equal(t, "optimal", got[0].Status)

    assert.Error(t, m.SaveRun(ctx, model.Report{}))
}

func TestMemoryReserve(t *testing.T) {
    m := NewMemory(10)
    ctx := context.Background()

    var wg sync.WaitGroup
    var mu sync.Mutex
    ok, conflicts := 0, 0
    for i := 0; i < 16; i++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            err := m.Reserve(ctx, "dup")
            mu.Lock(); defer mu.Unlock()
            switch {
            case err == nil:
                ok++
            case errors.Is(err, ErrConflict):
                conflicts++
            default:
                t.Errorf("unexpected error: %v", err)
            }
        }()
    }
    wg.Wait()
    assert.Equal(t, 1, ok)
    assert.Equal(t, 15, conflicts)

    rep, err := m.GetRun(ctx, "dup")
    require.NoError(t, err)
    assert.Equal(t, model.StatusPending, rep.Status)
    assert.False(t, rep.Terminal())

    // the final report replaces the pending entry
    require.NoError(t, m.SaveRun(ctx, model.Report{RunID: "dup", Status: "optimal"}))
    rep, _ = m.GetRun(ctx, "dup")
    assert.True(t, rep.Terminal())
    assert.ErrorIs(t, m.Reserve(ctx, "dup"), ErrConflict)
    assert.Error(t, m.Reserve(ctx, ""))
}
