package store

import (
    "context"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "sort"
    "strings"

    "airassign/internal/dataset"
    "airassign/internal/model"
)

// Source resolves named datasets for the API server.
type Source interface {
    Dataset(ctx context.Context, name string) (*model.Dataset, error)
    Names(ctx context.Context) ([]string, error)
}

var (
    ErrNotFound = errors.New("not found")
    ErrConflict = errors.New("already exists")
)

var (
    _ Source = (*Dir)(nil)
    _ Source = (*Postgres)(nil)
)

// Dir serves each subdirectory of Root holding the four CSV tables as a dataset.
type Dir struct {
    Root  string
    Files dataset.Files
}

func NewDir(root string, files dataset.Files) *Dir { return &Dir{Root: root, Files: files} }

func (d *Dir) Dataset(ctx context.Context, name string) (*model.Dataset, error) {
    if err := ctx.Err(); err != nil { return nil, err }
    if !validName(name) {
        return nil, fmt.Errorf("dataset %q: %w", name, ErrNotFound)
    }
    dir := filepath.Join(d.Root, name)
    if st, err := os.Stat(dir); err != nil || !st.IsDir() {
        return nil, fmt.Errorf("dataset %q: %w", name, ErrNotFound)
    }
    return dataset.Load(dir, d.Files)
}

func (d *Dir) Names(ctx context.Context) ([]string, error) {
    entries, err := os.ReadDir(d.Root)
    if err != nil {
        if errors.Is(err, os.ErrNotExist) { return []string{}, nil }
        return nil, err
    }
    air := d.Files.Aircraft
    if air == "" { air = dataset.DefaultFiles.Aircraft }
    names := []string{}
    for _, e := range entries {
        if !e.IsDir() || !validName(e.Name()) { continue }
        if _, err := os.Stat(filepath.Join(d.Root, e.Name(), air)); err == nil {
            names = append(names, e.Name())
        }
    }
    sort.Strings(names)
    return names, nil
}

// validName rejects names that would escape the data root.
func validName(name string) bool {
    if name == "" || name == "." || name == ".." { return false }
    return !strings.ContainsAny(name, `/\`) && !strings.HasPrefix(name, ".")
}
