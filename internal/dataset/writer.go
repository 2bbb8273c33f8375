package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"airassign/internal/model"
)

// WriteDir writes ds as the four CSV tables under dir, creating it if needed.
// The output round-trips through Load.
func WriteDir(dir string, ds *model.Dataset, files Files) error {
	files = files.withDefaults()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	air := [][]string{{"aircraft", "availability"}}
	for _, a := range ds.Aircraft {
		air = append(air, []string{strconv.Itoa(a), strconv.Itoa(ds.Availability[a])})
	}
	if err := writeCSV(filepath.Join(dir, files.Aircraft), air); err != nil {
		return err
	}

	rt := [][]string{{"route", "demand"}}
	for _, r := range ds.Routes {
		rt = append(rt, []string{strconv.Itoa(r), strconv.Itoa(ds.Demand[r])})
	}
	if err := writeCSV(filepath.Join(dir, files.Routes), rt); err != nil {
		return err
	}

	if err := writeCSV(filepath.Join(dir, files.Capability), matrixRows(ds, ds.Capability)); err != nil {
		return err
	}
	return writeCSV(filepath.Join(dir, files.Cost), matrixRows(ds, ds.Cost))
}

func matrixRows(ds *model.Dataset, m map[model.Pair]int) [][]string {
	header := []string{"aircraft"}
	for _, r := range ds.Routes {
		header = append(header, strconv.Itoa(r))
	}
	rows := [][]string{header}
	for _, a := range ds.Aircraft {
		rec := []string{strconv.Itoa(a)}
		for _, r := range ds.Routes {
			rec = append(rec, strconv.Itoa(m[model.Pair{Aircraft: a, Route: r}]))
		}
		rows = append(rows, rec)
	}
	return rows
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
