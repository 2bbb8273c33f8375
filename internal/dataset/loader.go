// Package dataset reads and validates the four input tables of an assignment run.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"airassign/internal/model"
)

// Files names the four tables inside a data directory.
type Files struct {
	Aircraft   string `yaml:"aircraft"`
	Routes     string `yaml:"routes"`
	Capability string `yaml:"capability"`
	Cost       string `yaml:"cost"`
}

// DefaultFiles are the table names used when none are configured.
var DefaultFiles = Files{
	Aircraft:   "AircraftAssignment_air.csv",
	Routes:     "AircraftAssignment_route.csv",
	Capability: "AircraftAssignment_cap.csv",
	Cost:       "AircraftAssignment_cost.csv",
}

// withDefaults fills empty names from DefaultFiles.
func (f Files) withDefaults() Files {
	if f.Aircraft == "" {
		f.Aircraft = DefaultFiles.Aircraft
	}
	if f.Routes == "" {
		f.Routes = DefaultFiles.Routes
	}
	if f.Capability == "" {
		f.Capability = DefaultFiles.Capability
	}
	if f.Cost == "" {
		f.Cost = DefaultFiles.Cost
	}
	return f
}

// DataError reports a missing, malformed or inconsistent input table.
type DataError struct {
	File string
	Line int // 1-based CSV record number, 0 when not tied to a record
	Err  error
}

func (e *DataError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("dataset: %s:%d: %v", e.File, e.Line, e.Err)
	case e.File != "":
		return fmt.Sprintf("dataset: %s: %v", e.File, e.Err)
	default:
		return fmt.Sprintf("dataset: %v", e.Err)
	}
}

func (e *DataError) Unwrap() error { return e.Err }

func dataErr(file string, line int, format string, args ...any) *DataError {
	return &DataError{File: file, Line: line, Err: fmt.Errorf(format, args...)}
}

// LoadDir reads the default-named tables from dir.
func LoadDir(dir string) (*model.Dataset, error) {
	return Load(dir, DefaultFiles)
}

// Load reads the four tables from dir and returns a validated dataset named after
// the directory.
func Load(dir string, files Files) (*model.Dataset, error) {
	files = files.withDefaults()
	ds := model.NewDataset(filepath.Base(filepath.Clean(dir)))

	air, err := readTable(filepath.Join(dir, files.Aircraft))
	if err != nil {
		return nil, err
	}
	if ds.Aircraft, err = readColumn(files.Aircraft, air, "availability", ds.Availability); err != nil {
		return nil, err
	}

	rt, err := readTable(filepath.Join(dir, files.Routes))
	if err != nil {
		return nil, err
	}
	if ds.Routes, err = readColumn(files.Routes, rt, "demand", ds.Demand); err != nil {
		return nil, err
	}

	capRows, err := readTable(filepath.Join(dir, files.Capability))
	if err != nil {
		return nil, err
	}
	if err := readMatrix(files.Capability, capRows, ds.Aircraft, ds.Routes, ds.Capability); err != nil {
		return nil, err
	}

	costRows, err := readTable(filepath.Join(dir, files.Cost))
	if err != nil {
		return nil, err
	}
	if err := readMatrix(files.Cost, costRows, ds.Aircraft, ds.Routes, ds.Cost); err != nil {
		return nil, err
	}

	if err := Validate(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// readTable returns every CSV record of path, header included.
func readTable(path string) ([][]string, error) {
	name := filepath.Base(path)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &DataError{File: name, Err: fmt.Errorf("missing table: %w", err)}
		}
		return nil, &DataError{File: name, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DataError{File: name, Err: err}
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(strings.TrimPrefix(rec[i], "\ufeff"))
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, dataErr(name, 0, "empty table")
	}
	return rows, nil
}

// readColumn parses an index-plus-value table. The first column holds the ids;
// the value column is found by header name.
func readColumn(file string, rows [][]string, column string, into map[int]int) ([]int, error) {
	header := rows[0]
	col := -1
	for i, h := range header {
		if i > 0 && strings.EqualFold(h, column) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, dataErr(file, 1, "no %q column in header %v", column, header)
	}
	ids := make([]int, 0, len(rows)-1)
	for n, rec := range rows[1:] {
		line := n + 2
		if len(rec) != len(header) {
			return nil, dataErr(file, line, "want %d fields, got %d", len(header), len(rec))
		}
		id, err := parseInt(rec[0])
		if err != nil {
			return nil, dataErr(file, line, "bad id %q: %v", rec[0], err)
		}
		v, err := parseInt(rec[col])
		if err != nil {
			return nil, dataErr(file, line, "bad %s %q: %v", column, rec[col], err)
		}
		if _, dup := into[id]; dup {
			return nil, dataErr(file, line, "duplicate id %d", id)
		}
		into[id] = v
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, dataErr(file, 0, "no rows")
	}
	return ids, nil
}

// readMatrix parses a dense aircraft x route grid. Rows and columns are taken by
// position; the leading index cell of each row must match the aircraft id, and
// an integer header label must match the route id of its column.
func readMatrix(file string, rows [][]string, aircraft, routes []int, into map[model.Pair]int) error {
	width := len(routes) + 1
	if len(rows[0]) != width {
		return dataErr(file, 1, "header has %d route columns, want %d", len(rows[0])-1, len(routes))
	}
	for j, label := range rows[0][1:] {
		if n, err := parseInt(label); err == nil && n != routes[j] {
			return dataErr(file, 1, "column %d is labelled route %d, want %d", j+2, n, routes[j])
		}
	}
	body := rows[1:]
	if len(body) != len(aircraft) {
		return dataErr(file, 0, "has %d aircraft rows, want %d", len(body), len(aircraft))
	}
	for i, rec := range body {
		line := i + 2
		if len(rec) != width {
			return dataErr(file, line, "want %d fields, got %d", width, len(rec))
		}
		id, err := parseInt(rec[0])
		if err != nil {
			return dataErr(file, line, "bad aircraft id %q: %v", rec[0], err)
		}
		if id != aircraft[i] {
			return dataErr(file, line, "row for aircraft %d, want %d", id, aircraft[i])
		}
		for j, r := range routes {
			v, err := parseInt(rec[j+1])
			if err != nil {
				return dataErr(file, line, "bad value %q for route %d: %v", rec[j+1], r, err)
			}
			into[model.Pair{Aircraft: id, Route: r}] = v
		}
	}
	return nil
}

// parseInt accepts integers and integral floats such as "500.0".
func parseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("not an integer")
	}
	return int(f), nil
}
