package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airassign/internal/model"
)

func writeTables(t *testing.T, tables map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range tables {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func sampleTables() map[string]string {
	return map[string]string{
		DefaultFiles.Aircraft:   ",availability\n1,500\n2,600\n",
		DefaultFiles.Routes:     ",demand\n1,200\n2,300\n3,400\n",
		DefaultFiles.Capability: ",1,2,3\n1,100,200,300\n2,200,300,400\n",
		DefaultFiles.Cost:       ",1,2,3\n1,10,20,30\n2,20,30,40\n",
	}
}

func TestLoadDir(t *testing.T) {
	dir := writeTables(t, sampleTables())

	ds, err := LoadDir(dir)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, ds.Aircraft)
	assert.Equal(t, []int{1, 2, 3}, ds.Routes)
	assert.Equal(t, map[int]int{1: 500, 2: 600}, ds.Availability)
	assert.Equal(t, map[int]int{1: 200, 2: 300, 3: 400}, ds.Demand)
	assert.Equal(t, 400, ds.Capability[model.Pair{Aircraft: 2, Route: 3}])
	assert.Equal(t, 20, ds.Cost[model.Pair{Aircraft: 1, Route: 2}])
	assert.Len(t, ds.Capability, 6)
	assert.Len(t, ds.Cost, 6)
	assert.Equal(t, filepath.Base(dir), ds.Name)
}

func TestLoadAcceptsFloatCellsAndNamedIndex(t *testing.T) {
	tables := sampleTables()
	tables[DefaultFiles.Aircraft] = "aircraft, Availability\n1, 500.0\n2, 600\n"
	dir := writeTables(t, tables)

	ds, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 500, ds.Availability[1])
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(map[string]string)
		file   string
	}{
		{"missing cost table", func(m map[string]string) { delete(m, DefaultFiles.Cost) }, DefaultFiles.Cost},
		{"no availability column", func(m map[string]string) {
			m[DefaultFiles.Aircraft] = ",seats\n1,500\n2,600\n"
		}, DefaultFiles.Aircraft},
		{"non-integer demand", func(m map[string]string) {
			m[DefaultFiles.Routes] = ",demand\n1,200\n2,lots\n3,400\n"
		}, DefaultFiles.Routes},
		{"fractional capability", func(m map[string]string) {
			m[DefaultFiles.Capability] = ",1,2,3\n1,100.5,200,300\n2,200,300,400\n"
		}, DefaultFiles.Capability},
		{"capability missing a route column", func(m map[string]string) {
			m[DefaultFiles.Capability] = ",1,2\n1,100,200\n2,200,300\n"
		}, DefaultFiles.Capability},
		{"cost missing an aircraft row", func(m map[string]string) {
			m[DefaultFiles.Cost] = ",1,2,3\n1,10,20,30\n"
		}, DefaultFiles.Cost},
		{"short matrix row", func(m map[string]string) {
			m[DefaultFiles.Cost] = ",1,2,3\n1,10,20,30\n2,20,30\n"
		}, DefaultFiles.Cost},
		{"matrix row out of order", func(m map[string]string) {
			m[DefaultFiles.Cost] = ",1,2,3\n2,20,30,40\n1,10,20,30\n"
		}, DefaultFiles.Cost},
		{"duplicate route id", func(m map[string]string) {
			m[DefaultFiles.Routes] = ",demand\n1,200\n1,300\n3,400\n"
		}, DefaultFiles.Routes},
		{"empty table", func(m map[string]string) { m[DefaultFiles.Routes] = "" }, DefaultFiles.Routes},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tables := sampleTables()
			tc.mutate(tables)
			_, err := LoadDir(writeTables(t, tables))
			require.Error(t, err)
			var de *DataError
			require.True(t, errors.As(err, &de), "want DataError, got %T: %v", err, err)
			assert.Equal(t, tc.file, de.File)
		})
	}
}

func TestLoadRejectsNonContiguousIDs(t *testing.T) {
	tables := sampleTables()
	tables[DefaultFiles.Aircraft] = ",availability\n0,500\n1,600\n"
	tables[DefaultFiles.Capability] = ",1,2,3\n0,100,200,300\n1,200,300,400\n"
	tables[DefaultFiles.Cost] = ",1,2,3\n0,10,20,30\n1,20,30,40\n"

	_, err := LoadDir(writeTables(t, tables))
	var de *DataError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Error(), "aircraft ids must be 1..2")
}

func TestLoadRejectsSwappedRouteColumns(t *testing.T) {
	tables := sampleTables()
	tables[DefaultFiles.Capability] = ",2,1,3\n1,200,100,300\n2,300,200,400\n"

	_, err := LoadDir(writeTables(t, tables))
	var de *DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, DefaultFiles.Capability, de.File)
	assert.Equal(t, 1, de.Line)
	assert.Contains(t, de.Error(), "labelled route 2, want 1")
}

func TestLoadAcceptsNonNumericRouteLabels(t *testing.T) {
	tables := sampleTables()
	tables[DefaultFiles.Cost] = "aircraft,r1,r2,r3\n1,10,20,30\n2,20,30,40\n"

	ds, err := LoadDir(writeTables(t, tables))
	require.NoError(t, err)
	assert.Equal(t, 30, ds.Cost[model.Pair{Aircraft: 1, Route: 3}])
}

func TestLoadRejectsNegativeQuantity(t *testing.T) {
	tables := sampleTables()
	tables[DefaultFiles.Routes] = ",demand\n1,200\n2,-1\n3,400\n"

	_, err := LoadDir(writeTables(t, tables))
	var de *DataError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Error(), "negative demand")
}

func TestCustomFileNames(t *testing.T) {
	base := sampleTables()
	files := Files{Aircraft: "air.csv", Routes: "routes.csv"}
	dir := writeTables(t, map[string]string{
		"air.csv":               base[DefaultFiles.Aircraft],
		"routes.csv":            base[DefaultFiles.Routes],
		DefaultFiles.Capability: base[DefaultFiles.Capability],
		DefaultFiles.Cost:       base[DefaultFiles.Cost],
	})

	ds, err := Load(dir, files)
	require.NoError(t, err)
	assert.Len(t, ds.Routes, 3)
}

func TestWriteDirRoundTrip(t *testing.T) {
	src, err := LoadDir(writeTables(t, sampleTables()))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "copy")
	require.NoError(t, WriteDir(out, src, Files{}))

	got, err := LoadDir(out)
	require.NoError(t, err)
	assert.Equal(t, src.Availability, got.Availability)
	assert.Equal(t, src.Demand, got.Demand)
	assert.Equal(t, src.Capability, got.Capability)
	assert.Equal(t, src.Cost, got.Cost)
}

func TestFromInline(t *testing.T) {
	ds, err := FromInline("inline", &model.InlineDataset{
		Availability: []int{5, 6},
		Demand:       []int{1, 2, 3},
		Capability:   [][]int{{1, 2, 3}, {4, 5, 6}},
		Cost:         [][]int{{7, 8, 9}, {1, 1, 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, ds.Capability[model.Pair{Aircraft: 2, Route: 3}])
	assert.Equal(t, 9, ds.Cost[model.Pair{Aircraft: 1, Route: 3}])

	_, err = FromInline("bad", &model.InlineDataset{
		Availability: []int{5},
		Demand:       []int{1, 2},
		Capability:   [][]int{{1}},
		Cost:         [][]int{{1, 2}},
	})
	var de *DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "capability", de.File)
}
