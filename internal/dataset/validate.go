package dataset

import (
	"fmt"

	"airassign/internal/model"
)

// Validate checks the invariants every source must satisfy: ids are exactly
// 1..n in order, every table is dense over aircraft x route, and no quantity is
// negative.
func Validate(ds *model.Dataset) error {
	if ds == nil {
		return &DataError{Err: fmt.Errorf("nil dataset")}
	}
	if len(ds.Aircraft) == 0 {
		return &DataError{Err: fmt.Errorf("no aircraft")}
	}
	if len(ds.Routes) == 0 {
		return &DataError{Err: fmt.Errorf("no routes")}
	}
	if err := checkDense("aircraft", ds.Aircraft); err != nil {
		return err
	}
	if err := checkDense("route", ds.Routes); err != nil {
		return err
	}
	for _, a := range ds.Aircraft {
		v, ok := ds.Availability[a]
		if !ok {
			return &DataError{Err: fmt.Errorf("no availability for aircraft %d", a)}
		}
		if v < 0 {
			return &DataError{Err: fmt.Errorf("negative availability %d for aircraft %d", v, a)}
		}
	}
	for _, r := range ds.Routes {
		v, ok := ds.Demand[r]
		if !ok {
			return &DataError{Err: fmt.Errorf("no demand for route %d", r)}
		}
		if v < 0 {
			return &DataError{Err: fmt.Errorf("negative demand %d for route %d", v, r)}
		}
	}
	for _, p := range ds.Pairs() {
		c, ok := ds.Capability[p]
		if !ok {
			return &DataError{Err: fmt.Errorf("no capability for aircraft %d route %d", p.Aircraft, p.Route)}
		}
		if c < 0 {
			return &DataError{Err: fmt.Errorf("negative capability %d for aircraft %d route %d", c, p.Aircraft, p.Route)}
		}
		k, ok := ds.Cost[p]
		if !ok {
			return &DataError{Err: fmt.Errorf("no cost for aircraft %d route %d", p.Aircraft, p.Route)}
		}
		if k < 0 {
			return &DataError{Err: fmt.Errorf("negative cost %d for aircraft %d route %d", k, p.Aircraft, p.Route)}
		}
	}
	return nil
}

func checkDense(kind string, ids []int) error {
	for i, id := range ids {
		if id != i+1 {
			return &DataError{Err: fmt.Errorf("%s ids must be 1..%d in order, position %d holds %d", kind, len(ids), i+1, id)}
		}
	}
	return nil
}

// FromInline converts the dense JSON form into a validated dataset.
func FromInline(name string, in *model.InlineDataset) (*model.Dataset, error) {
	if in == nil {
		return nil, &DataError{Err: fmt.Errorf("no inline dataset")}
	}
	ds := model.NewDataset(name)
	for i, v := range in.Availability {
		ds.Aircraft = append(ds.Aircraft, i+1)
		ds.Availability[i+1] = v
	}
	for j, v := range in.Demand {
		ds.Routes = append(ds.Routes, j+1)
		ds.Demand[j+1] = v
	}
	if err := fillMatrix("capability", in.Capability, ds.Aircraft, ds.Routes, ds.Capability); err != nil {
		return nil, err
	}
	if err := fillMatrix("cost", in.Cost, ds.Aircraft, ds.Routes, ds.Cost); err != nil {
		return nil, err
	}
	if err := Validate(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

func fillMatrix(kind string, grid [][]int, aircraft, routes []int, into map[model.Pair]int) error {
	if len(grid) != len(aircraft) {
		return &DataError{File: kind, Err: fmt.Errorf("has %d rows, want %d", len(grid), len(aircraft))}
	}
	for i, row := range grid {
		if len(row) != len(routes) {
			return &DataError{File: kind, Line: i + 1, Err: fmt.Errorf("has %d columns, want %d", len(row), len(routes))}
		}
		for j, v := range row {
			into[model.Pair{Aircraft: aircraft[i], Route: routes[j]}] = v
		}
	}
	return nil
}
