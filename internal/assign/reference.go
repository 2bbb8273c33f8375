package assign

import "airassign/internal/model"

// ReferenceDataset is the documented default instance: four aircraft, four
// routes. Its minimum total cost is 52000.
func ReferenceDataset() *model.Dataset {
	availability := []int{500, 600, 700, 800}
	demand := []int{200, 300, 400, 500}
	capability := [][]int{
		{100, 200, 300, 400},
		{200, 300, 400, 500},
		{300, 400, 500, 600},
		{400, 500, 600, 700},
	}
	costs := [][]int{
		{10, 20, 30, 40},
		{20, 30, 40, 50},
		{30, 40, 50, 60},
		{40, 50, 60, 70},
	}

	ds := model.NewDataset("reference")
	for i, v := range availability {
		ds.Aircraft = append(ds.Aircraft, i+1)
		ds.Availability[i+1] = v
	}
	for j, v := range demand {
		ds.Routes = append(ds.Routes, j+1)
		ds.Demand[j+1] = v
	}
	for i := range capability {
		for j := range capability[i] {
			p := model.Pair{Aircraft: i + 1, Route: j + 1}
			ds.Capability[p] = capability[i][j]
			ds.Cost[p] = costs[i][j]
		}
	}
	return ds
}
