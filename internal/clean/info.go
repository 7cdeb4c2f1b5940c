package clean

import "headline-sentiment/internal/dataset"

// Info is a quick summary of a dataset.
type Info struct {
	Rows     int            `json:"rows"`
	Cols     []string       `json:"cols"`
	NACounts map[string]int `json:"na_counts"`
}

func BasicInfo(ds *dataset.Dataset) Info {
	info := Info{
		Rows:     ds.Len(),
		Cols:     ds.Columns(),
		NACounts: make(map[string]int, len(ds.Columns())),
	}
	for _, col := range info.Cols {
		cells, _ := ds.Column(col)
		n := 0
		for _, c := range cells {
			if dataset.IsNull(c) {
				n++
			}
		}
		info.NACounts[col] = n
	}
	return info
}
