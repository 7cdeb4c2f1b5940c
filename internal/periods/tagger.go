package periods

import (
	"fmt"
	"time"

	"headline-sentiment/internal/dataset"
	"headline-sentiment/internal/types"
)

const (
	TypeCol = "period_type"
	NameCol = "period_name"

	TypeNormal = "normal"
	TypeCrisis = "crisis"
	NameNormal = "Normal"
)

// Tag returns a copy of ds with period_type and period_name columns.
// Rows start as normal; each range in order overwrites the rows whose date
// lies in [Start, End], so later ranges win on overlap. Null or unparsed
// dates never match.
func Tag(ds *dataset.Dataset, dateCol string, ranges []types.PeriodRange) (*dataset.Dataset, error) {
	dates, err := ds.Column(dateCol)
	if err != nil {
		return nil, fmt.Errorf("tag periods: %w", err)
	}

	kinds := make([]any, len(dates))
	names := make([]any, len(dates))
	for i := range dates {
		kinds[i] = TypeNormal
		names[i] = NameNormal
	}

	for _, p := range ranges {
		for i, c := range dates {
			d, ok := c.(time.Time)
			if !ok {
				continue
			}
			if d.Before(p.Start) || d.After(p.End) {
				continue
			}
			kinds[i] = TypeCrisis
			names[i] = p.Name
		}
	}

	out, err := ds.WithColumn(TypeCol, kinds)
	if err != nil {
		return nil, err
	}
	return out.WithColumn(NameCol, names)
}

// TagFile loads ranges from a YAML file and applies them.
func TagFile(ds *dataset.Dataset, dateCol, yamlPath string) (*dataset.Dataset, error) {
	ranges, err := LoadConfig(yamlPath)
	if err != nil {
		return nil, err
	}
	return Tag(ds, dateCol, ranges)
}
