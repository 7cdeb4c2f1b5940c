package periods

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"headline-sentiment/internal/clean"
	"headline-sentiment/internal/types"
)

// DefaultName labels a crisis range that has no name in the config.
const DefaultName = "Crisis"

type fileConfig struct {
	CrisisPeriods []struct {
		Start string `yaml:"start"`
		End   string `yaml:"end"`
		Name  string `yaml:"name"`
	} `yaml:"crisis_periods"`
}

// LoadConfig reads the crisis_periods list from a YAML file, keeping its order.
func LoadConfig(path string) ([]types.PeriodRange, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(b)
}

// ParseConfig decodes crisis_periods YAML.
func ParseConfig(b []byte) ([]types.PeriodRange, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("parse periods: %w", err)
	}

	ranges := make([]types.PeriodRange, 0, len(fc.CrisisPeriods))
	for i, p := range fc.CrisisPeriods {
		start, ok := clean.ParseDayFirst(p.Start)
		if !ok {
			return nil, fmt.Errorf("crisis_periods[%d]: invalid start %q", i, p.Start)
		}
		end, ok := clean.ParseDayFirst(p.End)
		if !ok {
			return nil, fmt.Errorf("crisis_periods[%d]: invalid end %q", i, p.End)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("crisis_periods[%d]: end %s before start %s", i, p.End, p.Start)
		}
		name := p.Name
		if name == "" {
			name = DefaultName
		}
		ranges = append(ranges, types.PeriodRange{Start: start, End: end, Name: name})
	}
	return ranges, nil
}
