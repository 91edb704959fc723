// Package config loads the CLI's YAML-configured inputs: the
// --blackout-times file and the drawsched init starter. A Date wrapper
// type handles custom UnmarshalYAML, plain structs otherwise, validated
// after parsing, gopkg.in/yaml.v3 throughout.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Date wraps time.Time so blackout-times YAML can use plain
// "2006-01-02" scalars.
type Date struct {
	Time time.Time
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse("2006-01-02", value.Value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value.Value, err)
	}
	d.Time = t
	return nil
}

// BlackoutEntry is one blackout-times file entry: either a single date
// or an inclusive date range, each with an optional human-readable
// reason.
type BlackoutEntry struct {
	Date      *Date  `yaml:"date"`
	StartDate *Date  `yaml:"start_date"`
	EndDate   *Date  `yaml:"end_date"`
	Reason    string `yaml:"reason"`
}

// Dates returns all dates covered by this entry. Supports a single date
// (date:) or an inclusive range (start_date:/end_date:).
func (e BlackoutEntry) Dates() []time.Time {
	if e.StartDate != nil && e.EndDate != nil {
		var dates []time.Time
		d := e.StartDate.Time
		for !d.After(e.EndDate.Time) {
			dates = append(dates, d)
			d = d.AddDate(0, 0, 1)
		}
		return dates
	}
	if e.Date != nil {
		return []time.Time{e.Date.Time}
	}
	return nil
}

// BlackoutFile is the --blackout-times YAML document's top-level shape.
type BlackoutFile struct {
	BlackoutDates []BlackoutEntry `yaml:"blackout_dates"`
}

// AllDates flattens every entry's Dates() into one slice.
func (f *BlackoutFile) AllDates() []time.Time {
	var out []time.Time
	for _, e := range f.BlackoutDates {
		out = append(out, e.Dates()...)
	}
	return out
}

// LoadFromBytes parses YAML bytes into a BlackoutFile and validates it.
func LoadFromBytes(data []byte) (*BlackoutFile, error) {
	var f BlackoutFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing blackout-times file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFromFile reads and parses a blackout-times YAML file.
func LoadFromFile(path string) (*BlackoutFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading blackout-times file: %w", err)
	}
	return LoadFromBytes(data)
}

func (f *BlackoutFile) validate() error {
	for i, e := range f.BlackoutDates {
		hasDate := e.Date != nil
		hasRange := e.StartDate != nil || e.EndDate != nil
		if !hasDate && !hasRange {
			return fmt.Errorf("blackout_dates[%d]: entry must have either 'date' or 'start_date'/'end_date'", i)
		}
		if hasDate && hasRange {
			return fmt.Errorf("blackout_dates[%d]: entry cannot have both 'date' and 'start_date'/'end_date'", i)
		}
		if hasRange && (e.StartDate == nil || e.EndDate == nil) {
			return fmt.Errorf("blackout_dates[%d]: date range must have both 'start_date' and 'end_date'", i)
		}
		if hasRange && e.EndDate.Time.Before(e.StartDate.Time) {
			return fmt.Errorf("blackout_dates[%d]: end_date must be on or after start_date", i)
		}
	}
	return nil
}

// initTemplate is the starter file drawsched init writes.
const initTemplate = `# drawsched blackout-times file
# Each entry excludes one date, or an inclusive date range, from slot
# generation entirely. Dates are YYYY-MM-DD.
blackout_dates:
  - date: "2026-12-25"
    reason: "Christmas Day"
  - start_date: "2026-12-26"
    end_date: "2027-01-02"
    reason: "Holiday break"
`

// WriteInitTemplate writes the starter blackout-times YAML to path,
// failing if the file already exists.
func WriteInitTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.WriteFile(path, []byte(initTemplate), 0o644); err != nil {
		return fmt.Errorf("writing blackout-times starter file: %w", err)
	}
	return nil
}
