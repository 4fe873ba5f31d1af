package calendar

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FixedDate is one year-agnostic recurring annotation: a commemorative date
// shown on every displayed year. Annotations are never editable and never
// back an event record.
type FixedDate struct {
	Month time.Month `yaml:"month" json:"month"`
	Day   int        `yaml:"day" json:"day"`
	Title string     `yaml:"title" json:"title"`
}

// ValidFor reports whether the month/day pair forms a real calendar date in
// the given year. time.Date normalizes overflow, so a fabricated Feb 30
// lands in March and fails the round-trip check.
func (f FixedDate) ValidFor(year int) bool {
	d := time.Date(year, f.Month, f.Day, 0, 0, 0, 0, time.UTC)
	return d.Month() == f.Month && d.Day() == f.Day
}

// DefaultFixedDates is the built-in commemorative date table used when no
// override file is configured.
func DefaultFixedDates() []FixedDate {
	return []FixedDate{
		{Month: time.January, Day: 25, Title: "День российского студенчества"},
		{Month: time.January, Day: 27, Title: "День Снятия блокады Ленинграда"},
		{Month: time.February, Day: 23, Title: "День защитника Отечества"},
		{Month: time.March, Day: 8, Title: "Международный женский день"},
		{Month: time.April, Day: 12, Title: "День космонавтики"},
		{Month: time.May, Day: 9, Title: "День Победы"},
		{Month: time.June, Day: 12, Title: "День России"},
		{Month: time.September, Day: 1, Title: "День знаний"},
		{Month: time.October, Day: 5, Title: "День учителя"},
		{Month: time.November, Day: 4, Title: "День народного единства"},
		{Month: time.December, Day: 12, Title: "День Конституции РФ"},
	}
}

// LoadFixedDates reads an annotation table from a YAML file:
//
//	- month: 1
//	  day: 25
//	  title: День российского студенчества
func LoadFixedDates(path string) ([]FixedDate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixed dates file: %w", err)
	}

	var dates []FixedDate
	if err := yaml.Unmarshal(data, &dates); err != nil {
		return nil, fmt.Errorf("parsing fixed dates file: %w", err)
	}

	for i, d := range dates {
		if d.Month < time.January || d.Month > time.December || d.Day < 1 || d.Day > 31 || d.Title == "" {
			return nil, fmt.Errorf("fixed dates entry %d is invalid (month=%d day=%d title=%q)",
				i, d.Month, d.Day, d.Title)
		}
	}

	return dates, nil
}
