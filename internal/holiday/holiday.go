// Package holiday decides whether a scheduled run should be skipped.
//
// A Table is static reference data: it is built once, from a file or from
// code, and never changes afterwards, so it can be shared freely.
package holiday

import (
	"fmt"
	"os"
	"sort"
	"time"

	yaml "gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Calendar reports whether a given day is a day off
type Calendar interface {
	IsHoliday(t time.Time) (name string, ok bool)
}

// None is a Calendar without any holiday
type None struct{}

func (None) IsHoliday(time.Time) (string, bool) { return "", false }

// Holiday is a single named day off
type Holiday struct {
	Date string `yaml:"date" json:"date"` // YYYY-MM-DD
	Name string `yaml:"name" json:"name"`
}

type file struct {
	Weekends bool      `yaml:"weekends" json:"weekends"`
	Holidays []Holiday `yaml:"holidays" json:"holidays"`
}

// Table is a Calendar backed by a fixed set of dates, optionally treating
// Saturdays and Sundays as days off too
type Table struct {
	days     map[string]string
	weekends bool
}

// NewTable builds a Table. Dates are compared in the location of the time passed to IsHoliday.
func NewTable(holidays []Holiday, weekends bool) (*Table, error) {
	t := &Table{days: make(map[string]string, len(holidays)), weekends: weekends}
	for i, h := range holidays {
		d, err := time.Parse(dateLayout, h.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday %d: invalid date %q: %w", i, h.Date, err)
		}
		name := h.Name
		if name == "" {
			name = "holiday"
		}
		t.days[d.Format(dateLayout)] = name
	}
	return t, nil
}

// Load reads a holiday table from a YAML (or JSON) file:
//
//	weekends: true
//	holidays:
//	  - date: 2026-01-01
//	    name: New Year's Day
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holiday file: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse holiday file %s: %w", path, err)
	}
	return NewTable(f.Holidays, f.Weekends)
}

// WithWeekends returns a copy of t that also treats weekends as days off.
func (t *Table) WithWeekends() *Table {
	return &Table{days: t.days, weekends: true}
}

// IsHoliday implements Calendar.
func (t *Table) IsHoliday(at time.Time) (string, bool) {
	if name, ok := t.days[at.Format(dateLayout)]; ok {
		return name, true
	}
	if t.weekends {
		switch at.Weekday() {
		case time.Saturday, time.Sunday:
			return at.Weekday().String(), true
		}
	}
	return "", false
}

// Dates returns the configured dates in ascending order.
func (t *Table) Dates() []string {
	out := make([]string, 0, len(t.days))
	for d := range t.days {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
