package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// YearSelection narrows the observations to a set of calendar years.
// The zero value selects every year.
type YearSelection struct {
	years []int
}

// AllYears returns a selection that keeps every year.
func AllYears() YearSelection {
	return YearSelection{}
}

// NewYearSelection selects exactly the given years. An empty list selects all years.
func NewYearSelection(years ...int) YearSelection {
	if len(years) == 0 {
		return AllYears()
	}
	ys := slices.Clone(years)
	slices.Sort(ys)
	return YearSelection{years: slices.Compact(ys)}
}

// ParseYearSelection parses a comma-separated list of years or inclusive
// ranges, e.g. "2001, 2003-2005". The empty string, "all" and "todos"
// select every year.
func ParseYearSelection(s string) (YearSelection, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "all", "todos":
		return AllYears(), nil
	}

	var years []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to, isRange := strings.Cut(part, "-")
		first, err := parseYear(from)
		if err != nil {
			return AllYears(), err
		}
		last := first
		if isRange {
			if last, err = parseYear(to); err != nil {
				return AllYears(), err
			}
			if last < first {
				return AllYears(), fmt.Errorf("%w: range %q is reversed", ErrSelection, part)
			}
		}
		for y := first; y <= last; y++ {
			years = append(years, y)
		}
	}
	if len(years) == 0 {
		return AllYears(), fmt.Errorf("%w: %q names no years", ErrSelection, s)
	}
	return NewYearSelection(years...), nil
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || y < 1 || y > 9999 {
		return 0, fmt.Errorf("%w: %q is not a year", ErrSelection, strings.TrimSpace(s))
	}
	return y, nil
}

// All reports whether the selection keeps every year.
func (s YearSelection) All() bool {
	return len(s.years) == 0
}

// Years returns the selected years in ascending order, or nil for all years.
func (s YearSelection) Years() []int {
	return slices.Clone(s.years)
}

func (s YearSelection) String() string {
	if s.All() {
		return "all"
	}
	parts := make([]string, len(s.years))
	for i, y := range s.years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ",")
}

// SelectYears keeps the observations whose year is selected. Every selected
// year must be present in obs; otherwise the original slice is returned
// together with an ErrSelection.
func SelectYears(obs []Observation, sel YearSelection) ([]Observation, error) {
	if sel.All() {
		return obs, nil
	}

	available := ObservationYears(obs)
	var missing []string
	for _, y := range sel.years {
		if _, found := slices.BinarySearch(available, y); !found {
			missing = append(missing, strconv.Itoa(y))
		}
	}
	if len(missing) > 0 {
		return obs, fmt.Errorf("%w: years not in data: %s", ErrSelection, strings.Join(missing, ", "))
	}

	selected := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if _, found := slices.BinarySearch(sel.years, o.Year()); found {
			selected = append(selected, o)
		}
	}
	return selected, nil
}
