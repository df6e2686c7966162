package domain

import (
	"slices"
	"time"
)

// Report is everything one analysis run produced, handed to the exporters.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Source      string

	// Selection is the year selection that was applied. When the requested
	// selection was invalid, SelectionFallback is set and Selection is all years.
	Selection         YearSelection
	SelectionFallback bool

	Observations []Observation
	Annual       []AnnualRecord
	Result       AnalysisResult
}

// NewReport assembles a report and stamps it with the current time.
// Observations are stored in date order.
func NewReport(runID, source string, sel YearSelection, fallback bool, obs []Observation, annual []AnnualRecord, result AnalysisResult) Report {
	sorted := slices.Clone(obs)
	slices.SortStableFunc(sorted, func(a, b Observation) int { return a.Date.Compare(b.Date) })
	return Report{
		RunID:             runID,
		GeneratedAt:       clock.Now().UTC(),
		Source:            source,
		Selection:         sel,
		SelectionFallback: fallback,
		Observations:      sorted,
		Annual:            annual,
		Result:            result,
	}
}

// Years returns the years covered by the report, ascending.
func (r Report) Years() []int {
	years := make([]int, len(r.Annual))
	for i, rec := range r.Annual {
		years[i] = rec.Year
	}
	return years
}

// ObservationsForYear returns the observations of one year in date order.
func (r Report) ObservationsForYear(year int) []Observation {
	var out []Observation
	for _, o := range r.Observations {
		if o.Year() == year {
			out = append(out, o)
		}
	}
	return out
}

// Summary is the serializable view of a report used by the summary file
// and the result topic. Field names are stable.
type Summary struct {
	RunID             string         `json:"run_id" yaml:"run_id"`
	GeneratedAt       time.Time      `json:"generated_at" yaml:"generated_at"`
	Source            string         `json:"source,omitempty" yaml:"source,omitempty"`
	Selection         string         `json:"selection" yaml:"selection"`
	SelectionFallback bool           `json:"selection_fallback" yaml:"selection_fallback"`
	Annual            []AnnualRecord `json:"annual" yaml:"annual"`
	Result            AnalysisResult `json:"result" yaml:"result"`
}

// Summary returns the serializable view of the report.
func (r Report) Summary() Summary {
	return Summary{
		RunID:             r.RunID,
		GeneratedAt:       r.GeneratedAt,
		Source:            r.Source,
		Selection:         r.Selection.String(),
		SelectionFallback: r.SelectionFallback,
		Annual:            r.Annual,
		Result:            r.Result,
	}
}
