package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/rainfall-recurrence/internal/domain"
)

// Analysis is the outcome of the analyze stage.
type Analysis struct {
	// Selection is the selection actually applied; all years after a fallback.
	Selection         domain.YearSelection
	SelectionFallback bool

	Observations []domain.Observation
	Annual       []domain.AnnualRecord
	Result       domain.AnalysisResult
}

// RecurrenceAnalyzer implements Analyzer with the domain functions: year
// selection, annual aggregation and the Gumbel fit.
type RecurrenceAnalyzer struct {
	requested    string
	selection    domain.YearSelection
	selectionErr error
	periods      []float64
	logger       *slog.Logger
}

// NewAnalyzer creates a RecurrenceAnalyzer for a year selection such as
// "all" or "2001-2010". A malformed selection is not an error here; it is
// reported as a fallback when the analysis runs. Nil periods select the
// canonical return periods.
func NewAnalyzer(years string, periods []float64, logger *slog.Logger) *RecurrenceAnalyzer {
	if len(periods) == 0 {
		periods = domain.CanonicalReturnPeriods
	}
	sel, err := domain.ParseYearSelection(years)
	return &RecurrenceAnalyzer{
		requested:    years,
		selection:    sel,
		selectionErr: err,
		periods:      periods,
		logger:       logger,
	}
}

// Analyze selects the configured years, falling back to every year when the
// selection does not match the data, then fits the annual totals.
func (a *RecurrenceAnalyzer) Analyze(ctx context.Context, obs []domain.Observation) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}

	out := Analysis{Selection: a.selection}
	selected, err := obs, a.selectionErr
	if err == nil {
		selected, err = domain.SelectYears(obs, a.selection)
	}
	switch {
	case errors.Is(err, domain.ErrSelection):
		a.logger.Warn("year selection invalid, analysing all years",
			"selection", a.requested, "error", err)
		out.Selection = domain.AllYears()
		out.SelectionFallback = true
		selected = obs
	case err != nil:
		return Analysis{}, err
	}

	out.Observations = selected
	out.Annual = domain.AggregateAnnual(selected)

	result, err := domain.AnalyzeFor(domain.AnnualTotals(out.Annual), a.periods)
	if err != nil {
		return Analysis{}, fmt.Errorf("analyze %d years: %w", len(out.Annual), err)
	}
	out.Result = result
	return out, nil
}
