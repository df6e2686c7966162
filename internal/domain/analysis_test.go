package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	t.Run("sample statistics use n-1", func(t *testing.T) {
		result, err := Analyze([]float64{100, 200, 300})
		require.NoError(t, err)
		assert.InDelta(t, 200.0, result.Mean, 1e-9)
		assert.InDelta(t, 100.0, result.StdDev, 1e-9)
		assert.Equal(t, 3, result.N)
	})

	t.Run("bundles every component", func(t *testing.T) {
		result, err := Analyze(sampleTotals)
		require.NoError(t, err)

		params, err := FitGumbel(sampleTotals)
		require.NoError(t, err)

		assert.Equal(t, params, result.Gumbel)
		assert.Len(t, result.Estimates, len(CanonicalReturnPeriods))
		assert.Equal(t, RankEmpirical(sampleTotals), result.Empirical)
		assert.Equal(t, sampleTotals, result.Totals)
		assert.Equal(t, 1500.0, result.Empirical[0].Total)
	})

	t.Run("totals are copied", func(t *testing.T) {
		totals := []float64{10, 30, 20}
		result, err := Analyze(totals)
		require.NoError(t, err)
		totals[0] = 999
		assert.Equal(t, 10.0, result.Totals[0])
	})

	t.Run("custom periods", func(t *testing.T) {
		result, err := AnalyzeFor(sampleTotals, []float64{3, 7})
		require.NoError(t, err)
		require.Len(t, result.Estimates, 2)
		assert.Equal(t, 3.0, result.Estimates[0].ReturnPeriod)
		assert.Equal(t, 7.0, result.Estimates[1].ReturnPeriod)
	})

	t.Run("fit errors propagate", func(t *testing.T) {
		_, err := Analyze([]float64{150})
		require.ErrorIs(t, err, ErrFitDegenerate)

		_, err = Analyze([]float64{150, 150})
		require.ErrorIs(t, err, ErrFitDegenerate)
		assert.Equal(t, "fit_degenerate", FailureKind(err))
	})

	t.Run("invalid period propagates", func(t *testing.T) {
		_, err := AnalyzeFor(sampleTotals, []float64{1})
		require.ErrorIs(t, err, ErrInvalidReturnPeriod)
	})
}

func TestFailureKind(t *testing.T) {
	assert.Equal(t, "", FailureKind(nil))
	assert.Equal(t, "input", FailureKind(ErrInput))
	assert.Equal(t, "selection", FailureKind(ErrSelection))
	assert.Equal(t, "fit_failure", FailureKind(ErrFitFailure))
	assert.Equal(t, "other", FailureKind(errors.New("boom")))
}

func TestNewReport(t *testing.T) {
	fixed := time.Date(2024, time.March, 3, 9, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	obs := []Observation{
		obsAt(2021, time.February, 5),
		obsAt(2020, time.March, 20),
		obsAt(2020, time.January, 10),
		obsAt(2021, time.January, 7),
	}
	annual := AggregateAnnual(obs)
	result, err := Analyze(AnnualTotals(annual))
	require.NoError(t, err)

	report := NewReport("run-1", "input.xlsx", NewYearSelection(2020, 2021), false, obs, annual, result)

	assert.Equal(t, fixed, report.GeneratedAt)
	assert.Equal(t, []int{2020, 2021}, report.Years())
	assert.True(t, report.Observations[0].Date.Before(report.Observations[1].Date))

	y2020 := report.ObservationsForYear(2020)
	require.Len(t, y2020, 2)
	assert.Equal(t, time.January, y2020[0].Date.Month())
	assert.Empty(t, report.ObservationsForYear(1990))

	summary := report.Summary()
	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, "2020,2021", summary.Selection)
	assert.Equal(t, 2, summary.Result.N)
}
