package domain

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Analyze runs the full recurrence analysis over annual totals using the
// canonical return periods.
func Analyze(totals []float64) (AnalysisResult, error) {
	return AnalyzeFor(totals, CanonicalReturnPeriods)
}

// AnalyzeFor runs the recurrence analysis for the given return periods.
// Fit errors are returned wrapped; errors.Is still matches the sentinels.
func AnalyzeFor(totals []float64, periods []float64) (AnalysisResult, error) {
	params, err := FitGumbel(totals)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("fit annual totals: %w", err)
	}

	estimates, err := EstimateRecurrence(params, periods)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("estimate recurrence: %w", err)
	}

	mean, std := stat.MeanStdDev(totals, nil)

	return AnalysisResult{
		Mean:      mean,
		StdDev:    std,
		N:         len(totals),
		Gumbel:    params,
		Estimates: estimates,
		Empirical: RankEmpirical(totals),
		Totals:    slices.Clone(totals),
	}, nil
}
