package domain

import (
	"slices"
)

// PlottingPosition returns the Weibull exceedance probability m/(n+1) for
// rank m of n. The result is strictly between 0 and 1 for 1 <= m <= n.
func PlottingPosition(m, n int) float64 {
	return float64(m) / float64(n+1)
}

// RankEmpirical sorts the totals in descending order and assigns each one
// its rank, plotting position and empirical return period. The input slice
// is not modified.
func RankEmpirical(totals []float64) []EmpiricalPoint {
	sorted := slices.Clone(totals)
	slices.SortFunc(sorted, func(a, b float64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		default:
			return 0
		}
	})

	n := len(sorted)
	points := make([]EmpiricalPoint, n)
	for i, total := range sorted {
		m := i + 1
		p := PlottingPosition(m, n)
		points[i] = EmpiricalPoint{
			Rank:         m,
			Total:        total,
			Probability:  p,
			ReturnPeriod: 1 / p,
		}
	}
	return points
}
