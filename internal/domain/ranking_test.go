package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankEmpirical(t *testing.T) {
	t.Run("largest total has rank 1", func(t *testing.T) {
		points := RankEmpirical([]float64{1000, 1200, 900, 1500, 1100})

		require.Len(t, points, 5)
		assert.Equal(t, 1, points[0].Rank)
		assert.Equal(t, 1500.0, points[0].Total)
		assert.InDelta(t, 1.0/6.0, points[0].Probability, 1e-12)
		assert.InDelta(t, 6.0, points[0].ReturnPeriod, 1e-12)

		assert.Equal(t, 900.0, points[4].Total)
		assert.InDelta(t, 5.0/6.0, points[4].Probability, 1e-12)
		assert.InDelta(t, 1.2, points[4].ReturnPeriod, 1e-12)
	})

	t.Run("single value", func(t *testing.T) {
		points := RankEmpirical([]float64{150})
		require.Len(t, points, 1)
		assert.Equal(t, 0.5, points[0].Probability)
		assert.Equal(t, 2.0, points[0].ReturnPeriod)
	})

	t.Run("does not modify input", func(t *testing.T) {
		totals := []float64{3, 1, 2}
		RankEmpirical(totals)
		assert.Equal(t, []float64{3, 1, 2}, totals)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, RankEmpirical(nil))
	})
}

func TestRankEmpirical_Properties(t *testing.T) {
	samples := [][]float64{
		{1},
		{5, 5},
		{100, 200, 300},
		{1322.4, 987.1, 1544.0, 1101.9, 1210.3, 876.4, 1402.8, 1099.0},
		{0, 0, 12.5, 0.1, 3, 7, 7, 42},
	}

	for _, totals := range samples {
		points := RankEmpirical(totals)
		n := len(totals)
		require.Len(t, points, n)

		for i, pt := range points {
			assert.Equal(t, i+1, pt.Rank)
			assert.Greater(t, pt.Probability, 0.0)
			assert.Less(t, pt.Probability, 1.0)
			if i == 0 {
				continue
			}
			assert.GreaterOrEqual(t, points[i-1].Total, pt.Total, "totals must be descending")
			assert.Greater(t, points[i-1].ReturnPeriod, pt.ReturnPeriod, "return periods must strictly decrease")
		}
	}
}

func TestPlottingPosition(t *testing.T) {
	for n := 1; n <= 50; n++ {
		for m := 1; m <= n; m++ {
			p := PlottingPosition(m, n)
			if p <= 0 || p >= 1 {
				t.Fatalf("PlottingPosition(%d, %d) = %v, want 0 < p < 1", m, n, p)
			}
		}
	}
}
