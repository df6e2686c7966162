package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleTotals = []float64{1000, 1200, 900, 1500, 1100}

// scoreResiduals returns the two likelihood equations evaluated at p:
// Σ exp(-zᵢ) - n and Σ zᵢ(1 - exp(-zᵢ)) - n. Both vanish at the MLE.
func scoreResiduals(totals []float64, p GumbelParameters) (float64, float64) {
	n := float64(len(totals))
	var s1, s2 float64
	for _, x := range totals {
		z := (x - p.Loc) / p.Scale
		e := math.Exp(-z)
		s1 += e
		s2 += z * (1 - e)
	}
	return s1 - n, s2 - n
}

func TestFitGumbel(t *testing.T) {
	t.Run("satisfies likelihood equations", func(t *testing.T) {
		samples := [][]float64{
			sampleTotals,
			{100, 200, 300},
			{1, 2},
			{1322.4, 987.1, 1544.0, 1101.9, 1210.3, 876.4, 1402.8, 1099.0, 1650.2, 1012.7},
			{0.5, 0.7, 3.1, 0.2, 9.8, 1.1},
		}
		for _, totals := range samples {
			p, err := FitGumbel(totals)
			require.NoError(t, err)
			assert.Greater(t, p.Scale, 0.0)

			r1, r2 := scoreResiduals(totals, p)
			assert.InDelta(t, 0, r1, 1e-8, "location equation for %v", totals)
			assert.InDelta(t, 0, r2, 1e-8, "scale equation for %v", totals)
		}
	})

	t.Run("recovers parameters from quantile sample", func(t *testing.T) {
		truth := GumbelParameters{Loc: 1200, Scale: 250}
		const n = 2000
		totals := make([]float64, n)
		for i := range totals {
			totals[i] = truth.Quantile((float64(i) + 0.5) / n)
		}

		p, err := FitGumbel(totals)
		require.NoError(t, err)
		assert.InEpsilon(t, truth.Loc, p.Loc, 0.01)
		assert.InEpsilon(t, truth.Scale, p.Scale, 0.02)
	})

	t.Run("is shift equivariant", func(t *testing.T) {
		base, err := FitGumbel(sampleTotals)
		require.NoError(t, err)

		shifted := make([]float64, len(sampleTotals))
		for i, x := range sampleTotals {
			shifted[i] = x + 5000
		}
		p, err := FitGumbel(shifted)
		require.NoError(t, err)
		assert.InDelta(t, base.Loc+5000, p.Loc, 1e-6)
		assert.InDelta(t, base.Scale, p.Scale, 1e-6)
	})

	t.Run("single value is degenerate", func(t *testing.T) {
		_, err := FitGumbel([]float64{150.0})
		require.ErrorIs(t, err, ErrFitDegenerate)
	})

	t.Run("zero variance is degenerate", func(t *testing.T) {
		_, err := FitGumbel([]float64{150.0, 150.0})
		require.ErrorIs(t, err, ErrFitDegenerate)
	})

	t.Run("spread lost to rounding is degenerate", func(t *testing.T) {
		// The mean rounds back to the minimum although the variance is positive.
		_, err := FitGumbel([]float64{1e15, 1e15 + 0.125})
		require.ErrorIs(t, err, ErrFitDegenerate)
		assert.NotContains(t, err.Error(), "NaN")
	})

	t.Run("empty is degenerate", func(t *testing.T) {
		_, err := FitGumbel(nil)
		require.ErrorIs(t, err, ErrFitDegenerate)
	})

	t.Run("non-finite values fail", func(t *testing.T) {
		_, err := FitGumbel([]float64{100, math.NaN(), 300})
		require.ErrorIs(t, err, ErrFitFailure)
	})
}

func TestGumbelParameters_Validate(t *testing.T) {
	tests := []struct {
		name  string
		p     GumbelParameters
		valid bool
	}{
		{"positive scale", GumbelParameters{Loc: 10, Scale: 2}, true},
		{"zero scale", GumbelParameters{Loc: 10, Scale: 0}, false},
		{"negative scale", GumbelParameters{Loc: 10, Scale: -1}, false},
		{"nan loc", GumbelParameters{Loc: math.NaN(), Scale: 1}, false},
		{"inf scale", GumbelParameters{Loc: 0, Scale: math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrFitFailure)
		})
	}
}

func TestEstimateRecurrence(t *testing.T) {
	p, err := FitGumbel(sampleTotals)
	require.NoError(t, err)

	estimates, err := EstimateRecurrence(p, CanonicalReturnPeriods)
	require.NoError(t, err)
	require.Len(t, estimates, len(CanonicalReturnPeriods))

	t.Run("preserves period order", func(t *testing.T) {
		for i, e := range estimates {
			assert.Equal(t, CanonicalReturnPeriods[i], e.ReturnPeriod)
		}
	})

	t.Run("monotonically increasing", func(t *testing.T) {
		for i := 1; i < len(estimates); i++ {
			assert.Greater(t, estimates[i].Estimate, estimates[i-1].Estimate)
		}
	})

	t.Run("cdf round trip", func(t *testing.T) {
		for _, e := range estimates {
			assert.InDelta(t, 1-1/e.ReturnPeriod, p.CDF(e.Estimate), 1e-6, "T=%v", e.ReturnPeriod)
		}
	})

	t.Run("extrapolates beyond the record", func(t *testing.T) {
		last := estimates[len(estimates)-1]
		assert.Equal(t, 10000.0, last.ReturnPeriod)
		assert.Greater(t, last.Estimate, 1500.0)
	})

	t.Run("two year level is the median", func(t *testing.T) {
		assert.InDelta(t, p.Loc-p.Scale*math.Log(math.Ln2), estimates[0].Estimate, 1e-9)
	})
}

func TestEstimateRecurrence_Monotone(t *testing.T) {
	params := []GumbelParameters{
		{Loc: 0, Scale: 1},
		{Loc: -50, Scale: 0.01},
		{Loc: 1e6, Scale: 1e4},
	}
	for _, p := range params {
		estimates, err := EstimateRecurrence(p, CanonicalReturnPeriods)
		require.NoError(t, err)
		for i := 1; i < len(estimates); i++ {
			assert.Greater(t, estimates[i].Estimate, estimates[i-1].Estimate)
		}
		for _, e := range estimates {
			assert.InDelta(t, 1-1/e.ReturnPeriod, p.CDF(e.Estimate), 1e-6)
		}
	}
}

func TestEstimateRecurrence_Errors(t *testing.T) {
	valid := GumbelParameters{Loc: 100, Scale: 10}

	t.Run("period not above one year", func(t *testing.T) {
		for _, period := range []float64{1, 0.5, 0, -2, math.NaN()} {
			_, err := EstimateRecurrence(valid, []float64{2, period})
			assert.ErrorIs(t, err, ErrInvalidReturnPeriod)
		}
	})

	t.Run("invalid parameters", func(t *testing.T) {
		_, err := EstimateRecurrence(GumbelParameters{Loc: 100, Scale: 0}, CanonicalReturnPeriods)
		assert.ErrorIs(t, err, ErrFitFailure)
	})
}
