package domain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// CanonicalReturnPeriods are the return periods, in years, reported for every analysis.
var CanonicalReturnPeriods = []float64{2, 5, 10, 25, 50, 100, 1000, 10000}

const (
	fitTolerance     = 1e-12
	fitMaxIterations = 200
)

// FitGumbel estimates the Gumbel (maxima) location and scale of the totals
// by maximum likelihood.
//
// Setting the likelihood derivatives to zero gives, for scale β,
//
//	β = mean(x) - Σ xᵢ·exp(-xᵢ/β) / Σ exp(-xᵢ/β)
//	loc = -β · ln(Σ exp(-xᵢ/β) / n)
//
// The left-hand residual of the first equation is strictly increasing in β,
// so it has a single root. It is found with Newton steps kept inside a
// shrinking bracket, starting from the method-of-moments scale s·√6/π.
// Values are shifted by min(x) to keep the exponentials in range.
func FitGumbel(totals []float64) (GumbelParameters, error) {
	n := len(totals)
	if n < 2 {
		return GumbelParameters{}, fmt.Errorf("%w: need at least 2 annual totals, got %d", ErrFitDegenerate, n)
	}
	for _, x := range totals {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return GumbelParameters{}, fmt.Errorf("%w: non-finite annual total %v", ErrFitFailure, x)
		}
	}

	mean, std := stat.MeanStdDev(totals, nil)
	if std == 0 || math.IsNaN(std) {
		return GumbelParameters{}, fmt.Errorf("%w: annual totals have zero variance", ErrFitDegenerate)
	}

	lowest := floats.Min(totals)
	spread := mean - lowest
	if !(spread > 0) {
		return GumbelParameters{}, fmt.Errorf("%w: annual totals have no spread above their minimum at float64 precision", ErrFitDegenerate)
	}

	// residual returns the scale equation residual, its derivative and the
	// weight sum Σ exp(-(xᵢ-min)/β).
	residual := func(beta float64) (f, df, weights float64) {
		var a, c float64
		for _, x := range totals {
			d := x - lowest
			w := math.Exp(-d / beta)
			weights += w
			a += d * w
			c += d * d * w
		}
		wmean := a / weights
		f = beta - spread + wmean
		df = 1 + (c/weights-wmean*wmean)/(beta*beta)
		return f, df, weights
	}

	lo, hi := 0.0, 2*spread
	beta := std * math.Sqrt(6) / math.Pi
	if beta <= lo || beta >= hi {
		beta = (lo + hi) / 2
	}

	converged := false
	for i := 0; i < fitMaxIterations; i++ {
		f, df, _ := residual(beta)
		if f == 0 {
			converged = true
			break
		}
		if f < 0 {
			lo = beta
		} else {
			hi = beta
		}

		next := beta - f/df
		if !(next > lo && next < hi) {
			next = (lo + hi) / 2
		}
		if math.Abs(next-beta) <= fitTolerance*beta {
			beta = next
			converged = true
			break
		}
		beta = next
	}
	if !converged {
		return GumbelParameters{}, fmt.Errorf("%w: scale did not converge after %d iterations", ErrFitFailure, fitMaxIterations)
	}

	_, _, weights := residual(beta)
	params := GumbelParameters{
		Loc:   lowest - beta*math.Log(weights/float64(n)),
		Scale: beta,
	}
	if err := params.Validate(); err != nil {
		return GumbelParameters{}, err
	}
	return params, nil
}

// Validate reports ErrFitFailure when the parameters are non-finite or the
// scale is not strictly positive.
func (p GumbelParameters) Validate() error {
	if math.IsNaN(p.Loc) || math.IsInf(p.Loc, 0) || math.IsNaN(p.Scale) || math.IsInf(p.Scale, 0) {
		return fmt.Errorf("%w: non-finite parameters loc=%v scale=%v", ErrFitFailure, p.Loc, p.Scale)
	}
	if p.Scale <= 0 {
		return fmt.Errorf("%w: scale must be positive, got %v", ErrFitFailure, p.Scale)
	}
	return nil
}

func (p GumbelParameters) dist() distuv.GumbelRight {
	return distuv.GumbelRight{Mu: p.Loc, Beta: p.Scale}
}

// CDF returns the probability that an annual total does not exceed x.
func (p GumbelParameters) CDF(x float64) float64 {
	return p.dist().CDF(x)
}

// Quantile returns the annual total whose non-exceedance probability is q,
// for 0 < q < 1.
func (p GumbelParameters) Quantile(q float64) float64 {
	return p.dist().Quantile(q)
}

// ReturnLevel returns the annual total exceeded on average once every
// period years.
func (p GumbelParameters) ReturnLevel(period float64) (float64, error) {
	if !(period > 1) || math.IsInf(period, 1) {
		return 0, fmt.Errorf("%w: %v years", ErrInvalidReturnPeriod, period)
	}
	return p.Quantile(1 - 1/period), nil
}

// EstimateRecurrence evaluates the return level for each period, in the
// order given. Periods far outside the observed record are extrapolated
// without clipping.
func EstimateRecurrence(p GumbelParameters, periods []float64) ([]RecurrenceEstimate, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	estimates := make([]RecurrenceEstimate, 0, len(periods))
	for _, t := range periods {
		q, err := p.ReturnLevel(t)
		if err != nil {
			return nil, err
		}
		estimates = append(estimates, RecurrenceEstimate{ReturnPeriod: t, Estimate: q})
	}
	return estimates, nil
}
