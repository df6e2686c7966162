// Package domain models periodic rainfall observations and the annual
// extreme-value analysis built on top of them.
//
// # Data Source
//
// Observations come from a hydrologist's workbook: one row per period
// (usually a month) with a date and the rainfall total for that period in
// millimetres. The workbook adapter turns rows into [Observation] values;
// everything in this package is a pure transform over those values.
//
// # Annual Aggregation
//
// Observations are grouped by calendar year. Each [AnnualRecord] carries
// the annual total (sum), the largest single-period total (max) and the
// number of periods that contributed (count):
//
//	2020-01 10mm, 2020-02 20mm, 2021-01 5mm
//	  →  2020: total 30, max 20, count 2
//	     2021: total  5, max  5, count 1
//
// Years may be narrowed with a [YearSelection] before aggregation. An
// invalid selection is reported as [ErrSelection]; the pipeline treats it
// as recoverable and analyses all years instead.
//
// # Empirical Ranking
//
// Annual totals are sorted in descending order and ranked m = 1..n. The
// Weibull plotting position assigns each rank an exceedance probability
//
//	P(m) = m / (n + 1)
//
// which is never 0 or 1, and an empirical return period T = 1/P. This is
// the only place the empirical return period is computed; every exporter
// reuses [EmpiricalPoint] values.
//
// # Gumbel Fit
//
// The annual totals are fitted to a Gumbel (Type I, maxima) distribution
//
//	F(x) = exp(-exp(-(x - loc) / scale))
//
// by maximum likelihood. The scale is the root of the profile likelihood
// equation (see [FitGumbel]); the location then follows in closed form.
// At least two annual totals with non-zero spread are required, otherwise
// the fit is [ErrFitDegenerate]. A fit that does not converge or yields a
// non-positive scale is [ErrFitFailure].
//
// # Recurrence Estimates
//
// For a return period T the estimated annual total is the quantile of the
// fitted distribution at non-exceedance probability 1 - 1/T:
//
//	Q(T) = loc - scale * ln(-ln(1 - 1/T))
//
// The canonical periods are 2, 5, 10, 25, 50, 100, 1000 and 10000 years.
// Periods far beyond the record length are extrapolations and are reported
// as-is.
package domain
