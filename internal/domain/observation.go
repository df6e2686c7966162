package domain

import "time"

// Observation is a single rainfall total for one period.
type Observation struct {
	Date  time.Time `json:"date" yaml:"date"`
	Total float64   `json:"total" yaml:"total"` // millimetres
}

// Year returns the calendar year the observation belongs to.
func (o Observation) Year() int {
	return o.Date.Year()
}

// AnnualRecord summarizes all observations of one calendar year.
type AnnualRecord struct {
	Year  int     `json:"year" yaml:"year"`
	Total float64 `json:"total" yaml:"total"`
	Max   float64 `json:"max" yaml:"max"`
	Count int     `json:"count" yaml:"count"`
}

// GumbelParameters are the location and scale of a fitted Gumbel (maxima)
// distribution. A valid fit always has Scale > 0.
type GumbelParameters struct {
	Loc   float64 `json:"loc" yaml:"loc"`
	Scale float64 `json:"scale" yaml:"scale"`
}

// RecurrenceEstimate pairs a return period in years with the annual total
// expected to be reached or exceeded once in that period.
type RecurrenceEstimate struct {
	ReturnPeriod float64 `json:"return_period" yaml:"return_period"`
	Estimate     float64 `json:"estimate" yaml:"estimate"`
}

// EmpiricalPoint is one ranked annual total with its Weibull plotting
// position and empirical return period.
type EmpiricalPoint struct {
	Rank         int     `json:"rank" yaml:"rank"`
	Total        float64 `json:"total" yaml:"total"`
	Probability  float64 `json:"probability" yaml:"probability"`
	ReturnPeriod float64 `json:"return_period" yaml:"return_period"`
}

// AnalysisResult bundles every statistic produced for one set of annual totals.
type AnalysisResult struct {
	Mean      float64              `json:"mean" yaml:"mean"`
	StdDev    float64              `json:"std_dev" yaml:"std_dev"`
	N         int                  `json:"sample_count" yaml:"sample_count"`
	Gumbel    GumbelParameters     `json:"gumbel" yaml:"gumbel"`
	Estimates []RecurrenceEstimate `json:"estimates" yaml:"estimates"`
	Empirical []EmpiricalPoint     `json:"empirical" yaml:"empirical"`
	Totals    []float64            `json:"totals" yaml:"totals"`
}
