package domain

import "errors"

var (
	// ErrInput means the observations could not be read: a required sheet or
	// column is missing, or a date or total cannot be parsed.
	ErrInput = errors.New("invalid input")

	// ErrSelection means the requested years are malformed or not present in
	// the data. Callers recover by analysing every year.
	ErrSelection = errors.New("invalid year selection")

	// ErrFitDegenerate means the annual totals cannot support a two-parameter
	// fit: fewer than two values, or no spread between them.
	ErrFitDegenerate = errors.New("degenerate gumbel fit")

	// ErrFitFailure means the likelihood solver did not converge or produced
	// parameters outside their domain.
	ErrFitFailure = errors.New("gumbel fit failed")

	// ErrInvalidReturnPeriod means a requested return period is not greater
	// than one year.
	ErrInvalidReturnPeriod = errors.New("invalid return period")
)

// FailureKind maps an analysis error to a short label for logs and metrics.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInput):
		return "input"
	case errors.Is(err, ErrSelection):
		return "selection"
	case errors.Is(err, ErrFitDegenerate):
		return "fit_degenerate"
	case errors.Is(err, ErrFitFailure):
		return "fit_failure"
	case errors.Is(err, ErrInvalidReturnPeriod):
		return "return_period"
	default:
		return "other"
	}
}
