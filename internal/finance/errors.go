package finance

import "errors"

var (
	// ErrUsage is returned when /add does not receive exactly three arguments.
	ErrUsage = errors.New("wrong number of arguments")

	// ErrInvalidInput covers unparseable arguments and any lookup failure other than not-found.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPriceNotFound is returned when the price service answers with a non-200 status.
	ErrPriceNotFound = errors.New("price not found")

	// ErrMalformedQuote is returned when a 200 response does not carry a usable USD price.
	ErrMalformedQuote = errors.New("malformed price response")
)

// Outcome labels used in logs and the usage log.
const (
	OutcomeOK           = "ok"
	OutcomeUsage        = "usage"
	OutcomeNotFound     = "not_found"
	OutcomeInvalidInput = "invalid_input"
)

// OutcomeOf maps an invocation error to its outcome label.
func OutcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrUsage):
		return OutcomeUsage
	case errors.Is(err, ErrPriceNotFound):
		return OutcomeNotFound
	default:
		return OutcomeInvalidInput
	}
}
