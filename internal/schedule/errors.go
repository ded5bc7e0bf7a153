package schedule

import "errors"

// Custom schedule errors
var (
	// ErrInconsistency indicates the schedule data violated an invariant
	// the compiler depends on: a gap with no term on or before it, an
	// empty day bucket after splitting, or a slot end that misses every
	// row boundary. These signal broken data or a bug, not a bad call.
	ErrInconsistency = errors.New("schedule inconsistency")

	// ErrInvertedRange indicates a range operation was called with its
	// start after its end
	ErrInvertedRange = errors.New("start time is after end time")

	// ErrBadQuantity indicates a listing was requested with a
	// non-positive quantity
	ErrBadQuantity = errors.New("quantity must be positive")

	// ErrEndAndDuration indicates both an explicit end and a duration
	// were supplied where exactly one is allowed
	ErrEndAndDuration = errors.New("specify either end or duration, not both")

	// ErrNotWeekSized indicates the week tabulator received data that
	// does not cover exactly seven days
	ErrNotWeekSized = errors.New("week table data must cover exactly seven days")
)

// IsInconsistency checks if the error is a schedule inconsistency error
func IsInconsistency(err error) bool {
	return errors.Is(err, ErrInconsistency)
}

// IsUsageError checks if the error is a caller error rather than a data
// or logic defect
func IsUsageError(err error) bool {
	return errors.Is(err, ErrInvertedRange) ||
		errors.Is(err, ErrBadQuantity) ||
		errors.Is(err, ErrEndAndDuration) ||
		errors.Is(err, ErrNotWeekSized)
}
