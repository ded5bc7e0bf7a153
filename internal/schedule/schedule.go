package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/mwhitehouse/airwave/internal/localtime"
	"github.com/mwhitehouse/airwave/internal/models"
)

// Status tags the outcome of building a schedule period. The non-OK
// statuses are legitimate build results, not errors: they mean "no
// programming data applies here" and the presentation layer renders them
// distinctly.
type Status string

const (
	// StatusOK means the period compiled to a slot list.
	StatusOK Status = "ok"

	// StatusEmpty means the period holds no programming: it falls in a
	// holiday between terms, or inside a term with nothing scheduled.
	StatusEmpty Status = "empty"

	// StatusNoTerm means no term exists on or before the period, which
	// points at missing term configuration rather than a quiet week.
	StatusNoTerm Status = "no_term"
)

// BuildResult is the compiled content of one schedule period.
type BuildResult struct {
	Status Status             `json:"status"`
	Term   *models.Term       `json:"term,omitempty"`
	Slots  []*models.Timeslot `json:"slots,omitempty"`
}

// Builder computes the contents of a schedule period on demand.
type Builder func(ctx context.Context, s *Schedule) (*BuildResult, error)

// Schedule is a lazy handle on the schedule period [Start, Start+Span).
// It defers compiling its contents until Data is first called and caches
// the result; after that the value is effectively immutable and safe to
// share across readers. Navigation and overrides always allocate fresh,
// unevaluated handles.
type Schedule struct {
	Start time.Time
	Span  time.Duration

	loc     *time.Location
	builder Builder

	once   sync.Once
	result *BuildResult
	err    error
}

// New creates a schedule handle. Nothing is computed until Data is called.
func New(start time.Time, span time.Duration, loc *time.Location, builder Builder) *Schedule {
	return &Schedule{
		Start:   start,
		Span:    span,
		loc:     loc,
		builder: builder,
	}
}

// End returns the period's end, Span of local time after Start. Using
// DST-compensated addition keeps the local start time stable when the
// clocks change inside the period.
func (s *Schedule) End() time.Time {
	return localtime.DSTAdd(s.Start, s.Span, s.loc)
}

// Location returns the station zone the schedule is interpreted in
func (s *Schedule) Location() *time.Location {
	return s.loc
}

// Data returns the compiled schedule contents, invoking the builder on
// first use and memoizing the outcome, error included.
func (s *Schedule) Data(ctx context.Context) (*BuildResult, error) {
	s.once.Do(func() {
		s.result, s.err = s.builder(ctx, s)
	})
	return s.result, s.err
}

// Previous returns a fresh handle on the period immediately before this one
func (s *Schedule) Previous() *Schedule {
	return New(localtime.DSTAdd(s.Start, -s.Span, s.loc), s.Span, s.loc, s.builder)
}

// Next returns a fresh handle on the period immediately after this one
func (s *Schedule) Next() *Schedule {
	return New(localtime.DSTAdd(s.Start, s.Span, s.loc), s.Span, s.loc, s.builder)
}

// WithStart returns a copy of the handle starting at the given moment,
// with any computed data discarded.
func (s *Schedule) WithStart(start time.Time) *Schedule {
	return New(start, s.Span, s.loc, s.builder)
}

// WithSpan returns a copy of the handle covering the given span, with any
// computed data discarded.
func (s *Schedule) WithSpan(span time.Duration) *Schedule {
	return New(s.Start, span, s.loc, s.builder)
}
