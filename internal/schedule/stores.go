// Package schedule implements the schedule compilation pipeline: term
// resolution, gap filling, block classification, range queries, lazy
// schedule handles and week tabulation.
//
// The pipeline is pure computation over data retrieved through the store
// interfaces below; persistence lives in internal/db, which implements
// them with gorm repositories. Tests substitute in-memory stubs.
package schedule

import (
	"context"
	"time"

	"github.com/mwhitehouse/airwave/internal/models"
)

// QueryOptions controls which timeslots a range query returns.
type QueryOptions struct {
	// ExcludeBeforeStart drops slots that start before the range start
	// but end inside it.
	ExcludeBeforeStart bool

	// ExcludeAfterEnd drops slots that start inside the range but end
	// after its end.
	ExcludeAfterEnd bool

	// ExcludeSubsuming drops slots that wholly contain the range.
	ExcludeSubsuming bool

	// PublicOnly restricts results to slots whose show type is public.
	PublicOnly bool

	// WithFiller pads gaps in the result with synthetic filler slots.
	WithFiller bool
}

// TermStore looks up university terms. Absence of a term is represented
// by a nil result, never by an error.
type TermStore interface {
	// TermContaining returns the term whose [start, end) range contains
	// the given moment, or nil if there is none.
	TermContaining(ctx context.Context, at time.Time) (*models.Term, error)

	// TermBefore returns the latest term ending at or before the given
	// moment, or nil if there is none.
	TermBefore(ctx context.Context, at time.Time) (*models.Term, error)
}

// TimeslotStore queries persisted timeslots. Results are ordered by start
// time and have season, show and show type resolved.
type TimeslotStore interface {
	// InRange returns the timeslots intersecting [start, end), filtered
	// per the options. WithFiller is not the store's concern and is
	// ignored here.
	InRange(ctx context.Context, start, end time.Time, opts QueryOptions) ([]*models.Timeslot, error)

	// EndOfLastBefore returns the end of the last real slot finishing at
	// or before the given moment. ok is false if there is no such slot.
	EndOfLastBefore(ctx context.Context, at time.Time) (end time.Time, ok bool, err error)

	// StartOfNextAfter returns the start of the first real slot starting
	// at or after the given moment. ok is false if there is no such slot.
	StartOfNextAfter(ctx context.Context, at time.Time) (start time.Time, ok bool, err error)

	// UpNext returns at most limit slots that are on air at or after the
	// given moment, ordered by start time.
	UpNext(ctx context.Context, at time.Time, publicOnly bool, limit int) ([]*models.Timeslot, error)
}

// ShowStore resolves shows the scheduler needs by attribute.
type ShowStore interface {
	// FillerShow returns the canonical filler show: the unique show
	// whose type carries the filler type name, with its type resolved.
	FillerShow(ctx context.Context) (*models.Show, error)
}

// BlockStore bulk-fetches the block rule tables. The tables are small;
// the classifier loads them once per annotation pass.
type BlockStore interface {
	Blocks(ctx context.Context) ([]*models.Block, error)
	ShowRules(ctx context.Context) ([]*models.BlockShowRule, error)
	RangeRules(ctx context.Context) ([]*models.BlockRangeRule, error)
}
