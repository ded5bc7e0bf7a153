package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mwhitehouse/airwave/internal/models"
)

// fillerShowCacheTTL bounds how long the canonical filler show lookup is
// memoized. Staleness only matters if the filler show's identity changes,
// which is an administrative rarity.
const fillerShowCacheTTL = 24 * time.Hour

// Filler synthesizes filler timeslots to pad gaps in timeslot ranges.
//
// Filler slots are fake timeslots tied to a fake in-memory season, which
// is in turn assigned to a real show: the unique show whose type is named
// "filler". Padding lets everything downstream assume timeslot ranges are
// contiguous. The filler show lives in the show database like any other,
// so the branding of gap programming stays editable.
type Filler struct {
	terms TermStore
	slots TimeslotStore
	shows ShowStore

	mu       sync.Mutex
	show     *models.Show
	fetched  time.Time
	cacheTTL time.Duration
}

// NewFiller creates a filler engine over the given stores
func NewFiller(terms TermStore, slots TimeslotStore, shows ShowStore) *Filler {
	return &Filler{
		terms:    terms,
		slots:    slots,
		shows:    shows,
		cacheTTL: fillerShowCacheTTL,
	}
}

// Fill pads any gaps in the given ordered timeslot list with filler
// slots, so that the result is fully populated from start to end. The
// input is assumed sorted by start time and already restricted to slots
// relevant to [start, end); it may be empty.
//
// The returned sequence is contiguous, its first slot starts at or
// before start and its last ends at or after end. Real slots pass
// through untouched and in order.
func (f *Filler) Fill(ctx context.Context, slots []*models.Timeslot, start, end time.Time) ([]*models.Timeslot, error) {
	if start.After(end) {
		return nil, ErrInvertedRange
	}

	if len(slots) == 0 {
		// Expand to absorb any directly adjacent real programming
		// rather than leaving gaps against it.
		from, err := f.endBefore(ctx, start)
		if err != nil {
			return nil, err
		}
		to, err := f.startAfter(ctx, end)
		if err != nil {
			return nil, err
		}
		pad, err := f.Synthetic(ctx, from, to, 0)
		if err != nil {
			return nil, err
		}
		return []*models.Timeslot{pad}, nil
	}

	filled := make([]*models.Timeslot, 0, 2*len(slots)+1)

	// Fill in any gap before the first slot.
	if slots[0].StartTime.After(start) {
		from, err := f.endBefore(ctx, start)
		if err != nil {
			return nil, err
		}
		pad, err := f.Synthetic(ctx, from, slots[0].StartTime, 0)
		if err != nil {
			return nil, err
		}
		filled = append(filled, pad)
	}

	// Walk pairwise, bridging every gap between the last inserted slot
	// and the next real one.
	for _, ts := range slots {
		if len(filled) > 0 {
			if prev := filled[len(filled)-1]; prev.End().Before(ts.StartTime) {
				pad, err := f.Synthetic(ctx, prev.End(), ts.StartTime, 0)
				if err != nil {
					return nil, err
				}
				filled = append(filled, pad)
			}
		}
		filled = append(filled, ts)
	}

	// Finally fill the end.
	if last := filled[len(filled)-1]; last.End().Before(end) {
		to, err := f.startAfter(ctx, end)
		if err != nil {
			return nil, err
		}
		pad, err := f.Synthetic(ctx, last.End(), to, 0)
		if err != nil {
			return nil, err
		}
		filled = append(filled, pad)
	}

	return filled, nil
}

// Synthetic creates a filler timeslot bound to the canonical filler show.
// Exactly one of end and duration must be given; the unused one is the
// zero value.
func (f *Filler) Synthetic(ctx context.Context, start, end time.Time, duration time.Duration) (*models.Timeslot, error) {
	switch {
	case end.IsZero() && duration == 0:
		return nil, ErrEndAndDuration
	case !end.IsZero() && duration != 0:
		return nil, ErrEndAndDuration
	case duration == 0:
		duration = end.Sub(start)
	}

	season, err := f.season(ctx, start)
	if err != nil {
		return nil, err
	}

	slot := models.NewTimeslot(season.ID, start, duration)
	slot.Season = season
	slot.Synthetic = true
	return slot, nil
}

// season builds the in-memory pseudo-season a filler slot hangs off:
// bound to the filler show and to the term containing the gap start, or
// failing that the latest term before it. A term that only slightly makes
// sense beats no term at all; no term at all is a schedule inconsistency.
func (f *Filler) season(ctx context.Context, gapStart time.Time) (*models.Season, error) {
	show, err := f.fillerShow(ctx)
	if err != nil {
		return nil, err
	}

	term, err := f.terms.TermContaining(ctx, gapStart)
	if err != nil {
		return nil, err
	}
	if term == nil {
		if term, err = f.terms.TermBefore(ctx, gapStart); err != nil {
			return nil, err
		}
	}
	if term == nil {
		return nil, fmt.Errorf(
			"%w: filling a gap starting at %s, but no term exists on or before it; "+
				"the term table may be underpopulated or a slot is somewhere it shouldn't be",
			ErrInconsistency, gapStart.UTC().Format(time.RFC3339))
	}

	season := models.NewSeason(show.ID, term.ID, term.StartDate)
	season.Show = show
	season.Term = term
	return season, nil
}

// fillerShow resolves the canonical filler show through a read-through
// cache with a generous TTL.
func (f *Filler) fillerShow(ctx context.Context) (*models.Show, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.show != nil && time.Since(f.fetched) < f.cacheTTL {
		return f.show, nil
	}

	show, err := f.shows.FillerShow(ctx)
	if err != nil {
		return nil, err
	}
	f.show = show
	f.fetched = time.Now()
	return show, nil
}

// endBefore finds the end of the last real timeslot finishing at or
// before the given moment, or the moment itself if there is none.
func (f *Filler) endBefore(ctx context.Context, at time.Time) (time.Time, error) {
	end, ok, err := f.slots.EndOfLastBefore(ctx, at)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return at, nil
	}
	return end, nil
}

// startAfter finds the start of the first real timeslot beginning at or
// after the given moment, or the moment itself if there is none.
func (f *Filler) startAfter(ctx context.Context, at time.Time) (time.Time, error) {
	start, ok, err := f.slots.StartOfNextAfter(ctx, at)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return at, nil
	}
	return start, nil
}
