package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mwhitehouse/airwave/internal/localtime"
	"github.com/mwhitehouse/airwave/internal/models"
)

// Cell is one populated cell of the week table: a timeslot and the number
// of rows it spans downwards from the row it sits in.
type Cell struct {
	Slot    *models.Timeslot `json:"slot"`
	RowSpan int              `json:"row_span"`
}

// Row is one time partition of the week table. Start is the naive local
// time of the row on the week's first day; add whole days for the other
// columns. A nil cell means the column's slot for that time lives in an
// earlier row and spans through this one.
type Row struct {
	Start  time.Time          `json:"start"`
	Offset time.Duration      `json:"offset"`
	Cells  [DaysPerWeek]*Cell `json:"cells"`
}

// WeekTable is a week of programming in tabular form: rows are time
// partitions, columns are days, ready for rendering.
type WeekTable struct {
	Rows []*Row `json:"rows"`
}

// Tabulate compiles a week schedule handle into a table. A non-OK build
// result is passed through untabulated for the caller to render as a
// sentinel.
func Tabulate(ctx context.Context, sched *Schedule) (*WeekTable, *BuildResult, error) {
	data, err := sched.Data(ctx)
	if err != nil {
		return nil, nil, err
	}
	if data.Status != StatusOK {
		return nil, data, nil
	}
	table, err := TabulateSlots(sched.Start, data.Slots, sched.Location())
	if err != nil {
		return nil, nil, err
	}
	return table, data, nil
}

// TabulateSlots converts a filled, ordered, week-spanning slot sequence
// into a table. The sequence must cover exactly seven days from start;
// gaps surface as schedule inconsistencies.
//
// Row partitioning is computed once from every day's boundary-worthy
// events rather than per day, so shows airing at the same clock time on
// different days line up in the same visual row. Collapsible slots force
// no boundaries, so sparse weeks fold up instead of spending a row on
// every empty hour.
func TabulateSlots(start time.Time, slots []*models.Timeslot, loc *time.Location) (*WeekTable, error) {
	nlstart := localtime.Naive(start, loc)

	days, partitions, err := splitDays(nlstart, slots, DaysPerWeek, loc)
	if err != nil {
		return nil, err
	}
	if len(days) != DaysPerWeek {
		return nil, fmt.Errorf("%w: got %d days", ErrNotWeekSized, len(days))
	}

	table := emptyTable(nlstart, partitions)
	if err := populate(table, days, loc); err != nil {
		return nil, err
	}
	return table, nil
}

// splitDays walks the combined slot sequence into per-day buckets of 24
// naive-local hours each, collecting row boundary offsets along the way.
//
// A slot straddling a day boundary closes one bucket and opens the next
// as the same slot value: it is the same logical slot appearing in two
// buckets by identity, not a duplicate. This sharing is what lets the
// populate step merge the slot's rows across the boundary.
func splitDays(nlstart time.Time, slots []*models.Timeslot, nDays int, loc *time.Location) ([][]*models.Timeslot, map[time.Duration]struct{}, error) {
	if len(slots) == 0 {
		return nil, nil, fmt.Errorf("%w: tabulating an empty slot list, is filler working?", ErrInconsistency)
	}

	partitions := map[time.Duration]struct{}{0: {}}
	var done [][]*models.Timeslot
	var day []*models.Timeslot

	dayStart := nlstart
	dayEnd := dayStart.Add(Day)

	for _, slot := range slots {
		nlslot := localtime.Naive(slot.StartTime, loc)

		// Rotate until the slot's day is the one being accumulated. A
		// slot can straddle several days, hence the loop.
		for !nlslot.Before(dayEnd) {
			next, err := rotateDay(dayEnd, day, loc)
			if err != nil {
				return nil, nil, err
			}
			done = append(done, day)
			day = next
			dayStart = dayEnd
			dayEnd = dayStart.Add(Day)
		}

		day = append(day, slot)
		if !slot.Collapsible() {
			addBoundaries(partitions, nlslot.Sub(dayStart), localtime.Naive(slot.End(), loc).Sub(dayStart))
		}
	}

	// Push the final day, then keep rotating while its last slot runs
	// on: a long closing slot can span days in which nothing else
	// starts, and those days still need their buckets.
	done = append(done, day)
	for len(done) < nDays {
		last := day[len(day)-1]
		if !localtime.Naive(last.End(), loc).After(dayEnd) {
			break
		}
		day = []*models.Timeslot{last}
		done = append(done, day)
		dayStart = dayEnd
		dayEnd = dayStart.Add(Day)
	}

	return done, partitions, nil
}

// rotateDay closes the day ending at dayEnd and seeds the next one. The
// closing day's last slot carries over into the new bucket if it runs
// past the boundary.
func rotateDay(dayEnd time.Time, day []*models.Timeslot, loc *time.Location) ([]*models.Timeslot, error) {
	// Every day must hold at least one slot (if only the filler show);
	// an empty bucket means the input was not contiguous.
	if len(day) == 0 {
		return nil, fmt.Errorf(
			"%w: empty day bucket closed at %s, is filler working?",
			ErrInconsistency, dayEnd.Format(time.RFC3339))
	}

	last := day[len(day)-1]
	if localtime.Naive(last.End(), loc).After(dayEnd) {
		return []*models.Timeslot{last}, nil
	}
	return nil, nil
}

// addBoundaries records the row boundaries a non-collapsible slot forces:
// its start, its end, and every exact local hour strictly inside it.
// Offsets are reduced into the 24h day so boundaries land in the shared
// partition set whichever day the event falls on.
func addBoundaries(partitions map[time.Duration]struct{}, startOff, endOff time.Duration) {
	add := func(d time.Duration) {
		partitions[((d%Day)+Day)%Day] = struct{}{}
	}

	add(startOff)
	add(endOff)
	for h := startOff.Truncate(time.Hour) + time.Hour; h < endOff; h += time.Hour {
		add(h)
	}
}

// emptyTable builds the sorted, unpopulated row list from the partition
// set.
func emptyTable(nlstart time.Time, partitions map[time.Duration]struct{}) *WeekTable {
	offsets := make([]time.Duration, 0, len(partitions))
	for off := range partitions {
		offsets = append(offsets, off)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	rows := make([]*Row, len(offsets))
	for i, off := range offsets {
		rows[i] = &Row{Start: nlstart.Add(off), Offset: off}
	}
	return &WeekTable{Rows: rows}
}

// populate walks each day's slots against the row boundaries. A slot
// occupies one cell in the row where it starts, spanning every row its
// local end reaches past. An end that lands between boundaries is a
// partitioning soundness violation, except past the final boundary, which
// is how a slot crossing the day boundary normally looks. A zero-span
// slot was absorbed by the previous day's cell and is not written.
func populate(table *WeekTable, days [][]*models.Timeslot, loc *time.Location) error {
	rowTime := func(row, dayIdx int) time.Time {
		return table.Rows[row].Start.Add(time.Duration(dayIdx) * Day)
	}

	for dayIdx, day := range days {
		cur := 0
		for _, slot := range day {
			nlend := localtime.Naive(slot.End(), loc)

			span := 0
			for cur+span < len(table.Rows) && rowTime(cur+span, dayIdx).Before(nlend) {
				span++
			}
			if cur+span < len(table.Rows) && !rowTime(cur+span, dayIdx).Equal(nlend) {
				return fmt.Errorf(
					"%w: partitioning unsound - slot %s ending %s misses every row boundary",
					ErrInconsistency, slot.ID, nlend.Format(time.RFC3339))
			}

			if span > 0 {
				table.Rows[cur].Cells[dayIdx] = &Cell{Slot: slot, RowSpan: span}
			}
			cur += span
		}
	}
	return nil
}
