package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/mwhitehouse/airwave/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertContiguous checks that the slot sequence has no gaps or overlaps
// between consecutive slots and covers [start, end].
func assertContiguous(t *testing.T, slots []*models.Timeslot, start, end time.Time) {
	t.Helper()

	require.NotEmpty(t, slots)
	assert.False(t, slots[0].StartTime.After(start), "sequence starts %s, after the range start %s", slots[0].StartTime, start)
	assert.False(t, slots[len(slots)-1].End().Before(end), "sequence ends %s, before the range end %s", slots[len(slots)-1].End(), end)

	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].End().Equal(slots[i].StartTime),
			"gap or overlap between slot %d ending %s and slot %d starting %s",
			i-1, slots[i-1].End(), i, slots[i].StartTime)
	}
}

func TestFill_BridgesGaps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	show := f.addShow("Morning Show")
	day := time.Date(2011, 11, 7, 7, 0, 0, 0, time.UTC)
	a := f.addSlot(t, show, day.Add(2*time.Hour), time.Hour)
	b := f.addSlot(t, show, day.Add(6*time.Hour), 2*time.Hour)

	filled, err := f.filler().Fill(ctx, []*models.Timeslot{a, b}, day, day.Add(Day))
	require.NoError(t, err)

	// pad, a, pad, b, pad
	require.Len(t, filled, 5)
	assertContiguous(t, filled, day, day.Add(Day))

	assert.Same(t, a, filled[1])
	assert.Same(t, b, filled[3])
	for _, i := range []int{0, 2, 4} {
		assert.True(t, filled[i].Synthetic, "slot %d should be synthetic", i)
		assert.Equal(t, f.fillerShow.ID, filled[i].Show().ID)
	}
}

func TestFill_AlreadyContiguous(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	show := f.addShow("Back To Back")
	day := time.Date(2011, 11, 7, 7, 0, 0, 0, time.UTC)
	a := f.addSlot(t, show, day, 12*time.Hour)
	b := f.addSlot(t, show, day.Add(12*time.Hour), 12*time.Hour)

	filled, err := f.filler().Fill(ctx, []*models.Timeslot{a, b}, day, day.Add(Day))
	require.NoError(t, err)

	// Nothing to pad; the input passes through untouched.
	require.Len(t, filled, 2)
	assert.Same(t, a, filled[0])
	assert.Same(t, b, filled[1])
}

func TestFill_EmptyRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start := time.Date(2011, 11, 7, 7, 0, 0, 0, time.UTC)
	end := start.Add(Day)

	filled, err := f.filler().Fill(ctx, nil, start, end)
	require.NoError(t, err)

	require.Len(t, filled, 1)
	assert.True(t, filled[0].Synthetic)
	assertContiguous(t, filled, start, end)
}

func TestFill_EmptyRangeSnapsToNeighbours(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	show := f.addShow("Evening Show")
	start := time.Date(2011, 11, 7, 7, 0, 0, 0, time.UTC)
	end := start.Add(Day)

	// Real programming just outside the range on both sides.
	before := f.addSlot(t, show, start.Add(-2*time.Hour), time.Hour)
	after := f.addSlot(t, show, end.Add(3*time.Hour), time.Hour)

	filled, err := f.filler().Fill(ctx, nil, start, end)
	require.NoError(t, err)

	// The single pad stretches from the end of the last slot before the
	// range to the start of the first after it.
	require.Len(t, filled, 1)
	assert.True(t, filled[0].StartTime.Equal(before.End()))
	assert.True(t, filled[0].End().Equal(after.StartTime))
}

func TestFill_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	show := f.addShow("Gappy Show")
	day := time.Date(2011, 11, 7, 7, 0, 0, 0, time.UTC)
	f.addSlot(t, show, day.Add(3*time.Hour), time.Hour)

	once, err := f.filler().Fill(ctx, f.slots.sorted(), day, day.Add(Day))
	require.NoError(t, err)
	twice, err := f.filler().Fill(ctx, once, day, day.Add(Day))
	require.NoError(t, err)

	require.Len(t, twice, len(once))
	for i := range once {
		assert.True(t, once[i].StartTime.Equal(twice[i].StartTime))
		assert.True(t, once[i].End().Equal(twice[i].End()))
	}
}

func TestFill_InvertedRange(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2011, 11, 7, 7, 0, 0, 0, time.UTC)
	_, err := f.filler().Fill(context.Background(), nil, start, start.Add(-time.Hour))

	assert.ErrorIs(t, err, ErrInvertedRange)
	assert.True(t, IsUsageError(err))
}

func TestFill_NoTermIsInconsistency(t *testing.T) {
	f := newFixture(t)
	f.terms.terms = nil

	start := time.Date(2011, 11, 7, 7, 0, 0, 0, time.UTC)
	_, err := f.filler().Fill(context.Background(), nil, start, start.Add(Day))

	assert.ErrorIs(t, err, ErrInconsistency)
	assert.True(t, IsInconsistency(err))
}

func TestFill_HolidayUsesPriorTerm(t *testing.T) {
	f := newFixture(t)

	// A gap in the winter holiday hangs off the autumn term.
	start := time.Date(2011, 12, 20, 7, 0, 0, 0, time.UTC)
	filled, err := f.filler().Fill(context.Background(), nil, start, start.Add(Day))
	require.NoError(t, err)

	require.Len(t, filled, 1)
	require.NotNil(t, filled[0].Season)
	assert.Equal(t, f.autumn.ID, filled[0].Season.TermID)
}

func TestSynthetic_EndAndDurationExclusive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := time.Date(2011, 11, 7, 7, 0, 0, 0, time.UTC)

	_, err := f.filler().Synthetic(ctx, start, start.Add(time.Hour), time.Hour)
	assert.ErrorIs(t, err, ErrEndAndDuration)

	_, err = f.filler().Synthetic(ctx, start, time.Time{}, 0)
	assert.ErrorIs(t, err, ErrEndAndDuration)

	slot, err := f.filler().Synthetic(ctx, start, time.Time{}, 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, slot.Duration)

	slot, err = f.filler().Synthetic(ctx, start, start.Add(3*time.Hour), 0)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Hour, slot.Duration)
}

func TestFillerShow_Cached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	filler := f.filler()

	start := time.Date(2011, 11, 7, 7, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := filler.Synthetic(ctx, start, time.Time{}, time.Hour)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, f.shows.calls, "filler show should be fetched once and cached")
}
