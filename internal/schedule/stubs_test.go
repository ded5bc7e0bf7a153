package schedule

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mwhitehouse/airwave/internal/models"
	"github.com/stretchr/testify/require"
)

// In-memory store stubs. They mirror the repository query semantics
// closely enough for pipeline tests without a database.

type stubTermStore struct {
	terms []*models.Term
}

func (s *stubTermStore) TermContaining(_ context.Context, at time.Time) (*models.Term, error) {
	var found *models.Term
	for _, term := range s.terms {
		if term.Contains(at) && (found == nil || term.StartDate.After(found.StartDate)) {
			found = term
		}
	}
	return found, nil
}

func (s *stubTermStore) TermBefore(_ context.Context, at time.Time) (*models.Term, error) {
	var found *models.Term
	for _, term := range s.terms {
		if !term.EndDate.After(at) && (found == nil || term.EndDate.After(found.EndDate)) {
			found = term
		}
	}
	return found, nil
}

type stubTimeslotStore struct {
	slots []*models.Timeslot
}

func (s *stubTimeslotStore) sorted() []*models.Timeslot {
	out := make([]*models.Timeslot, len(s.slots))
	copy(out, s.slots)
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (s *stubTimeslotStore) InRange(_ context.Context, start, end time.Time, opts QueryOptions) ([]*models.Timeslot, error) {
	var out []*models.Timeslot
	for _, slot := range s.sorted() {
		if !slot.StartTime.Before(end) || !slot.End().After(start) {
			continue
		}
		if opts.ExcludeBeforeStart && slot.StartTime.Before(start) {
			continue
		}
		if opts.ExcludeAfterEnd && slot.End().After(end) {
			continue
		}
		if opts.ExcludeSubsuming && !slot.StartTime.After(start) && !slot.End().Before(end) {
			continue
		}
		if opts.PublicOnly && !slot.Show().IsPublic() {
			continue
		}
		out = append(out, slot)
	}
	return out, nil
}

func (s *stubTimeslotStore) EndOfLastBefore(_ context.Context, at time.Time) (time.Time, bool, error) {
	var best time.Time
	found := false
	for _, slot := range s.slots {
		if end := slot.End(); !end.After(at) && (!found || end.After(best)) {
			best, found = end, true
		}
	}
	return best, found, nil
}

func (s *stubTimeslotStore) StartOfNextAfter(_ context.Context, at time.Time) (time.Time, bool, error) {
	var best time.Time
	found := false
	for _, slot := range s.slots {
		if start := slot.StartTime; !start.Before(at) && (!found || start.Before(best)) {
			best, found = start, true
		}
	}
	return best, found, nil
}

func (s *stubTimeslotStore) UpNext(_ context.Context, at time.Time, publicOnly bool, limit int) ([]*models.Timeslot, error) {
	var out []*models.Timeslot
	for _, slot := range s.sorted() {
		if !slot.End().After(at) {
			continue
		}
		if publicOnly && !slot.Show().IsPublic() {
			continue
		}
		out = append(out, slot)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type stubShowStore struct {
	show  *models.Show
	err   error
	calls int
}

func (s *stubShowStore) FillerShow(_ context.Context) (*models.Show, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.show, nil
}

type stubBlockStore struct {
	blocks     []*models.Block
	showRules  []*models.BlockShowRule
	rangeRules []*models.BlockRangeRule
}

func (s *stubBlockStore) Blocks(_ context.Context) ([]*models.Block, error) {
	return s.blocks, nil
}

func (s *stubBlockStore) ShowRules(_ context.Context) ([]*models.BlockShowRule, error) {
	return s.showRules, nil
}

func (s *stubBlockStore) RangeRules(_ context.Context) ([]*models.BlockRangeRule, error) {
	return s.rangeRules, nil
}

// fixture wires the stub stores into a station resembling a small
// university broadcaster: one public show type, one collapsible filler
// type carrying a single filler show, and the autumn and spring terms of
// 2011/12 with the winter holiday between them.
type fixture struct {
	loc *time.Location

	terms  *stubTermStore
	slots  *stubTimeslotStore
	shows  *stubShowStore
	blocks *stubBlockStore

	regularType *models.ShowType
	fillerType  *models.ShowType
	fillerShow  *models.Show

	autumn *models.Term
	spring *models.Term
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	regularType := &models.ShowType{
		ID:         newID(),
		Name:       "show",
		Public:     true,
		HasListing: true,
	}
	fillerType := &models.ShowType{
		ID:          newID(),
		Name:        models.FillerShowTypeName,
		Public:      true,
		Collapsible: true,
	}
	fillerShow := models.NewShow("URY Jukebox", fillerType.ID)
	fillerShow.ShowType = fillerType

	autumn := models.NewTerm("Autumn",
		time.Date(2011, 10, 10, 7, 0, 0, 0, time.UTC),
		time.Date(2011, 12, 17, 7, 0, 0, 0, time.UTC))
	spring := models.NewTerm("Spring",
		time.Date(2012, 1, 9, 7, 0, 0, 0, time.UTC),
		time.Date(2012, 3, 17, 7, 0, 0, 0, time.UTC))

	return &fixture{
		loc:         loc,
		terms:       &stubTermStore{terms: []*models.Term{autumn, spring}},
		slots:       &stubTimeslotStore{},
		shows:       &stubShowStore{show: fillerShow},
		blocks:      &stubBlockStore{},
		regularType: regularType,
		fillerType:  fillerType,
		fillerShow:  fillerShow,
		autumn:      autumn,
		spring:      spring,
	}
}

func (f *fixture) service() *Service {
	return NewService(f.terms, f.slots, f.shows, f.blocks, f.loc, "regular")
}

func (f *fixture) filler() *Filler {
	return NewFiller(f.terms, f.slots, f.shows)
}

// addShow creates a show of the regular public type
func (f *fixture) addShow(title string) *models.Show {
	show := models.NewShow(title, f.regularType.ID)
	show.ShowType = f.regularType
	return show
}

// addPrivateShow creates a show whose type keeps it off the public
// schedule
func (f *fixture) addPrivateShow(title string) *models.Show {
	private := &models.ShowType{ID: newID(), Name: "demo", Public: false}
	show := models.NewShow(title, private.ID)
	show.ShowType = private
	return show
}

// addSlot persists a timeslot for the show in the stub store, bound to a
// season in the term containing its start.
func (f *fixture) addSlot(t *testing.T, show *models.Show, start time.Time, duration time.Duration) *models.Timeslot {
	t.Helper()

	term, err := f.terms.TermContaining(context.Background(), start)
	require.NoError(t, err)
	require.NotNil(t, term, "fixture slot at %s falls outside every term", start)

	season := models.NewSeason(show.ID, term.ID, term.StartDate)
	season.Show = show
	season.Term = term

	slot := models.NewTimeslot(season.ID, start, duration)
	slot.Season = season
	f.slots.slots = append(f.slots.slots, slot)
	return slot
}

func newID() uuid.UUID {
	return uuid.New()
}
