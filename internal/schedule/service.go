package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/mwhitehouse/airwave/internal/localtime"
	"github.com/mwhitehouse/airwave/internal/logger"
	"github.com/mwhitehouse/airwave/internal/models"
)

// Day is the span of one broadcast day, in local time.
const Day = 24 * time.Hour

// DaysPerWeek is the number of day columns in a week schedule.
const DaysPerWeek = 7

// DefaultQueryOptions are the options schedule views use: public slots
// only, gaps padded with filler, boundary-straddling slots included.
var DefaultQueryOptions = QueryOptions{
	PublicOnly: true,
	WithFiller: true,
}

// Service answers "what is scheduled between A and B" by composing the
// term resolver, the timeslot store, the filler engine and the block
// classifier.
type Service struct {
	slots  TimeslotStore
	blocks BlockStore

	resolver *Resolver
	filler   *Filler

	loc             *time.Location
	defaultBlockTag string
}

// NewService creates a schedule service over the given stores.
// loc is the station timezone; defaultBlockTag names the fallback
// programming block.
func NewService(terms TermStore, slots TimeslotStore, shows ShowStore, blocks BlockStore, loc *time.Location, defaultBlockTag string) *Service {
	return &Service{
		slots:           slots,
		blocks:          blocks,
		resolver:        NewResolver(terms),
		filler:          NewFiller(terms, slots, shows),
		loc:             loc,
		defaultBlockTag: defaultBlockTag,
	}
}

// Resolver exposes the service's term resolver
func (s *Service) Resolver() *Resolver {
	return s.resolver
}

// Filler exposes the service's filler engine
func (s *Service) Filler() *Filler {
	return s.filler
}

// Between returns the timeslots intersecting [start, end), ordered by
// start time and filtered per the options, padded with filler when
// requested.
func (s *Service) Between(ctx context.Context, start, end time.Time, opts QueryOptions) ([]*models.Timeslot, error) {
	if start.After(end) {
		return nil, ErrInvertedRange
	}

	slots, err := s.slots.InRange(ctx, start, end, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeslots: %w", err)
	}

	if opts.WithFiller {
		if slots, err = s.filler.Fill(ctx, slots, start, end); err != nil {
			return nil, err
		}
	}
	return slots, nil
}

// Within returns the schedule for the period starting at date and
// covering offset of local time.
func (s *Service) Within(ctx context.Context, date time.Time, offset time.Duration, opts QueryOptions) ([]*models.Timeslot, error) {
	return s.Between(ctx, date, localtime.DSTAdd(date, offset, s.loc), opts)
}

// DaySlots returns one whole broadcast day of scheduled slots
func (s *Service) DaySlots(ctx context.Context, date time.Time, opts QueryOptions) ([]*models.Timeslot, error) {
	return s.Within(ctx, date, Day, opts)
}

// WeekSlots returns one 7-day range of scheduled slots as a single
// contiguous list
func (s *Service) WeekSlots(ctx context.Context, date time.Time, opts QueryOptions) ([]*models.Timeslot, error) {
	return s.Within(ctx, date, DaysPerWeek*Day, opts)
}

// WeekDays returns seven independent day results. With dstCompensate set,
// each day boundary advances by a local-time day, so the local start time
// (say 07:00) is preserved across a DST shift mid-week; otherwise each
// boundary is a flat 24 absolute hours on.
func (s *Service) WeekDays(ctx context.Context, date time.Time, dstCompensate bool, opts QueryOptions) ([][]*models.Timeslot, error) {
	days := make([][]*models.Timeslot, 0, DaysPerWeek)

	dayStart := date
	for i := 0; i < DaysPerWeek; i++ {
		dayEnd := dayStart.Add(Day)
		if dstCompensate {
			dayEnd = localtime.DSTAdd(dayStart, Day, s.loc)
		}
		day, err := s.Between(ctx, dayStart, dayEnd, opts)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
		dayStart = dayEnd
	}
	return days, nil
}

// UpNext returns the next quantity timeslots on air at or after the given
// moment. Filler slots count towards the quantity when requested. Fewer
// slots may be returned if the schedule runs out.
func (s *Service) UpNext(ctx context.Context, at time.Time, quantity int, withFiller, includePrivate bool) ([]*models.Timeslot, error) {
	if quantity <= 0 {
		return nil, ErrBadQuantity
	}

	slots, err := s.slots.UpNext(ctx, at, !includePrivate, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming timeslots: %w", err)
	}
	if !withFiller {
		return slots, nil
	}

	end := at
	if len(slots) > 0 {
		end = slots[len(slots)-1].End()
	}
	filled, err := s.filler.Fill(ctx, slots, at, end)
	if err != nil {
		return nil, err
	}
	// Filling may have grown the list past the requested quantity.
	if len(filled) > quantity {
		filled = filled[:quantity]
	}
	return filled, nil
}

// Annotate classifies a slot list into programming blocks, fetching the
// rule tables once for the whole pass.
func (s *Service) Annotate(ctx context.Context, slots []*models.Timeslot) ([]*models.Timeslot, error) {
	classifier, err := LoadClassifier(ctx, s.blocks, s.defaultBlockTag, s.loc)
	if err != nil {
		return nil, fmt.Errorf("failed to load block rules: %w", err)
	}
	return classifier.Annotate(slots), nil
}

// RangeBuilder returns the standard schedule builder: resolve the term
// for the period start, query and fill the range, and annotate the result
// with blocks. A holiday or an empty term builds StatusEmpty; absent term
// data builds StatusNoTerm.
func (s *Service) RangeBuilder(opts QueryOptions) Builder {
	return func(ctx context.Context, sched *Schedule) (*BuildResult, error) {
		term, status, err := s.resolver.Resolve(ctx, sched.Start)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve term: %w", err)
		}

		switch status {
		case TermHoliday:
			logger.Log.Debug().
				Time("start", sched.Start).
				Str("prior_term", term.Name).
				Msg("Schedule period falls in a holiday")
			return &BuildResult{Status: StatusEmpty, Term: term}, nil
		case TermNoData:
			logger.Log.Warn().
				Time("start", sched.Start).
				Msg("Schedule period precedes all known terms")
			return &BuildResult{Status: StatusNoTerm}, nil
		}

		slots, err := s.slots.InRange(ctx, sched.Start, sched.End(), opts)
		if err != nil {
			return nil, fmt.Errorf("failed to query timeslots: %w", err)
		}
		if len(slots) == 0 {
			return &BuildResult{Status: StatusEmpty, Term: term}, nil
		}

		if opts.WithFiller {
			if slots, err = s.filler.Fill(ctx, slots, sched.Start, sched.End()); err != nil {
				return nil, err
			}
		}
		if slots, err = s.Annotate(ctx, slots); err != nil {
			return nil, err
		}
		return &BuildResult{Status: StatusOK, Term: term, Slots: slots}, nil
	}
}

// DaySchedule returns a lazy handle on the broadcast day starting at the
// given moment
func (s *Service) DaySchedule(start time.Time) *Schedule {
	return New(start, Day, s.loc, s.RangeBuilder(DefaultQueryOptions))
}

// WeekSchedule returns a lazy handle on the week starting at the given
// moment
func (s *Service) WeekSchedule(start time.Time) *Schedule {
	return New(start, DaysPerWeek*Day, s.loc, s.RangeBuilder(DefaultQueryOptions))
}
