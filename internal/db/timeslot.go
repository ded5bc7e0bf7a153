package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mwhitehouse/airwave/internal/models"
	"github.com/mwhitehouse/airwave/internal/schedule"
	"gorm.io/gorm"
)

// TimeslotRepository handles database operations for timeslots. It
// implements schedule.TimeslotStore.
type TimeslotRepository struct {
	db *DB
}

// NewTimeslotRepository creates a new timeslot repository
func NewTimeslotRepository(db *DB) *TimeslotRepository {
	return &TimeslotRepository{db: db}
}

// Create inserts a new timeslot into the database
func (r *TimeslotRepository) Create(ctx context.Context, slot *models.Timeslot) error {
	result := r.db.WithContext(ctx).Create(slot)
	if result.Error != nil {
		return fmt.Errorf("failed to create timeslot: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a timeslot by its UUID with season, show and term
// resolved
func (r *TimeslotRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Timeslot, error) {
	var slot models.Timeslot
	result := r.resolved(ctx).Where("timeslots.id = ?", id.String()).First(&slot)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &slot, nil
}

// ListBySeason retrieves a season's timeslots ordered by start time
func (r *TimeslotRepository) ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]*models.Timeslot, error) {
	var slots []*models.Timeslot
	result := r.resolved(ctx).
		Where("timeslots.season_id = ?", seasonID.String()).
		Order("timeslots.start_time ASC").
		Find(&slots)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list timeslots by season: %w", MapGormError(result.Error))
	}
	return slots, nil
}

// InRange returns the timeslots intersecting [start, end), ordered by
// start time and filtered per the options.
func (r *TimeslotRepository) InRange(ctx context.Context, start, end time.Time, opts schedule.QueryOptions) ([]*models.Timeslot, error) {
	query := r.resolved(ctx).
		Where("timeslots.start_time < ? AND timeslots.end_time > ?", end.UTC(), start.UTC())

	if opts.ExcludeBeforeStart {
		query = query.Where("timeslots.start_time >= ?", start.UTC())
	}
	if opts.ExcludeAfterEnd {
		query = query.Where("timeslots.end_time <= ?", end.UTC())
	}
	if opts.ExcludeSubsuming {
		query = query.Where("NOT (timeslots.start_time <= ? AND timeslots.end_time >= ?)", start.UTC(), end.UTC())
	}
	if opts.PublicOnly {
		query = r.publicOnly(query)
	}

	var slots []*models.Timeslot
	result := query.Order("timeslots.start_time ASC").Find(&slots)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query timeslots in range: %w", MapGormError(result.Error))
	}
	return slots, nil
}

// EndOfLastBefore returns the end of the last timeslot finishing at or
// before the given moment
func (r *TimeslotRepository) EndOfLastBefore(ctx context.Context, at time.Time) (time.Time, bool, error) {
	var slot models.Timeslot
	result := r.db.WithContext(ctx).
		Where("end_time <= ?", at.UTC()).
		Order("end_time DESC").
		First(&slot)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to find preceding timeslot: %w", MapGormError(result.Error))
	}
	return slot.End(), true, nil
}

// StartOfNextAfter returns the start of the first timeslot beginning at
// or after the given moment
func (r *TimeslotRepository) StartOfNextAfter(ctx context.Context, at time.Time) (time.Time, bool, error) {
	var slot models.Timeslot
	result := r.db.WithContext(ctx).
		Where("start_time >= ?", at.UTC()).
		Order("start_time ASC").
		First(&slot)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to find following timeslot: %w", MapGormError(result.Error))
	}
	return slot.StartTime, true, nil
}

// UpNext returns at most limit timeslots on air at or after the given
// moment, ordered by start time
func (r *TimeslotRepository) UpNext(ctx context.Context, at time.Time, publicOnly bool, limit int) ([]*models.Timeslot, error) {
	query := r.resolved(ctx).
		Where("timeslots.end_time > ?", at.UTC())
	if publicOnly {
		query = r.publicOnly(query)
	}

	var slots []*models.Timeslot
	result := query.Order("timeslots.start_time ASC").Limit(limit).Find(&slots)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query upcoming timeslots: %w", MapGormError(result.Error))
	}
	return slots, nil
}

// Number returns the relative number of a timeslot: its 1-based rank
// within its season ordered by start time.
func (r *TimeslotRepository) Number(ctx context.Context, slot *models.Timeslot) (int, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&models.Timeslot{}).
		Where("season_id = ?", slot.SeasonID.String()).
		Where("start_time < ? OR (start_time = ? AND id <= ?)",
			slot.StartTime, slot.StartTime, slot.ID.String()).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to number timeslot: %w", MapGormError(result.Error))
	}
	if count == 0 {
		return 0, ErrNotFound
	}
	return int(count), nil
}

// resolved starts a timeslot query with season, show, show type and term
// preloaded, which the schedule pipeline needs on every slot.
func (r *TimeslotRepository) resolved(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Timeslot{}).
		Preload("Season.Show.ShowType").
		Preload("Season.Term")
}

// publicOnly restricts a timeslot query to slots whose show type is
// public
func (r *TimeslotRepository) publicOnly(query *gorm.DB) *gorm.DB {
	return query.
		Joins("JOIN seasons ON seasons.id = timeslots.season_id").
		Joins("JOIN shows ON shows.id = seasons.show_id").
		Joins("JOIN show_types ON show_types.id = shows.show_type_id").
		Where("show_types.public = ?", true)
}
