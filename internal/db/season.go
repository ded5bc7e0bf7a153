package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mwhitehouse/airwave/internal/models"
	"gorm.io/gorm"
)

// SeasonRepository handles database operations for seasons
type SeasonRepository struct {
	db *DB
}

// NewSeasonRepository creates a new season repository
func NewSeasonRepository(db *DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

// Create inserts a new season into the database
func (r *SeasonRepository) Create(ctx context.Context, season *models.Season) error {
	result := r.db.WithContext(ctx).Create(season)
	if result.Error != nil {
		return fmt.Errorf("failed to create season: %w", MapGormError(result.Error))
	}
	return nil
}

// CreateWithTimeslots inserts a season and its timeslots atomically, so a
// half-scheduled season never becomes visible.
func (r *SeasonRepository) CreateWithTimeslots(ctx context.Context, season *models.Season, slots []*models.Timeslot) error {
	return r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(season).Error; err != nil {
			return fmt.Errorf("failed to create season: %w", MapGormError(err))
		}
		for _, slot := range slots {
			slot.SeasonID = season.ID
			if err := tx.Create(slot).Error; err != nil {
				return fmt.Errorf("failed to create timeslot: %w", MapGormError(err))
			}
		}
		return nil
	})
}

// GetByID retrieves a season by its UUID with show and term resolved
func (r *SeasonRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Season, error) {
	var season models.Season
	result := r.db.WithContext(ctx).
		Where("id = ?", id.String()).
		Preload("Show.ShowType").
		Preload("Term").
		First(&season)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &season, nil
}

// ListByShow retrieves a show's seasons ordered by submission date
func (r *SeasonRepository) ListByShow(ctx context.Context, showID uuid.UUID) ([]*models.Season, error) {
	var seasons []*models.Season
	result := r.db.WithContext(ctx).
		Where("show_id = ?", showID.String()).
		Preload("Term").
		Order("date_submitted ASC").
		Find(&seasons)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list seasons by show: %w", MapGormError(result.Error))
	}
	return seasons, nil
}

// Number returns the relative number of a season: its 1-based rank among
// its show's seasons ordered by submission date. The first season of a
// show is season 1.
func (r *SeasonRepository) Number(ctx context.Context, season *models.Season) (int, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&models.Season{}).
		Where("show_id = ?", season.ShowID.String()).
		Where("date_submitted < ? OR (date_submitted = ? AND id <= ?)",
			season.DateSubmitted, season.DateSubmitted, season.ID.String()).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to number season: %w", MapGormError(result.Error))
	}
	if count == 0 {
		return 0, ErrNotFound
	}
	return int(count), nil
}
