package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mwhitehouse/airwave/internal/models"
)

// ShowRepository handles database operations for shows and show types
type ShowRepository struct {
	db         *DB
	fillerType string
}

// NewShowRepository creates a new show repository
func NewShowRepository(db *DB) *ShowRepository {
	return &ShowRepository{db: db, fillerType: models.FillerShowTypeName}
}

// SetFillerTypeName overrides the show type name that identifies the
// canonical filler show
func (r *ShowRepository) SetFillerTypeName(name string) {
	r.fillerType = name
}

// Create inserts a new show into the database
func (r *ShowRepository) Create(ctx context.Context, show *models.Show) error {
	result := r.db.WithContext(ctx).Create(show)
	if result.Error != nil {
		return fmt.Errorf("failed to create show: %w", MapGormError(result.Error))
	}
	return nil
}

// CreateType inserts a new show type into the database
func (r *ShowRepository) CreateType(ctx context.Context, showType *models.ShowType) error {
	result := r.db.WithContext(ctx).Create(showType)
	if result.Error != nil {
		return fmt.Errorf("failed to create show type: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a show by its UUID with its type resolved
func (r *ShowRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Show, error) {
	var show models.Show
	result := r.db.WithContext(ctx).
		Where("id = ?", id.String()).
		Preload("ShowType").
		First(&show)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &show, nil
}

// List retrieves all shows ordered by title, types resolved
func (r *ShowRepository) List(ctx context.Context) ([]*models.Show, error) {
	var shows []*models.Show
	result := r.db.WithContext(ctx).
		Preload("ShowType").
		Order("title ASC").
		Find(&shows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list shows: %w", MapGormError(result.Error))
	}
	return shows, nil
}

// FillerShow retrieves the canonical filler show: the unique show whose
// type carries the filler type name (case-insensitive), with the type
// resolved.
func (r *ShowRepository) FillerShow(ctx context.Context) (*models.Show, error) {
	var show models.Show
	result := r.db.WithContext(ctx).
		Joins("JOIN show_types ON show_types.id = shows.show_type_id").
		Where("LOWER(show_types.name) = LOWER(?)", r.fillerType).
		Preload("ShowType").
		First(&show)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find filler show: %w", MapGormError(result.Error))
	}
	return &show, nil
}
