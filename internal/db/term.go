// Package db provides database connection management and repository
// interfaces.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mwhitehouse/airwave/internal/models"
	"gorm.io/gorm"
)

// TermRepository handles database operations for university terms
type TermRepository struct {
	db *DB
}

// NewTermRepository creates a new term repository
func NewTermRepository(db *DB) *TermRepository {
	return &TermRepository{db: db}
}

// Create inserts a new term into the database
func (r *TermRepository) Create(ctx context.Context, term *models.Term) error {
	result := r.db.WithContext(ctx).Create(term)
	if result.Error != nil {
		return fmt.Errorf("failed to create term: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a term by its UUID
func (r *TermRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Term, error) {
	var term models.Term
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&term)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &term, nil
}

// List retrieves all terms ordered by start date
func (r *TermRepository) List(ctx context.Context) ([]*models.Term, error) {
	var terms []*models.Term
	result := r.db.WithContext(ctx).Order("start_date ASC").Find(&terms)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list terms: %w", MapGormError(result.Error))
	}
	return terms, nil
}

// TermContaining returns the term whose [start_date, end_date) range
// contains the given moment, or nil if no term does.
func (r *TermRepository) TermContaining(ctx context.Context, at time.Time) (*models.Term, error) {
	var term models.Term
	result := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date > ?", at.UTC(), at.UTC()).
		Order("start_date DESC").
		First(&term)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find containing term: %w", MapGormError(result.Error))
	}
	return &term, nil
}

// TermBefore returns the latest term ending at or before the given
// moment, or nil if no term does. Useful for finding which holiday a
// moment falls in.
func (r *TermRepository) TermBefore(ctx context.Context, at time.Time) (*models.Term, error) {
	var term models.Term
	result := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date <= ?", at.UTC(), at.UTC()).
		Order("start_date DESC").
		First(&term)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find preceding term: %w", MapGormError(result.Error))
	}
	return &term, nil
}
