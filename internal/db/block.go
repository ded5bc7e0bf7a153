package db

import (
	"context"
	"fmt"

	"github.com/mwhitehouse/airwave/internal/models"
)

// BlockRepository handles database operations for programming blocks and
// their matching rules. It implements schedule.BlockStore; the rule
// tables are small and fetched whole.
type BlockRepository struct {
	db *DB
}

// NewBlockRepository creates a new block repository
func NewBlockRepository(db *DB) *BlockRepository {
	return &BlockRepository{db: db}
}

// Create inserts a new block into the database
func (r *BlockRepository) Create(ctx context.Context, block *models.Block) error {
	result := r.db.WithContext(ctx).Create(block)
	if result.Error != nil {
		return fmt.Errorf("failed to create block: %w", MapGormError(result.Error))
	}
	return nil
}

// CreateShowRule inserts a new show rule into the database
func (r *BlockRepository) CreateShowRule(ctx context.Context, rule *models.BlockShowRule) error {
	result := r.db.WithContext(ctx).Create(rule)
	if result.Error != nil {
		return fmt.Errorf("failed to create block show rule: %w", MapGormError(result.Error))
	}
	return nil
}

// CreateRangeRule inserts a new range rule into the database
func (r *BlockRepository) CreateRangeRule(ctx context.Context, rule *models.BlockRangeRule) error {
	result := r.db.WithContext(ctx).Create(rule)
	if result.Error != nil {
		return fmt.Errorf("failed to create block range rule: %w", MapGormError(result.Error))
	}
	return nil
}

// Blocks retrieves all blocks ordered by priority
func (r *BlockRepository) Blocks(ctx context.Context) ([]*models.Block, error) {
	var blocks []*models.Block
	result := r.db.WithContext(ctx).Order("priority ASC").Find(&blocks)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", MapGormError(result.Error))
	}
	return blocks, nil
}

// ShowRules retrieves all show-to-block rules
func (r *BlockRepository) ShowRules(ctx context.Context) ([]*models.BlockShowRule, error) {
	var rules []*models.BlockShowRule
	result := r.db.WithContext(ctx).Find(&rules)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list block show rules: %w", MapGormError(result.Error))
	}
	return rules, nil
}

// RangeRules retrieves all range rules ordered by window start
func (r *BlockRepository) RangeRules(ctx context.Context) ([]*models.BlockRangeRule, error) {
	var rules []*models.BlockRangeRule
	result := r.db.WithContext(ctx).Order("start_offset ASC").Find(&rules)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list block range rules: %w", MapGormError(result.Error))
	}
	return rules, nil
}
