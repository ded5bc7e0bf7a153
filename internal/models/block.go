package models

import (
	"time"

	"github.com/google/uuid"
)

// Block is a programming block: a display grouping of related shows, such
// as a specialist music or flagship strand. Schedule views colour and list
// slots by block.
type Block struct {
	ID   uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name string    `json:"name" gorm:"type:text;not null;column:name" validate:"required,min=1,max=255"`

	// Tag is the machine-readable identifier, used for example as the
	// prefix of the CSS classes that colour the block.
	Tag string `json:"tag" gorm:"type:text;not null;uniqueIndex;column:tag" validate:"required,min=1,max=100"`

	// Priority decides which block wins when several rules match a slot.
	// A lower number is a higher priority.
	Priority int `json:"priority" gorm:"type:integer;not null;column:priority"`

	// Listable blocks appear in block indexes, letting people browse
	// the shows within them.
	Listable bool `json:"listable" gorm:"type:integer;not null;default:0;column:listable"`
}

// NewBlock creates a new Block with a generated UUID
func NewBlock(name, tag string, priority int) *Block {
	return &Block{
		ID:       uuid.New(),
		Name:     name,
		Tag:      tag,
		Priority: priority,
	}
}

// BlockShowRule pins a show permanently to a block. Show rules take
// precedence over every other kind of block matching.
type BlockShowRule struct {
	ID      uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	BlockID uuid.UUID `json:"block_id" gorm:"type:text;not null;column:block_id" validate:"required"`
	ShowID  uuid.UUID `json:"show_id" gorm:"type:text;not null;column:show_id" validate:"required"`
}

// BlockRangeRule associates timeslots starting inside a recurring daily
// local-time window with a block. The window may wrap past midnight
// (EndOffset beyond 24h). This is the lowest-priority rule type.
type BlockRangeRule struct {
	ID          uuid.UUID     `json:"id" gorm:"type:text;primaryKey;column:id"`
	BlockID     uuid.UUID     `json:"block_id" gorm:"type:text;not null;column:block_id" validate:"required"`
	StartOffset time.Duration `json:"start_offset" gorm:"type:integer;not null;column:start_offset"`
	EndOffset   time.Duration `json:"end_offset" gorm:"type:integer;not null;column:end_offset"`
}
