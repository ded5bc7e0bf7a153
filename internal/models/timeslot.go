package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Timeslot is one concrete scheduled broadcast occurrence.
//
// Timeslots can overlap, because not every timeslot represents an on-air
// show: the scheduler also handles demos, in-studio recordings and outside
// broadcasts. A timeslot therefore cannot be uniquely identified by its
// show and time range; use the timeslot ID.
type Timeslot struct {
	ID        uuid.UUID     `json:"id" gorm:"type:text;primaryKey;column:id"`
	SeasonID  uuid.UUID     `json:"season_id" gorm:"type:text;not null;column:season_id" validate:"required"`
	StartTime time.Time     `json:"start_time" gorm:"type:datetime;not null;column:start_time;index" validate:"required"`
	Duration  time.Duration `json:"duration" gorm:"type:integer;not null;column:duration" validate:"gte=0"`

	// EndTime is derived from StartTime and Duration and kept in its own
	// column so range queries stay plain comparisons. Maintained by the
	// BeforeSave hook; use End() when reading.
	EndTime   time.Time `json:"end_time" gorm:"type:datetime;not null;column:end_time;index"`
	CreatedAt time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`

	Season *Season `json:"season,omitempty" gorm:"foreignKey:SeasonID"`

	// Block is the programming block the slot was classified into.
	// Populated by the block classifier, never persisted.
	Block *Block `json:"block,omitempty" gorm:"-"`

	// Synthetic marks in-memory filler slots that pad schedule gaps.
	// Never persisted.
	Synthetic bool `json:"synthetic,omitempty" gorm:"-"`
}

// NewTimeslot creates a new Timeslot with generated UUID and timestamps
func NewTimeslot(seasonID uuid.UUID, startTime time.Time, duration time.Duration) *Timeslot {
	now := time.Now().UTC()
	return &Timeslot{
		ID:        uuid.New(),
		SeasonID:  seasonID,
		StartTime: startTime.UTC(),
		Duration:  duration,
		EndTime:   startTime.UTC().Add(duration),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BeforeSave keeps the derived end_time column consistent
func (t *Timeslot) BeforeSave(_ *gorm.DB) error {
	t.EndTime = t.StartTime.Add(t.Duration)
	return nil
}

// End returns the moment the timeslot finishes
func (t *Timeslot) End() time.Time {
	return t.StartTime.Add(t.Duration)
}

// Show returns the slot's show via its season, or nil if not loaded
func (t *Timeslot) Show() *Show {
	if t.Season == nil {
		return nil
	}
	return t.Season.Show
}

// Collapsible reports whether the slot's show type allows it to fold up
// in the week table instead of forcing its own row boundaries. Slots with
// no loaded show type never collapse.
func (t *Timeslot) Collapsible() bool {
	show := t.Show()
	return show != nil && show.ShowType != nil && show.ShowType.Collapsible
}
