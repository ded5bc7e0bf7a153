package models

import (
	"time"

	"github.com/google/uuid"
)

// Season represents a show's run within a single university term.
// A season belongs to exactly one show and exactly one term; its relative
// number (the "Season 3" in listings) is its 1-based rank among the show's
// seasons ordered by submission date, computed by the season repository.
type Season struct {
	ID            uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	ShowID        uuid.UUID `json:"show_id" gorm:"type:text;not null;column:show_id" validate:"required"`
	TermID        uuid.UUID `json:"term_id" gorm:"type:text;not null;column:term_id" validate:"required"`
	DateSubmitted time.Time `json:"date_submitted" gorm:"type:datetime;not null;column:date_submitted"`

	Show *Show `json:"show,omitempty" gorm:"foreignKey:ShowID"`
	Term *Term `json:"term,omitempty" gorm:"foreignKey:TermID"`
}

// NewSeason creates a new Season with a generated UUID
func NewSeason(showID, termID uuid.UUID, dateSubmitted time.Time) *Season {
	return &Season{
		ID:            uuid.New(),
		ShowID:        showID,
		TermID:        termID,
		DateSubmitted: dateSubmitted.UTC(),
	}
}
