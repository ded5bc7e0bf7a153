package models

import (
	"time"

	"github.com/google/uuid"
)

// FillerShowTypeName is the show type name reserved for the station's
// filler programming. Exactly one show should carry this type; it is the
// show that synthetic gap-filling timeslots are attributed to.
const FillerShowTypeName = "filler"

// ShowType categorises shows and carries the behavioural flags the
// scheduler cares about. Not every show type represents on-air
// programming; demos and recordings are scheduled too, but are not public.
type ShowType struct {
	ID   uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name string    `json:"name" gorm:"type:text;not null;uniqueIndex;column:name" validate:"required,min=1,max=100"`

	// Public controls whether timeslots of this type appear in the
	// public schedule.
	Public bool `json:"public" gorm:"type:integer;not null;default:1;column:public"`

	// HasListing controls whether shows of this type get a show
	// database listing page.
	HasListing bool `json:"has_listing" gorm:"type:integer;not null;default:1;column:has_listing"`

	// Collapsible marks types whose timeslots do not force a row
	// boundary in the week table, letting long unscheduled stretches
	// fold into a single row. Typically set on the filler type.
	Collapsible bool `json:"collapsible" gorm:"type:integer;not null;default:0;column:collapsible"`
}

// Show represents a radio show entity
type Show struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	ShowTypeID  uuid.UUID `json:"show_type_id" gorm:"type:text;not null;column:show_type_id" validate:"required"`
	Title       string    `json:"title" gorm:"type:text;not null;column:title" validate:"required,min=1,max=255"`
	Description string    `json:"description" gorm:"type:text;column:description"`
	CreatedAt   time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:updated_at"`

	ShowType *ShowType `json:"show_type,omitempty" gorm:"foreignKey:ShowTypeID"`
}

// NewShow creates a new Show with generated UUID and timestamps
func NewShow(title string, showTypeID uuid.UUID) *Show {
	now := time.Now().UTC()
	return &Show{
		ID:         uuid.New(),
		ShowTypeID: showTypeID,
		Title:      title,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsPublic reports whether the show's type makes it publicly schedulable.
// A show with no loaded type is treated as private.
func (s *Show) IsPublic() bool {
	return s.ShowType != nil && s.ShowType.Public
}
