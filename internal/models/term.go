package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Term represents a university term. The station's timetable is organised
// along term boundaries: seasons are delineated by the terms they cover,
// and any gap between two terms is a holiday.
type Term struct {
	ID        uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	StartDate time.Time `json:"start_date" gorm:"type:datetime;not null;column:start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" gorm:"type:datetime;not null;column:end_date" validate:"required"`
	Name      string    `json:"name" gorm:"type:text;not null;column:name" validate:"required,min=1,max=10"`
}

// NewTerm creates a new Term with a generated UUID
func NewTerm(name string, startDate, endDate time.Time) *Term {
	return &Term{
		ID:        uuid.New(),
		StartDate: startDate.UTC(),
		EndDate:   endDate.UTC(),
		Name:      name,
	}
}

// Contains reports whether the given moment falls within [StartDate, EndDate)
func (t *Term) Contains(at time.Time) bool {
	return !at.Before(t.StartDate) && at.Before(t.EndDate)
}

// AcademicYear returns the academic year this term belongs to.
// A term starting before September is the Spring or Summer of the academic
// year that started the previous calendar year.
func (t *Term) AcademicYear() int {
	if t.StartDate.Month() >= time.September {
		return t.StartDate.Year()
	}
	return t.StartDate.Year() - 1
}

// String returns a human-readable representation of the term, in the form
// "NAME Term YEAR/YEAR+1", for example "Autumn Term 2011/12".
func (t *Term) String() string {
	year := t.AcademicYear()
	return fmt.Sprintf("%s Term %d/%02d", t.Name, year, (year+1)%100)
}
