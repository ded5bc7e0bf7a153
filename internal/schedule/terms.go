package schedule

import (
	"context"
	"time"

	"github.com/mwhitehouse/airwave/internal/models"
)

// TermStatus tags the outcome of resolving a moment to a term. A missing
// term is a normal, anticipated state, so it is reported as a status
// rather than an error.
type TermStatus string

const (
	// TermFound means the moment lies inside a term.
	TermFound TermStatus = "found"

	// TermHoliday means no term contains the moment but an earlier term
	// exists, i.e. the moment falls in a holiday between terms.
	TermHoliday TermStatus = "holiday"

	// TermNoData means no term exists on or before the moment. This is
	// a configuration problem rather than a normal schedule gap.
	TermNoData TermStatus = "no_term_data"
)

// Resolver resolves moments in time to university terms.
type Resolver struct {
	terms TermStore
}

// NewResolver creates a new term resolver backed by the given store
func NewResolver(terms TermStore) *Resolver {
	return &Resolver{terms: terms}
}

// Resolve finds the term containing the given moment and classifies the
// result. When no term contains the moment, the returned term is the
// latest one before it (nil for TermNoData).
func (r *Resolver) Resolve(ctx context.Context, at time.Time) (*models.Term, TermStatus, error) {
	term, err := r.terms.TermContaining(ctx, at)
	if err != nil {
		return nil, TermNoData, err
	}
	if term != nil {
		return term, TermFound, nil
	}

	prior, err := r.terms.TermBefore(ctx, at)
	if err != nil {
		return nil, TermNoData, err
	}
	if prior != nil {
		return prior, TermHoliday, nil
	}
	return nil, TermNoData, nil
}
