package db

// Repositories provides access to all database repositories
type Repositories struct {
	Terms     *TermRepository
	Shows     *ShowRepository
	Seasons   *SeasonRepository
	Timeslots *TimeslotRepository
	Blocks    *BlockRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Terms:     NewTermRepository(db),
		Shows:     NewShowRepository(db),
		Seasons:   NewSeasonRepository(db),
		Timeslots: NewTimeslotRepository(db),
		Blocks:    NewBlockRepository(db),
	}
}
