//go:build integration
// +build integration

package integration

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mwhitehouse/airwave/internal/api"
	"github.com/mwhitehouse/airwave/internal/db"
	"github.com/mwhitehouse/airwave/internal/models"
	"github.com/mwhitehouse/airwave/internal/schedule"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory test database with migrations applied
func setupTestDB(t *testing.T) (*db.DB, *db.Repositories, func()) {
	t.Helper()

	database, err := db.New(":memory:")
	require.NoError(t, err, "Failed to create in-memory database")

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err, "Failed to get SQL DB")

	// Get absolute path to migrations directory relative to this file
	// This ensures tests work regardless of working directory
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	testDir := filepath.Dir(filename)                      // test/integration
	rootDir := filepath.Dir(filepath.Dir(testDir))         // repository root
	migrationsPath := "file://" + filepath.Join(rootDir, "migrations")

	err = db.RunMigrations(sqlDB, migrationsPath)
	require.NoError(t, err, "Failed to run migrations")

	repos := db.NewRepositories(database)

	cleanup := func() {
		_ = database.Close()
	}

	return database, repos, cleanup
}

// setupScheduleRouter builds a router with the schedule and term routes
// over the given repositories, with the broadcast day starting 07:00
// Europe/London.
func setupScheduleRouter(t *testing.T, repos *db.Repositories, now time.Time) *gin.Engine {
	t.Helper()

	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	service := schedule.NewService(repos.Terms, repos.Timeslots, repos.Shows, repos.Blocks, loc, "regular")
	handler := api.NewScheduleHandlerAt(service, loc, 7*time.Hour, func() time.Time { return now })

	gin.SetMode(gin.TestMode)
	router := gin.New()
	apiGroup := router.Group("/api")
	api.SetupScheduleRoutes(apiGroup, handler)
	api.SetupTermRoutes(apiGroup, api.NewTermHandler(repos.Terms))
	return router
}

// station holds the seeded scheduling fixtures shared by the tests
type station struct {
	term       *models.Term
	fillerShow *models.Show
	show       *models.Show
	season     *models.Season
	block      *models.Block
}

// seedStation populates a term, show types, the filler show, one show
// with a season, and a block pinned to that show.
func seedStation(t *testing.T, repos *db.Repositories) *station {
	t.Helper()
	ctx := context.Background()

	showType := &models.ShowType{ID: uuid.New(), Name: "show", Public: true, HasListing: true}
	fillerType := &models.ShowType{ID: uuid.New(), Name: models.FillerShowTypeName, Public: true, Collapsible: true}
	require.NoError(t, repos.Shows.CreateType(ctx, showType))
	require.NoError(t, repos.Shows.CreateType(ctx, fillerType))

	fillerShow := models.NewShow("URY Jukebox", fillerType.ID)
	show := models.NewShow("Monday Music", showType.ID)
	require.NoError(t, repos.Shows.Create(ctx, fillerShow))
	require.NoError(t, repos.Shows.Create(ctx, show))

	term := models.NewTerm("Autumn",
		time.Date(2011, 10, 10, 7, 0, 0, 0, time.UTC),
		time.Date(2011, 12, 17, 7, 0, 0, 0, time.UTC))
	require.NoError(t, repos.Terms.Create(ctx, term))

	season := models.NewSeason(show.ID, term.ID, term.StartDate)
	require.NoError(t, repos.Seasons.Create(ctx, season))

	block := models.NewBlock("Music", "music", 2)
	require.NoError(t, repos.Blocks.Create(ctx, block))
	require.NoError(t, repos.Blocks.CreateShowRule(ctx, &models.BlockShowRule{
		ID:      uuid.New(),
		BlockID: block.ID,
		ShowID:  show.ID,
	}))

	return &station{
		term:       term,
		fillerShow: fillerShow,
		show:       show,
		season:     season,
		block:      block,
	}
}
