// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mwhitehouse/airwave/internal/api"
	"github.com/mwhitehouse/airwave/internal/config"
	"github.com/mwhitehouse/airwave/internal/db"
	"github.com/mwhitehouse/airwave/internal/logger"
	"github.com/mwhitehouse/airwave/internal/middleware"
	"github.com/mwhitehouse/airwave/internal/schedule"
)

// Server represents the HTTP server
type Server struct {
	config          *config.Config
	db              *db.DB
	repos           *db.Repositories
	scheduleService *schedule.Service
	loc             *time.Location
	dayStart        time.Duration
	router          *gin.Engine
	server          *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB) (*Server, error) {
	loc, err := cfg.Station.Location()
	if err != nil {
		return nil, err
	}
	dayStart, err := cfg.Station.DayStartOffset()
	if err != nil {
		return nil, err
	}

	repos := db.NewRepositories(database)
	repos.Shows.SetFillerTypeName(cfg.Station.FillerType)
	scheduleService := schedule.NewService(
		repos.Terms,
		repos.Timeslots,
		repos.Shows,
		repos.Blocks,
		loc,
		cfg.Station.DefaultBlock,
	)

	return &Server{
		config:          cfg,
		db:              database,
		repos:           repos,
		scheduleService: scheduleService,
		loc:             loc,
		dayStart:        dayStart,
	}, nil
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	// Set Gin mode based on log level
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create new Gin router
	s.router = gin.New()

	// Add middleware stack
	s.router.Use(middleware.RequestLogger()) // Custom zerolog request logger
	s.router.Use(gin.Recovery())             // Panic recovery
	s.router.Use(cors.Default())             // CORS support (allows all origins)

	// Create API route group
	apiGroup := s.router.Group("/api")

	// Register service routes
	api.SetupHealthRoutes(apiGroup, s.db)
	api.SetupScheduleRoutes(apiGroup, api.NewScheduleHandler(s.scheduleService, s.loc, s.dayStart))
	api.SetupTermRoutes(apiGroup, api.NewTermHandler(s.repos.Terms))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Str("timezone", s.config.Station.Timezone).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	// Check if server was started before attempting shutdown
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
