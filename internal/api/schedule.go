package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mwhitehouse/airwave/internal/logger"
	"github.com/mwhitehouse/airwave/internal/models"
	"github.com/mwhitehouse/airwave/internal/schedule"
)

// dateParam is the wire format of schedule date parameters
const dateParam = "2006-01-02"

// handlerTimeout bounds how long one schedule request may spend compiling
const handlerTimeout = 10 * time.Second

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NavResponse carries the dates for hopping between schedule periods
type NavResponse struct {
	Previous string `json:"previous"`
	This     string `json:"this"`
	Next     string `json:"next"`
}

// DayScheduleResponse represents one broadcast day of programming
type DayScheduleResponse struct {
	Status string             `json:"status"`
	Start  time.Time          `json:"start"`
	End    time.Time          `json:"end"`
	Term   *models.Term       `json:"term,omitempty"`
	Slots  []*models.Timeslot `json:"slots,omitempty"`
	Nav    NavResponse        `json:"nav"`
}

// WeekScheduleResponse represents one week of programming in tabular form
type WeekScheduleResponse struct {
	Status string          `json:"status"`
	Start  time.Time       `json:"start"`
	Term   *models.Term    `json:"term,omitempty"`
	Rows   []*schedule.Row `json:"rows,omitempty"`
	Nav    NavResponse     `json:"nav"`
}

// UpNextResponse represents the next slots on air
type UpNextResponse struct {
	At    time.Time          `json:"at"`
	Slots []*models.Timeslot `json:"slots"`
}

// ScheduleHandler handles schedule view requests
type ScheduleHandler struct {
	service  *schedule.Service
	loc      *time.Location
	dayStart time.Duration
	now      func() time.Time
}

// NewScheduleHandler creates a new schedule handler. dayStart is the
// local-time offset from midnight at which the broadcast day begins.
func NewScheduleHandler(service *schedule.Service, loc *time.Location, dayStart time.Duration) *ScheduleHandler {
	return &ScheduleHandler{
		service:  service,
		loc:      loc,
		dayStart: dayStart,
		now:      time.Now,
	}
}

// NewScheduleHandlerAt creates a schedule handler with an explicit clock,
// for tests that need a pinned "today".
func NewScheduleHandlerAt(service *schedule.Service, loc *time.Location, dayStart time.Duration, now func() time.Time) *ScheduleHandler {
	h := NewScheduleHandler(service, loc, dayStart)
	h.now = now
	return h
}

// Day handles GET /api/schedule/day
func (h *ScheduleHandler) Day(c *gin.Context) {
	start, ok := h.periodStart(c, false)
	if !ok {
		return
	}

	opts := schedule.DefaultQueryOptions
	if c.Query("include_private") == "true" {
		opts.PublicOnly = false
	}
	sched := schedule.New(start, schedule.Day, h.loc, h.service.RangeBuilder(opts))

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	data, err := sched.Data(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Time("start", start).
			Msg("Failed to build day schedule")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "schedule_failed",
			Message: "Failed to build day schedule",
		})
		return
	}

	c.JSON(http.StatusOK, DayScheduleResponse{
		Status: string(data.Status),
		Start:  sched.Start,
		End:    sched.End(),
		Term:   data.Term,
		Slots:  data.Slots,
		Nav:    h.nav(sched),
	})
}

// Week handles GET /api/schedule/week
func (h *ScheduleHandler) Week(c *gin.Context) {
	start, ok := h.periodStart(c, true)
	if !ok {
		return
	}
	sched := h.service.WeekSchedule(start)

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	table, data, err := schedule.Tabulate(ctx, sched)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Time("start", start).
			Bool("inconsistency", schedule.IsInconsistency(err)).
			Msg("Failed to tabulate week schedule")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "schedule_failed",
			Message: "Failed to build week schedule",
		})
		return
	}

	resp := WeekScheduleResponse{
		Status: string(data.Status),
		Start:  sched.Start,
		Term:   data.Term,
		Nav:    h.nav(sched),
	}
	if table != nil {
		resp.Rows = table.Rows
	}
	c.JSON(http.StatusOK, resp)
}

// UpNext handles GET /api/schedule/up-next
func (h *ScheduleHandler) UpNext(c *gin.Context) {
	count := 10
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "count must be an integer",
			})
			return
		}
		count = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	at := h.now().UTC()
	slots, err := h.service.UpNext(ctx, at, count, true, false)
	if err != nil {
		if schedule.IsUsageError(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: err.Error(),
			})
			return
		}
		logger.Log.Error().
			Err(err).
			Int("count", count).
			Msg("Failed to build up-next listing")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "schedule_failed",
			Message: "Failed to build up-next listing",
		})
		return
	}

	c.JSON(http.StatusOK, UpNextResponse{At: at, Slots: slots})
}

// periodStart resolves the request's date parameter (default today) to
// the absolute start of its broadcast day, snapped back to Monday for
// week views.
func (h *ScheduleHandler) periodStart(c *gin.Context, toMonday bool) (time.Time, bool) {
	date := h.now().In(h.loc)
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation(dateParam, raw, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "date must be formatted YYYY-MM-DD",
			})
			return time.Time{}, false
		}
		date = parsed
	}

	if toMonday {
		// time.Weekday counts from Sunday; shift to a Monday-based week.
		daysAfterMonday := (int(date.Weekday()) + 6) % 7
		date = date.AddDate(0, 0, -daysAfterMonday)
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, h.loc).Add(h.dayStart)
	return start, true
}

// nav builds the previous/this/next navigation dates for a schedule
func (h *ScheduleHandler) nav(sched *schedule.Schedule) NavResponse {
	return NavResponse{
		Previous: sched.Previous().Start.In(h.loc).Format(dateParam),
		This:     sched.Start.In(h.loc).Format(dateParam),
		Next:     sched.Next().Start.In(h.loc).Format(dateParam),
	}
}

// SetupScheduleRoutes registers schedule view routes
func SetupScheduleRoutes(apiGroup *gin.RouterGroup, handler *ScheduleHandler) {
	group := apiGroup.Group("/schedule")
	group.GET("/day", handler.Day)
	group.GET("/week", handler.Week)
	group.GET("/up-next", handler.UpNext)
}
