package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"takemeto75/booking"
	"takemeto75/database"
	"takemeto75/logger"
	"takemeto75/planner"
	"takemeto75/trip"
)

type Planner interface {
	Destinations(ctx context.Context, q planner.DestinationQuery) planner.DestinationResult
	Packages(ctx context.Context, q planner.PackageQuery) (planner.PackageResult, error)
}

type Bookings interface {
	Create(ctx context.Context, req booking.CreateRequest) (trip.Booking, error)
	Cancel(ctx context.Context, id string) (trip.Booking, error)
	Get(ctx context.Context, id string) (booking.View, error)
}

// HealthCheck reports whether a backing service answers.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	planner  Planner
	bookings Bookings
	packages database.PackageStore
	checks   map[string]HealthCheck
	log      logger.Logger
}

func New(p Planner, b Bookings, packages database.PackageStore, checks map[string]HealthCheck, log logger.Logger) *Handler {
	return &Handler{planner: p, bookings: b, packages: packages, checks: checks, log: log}
}

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func (h *Handler) fail(c *gin.Context, err error) {
	var windowErr *booking.RefundWindowError
	switch {
	case errors.As(err, &windowErr):
		c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "Refund window expired",
			Code:    "refund_window_expired",
			Details: gin.H{"refund_deadline": windowErr.Deadline},
		})
	case errors.Is(err, booking.ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, errorResponse{Error: "Booking is already cancelled", Code: "already_cancelled"})
	case errors.Is(err, planner.ErrNoAvailability):
		c.JSON(http.StatusNotFound, errorResponse{Error: "No packages available for this destination", Code: "no_availability"})
	case errors.Is(err, planner.ErrUnknownDestination):
		c.JSON(http.StatusNotFound, errorResponse{Error: "Destination not found", Code: "not_found"})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "Not found", Code: "not_found"})
	case errors.Is(err, planner.ErrUnknownAirport),
		errors.Is(err, planner.ErrInvalidTier),
		errors.Is(err, booking.ErrPackageRequired),
		errors.Is(err, booking.ErrInvalidPassenger):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_request"})
	default:
		_ = c.Error(err)
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error", Code: "internal"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg, Code: "invalid_request"})
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	checks := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			checks[name] = "error: " + err.Error()
			status = "degraded"
			continue
		}
		checks[name] = "ok"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"service": "TakeMeTo75 API",
		"checks":  checks,
	})
}
