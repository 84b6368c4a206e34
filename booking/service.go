// Package booking runs the booking lifecycle: a booking is confirmed once
// both upstream orders return, and may be cancelled only inside the refund
// window. Cancelled is terminal.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"takemeto75/database"
	"takemeto75/logger"
	"takemeto75/metrics"
	"takemeto75/services"
	"takemeto75/trip"
)

const compensateTimeout = 15 * time.Second

var (
	ErrAlreadyCancelled = errors.New("booking: already cancelled")
	ErrPackageRequired  = errors.New("booking: package id or package is required")
	ErrInvalidPassenger = errors.New("booking: passenger first name, last name and email are required")
)

// RefundWindowError rejects a cancellation at or after the deadline.
type RefundWindowError struct {
	Deadline time.Time
}

func (e *RefundWindowError) Error() string {
	return "booking: refund window closed at " + e.Deadline.UTC().Format(time.RFC3339)
}

type FlightOrderer interface {
	CreateOrder(ctx context.Context, offerID string, p trip.Passenger) (services.FlightOrder, error)
	CancelOrder(ctx context.Context, orderID string) error
}

type HotelOrderer interface {
	CreateOrder(ctx context.Context, stay services.HotelStay, p trip.Passenger) (services.HotelOrder, error)
}

type Service struct {
	bookings database.BookingStore
	packages database.PackageStore
	flights  FlightOrderer
	hotels   HotelOrderer
	log      logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(bookings database.BookingStore, packages database.PackageStore, flights FlightOrderer, hotels HotelOrderer, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		bookings: bookings,
		packages: packages,
		flights:  flights,
		hotels:   hotels,
		log:      log,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateRequest names a stored package by id, or carries the package itself
// when the caller kept it client-side. The id wins when both are set.
type CreateRequest struct {
	PackageID string
	Package   *trip.TripPackage
	Passenger trip.Passenger
}

// View is a booking plus whether a cancel right now would be accepted.
type View struct {
	trip.Booking
	RefundAvailable bool `json:"refund_available"`
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (trip.Booking, error) {
	b, err := s.create(ctx, req)
	if err != nil {
		s.metrics.Booking("create", metrics.OutcomeError)
		return trip.Booking{}, err
	}
	s.metrics.Booking("create", metrics.OutcomeOK)
	return b, nil
}

func (s *Service) create(ctx context.Context, req CreateRequest) (trip.Booking, error) {
	p := req.Passenger
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" || strings.TrimSpace(p.Email) == "" {
		return trip.Booking{}, ErrInvalidPassenger
	}

	pkg, err := s.resolvePackage(ctx, req)
	if err != nil {
		return trip.Booking{}, err
	}

	flightOrder, err := s.flights.CreateOrder(ctx, pkg.Flight.ID, p)
	if err != nil {
		return trip.Booking{}, fmt.Errorf("flight booking failed: %w", err)
	}

	// Hotel orders fall back to a checkout link; an error here is unexpected.
	hotelOrder, err := s.hotels.CreateOrder(ctx, services.HotelStay{
		Hotel:    pkg.Hotel,
		City:     pkg.Destination.City,
		CheckIn:  pkg.Dates.CheckIn,
		CheckOut: pkg.Dates.CheckOut,
		Guests:   2,
	}, p)
	if err != nil {
		s.log.Error("hotel order failed after flight was booked",
			"flight_order", flightOrder.ID,
			"hotel_id", pkg.Hotel.ID,
			"error", err)
		s.releaseFlight(ctx, flightOrder.ID)
		return trip.Booking{}, fmt.Errorf("hotel booking failed: %w", err)
	}

	now := s.now()
	b := trip.Booking{
		ID:               trip.NewID("bkg", now),
		Package:          pkg,
		Passenger:        p,
		FlightOrderID:    flightOrder.ID,
		HotelOrderID:     hotelOrder.Reference,
		HotelCheckoutURL: hotelOrder.CheckoutURL,
		Status:           trip.BookingConfirmed,
		CreatedAt:        now,
		RefundDeadline:   now.Add(trip.RefundWindow),
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		s.log.Error("booking save failed after flight was booked",
			"booking_id", b.ID,
			"flight_order", flightOrder.ID,
			"error", err)
		s.releaseFlight(ctx, flightOrder.ID)
		return trip.Booking{}, fmt.Errorf("save booking: %w", err)
	}

	s.log.Info("booking confirmed",
		"booking_id", b.ID,
		"package_id", pkg.ID,
		"tier", string(pkg.Tier),
		"flight_order", flightOrder.ID)
	return b, nil
}

func (s *Service) resolvePackage(ctx context.Context, req CreateRequest) (trip.TripPackage, error) {
	if req.PackageID != "" {
		return s.packages.Get(ctx, req.PackageID)
	}
	if req.Package == nil || req.Package.ID == "" {
		return trip.TripPackage{}, ErrPackageRequired
	}
	return *req.Package, nil
}

// Cancel checks the window and status and cancels the flight upstream while
// holding the booking, so concurrent cancels cannot both succeed.
func (s *Service) Cancel(ctx context.Context, id string) (trip.Booking, error) {
	b, err := s.bookings.Update(ctx, id, func(b *trip.Booking) error {
		if b.Status == trip.BookingCancelled {
			return ErrAlreadyCancelled
		}
		now := s.now()
		if !b.RefundOpen(now) {
			return &RefundWindowError{Deadline: b.RefundDeadline}
		}
		if b.FlightOrderID != "" {
			if err := s.flights.CancelOrder(ctx, b.FlightOrderID); err != nil {
				return fmt.Errorf("failed to cancel flight: %w", err)
			}
		}
		b.Status = trip.BookingCancelled
		b.CancelledAt = &now
		return nil
	})
	if err != nil {
		s.metrics.Booking("cancel", cancelOutcome(err))
		return trip.Booking{}, err
	}

	s.metrics.Booking("cancel", metrics.OutcomeOK)
	s.log.Info("booking cancelled", "booking_id", id)
	return b, nil
}

func cancelOutcome(err error) string {
	var windowErr *RefundWindowError
	switch {
	case errors.As(err, &windowErr):
		return "expired"
	case errors.Is(err, ErrAlreadyCancelled):
		return "already_cancelled"
	case errors.Is(err, database.ErrNotFound):
		return "not_found"
	}
	return metrics.OutcomeError
}

func (s *Service) Get(ctx context.Context, id string) (View, error) {
	b, err := s.bookings.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	return View{
		Booking:         b,
		RefundAvailable: b.Status == trip.BookingConfirmed && b.RefundOpen(s.now()),
	}, nil
}

// releaseFlight cancels a flight order whose booking could not be completed.
// It runs even when ctx is already cancelled so the order is not left paid.
func (s *Service) releaseFlight(ctx context.Context, orderID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()
	if err := s.flights.CancelOrder(ctx, orderID); err != nil {
		s.log.Error("flight order left open after failed booking",
			"flight_order", orderID,
			"error", err)
		s.metrics.Booking("compensate", metrics.OutcomeError)
		return
	}
	s.log.Warn("flight order cancelled after failed booking", "flight_order", orderID)
	s.metrics.Booking("compensate", metrics.OutcomeOK)
}
