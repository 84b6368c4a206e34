package database

import (
	"context"
	"errors"

	"takemeto75/trip"
)

var (
	ErrNotFound  = errors.New("database: record not found")
	ErrDuplicate = errors.New("database: record already exists")
)

// BookingStore is the booking ledger. Update runs fn against the current
// row with no other writer for that id in between; when fn returns an error
// nothing is written.
type BookingStore interface {
	Create(ctx context.Context, b trip.Booking) error
	Get(ctx context.Context, id string) (trip.Booking, error)
	Update(ctx context.Context, id string, fn func(*trip.Booking) error) (trip.Booking, error)
}

// PackageStore keeps assembled packages so they can be booked or
// downloaded after the search that produced them.
type PackageStore interface {
	Save(ctx context.Context, pkg trip.TripPackage) error
	Get(ctx context.Context, id string) (trip.TripPackage, error)
}
