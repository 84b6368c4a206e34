package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"takemeto75/trip"
)

func testBooking(id string) trip.Booking {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	return trip.Booking{
		ID:             id,
		Package:        trip.TripPackage{ID: "pkg_1", Tier: trip.TierBase},
		Passenger:      trip.Passenger{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		Status:         trip.BookingConfirmed,
		CreatedAt:      now,
		RefundDeadline: now.Add(trip.RefundWindow),
	}
}

func TestMemoryBookingsCreateGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryBookings()

	require.NoError(t, s.Create(ctx, testBooking("bkg_1")))
	assert.ErrorIs(t, s.Create(ctx, testBooking("bkg_1")), ErrDuplicate)

	got, err := s.Get(ctx, "bkg_1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Passenger.Email)

	_, err = s.Get(ctx, "bkg_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryBookingsUpdateDiscardsOnError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryBookings()
	require.NoError(t, s.Create(ctx, testBooking("bkg_1")))

	boom := errors.New("boom")
	_, err := s.Update(ctx, "bkg_1", func(b *trip.Booking) error {
		b.Status = trip.BookingCancelled
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, "bkg_1")
	require.NoError(t, err)
	assert.Equal(t, trip.BookingConfirmed, got.Status)

	_, err = s.Update(ctx, "bkg_missing", func(*trip.Booking) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryBookingsUpdateSerializesPerKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryBookings()
	require.NoError(t, s.Create(ctx, testBooking("bkg_1")))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "bkg_1", func(b *trip.Booking) error {
				if b.Status == trip.BookingCancelled {
					return errors.New("already cancelled")
				}
				b.Status = trip.BookingCancelled
				return nil
			})
			if err == nil {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, applied)
}

func TestMemoryPackages(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryPackages()

	_, err := s.Get(ctx, "pkg_1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, trip.TripPackage{ID: "pkg_1", TotalPrice: 685}))
	got, err := s.Get(ctx, "pkg_1")
	require.NoError(t, err)
	assert.Equal(t, 685.0, got.TotalPrice)
}
