package database

import (
	"context"
	"sync"

	"takemeto75/trip"
)

type bookingEntry struct {
	mu      sync.Mutex
	booking trip.Booking
}

// MemoryBookings holds the ledger in process. The map lock only guards
// membership; each booking carries its own lock for read-modify-write.
type MemoryBookings struct {
	mu      sync.RWMutex
	entries map[string]*bookingEntry
}

func NewMemoryBookings() *MemoryBookings {
	return &MemoryBookings{entries: make(map[string]*bookingEntry)}
}

func (s *MemoryBookings) Create(_ context.Context, b trip.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[b.ID]; ok {
		return ErrDuplicate
	}
	s.entries[b.ID] = &bookingEntry{booking: b}
	return nil
}

func (s *MemoryBookings) entry(id string) (*bookingEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

func (s *MemoryBookings) Get(_ context.Context, id string) (trip.Booking, error) {
	e, ok := s.entry(id)
	if !ok {
		return trip.Booking{}, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.booking, nil
}

func (s *MemoryBookings) Update(ctx context.Context, id string, fn func(*trip.Booking) error) (trip.Booking, error) {
	e, ok := s.entry(id)
	if !ok {
		return trip.Booking{}, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return trip.Booking{}, err
	}
	b := e.booking
	if err := fn(&b); err != nil {
		return e.booking, err
	}
	e.booking = b
	return b, nil
}

// MemoryPackages is the package store used when Redis and PostgreSQL are
// both unset. Entries live for the life of the process.
type MemoryPackages struct {
	mu       sync.RWMutex
	packages map[string]trip.TripPackage
}

func NewMemoryPackages() *MemoryPackages {
	return &MemoryPackages{packages: make(map[string]trip.TripPackage)}
}

func (s *MemoryPackages) Save(_ context.Context, pkg trip.TripPackage) error {
	s.mu.Lock()
	s.packages[pkg.ID] = pkg
	s.mu.Unlock()
	return nil
}

func (s *MemoryPackages) Get(_ context.Context, id string) (trip.TripPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pkg, ok := s.packages[id]
	if !ok {
		return trip.TripPackage{}, ErrNotFound
	}
	return pkg, nil
}
