// Package planner orchestrates one request at a time: weather fan-out for
// destination discovery, and per-tier flight and hotel search feeding the
// selector and assembler for package search.
package planner

import (
	"context"
	"errors"
	"time"

	"takemeto75/database"
	"takemeto75/logger"
	"takemeto75/metrics"
	"takemeto75/selector"
	"takemeto75/services"
	"takemeto75/trip"
)

var (
	ErrNoAvailability     = errors.New("planner: no availability for any requested tier")
	ErrUnknownDestination = errors.New("planner: destination not found")
	ErrUnknownAirport     = errors.New("planner: unknown origin airport")
	ErrInvalidTier        = errors.New("planner: invalid tier")
)

type WeatherSource interface {
	Snapshot(ctx context.Context, coords trip.Coordinates) trip.WeatherSnapshot
}

type FlightSource interface {
	Search(ctx context.Context, q services.FlightQuery, tier trip.Tier) services.FlightResult
}

type HotelSource interface {
	Search(ctx context.Context, q services.HotelQuery) services.HotelResult
}

type Options struct {
	Nights            int
	BatchSize         int
	DestinationsLimit int
}

type Planner struct {
	weather  WeatherSource
	flights  FlightSource
	hotels   HotelSource
	selector selector.Selector
	packages database.PackageStore
	opts     Options
	log      logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func New(weather WeatherSource, flights FlightSource, hotels HotelSource, sel selector.Selector, packages database.PackageStore, opts Options, log logger.Logger, m *metrics.Metrics) *Planner {
	if opts.Nights <= 0 {
		opts.Nights = trip.DefaultNights
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	if opts.DestinationsLimit <= 0 {
		opts.DestinationsLimit = 10
	}
	return &Planner{
		weather:  weather,
		flights:  flights,
		hotels:   hotels,
		selector: sel,
		packages: packages,
		opts:     opts,
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

func (p *Planner) dates() trip.TravelDates {
	return trip.NewTravelDates(p.now(), p.opts.Nights)
}
