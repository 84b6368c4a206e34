package planner

import (
	"context"

	"golang.org/x/sync/errgroup"

	"takemeto75/destinations"
	"takemeto75/trip"
)

type DestinationQuery struct {
	Airport     string
	Lat, Lon    *float64
	Limit       int
	MaxDistance float64
}

type DestinationResult struct {
	Destinations []trip.Destination `json:"destinations"`
	UserAirport  trip.Airport       `json:"user_airport"`
	Dates        trip.TravelDates   `json:"dates"`
	Degraded     bool               `json:"degraded"`
}

// Destinations ranks the catalog by forecast for the traveler's airport.
// An airport code that is not in the table falls back to the nearest
// airport to the given coordinates.
func (p *Planner) Destinations(ctx context.Context, q DestinationQuery) DestinationResult {
	origin := p.resolveOrigin(q)

	dests := p.withWeather(ctx, destinations.Catalog)

	limit := q.Limit
	if limit <= 0 {
		limit = p.opts.DestinationsLimit
	}
	ranked := destinations.Rank(dests, origin.Coordinates(), destinations.RankOptions{
		Limit:       limit,
		MaxDistance: q.MaxDistance,
	})

	degraded := false
	for _, d := range ranked {
		degraded = degraded || d.Weather.Degraded
	}

	p.log.Debug("destinations ranked",
		"origin", origin.Code,
		"returned", len(ranked),
		"degraded", degraded)

	return DestinationResult{
		Destinations: ranked,
		UserAirport:  origin,
		Dates:        p.dates(),
		Degraded:     degraded,
	}
}

func (p *Planner) resolveOrigin(q DestinationQuery) trip.Airport {
	if q.Airport != "" {
		if a, ok := destinations.FindAirport(q.Airport); ok {
			return a
		}
	}
	c := destinations.DefaultOrigin
	if q.Lat != nil {
		c.Lat = *q.Lat
	}
	if q.Lon != nil {
		c.Lon = *q.Lon
	}
	return destinations.NearestAirport(c)
}

// withWeather fetches forecasts in batches of BatchSize, waiting for each
// batch before starting the next. Results keep the input order. A forecast
// that misses the request deadline comes back generated, like any other
// weather failure.
func (p *Planner) withWeather(ctx context.Context, catalog []trip.Destination) []trip.Destination {
	out := make([]trip.Destination, len(catalog))
	copy(out, catalog)

	for start := 0; start < len(out); start += p.opts.BatchSize {
		end := min(start+p.opts.BatchSize, len(out))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				out[i].Weather = p.weather.Snapshot(ctx, out[i].Coordinates())
				return nil
			})
		}
		// Snapshot never fails; a bad forecast comes back generated.
		_ = g.Wait()
	}
	return out
}
