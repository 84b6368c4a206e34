package planner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"takemeto75/destinations"
	"takemeto75/selector"
	"takemeto75/services"
	"takemeto75/trip"
)

const (
	packagePassengers = 1
	packageGuests     = 2
	packageRooms      = 1
)

type PackageQuery struct {
	OriginAirport   string
	DestinationCity string
	// Tiers defaults to every tier when empty.
	Tiers []trip.Tier
}

type PackageResult struct {
	Packages    map[trip.Tier]trip.TripPackage `json:"packages"`
	Destination trip.Destination               `json:"destination"`
	Dates       trip.TravelDates               `json:"dates"`
	Unavailable []trip.Tier                    `json:"unavailable,omitempty"`
	Degraded    bool                           `json:"degraded"`
}

// Packages prices one package per requested tier. A tier without flights or
// hotels is listed in Unavailable; only when every tier is unavailable does
// the call fail, with ErrNoAvailability.
func (p *Planner) Packages(ctx context.Context, q PackageQuery) (PackageResult, error) {
	origin, ok := destinations.FindAirport(q.OriginAirport)
	if !ok {
		return PackageResult{}, fmt.Errorf("%w: %q", ErrUnknownAirport, q.OriginAirport)
	}
	dest, ok := destinations.FindDestination(q.DestinationCity)
	if !ok {
		return PackageResult{}, fmt.Errorf("%w: %q", ErrUnknownDestination, q.DestinationCity)
	}
	tiers, err := normalizeTiers(q.Tiers)
	if err != nil {
		return PackageResult{}, err
	}

	dates := p.dates()
	dest.Weather = p.weather.Snapshot(ctx, dest.Coordinates())

	results := make([]tierResult, len(tiers))
	var g errgroup.Group
	for i, tier := range tiers {
		g.Go(func() error {
			results[i] = p.searchTier(ctx, origin, dest, dates, tier)
			return nil
		})
	}
	// searchTier reports failures in its result, never as an error.
	_ = g.Wait()

	out := PackageResult{
		Packages:    make(map[trip.Tier]trip.TripPackage, len(tiers)),
		Destination: dest,
		Dates:       dates,
		Degraded:    dest.Weather.Degraded,
	}
	for i, r := range results {
		if !r.ok {
			out.Unavailable = append(out.Unavailable, tiers[i])
			continue
		}
		if err := p.packages.Save(ctx, r.pkg); err != nil {
			return PackageResult{}, fmt.Errorf("save package %s: %w", r.pkg.ID, err)
		}
		out.Packages[tiers[i]] = r.pkg
		out.Degraded = out.Degraded || r.pkg.Degraded
	}

	if len(out.Packages) == 0 {
		return out, ErrNoAvailability
	}
	return out, nil
}

type tierResult struct {
	pkg trip.TripPackage
	ok  bool
}

// searchTier runs flight and hotel search concurrently; selection waits for
// both since it needs the full candidate set.
func (p *Planner) searchTier(ctx context.Context, origin trip.Airport, dest trip.Destination, dates trip.TravelDates, tier trip.Tier) tierResult {
	policy, _ := trip.PolicyFor(tier)

	var (
		flights services.FlightResult
		hotels  services.HotelResult
		g       errgroup.Group
	)
	g.Go(func() error {
		flights = p.flights.Search(ctx, services.FlightQuery{
			Origin:        origin.Code,
			Destination:   dest.Airport,
			DepartureDate: dates.CheckIn,
			ReturnDate:    dates.CheckOut,
			Passengers:    packagePassengers,
			CabinClass:    policy.CabinClass,
		}, tier)
		return nil
	})
	g.Go(func() error {
		hotels = p.hotels.Search(ctx, services.HotelQuery{
			City:           dest.City,
			Lat:            dest.Lat,
			Lon:            dest.Lon,
			CheckIn:        dates.CheckIn,
			CheckOut:       dates.CheckOut,
			Guests:         packageGuests,
			Rooms:          packageRooms,
			Stars:          policy.HotelStars,
			MinReviewScore: policy.MinReviewScore,
		})
		return nil
	})
	// Searches absorb provider errors into fallback results.
	_ = g.Wait()

	log := p.log.With("tier", string(tier), "destination", dest.City)
	if len(flights.Offers) == 0 || len(hotels.Offers) == 0 {
		log.Info("no options found",
			"flights", len(flights.Offers),
			"hotels", len(hotels.Offers))
		return tierResult{}
	}

	sel, err := p.selector.Select(ctx, selector.Input{
		Destination: dest,
		Dates:       dates,
		Tier:        tier,
		Flights:     flights.Offers,
		Hotels:      hotels.Offers,
	})
	if err != nil {
		if !errors.Is(err, selector.ErrNoCandidates) {
			log.Warn("selection failed", "error", err)
		}
		return tierResult{}
	}

	pkg, err := trip.Assemble(dest, dates, tier, sel.Flight, sel.Hotel, sel.Reasoning)
	if err != nil {
		log.Error("assemble failed", "error", err)
		return tierResult{}
	}
	pkg.ReasoningSource = sel.Source
	pkg.Degraded = dest.Weather.Degraded || flights.Degraded || hotels.Degraded

	p.metrics.Package(string(tier), pkg.Degraded)
	log.Info("package assembled",
		"package_id", pkg.ID,
		"total", pkg.TotalPrice,
		"flight_provider", flights.Provider,
		"hotel_provider", hotels.Provider,
		"reasoning_source", sel.Source,
		"degraded", pkg.Degraded)
	return tierResult{pkg: pkg, ok: true}
}

// normalizeTiers validates, de-duplicates and orders the requested tiers.
func normalizeTiers(requested []trip.Tier) ([]trip.Tier, error) {
	if len(requested) == 0 {
		return slices.Clone(trip.AllTiers), nil
	}
	var out []trip.Tier
	for _, t := range trip.AllTiers {
		if slices.Contains(requested, t) {
			out = append(out, t)
		}
	}
	for _, t := range requested {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: %q (want %s)", ErrInvalidTier, t, tierNames())
		}
	}
	return out, nil
}

func tierNames() string {
	names := make([]string, len(trip.AllTiers))
	for i, t := range trip.AllTiers {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
