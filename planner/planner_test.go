package planner

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"takemeto75/database"
	"takemeto75/destinations"
	"takemeto75/logger"
	"takemeto75/metrics"
	"takemeto75/selector"
	"takemeto75/services"
	"takemeto75/trip"
)

var fixedNow = time.Date(2026, time.March, 1, 15, 0, 0, 0, time.UTC)

// latWeather reports a temperature derived from latitude so each result can
// be matched back to the destination it was fetched for.
type latWeather struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32
	degraded bool

	// southDegraded marks only southern-hemisphere forecasts as generated.
	southDegraded bool
}

func (w *latWeather) Snapshot(_ context.Context, c trip.Coordinates) trip.WeatherSnapshot {
	w.calls.Add(1)
	n := w.inFlight.Add(1)
	for {
		p := w.peak.Load()
		if n <= p || w.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)
	w.inFlight.Add(-1)
	return trip.WeatherSnapshot{AvgTemp: c.Lat, IsSunny: true, IsInRange: trip.InPleasantRange(c.Lat), Degraded: w.degraded || (w.southDegraded && c.Lat < 0)}
}

type stubFlights struct {
	mu      sync.Mutex
	queries map[trip.Tier]services.FlightQuery
	empty   map[trip.Tier]bool
}

func (s *stubFlights) Search(_ context.Context, q services.FlightQuery, tier trip.Tier) services.FlightResult {
	s.mu.Lock()
	if s.queries == nil {
		s.queries = map[trip.Tier]services.FlightQuery{}
	}
	s.queries[tier] = q
	s.mu.Unlock()

	if s.empty[tier] {
		return services.FlightResult{Provider: "duffel"}
	}
	return services.FlightResult{Provider: "duffel", Offers: []trip.FlightOffer{
		{ID: "off_" + string(tier), Price: 300, CabinClass: q.CabinClass},
	}}
}

type stubHotels struct {
	none bool
}

func (s *stubHotels) Search(_ context.Context, q services.HotelQuery) services.HotelResult {
	if s.none {
		return services.HotelResult{Provider: "booking"}
	}
	return services.HotelResult{Provider: "booking", Offers: []trip.HotelOffer{
		{ID: "h1", Name: "Harbor Inn", StarRating: q.Stars[0], ReviewScore: 88, Price: 360},
	}}
}

func newTestPlanner(w WeatherSource, f FlightSource, h HotelSource, store database.PackageStore) *Planner {
	p := New(w, f, h, selector.NewDeterministic(), store, Options{Nights: 3, BatchSize: 10}, logger.NewNop(), metrics.Nop())
	p.now = func() time.Time { return fixedNow }
	return p
}

func TestPackagesAllTiers(t *testing.T) {
	store := database.NewMemoryPackages()
	flights := &stubFlights{}
	p := newTestPlanner(&latWeather{}, flights, &stubHotels{}, store)

	res, err := p.Packages(context.Background(), PackageQuery{OriginAirport: "jfk", DestinationCity: "san diego"})
	require.NoError(t, err)

	assert.Len(t, res.Packages, 3)
	assert.Empty(t, res.Unavailable)
	assert.False(t, res.Degraded)
	assert.Equal(t, "San Diego", res.Destination.City)
	assert.Equal(t, "2026-03-02", res.Dates.CheckIn)
	assert.Equal(t, "2026-03-05", res.Dates.CheckOut)

	for tier, pkg := range res.Packages {
		policy, _ := trip.PolicyFor(tier)
		assert.Equal(t, tier, pkg.Tier)
		assert.Equal(t, trip.Round2(300+360+policy.Markup()), pkg.TotalPrice)
		assert.Equal(t, selector.SourceDeterministic, pkg.ReasoningSource)
		assert.Equal(t, policy.CabinClass, flights.queries[tier].CabinClass)
		assert.Equal(t, "JFK", flights.queries[tier].Origin)
		assert.Equal(t, "SAN", flights.queries[tier].Destination)

		stored, err := store.Get(context.Background(), pkg.ID)
		require.NoError(t, err)
		assert.Equal(t, pkg.ID, stored.ID)
	}
}

func TestPackagesTierWithoutFlightsIsUnavailable(t *testing.T) {
	flights := &stubFlights{empty: map[trip.Tier]bool{trip.TierLuxe: true}}
	p := newTestPlanner(&latWeather{}, flights, &stubHotels{}, database.NewMemoryPackages())

	res, err := p.Packages(context.Background(), PackageQuery{OriginAirport: "JFK", DestinationCity: "Miami"})
	require.NoError(t, err)
	assert.Len(t, res.Packages, 2)
	assert.Equal(t, []trip.Tier{trip.TierLuxe}, res.Unavailable)
}

func TestPackagesNoAvailability(t *testing.T) {
	p := newTestPlanner(&latWeather{}, &stubFlights{}, &stubHotels{none: true}, database.NewMemoryPackages())

	res, err := p.Packages(context.Background(), PackageQuery{OriginAirport: "JFK", DestinationCity: "Miami"})
	assert.ErrorIs(t, err, ErrNoAvailability)
	assert.Len(t, res.Unavailable, 3)
}

func TestPackagesValidation(t *testing.T) {
	p := newTestPlanner(&latWeather{}, &stubFlights{}, &stubHotels{}, database.NewMemoryPackages())
	ctx := context.Background()

	_, err := p.Packages(ctx, PackageQuery{OriginAirport: "XXX", DestinationCity: "Miami"})
	assert.ErrorIs(t, err, ErrUnknownAirport)

	_, err = p.Packages(ctx, PackageQuery{OriginAirport: "JFK", DestinationCity: "Atlantis"})
	assert.ErrorIs(t, err, ErrUnknownDestination)

	_, err = p.Packages(ctx, PackageQuery{OriginAirport: "JFK", DestinationCity: "Miami", Tiers: []trip.Tier{"gold"}})
	assert.ErrorIs(t, err, ErrInvalidTier)
}

func TestPackagesRequestedTiersInOrder(t *testing.T) {
	p := newTestPlanner(&latWeather{}, &stubFlights{}, &stubHotels{}, database.NewMemoryPackages())

	res, err := p.Packages(context.Background(), PackageQuery{
		OriginAirport:   "JFK",
		DestinationCity: "Miami",
		Tiers:           []trip.Tier{trip.TierLuxe, trip.TierBase, trip.TierLuxe},
	})
	require.NoError(t, err)
	assert.Len(t, res.Packages, 2)
	assert.Contains(t, res.Packages, trip.TierBase)
	assert.Contains(t, res.Packages, trip.TierLuxe)
}

func TestPackagesFromGeneratedDataAreDegraded(t *testing.T) {
	n := services.NewNormalizer(nil)
	flights := services.NewFlightFeed(n, logger.NewNop(), metrics.Nop())
	hotels := services.NewHotelFeed(n, logger.NewNop(), metrics.Nop())
	p := newTestPlanner(&latWeather{}, flights, hotels, database.NewMemoryPackages())

	res, err := p.Packages(context.Background(), PackageQuery{OriginAirport: "JFK", DestinationCity: "San Diego"})
	require.NoError(t, err)
	require.Len(t, res.Packages, 3)
	assert.True(t, res.Degraded)
	for tier, pkg := range res.Packages {
		policy, _ := trip.PolicyFor(tier)
		assert.True(t, pkg.Degraded)
		assert.True(t, policy.AllowsStars(pkg.Hotel.StarRating), "tier %s got %d stars", tier, pkg.Hotel.StarRating)
		assert.Equal(t, policy.CabinClass, pkg.Flight.CabinClass)
	}
}

func TestDestinationsBatchesAndKeepsOrder(t *testing.T) {
	w := &latWeather{}
	p := New(w, &stubFlights{}, &stubHotels{}, selector.NewDeterministic(), database.NewMemoryPackages(),
		Options{BatchSize: 4}, logger.NewNop(), metrics.Nop())

	dests := p.withWeather(context.Background(), destinations.Catalog)
	require.Len(t, dests, len(destinations.Catalog))
	for i, d := range dests {
		assert.Equal(t, destinations.Catalog[i].City, d.City)
		assert.Equal(t, d.Lat, d.Weather.AvgTemp)
	}
	assert.Equal(t, int32(len(destinations.Catalog)), w.calls.Load())
	assert.LessOrEqual(t, w.peak.Load(), int32(4))
}

func TestDestinationsOrigin(t *testing.T) {
	p := newTestPlanner(&latWeather{degraded: true}, &stubFlights{}, &stubHotels{}, database.NewMemoryPackages())
	ctx := context.Background()

	res := p.Destinations(ctx, DestinationQuery{Airport: "lax", Limit: 5})
	assert.Equal(t, "LAX", res.UserAirport.Code)
	assert.Len(t, res.Destinations, 5)
	assert.True(t, res.Degraded)
	assert.Equal(t, "2026-03-02", res.Dates.CheckIn)

	lat, lon := 25.76, -80.19
	res = p.Destinations(ctx, DestinationQuery{Airport: "ZZZ", Lat: &lat, Lon: &lon})
	assert.Equal(t, "MIA", res.UserAirport.Code)
	assert.Len(t, res.Destinations, 10)

	// Manhattan is closest to LaGuardia.
	res = p.Destinations(ctx, DestinationQuery{})
	assert.Equal(t, "LGA", res.UserAirport.Code)
}

func TestDestinationsDegradedOnlyByReturnedResults(t *testing.T) {
	p := newTestPlanner(&latWeather{southDegraded: true}, &stubFlights{}, &stubHotels{}, database.NewMemoryPackages())
	ctx := context.Background()

	res := p.Destinations(ctx, DestinationQuery{Airport: "MIA", MaxDistance: 1200, Limit: 50})
	require.NotEmpty(t, res.Destinations)
	for _, d := range res.Destinations {
		require.False(t, d.Weather.Degraded, d.City)
	}
	assert.False(t, res.Degraded)

	res = p.Destinations(ctx, DestinationQuery{Airport: "MIA", Limit: 100})
	assert.True(t, res.Degraded)
}

func TestDestinationsMaxDistance(t *testing.T) {
	p := newTestPlanner(&latWeather{}, &stubFlights{}, &stubHotels{}, database.NewMemoryPackages())

	res := p.Destinations(context.Background(), DestinationQuery{Airport: "MIA", MaxDistance: 1200, Limit: 50})
	require.NotEmpty(t, res.Destinations)
	for _, d := range res.Destinations {
		assert.LessOrEqual(t, d.Distance, 1200.0)
	}
}
