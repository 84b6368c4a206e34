package trip

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Round2 rounds to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// NewID returns "<prefix>_<unix ms>_<random>", unique for the process lifetime.
func NewID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), uuid.NewString()[:8])
}

// Assemble prices a selected flight and hotel into a TripPackage:
// total = flight + hotel + tier markup, rounded to cents.
func Assemble(dest Destination, dates TravelDates, tier Tier, flight FlightOffer, hotel HotelOffer, reasoning string) (TripPackage, error) {
	return assembleAt(time.Now().UTC(), dest, dates, tier, flight, hotel, reasoning)
}

func assembleAt(now time.Time, dest Destination, dates TravelDates, tier Tier, flight FlightOffer, hotel HotelOffer, reasoning string) (TripPackage, error) {
	policy, ok := PolicyFor(tier)
	if !ok {
		return TripPackage{}, fmt.Errorf("unknown tier %q", tier)
	}
	markup := policy.Markup()

	return TripPackage{
		ID:          NewID("pkg", now) + "_" + string(tier),
		Tier:        tier,
		Destination: dest,
		Dates:       dates,
		Flight:      flight,
		Hotel:       hotel,
		TotalPrice:  Round2(flight.Price + hotel.Price + markup),
		Currency:    ReportingCurrency,
		Breakdown: PriceBreakdown{
			Flight: flight.Price,
			Hotel:  hotel.Price,
			Markup: markup,
		},
		Reasoning: reasoning,
		CreatedAt: now,
	}, nil
}
