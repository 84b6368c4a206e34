package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"takemeto75/trip"
)

var (
	// ErrNotConfigured means the provider has no credential and was skipped.
	ErrNotConfigured = errors.New("provider not configured")
	// ErrUnusableOffer marks a single raw offer that cannot be normalized.
	ErrUnusableOffer = errors.New("unusable offer")
)

// ─── Queries ──────────────────────────────────────────────────────────────────

type FlightQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Passengers    int
	CabinClass    trip.CabinClass
}

type HotelQuery struct {
	City           string
	Lat            float64
	Lon            float64
	CheckIn        string
	CheckOut       string
	Guests         int
	Rooms          int
	Stars          []int
	MinReviewScore float64 // 0-100
}

// ─── Raw offers ───────────────────────────────────────────────────────────────

// RawFlightOffer is one provider's record before normalization. Each provider
// type carries its own conversion.
type RawFlightOffer interface {
	Provider() string
	toFlight(markup float64) (trip.FlightOffer, error)
}

// RawHotelOffer converts to a HotelOffer, or to nil when the provider quoted
// no bookable product for the property.
type RawHotelOffer interface {
	Provider() string
	ReviewScale() ReviewScale
	toHotel() (*trip.HotelOffer, error)
}

type FlightSearcher interface {
	Name() string
	SearchFlights(ctx context.Context, q FlightQuery) ([]RawFlightOffer, error)
}

type HotelSearcher interface {
	Name() string
	SearchHotels(ctx context.Context, q HotelQuery) ([]RawHotelOffer, error)
}

// ─── Normalizer ───────────────────────────────────────────────────────────────

// Normalizer turns raw provider offers into canonical ones.
type Normalizer struct {
	flightMarkup map[trip.Tier]float64
}

// NewNormalizer takes per-tier flight markups in currency units. Tiers
// missing from the map use the policy markup.
func NewNormalizer(flightMarkup map[trip.Tier]float64) *Normalizer {
	m := make(map[trip.Tier]float64, len(trip.AllTiers))
	for _, p := range trip.Policies() {
		m[p.Tier] = p.Markup()
	}
	for t, v := range flightMarkup {
		m[t] = v
	}
	return &Normalizer{flightMarkup: m}
}

// Flight prices the offer at provider total plus the tier's flight markup.
func (n *Normalizer) Flight(raw RawFlightOffer, tier trip.Tier) (trip.FlightOffer, error) {
	markup, ok := n.flightMarkup[tier]
	if !ok {
		return trip.FlightOffer{}, fmt.Errorf("unknown tier %q", tier)
	}
	f, err := raw.toFlight(markup)
	if err != nil {
		return trip.FlightOffer{}, fmt.Errorf("%s flight: %w", raw.Provider(), err)
	}
	f.Provider = raw.Provider()
	return f, nil
}

// Hotel returns nil, nil when the raw record has nothing to sell.
func (n *Normalizer) Hotel(raw RawHotelOffer) (*trip.HotelOffer, error) {
	h, err := raw.toHotel()
	if err != nil {
		return nil, fmt.Errorf("%s hotel: %w", raw.Provider(), err)
	}
	if h == nil {
		return nil, nil
	}
	h.Provider = raw.Provider()
	h.ReviewScore = NormalizeReviewScore(h.ReviewScore, raw.ReviewScale())
	h.IsLuxuryBrand = trip.IsLuxuryBrand(h.Name)
	return h, nil
}

// ─── Review scale ─────────────────────────────────────────────────────────────

type ReviewScale int

const (
	// ScaleUnknown falls back to guessing: scores up to 10 are read as 0-10.
	ScaleUnknown ReviewScale = iota
	Scale10
	Scale100
)

// NormalizeReviewScore maps a provider score onto 0-100.
func NormalizeReviewScore(score float64, scale ReviewScale) float64 {
	switch scale {
	case Scale10:
		score *= 10
	case ScaleUnknown:
		if score <= 10 {
			score *= 10
		}
	}
	return math.Max(0, math.Min(100, score))
}

// ─── Field helpers ────────────────────────────────────────────────────────────

// parseAmount parses a decimal string. Empty, NaN and negative values are unusable.
func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: price %q", ErrUnusableOffer, s)
	}
	return v, nil
}

// timestampLayouts covers RFC 3339 and the zone-less local times providers send.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// segmentDuration prefers the departure/arrival timestamps and falls back to
// the provider's ISO-8601 duration.
func segmentDuration(departAt, arriveAt, iso string) int {
	dep, ok1 := parseTimestamp(departAt)
	arr, ok2 := parseTimestamp(arriveAt)
	if ok1 && ok2 && arr.After(dep) {
		return int(arr.Sub(dep).Minutes())
	}
	return parseISODuration(iso)
}

// parseISODuration converts PT5H30M to minutes.
func parseISODuration(iso string) int {
	s := strings.TrimPrefix(strings.ToUpper(iso), "P")
	days := 0
	if i := strings.Index(s, "D"); i >= 0 {
		days, _ = strconv.Atoi(s[:i])
		s = s[i+1:]
	}
	s = strings.TrimPrefix(s, "T")

	minutes := days * 24 * 60
	if i := strings.Index(s, "H"); i >= 0 {
		h, _ := strconv.Atoi(s[:i])
		minutes += h * 60
		s = s[i+1:]
	}
	if i := strings.Index(s, "M"); i >= 0 {
		m, _ := strconv.Atoi(s[:i])
		minutes += m
	}
	return minutes
}

func formatDurationMin(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func stopsFor(segments int) int {
	if segments < 1 {
		return 0
	}
	return segments - 1
}
