package trip

import (
	"fmt"
	"strings"
	"time"
)

// ReportingCurrency is the single currency packages are priced in.
const ReportingCurrency = "USD"

// ─── Tiers ────────────────────────────────────────────────────────────────────

type Tier string

const (
	TierBase    Tier = "base"
	TierPremium Tier = "premium"
	TierLuxe    Tier = "luxe"
)

// AllTiers lists every tier in display order.
var AllTiers = []Tier{TierBase, TierPremium, TierLuxe}

func (t Tier) Valid() bool {
	switch t {
	case TierBase, TierPremium, TierLuxe:
		return true
	}
	return false
}

func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown tier %q", s)
	}
	return t, nil
}

type CabinClass string

const (
	CabinEconomy        CabinClass = "economy"
	CabinPremiumEconomy CabinClass = "premium_economy"
	CabinBusiness       CabinClass = "business"
	CabinFirst          CabinClass = "first"
)

// ─── Offers ───────────────────────────────────────────────────────────────────

type Endpoint struct {
	Airport string `json:"airport"`
	Time    string `json:"time"` // ISO-8601 timestamp as reported by the provider
}

// Segment summarises one direction of a round trip.
type Segment struct {
	Departure       Endpoint `json:"departure"`
	Arrival         Endpoint `json:"arrival"`
	Duration        string   `json:"duration"` // "4h 30m"
	DurationMinutes int      `json:"duration_minutes"`
	Stops           int      `json:"stops"`
	Carrier         string   `json:"carrier"`
	FlightNumber    string   `json:"flight_number"`
}

type FlightOffer struct {
	ID              string     `json:"id"`
	Provider        string     `json:"provider"`
	Price           float64    `json:"price"`
	Currency        string     `json:"currency"`
	Airline         string     `json:"airline"`
	AirlineLogo     string     `json:"airline_logo,omitempty"`
	Outbound        Segment    `json:"outbound"`
	Inbound         Segment    `json:"inbound"`
	CabinClass      CabinClass `json:"cabin_class"`
	BaggageIncluded bool       `json:"baggage_included"`
	Refundable      bool       `json:"refundable"`
}

// HotelOffer prices are for the entire stay, never per night.
type HotelOffer struct {
	ID                 string   `json:"id"`
	Provider           string   `json:"provider"`
	ProductID          string   `json:"product_id,omitempty"`
	Name               string   `json:"name"`
	StarRating         int      `json:"star_rating"`
	ReviewScore        float64  `json:"review_score"` // 0-100
	ReviewCount        int      `json:"review_count"`
	Price              float64  `json:"price"`
	Currency           string   `json:"currency"`
	Address            string   `json:"address"`
	DistanceFromCenter string   `json:"distance_from_center"`
	Photos             []string `json:"photos"`
	Amenities          []string `json:"amenities"`
	RoomType           string   `json:"room_type"`
	FreeCancellation   bool     `json:"free_cancellation"`
	BreakfastIncluded  bool     `json:"breakfast_included"`
	URL                string   `json:"url"`
	IsLuxuryBrand      bool     `json:"is_luxury_brand"`
}

// NightlyRate divides the stay price across nights. Zero nights yields the
// full price.
func (h HotelOffer) NightlyRate(nights int) float64 {
	if nights <= 0 {
		return h.Price
	}
	return Round2(h.Price / float64(nights))
}

// ─── Places & weather ─────────────────────────────────────────────────────────

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Airport struct {
	Code string  `json:"code"`
	Name string  `json:"name"`
	City string  `json:"city"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

func (a Airport) Coordinates() Coordinates {
	return Coordinates{Lat: a.Lat, Lon: a.Lon}
}

type DayForecast struct {
	Date      string  `json:"date"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Avg       float64 `json:"avg"`
	Condition string  `json:"condition"`
	Code      int     `json:"code"`
	IsSunny   bool    `json:"is_sunny"`
}

type WeatherSnapshot struct {
	AvgTemp   float64       `json:"avg_temp"` // °F
	Condition string        `json:"condition"`
	IsSunny   bool          `json:"is_sunny"`
	IsInRange bool          `json:"is_in_range"`
	Humidity  int           `json:"humidity"`
	Forecast  []DayForecast `json:"forecast"`
	Degraded  bool          `json:"degraded,omitempty"`
}

type Destination struct {
	City      string          `json:"city"`
	Country   string          `json:"country"`
	Airport   string          `json:"airport"`
	Lat       float64         `json:"lat"`
	Lon       float64         `json:"lon"`
	Region    string          `json:"region"`
	Weather   WeatherSnapshot `json:"weather"`
	Distance  float64         `json:"distance"` // miles from the traveler's airport
	Blurb     string          `json:"blurb"`
	CostIndex int             `json:"cost_index"` // 1 (cheapest) - 5
}

func (d Destination) Coordinates() Coordinates {
	return Coordinates{Lat: d.Lat, Lon: d.Lon}
}

// ─── Packages ─────────────────────────────────────────────────────────────────

type TravelDates struct {
	CheckIn  string       `json:"check_in"`  // YYYY-MM-DD
	CheckOut string       `json:"check_out"` // YYYY-MM-DD
	Display  DatesDisplay `json:"display"`
	Nights   int          `json:"nights"`
}

type DatesDisplay struct {
	CheckIn  string `json:"check_in"`  // "Fri, Dec 27"
	CheckOut string `json:"check_out"` // "Mon, Dec 30"
}

type PriceBreakdown struct {
	Flight float64 `json:"flight"`
	Hotel  float64 `json:"hotel"`
	Markup float64 `json:"markup"`
}

type TripPackage struct {
	ID              string         `json:"id"`
	Tier            Tier           `json:"tier"`
	Destination     Destination    `json:"destination"`
	Dates           TravelDates    `json:"dates"`
	Flight          FlightOffer    `json:"flight"`
	Hotel           HotelOffer     `json:"hotel"`
	TotalPrice      float64        `json:"total_price"`
	Currency        string         `json:"currency"`
	Breakdown       PriceBreakdown `json:"breakdown"`
	Reasoning       string         `json:"ai_reasoning"`
	ReasoningSource string         `json:"reasoning_source,omitempty"`
	Degraded        bool           `json:"degraded"`
	CreatedAt       time.Time      `json:"created_at"`
}

// ─── Bookings ─────────────────────────────────────────────────────────────────

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// RefundWindow is how long after creation a booking may be cancelled.
const RefundWindow = time.Hour

type Passenger struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
}

type Booking struct {
	ID               string        `json:"id"`
	Package          TripPackage   `json:"trip_package"`
	Passenger        Passenger     `json:"passenger"`
	FlightOrderID    string        `json:"flight_order_id,omitempty"`
	HotelOrderID     string        `json:"hotel_order_id,omitempty"`
	HotelCheckoutURL string        `json:"hotel_checkout_url,omitempty"`
	Status           BookingStatus `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	RefundDeadline   time.Time     `json:"refund_deadline"`
	CancelledAt      *time.Time    `json:"cancelled_at,omitempty"`
}

// RefundOpen reports whether a cancellation submitted at now is inside the
// refund window.
func (b Booking) RefundOpen(now time.Time) bool {
	return now.Before(b.RefundDeadline)
}
