package services

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"takemeto75/trip"
)

// Generated data is seeded from the query so the same search yields the
// same offers, which keeps degraded results reproducible.

func seeded(parts ...string) *rand.Rand {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	sum := h.Sum64()
	return rand.New(rand.NewPCG(sum, sum>>17|sum<<47))
}

// ─── Weather ──────────────────────────────────────────────────────────────────

// MockWeather models temperature from latitude and season. Results are
// flagged Degraded.
func MockWeather(c trip.Coordinates, start time.Time, days int) trip.WeatherSnapshot {
	if days < 1 {
		days = 7
	}
	date := start.Format("2006-01-02")
	r := seeded("weather", fmt.Sprintf("%.3f,%.3f", c.Lat, c.Lon), date)

	base := 85 - math.Abs(c.Lat)*0.8 + (r.Float64()-0.5)*10
	if isSummer(c.Lat, start.Month()) {
		base += 5
	} else {
		base -= 5
	}
	base = math.Round(base)

	forecast := make([]trip.DayForecast, 0, days)
	for i := 0; i < days; i++ {
		dayVariance := (r.Float64() - 0.5) * 6
		code, text := mockCondition(r.Float64())
		forecast = append(forecast, trip.DayForecast{
			Date:      start.AddDate(0, 0, i).Format("2006-01-02"),
			High:      math.Round(base + 5 + dayVariance),
			Low:       math.Round(base - 8 + dayVariance),
			Avg:       math.Round(base + dayVariance),
			Condition: text,
			Code:      code,
		})
	}

	snap := trip.NewWeatherSnapshot(forecast, forecast[0].Condition, 40+r.IntN(40))
	snap.Degraded = true
	return snap
}

func isSummer(lat float64, m time.Month) bool {
	if lat < 0 {
		return m >= time.November || m <= time.March
	}
	return m >= time.May && m <= time.September
}

func mockCondition(p float64) (int, string) {
	switch {
	case p < 0.5:
		return trip.CodeSunny, "Sunny"
	case p < 0.7:
		return trip.CodePartlyCloudy, "Partly cloudy"
	case p < 0.85:
		return trip.CodeCloudy, "Cloudy"
	}
	return 1183, "Light rain"
}

// ─── Flights ──────────────────────────────────────────────────────────────────

var mockAirlines = []duffelCarrier{
	{Name: "United Airlines", IATACode: "UA"},
	{Name: "American Airlines", IATACode: "AA"},
	{Name: "Delta Air Lines", IATACode: "DL"},
}

// mockFlightBase is the upstream fare floor per cabin.
var mockFlightBase = map[trip.CabinClass]float64{
	trip.CabinEconomy:        250,
	trip.CabinPremiumEconomy: 450,
	trip.CabinBusiness:       1200,
	trip.CabinFirst:          2500,
}

// MockFlights returns generated Duffel-shaped offers for q.
func MockFlights(q FlightQuery) []RawFlightOffer {
	cabin := q.CabinClass
	if cabin == "" {
		cabin = trip.CabinEconomy
	}
	r := seeded("flights", q.Origin, q.Destination, q.DepartureDate, q.ReturnDate, string(cabin))
	premiumCabin := cabin != trip.CabinEconomy

	offers := make([]RawFlightOffer, 0, len(mockAirlines))
	for i, airline := range mockAirlines {
		price := mockFlightBase[cabin] + r.Float64()*200
		hour := 6 + r.IntN(12)

		var o DuffelOffer
		o.ID = fmt.Sprintf("off_mock_%s%s_%d", strings.ToLower(q.Destination), string(cabin[0]), i)
		o.TotalAmount = fmt.Sprintf("%.2f", price)
		o.TotalCurrency = trip.ReportingCurrency
		o.Owner.Name = airline.Name
		o.Owner.IATACode = airline.IATACode
		o.Slices = []duffelSlice{
			mockSlice(airline, q.Origin, q.Destination, q.DepartureDate, hour, 100+i*50),
			mockSlice(airline, q.Destination, q.Origin, q.ReturnDate, hour+2, 101+i*50),
		}
		passenger := duffelOfferPassenger{ID: "pas_mock_0", CabinClass: string(cabin)}
		if premiumCabin {
			passenger.Baggages = []duffelBaggage{{Type: "checked", Quantity: 1}}
		}
		o.Passengers = []duffelOfferPassenger{passenger}
		o.Conditions.RefundBeforeDeparture = &struct {
			Allowed bool `json:"allowed"`
		}{Allowed: premiumCabin}

		offers = append(offers, o)
	}
	return offers
}

func mockSlice(airline duffelCarrier, from, to, date string, hour, number int) duffelSlice {
	return duffelSlice{Segments: []duffelSegment{{
		Origin:                       duffelPlace{IATACode: from},
		Destination:                  duffelPlace{IATACode: to},
		DepartingAt:                  fmt.Sprintf("%sT%02d:00:00", date, hour),
		ArrivingAt:                   fmt.Sprintf("%sT%02d:30:00", date, hour+4),
		Duration:                     "PT4H30M",
		OperatingCarrier:             airline,
		OperatingCarrierFlightNumber: fmt.Sprint(number),
	}}}
}

// ─── Hotels ───────────────────────────────────────────────────────────────────

type hotelTemplate struct {
	name      string
	class     int
	basePrice float64
}

var mockHotelTemplates = []hotelTemplate{
	{name: "Grand Plaza Hotel", class: 5, basePrice: 350},
	{name: "The Ritz Downtown", class: 5, basePrice: 450},
	{name: "Harbor View Suites", class: 4, basePrice: 220},
	{name: "City Center Inn", class: 4, basePrice: 180},
	{name: "Comfort Stay Hotel", class: 3, basePrice: 120},
	{name: "Budget Express", class: 3, basePrice: 95},
}

// MockHotels returns generated Booking.com-shaped accommodations for q,
// restricted to the requested star ratings.
func MockHotels(q HotelQuery) []RawHotelOffer {
	nights, err := trip.NightsBetween(q.CheckIn, q.CheckOut)
	if err != nil || nights < 1 {
		nights = 1
	}
	r := seeded("hotels", q.City, q.CheckIn, q.CheckOut)
	slug := func(s string) string { return strings.ReplaceAll(strings.ToLower(s), " ", "-") }

	var offers []RawHotelOffer
	for i, t := range mockHotelTemplates {
		// Draw for every template so filtering does not shift the sequence.
		variance := 0.8 + r.Float64()*0.4
		review := 80 + r.IntN(15)
		reviews := 100 + r.IntN(900)
		distance := 0.5 + r.Float64()*2

		if len(q.Stars) > 0 && !slices.Contains(q.Stars, t.class) {
			continue
		}

		nightly := math.Round(t.basePrice * variance)
		a := BookingAccommodation{
			ID:              int64(1000000 + i),
			Name:            t.name,
			Class:           t.class,
			ReviewScore:     float64(review),
			NumberOfReviews: reviews,
			Address:         fmt.Sprintf("%d Main Street", 100+i*10),
			City:            q.City,
			Currency:        trip.ReportingCurrency,
			URL:             fmt.Sprintf("https://www.booking.com/hotel/%s/%s.html", slug(q.City), slug(t.name)),
			Photos:          []bookingPhoto{{URL: fmt.Sprintf("https://picsum.photos/seed/%d/400/300", i)}},
			Facilities:      []bookingName{{Name: "Free WiFi"}, {Name: "Air conditioning"}},
		}
		if t.class >= 4 {
			a.Facilities = append(a.Facilities, bookingName{Name: "Fitness center"}, bookingName{Name: "Pool"})
		}
		if t.class >= 5 {
			a.Facilities = append(a.Facilities, bookingName{Name: "Spa"}, bookingName{Name: "Concierge"})
		}
		a.Distance = &struct {
			Value float64 `json:"value"`
			Unit  string  `json:"unit"`
		}{Value: math.Round(distance*10) / 10, Unit: "km"}

		product := bookingProduct{ID: fmt.Sprintf("prod_%d", i), RoomName: "Standard Room"}
		product.Price.Total = fmt.Sprintf("%.0f", nightly*float64(nights))
		product.Price.Currency = trip.ReportingCurrency
		cancellation := "non_refundable"
		if t.class >= 4 {
			product.RoomName = "Deluxe King Room"
			product.MealPlan = "Breakfast included"
			cancellation = "free_cancellation"
		}
		product.Cancellation = &struct {
			Type string `json:"type"`
		}{Type: cancellation}
		a.Products = []bookingProduct{product}

		offers = append(offers, a)
	}
	return offers
}
