package trip

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTier(t *testing.T) {
	tier, err := ParseTier(" Luxe ")
	require.NoError(t, err)
	assert.Equal(t, TierLuxe, tier)

	_, err = ParseTier("gold")
	assert.Error(t, err)
}

func TestPolicyTable(t *testing.T) {
	cases := []struct {
		tier   Tier
		cabin  CabinClass
		stars  int
		markup float64
	}{
		{TierBase, CabinEconomy, 3, 25},
		{TierPremium, CabinPremiumEconomy, 4, 40},
		{TierLuxe, CabinBusiness, 5, 75},
	}
	for _, tc := range cases {
		t.Run(string(tc.tier), func(t *testing.T) {
			p, ok := PolicyFor(tc.tier)
			require.True(t, ok)
			assert.Equal(t, tc.cabin, p.CabinClass)
			assert.True(t, p.AllowsStars(tc.stars))
			assert.False(t, p.AllowsStars(tc.stars-1))
			assert.Equal(t, tc.markup, p.Markup())
		})
	}

	_, ok := PolicyFor("gold")
	assert.False(t, ok)
}

func TestPolicyForReturnsCopy(t *testing.T) {
	p, _ := PolicyFor(TierLuxe)
	p.PreferredBrands[0] = "Motel 6"
	p.HotelStars[0] = 1

	again, _ := PolicyFor(TierLuxe)
	assert.Equal(t, "Four Seasons", again.PreferredBrands[0])
	assert.Equal(t, []int{5}, again.HotelStars)
}

func TestMatchesPreferredBrand(t *testing.T) {
	p, _ := PolicyFor(TierLuxe)
	assert.True(t, p.MatchesPreferredBrand("FOUR SEASONS Resort Maui"))
	assert.True(t, p.MatchesPreferredBrand("The St. Regis Bal Harbour"))
	assert.False(t, p.MatchesPreferredBrand("Grand Hyatt"))

	base, _ := PolicyFor(TierBase)
	assert.False(t, base.MatchesPreferredBrand("Four Seasons"))
}

func TestIsLuxuryBrand(t *testing.T) {
	assert.True(t, IsLuxuryBrand("Park Hyatt Tokyo"))
	assert.True(t, IsLuxuryBrand("rosewood miramar"))
	assert.False(t, IsLuxuryBrand("Holiday Inn Express"))
}

func TestNewTravelDates(t *testing.T) {
	now := time.Date(2024, time.December, 26, 22, 15, 0, 0, time.UTC)
	d := NewTravelDates(now, 0)

	assert.Equal(t, "2024-12-27", d.CheckIn)
	assert.Equal(t, "2024-12-30", d.CheckOut)
	assert.Equal(t, DefaultNights, d.Nights)
	assert.Equal(t, "Fri, Dec 27", d.Display.CheckIn)
	assert.Equal(t, "Mon, Dec 30", d.Display.CheckOut)

	d = NewTravelDates(now, 5)
	assert.Equal(t, "2025-01-01", d.CheckOut)

	n, err := NightsBetween(d.CheckIn, d.CheckOut)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestNightsBetweenRejectsBadRanges(t *testing.T) {
	_, err := NightsBetween("2024-12-27", "2024-12-27")
	assert.Error(t, err)
	_, err = NightsBetween("27/12/2024", "2024-12-30")
	assert.Error(t, err)
}

func TestInPleasantRange(t *testing.T) {
	assert.True(t, InPleasantRange(69))
	assert.True(t, InPleasantRange(78))
	assert.False(t, InPleasantRange(79))
	assert.False(t, InPleasantRange(68.9))
}

func days(codes ...int) []DayForecast {
	out := make([]DayForecast, len(codes))
	for i, c := range codes {
		out[i] = DayForecast{Code: c, Avg: 75}
	}
	return out
}

func TestSunnyForecast(t *testing.T) {
	cases := []struct {
		name  string
		codes []int
		want  bool
	}{
		{"empty", nil, false},
		{"all clear", []int{1000, 1000, 1003}, true},
		{"clear majority", []int{1000, 1003, 1000, 1183, 1183}, true},
		{"half clear plus cloudy", []int{1000, 1003, 1006, 1183}, true},
		{"half clear plus rain", []int{1000, 1003, 1183, 1183}, false},
		{"cloudy without clear half", []int{1000, 1006, 1006, 1006}, false},
		{"rain", []int{1183, 1189, 1000}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SunnyForecast(days(tc.codes...)))
		})
	}
}

func TestNewWeatherSnapshot(t *testing.T) {
	forecast := []DayForecast{
		{Date: "2024-12-27", Avg: 74.2, Code: 1000},
		{Date: "2024-12-28", Avg: 76.9, Code: 1003},
		{Date: "2024-12-29", Avg: 75.0, Code: 1183},
	}
	snap := NewWeatherSnapshot(forecast, "Sunny", 60)

	assert.Equal(t, 75.0, snap.AvgTemp)
	assert.True(t, snap.IsSunny)
	assert.True(t, snap.IsInRange)
	assert.True(t, snap.Forecast[0].IsSunny)
	assert.False(t, snap.Forecast[2].IsSunny)
}

func TestAssembleTotals(t *testing.T) {
	dest := Destination{City: "San Diego", Airport: "SAN"}
	dates := NewTravelDates(time.Now(), 3)
	flight := FlightOffer{ID: "f1", Price: 312.45}
	hotel := HotelOffer{ID: "h1", Price: 540.10}

	for _, tier := range AllTiers {
		t.Run(string(tier), func(t *testing.T) {
			p, _ := PolicyFor(tier)
			pkg, err := Assemble(dest, dates, tier, flight, hotel, "because")
			require.NoError(t, err)

			assert.Equal(t, Round2(312.45+540.10+p.Markup()), pkg.TotalPrice)
			assert.Equal(t, p.Markup(), pkg.Breakdown.Markup)
			assert.Equal(t, ReportingCurrency, pkg.Currency)
			assert.Equal(t, tier, pkg.Tier)
			assert.True(t, strings.HasPrefix(pkg.ID, "pkg_"))
			assert.Equal(t, "because", pkg.Reasoning)
		})
	}
}

func TestAssembleUniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		pkg, err := Assemble(Destination{}, TravelDates{}, TierBase, FlightOffer{}, HotelOffer{}, "")
		require.NoError(t, err)
		require.False(t, seen[pkg.ID], "duplicate id %s", pkg.ID)
		seen[pkg.ID] = true
	}
}

func TestAssembleUnknownTier(t *testing.T) {
	_, err := Assemble(Destination{}, TravelDates{}, "gold", FlightOffer{}, HotelOffer{}, "")
	assert.Error(t, err)
}

func TestBookingRefundOpen(t *testing.T) {
	created := time.Date(2024, 12, 27, 10, 0, 0, 0, time.UTC)
	b := Booking{CreatedAt: created, RefundDeadline: created.Add(RefundWindow)}

	assert.True(t, b.RefundOpen(created.Add(59*time.Minute)))
	assert.False(t, b.RefundOpen(b.RefundDeadline))
	assert.False(t, b.RefundOpen(b.RefundDeadline.Add(time.Second)))
}

func TestNightlyRate(t *testing.T) {
	h := HotelOffer{Price: 600}
	assert.Equal(t, 200.0, h.NightlyRate(3))
	assert.Equal(t, 600.0, h.NightlyRate(0))
}
