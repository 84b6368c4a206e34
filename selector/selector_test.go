package selector

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"takemeto75/logger"
	"takemeto75/metrics"
	"takemeto75/trip"
)

func flight(id string, price float64, stops int) trip.FlightOffer {
	return trip.FlightOffer{
		ID:       id,
		Price:    price,
		Currency: "USD",
		Airline:  "United Airlines",
		Outbound: trip.Segment{Stops: stops},
	}
}

func hotel(id, name string, review, price float64) trip.HotelOffer {
	return trip.HotelOffer{ID: id, Name: name, ReviewScore: review, Price: price, Currency: "USD"}
}

func sampleInput(tier trip.Tier) Input {
	return Input{
		Destination: trip.Destination{City: "Lisbon", Country: "Portugal", CostIndex: 2},
		Dates:       trip.NewTravelDates(time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC), 3),
		Tier:        tier,
		Flights: []trip.FlightOffer{
			flight("f1", 480, 1),
			flight("f2", 420, 0),
			flight("f3", 420, 2),
		},
		Hotels: []trip.HotelOffer{
			hotel("h1", "Hotel Avenida", 86, 510),
			hotel("h2", "Four Seasons Ritz Lisbon", 88, 1900),
			hotel("h3", "Memmo Alfama", 94, 980),
		},
	}
}

func TestBasePicksCheapestFlight(t *testing.T) {
	flights := []trip.FlightOffer{flight("A", 300, 0), flight("B", 250, 0)}
	hotels := []trip.HotelOffer{hotel("h", "Inn", 85, 300)}

	f, _, err := SelectDeterministic(flights, hotels, trip.TierBase, 3)
	require.NoError(t, err)
	assert.Equal(t, "B", f.ID)
}

func TestBasePriceTieGoesToFewerStops(t *testing.T) {
	flights := []trip.FlightOffer{flight("one-stop", 250, 1), flight("nonstop", 250, 0)}
	ranked, err := RankFlights(flights, trip.TierBase)
	require.NoError(t, err)
	assert.Equal(t, "nonstop", ranked[0].ID)
}

func TestBaseHotelsPreferWellReviewed(t *testing.T) {
	hotels := []trip.HotelOffer{
		hotel("cheap-bad", "Motel", 60, 150),
		hotel("ok", "Inn", 82, 260),
		hotel("good", "Suites", 90, 240),
	}
	_, h, err := SelectDeterministic([]trip.FlightOffer{flight("f", 1, 0)}, hotels, trip.TierBase, 4)
	require.NoError(t, err)
	assert.Equal(t, "good", h.ID)

	poorOnly := []trip.HotelOffer{hotel("x", "X", 60, 300), hotel("y", "Y", 70, 200)}
	_, h, err = SelectDeterministic([]trip.FlightOffer{flight("f", 1, 0)}, poorOnly, trip.TierBase, 1)
	require.NoError(t, err)
	assert.Equal(t, "y", h.ID)
}

func TestPremiumPicksValueDensity(t *testing.T) {
	hotels := []trip.HotelOffer{hotel("X", "X", 90, 300), hotel("Y", "Y", 80, 100)}
	_, h, err := SelectDeterministic([]trip.FlightOffer{flight("f", 1, 0)}, hotels, trip.TierPremium, 3)
	require.NoError(t, err)
	assert.Equal(t, "Y", h.ID)
}

func TestPremiumFlightsPenaliseStops(t *testing.T) {
	// 400*1.2 = 480 > 450*1.0
	flights := []trip.FlightOffer{flight("two-stop", 400, 2), flight("nonstop", 450, 0)}
	ranked, err := RankFlights(flights, trip.TierPremium)
	require.NoError(t, err)
	assert.Equal(t, "nonstop", ranked[0].ID)
}

func TestLuxeBrandBeatsHigherReview(t *testing.T) {
	hotels := []trip.HotelOffer{
		hotel("indie", "Boutique Palace", 97, 2400),
		hotel("fs", "Four Seasons Resort", 91, 2600),
	}
	_, h, err := SelectDeterministic([]trip.FlightOffer{flight("f", 1, 0)}, hotels, trip.TierLuxe, 5)
	require.NoError(t, err)
	assert.Equal(t, "fs", h.ID)
}

func TestLuxeHotelTieBreaks(t *testing.T) {
	hotels := []trip.HotelOffer{
		{ID: "a", Name: "A", ReviewScore: 92, ReviewCount: 100},
		{ID: "b", Name: "B", ReviewScore: 92, ReviewCount: 900},
		{ID: "c", Name: "C", ReviewScore: 95, ReviewCount: 10},
		{ID: "d", Name: "D", ReviewScore: 92, ReviewCount: 900},
	}
	ranked, err := RankHotels(hotels, trip.TierLuxe, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "d", "a"}, hotelIDs(ranked))
}

func TestLuxeFlightsStopsFirst(t *testing.T) {
	flights := []trip.FlightOffer{flight("cheap-stop", 900, 1), flight("pricey-direct", 2100, 0), flight("direct", 1800, 0)}
	ranked, err := RankFlights(flights, trip.TierLuxe)
	require.NoError(t, err)
	assert.Equal(t, "direct", ranked[0].ID)
	assert.Equal(t, "cheap-stop", ranked[2].ID)
}

func hotelIDs(hs []trip.HotelOffer) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.ID
	}
	return out
}

func TestEmptyInputGuard(t *testing.T) {
	in := sampleInput(trip.TierBase)

	_, _, err := SelectDeterministic(nil, in.Hotels, trip.TierBase, 1)
	assert.ErrorIs(t, err, ErrNoCandidates)
	_, _, err = SelectDeterministic(in.Flights, []trip.HotelOffer{}, trip.TierLuxe, 1)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestDeterministicIsPureAndPicksFromInputs(t *testing.T) {
	for _, tier := range trip.AllTiers {
		t.Run(string(tier), func(t *testing.T) {
			in := sampleInput(tier)
			before := hotelIDs(in.Hotels)

			f1, h1, err := SelectDeterministic(in.Flights, in.Hotels, tier, in.Destination.CostIndex)
			require.NoError(t, err)
			f2, h2, err := SelectDeterministic(in.Flights, in.Hotels, tier, in.Destination.CostIndex)
			require.NoError(t, err)

			assert.Equal(t, f1, f2)
			assert.Equal(t, h1, h2)
			assert.Contains(t, in.Flights, f1)
			assert.Contains(t, in.Hotels, h1)
			assert.Equal(t, before, hotelIDs(in.Hotels), "input order must be preserved")
		})
	}
}

func TestUnknownTier(t *testing.T) {
	in := sampleInput("gold")
	_, _, err := SelectDeterministic(in.Flights, in.Hotels, "gold", 1)
	assert.Error(t, err)
}

func TestDeterministicSelectorReasoning(t *testing.T) {
	sel, err := NewDeterministic().Select(context.Background(), sampleInput(trip.TierLuxe))
	require.NoError(t, err)
	assert.Equal(t, SourceDeterministic, sel.Source)
	assert.Contains(t, sel.Reasoning, "Four Seasons Ritz Lisbon")
	assert.Contains(t, sel.Reasoning, "nonstop")
}

// ─── advisor ──────────────────────────────────────────────────────────────────

type stubAdvisor struct {
	reply  string
	err    error
	delay  time.Duration
	calls  int
	prompt string
}

func (s *stubAdvisor) Name() string { return "stub" }

func (s *stubAdvisor) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.reply, s.err
}

func newAdvised(a Advisor, m *metrics.Metrics) *Advised {
	return NewAdvised(a, NewDeterministic(), time.Second, logger.NewNop(), m)
}

func TestAdvisedFallbackMatchesDeterministic(t *testing.T) {
	for _, tier := range trip.AllTiers {
		t.Run(string(tier), func(t *testing.T) {
			in := sampleInput(tier)
			m := metrics.Nop()

			got, err := newAdvised(&stubAdvisor{reply: "not json at all"}, m).Select(context.Background(), in)
			require.NoError(t, err)
			want, err := NewDeterministic().Select(context.Background(), in)
			require.NoError(t, err)

			assert.Equal(t, want, got)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.AdvisorSelections.WithLabelValues(string(tier), "unparseable")))
		})
	}
}

func TestAdvisedAcceptsValidReply(t *testing.T) {
	in := sampleInput(trip.TierPremium)
	stub := &stubAdvisor{reply: "Sure! Here you go:\n```json\n" +
		`{"selected_flight_id": "f1", "selected_hotel_id": "h3", "reasoning": "Memmo has {great} views."}` +
		"\n```\nEnjoy."}

	sel, err := newAdvised(stub, metrics.Nop()).Select(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "f1", sel.Flight.ID)
	assert.Equal(t, "h3", sel.Hotel.ID)
	assert.Equal(t, "Memmo has {great} views.", sel.Reasoning)
	assert.Equal(t, SourceAdvisor, sel.Source)

	assert.Contains(t, stub.prompt, "[Flight 3] ID: f3")
	assert.Contains(t, stub.prompt, "[Hotel 2] ID: h2")
	assert.Contains(t, stub.prompt, "TIER CRITERIA FOR PREMIUM")
	assert.Contains(t, stub.prompt, "selected_flight_id")
}

func TestAdvisedIndexVariant(t *testing.T) {
	in := sampleInput(trip.TierBase)
	stub := &stubAdvisor{reply: `{"flightIndex": 2, "hotelIndex": 0, "reasoning": "cheap"}`}

	sel, err := newAdvised(stub, metrics.Nop()).Select(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "f3", sel.Flight.ID)
	assert.Equal(t, "h1", sel.Hotel.ID)
}

func TestAdvisedFallbacks(t *testing.T) {
	cases := []struct {
		name    string
		advisor *stubAdvisor
		outcome string
	}{
		{"dangling id", &stubAdvisor{reply: `{"selected_flight_id":"nope","selected_hotel_id":"h1","reasoning":"x"}`}, "dangling_reference"},
		{"index out of range", &stubAdvisor{reply: `{"flightIndex": 9, "hotelIndex": 0}`}, "dangling_reference"},
		{"missing hotel", &stubAdvisor{reply: `{"selected_flight_id":"f1"}`}, "unparseable"},
		{"truncated json", &stubAdvisor{reply: `{"selected_flight_id":"f1", "selected_`}, "unparseable"},
		{"transport error", &stubAdvisor{err: errors.New("503 model loading")}, "advisor_error"},
		{"timeout", &stubAdvisor{reply: `{"selected_flight_id":"f1","selected_hotel_id":"h1"}`, delay: time.Minute}, "advisor_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := sampleInput(trip.TierLuxe)
			m := metrics.Nop()
			s := NewAdvised(tc.advisor, NewDeterministic(), 20*time.Millisecond, logger.NewNop(), m)

			got, err := s.Select(context.Background(), in)
			require.NoError(t, err)
			want, _ := NewDeterministic().Select(context.Background(), in)
			assert.Equal(t, want, got)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.AdvisorSelections.WithLabelValues("luxe", tc.outcome)))
		})
	}
}

func TestAdvisedWithoutCredential(t *testing.T) {
	in := sampleInput(trip.TierBase)
	m := metrics.Nop()

	sel, err := NewAdvised(nil, NewDeterministic(), time.Second, logger.NewNop(), m).Select(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, SourceDeterministic, sel.Source)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AdvisorSelections.WithLabelValues("base", "no_credential")))
}

func TestAdvisedEmptyInputSkipsAdvisor(t *testing.T) {
	stub := &stubAdvisor{reply: `{}`}
	in := sampleInput(trip.TierBase)
	in.Flights = nil

	_, err := newAdvised(stub, metrics.Nop()).Select(context.Background(), in)
	assert.ErrorIs(t, err, ErrNoCandidates)
	assert.Zero(t, stub.calls)
}

func TestExtractObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{`{"a":1}`, `{"a":1}`, true},
		{`prefix {"a":{"b":"}"}} suffix {"c":2}`, `{"a":{"b":"}"}}`, true},
		{`{"a":"\"{"}`, `{"a":"\"{"}`, true},
		{`no braces`, "", false},
		{`{"open": true`, "", false},
	}
	for _, tc := range cases {
		got, ok := extractObject(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestNumericIDsAccepted(t *testing.T) {
	a, err := parseAdvice(`{"selected_flight_id": 42, "selected_hotel_id": "h1"}`)
	require.NoError(t, err)
	assert.Equal(t, flexString("42"), a.FlightID)
}

func TestPromptTruncatesAmenities(t *testing.T) {
	in := sampleInput(trip.TierLuxe)
	in.Hotels[0].Amenities = strings.Split("pool,spa,gym,bar,wifi,parking,beach", ",")
	p := BuildPrompt(in)
	assert.Contains(t, p, "- Amenities: pool, spa, gym, bar, wifi\n")
	assert.NotContains(t, p, "parking")
}
