package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"takemeto75/config"
	"takemeto75/logger"
	"takemeto75/metrics"
	"takemeto75/trip"
)

const (
	amadeusHotelBatch    = 50
	amadeusHotelRadiusKM = 10
	amadeusMaxFlights    = 20
)

// ─── Amadeus Client ───────────────────────────────────────────────────────────

type AmadeusClient struct {
	upstream
	clientID     string
	clientSecret string
	baseURL      string

	tokensOnce sync.Once
	tokens     oauth2.TokenSource
}

func NewAmadeusClient(cfg config.Amadeus, log logger.Logger, m *metrics.Metrics) *AmadeusClient {
	return &AmadeusClient{
		upstream:     newUpstream("amadeus", cfg.RatePerSecond, log, m),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      strings.TrimRight(cfg.BaseURL(), "/"),
	}
}

func (c *AmadeusClient) Name() string { return "amadeus" }

func (c *AmadeusClient) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// ─── OAuth2 Token ─────────────────────────────────────────────────────────────

// tokenSource returns the shared client-credentials source. It caches the
// access token and serialises refreshes across concurrent searches.
func (c *AmadeusClient) tokenSource() oauth2.TokenSource {
	c.tokensOnce.Do(func() {
		cc := clientcredentials.Config{
			ClientID:     c.clientID,
			ClientSecret: c.clientSecret,
			TokenURL:     c.baseURL + "/v1/security/oauth2/token",
			AuthStyle:    oauth2.AuthStyleInParams,
		}
		// Refreshes run detached from callers, bounded by the client timeout.
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
		c.tokens = cc.TokenSource(ctx)
	})
	return c.tokens
}

func (c *AmadeusClient) getToken(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tok, err := c.tokenSource().Token()
	if err != nil {
		c.metrics.Upstream(c.name, metrics.OutcomeError)
		return "", fmt.Errorf("token request failed: %w", err)
	}
	return tok.AccessToken, nil
}

func (c *AmadeusClient) get(ctx context.Context, path string, out interface{}) error {
	token, err := c.getToken(ctx)
	if err != nil {
		return fmt.Errorf("auth failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	body, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse amadeus response: %w", err)
	}
	return nil
}

// ─── Flight Search ────────────────────────────────────────────────────────────

type amadeusPoint struct {
	IataCode string `json:"iataCode"`
	At       string `json:"at"`
}

type amadeusSegment struct {
	Departure   amadeusPoint `json:"departure"`
	Arrival     amadeusPoint `json:"arrival"`
	CarrierCode string       `json:"carrierCode"`
	Number      string       `json:"number"`
	Operating   *struct {
		CarrierCode string `json:"carrierCode"`
	} `json:"operating"`
}

type amadeusItinerary struct {
	Duration string           `json:"duration"`
	Segments []amadeusSegment `json:"segments"`
}

// AmadeusFlightOffer is one entry of the Flight Offers Search response.
type AmadeusFlightOffer struct {
	ID    string `json:"id"`
	Price struct {
		GrandTotal string `json:"grandTotal"`
		Currency   string `json:"currency"`
	} `json:"price"`
	Itineraries            []amadeusItinerary `json:"itineraries"`
	ValidatingAirlineCodes []string           `json:"validatingAirlineCodes"`
	TravelerPricings       []struct {
		FareDetailsBySegment []struct {
			Cabin               string `json:"cabin"`
			IncludedCheckedBags *struct {
				Quantity int `json:"quantity"`
			} `json:"includedCheckedBags"`
		} `json:"fareDetailsBySegment"`
	} `json:"travelerPricings"`
}

func (o AmadeusFlightOffer) Provider() string { return "amadeus" }

func (o AmadeusFlightOffer) toFlight(markup float64) (trip.FlightOffer, error) {
	if len(o.Itineraries) < 2 {
		return trip.FlightOffer{}, fmt.Errorf("%w: %d itineraries", ErrUnusableOffer, len(o.Itineraries))
	}
	price, err := parseAmount(o.Price.GrandTotal)
	if err != nil {
		return trip.FlightOffer{}, err
	}
	outbound, err := o.Itineraries[0].summary()
	if err != nil {
		return trip.FlightOffer{}, err
	}
	inbound, err := o.Itineraries[1].summary()
	if err != nil {
		return trip.FlightOffer{}, err
	}

	airlineCode := o.Itineraries[0].Segments[0].CarrierCode
	if airlineCode == "" && len(o.ValidatingAirlineCodes) > 0 {
		airlineCode = o.ValidatingAirlineCodes[0]
	}

	cabin := trip.CabinEconomy
	baggage := false
	if len(o.TravelerPricings) > 0 {
		for i, fd := range o.TravelerPricings[0].FareDetailsBySegment {
			if i == 0 && fd.Cabin != "" {
				cabin = trip.CabinClass(strings.ToLower(fd.Cabin))
			}
			if fd.IncludedCheckedBags != nil && fd.IncludedCheckedBags.Quantity > 0 {
				baggage = true
			}
		}
	}

	return trip.FlightOffer{
		ID:              "amadeus_" + o.ID,
		Price:           trip.Round2(price + markup),
		Currency:        o.Price.Currency,
		Airline:         airlineName(airlineCode),
		Outbound:        outbound,
		Inbound:         inbound,
		CabinClass:      cabin,
		BaggageIncluded: baggage,
	}, nil
}

func (it amadeusItinerary) summary() (trip.Segment, error) {
	if len(it.Segments) == 0 {
		return trip.Segment{}, fmt.Errorf("%w: empty itinerary", ErrUnusableOffer)
	}
	first := it.Segments[0]
	last := it.Segments[len(it.Segments)-1]

	carrier := first.CarrierCode
	if first.Operating != nil && first.Operating.CarrierCode != "" {
		carrier = first.Operating.CarrierCode
	}
	minutes := segmentDuration(first.Departure.At, last.Arrival.At, it.Duration)
	return trip.Segment{
		Departure:       trip.Endpoint{Airport: first.Departure.IataCode, Time: first.Departure.At},
		Arrival:         trip.Endpoint{Airport: last.Arrival.IataCode, Time: last.Arrival.At},
		Duration:        formatDurationMin(minutes),
		DurationMinutes: minutes,
		Stops:           stopsFor(len(it.Segments)),
		Carrier:         airlineName(carrier),
		FlightNumber:    first.CarrierCode + first.Number,
	}, nil
}

// amadeusTravelClass maps a cabin onto the travelClass query value.
func amadeusTravelClass(c trip.CabinClass) string {
	if c == "" {
		return "ECONOMY"
	}
	return strings.ToUpper(string(c))
}

// SearchFlights searches round trips via the Flight Offers Search API.
func (c *AmadeusClient) SearchFlights(ctx context.Context, q FlightQuery) ([]RawFlightOffer, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", q.DepartureDate)
	params.Set("returnDate", q.ReturnDate)
	params.Set("adults", strconv.Itoa(max(q.Passengers, 1)))
	params.Set("travelClass", amadeusTravelClass(q.CabinClass))
	params.Set("currencyCode", trip.ReportingCurrency)
	params.Set("max", strconv.Itoa(amadeusMaxFlights))

	var resp struct {
		Data []AmadeusFlightOffer `json:"data"`
	}
	if err := c.get(ctx, "/v2/shopping/flight-offers?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("flight search failed: %w", err)
	}

	offers := make([]RawFlightOffer, 0, len(resp.Data))
	for _, o := range resp.Data {
		offers = append(offers, o)
	}
	return offers, nil
}

// ─── Hotel Search ─────────────────────────────────────────────────────────────

// AmadeusHotelOffer is one hotel of the Hotel Search v3 response.
type AmadeusHotelOffer struct {
	Hotel struct {
		HotelID  string `json:"hotelId"`
		Name     string `json:"name"`
		CityCode string `json:"cityCode"`
		Rating   string `json:"rating"`
		Address  struct {
			Lines    []string `json:"lines"`
			CityName string   `json:"cityName"`
		} `json:"address"`
	} `json:"hotel"`
	Available bool `json:"available"`
	Offers    []struct {
		ID        string `json:"id"`
		BoardType string `json:"boardType"`
		Room      struct {
			TypeEstimated struct {
				Category string `json:"category"`
			} `json:"typeEstimated"`
		} `json:"room"`
		Price struct {
			Total    string `json:"total"`
			Currency string `json:"currency"`
		} `json:"price"`
		Policies struct {
			Cancellations []struct {
				Deadline string `json:"deadline"`
			} `json:"cancellations"`
		} `json:"policies"`
	} `json:"offers"`
}

func (h AmadeusHotelOffer) Provider() string { return "amadeus" }

// ReviewScale is declared for completeness. Amadeus returns no review data.
func (h AmadeusHotelOffer) ReviewScale() ReviewScale { return Scale100 }

func (h AmadeusHotelOffer) toHotel() (*trip.HotelOffer, error) {
	if !h.Available || len(h.Offers) == 0 {
		return nil, nil
	}
	offer := h.Offers[0]
	price, err := parseAmount(offer.Price.Total)
	if err != nil {
		return nil, err
	}

	address := strings.Join(h.Hotel.Address.Lines, ", ")
	if address == "" {
		address = h.Hotel.Address.CityName
	}
	room := "Standard Room"
	if cat := offer.Room.TypeEstimated.Category; cat != "" {
		room = titleCase(strings.ReplaceAll(cat, "_", " "))
	}

	return &trip.HotelOffer{
		ID:                "amadeus_" + offer.ID,
		ProductID:         h.Hotel.HotelID,
		Name:              h.Hotel.Name,
		StarRating:        parseRating(h.Hotel.Rating),
		Price:             trip.Round2(price),
		Currency:          offer.Price.Currency,
		Address:           address,
		RoomType:          room,
		FreeCancellation:  len(offer.Policies.Cancellations) > 0,
		BreakfastIncluded: strings.Contains(offer.BoardType, "BREAKFAST"),
	}, nil
}

// SearchHotels lists hotels around the coordinates with the requested star
// ratings, then prices them in batches.
func (c *AmadeusClient) SearchHotels(ctx context.Context, q HotelQuery) ([]RawHotelOffer, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	hotelIDs, err := c.hotelIDsByGeocode(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("hotel list failed: %w", err)
	}
	if len(hotelIDs) == 0 {
		return nil, nil
	}

	var offers []RawHotelOffer
	for start := 0; start < len(hotelIDs); start += amadeusHotelBatch {
		end := min(start+amadeusHotelBatch, len(hotelIDs))
		batch, err := c.hotelOffers(ctx, hotelIDs[start:end], q)
		if err != nil {
			// Keep what earlier batches produced.
			if len(offers) > 0 {
				c.log.Warn("amadeus hotel batch failed", "batch_start", start, "error", err)
				break
			}
			return nil, fmt.Errorf("hotel offers failed: %w", err)
		}
		offers = append(offers, batch...)
	}
	return offers, nil
}

func (c *AmadeusClient) hotelIDsByGeocode(ctx context.Context, q HotelQuery) ([]string, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(q.Lat, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(q.Lon, 'f', 4, 64))
	params.Set("radius", strconv.Itoa(amadeusHotelRadiusKM))
	params.Set("radiusUnit", "KM")
	params.Set("hotelSource", "ALL")
	if len(q.Stars) > 0 {
		ratings := make([]string, len(q.Stars))
		for i, s := range q.Stars {
			ratings[i] = strconv.Itoa(s)
		}
		params.Set("ratings", strings.Join(ratings, ","))
	}

	var resp struct {
		Data []struct {
			HotelID string `json:"hotelId"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/v1/reference-data/locations/hotels/by-geocode?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Data))
	for _, h := range resp.Data {
		ids = append(ids, h.HotelID)
	}
	return ids, nil
}

func (c *AmadeusClient) hotelOffers(ctx context.Context, hotelIDs []string, q HotelQuery) ([]RawHotelOffer, error) {
	params := url.Values{}
	params.Set("hotelIds", strings.Join(hotelIDs, ","))
	params.Set("checkInDate", q.CheckIn)
	params.Set("checkOutDate", q.CheckOut)
	params.Set("adults", strconv.Itoa(max(q.Guests, 1)))
	params.Set("roomQuantity", strconv.Itoa(max(q.Rooms, 1)))
	params.Set("currency", trip.ReportingCurrency)
	params.Set("bestRateOnly", "true")

	var resp struct {
		Data []AmadeusHotelOffer `json:"data"`
	}
	if err := c.get(ctx, "/v3/shopping/hotel-offers?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	offers := make([]RawHotelOffer, 0, len(resp.Data))
	for _, h := range resp.Data {
		offers = append(offers, h)
	}
	return offers, nil
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

func parseRating(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return 0
	}
	return min(v, 5)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// airlineName returns full airline name from IATA code
func airlineName(code string) string {
	names := map[string]string{
		"AA": "American Airlines",
		"AS": "Alaska Airlines",
		"B6": "JetBlue Airways",
		"DL": "Delta Air Lines",
		"F9": "Frontier Airlines",
		"HA": "Hawaiian Airlines",
		"NK": "Spirit Airlines",
		"UA": "United Airlines",
		"WN": "Southwest Airlines",
		"AC": "Air Canada",
		"AM": "Aeromexico",
		"CM": "Copa Airlines",
		"AF": "Air France",
		"BA": "British Airways",
		"IB": "Iberia",
		"KL": "KLM",
		"LH": "Lufthansa",
		"LX": "Swiss International Air Lines",
		"TP": "TAP Air Portugal",
		"AZ": "ITA Airways",
		"TK": "Turkish Airlines",
		"EK": "Emirates",
		"QR": "Qatar Airways",
		"SQ": "Singapore Airlines",
		"CX": "Cathay Pacific",
		"NH": "ANA",
		"JL": "Japan Airlines",
		"QF": "Qantas",
		"NZ": "Air New Zealand",
		"LA": "LATAM Airlines",
	}
	if name, ok := names[code]; ok {
		return name
	}
	if code != "" {
		return code + " Airlines"
	}
	return "Unknown Airline"
}
