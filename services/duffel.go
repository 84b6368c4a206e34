package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"takemeto75/config"
	"takemeto75/logger"
	"takemeto75/metrics"
	"takemeto75/trip"
)

// ─── Duffel Client ────────────────────────────────────────────────────────────

type DuffelClient struct {
	upstream
	token   string
	baseURL string
	version string
}

func NewDuffelClient(cfg config.Duffel, log logger.Logger, m *metrics.Metrics) *DuffelClient {
	return &DuffelClient{
		upstream: newUpstream("duffel", cfg.RatePerSecond, log, m),
		token:    cfg.Token,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		version:  cfg.Version,
	}
}

func (c *DuffelClient) Name() string { return "duffel" }

func (c *DuffelClient) Configured() bool { return c.token != "" }

func (c *DuffelClient) headers() map[string]string {
	return map[string]string{
		"Authorization":  "Bearer " + c.token,
		"Duffel-Version": c.version,
	}
}

// ─── Raw offer ────────────────────────────────────────────────────────────────

type duffelPlace struct {
	IATACode string `json:"iata_code"`
}

type duffelCarrier struct {
	Name     string `json:"name"`
	IATACode string `json:"iata_code"`
}

type duffelSegment struct {
	Origin                       duffelPlace   `json:"origin"`
	Destination                  duffelPlace   `json:"destination"`
	DepartingAt                  string        `json:"departing_at"`
	ArrivingAt                   string        `json:"arriving_at"`
	Duration                     string        `json:"duration"`
	OperatingCarrier             duffelCarrier `json:"operating_carrier"`
	OperatingCarrierFlightNumber string        `json:"operating_carrier_flight_number"`
}

type duffelSlice struct {
	Duration string          `json:"duration"`
	Segments []duffelSegment `json:"segments"`
}

type duffelBaggage struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

type duffelOfferPassenger struct {
	ID         string          `json:"id"`
	CabinClass string          `json:"cabin_class"`
	Baggages   []duffelBaggage `json:"baggages"`
}

// DuffelOffer is a flight offer as returned by the Duffel offer request API.
type DuffelOffer struct {
	ID            string `json:"id"`
	TotalAmount   string `json:"total_amount"`
	TotalCurrency string `json:"total_currency"`
	Owner         struct {
		Name          string `json:"name"`
		IATACode      string `json:"iata_code"`
		LogoSymbolURL string `json:"logo_symbol_url"`
	} `json:"owner"`
	Slices     []duffelSlice          `json:"slices"`
	Passengers []duffelOfferPassenger `json:"passengers"`
	Conditions struct {
		RefundBeforeDeparture *struct {
			Allowed bool `json:"allowed"`
		} `json:"refund_before_departure"`
	} `json:"conditions"`
}

func (o DuffelOffer) Provider() string { return "duffel" }

func (o DuffelOffer) toFlight(markup float64) (trip.FlightOffer, error) {
	// Duffel's sandbox airline.
	if strings.Contains(strings.ToLower(o.Owner.Name), "duffel") {
		return trip.FlightOffer{}, fmt.Errorf("%w: test airline %q", ErrUnusableOffer, o.Owner.Name)
	}
	if len(o.Slices) < 2 {
		return trip.FlightOffer{}, fmt.Errorf("%w: %d slices", ErrUnusableOffer, len(o.Slices))
	}
	price, err := parseAmount(o.TotalAmount)
	if err != nil {
		return trip.FlightOffer{}, err
	}
	outbound, err := o.Slices[0].summary()
	if err != nil {
		return trip.FlightOffer{}, err
	}
	inbound, err := o.Slices[1].summary()
	if err != nil {
		return trip.FlightOffer{}, err
	}

	cabin := trip.CabinEconomy
	if len(o.Passengers) > 0 && o.Passengers[0].CabinClass != "" {
		cabin = trip.CabinClass(o.Passengers[0].CabinClass)
	}
	baggage := false
	for _, p := range o.Passengers {
		for _, b := range p.Baggages {
			if b.Type == "checked" && b.Quantity > 0 {
				baggage = true
			}
		}
	}
	refundable := o.Conditions.RefundBeforeDeparture != nil && o.Conditions.RefundBeforeDeparture.Allowed

	return trip.FlightOffer{
		ID:              o.ID,
		Price:           trip.Round2(price + markup),
		Currency:        o.TotalCurrency,
		Airline:         o.Owner.Name,
		AirlineLogo:     o.Owner.LogoSymbolURL,
		Outbound:        outbound,
		Inbound:         inbound,
		CabinClass:      cabin,
		BaggageIncluded: baggage,
		Refundable:      refundable,
	}, nil
}

func (s duffelSlice) summary() (trip.Segment, error) {
	if len(s.Segments) == 0 {
		return trip.Segment{}, fmt.Errorf("%w: empty slice", ErrUnusableOffer)
	}
	first := s.Segments[0]
	last := s.Segments[len(s.Segments)-1]

	minutes := segmentDuration(first.DepartingAt, last.ArrivingAt, s.Duration)
	if minutes == 0 {
		// No usable timestamps or slice duration; layovers go uncounted.
		for _, seg := range s.Segments {
			minutes += parseISODuration(seg.Duration)
		}
	}
	return trip.Segment{
		Departure:       trip.Endpoint{Airport: first.Origin.IATACode, Time: first.DepartingAt},
		Arrival:         trip.Endpoint{Airport: last.Destination.IATACode, Time: last.ArrivingAt},
		Duration:        formatDurationMin(minutes),
		DurationMinutes: minutes,
		Stops:           stopsFor(len(s.Segments)),
		Carrier:         first.OperatingCarrier.Name,
		FlightNumber:    first.OperatingCarrier.IATACode + first.OperatingCarrierFlightNumber,
	}, nil
}

// ─── Flight Search ────────────────────────────────────────────────────────────

type duffelSliceRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
}

type duffelPassengerRequest struct {
	Type string `json:"type"`
}

type duffelOfferRequest struct {
	Data struct {
		Slices     []duffelSliceRequest     `json:"slices"`
		Passengers []duffelPassengerRequest `json:"passengers"`
		CabinClass string                   `json:"cabin_class,omitempty"`
	} `json:"data"`
}

// SearchFlights creates a round-trip offer request and returns its offers.
func (c *DuffelClient) SearchFlights(ctx context.Context, q FlightQuery) ([]RawFlightOffer, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	var payload duffelOfferRequest
	payload.Data.Slices = []duffelSliceRequest{
		{Origin: q.Origin, Destination: q.Destination, DepartureDate: q.DepartureDate},
		{Origin: q.Destination, Destination: q.Origin, DepartureDate: q.ReturnDate},
	}
	passengers := q.Passengers
	if passengers < 1 {
		passengers = 1
	}
	for i := 0; i < passengers; i++ {
		payload.Data.Passengers = append(payload.Data.Passengers, duffelPassengerRequest{Type: "adult"})
	}
	payload.Data.CabinClass = string(q.CabinClass)

	var resp struct {
		Data struct {
			Offers []DuffelOffer `json:"offers"`
		} `json:"data"`
	}
	url := c.baseURL + "/air/offer_requests?return_offers=true"
	if err := c.postJSON(ctx, url, c.headers(), payload, &resp); err != nil {
		return nil, fmt.Errorf("flight search failed: %w", err)
	}

	offers := make([]RawFlightOffer, 0, len(resp.Data.Offers))
	for _, o := range resp.Data.Offers {
		offers = append(offers, o)
	}
	return offers, nil
}

// ─── Orders ───────────────────────────────────────────────────────────────────

// FlightOrder is the upstream reference of a placed flight order.
type FlightOrder struct {
	ID               string
	BookingReference string
}

type duffelOrderPassenger struct {
	ID          string `json:"id"`
	BornOn      string `json:"born_on"`
	Email       string `json:"email"`
	FamilyName  string `json:"family_name"`
	GivenName   string `json:"given_name"`
	Gender      string `json:"gender"`
	PhoneNumber string `json:"phone_number"`
	Title       string `json:"title"`
}

type duffelPayment struct {
	Type     string `json:"type"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type duffelOrderRequest struct {
	Data struct {
		Type           string                 `json:"type"`
		SelectedOffers []string               `json:"selected_offers"`
		Passengers     []duffelOrderPassenger `json:"passengers"`
		Payments       []duffelPayment        `json:"payments"`
	} `json:"data"`
}

// CreateOrder books offerID for one passenger, paying from the account balance.
// Without a token it returns a mock reference.
func (c *DuffelClient) CreateOrder(ctx context.Context, offerID string, p trip.Passenger) (FlightOrder, error) {
	if !c.Configured() {
		ref := mockOrderRef()
		return FlightOrder{ID: ref, BookingReference: ref}, nil
	}

	// The order must name the passenger id and the exact amount of the live offer.
	offer, err := c.getOffer(ctx, offerID)
	if err != nil {
		return FlightOrder{}, fmt.Errorf("offer lookup failed: %w", err)
	}
	if len(offer.Passengers) == 0 {
		return FlightOrder{}, fmt.Errorf("offer %s has no passengers", offerID)
	}

	var payload duffelOrderRequest
	payload.Data.Type = "instant"
	payload.Data.SelectedOffers = []string{offerID}
	payload.Data.Passengers = []duffelOrderPassenger{{
		ID:          offer.Passengers[0].ID,
		BornOn:      p.DateOfBirth,
		Email:       p.Email,
		FamilyName:  p.LastName,
		GivenName:   p.FirstName,
		Gender:      genderCode(p.Gender),
		PhoneNumber: p.Phone,
		Title:       title(p.Gender),
	}}
	payload.Data.Payments = []duffelPayment{{
		Type:     "balance",
		Amount:   offer.TotalAmount,
		Currency: offer.TotalCurrency,
	}}

	var resp struct {
		Data struct {
			ID               string `json:"id"`
			BookingReference string `json:"booking_reference"`
		} `json:"data"`
	}
	if err := c.postJSON(ctx, c.baseURL+"/air/orders", c.headers(), payload, &resp); err != nil {
		return FlightOrder{}, fmt.Errorf("flight order failed: %w", err)
	}
	return FlightOrder{ID: resp.Data.ID, BookingReference: resp.Data.BookingReference}, nil
}

func (c *DuffelClient) getOffer(ctx context.Context, offerID string) (DuffelOffer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/air/offers/"+offerID, nil)
	if err != nil {
		return DuffelOffer{}, err
	}
	for k, v := range c.headers() {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(ctx, req)
	if err != nil {
		return DuffelOffer{}, err
	}
	var resp struct {
		Data DuffelOffer `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return DuffelOffer{}, fmt.Errorf("failed to parse offer: %w", err)
	}
	return resp.Data, nil
}

// CancelOrder requests a cancellation quote and confirms it.
func (c *DuffelClient) CancelOrder(ctx context.Context, orderID string) error {
	if !c.Configured() || strings.HasPrefix(orderID, mockOrderPrefix) {
		return nil
	}

	payload := map[string]interface{}{
		"data": map[string]string{"order_id": orderID},
	}
	var quote struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.postJSON(ctx, c.baseURL+"/air/order_cancellations", c.headers(), payload, &quote); err != nil {
		return fmt.Errorf("cancellation quote failed: %w", err)
	}
	if quote.Data.ID == "" {
		return fmt.Errorf("cancellation quote for %s has no id", orderID)
	}

	confirmURL := fmt.Sprintf("%s/air/order_cancellations/%s/actions/confirm", c.baseURL, quote.Data.ID)
	if err := c.postJSON(ctx, confirmURL, c.headers(), nil, nil); err != nil {
		return fmt.Errorf("cancellation confirm failed: %w", err)
	}
	return nil
}

const mockOrderPrefix = "MOCK-"

func mockOrderRef() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return mockOrderPrefix + strings.ToUpper(id[:6])
}

func genderCode(g string) string {
	switch strings.ToLower(g) {
	case "male", "m":
		return "m"
	case "female", "f":
		return "f"
	}
	return ""
}

func title(g string) string {
	if genderCode(g) == "m" {
		return "mr"
	}
	return "ms"
}
