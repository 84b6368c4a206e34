package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"takemeto75/config"
	"takemeto75/logger"
	"takemeto75/metrics"
	"takemeto75/trip"
)

const bookingSearchRadiusKM = 15

// BookingClient talks to the Booking.com Demand API.
type BookingClient struct {
	upstream
	apiKey      string
	affiliateID string
	baseURL     string
	links       Affiliates
}

func NewBookingClient(cfg config.Booking, links Affiliates, log logger.Logger, m *metrics.Metrics) *BookingClient {
	return &BookingClient{
		upstream:    newUpstream("booking", cfg.RatePerSecond, log, m),
		apiKey:      cfg.APIKey,
		affiliateID: cfg.AffiliateID,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		links:       links,
	}
}

func (c *BookingClient) Name() string { return "booking" }

func (c *BookingClient) Configured() bool { return c.apiKey != "" }

func (c *BookingClient) headers() map[string]string {
	return map[string]string{
		"Authorization":  "Bearer " + c.apiKey,
		"X-Affiliate-Id": c.affiliateID,
	}
}

type bookingBooker struct {
	Country  string `json:"country"`
	Platform string `json:"platform"`
}

var defaultBooker = bookingBooker{Country: "us", Platform: "desktop"}

// ─── Raw offer ────────────────────────────────────────────────────────────────

type bookingProduct struct {
	ID    string `json:"id"`
	Price struct {
		Total    string `json:"total"`
		Currency string `json:"currency"`
	} `json:"price"`
	RoomName     string `json:"room_name"`
	MealPlan     string `json:"meal_plan,omitempty"`
	Cancellation *struct {
		Type string `json:"type"`
	} `json:"cancellation,omitempty"`
}

type bookingName struct {
	Name string `json:"name"`
}

type bookingPhoto struct {
	URL string `json:"url"`
}

// BookingAccommodation is one result of accommodations/search.
type BookingAccommodation struct {
	ID              int64            `json:"id"`
	Name            string           `json:"name"`
	Class           int              `json:"class"`
	ReviewScore     float64          `json:"review_score"`
	NumberOfReviews int              `json:"number_of_reviews"`
	Address         string           `json:"address"`
	City            string           `json:"city"`
	Currency        string           `json:"currency"`
	URL             string           `json:"url"`
	Photos          []bookingPhoto   `json:"photos,omitempty"`
	Products        []bookingProduct `json:"products,omitempty"`
	Facilities      []bookingName    `json:"facilities,omitempty"`
	Distance        *struct {
		Value float64 `json:"value"`
		Unit  string  `json:"unit"`
	} `json:"distance_to_city_centre,omitempty"`
}

func (a BookingAccommodation) Provider() string { return "booking" }

// ReviewScale is unknown: the live API scores 0-10, generated data 0-100.
func (a BookingAccommodation) ReviewScale() ReviewScale { return ScaleUnknown }

func (a BookingAccommodation) toHotel() (*trip.HotelOffer, error) {
	if len(a.Products) == 0 {
		return nil, nil
	}
	product := a.Products[0]
	price, err := parseAmount(product.Price.Total)
	if err != nil {
		return nil, err
	}

	distance := ""
	if a.Distance != nil {
		distance = fmt.Sprintf("%.1f %s from center", a.Distance.Value, a.Distance.Unit)
	}
	photos := make([]string, 0, len(a.Photos))
	for _, p := range a.Photos {
		photos = append(photos, p.URL)
	}
	amenities := make([]string, 0, len(a.Facilities))
	for _, f := range a.Facilities {
		amenities = append(amenities, f.Name)
	}

	return &trip.HotelOffer{
		ID:                 strconv.FormatInt(a.ID, 10),
		ProductID:          product.ID,
		Name:               a.Name,
		StarRating:         a.Class,
		ReviewScore:        a.ReviewScore,
		ReviewCount:        a.NumberOfReviews,
		Price:              trip.Round2(price),
		Currency:           product.Price.Currency,
		Address:            a.Address,
		DistanceFromCenter: distance,
		Photos:             photos,
		Amenities:          amenities,
		RoomType:           product.RoomName,
		FreeCancellation:   product.Cancellation != nil && product.Cancellation.Type == "free_cancellation",
		BreakfastIncluded:  strings.Contains(strings.ToLower(product.MealPlan), "breakfast"),
		URL:                a.URL,
	}, nil
}

// ─── Hotel Search ─────────────────────────────────────────────────────────────

type bookingCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    int     `json:"radius,omitempty"`
}

type bookingSearchRequest struct {
	Booker   bookingBooker `json:"booker"`
	Checkin  string        `json:"checkin"`
	Checkout string        `json:"checkout"`
	Guests   struct {
		NumberOfAdults int `json:"number_of_adults"`
		NumberOfRooms  int `json:"number_of_rooms"`
	} `json:"guests"`
	City        int64               `json:"city,omitempty"`
	Coordinates *bookingCoordinates `json:"coordinates,omitempty"`
	Filters     struct {
		Class       []int `json:"class,omitempty"`
		ReviewScore *struct {
			Min float64 `json:"min"`
		} `json:"review_score,omitempty"`
	} `json:"filters"`
	Extras []string `json:"extras"`
}

// SearchHotels searches by Booking.com city id, or by a 15 km radius around
// the coordinates when the city lookup fails.
func (c *BookingClient) SearchHotels(ctx context.Context, q HotelQuery) ([]RawHotelOffer, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	var payload bookingSearchRequest
	payload.Booker = defaultBooker
	payload.Checkin = q.CheckIn
	payload.Checkout = q.CheckOut
	payload.Guests.NumberOfAdults = max(q.Guests, 1)
	payload.Guests.NumberOfRooms = max(q.Rooms, 1)
	payload.Filters.Class = q.Stars
	if q.MinReviewScore > 0 {
		payload.Filters.ReviewScore = &struct {
			Min float64 `json:"min"`
		}{Min: q.MinReviewScore / 10}
	}
	payload.Extras = []string{"products", "photos", "facilities"}

	if cityID, err := c.cityID(ctx, q.Lat, q.Lon); err == nil && cityID != 0 {
		payload.City = cityID
	} else {
		if err != nil {
			c.log.Debug("booking city lookup failed, searching by coordinates", "error", err)
		}
		payload.Coordinates = &bookingCoordinates{Latitude: q.Lat, Longitude: q.Lon, Radius: bookingSearchRadiusKM}
	}

	var resp struct {
		Data []BookingAccommodation `json:"data"`
	}
	if err := c.postJSON(ctx, c.baseURL+"/accommodations/search", c.headers(), payload, &resp); err != nil {
		return nil, fmt.Errorf("hotel search failed: %w", err)
	}

	offers := make([]RawHotelOffer, 0, len(resp.Data))
	for _, a := range resp.Data {
		offers = append(offers, a)
	}
	return offers, nil
}

func (c *BookingClient) cityID(ctx context.Context, lat, lon float64) (int64, error) {
	payload := map[string]interface{}{
		"coordinates": bookingCoordinates{Latitude: lat, Longitude: lon},
		"languages":   []string{"en-gb"},
	}
	var resp struct {
		Data []struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := c.postJSON(ctx, c.baseURL+"/common/locations/cities", c.headers(), payload, &resp); err != nil {
		return 0, err
	}
	if len(resp.Data) == 0 {
		return 0, nil
	}
	return resp.Data[0].ID, nil
}

// ─── Orders ───────────────────────────────────────────────────────────────────

// HotelOrder is either a confirmed order reference or a checkout link the
// traveller completes on the partner site.
type HotelOrder struct {
	Reference   string
	CheckoutURL string
}

// HotelStay is what a hotel order needs besides the passenger.
type HotelStay struct {
	Hotel    trip.HotelOffer
	City     string
	CheckIn  string
	CheckOut string
	Guests   int
}

// CreateOrder previews and creates a Booking.com order. Any failure, a
// missing key, or a hotel from another provider yields an affiliate link
// instead, which still counts as success.
func (c *BookingClient) CreateOrder(ctx context.Context, stay HotelStay, p trip.Passenger) (HotelOrder, error) {
	fallback := HotelOrder{CheckoutURL: c.checkoutLink(stay)}
	if !c.Configured() || stay.Hotel.Provider != c.Name() {
		return fallback, nil
	}

	ref, err := c.placeOrder(ctx, stay, p)
	if err != nil {
		c.log.Warn("booking order failed, using deep link", "hotel_id", stay.Hotel.ID, "error", err)
		return fallback, nil
	}
	return HotelOrder{Reference: ref}, nil
}

func (c *BookingClient) checkoutLink(stay HotelStay) string {
	if stay.Hotel.Provider == c.Name() {
		return c.links.BookingDeepLink(stay.Hotel.ID, stay.CheckIn, stay.CheckOut, stay.Guests, 1)
	}
	return c.links.AwinHotelLink(stay.Hotel.Name, stay.City, stay.CheckIn, stay.CheckOut, stay.Guests)
}

func (c *BookingClient) placeOrder(ctx context.Context, stay HotelStay, p trip.Passenger) (string, error) {
	hotelID, err := strconv.ParseInt(stay.Hotel.ID, 10, 64)
	if err != nil {
		return "", fmt.Errorf("hotel id %q: %w", stay.Hotel.ID, err)
	}

	preview := map[string]interface{}{
		"booker":   defaultBooker,
		"currency": trip.ReportingCurrency,
		"accommodation": map[string]interface{}{
			"id":       hotelID,
			"checkin":  stay.CheckIn,
			"checkout": stay.CheckOut,
			"products": []map[string]string{{"id": stay.Hotel.ProductID}},
		},
	}
	var previewResp struct {
		Data struct {
			OrderToken string `json:"order_token"`
		} `json:"data"`
	}
	if err := c.postJSON(ctx, c.baseURL+"/orders/preview", c.headers(), preview, &previewResp); err != nil {
		return "", fmt.Errorf("order preview: %w", err)
	}

	fullName := strings.TrimSpace(p.FirstName + " " + p.LastName)
	create := map[string]interface{}{
		"order_token": previewResp.Data.OrderToken,
		"booker": map[string]interface{}{
			"email":     p.Email,
			"name":      map[string]string{"first_name": p.FirstName, "last_name": p.LastName},
			"telephone": p.Phone,
			"country":   "us",
			"language":  "en-gb",
		},
		"accommodation": map[string]interface{}{
			"products": []map[string]interface{}{{
				"id":     stay.Hotel.ProductID,
				"guests": []map[string]string{{"name": fullName, "email": p.Email}},
			}},
		},
		"payment": map[string]string{"timing": "pay_at_the_property"},
	}
	var createResp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.postJSON(ctx, c.baseURL+"/orders/create", c.headers(), create, &createResp); err != nil {
		return "", fmt.Errorf("order create: %w", err)
	}
	if createResp.Data.ID == "" {
		return "", fmt.Errorf("order create returned no id")
	}
	return createResp.Data.ID, nil
}
