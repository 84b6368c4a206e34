package services

import (
	"context"
	"fmt"
	"strings"

	"takemeto75/config"
	"takemeto75/logger"
	"takemeto75/metrics"
	"takemeto75/trip"
)

const staysSearchRadiusKM = 10

// StaysClient searches Duffel Stays. It shares the Duffel credential.
type StaysClient struct {
	upstream
	token   string
	baseURL string
	version string
}

func NewStaysClient(cfg config.Duffel, log logger.Logger, m *metrics.Metrics) *StaysClient {
	return &StaysClient{
		upstream: newUpstream("duffel_stays", cfg.RatePerSecond, log, m),
		token:    cfg.Token,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		version:  cfg.Version,
	}
}

func (c *StaysClient) Name() string { return "duffel_stays" }

// StaysResult is one accommodation of a Duffel Stays search.
type StaysResult struct {
	ID            string `json:"id"`
	Accommodation struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Rating *struct {
			Value int `json:"value"`
		} `json:"rating"`
		ReviewScore float64 `json:"review_score"`
		ReviewCount int     `json:"review_count"`
		Photos      []struct {
			URL string `json:"url"`
		} `json:"photos"`
		Amenities []struct {
			Description string `json:"description"`
		} `json:"amenities"`
		Location struct {
			Address struct {
				LineOne  string `json:"line_one"`
				CityName string `json:"city_name"`
			} `json:"address"`
		} `json:"location"`
	} `json:"accommodation"`
	CheapestRateTotalAmount string `json:"cheapest_rate_total_amount"`
	CheapestRateCurrency    string `json:"cheapest_rate_currency"`
}

func (r StaysResult) Provider() string { return "duffel_stays" }

func (r StaysResult) ReviewScale() ReviewScale { return Scale10 }

func (r StaysResult) toHotel() (*trip.HotelOffer, error) {
	if r.CheapestRateTotalAmount == "" {
		return nil, nil
	}
	price, err := parseAmount(r.CheapestRateTotalAmount)
	if err != nil {
		return nil, err
	}
	a := r.Accommodation

	stars := 0
	if a.Rating != nil {
		stars = a.Rating.Value
	}
	photos := make([]string, 0, len(a.Photos))
	for _, p := range a.Photos {
		photos = append(photos, p.URL)
	}
	amenities := make([]string, 0, len(a.Amenities))
	for _, am := range a.Amenities {
		amenities = append(amenities, am.Description)
	}

	return &trip.HotelOffer{
		ID:               r.ID,
		ProductID:        a.ID,
		Name:             a.Name,
		StarRating:       stars,
		ReviewScore:      a.ReviewScore,
		ReviewCount:      a.ReviewCount,
		Price:            trip.Round2(price),
		Currency:         r.CheapestRateCurrency,
		Address:          a.Location.Address.LineOne,
		Photos:           photos,
		Amenities:        amenities,
		RoomType:         "Standard Room",
		FreeCancellation: true,
	}, nil
}

type staysGuest struct {
	Type string `json:"type"`
}

type staysSearchRequest struct {
	Rooms    int `json:"rooms"`
	Location struct {
		Radius                int `json:"radius"`
		GeographicCoordinates struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"geographic_coordinates"`
	} `json:"location"`
	CheckInDate  string       `json:"check_in_date"`
	CheckOutDate string       `json:"check_out_date"`
	Guests       []staysGuest `json:"guests"`
}

// SearchHotels searches stays within 10 km of the query coordinates.
func (c *StaysClient) SearchHotels(ctx context.Context, q HotelQuery) ([]RawHotelOffer, error) {
	if c.token == "" {
		return nil, ErrNotConfigured
	}

	var payload staysSearchRequest
	payload.Rooms = max(q.Rooms, 1)
	payload.Location.Radius = staysSearchRadiusKM
	payload.Location.GeographicCoordinates.Latitude = q.Lat
	payload.Location.GeographicCoordinates.Longitude = q.Lon
	payload.CheckInDate = q.CheckIn
	payload.CheckOutDate = q.CheckOut
	for i := 0; i < max(q.Guests, 1); i++ {
		payload.Guests = append(payload.Guests, staysGuest{Type: "adult"})
	}

	headers := map[string]string{
		"Authorization":  "Bearer " + c.token,
		"Duffel-Version": c.version,
	}
	var resp struct {
		Data struct {
			Results []StaysResult `json:"results"`
		} `json:"data"`
	}
	if err := c.postJSON(ctx, c.baseURL+"/stays/search", headers, payload, &resp); err != nil {
		return nil, fmt.Errorf("stays search failed: %w", err)
	}

	offers := make([]RawHotelOffer, 0, len(resp.Data.Results))
	for _, r := range resp.Data.Results {
		offers = append(offers, r)
	}
	return offers, nil
}
