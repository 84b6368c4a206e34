package services

import (
	"context"
	"errors"
	"slices"

	"takemeto75/logger"
	"takemeto75/metrics"
	"takemeto75/trip"
)

// FlightResult is the normalized outcome of a feed search.
type FlightResult struct {
	Offers   []trip.FlightOffer
	Provider string
	Degraded bool
}

type HotelResult struct {
	Offers   []trip.HotelOffer
	Provider string
	Degraded bool
}

// FlightFeed tries each provider in order and falls back to generated offers.
type FlightFeed struct {
	providers  []FlightSearcher
	normalizer *Normalizer
	log        logger.Logger
	metrics    *metrics.Metrics
}

func NewFlightFeed(n *Normalizer, log logger.Logger, m *metrics.Metrics, providers ...FlightSearcher) *FlightFeed {
	return &FlightFeed{providers: providers, normalizer: n, log: log, metrics: m}
}

// Search never fails for lack of data: when no provider yields a usable
// offer the result is generated and marked Degraded.
func (f *FlightFeed) Search(ctx context.Context, q FlightQuery, tier trip.Tier) FlightResult {
	for _, p := range f.providers {
		raws, err := p.SearchFlights(ctx, q)
		if err != nil {
			if !errors.Is(err, ErrNotConfigured) {
				f.log.Warn("flight provider failed", "provider", p.Name(), "tier", tier, "error", err)
			}
			continue
		}
		offers := f.normalize(raws, tier)
		if len(offers) > 0 {
			return FlightResult{Offers: offers, Provider: p.Name()}
		}
		f.metrics.Upstream(p.Name(), metrics.OutcomeEmpty)
	}

	f.log.Warn("no live flight offers, using generated offers",
		"tier", tier, "origin", q.Origin, "destination", q.Destination)
	f.metrics.Upstream("flights", metrics.OutcomeMock)
	return FlightResult{Offers: f.normalize(MockFlights(q), tier), Provider: "mock", Degraded: true}
}

func (f *FlightFeed) normalize(raws []RawFlightOffer, tier trip.Tier) []trip.FlightOffer {
	offers := make([]trip.FlightOffer, 0, len(raws))
	for _, raw := range raws {
		o, err := f.normalizer.Flight(raw, tier)
		if err != nil {
			f.log.Debug("dropping flight offer", "provider", raw.Provider(), "error", err)
			continue
		}
		offers = append(offers, o)
	}
	return offers
}

// HotelFeed tries each provider in order and falls back to generated offers.
// Offers outside the requested star band are dropped.
type HotelFeed struct {
	providers  []HotelSearcher
	normalizer *Normalizer
	log        logger.Logger
	metrics    *metrics.Metrics
}

func NewHotelFeed(n *Normalizer, log logger.Logger, m *metrics.Metrics, providers ...HotelSearcher) *HotelFeed {
	return &HotelFeed{providers: providers, normalizer: n, log: log, metrics: m}
}

func (f *HotelFeed) Search(ctx context.Context, q HotelQuery) HotelResult {
	for _, p := range f.providers {
		raws, err := p.SearchHotels(ctx, q)
		if err != nil {
			if !errors.Is(err, ErrNotConfigured) {
				f.log.Warn("hotel provider failed", "provider", p.Name(), "city", q.City, "error", err)
			}
			continue
		}
		offers := f.normalize(raws, q.Stars)
		if len(offers) > 0 {
			return HotelResult{Offers: offers, Provider: p.Name()}
		}
		f.metrics.Upstream(p.Name(), metrics.OutcomeEmpty)
	}

	f.log.Warn("no live hotel offers, using generated offers", "city", q.City, "stars", q.Stars)
	f.metrics.Upstream("hotels", metrics.OutcomeMock)
	return HotelResult{Offers: f.normalize(MockHotels(q), q.Stars), Provider: "mock", Degraded: true}
}

func (f *HotelFeed) normalize(raws []RawHotelOffer, stars []int) []trip.HotelOffer {
	offers := make([]trip.HotelOffer, 0, len(raws))
	for _, raw := range raws {
		h, err := f.normalizer.Hotel(raw)
		if err != nil {
			f.log.Debug("dropping hotel offer", "provider", raw.Provider(), "error", err)
			continue
		}
		if h == nil {
			continue
		}
		if len(stars) > 0 && !slices.Contains(stars, h.StarRating) {
			continue
		}
		offers = append(offers, *h)
	}
	return offers
}
