// Package selector picks one flight and one hotel for a tier. The
// deterministic scorer is always available; the advisor-assisted selector
// decorates it and falls back to it on any advisor failure.
package selector

import (
	"context"
	"errors"

	"takemeto75/trip"
)

// ErrNoCandidates is returned when either candidate list is empty.
var ErrNoCandidates = errors.New("selector: no flight or hotel candidates")

// Reasoning sources.
const (
	SourceAdvisor       = "advisor"
	SourceDeterministic = "deterministic"
)

type Input struct {
	Destination trip.Destination
	Dates       trip.TravelDates
	Tier        trip.Tier
	Flights     []trip.FlightOffer
	Hotels      []trip.HotelOffer
}

type Selection struct {
	Flight    trip.FlightOffer
	Hotel     trip.HotelOffer
	Reasoning string
	Source    string
}

type Selector interface {
	Select(ctx context.Context, in Input) (Selection, error)
}

// Deterministic is the rule-based Selector.
type Deterministic struct{}

func NewDeterministic() *Deterministic {
	return &Deterministic{}
}

func (d *Deterministic) Select(_ context.Context, in Input) (Selection, error) {
	flight, hotel, err := SelectDeterministic(in.Flights, in.Hotels, in.Tier, in.Destination.CostIndex)
	if err != nil {
		return Selection{}, err
	}
	return Selection{
		Flight:    flight,
		Hotel:     hotel,
		Reasoning: templateReasoning(in.Tier, in.Destination, flight, hotel),
		Source:    SourceDeterministic,
	}, nil
}
