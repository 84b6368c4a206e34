package selector

import (
	"fmt"
	"slices"
	"sort"

	"takemeto75/trip"
)

// minBaseReview restricts Base hotels when any candidate reaches it.
const minBaseReview = 80

// SelectDeterministic returns the top-ranked flight and hotel for the tier.
// It never reorders the caller's slices.
func SelectDeterministic(flights []trip.FlightOffer, hotels []trip.HotelOffer, tier trip.Tier, costIndex int) (trip.FlightOffer, trip.HotelOffer, error) {
	if len(flights) == 0 || len(hotels) == 0 {
		return trip.FlightOffer{}, trip.HotelOffer{}, ErrNoCandidates
	}
	rankedFlights, err := RankFlights(flights, tier)
	if err != nil {
		return trip.FlightOffer{}, trip.HotelOffer{}, err
	}
	rankedHotels, err := RankHotels(hotels, tier, costIndex)
	if err != nil {
		return trip.FlightOffer{}, trip.HotelOffer{}, err
	}
	return rankedFlights[0], rankedHotels[0], nil
}

// RankFlights returns a stably sorted copy, best first.
func RankFlights(flights []trip.FlightOffer, tier trip.Tier) ([]trip.FlightOffer, error) {
	out := slices.Clone(flights)

	switch tier {
	case trip.TierBase:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Price != out[j].Price {
				return out[i].Price < out[j].Price
			}
			return totalStops(out[i]) < totalStops(out[j])
		})
	case trip.TierPremium:
		sort.SliceStable(out, func(i, j int) bool {
			return convenienceCost(out[i]) < convenienceCost(out[j])
		})
	case trip.TierLuxe:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Outbound.Stops != out[j].Outbound.Stops {
				return out[i].Outbound.Stops < out[j].Outbound.Stops
			}
			return out[i].Price < out[j].Price
		})
	default:
		return nil, fmt.Errorf("selector: unknown tier %q", tier)
	}
	return out, nil
}

// RankHotels returns a stably sorted copy, best first. For Base the copy is
// first narrowed to well-reviewed hotels when there are any.
func RankHotels(hotels []trip.HotelOffer, tier trip.Tier, costIndex int) ([]trip.HotelOffer, error) {
	policy, ok := trip.PolicyFor(tier)
	if !ok {
		return nil, fmt.Errorf("selector: unknown tier %q", tier)
	}

	switch tier {
	case trip.TierBase:
		out := wellReviewed(hotels)
		if len(out) == 0 {
			out = slices.Clone(hotels)
		}
		factor := costFactor(costIndex)
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price*factor < out[j].Price*factor
		})
		return out, nil

	case trip.TierPremium:
		out := slices.Clone(hotels)
		sort.SliceStable(out, func(i, j int) bool {
			return valueDensity(out[i]) > valueDensity(out[j])
		})
		return out, nil

	default:
		out := slices.Clone(hotels)
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			ab, bb := policy.MatchesPreferredBrand(a.Name), policy.MatchesPreferredBrand(b.Name)
			if ab != bb {
				return ab
			}
			if a.ReviewScore != b.ReviewScore {
				return a.ReviewScore > b.ReviewScore
			}
			return a.ReviewCount > b.ReviewCount
		})
		return out, nil
	}
}

func totalStops(f trip.FlightOffer) int {
	return f.Outbound.Stops + f.Inbound.Stops
}

// convenienceCost penalises each outbound stop by 10% of the fare.
func convenienceCost(f trip.FlightOffer) float64 {
	return f.Price * (1 + float64(f.Outbound.Stops)*0.1)
}

// costFactor scales hotel prices by destination cost of living.
func costFactor(costIndex int) float64 {
	return 1 + float64(costIndex-1)*0.1
}

// valueDensity is review points (0-10) per $100 of stay price. A free stay
// ranks above everything.
func valueDensity(h trip.HotelOffer) float64 {
	if h.Price <= 0 {
		return h.ReviewScore * 1e9
	}
	return (h.ReviewScore / 10) / (h.Price / 100)
}

func wellReviewed(hotels []trip.HotelOffer) []trip.HotelOffer {
	var out []trip.HotelOffer
	for _, h := range hotels {
		if h.ReviewScore >= minBaseReview {
			out = append(out, h)
		}
	}
	return out
}
