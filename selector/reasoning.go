package selector

import (
	"fmt"

	"takemeto75/trip"
)

func templateReasoning(tier trip.Tier, dest trip.Destination, flight trip.FlightOffer, hotel trip.HotelOffer) string {
	switch tier {
	case trip.TierBase:
		return fmt.Sprintf(
			"Selected the most affordable options while maintaining quality (8.0+ hotel reviews). %s at $%.2f and %s make for great value in %s.",
			flight.Airline, flight.Price, hotel.Name, dest.City)
	case trip.TierPremium:
		return fmt.Sprintf(
			"Balanced quality and cost for a premium experience. %s offers excellent reviews (%.0f/100) at a fair price, paired with a %s flight on %s.",
			hotel.Name, hotel.ReviewScore, stopsLabel(flight.Outbound.Stops), flight.Airline)
	case trip.TierLuxe:
		return fmt.Sprintf(
			"Selected top-tier options for a luxurious experience. %s is the standout property, with a %s %s flight on %s.",
			hotel.Name, stopsLabel(flight.Outbound.Stops), cabinLabel(flight.CabinClass), flight.Airline)
	}
	return "Selected available options."
}

func stopsLabel(stops int) string {
	switch stops {
	case 0:
		return "nonstop"
	case 1:
		return "one-stop"
	}
	return fmt.Sprintf("%d-stop", stops)
}

func cabinLabel(c trip.CabinClass) string {
	switch c {
	case trip.CabinPremiumEconomy:
		return "premium economy"
	case trip.CabinBusiness:
		return "business class"
	case trip.CabinFirst:
		return "first class"
	}
	return "economy"
}
