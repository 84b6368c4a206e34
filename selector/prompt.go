package selector

import (
	"fmt"
	"strings"

	"takemeto75/trip"
)

const maxPromptAmenities = 5

// BuildPrompt renders every candidate and the tier's criteria, and asks for
// a strict JSON reply.
func BuildPrompt(in Input) string {
	policy, _ := trip.PolicyFor(in.Tier)
	tier := strings.ToUpper(string(in.Tier))

	var b strings.Builder
	fmt.Fprintf(&b, "You are a travel advisor helping select the best flight and hotel combination for a %s tier trip.\n\n", tier)
	fmt.Fprintf(&b, "DESTINATION: %s, %s\n", in.Destination.City, in.Destination.Country)
	fmt.Fprintf(&b, "DATES: %s to %s (%d nights)\n", in.Dates.Display.CheckIn, in.Dates.Display.CheckOut, in.Dates.Nights)
	fmt.Fprintf(&b, "WEATHER: %.0f°F, %s\n\n", in.Destination.Weather.AvgTemp, in.Destination.Weather.Condition)

	fmt.Fprintf(&b, "TIER CRITERIA FOR %s:\n%s\n", tier, policy.Criteria)
	fmt.Fprintf(&b, "Weights: price %.1f, convenience %.1f, quality %.1f\n\n",
		policy.Weights.Price, policy.Weights.Convenience, policy.Weights.Quality)

	b.WriteString("AVAILABLE FLIGHTS:\n")
	for i, f := range in.Flights {
		fmt.Fprintf(&b, "\n[Flight %d] ID: %s\n", i+1, f.ID)
		fmt.Fprintf(&b, "- Airline: %s\n", f.Airline)
		fmt.Fprintf(&b, "- Price: $%.2f %s\n", f.Price, f.Currency)
		fmt.Fprintf(&b, "- Outbound: %s → %s, %s, %d stops\n", f.Outbound.Departure.Airport, f.Outbound.Arrival.Airport, f.Outbound.Duration, f.Outbound.Stops)
		fmt.Fprintf(&b, "- Return: %s → %s, %s, %d stops\n", f.Inbound.Departure.Airport, f.Inbound.Arrival.Airport, f.Inbound.Duration, f.Inbound.Stops)
		fmt.Fprintf(&b, "- Class: %s\n", f.CabinClass)
		fmt.Fprintf(&b, "- Baggage: %s\n", yesNo(f.BaggageIncluded, "Included", "Not included"))
		fmt.Fprintf(&b, "- Refundable: %s\n", yesNo(f.Refundable, "Yes", "No"))
	}

	b.WriteString("\nAVAILABLE HOTELS:\n")
	for i, h := range in.Hotels {
		amenities := h.Amenities
		if len(amenities) > maxPromptAmenities {
			amenities = amenities[:maxPromptAmenities]
		}
		fmt.Fprintf(&b, "\n[Hotel %d] ID: %s\n", i+1, h.ID)
		fmt.Fprintf(&b, "- Name: %s\n", h.Name)
		fmt.Fprintf(&b, "- Stars: %d\n", h.StarRating)
		fmt.Fprintf(&b, "- Review Score: %.0f/100 (%d reviews)\n", h.ReviewScore, h.ReviewCount)
		fmt.Fprintf(&b, "- Price: $%.2f %s total\n", h.Price, h.Currency)
		fmt.Fprintf(&b, "- Room: %s\n", h.RoomType)
		fmt.Fprintf(&b, "- Location: %s\n", h.DistanceFromCenter)
		fmt.Fprintf(&b, "- Free Cancellation: %s\n", yesNo(h.FreeCancellation, "Yes", "No"))
		fmt.Fprintf(&b, "- Breakfast: %s\n", yesNo(h.BreakfastIncluded, "Included", "Not included"))
		fmt.Fprintf(&b, "- Amenities: %s\n", strings.Join(amenities, ", "))
	}

	fmt.Fprintf(&b, "\nBased on the %s tier criteria, select the BEST flight and hotel combination.\n\n", tier)
	b.WriteString(`Respond in this exact JSON format:
{
  "selected_flight_id": "<flight id>",
  "selected_hotel_id": "<hotel id>",
  "reasoning": "<2-3 sentences explaining why this is the best combination for this tier>"
}`)
	return b.String()
}

func yesNo(v bool, yes, no string) string {
	if v {
		return yes
	}
	return no
}
