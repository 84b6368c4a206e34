package trip

import (
	"slices"
	"strings"
)

// ScoringWeights describes how a tier trades price against convenience and
// quality. The deterministic scorer encodes these as fixed formulas; the
// weights are surfaced to the advisor prompt.
type ScoringWeights struct {
	Price       float64 `json:"price"`
	Convenience float64 `json:"convenience"`
	Quality     float64 `json:"quality"`
}

type TierPolicy struct {
	Tier            Tier           `json:"tier"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	CabinClass      CabinClass     `json:"cabin_class"`
	HotelStars      []int          `json:"hotel_stars"`
	MinReviewScore  float64        `json:"min_review_score"`
	MarkupCents     int64          `json:"markup_cents"`
	PreferredBrands []string       `json:"preferred_brands,omitempty"`
	Weights         ScoringWeights `json:"weights"`
	Criteria        string         `json:"-"`
}

// Markup returns the package markup in currency units.
func (p TierPolicy) Markup() float64 {
	return float64(p.MarkupCents) / 100
}

func (p TierPolicy) AllowsStars(stars int) bool {
	return slices.Contains(p.HotelStars, stars)
}

// MatchesPreferredBrand does a case-insensitive substring match of the hotel
// name against the tier's preferred brands.
func (p TierPolicy) MatchesPreferredBrand(hotelName string) bool {
	name := strings.ToLower(hotelName)
	for _, brand := range p.PreferredBrands {
		if strings.Contains(name, strings.ToLower(brand)) {
			return true
		}
	}
	return false
}

var policies = map[Tier]TierPolicy{
	TierBase: {
		Tier:           TierBase,
		Name:           "Base",
		Description:    "3-star hotel • Economy flight",
		CabinClass:     CabinEconomy,
		HotelStars:     []int{3},
		MinReviewScore: 80,
		MarkupCents:    2500,
		Weights:        ScoringWeights{Price: 0.7, Convenience: 0.2, Quality: 0.1},
		Criteria: `- PRIMARY: Minimize total cost
- Consider destination cost of living (cheaper destinations = better value)
- Economy flights are fine, prefer direct when price is similar
- 3-star hotels with 8.0+ reviews
- Value-focused: best bang for buck`,
	},
	TierPremium: {
		Tier:           TierPremium,
		Name:           "Premium",
		Description:    "4-star hotel • Premium economy",
		CabinClass:     CabinPremiumEconomy,
		HotelStars:     []int{4},
		MinReviewScore: 80,
		MarkupCents:    4000,
		Weights:        ScoringWeights{Price: 0.4, Convenience: 0.3, Quality: 0.3},
		Criteria: `- PRIMARY: Balance comfort and cost
- Premium economy flights if reasonably priced, otherwise best economy
- Prefer direct flights or single stop
- 4-star hotels with excellent reviews (8.5+)
- Good amenities matter (free cancellation, breakfast, good location)
- Look for "sweet spot" - great quality without luxury pricing`,
	},
	TierLuxe: {
		Tier:            TierLuxe,
		Name:            "Luxe",
		Description:     "5-star hotel • Business class",
		CabinClass:      CabinBusiness,
		HotelStars:      []int{5},
		MinReviewScore:  80,
		MarkupCents:     7500,
		PreferredBrands: []string{"Four Seasons", "Ritz-Carlton", "St. Regis", "Aman", "Mandarin Oriental"},
		Weights:         ScoringWeights{Price: 0.1, Convenience: 0.4, Quality: 0.5},
		Criteria: `- PRIMARY: Best possible experience
- Business class flights strongly preferred
- Direct flights, convenient departure times
- 5-star hotels, prioritize top review scores (9.0+)
- Prefer recognized luxury brands (Four Seasons, Ritz-Carlton, etc.)
- Location and amenities are critical
- Price is secondary to quality`,
	},
}

// PolicyFor returns a copy of the tier's policy.
func PolicyFor(t Tier) (TierPolicy, bool) {
	p, ok := policies[t]
	if !ok {
		return TierPolicy{}, false
	}
	p.HotelStars = slices.Clone(p.HotelStars)
	p.PreferredBrands = slices.Clone(p.PreferredBrands)
	return p, true
}

// Policies returns every policy in tier order.
func Policies() []TierPolicy {
	out := make([]TierPolicy, 0, len(AllTiers))
	for _, t := range AllTiers {
		p, _ := PolicyFor(t)
		out = append(out, p)
	}
	return out
}

// LuxuryBrands drives the HotelOffer.IsLuxuryBrand flag. It is wider than the
// Luxe preferred-brand list.
var LuxuryBrands = []string{
	"Four Seasons", "Ritz-Carlton", "St. Regis", "Aman", "Mandarin Oriental",
	"Park Hyatt", "Rosewood", "Edition", "Peninsula", "Bulgari",
}

func IsLuxuryBrand(hotelName string) bool {
	name := strings.ToLower(hotelName)
	for _, brand := range LuxuryBrands {
		if strings.Contains(name, strings.ToLower(brand)) {
			return true
		}
	}
	return false
}
