package destinations

import (
	"math"
	"sort"

	"takemeto75/trip"
)

// IsCandidate reports whether a forecast is pleasant and mostly fair.
func IsCandidate(w trip.WeatherSnapshot) bool {
	return trip.InPleasantRange(w.AvgTemp) && w.IsSunny
}

type RankOptions struct {
	// Limit caps the result. Zero means no cap and no backfill.
	Limit int
	// MaxDistance in miles drops anything farther. Zero disables it.
	MaxDistance float64
}

// Rank orders destinations for a traveler at origin. Candidates come first,
// nearest first with ties going to the temperature closest to 75°F. When
// fewer than Limit candidates exist, the remainder is backfilled with
// non-candidates by temperature closeness, then distance.
//
// The input is not modified; returned destinations carry Distance.
func Rank(dests []trip.Destination, origin trip.Coordinates, opts RankOptions) []trip.Destination {
	var candidates, others []trip.Destination
	for _, d := range dests {
		d.Distance = Distance(origin, d.Coordinates())
		if opts.MaxDistance > 0 && d.Distance > opts.MaxDistance {
			continue
		}
		if IsCandidate(d.Weather) {
			candidates = append(candidates, d)
		} else {
			others = append(others, d)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		return tempGap(a) < tempGap(b)
	})

	if opts.Limit <= 0 {
		return roundDistances(candidates)
	}
	if len(candidates) >= opts.Limit {
		return roundDistances(candidates[:opts.Limit])
	}

	sort.SliceStable(others, func(i, j int) bool {
		a, b := others[i], others[j]
		if tempGap(a) != tempGap(b) {
			return tempGap(a) < tempGap(b)
		}
		return a.Distance < b.Distance
	})

	need := opts.Limit - len(candidates)
	if need > len(others) {
		need = len(others)
	}
	return roundDistances(append(candidates, others[:need]...))
}

func roundDistances(dests []trip.Destination) []trip.Destination {
	for i := range dests {
		dests[i].Distance = math.Round(dests[i].Distance)
	}
	return dests
}

func tempGap(d trip.Destination) float64 {
	return math.Abs(trip.IdealTemp - d.Weather.AvgTemp)
}
