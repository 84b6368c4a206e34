package destinations

import (
	"math"
	"strings"

	"takemeto75/trip"
)

// EarthRadiusMiles is the sphere radius used for great-circle distances.
const EarthRadiusMiles = 3959.0

// DefaultOrigin is used when a caller supplies neither airport nor coordinates (NYC).
var DefaultOrigin = trip.Coordinates{Lat: 40.7128, Lon: -74.0060}

// Distance returns the Haversine distance in miles.
func Distance(a, b trip.Coordinates) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return EarthRadiusMiles * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// NearestAirport scans Airports in order; on equal distance the earlier entry wins.
func NearestAirport(c trip.Coordinates) trip.Airport {
	return nearestIn(Airports, c)
}

func nearestIn(airports []trip.Airport, c trip.Coordinates) trip.Airport {
	nearest := airports[0]
	minDist := math.Inf(1)
	for _, a := range airports {
		if d := Distance(c, a.Coordinates()); d < minDist {
			minDist = d
			nearest = a
		}
	}
	return nearest
}

func FindAirport(code string) (trip.Airport, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, a := range Airports {
		if a.Code == code {
			return a, true
		}
	}
	return trip.Airport{}, false
}

// FindDestination looks a catalog city up case-insensitively.
func FindDestination(city string) (trip.Destination, bool) {
	city = strings.TrimSpace(city)
	for _, d := range Catalog {
		if strings.EqualFold(d.City, city) {
			return d, true
		}
	}
	return trip.Destination{}, false
}
