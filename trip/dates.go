package trip

import (
	"fmt"
	"time"
)

// DefaultNights is used when a caller does not ask for a stay length.
const DefaultNights = 3

const (
	isoDate     = "2006-01-02"
	displayDate = "Mon, Jan 2"
)

// NewTravelDates departs tomorrow (in now's location) and returns after the
// given number of nights.
func NewTravelDates(now time.Time, nights int) TravelDates {
	if nights <= 0 {
		nights = DefaultNights
	}
	y, m, d := now.Date()
	checkIn := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	checkOut := checkIn.AddDate(0, 0, nights)

	return TravelDates{
		CheckIn:  checkIn.Format(isoDate),
		CheckOut: checkOut.Format(isoDate),
		Display: DatesDisplay{
			CheckIn:  checkIn.Format(displayDate),
			CheckOut: checkOut.Format(displayDate),
		},
		Nights: nights,
	}
}

// NightsBetween counts calendar nights between two YYYY-MM-DD dates.
func NightsBetween(checkIn, checkOut string) (int, error) {
	in, err := time.Parse(isoDate, checkIn)
	if err != nil {
		return 0, fmt.Errorf("invalid check-in date %q: %w", checkIn, err)
	}
	out, err := time.Parse(isoDate, checkOut)
	if err != nil {
		return 0, fmt.Errorf("invalid check-out date %q: %w", checkOut, err)
	}
	if !out.After(in) {
		return 0, fmt.Errorf("check-out %s is not after check-in %s", checkOut, checkIn)
	}
	return int(out.Sub(in).Hours() / 24), nil
}
