package selector

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"takemeto75/trip"
)

var (
	errUnparseable  = errors.New("advisor reply is not a JSON object")
	errMissingField = errors.New("advisor reply names no flight or hotel")
	errDangling     = errors.New("advisor reply references an unknown offer")
)

// advice is the advisor's reply. Ids are preferred; the zero-based index
// variant is accepted when an id is absent.
type advice struct {
	FlightID    flexString `json:"selected_flight_id"`
	HotelID     flexString `json:"selected_hotel_id"`
	Reasoning   string     `json:"reasoning"`
	FlightIndex *int       `json:"flightIndex"`
	HotelIndex  *int       `json:"hotelIndex"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

// extractObject returns the first balanced {...} in text, ignoring braces
// inside JSON strings.
func extractObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func parseAdvice(reply string) (advice, error) {
	raw, ok := extractObject(reply)
	if !ok {
		return advice{}, errUnparseable
	}
	var a advice
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return advice{}, fmt.Errorf("%w: %v", errUnparseable, err)
	}
	if (a.FlightID == "" && a.FlightIndex == nil) || (a.HotelID == "" && a.HotelIndex == nil) {
		return advice{}, errMissingField
	}
	return a, nil
}

// resolve maps the advice onto the candidate lists.
func (a advice) resolve(flights []trip.FlightOffer, hotels []trip.HotelOffer) (trip.FlightOffer, trip.HotelOffer, error) {
	fi := lookup(len(flights), string(a.FlightID), a.FlightIndex, func(i int) string { return flights[i].ID })
	hi := lookup(len(hotels), string(a.HotelID), a.HotelIndex, func(i int) string { return hotels[i].ID })
	if fi < 0 || hi < 0 {
		return trip.FlightOffer{}, trip.HotelOffer{}, fmt.Errorf("%w: flight=%q hotel=%q", errDangling, a.FlightID, a.HotelID)
	}
	return flights[fi], hotels[hi], nil
}

func lookup(n int, id string, index *int, idAt func(int) string) int {
	if id != "" {
		for i := 0; i < n; i++ {
			if idAt(i) == id {
				return i
			}
		}
		return -1
	}
	if index != nil && *index >= 0 && *index < n {
		return *index
	}
	return -1
}

// outcome labels an advisor failure for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, errUnparseable), errors.Is(err, errMissingField):
		return "unparseable"
	case errors.Is(err, errDangling):
		return "dangling_reference"
	}
	return "advisor_error"
}

func formatIndex(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
