package services

import (
	"net/url"
	"strconv"

	"takemeto75/config"
	"takemeto75/trip"
)

const (
	bookingHotelSearchURL = "https://www.booking.com/hotel/searchresults.html"
	bookingSearchURL      = "https://www.booking.com/searchresults.html"
	awinClickURL          = "https://www.awin1.com/cread.php"
)

// Affiliates builds partner checkout links.
type Affiliates struct {
	BookingAID     string
	AwinPublisher  string
	AwinAdvertiser string
}

func NewAffiliates(b config.Booking, a config.Awin) Affiliates {
	return Affiliates{
		BookingAID:     b.AffiliateID,
		AwinPublisher:  a.PublisherID,
		AwinAdvertiser: a.AdvertiserID,
	}
}

// BookingDeepLink opens the Booking.com results for one property.
func (a Affiliates) BookingDeepLink(hotelID, checkIn, checkOut string, guests, rooms int) string {
	params := url.Values{}
	params.Set("aid", a.BookingAID)
	params.Set("checkin", checkIn)
	params.Set("checkout", checkOut)
	params.Set("group_adults", strconv.Itoa(max(guests, 1)))
	params.Set("no_rooms", strconv.Itoa(max(rooms, 1)))
	params.Set("selected_currency", trip.ReportingCurrency)
	return bookingHotelSearchURL + "?dest_id=" + url.QueryEscape(hotelID) + "&" + params.Encode()
}

// AwinHotelLink wraps a Booking.com search for "hotel, city" in an AWIN click.
func (a Affiliates) AwinHotelLink(hotelName, city, checkIn, checkOut string, guests int) string {
	return a.awin(hotelName+", "+city, checkIn, checkOut, guests)
}

// AwinCityLink wraps a Booking.com search for "city, country".
func (a Affiliates) AwinCityLink(city, country, checkIn, checkOut string, guests int) string {
	return a.awin(city+", "+country, checkIn, checkOut, guests)
}

func (a Affiliates) awin(query, checkIn, checkOut string, guests int) string {
	search := bookingSearchURL + "?ss=" + url.QueryEscape(query) +
		"&checkin=" + checkIn +
		"&checkout=" + checkOut +
		"&group_adults=" + strconv.Itoa(max(guests, 1)) +
		"&no_rooms=1"
	return awinClickURL + "?awinmid=" + a.AwinAdvertiser +
		"&awinaffid=" + a.AwinPublisher +
		"&ued=" + url.QueryEscape(search)
}
