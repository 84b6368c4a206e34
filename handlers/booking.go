package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"takemeto75/booking"
	"takemeto75/trip"
)

type BookingRequest struct {
	PackageID   string            `json:"package_id"`
	TripPackage *trip.TripPackage `json:"trip_package"`
	Passenger   trip.Passenger    `json:"passenger"`
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	if req.PackageID == "" && req.TripPackage == nil {
		badRequest(c, "package_id or trip_package required")
		return
	}

	b, err := h.bookings.Create(c.Request.Context(), booking.CreateRequest{
		PackageID: req.PackageID,
		Package:   req.TripPackage,
		Passenger: req.Passenger,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":                true,
		"booking_id":             b.ID,
		"flight_booking_ref":     b.FlightOrderID,
		"hotel_booking_ref":      b.HotelOrderID,
		"hotel_confirmation_url": b.HotelCheckoutURL,
		"refund_deadline":        b.RefundDeadline,
		"booking":                b,
	})
}

func (h *Handler) GetBooking(c *gin.Context) {
	view, err := h.bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	b, err := h.bookings.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking cancelled and refund initiated",
		"booking": b,
	})
}
