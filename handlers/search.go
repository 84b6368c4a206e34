package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"takemeto75/planner"
	"takemeto75/trip"
)

type DestinationsRequest struct {
	Lat         *float64 `json:"lat" form:"lat"`
	Lon         *float64 `json:"lon" form:"lon"`
	Airport     string   `json:"airport" form:"airport"`
	Limit       int      `json:"limit" form:"limit" binding:"gte=0,lte=50"`
	MaxDistance float64  `json:"max_distance" form:"max_distance" binding:"gte=0"`
}

// Destinations serves GET (query string) and POST (JSON body).
func (h *Handler) Destinations(c *gin.Context) {
	var req DestinationsRequest
	var err error
	if c.Request.Method == http.MethodPost {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBindQuery(&req)
	}
	if err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	res := h.planner.Destinations(c.Request.Context(), planner.DestinationQuery{
		Airport:     strings.ToUpper(strings.TrimSpace(req.Airport)),
		Lat:         req.Lat,
		Lon:         req.Lon,
		Limit:       req.Limit,
		MaxDistance: req.MaxDistance,
	})
	c.JSON(http.StatusOK, res)
}

type SearchRequest struct {
	OriginAirport   string   `json:"origin_airport" binding:"required"`
	DestinationCity string   `json:"destination_city" binding:"required"`
	Tiers           []string `json:"tiers"`
}

func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	h.search(c, req)
}

// SearchQuery is the query-string form: ?origin=JFK&destination=Miami&tier=luxe
func (h *Handler) SearchQuery(c *gin.Context) {
	origin, dest := c.Query("origin"), c.Query("destination")
	if origin == "" || dest == "" {
		badRequest(c, "origin and destination required")
		return
	}
	req := SearchRequest{OriginAirport: origin, DestinationCity: dest}
	if tier := c.Query("tier"); tier != "" {
		req.Tiers = []string{tier}
	}
	h.search(c, req)
}

func (h *Handler) search(c *gin.Context, req SearchRequest) {
	tiers := make([]trip.Tier, 0, len(req.Tiers))
	for _, s := range req.Tiers {
		t, err := trip.ParseTier(s)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		tiers = append(tiers, t)
	}

	res, err := h.planner.Packages(c.Request.Context(), planner.PackageQuery{
		OriginAirport:   strings.ToUpper(strings.TrimSpace(req.OriginAirport)),
		DestinationCity: req.DestinationCity,
		Tiers:           tiers,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
