package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"takemeto75/services"
)

func (h *Handler) GetPackage(c *gin.Context) {
	pkg, err := h.packages.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

// PackagePDF renders the itinerary on demand; nothing is stored.
func (h *Handler) PackagePDF(c *gin.Context) {
	pkg, err := h.packages.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	pdf, err := services.GenerateItineraryPDF(pkg)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=takemeto75-"+pkg.ID+".pdf")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
