package handlers

import (
	"net/http"

	"roame/services/booking"
	"roame/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the date picker for a listing.
type BookingHandler struct {
	Availability *booking.AvailabilityService
}

// NewBookingHandler handles GET /bookings/new/:listingId.
func (h *BookingHandler) NewBookingHandler(c *gin.Context) {
	logger := getLogger(c)
	listingID := c.Param("listingId")

	page, err := h.Availability.BookingPage(c.Request.Context(), listingID)
	if err != nil {
		logger.Error("Failed to build booking page", zap.String("listingId", listingID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not load booking page", "")
		return
	}
	if page == nil {
		utils.JSONError(c, http.StatusNotFound, "Listing not found", "")
		return
	}
	c.JSON(http.StatusOK, page)
}
