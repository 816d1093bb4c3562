package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Public endpoints
	QuoteHandler  gin.HandlerFunc
	HealthHandler gin.HandlerFunc

	// Customer endpoints
	PlaceBookingHandler   gin.HandlerFunc
	ListMyBookingsHandler gin.HandlerFunc
	GetBookingHandler     gin.HandlerFunc
	CancelBookingHandler  gin.HandlerFunc

	// Admin endpoints
	CompleteBookingHandler gin.HandlerFunc
	ReviewBookingHandler   gin.HandlerFunc
}

// NewHandlerBundle wires a BookingHandler and the health endpoint into a bundle.
func NewHandlerBundle(bh *BookingHandler, health gin.HandlerFunc) *HandlerBundle {
	return &HandlerBundle{
		QuoteHandler:           bh.QuoteHandler,
		HealthHandler:          health,
		PlaceBookingHandler:    bh.PlaceBookingHandler,
		ListMyBookingsHandler:  bh.ListMyBookingsHandler,
		GetBookingHandler:      bh.GetBookingHandler,
		CancelBookingHandler:   bh.CancelBookingHandler,
		CompleteBookingHandler: bh.CompleteBookingHandler,
		ReviewBookingHandler:   bh.ReviewBookingHandler,
	}
}
