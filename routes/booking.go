package routes

import (
	"carrent/handlers"
	"carrent/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers the customer-facing booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookings := r.Group("/api/bookings")
	{
		bookings.POST("/quote", hb.QuoteHandler)

		protected := bookings.Group("")
		protected.Use(middleware.JWTAuthUserMiddleware())
		protected.POST("", hb.PlaceBookingHandler)
		protected.GET("", hb.ListMyBookingsHandler)
		protected.GET("/:id", hb.GetBookingHandler)
		protected.POST("/:id/cancel", hb.CancelBookingHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for back-office operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle, adminToken string) {
	admin := r.Group("/api/admin")
	{
		admin.Use(middleware.JWTAuthAdminMiddleware(adminToken))
		admin.POST("/bookings/:id/complete", hb.CompleteBookingHandler)
		admin.POST("/bookings/:id/review", hb.ReviewBookingHandler)
	}
}
