package routes

import (
	"courtside/handlers"
	"courtside/middleware"
	"courtside/services/identity"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers slot booking and cancellation.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle, deps Deps) {
	booking := r.Group("/api/bookings")
	{
		booking.POST("", middleware.Auth(deps.Verifier, identity.RoleUser), hb.Booking.BookSlot)
		booking.POST("/cancel", middleware.Auth(deps.Verifier, identity.RoleUser, identity.RolePartner), hb.Booking.CancelSlot)
	}
}
