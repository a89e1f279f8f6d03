package routes

import (
	"time"

	"courtside/handlers"
	"courtside/middleware"
	"courtside/services/identity"
	"courtside/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the guards the routes need besides the handlers.
type Deps struct {
	Verifier    middleware.TokenVerifier
	Limiter     *middleware.RateLimiter
	Logger      *zap.Logger
	AdminKey    string
	EmailAPIKey string
}

// RegisterListingRoutes registers the public listing queries.
func RegisterListingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/listings")
	{
		api.GET("", hb.Listing.QueryListings)
		api.GET("/search", hb.Listing.SearchListings)
		api.GET("/:id", hb.Listing.GetListing)
	}
}

// RegisterUserRoutes registers user endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle, deps Deps) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.User.RegisterUser)

		me := api.Group("/me", middleware.Auth(deps.Verifier, identity.RoleUser))
		me.GET("", hb.User.GetMe)
		me.PATCH("", hb.User.UpdateMe)
		me.DELETE("", hb.User.DeleteMe)
		me.GET("/bookings", hb.User.MyBookings)
	}
}

// RegisterPartnerRoutes registers partner account and listing management endpoints.
func RegisterPartnerRoutes(r *gin.Engine, hb *handlers.HandlerBundle, deps Deps) {
	api := r.Group("/api/partners")
	{
		api.POST("/register", hb.Partner.RegisterPartner)

		me := api.Group("/me", middleware.Auth(deps.Verifier, identity.RolePartner))
		me.GET("", hb.Partner.GetMe)
		me.PATCH("", hb.Partner.UpdateMe)
		me.DELETE("", hb.Partner.DeleteMe)

		me.PUT("/payment", hb.Partner.SetPayment)
		me.POST("/reauth", hb.Partner.Reauth)
		me.GET("/payment", hb.Partner.RevealPayment)

		me.GET("/listings", hb.Listing.PartnerListings)
		me.POST("/listings", hb.Listing.CreateListing)
		me.PUT("/listings/:id", hb.Listing.UpdateListing)
		me.DELETE("/listings/:id", hb.Listing.DeleteListing)
		me.GET("/bookings", hb.Listing.PartnerBookings)

		me.POST("/uploads", hb.Storage.UploadImage)
	}
}

// RegisterAuthRoutes registers account action-link endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle, deps Deps) {
	api := r.Group("/api/auth")
	{
		api.POST("/password-reset", hb.Auth.PasswordReset)
		api.POST("/verify-email", middleware.Auth(deps.Verifier, identity.RoleUser, identity.RolePartner), hb.Auth.VerifyEmail)
	}
}

// RegisterMailRoutes registers the contact form and the internal email endpoint.
func RegisterMailRoutes(r *gin.Engine, hb *handlers.HandlerBundle, deps Deps) {
	r.POST("/api/contact", hb.Mail.Contact)
	r.POST("/api/internal/email", middleware.APIKeyAuth(deps.EmailAPIKey), hb.Mail.SendEmail)
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle, deps Deps) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.AdminAuth(deps.AdminKey))
		adminGroup.POST("/billing/run", hb.Admin.RunBilling)
		adminGroup.POST("/users/sync-emails", hb.Admin.SyncEmails)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", handlers.Health(hb.Health))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, deps Deps) {
	logger := deps.Logger
	if logger == nil {
		logger = utils.GetLogger()
	}
	r.Use(utils.ErrorHandler())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Session-ID", "X-Reauth-Token", "X-Api-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if deps.Limiter != nil {
		r.Use(deps.Limiter.Middleware())
	}

	RegisterHealthRoute(r, hb)
	RegisterListingRoutes(r, hb)
	RegisterUserRoutes(r, hb, deps)
	RegisterPartnerRoutes(r, hb, deps)
	RegisterBookingRoutes(r, hb, deps)
	RegisterAuthRoutes(r, hb, deps)
	RegisterMailRoutes(r, hb, deps)
	RegisterAdminRoutes(r, hb, deps)
}
