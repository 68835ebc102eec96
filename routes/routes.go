package routes

import (
	"net/http"
	"time"

	"consultly/handlers"
	"consultly/middleware"
	"consultly/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the identity endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.RequireAuth(hb.IdentityService))
		api.POST("/logout", hb.Auth.LogoutHandler)
		api.GET("/me", hb.Auth.MeHandler)
		api.PUT("/device-token", hb.Auth.UpdateDeviceTokenHandler)
	}
}

// RegisterBookingRoutes sets up the booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.RequireAuth(hb.IdentityService))
		api.GET("", hb.Booking.ListBookingsHandler)
		api.POST("", hb.Booking.ScheduleBookingHandler)
		api.PATCH("/:id/status", hb.Booking.UpdateBookingStatusHandler)
	}
}

// RegisterSessionRoutes sets up the live-session endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/sessions")
	{
		api.Use(middleware.RequireAuth(hb.IdentityService))
		api.GET("/:bookingID", hb.Session.GetSessionHandler)
		api.POST("/:bookingID/join", hb.Session.JoinSessionHandler)
		api.POST("/:bookingID/leave", hb.Session.LeaveSessionHandler)
	}
}

// RegisterArtifactRoutes sets up the post-session review endpoints.
// Artifact review is provider-only, matching capture ownership.
func RegisterArtifactRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/artifacts")
	{
		api.Use(middleware.RequireAuth(hb.IdentityService))
		api.Use(middleware.RequireProvider())
		api.GET("", hb.Artifact.ListArtifactsHandler)
		api.GET("/:bookingID/transcript", hb.Artifact.GetTranscriptHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterSessionRoutes(r, hb)
	RegisterArtifactRoutes(r, hb)
	RegisterHealthRoute(r)
}
