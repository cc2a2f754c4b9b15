package routes

import (
	"net/http"
	"time"

	"servicehub/handlers"
	"servicehub/middleware"
	"servicehub/models"
	"servicehub/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterProviderRoutes registers provider discovery and management endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	auth := middleware.JWTAuthMiddleware(hb.UserRepo)

	api := r.Group("/api/providers")
	{
		api.GET("", hb.Provider.ListProvidersHandler)
		api.GET("/nearby", hb.Provider.NearbyProvidersHandler)
		api.GET("/:id", hb.Provider.GetProviderHandler)
		api.GET("/:id/stats", hb.Provider.ProviderStatsHandler)

		api.POST("/register", auth, hb.Provider.RegisterProviderHandler)
		api.PUT("/profile", auth, hb.Provider.UpdateProfileHandler)
		api.GET("/dashboard/stats", auth, hb.Provider.DashboardStatsHandler)
		api.PUT("/verify/:id", auth, middleware.RequireRole(models.RoleAdmin), hb.Provider.VerifyProviderHandler)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints. All of them
// require an authenticated account.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
	{
		api.POST("", hb.Booking.CreateBookingHandler)
		api.GET("", hb.Booking.ListMyBookingsHandler)
		api.GET("/provider", hb.Booking.ListProviderBookingsHandler)
		api.GET("/:id", hb.Booking.GetBookingHandler)
		api.PATCH("/:id/status", hb.Booking.UpdateStatusHandler)
		api.PUT("/:id", hb.Booking.UpdateBookingHandler)
		api.DELETE("/:id", hb.Booking.CancelBookingHandler)
		api.PATCH("/:id/cancellation", hb.Booking.AnnotateCancellationHandler)
	}
}

// RegisterReviewRoutes registers review endpoints.
func RegisterReviewRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	auth := middleware.JWTAuthMiddleware(hb.UserRepo)

	api := r.Group("/api/reviews")
	{
		api.GET("/:id", hb.Review.ListProviderReviewsHandler)
		api.POST("", auth, hb.Review.SubmitReviewHandler)
		api.POST("/:id/response", auth, hb.Review.RespondToReviewHandler)
	}
}

// RegisterHealthRoute exposes the latest dependency health snapshot and the
// Prometheus registry.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterProviderRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterReviewRoutes(r, hb)
}
