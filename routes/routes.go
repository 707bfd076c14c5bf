package routes

import (
	"net/http"
	"time"

	"soothe/handlers"
	"soothe/middleware"
	"soothe/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers signup and sign-in endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.RegisterHandler)
		api.POST("/login", hb.LoginHandler)
		api.POST("/google", hb.GoogleSignInHandler)
		api.POST("/facebook", hb.FacebookSignInHandler)
	}
}

// RegisterUserRoutes registers profile endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/me", hb.MeHandler)
		api.PUT("/me/about", hb.UpdateAboutHandler)
		api.POST("/me/photo", hb.UploadProfilePhotoHandler)
	}
}

// RegisterTherapistRoutes registers public therapist profiles and the
// manager-side listing.
func RegisterTherapistRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/therapists")
	{
		api.GET("/:id", hb.TherapistProfileHandler)
		api.GET("", middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleManager), hb.ListTherapistsHandler)
		api.GET("/:id/stats", middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleManager), hb.TherapistStatsHandler)
	}
}

// RegisterServiceRoutes registers the catalog: public listing plus
// therapist-side CRUD.
func RegisterServiceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/services")
	{
		api.GET("", hb.ListServicesHandler)
		api.GET("/:id", hb.GetServiceHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleTherapist))
		protected.GET("/mine", hb.MyServicesHandler)
		protected.POST("", hb.CreateServiceHandler)
		protected.PUT("/:id", hb.UpdateServiceHandler)
		protected.DELETE("/:id", hb.DeleteServiceHandler)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints. Creation
// and slot lookup are open to guests; everything else requires a session.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.GET("/slots", hb.SlotsHandler)
		api.POST("", middleware.OptionalAuthMiddleware(), hb.CreateBookingHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.GET("", hb.MyBookingsHandler)
		protected.GET("/:id", hb.GetBookingHandler)
		protected.POST("/:id/cancel", hb.CancelBookingHandler)
		protected.GET("/:id/messages", hb.MessagesHandler)
		protected.POST("/:id/messages", hb.SendMessageHandler)
		protected.POST("/:id/read", hb.MarkReadHandler)
		protected.POST("/:id/review", hb.SubmitBookingReviewHandler)
	}
}

// RegisterReviewRoutes registers rating submission.
func RegisterReviewRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reviews")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.SubmitReviewHandler)
	}
}

// RegisterPaymentRoutes registers checkout creation. The Stripe webhook is
// registered separately, ahead of the global middleware.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/create-checkout-session", middleware.OptionalAuthMiddleware(), hb.CreateCheckoutSessionHandler)
}

// RegisterMediaRoutes registers upload endpoints.
func RegisterMediaRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/upload", middleware.JWTAuthMiddleware(), hb.UploadHandler)

		certs := api.Group("/certificates")
		certs.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleTherapist))
		certs.POST("", hb.AddCertificateHandler)
		certs.PUT("/:id", hb.UpdateCertificateHandler)
		certs.DELETE("/:id", hb.DeleteCertificateHandler)
	}
}

// RegisterBlogRoutes registers the public blog and its manager-side CRUD.
func RegisterBlogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/blog")
	{
		api.GET("", hb.ListBlogHandler)
		api.GET("/:id", hb.GetBlogPostHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleManager))
		protected.POST("", hb.CreateBlogPostHandler)
		protected.DELETE("/:id", hb.DeleteBlogPostHandler)
	}
}

// RegisterRealtimeRoutes registers the per-booking websocket channel.
func RegisterRealtimeRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/ws/bookings/:id", hb.WSHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Stripe signs its webhook calls and retries on any non-200, so the
	// endpoint is registered before CORS and the rate limiter attach.
	r.POST("/api/webhook", hb.StripeWebhookHandler)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterTherapistRoutes(r, hb)
	RegisterServiceRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterReviewRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterMediaRoutes(r, hb)
	RegisterBlogRoutes(r, hb)
	RegisterRealtimeRoutes(r, hb)
	RegisterHealthRoute(r)
}
