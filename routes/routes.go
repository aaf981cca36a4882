package routes

import (
	"net/http"
	"time"

	"roame/handlers"
	"roame/middleware"
	"roame/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers signup, login and dashboard endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/signup", hb.User.SignupHandler)
	r.POST("/verify-otp", hb.User.VerifyOTPHandler)
	r.POST("/resend-otp", hb.User.ResendOTPHandler)
	r.POST("/login", hb.User.LoginHandler)
	r.GET("/logout", hb.User.LogoutHandler)
	r.GET("/dashboard", middleware.JWTAuthMiddleware(hb.UserRepo), hb.User.DashboardHandler)
}

// RegisterListingRoutes registers listing and review endpoints. Reads are
// public; writes require a logged in user.
func RegisterListingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/listings")
	{
		api.GET("", hb.Listing.IndexHandler)
		api.GET("/:id", middleware.OptionalAuthMiddleware(hb.UserRepo), hb.Listing.ShowHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		protected.POST("", hb.Listing.CreateHandler)
		protected.PUT("/:id", hb.Listing.UpdateHandler)
		protected.DELETE("/:id", hb.Listing.DeleteHandler)
		protected.POST("/:id/reviews", hb.Listing.CreateReviewHandler)
		protected.DELETE("/:id/reviews/:reviewId", hb.Listing.DeleteReviewHandler)
	}
}

// RegisterBookingRoutes sets up the booking and checkout endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/bookings")
	{
		bookingGroup.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		bookingGroup.GET("/new/:listingId", hb.Booking.NewBookingHandler)
	}

	paymentGroup := r.Group("/payment")
	{
		paymentGroup.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		paymentGroup.POST("/create-order", hb.Payment.CreateOrderHandler)
		paymentGroup.POST("/verify-payment", hb.Payment.VerifyPaymentHandler)
		paymentGroup.GET("/payment-success", hb.Payment.PaymentSuccessHandler)
	}

	if hb.InvoiceDir != "" {
		r.Static("/invoices", hb.InvoiceDir)
	}
	if hb.UploadDir != "" {
		r.Static("/uploads", hb.UploadDir)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/listings") })
	RegisterUserRoutes(r, hb)
	RegisterListingRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterHealthRoute(r)

	r.NoRoute(func(c *gin.Context) {
		utils.JSONError(c, http.StatusNotFound, "Page Not Found!", "")
	})
}
