package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/davinrk/venuely/config"
	"github.com/davinrk/venuely/internal/handlers"
	"github.com/davinrk/venuely/internal/middleware"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	if err := config.EnsureUploadDir(cfg); err != nil {
		return fmt.Errorf("failed to create upload directory: %v", err)
	}

	r := gin.Default()

	r.Static("/uploads", cfg.UploadDir)

	setupRoutes(r, db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB) {
	r.Use(middleware.DatabaseMiddleware(db))

	r.GET("/healthcheck", handlers.Healthcheck)

	r.POST("/users", handlers.Register)

	userPublic := r.Group("/user")
	{
		userPublic.POST("/login", handlers.Login)
		userPublic.POST("/forgotpassword", handlers.ForgotPassword)
		userPublic.POST("/resetpassword", handlers.ResetPassword)
	}

	userProtected := r.Group("/user")
	userProtected.Use(middleware.JWTAuthMiddleware())
	{
		userProtected.GET("/:id", middleware.RequireSelfOrAdmin("id"), handlers.GetUser)
		userProtected.PUT("/:id", middleware.RequireSelfOrAdmin("id"), handlers.UpdateUser)
		userProtected.DELETE("/:id", middleware.RequireSelfOrAdmin("id"), handlers.DeleteUser)
		userProtected.GET("/:id/bookings", middleware.RequireSelfOrAdmin("id"), handlers.ListUserBookings)
	}

	// /api/... aliases mirror the unprefixed routes for older clients.
	for _, prefix := range []string{"", "/api"} {
		eventPublic := r.Group(prefix + "/event")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
		}
		// Plural alias used by the frontend.
		r.GET(prefix+"/events", handlers.ListEvents)

		eventProtected := r.Group(prefix + "/event")
		eventProtected.Use(middleware.JWTAuthMiddleware())
		{
			eventProtected.POST("", middleware.RequireOrganizer(), handlers.CreateEvent)
			eventProtected.PUT("/:id", middleware.RequireOrganizer(), handlers.UpdateEvent)
			eventProtected.PUT("/:id/with-images", middleware.RequireOrganizer(), handlers.UpdateEventWithImages)
			eventProtected.DELETE("/:id", middleware.RequireOrganizer(), handlers.DeleteEvent)
		}

		venuePublic := r.Group(prefix + "/venue")
		{
			venuePublic.GET("", handlers.ListVenues)
			venuePublic.GET("/:id", handlers.GetVenue)
		}

		venueProtected := r.Group(prefix + "/venue")
		venueProtected.Use(middleware.JWTAuthMiddleware(), middleware.RequireOrganizer())
		{
			venueProtected.POST("", handlers.CreateVenue)
			venueProtected.PUT("/:id", handlers.UpdateVenue)
			venueProtected.DELETE("/:id", handlers.DeleteVenue)
		}

		categoryPublic := r.Group(prefix + "/category")
		{
			categoryPublic.GET("", handlers.ListCategories)
			categoryPublic.GET("/:id", handlers.GetCategory)
		}

		categoryProtected := r.Group(prefix + "/category")
		categoryProtected.Use(middleware.JWTAuthMiddleware(), middleware.RequireAdmin())
		{
			categoryProtected.POST("", handlers.CreateCategory)
			categoryProtected.PUT("/:id", handlers.UpdateCategory)
			categoryProtected.DELETE("/:id", handlers.DeleteCategory)
		}

		admin := r.Group(prefix + "/admin")
		admin.Use(middleware.JWTAuthMiddleware(), middleware.RequireAdmin())
		{
			admin.GET("/stats", handlers.GetAdminStats)
			admin.GET("/users", handlers.AdminListUsers)
			admin.PUT("/users/:id/status", handlers.AdminUpdateUserStatus)
			admin.GET("/organizers", handlers.AdminListOrganizers)
			admin.PUT("/organizers/:id/approve", handlers.AdminApproveOrganizer)
			admin.PUT("/organizers/:id/reject", handlers.AdminRejectOrganizer)
			admin.GET("/events", handlers.AdminListEvents)
			admin.GET("/bookings", handlers.AdminListBookings)
			admin.PUT("/booking/:bookingId/status", handlers.AdminOverrideBookingStatus)
		}
	}

	booking := r.Group("/booking")
	booking.Use(middleware.JWTAuthMiddleware())
	{
		booking.POST("/create", handlers.CreateBooking)
		booking.GET("/pending", middleware.RequireOrganizer(), handlers.GetPendingBookings)
		booking.GET("/organizer", middleware.RequireOrganizer(), handlers.GetOrganizerBookings)
		booking.GET("/stats", middleware.RequireOrganizer(), handlers.GetBookingStats)
		booking.GET("/recent", middleware.RequireAdmin(), handlers.GetRecentBookings)
		booking.GET("/all", middleware.RequireAdmin(), handlers.GetAllBookings)
		booking.GET("/:bookingId", handlers.GetBooking)
		booking.GET("/:bookingId/qrcode", handlers.GetBookingQRCode)
		booking.PUT("/:bookingId/status", middleware.RequireOrganizer(), handlers.UpdateBookingStatus)
		booking.PUT("/:bookingId/cancel", handlers.CancelBooking)
		booking.PUT("/approve/:bookingId", middleware.RequireOrganizer(), handlers.ApproveBooking)
	}
}
