package api

import (
	"net/http"

	"meetsync-backend/internal/auth/delivery"
	authUsecase "meetsync-backend/internal/auth/usecase"
	bookingDelivery "meetsync-backend/internal/booking/delivery"
	rescheduleDelivery "meetsync-backend/internal/reschedule/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, bookingHandler *bookingDelivery.BookingHandler, rescheduleHandler *rescheduleDelivery.RescheduleHandler) {
	authHandler := delivery.NewAuthHandler(authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUsecase), authHandler.Me)
		}

		// Booking routes (protected)
		bookings := api.Group("/bookings")
		bookings.Use(delivery.AuthMiddleware(authUsecase))
		{
			bookings.GET("", bookingHandler.ListBookings)
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.POST("/:id/cancel", rescheduleHandler.CancelBooking)
			bookings.POST("/:id/reschedule-link", rescheduleHandler.IssueLink)
			bookings.GET("/:id/proposals", rescheduleHandler.ListProposals)
		}

		// Reschedule routes, authenticated by capability token instead of JWT
		reschedule := api.Group("/r")
		{
			reschedule.GET("/view", rescheduleHandler.View)
			reschedule.POST("/propose", rescheduleHandler.Propose)
			reschedule.POST("/decide", rescheduleHandler.Decide)
		}
	}
}
