package api

import (
	authUsecase "meetsync-backend/internal/auth/usecase"
	bookingDelivery "meetsync-backend/internal/booking/delivery"
	bookingUsecasePkg "meetsync-backend/internal/booking/usecase"
	rescheduleDelivery "meetsync-backend/internal/reschedule/delivery"
	rescheduleUsecasePkg "meetsync-backend/internal/reschedule/usecase"
	"meetsync-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase       authUsecase.AuthUsecase
	config            *config.Config
	bookingHandler    *bookingDelivery.BookingHandler
	rescheduleHandler *rescheduleDelivery.RescheduleHandler
}

func NewHandler(authUc authUsecase.AuthUsecase, bookingUc bookingUsecasePkg.BookingUsecase, rescheduleUc rescheduleUsecasePkg.RescheduleUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:       authUc,
		config:            cfg,
		bookingHandler:    bookingDelivery.NewBookingHandler(bookingUc),
		rescheduleHandler: rescheduleDelivery.NewRescheduleHandler(rescheduleUc),
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Setup routes
	SetupRoutes(r, h.authUsecase, h.bookingHandler, h.rescheduleHandler)

	return r.Run(addr)
}
