package api

import (
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/auth"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/domain"
	h "github.com/Afomiya21-negash/Tes-tour-sub001/internal/http/handlers"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/http/middleware"
)

// NewRouter wires every route. Staff-only writes sit behind role
// middleware; the webhook and the catalog reads are public.
func NewRouter(handlers *h.Handlers, authMgr *auth.Manager) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.Health)
		api.GET("/db-check", handlers.DBCheck)

		authGroup := api.Group("/auth")
		authGroup.POST("/login", handlers.Login)
		authGroup.POST("/register", handlers.Register)

		// Catalog is browsable without an account.
		api.GET("/tours", handlers.ListTours)
		api.GET("/tours/:id", handlers.GetTour)
		api.GET("/vehicles", handlers.ListVehicles)
		api.GET("/vehicles/:id", handlers.GetVehicle)

		// Gateway-initiated settlement carries no user token.
		api.POST("/payments/webhook", handlers.PaymentWebhook)

		authed := api.Group("")
		authed.Use(middleware.RequireAuth(authMgr))
		{
			bookings := authed.Group("/bookings")
			bookings.POST("", handlers.CreateBooking)
			bookings.GET("", handlers.ListMyBookings)
			bookings.GET("/:id", handlers.GetBooking)
			bookings.GET("/:id/e-ticket", handlers.GetBookingETicket)
			bookings.GET("/:id/receipt", handlers.GetBookingReceipt)

			bookings.PUT("/:id/assign",
				middleware.RequireRoles(domain.RoleAdmin), handlers.AssignBooking)
			bookings.POST("/:id/cancel",
				middleware.RequireRoles(domain.RoleAdmin), handlers.CancelBooking)
			bookings.POST("/:id/start",
				middleware.RequireRoles(domain.RoleTourGuide), handlers.StartTour)
			bookings.POST("/:id/finish",
				middleware.RequireRoles(domain.RoleTourGuide), handlers.FinishTour)
			bookings.GET("/:id/assignment-check",
				middleware.RequireRoles(domain.RoleTourGuide, domain.RoleDriver), handlers.CheckAssignment)

			bookings.POST("/:id/rating", handlers.SubmitRating)
			bookings.GET("/:id/rating", handlers.GetBookingRating)
			bookings.GET("/:id/can-rate", handlers.CanRateBooking)

			payments := authed.Group("/payments")
			payments.POST("/initialize", handlers.InitializePayment)
			payments.POST("/verify", handlers.VerifyPayment)
			payments.POST("/refund-request", handlers.RequestRefund)

			changeRequests := authed.Group("/change-requests")
			changeRequests.POST("", handlers.CreateChangeRequest)
			changeRequests.DELETE("/:id", handlers.CancelChangeRequest)
			changeRequests.PUT("/:id/process",
				middleware.RequireRoles(domain.RoleAdmin), handlers.ProcessChangeRequest)
		}
	}

	return r
}
