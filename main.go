package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/auth"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/config"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/db"
	api "github.com/Afomiya21-negash/Tes-tour-sub001/internal/http"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/http/handlers"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/notify"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/payments"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/repositories"
	"github.com/Afomiya21-negash/Tes-tour-sub001/internal/services"
)

func main() {
	env := config.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	dbc, err := config.OpenDB(env.DBDSN)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer dbc.Close()

	if env.RunMigrations {
		if err := db.Migrate(dbc); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		log.Println("migrations applied")
	}

	authMgr := auth.NewManager(env.JWTSecret, env.TokenTTL)

	// Gateway selection: Stripe when a key is set, the hosted-checkout
	// HTTP gateway when a base URL is set, otherwise nil (test mode).
	var gateway payments.Gateway
	switch {
	case env.StripeKey != "":
		gateway = payments.NewStripeGateway(env.StripeKey, "etb")
		log.Println("payment gateway: stripe")
	case env.GatewayBaseURL != "":
		gateway = payments.NewHTTPGateway(env.GatewayBaseURL, env.GatewayKey, env.GatewayTimeout)
		log.Println("payment gateway: hosted checkout at " + env.GatewayBaseURL)
	default:
		log.Println("payment gateway: none configured, running in test mode")
	}

	var sink notify.Sink = notify.NewTableSink(dbc)
	if env.AMQPURL != "" {
		amqpSink, err := notify.NewAMQPSink(env.AMQPURL, env.AMQPExchange)
		if err != nil {
			log.Printf("amqp sink unavailable, falling back to table sink: %v", err)
		} else {
			defer amqpSink.Close()
			sink = amqpSink
		}
	}

	bookingRepo := repositories.BookingRepository{DB: dbc}
	paymentRepo := repositories.PaymentRepository{DB: dbc}
	changeRequestRepo := repositories.ChangeRequestRepository{DB: dbc}
	ratingRepo := repositories.RatingRepository{DB: dbc}
	userRepo := repositories.UserRepository{DB: dbc}
	catalogRepo := repositories.CatalogRepository{DB: dbc}

	h := &handlers.Handlers{
		DB: dbc,
		Users: services.UserService{
			DB: dbc, UserRepo: userRepo, Auth: authMgr,
		},
		Bookings: services.BookingService{
			DB: dbc, BookingRepo: bookingRepo, CatalogRepo: catalogRepo,
			UserRepo: userRepo, Sink: sink,
		},
		Payments: services.PaymentService{
			DB: dbc, PaymentRepo: paymentRepo, BookingRepo: bookingRepo,
			Gateway: gateway, Sink: sink, ReturnURL: env.ReturnURL,
		},
		ChangeRequests: services.ChangeRequestService{
			DB: dbc, ChangeRequestRepo: changeRequestRepo,
			BookingRepo: bookingRepo, UserRepo: userRepo, Sink: sink,
		},
		Ratings: services.RatingService{
			DB: dbc, RatingRepo: ratingRepo, BookingRepo: bookingRepo, UserRepo: userRepo,
		},
		Docs: services.DocsService{
			DB: dbc, BookingRepo: bookingRepo, PaymentRepo: paymentRepo,
			CatalogRepo: catalogRepo, UserRepo: userRepo,
		},
	}

	r := api.NewRouter(h, authMgr)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly")
}
