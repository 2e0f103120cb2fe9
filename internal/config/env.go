package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Env captures runtime configuration. Values come from the environment
// (an optional .env file is loaded first) with defaults that let the
// binary run locally.
type Env struct {
	AppAddr string
	GinMode string

	DBDSN string

	JWTSecret string
	TokenTTL  time.Duration

	// Payment gateway. Empty GatewayBaseURL and StripeKey means the
	// reconciler runs in test mode.
	GatewayBaseURL string
	GatewayKey     string
	StripeKey      string
	GatewayTimeout time.Duration

	// ReturnURL is where the checkout sends the customer back.
	ReturnURL string

	// Optional AMQP notification sink; empty means notifications go to
	// the notifications table only.
	AMQPURL      string
	AMQPExchange string

	RunMigrations bool
}

func LoadEnv() Env {
	_ = godotenv.Load()

	env := Env{
		AppAddr:        ":8080",
		GinMode:        strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBDSN:          "root:@tcp(127.0.0.1:3306)/tes_tour?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
		JWTSecret:      "super-secret-key-change-me",
		TokenTTL:       24 * time.Hour,
		GatewayTimeout: 10 * time.Second,
		ReturnURL:      "http://localhost:3000/payment/return",
		AMQPExchange:   "tes_tour.notifications",
	}

	setString(&env.AppAddr, "APP_ADDR")
	setString(&env.DBDSN, "DB_DSN")
	setString(&env.JWTSecret, "JWT_SECRET")
	setDuration(&env.TokenTTL, "TOKEN_TTL")
	setString(&env.GatewayBaseURL, "GATEWAY_BASE_URL")
	setString(&env.GatewayKey, "GATEWAY_SECRET_KEY")
	setString(&env.StripeKey, "STRIPE_API_KEY")
	setDuration(&env.GatewayTimeout, "GATEWAY_TIMEOUT")
	setString(&env.ReturnURL, "PAYMENT_RETURN_URL")
	setString(&env.AMQPURL, "AMQP_URL")
	setString(&env.AMQPExchange, "AMQP_EXCHANGE")
	env.RunMigrations = strings.EqualFold(os.Getenv("MIGRATE"), "true")

	return env
}

func setString(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}

func setDuration(target *time.Duration, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*target = d
		}
	}
}
