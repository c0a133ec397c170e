package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Tokens      TokenConfig
	Checkout    CheckoutConfig
	Paystack    PaystackConfig
	Flutterwave FlutterwaveConfig
	Stripe      StripeConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type TokenConfig struct {
	GuestSecret    string
	CustomerSecret string
	GuestExpiry    time.Duration
	CustomerExpiry time.Duration
	Issuer         string
}

type CheckoutConfig struct {
	IntentTTL     time.Duration
	SweepInterval time.Duration
	CallbackBase  string // e.g. https://portal.example.com - gateway redirects land on CallbackBase/checkout/return
}

type PaystackConfig struct {
	BaseURL   string
	SecretKey string
}

type FlutterwaveConfig struct {
	BaseURL     string
	SecretKey   string
	WebhookHash string // value Flutterwave echoes in the verif-hash header
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "8090"),
			Env:          env("APP_ENV", "development"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             env("DATABASE_DSN", "innsuite:innsuite@tcp(localhost:3306)/innsuite?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		Tokens: TokenConfig{
			GuestSecret:    env("GUEST_TOKEN_SECRET", "change-me-guest"),
			CustomerSecret: env("CUSTOMER_TOKEN_SECRET", "change-me-customer"),
			GuestExpiry:    24 * time.Hour,
			CustomerExpiry: 90 * 24 * time.Hour,
			Issuer:         "innsuite",
		},
		Checkout: CheckoutConfig{
			IntentTTL:     envMinutes("CHECKOUT_INTENT_TTL_MIN", 30*time.Minute),
			SweepInterval: time.Minute,
			CallbackBase:  env("PORTAL_CALLBACK_BASE", "https://portal.innsuite.app"),
		},
		Paystack: PaystackConfig{
			BaseURL:   env("PAYSTACK_BASE_URL", "https://api.paystack.co"),
			SecretKey: env("PAYSTACK_SECRET_KEY", ""),
		},
		Flutterwave: FlutterwaveConfig{
			BaseURL:     env("FLUTTERWAVE_BASE_URL", "https://api.flutterwave.com"),
			SecretKey:   env("FLUTTERWAVE_SECRET_KEY", ""),
			WebhookHash: env("FLUTTERWAVE_WEBHOOK_HASH", ""),
		},
		Stripe: StripeConfig{
			SecretKey:     env("STRIPE_SECRET_KEY", ""),
			WebhookSecret: env("STRIPE_WEBHOOK_SECRET", ""),
		},
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envMinutes(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if mins, err := strconv.Atoi(v); err == nil && mins > 0 {
			return time.Duration(mins) * time.Minute
		}
	}
	return fallback
}
