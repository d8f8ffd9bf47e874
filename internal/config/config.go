package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Gemini  GeminiConfig
	Retry   RetryConfig
	Payment PaymentConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	WebDir             string
	TempDir            string
	MaxUploadMB        int
	SessionSecret      string
	SessionTTL         time.Duration
	NatsURL            string // empty disables event forwarding
	RedisURL           string // empty keeps the payment ledger in memory
	OtelEnabled        bool
	OtelEndpoint       string
}

type GeminiConfig struct {
	ApiKey  string
	Model   string
	BaseURL string
	Timeout time.Duration

	// Zero leaves the model's own default in place.
	Temperature     float64
	MaxOutputTokens int
}

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

type PaymentConfig struct {
	LinkURL              string // static payment link, e.g. a Stripe Payment Link
	MidtransServerKey    string
	MidtransIsProduction bool
	PriceAmount          int64
	Verify               bool // require a webhook-confirmed payment before unlocking
}

var ErrMissingGeminiKey = errors.New("GEMINI_API_KEY is not set")

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	midtransKey := getEnv("MIDTRANS_SERVER_KEY", "")

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			WebDir:             getEnv("WEB_DIR", "./web"),
			TempDir:            getEnv("UPLOAD_TEMP_DIR", os.TempDir()),
			MaxUploadMB:        getEnvAsInt("MAX_UPLOAD_MB", 5),
			SessionSecret:      getEnv("SESSION_SECRET", "change-me-in-production"),
			SessionTTL:         getEnvAsDuration("SESSION_TTL", time.Hour),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Gemini: GeminiConfig{
			ApiKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Timeout: getEnvAsDuration("GEMINI_TIMEOUT", 120*time.Second),

			Temperature:     getEnvAsFloat("GEMINI_TEMPERATURE", 0),
			MaxOutputTokens: getEnvAsInt("GEMINI_MAX_OUTPUT_TOKENS", 0),
		},
		Retry: RetryConfig{
			MaxAttempts: getEnvAsInt("LLM_RETRY_ATTEMPTS", 3),
			BaseDelay:   getEnvAsDuration("LLM_RETRY_BASE_DELAY", 2*time.Second),
			Multiplier:  getEnvAsFloat("LLM_RETRY_MULTIPLIER", 2),
		},
		Payment: PaymentConfig{
			LinkURL:              getEnv("STRIPE_PAYMENT_LINK", ""),
			MidtransServerKey:    midtransKey,
			MidtransIsProduction: getEnvAsBool("MIDTRANS_IS_PRODUCTION", false),
			PriceAmount:          int64(getEnvAsInt("PREMIUM_PRICE_AMOUNT", 19)),
			Verify:               getEnvAsBool("PAYMENT_VERIFY", midtransKey != ""),
		},
	}
}

// Validate fails on settings without which no request can be served.
// Missing optional settings only produce warnings.
func (c *Config) Validate() (warnings []string, err error) {
	if strings.TrimSpace(c.Gemini.ApiKey) == "" {
		return nil, ErrMissingGeminiKey
	}
	if c.Payment.LinkURL == "" && c.Payment.MidtransServerKey == "" {
		warnings = append(warnings, "STRIPE_PAYMENT_LINK not configured, payment link will not be shown")
	}
	if c.Payment.Verify && c.Payment.MidtransServerKey == "" {
		warnings = append(warnings, "PAYMENT_VERIFY is on without MIDTRANS_SERVER_KEY, premium content cannot unlock")
	}
	if c.Payment.Verify && c.Payment.MidtransServerKey != "" && c.Payment.LinkURL != "" {
		warnings = append(warnings, "STRIPE_PAYMENT_LINK is ignored while PAYMENT_VERIFY is on, Midtrans checkout is offered instead")
	}
	if c.App.Environment == "production" && c.App.SessionSecret == "change-me-in-production" {
		warnings = append(warnings, "SESSION_SECRET uses the default value")
	}
	return warnings, nil
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.App.MaxUploadMB) * 1024 * 1024
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
