package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	LogLevel    string
	ServiceName string
	DBUrl       string
	AutoMigrate bool
	// Tokens
	JWTSecret       string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	JWKSURL         string // optional external issuer (RS256)
	// CORS
	CORSAllowedOrigins []string
	// SMTP Configuration
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitLoginThreshold  int
	RateLimitGlobalThreshold int
	FailedLoginBlockMinutes  int
	FailedLoginMaxAttempts   int
	// Security Configuration
	SecurityLogToDB bool
	// AI provider
	AIProvider          string // anthropic | gemini
	AnthropicAPIKey     string
	AnthropicBaseURL    string
	AnthropicModel      string
	GeminiAPIKey        string
	GeminiModel         string
	AIMaxTokens         int
	AIRequestsPerSecond float64
	AICacheTTL          time.Duration
	AIRequestTimeout    time.Duration
	AIUserLimitPerMin   int
	// Messaging bus
	RabbitMQURL        string
	EventsExchange     string
	NotificationsQueue string
	// Export archive (S3 compatible)
	S3Provider        string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Endpoint        string
	// Tracing
	OTELEndpoint string
}

func LoadConfig() (*Config, error) {
	// .env is only present locally
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		ServiceName: getEnv("SERVICE_NAME", "recruitment-crm"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		AutoMigrate: getEnvBool("AUTO_MIGRATE", false),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTIssuer:       getEnv("JWT_ISSUER", "recruitment-crm"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		JWKSURL:         strings.TrimRight(getEnv("JWKS_URL", ""), "/"),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", "noreply@recruitment-crm.local"),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitLoginThreshold:  getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		FailedLoginBlockMinutes:  getEnvInt("FAILED_LOGIN_BLOCK_MINUTES", 15),
		FailedLoginMaxAttempts:   getEnvInt("FAILED_LOGIN_MAX_ATTEMPTS", 5),

		SecurityLogToDB: getEnvBool("SECURITY_LOG_TO_DB", true),

		AIProvider:          strings.ToLower(getEnv("AI_PROVIDER", "anthropic")),
		AnthropicAPIKey:     getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicBaseURL:    strings.TrimRight(getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com"), "/"),
		AnthropicModel:      getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		AIMaxTokens:         getEnvInt("AI_MAX_TOKENS", 2048),
		AIRequestsPerSecond: getEnvFloat("AI_REQUESTS_PER_SECOND", 2),
		AICacheTTL:          getEnvDuration("AI_CACHE_TTL", 24*time.Hour),
		AIRequestTimeout:    getEnvDuration("AI_REQUEST_TIMEOUT", 60*time.Second),
		AIUserLimitPerMin:   getEnvInt("AI_USER_LIMIT_PER_MINUTE", 20),

		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		EventsExchange:     getEnv("EVENTS_EXCHANGE", "crm.events"),
		NotificationsQueue: getEnv("NOTIFICATIONS_QUEUE", "crm.notifications"),

		S3Provider:        getEnv("S3_PROVIDER", "aws"),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Bucket:          getEnv("S3_EXPORT_BUCKET", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),

		OTELEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is missing. Token issuing is disabled.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("15m") or plain seconds ("900").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.TrimRight(p, "/"))
		}
	}
	return out
}
