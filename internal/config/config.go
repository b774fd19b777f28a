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
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Ai        AIConfig
	Chat      ChatConfig
	Events    EventsConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Environment, "production")
}

type DatabaseConfig struct {
	Driver      string // "mysql", "postgres" or "sqlite"
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	DSN         string // overrides the discrete fields when set
	AutoMigrate bool
	LogLevel    string
}

type AuthConfig struct {
	JWTSecret          string
	ConversationTTL    time.Duration
	PasswordScheme     string
	BcryptCost         int
	LoginRatePerMinute int
}

type AIConfig struct {
	LLMProvider string // "ollama" or "openai-compatible"
	BaseURL     string
	APIKey      string
	LLMModel    string
	Timeout     time.Duration
}

type ChatConfig struct {
	GuestTurnLimit int
	StateTTL       time.Duration
}

type EventsConfig struct {
	NatsURL   string // empty keeps activity events in-process
	BusBuffer int64
}

type TelemetryConfig struct {
	OtelEnabled    bool
	OtelEndpoint   string
	MetricsEnabled bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(getEnv("DB_DRIVER", "mysql")),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "3306"),
			User:        getEnv("DB_USER", "root"),
			Password:    getEnv("DB_PASSWORD", ""),
			Name:        getEnv("DB_NAME", "synthmind"),
			DSN:         getEnv("DB_DSN", ""),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
			LogLevel:    getEnv("DB_LOG_LEVEL", "warn"),
		},
		Auth: AuthConfig{
			JWTSecret:          getEnv("JWT_SECRET", "default_secret"),
			ConversationTTL:    getEnvAsDuration("CONVERSATION_TOKEN_TTL", 24*time.Hour),
			PasswordScheme:     getEnv("PASSWORD_SCHEME", "bcrypt"),
			BcryptCost:         getEnvAsInt("BCRYPT_COST", 0),
			LoginRatePerMinute: getEnvAsInt("LOGIN_RATE_PER_MINUTE", 10),
		},
		Ai: AIConfig{
			LLMProvider: getEnv("LLM_PROVIDER", "ollama"),
			BaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			APIKey:      getEnv("LLM_API_KEY", ""),
			LLMModel:    getEnv("LLM_MODEL", "gemma:2b"),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
		},
		Chat: ChatConfig{
			GuestTurnLimit: getEnvAsInt("GUEST_TURN_LIMIT", 3),
			StateTTL:       getEnvAsDuration("CHAT_STATE_TTL", time.Hour),
		},
		Events: EventsConfig{
			NatsURL:   getEnv("NATS_URL", ""),
			BusBuffer: int64(getEnvAsInt("EVENT_BUS_BUFFER", 256)),
		},
		Telemetry: TelemetryConfig{
			OtelEnabled:    getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}
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
