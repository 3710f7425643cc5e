// Package config loads runtime settings from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration. Values come from the
// environment, optionally seeded from a .env file.
type Config struct {
	Addr     string
	LogLevel string

	// LLM provider: "openai", "gemini" or "fake".
	LLMProvider   string
	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	GeminiModel   string

	ReportingBaseURL string
	ReportingAPIKey  string

	// Session store: "memory", "postgres" or "sqlite".
	StoreBackend string
	PostgresDSN  string
	SQLitePath   string
	SessionTTL   time.Duration
	SessionCap   int

	// Transcript archive (optional).
	ArchiveEnabled bool
	S3Endpoint     string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3UseSSL       bool
}

// Load reads the environment. A .env file in the working directory is
// honored when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:     getenv("ADPILOT_ADDR", ":8080"),
		LogLevel: getenv("ADPILOT_LOG_LEVEL", "info"),

		LLMProvider:   getenv("ADPILOT_LLM_PROVIDER", "openai"),
		OpenAIBaseURL: getenv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getenv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiModel:   getenv("GEMINI_MODEL", "gemini-2.5-flash"),

		ReportingBaseURL: getenv("ADPILOT_REPORTING_URL", "http://localhost:9090"),
		ReportingAPIKey:  os.Getenv("ADPILOT_REPORTING_API_KEY"),

		StoreBackend: getenv("ADPILOT_STORE", "memory"),
		PostgresDSN:  os.Getenv("ADPILOT_POSTGRES_DSN"),
		SQLitePath:   getenv("ADPILOT_SQLITE_PATH", "adpilot.db"),
		SessionTTL:   getduration("ADPILOT_SESSION_TTL", 30*time.Minute),
		SessionCap:   getint("ADPILOT_SESSION_CAP", 1024),

		ArchiveEnabled: getbool("ADPILOT_ARCHIVE_ENABLED", false),
		S3Endpoint:     os.Getenv("ADPILOT_S3_ENDPOINT"),
		S3Region:       getenv("ADPILOT_S3_REGION", "us-east-1"),
		S3AccessKey:    os.Getenv("ADPILOT_S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("ADPILOT_S3_SECRET_KEY"),
		S3Bucket:       getenv("ADPILOT_S3_BUCKET", "adpilot-transcripts"),
		S3UseSSL:       getbool("ADPILOT_S3_USE_SSL", false),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
