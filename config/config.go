package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application. It is loaded once
// at startup and read-only afterwards; every component receives the
// slice of it it needs through its constructor.
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Access gating
	ReferralCodes []string
	JWTSecret     string

	// Ledger store: "sheets" (the hosted spreadsheet), "postgres" or
	// "sqlite" (local mirror, used by tests and offline runs)
	StoreDriver string

	// Google Sheets configuration
	SpreadsheetID   string
	UsersSheet      string
	LogsSheet       string
	CredentialsFile string

	// Database configuration (postgres/sqlite drivers)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration (pending analysis drafts)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Vision model: "gemini" or "openai"
	VisionProvider string
	GeminiAPIKey   string
	GeminiModel    string
	OpenAIAPIKey   string
	OpenAIModel    string

	// Meal photo retention (optional; disabled when bucket is empty)
	S3Bucket  string
	AWSRegion string
}

// LoadConfig creates a new Config instance from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		ReferralCodes: splitList(os.Getenv("REFERRAL_CODES")),
		JWTSecret:     os.Getenv("JWT_SECRET"),

		StoreDriver: getEnv("STORE_DRIVER", "sheets"),

		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		UsersSheet:      getEnv("USERS_SHEET", "Users"),
		LogsSheet:       getEnv("LOGS_SHEET", "Logs"),
		CredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "calorieapp"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "calorieapp.db"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisURL:      os.Getenv("REDIS_URL"),

		VisionProvider: getEnv("VISION_PROVIDER", "gemini"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		S3Bucket:  os.Getenv("S3_BUCKET_NAME"),
		AWSRegion: os.Getenv("AWS_REGION"),
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma-separated env value, dropping empty items.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
