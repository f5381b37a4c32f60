package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL string

	// LLM completion backend (OpenRouter-compatible)
	LLMAPIKey  string
	LLMBaseURL string
	ModelID    string

	// Presence scheduler
	PresenceInterval int // seconds between presence sweeps

	// Schedule refresh worker
	ScheduleMaxAgeDays int

	// Swipe limits
	DailySwipeLimit int

	// Firebase
	FirebaseCredentialsPath string

	// SMTP (daily match digest)
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string
	EnableDigest  bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️  No .env file found, reading environment variables from the system.")
	}

	return &Config{
		// Server
		Port:        getEnvWithDefault("PORT", "8080"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// LLM
		LLMAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		LLMBaseURL: getEnvWithDefault("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
		ModelID:    getEnvWithDefault("MODEL_ID", "deepseek/deepseek-chat-v3"),

		// Presence
		PresenceInterval:   getEnvInt("PRESENCE_INTERVAL", 60),
		ScheduleMaxAgeDays: getEnvInt("SCHEDULE_MAX_AGE_DAYS", 7),

		// Swipes
		DailySwipeLimit: getEnvInt("DAILY_SWIPE_LIMIT", 50),

		// Firebase
		FirebaseCredentialsPath: os.Getenv("FIREBASE_CREDENTIALS_PATH"),

		// SMTP
		SMTPHost:      getEnvWithDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:  getEnvWithDefault("SMTP_FROM_NAME", "Cupid"),
		SMTPFromEmail: getEnvWithDefault("SMTP_FROM_EMAIL", "noreply@cupid.local"),
		EnableDigest:  getEnvBool("ENABLE_MATCH_DIGEST", false),
	}, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intValue int
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// IsProduction reports whether the server runs in the production
// environment, where debug-only surfaces stay off.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate checks that everything the server cannot run without is present.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.LLMAPIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY is required")
	}

	if c.EnableDigest && (c.SMTPUsername == "" || c.SMTPPassword == "") {
		log.Println("⚠️  Match digest enabled but SMTP credentials are not configured")
	}

	return nil
}
