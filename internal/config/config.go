package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	GeminiAPIKey string

	JWTSecret string

	WeeklyCheckinGoal int

	RateLimitGenerate time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),
	}

	goal, err := strconv.Atoi(getEnv("WEEKLY_CHECKIN_GOAL", "5"))
	if err != nil || goal < 1 || goal > 7 {
		return nil, fmt.Errorf("invalid WEEKLY_CHECKIN_GOAL: must be 1-7")
	}
	cfg.WeeklyCheckinGoal = goal

	cfg.RateLimitGenerate, err = time.ParseDuration(getEnv("RATE_LIMIT_GENERATE", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_GENERATE: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
