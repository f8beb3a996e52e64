package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTIssuer   string

	// ReminderLookahead is how far ahead of a scheduled dose the reminder
	// scanner fires.
	ReminderLookahead time.Duration
}

func Load(log *zap.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system env")
	}

	return &Config{
		Port:              getEnvDefault("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", log),
		JWTSecret:         getEnv("JWT_SECRET", log),
		JWTIssuer:         getEnvDefault("JWT_ISSUER", "petmed-tracker"),
		ReminderLookahead: getEnvDuration("REMINDER_LOOKAHEAD", 15*time.Minute, log),
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("required environment variable not set", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvDefault(key, fallback string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration, log *zap.Logger) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Warn("invalid duration, using default",
			zap.String("key", key),
			zap.String("value", val),
			zap.Duration("default", fallback))
		return fallback
	}
	return d
}
