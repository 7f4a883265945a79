package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	RedisAddr     string
	RedisPassword string

	DatabaseDSN string

	// CookieSecret signs the session-id cookie and the sample token cookie.
	CookieSecret string

	SessionTTL   time.Duration
	CookieMaxAge time.Duration
}

func Load() Config {

	// .env is optional; deployed environments set variables directly.
	_ = godotenv.Load()

	cfg := Config{

		AppPort: getEnv("APP_PORT", "3000"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		CookieSecret: getEnv("COOKIE_SECRET", "dev-cookie-secret"),

		SessionTTL:   getDuration("SESSION_TTL", time.Hour),
		CookieMaxAge: getDuration("COOKIE_MAX_AGE", time.Hour),
	}

	return cfg

}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
