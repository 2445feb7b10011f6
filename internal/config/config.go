package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string // ENV: production, development, etc.
	DatabaseURL string
	RedisURL    string // empty keeps feed documents in process memory
	JWTSecret   string

	AllowedOrigins []string

	// Feed builder
	FeedSchedule    string // cron expression, e.g. "@every 10m" or "*/15 * * * *"
	FeedLimit       int    // item cap for the public limited variant
	AdFreeBaseURL   string
	SiteURL         string
	FeedTitle       string
	FeedDescription string
	FeedImage       string
	FeedAuthor      string
	FeedEmail       string

	LinkFetchTimeout time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: strings.ToLower(strings.TrimSpace(getEnv("ENV", "development"))),
		DatabaseURL: getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=podhub port=5432 sslmode=disable TimeZone=UTC"),
		RedisURL:    getEnv("REDIS_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", "secret_key_change_me"),

		AllowedOrigins: parseList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		FeedSchedule:    getEnv("FEED_SCHEDULE", "@every 10m"),
		FeedLimit:       getEnvInt("FEED_LIMIT", 300),
		AdFreeBaseURL:   strings.TrimSuffix(getEnv("AD_FREE_BASE_URL", "https://s3-us-west-2.amazonaws.com/sd-profile-pictures/adfree"), "/"),
		SiteURL:         strings.TrimSuffix(getEnv("SITE_URL", "https://softwareengineeringdaily.com"), "/"),
		FeedTitle:       getEnv("FEED_TITLE", "Software Engineering Daily"),
		FeedDescription: getEnv("FEED_DESCRIPTION", "Technical interviews about software topics."),
		FeedImage:       getEnv("FEED_IMAGE", ""),
		FeedAuthor:      getEnv("FEED_AUTHOR", "Software Engineering Daily"),
		FeedEmail:       getEnv("FEED_EMAIL", ""),

		LinkFetchTimeout: getEnvDuration("LINK_FETCH_TIMEOUT", 15*time.Second),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
