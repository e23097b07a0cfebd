package server

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port           string
	AllowedOrigins []string
	TurnDuration   time.Duration
	RoundEndDelay  time.Duration
}

const (
	defaultPort          = "3000"
	defaultAllowedOrigin = "*"
	defaultTurnDuration  = 60 * time.Second
	defaultRoundEndDelay = 5 * time.Second
)

// LoadConfig builds a Config instance using environment variables when
// present.
func LoadConfig() Config {
	return Config{
		Port:           getEnv("PORT", defaultPort),
		AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS", defaultAllowedOrigin)),
		TurnDuration:   getEnvMillis("TURN_DURATION_MS", defaultTurnDuration),
		RoundEndDelay:  getEnvMillis("ROUND_END_DELAY_MS", defaultRoundEndDelay),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvMillis(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return []string{defaultAllowedOrigin}
	}
	return origins
}
