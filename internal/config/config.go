package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config keeps runtime settings for the server.
type Config struct {
	Addr         string
	DatabaseURL  string
	GeminiAPIKey string
	GeminiModel  string
	AIMaxRetries int
	InsightsTime string // HH:MM local time for the nightly insights job, empty disables it
	Development  bool
}

// Load reads configuration from environment variables with sane defaults.
// A missing Gemini key is allowed at boot: AI endpoints then fail fast with
// a "not configured" error instead of attempting a call.
func Load() (Config, error) {
	cfg := Config{
		Addr:         strings.TrimSpace(os.Getenv("ADDR")),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:  strings.TrimSpace(os.Getenv("GEMINI_MODEL")),
		AIMaxRetries: parsePositiveInt(os.Getenv("AI_MAX_RETRIES")),
		InsightsTime: strings.TrimSpace(os.Getenv("INSIGHTS_TIME")),
		Development:  parseBool(os.Getenv("DEVELOPMENT")),
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "smart_planner.db"
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-1.5-flash"
	}
	if cfg.AIMaxRetries == 0 {
		cfg.AIMaxRetries = 3
	}

	if cfg.InsightsTime != "" && !validClockTime(cfg.InsightsTime) {
		return cfg, fmt.Errorf("INSIGHTS_TIME %q is not a valid HH:MM time", cfg.InsightsTime)
	}

	return cfg, nil
}

func parsePositiveInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}

func validClockTime(raw string) bool {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return false
	}
	return true
}
