package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Tier names.
const (
	TierAnalysis  = "analysis"
	TierUpload    = "upload"
	TierWrite     = "write"
	TierDefault   = "default"
	TierUnlimited = "unlimited"
)

// Tier is a rate limit budget shared by every route it matches.
type Tier struct {
	Name   string
	Limit  int // requests per Window; 0 means unlimited
	Window time.Duration
	Burst  int // bucket capacity, defaults to Limit
	Routes []Route
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	Default         Tier
	Tiers           []Tier // checked in order, first match wins
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
}

// DefaultConfig returns the built-in tiers with rate limiting enabled.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		Default:         Tier{Name: TierDefault, Limit: 600, Window: time.Minute},
		Tiers:           DefaultTiers(20, time.Hour),
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
	}
}

// DefaultTiers returns the tier table. analysisLimit applies to every route
// that calls the model.
func DefaultTiers(analysisLimit int, analysisWindow time.Duration) []Tier {
	return []Tier{
		{Name: TierUnlimited, Routes: []Route{{Method: "GET", Pattern: "/health"}}},
		{
			Name: TierAnalysis, Limit: analysisLimit, Window: analysisWindow, Burst: max(1, analysisLimit/4),
			Routes: []Route{
				{Method: "POST", Pattern: "/api/analysis/*"},
				{Method: "POST", Pattern: "/api/applications/*/analysis"},
			},
		},
		{
			Name: TierUpload, Limit: 30, Window: time.Hour, Burst: 5,
			Routes: []Route{{Method: "POST", Pattern: "/api/applications/*/documents"}},
		},
		{
			Name: TierWrite, Limit: 120, Window: time.Minute, Burst: 20,
			Routes: []Route{
				{Method: "POST", Pattern: "/api/**"},
				{Method: "DELETE", Pattern: "/api/**"},
			},
		},
	}
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = getEnvBool("RATE_LIMIT_ENABLED", true)
	if !cfg.Enabled {
		return cfg
	}

	cfg.Default.Limit = getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.Default.Limit)
	cfg.Default.Window = getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", cfg.Default.Window)
	cfg.Tiers = DefaultTiers(
		getEnvInt("RATE_LIMIT_ANALYSIS_LIMIT", 20),
		getEnvDuration("RATE_LIMIT_ANALYSIS_WINDOW", time.Hour),
	)
	cfg.CleanupInterval = getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.Whitelist = parseIPList(os.Getenv("RATE_LIMIT_WHITELIST"))
	cfg.Blacklist = parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST"))
	return cfg
}

// Match returns the first tier with a route matching method and path, or the default tier.
func (c *Config) Match(method, path string) Tier {
	for _, tier := range c.Tiers {
		for _, route := range tier.Routes {
			if route.Matches(method, path) {
				return tier
			}
		}
	}
	return c.Default
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
