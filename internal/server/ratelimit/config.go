package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Path pattern; {name} segments and a trailing "/" prefix
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig reads rate limiting settings from the process environment.
func LoadConfig() *Config {
	return LoadConfigFrom(os.LookupEnv)
}

// LoadConfigFrom reads RATE_LIMIT_* settings through lookup. Unset or
// unparsable values fall back to the defaults.
func LoadConfigFrom(lookup func(string) (string, bool)) *Config {
	env := envReader(lookup)
	if !env.bool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.int("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(env.string("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(env.string("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: model and browser calls (strictest limits)
		{Path: "/sessions/{id}/tailor", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/sessions/{id}/analyze", Method: "POST", Limit: 60, Window: time.Hour, Burst: 5},
		{Path: "/sessions/{id}/export.pdf", Method: "GET", Limit: 30, Window: time.Hour, Burst: 3},

		// Tier 2: writes (moderate limits)
		{Path: "/sessions", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/sessions/{id}/save", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/sessions/{id}/photo", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/resumes/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},

		// Tier 3: reads and edits use the default limit
		// Tier 4: health and metrics are unlimited, see MatchEndpoint
	}
}

type envReader func(string) (string, bool)

func (e envReader) string(key string) string {
	v, _ := e(key)
	return strings.TrimSpace(v)
}

func (e envReader) int(key string, def int) int {
	if n, err := strconv.Atoi(e.string(key)); err == nil {
		return n
	}
	return def
}

func (e envReader) bool(key string, def bool) bool {
	if b, err := strconv.ParseBool(e.string(key)); err == nil {
		return b
	}
	return def
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(e.string(key)); err == nil && d > 0 {
		return d
	}
	return def
}

// parseIPList turns a comma separated list into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
