// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Backend modes.
const (
	BackendGraphQL = "graphql"
	BackendLocal   = "local"
)

// Config is the resolved runtime configuration. It can be loaded from a JSON
// file and every field can be overridden from the environment.
type Config struct {
	Port int `json:"port,omitempty"` // HTTP listen port

	BackendMode   string `json:"backend_mode,omitempty"`   // graphql or local
	BackendURL    string `json:"backend_url,omitempty"`    // GraphQL endpoint when mode is graphql
	BackendSchema string `json:"backend_schema,omitempty"` // v1 or v2 resume input allow-list

	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL URL for local saved resumes
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key for local tailoring

	SessionSecret string `json:"session_secret,omitempty"` // HMAC key for session tokens
	SessionTTL    string `json:"session_ttl,omitempty"`    // Idle session lifetime, Go duration

	ChromePath      string `json:"chrome_path,omitempty"`      // Chrome binary for PDF export
	DefaultTemplate string `json:"default_template,omitempty"` // Layout used when a session has none
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:            8080,
		BackendMode:     BackendGraphQL,
		BackendURL:      "http://localhost:4000/graphql",
		BackendSchema:   "v2",
		SessionTTL:      "2h",
		DefaultTemplate: "primary",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load resolves the configuration: defaults, then the optional file at path,
// then the environment. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Config{}
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = *fileCfg
	}

	cfg = cfg.MergeWithDefaults(Default())
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables that are set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"BACKEND_MODE", &c.BackendMode},
		{"BACKEND_URL", &c.BackendURL},
		{"BACKEND_SCHEMA", &c.BackendSchema},
		{"DATABASE_URL", &c.DatabaseURL},
		{"GEMINI_API_KEY", &c.APIKey},
		{"SESSION_SECRET", &c.SessionSecret},
		{"SESSION_TTL", &c.SessionTTL},
		{"CHROME_PATH", &c.ChromePath},
		{"DEFAULT_TEMPLATE", &c.DefaultTemplate},
	}
	for _, s := range strs {
		if v, ok := get(s.key); ok {
			*s.dst = v
		}
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}

	switch c.BackendMode {
	case BackendGraphQL:
		if c.BackendURL == "" {
			return fmt.Errorf("config error: 'backend_url' is required when backend_mode is %s", BackendGraphQL)
		}
	case BackendLocal:
	default:
		return fmt.Errorf("config error: unknown backend_mode %q", c.BackendMode)
	}

	switch strings.ToLower(c.BackendSchema) {
	case "", "v1", "v2":
	default:
		return fmt.Errorf("config error: unknown backend_schema %q", c.BackendSchema)
	}

	if _, err := c.SessionLifetime(); err != nil {
		return err
	}
	return nil
}

// SessionLifetime parses SessionTTL. An empty value means two hours.
func (c *Config) SessionLifetime() (time.Duration, error) {
	if c.SessionTTL == "" {
		return 2 * time.Hour, nil
	}
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil {
		return 0, fmt.Errorf("config error: invalid 'session_ttl': %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config error: 'session_ttl' must be positive")
	}
	return d, nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.BackendMode, defaults.BackendMode)
	fill(&result.BackendURL, defaults.BackendURL)
	fill(&result.BackendSchema, defaults.BackendSchema)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.APIKey, defaults.APIKey)
	fill(&result.SessionSecret, defaults.SessionSecret)
	fill(&result.SessionTTL, defaults.SessionTTL)
	fill(&result.ChromePath, defaults.ChromePath)
	fill(&result.DefaultTemplate, defaults.DefaultTemplate)

	return result
}
