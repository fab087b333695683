package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"port": 9090,
		"backend_mode": "local",
		"database_url": "postgres://localhost/resume_studio",
		"default_template": "classic"
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, BackendLocal, cfg.BackendMode)
	assert.Equal(t, "postgres://localhost/resume_studio", cfg.DatabaseURL)
	assert.Equal(t, "classic", cfg.DefaultTemplate)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestLoad_FileThenEnv(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{"port": 9090, "backend_schema": "v1"}`), 0644))

	t.Setenv("PORT", "7070")
	t.Setenv("BACKEND_URL", "http://backend:4000/graphql")

	cfg, err := Load(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "v1", cfg.BackendSchema)
	assert.Equal(t, "http://backend:4000/graphql", cfg.BackendURL)
	assert.Equal(t, BackendGraphQL, cfg.BackendMode)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"BACKEND_MODE":     "local",
		"GEMINI_API_KEY":   "key",
		"SESSION_TTL":      "45m",
		"CHROME_PATH":      "/usr/bin/chromium",
		"DEFAULT_TEMPLATE": "sidebar",
		"DATABASE_URL":     "   ",
	}))
	require.NoError(t, err)

	assert.Equal(t, BackendLocal, cfg.BackendMode)
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "45m", cfg.SessionTTL)
	assert.Equal(t, "/usr/bin/chromium", cfg.ChromePath)
	assert.Equal(t, "sidebar", cfg.DefaultTemplate)
	assert.Empty(t, cfg.DatabaseURL, "blank values do not override")
}

func TestApplyEnv_InvalidPort(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{"PORT": "http"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid PORT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "local without url", mutate: func(c *Config) { c.BackendMode = BackendLocal; c.BackendURL = "" }},
		{name: "graphql without url", mutate: func(c *Config) { c.BackendURL = "" }, wantErr: "backend_url"},
		{name: "unknown mode", mutate: func(c *Config) { c.BackendMode = "grpc" }, wantErr: "backend_mode"},
		{name: "unknown schema", mutate: func(c *Config) { c.BackendSchema = "v3" }, wantErr: "backend_schema"},
		{name: "bad port", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "port"},
		{name: "bad ttl", mutate: func(c *Config) { c.SessionTTL = "-1h" }, wantErr: "session_ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{Port: 9000, DefaultTemplate: "classic"}
	merged := cfg.MergeWithDefaults(Default())

	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, "classic", merged.DefaultTemplate)
	assert.Equal(t, BackendGraphQL, merged.BackendMode)
	assert.Equal(t, "v2", merged.BackendSchema)
	assert.Equal(t, "2h", merged.SessionTTL)
}
