package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
jwt_secret_key: file-secret
database_driver: postgres
database_url: postgres://jobboard@localhost/jobboard
api_port: 8080
token_lifetime: 2h
cors_origins:
  - https://jobs.example.com
log_format: text
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.JWTSecretKey != "file-secret" || cfg.DatabaseDriver != "postgres" || cfg.APIPort != 8080 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.TokenLifetime != 2*time.Hour {
		t.Errorf("expected 2h token lifetime, got %s", cfg.TokenLifetime)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://jobs.example.com" {
		t.Errorf("unexpected cors origins: %v", cfg.CORSOrigins)
	}

	// Defaults fill the rest.
	if cfg.JWTAlgorithm != DefaultJWTAlgorithm || cfg.BcryptCost != DefaultBcryptCost || cfg.QueryTimeout != DefaultQueryTimeout {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.ConfigPath != path {
		t.Errorf("expected config path %s, got %s", path, cfg.ConfigPath)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "jwt_secret_key: file-secret\n")
	t.Setenv("JOBBOARD_JWT_SECRET_KEY", "env-secret")
	t.Setenv("JOBBOARD_API_PORT", "9090")
	t.Setenv("JOBBOARD_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.JWTSecretKey != "env-secret" || cfg.APIPort != 9090 || cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	t.Setenv("JOBBOARD_JWT_SECRET_KEY", "env-secret")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("expected error for explicit missing config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			JWTSecretKey:   "secret",
			DatabaseDriver: "sqlite",
			DatabaseURL:    ":memory:",
			JWTAlgorithm:   "HS256",
			BcryptCost:     12,
			APIPort:        3001,
			LogLevel:       "info",
			LogFormat:      "json",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing secret", func(c *Config) { c.JWTSecretKey = "" }, true},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }, true},
		{"missing database url", func(c *Config) { c.DatabaseURL = "" }, true},
		{"unsupported algorithm", func(c *Config) { c.JWTAlgorithm = "RS256" }, true},
		{"bcrypt cost too low", func(c *Config) { c.BcryptCost = 2 }, true},
		{"port out of range", func(c *Config) { c.APIPort = 70000 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"debug level", func(c *Config) { c.LogLevel = "debug" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	c := &Config{LogLevel: "warn"}
	level, err := c.SlogLevel()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if level != slog.LevelWarn {
		t.Errorf("expected warn, got %s", level)
	}
}
