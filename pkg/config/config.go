package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Required fields
	JWTSecretKey string `mapstructure:"jwt_secret_key"`

	// Database settings
	DatabaseDriver  string        `mapstructure:"database_driver"` // "sqlite" or "postgres"
	DatabaseURL     string        `mapstructure:"database_url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`

	// Optional API settings
	APIHost string `mapstructure:"api_host"`
	APIPort int    `mapstructure:"api_port"`

	// Optional SSL settings
	SSLCert string `mapstructure:"ssl_cert"`
	SSLKey  string `mapstructure:"ssl_key"`

	// Optional CORS settings
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Optional logging settings
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // "json" or "text"

	// Optional auth settings
	JWTAlgorithm  string        `mapstructure:"jwt_algorithm"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime"`
	BcryptCost    int           `mapstructure:"bcrypt_cost"`

	// Optional rate limiting for the /auth endpoints
	AuthRateLimit  int           `mapstructure:"auth_rate_limit"`
	AuthRateWindow time.Duration `mapstructure:"auth_rate_window"`
	RedisURL       string        `mapstructure:"redis_url"`

	DevMode bool `mapstructure:"dev_mode"`

	ConfigPath string
}

const (
	DefaultConfigPath      = "/etc/jobboard/config.yml"
	DefaultDatabaseDriver  = "sqlite"
	DefaultDatabaseURL     = "/var/lib/jobboard/jobboard.sqlite3"
	DefaultMaxOpenConns    = 10
	DefaultMaxIdleConns    = 5
	DefaultConnMaxLifetime = 30 * time.Minute
	DefaultQueryTimeout    = 5 * time.Second
	DefaultAPIHost         = "0.0.0.0"
	DefaultAPIPort         = 3001
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultJWTAlgorithm    = "HS256"
	DefaultTokenLifetime   = 24 * time.Hour
	DefaultBcryptCost      = 12
	DefaultAuthRateLimit   = 20
	DefaultAuthRateWindow  = time.Minute
)

// Load reads the YAML config file (if present) and applies JOBBOARD_*
// environment overrides on top of the defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigPath
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("database_driver", DefaultDatabaseDriver)
	v.SetDefault("database_url", DefaultDatabaseURL)
	v.SetDefault("max_open_conns", DefaultMaxOpenConns)
	v.SetDefault("max_idle_conns", DefaultMaxIdleConns)
	v.SetDefault("conn_max_lifetime", DefaultConnMaxLifetime)
	v.SetDefault("query_timeout", DefaultQueryTimeout)
	v.SetDefault("api_host", DefaultAPIHost)
	v.SetDefault("api_port", DefaultAPIPort)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("jwt_algorithm", DefaultJWTAlgorithm)
	v.SetDefault("token_lifetime", DefaultTokenLifetime)
	v.SetDefault("bcrypt_cost", DefaultBcryptCost)
	v.SetDefault("auth_rate_limit", DefaultAuthRateLimit)
	v.SetDefault("auth_rate_window", DefaultAuthRateWindow)
	v.SetDefault("dev_mode", false)

	// Unmarshal only sees env vars for keys viper already knows about.
	v.SetDefault("jwt_secret_key", "")
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("redis_url", "")
	v.SetDefault("ssl_cert", "")
	v.SetDefault("ssl_key", "")

	v.SetEnvPrefix("JOBBOARD")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Without --config a missing default file is fine; env vars and
		// defaults are enough to run.
		var notFound viper.ConfigFileNotFoundError
		missing := errors.Is(err, os.ErrNotExist) || errors.As(err, &notFound)
		if explicit || !missing {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ConfigPath = configPath

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecretKey == "" {
		return fmt.Errorf("jwt_secret_key is required")
	}

	if c.DatabaseDriver != "sqlite" && c.DatabaseDriver != "postgres" {
		return fmt.Errorf("database_driver must be 'sqlite' or 'postgres'")
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("database_url is required")
	}

	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("jwt_algorithm must be one of HS256, HS384, HS512")
	}

	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt_cost must be between 4 and 31")
	}

	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("api_port must be between 1 and 65535")
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("log_format must be 'json' or 'text'")
	}

	return nil
}

// SlogLevel parses log_level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	return level, nil
}

func (c *Config) IsDevMode() bool {
	return c.DevMode || os.Getenv("JOBBOARD_DEV_MODE") == "1"
}
