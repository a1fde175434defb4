package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Session store drivers
const (
	SessionDriverPostgres = "postgres"
	SessionDriverRedis    = "redis"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"SERVER_PORT"`
		Mode            string `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout     string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout    string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		ShutdownTimeout string `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
		ExportPath      string `yaml:"export_path" env:"SERVER_EXPORT_PATH"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret" env:"JWT_SECRET"`
		TTL    string `yaml:"ttl" env:"JWT_TTL"`
		Issuer string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Session struct {
		Driver string `yaml:"driver" env:"SESSION_DRIVER"`
		Redis  struct {
			Addr     string `yaml:"addr" env:"REDIS_ADDR"`
			Password string `yaml:"password" env:"REDIS_PASSWORD"`
			DB       int    `yaml:"db" env:"REDIS_DB"`
		} `yaml:"redis"`
	} `yaml:"session"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Report struct {
		Timezone string `yaml:"timezone" env:"REPORT_TIMEZONE"`
	} `yaml:"report"`

	Seed struct {
		Demo          bool   `yaml:"demo" env:"SEED_DEMO"`
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
	} `yaml:"seed"`
}

// Options controls where LoadConfig looks besides the process environment.
type Options struct {
	// ConfigPath is an optional YAML file; a missing file is not an error.
	ConfigPath string
	// EnvFiles are loaded with godotenv before the env override. Missing files are skipped.
	// Variables already set in the environment are never replaced.
	EnvFiles []string
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	return Load(Options{ConfigPath: configPath, EnvFiles: []string{".env"}})
}

// Load applies defaults, then the YAML file, then .env files, then the environment.
func Load(opts Options) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if opts.ConfigPath != "" {
		if err := loadFromFile(config, opts.ConfigPath); err != nil {
			return nil, err
		}
	}

	for _, envFile := range opts.EnvFiles {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if err := processStructFields(config, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func loadFromFile(config *Config, path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(file, config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "15s"
	config.Server.WriteTimeout = "30s"
	config.Server.ShutdownTimeout = "10s"
	config.Server.ExportPath = "exports"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "siprista"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.TTL = "24h"
	config.JWT.Issuer = "siprista"

	config.Session.Driver = SessionDriverPostgres
	config.Session.Redis.Addr = "localhost:6379"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Report.Timezone = "Asia/Jakarta"

	config.Seed.AdminEmail = "admin@siprista.com"
	config.Seed.AdminPassword = "demo123"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"jwt.ttl":                    config.JWT.TTL,
		"server.read_timeout":        config.Server.ReadTimeout,
		"server.write_timeout":       config.Server.WriteTimeout,
		"server.shutdown_timeout":    config.Server.ShutdownTimeout,
		"database.conn_max_lifetime": config.Database.ConnMaxLifetime,
	}
	for name, value := range durations {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	switch strings.ToLower(config.Session.Driver) {
	case SessionDriverPostgres:
	case SessionDriverRedis:
		if config.Session.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for the redis session driver")
		}
	default:
		return fmt.Errorf("unknown session driver %q", config.Session.Driver)
	}

	if _, err := time.LoadLocation(config.Report.Timezone); err != nil {
		return fmt.Errorf("invalid report timezone: %w", err)
	}

	if config.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database max_open_conns must be at least 1")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Host + ":" + c.Database.Port,
		Path:     "/" + c.Database.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}

// TokenTTL is the parsed JWT lifetime. Validation guarantees it parses.
func (c *Config) TokenTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.TTL)
	return d
}

// Durations returns the parsed server timeouts.
func (c *Config) Durations() (read, write, shutdown time.Duration) {
	read, _ = time.ParseDuration(c.Server.ReadTimeout)
	write, _ = time.ParseDuration(c.Server.WriteTimeout)
	shutdown, _ = time.ParseDuration(c.Server.ShutdownTimeout)
	return read, write, shutdown
}

// IsProduction reports whether gin should run in release mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// UsesRedisSessions reports whether sessions live in Redis rather than PostgreSQL.
func (c *Config) UsesRedisSessions() bool {
	return strings.EqualFold(c.Session.Driver, SessionDriverRedis)
}
