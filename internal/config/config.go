package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/xxxsen/common/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	EnvPrefix = "NOTESRV_"
)

type Config struct {
	Host                string           `json:"host" env:"HOST"`
	Port                int              `json:"port" env:"PORT"`
	Database            DatabaseConfig   `json:"database" envPrefix:"DB_"`
	LogConfig           logger.LogConfig `json:"log_config"`
	LogLevel            string           `json:"-" env:"LOG_LEVEL"`
	CORSAllowOrigins    []string         `json:"cors_allow_origins" env:"CORS_ALLOW_ORIGINS"`
	ReadTimeoutSeconds  int              `json:"read_timeout_seconds" env:"READ_TIMEOUT_SECONDS"`
	WriteTimeoutSeconds int              `json:"write_timeout_seconds" env:"WRITE_TIMEOUT_SECONDS"`
	EnableGzip          bool             `json:"enable_gzip" env:"ENABLE_GZIP"`
	EnableMetrics       bool             `json:"enable_metrics" env:"ENABLE_METRICS"`
}

type DatabaseConfig struct {
	Driver       string `json:"driver" env:"DRIVER"`
	Path         string `json:"path" env:"PATH"`
	DSN          string `json:"dsn" env:"DSN"`
	MaxOpenConns int    `json:"max_open_conns" env:"MAX_OPEN_CONNS"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads the JSON file at path (optional), applies NOTESRV_* environment
// overrides, then fills defaults and validates.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()
		if err := json.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8000
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.LogLevel != "" {
		c.LogConfig.Level = c.LogLevel
	}
	if c.LogConfig.Level == "" {
		c.LogConfig.Level = "info"
	}
	if c.ReadTimeoutSeconds < 0 || c.WriteTimeoutSeconds < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" && c.Database.DSN == "" {
			c.Database.Path = "./test.db"
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres")
	}
	if c.Database.MaxOpenConns < 0 {
		return fmt.Errorf("database.max_open_conns must not be negative")
	}
	return nil
}
