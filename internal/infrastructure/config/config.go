// Package config loads runtime settings from USERMGR_* environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

type Config struct {
	Env       string `env:"USERMGR_ENV,        default=development"`
	LogLevel  string `env:"USERMGR_LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"USERMGR_LOG_PRETTY, default=true"`

	// Store selects the directory backend: sqlite or mongo.
	Store  string `env:"USERMGR_STORE, default=sqlite"`
	SQLite SQLiteConfig
	Mongo  MongoConfig

	BcryptCost int    `env:"USERMGR_BCRYPT_COST, default=10"`
	Timezone   string `env:"USERMGR_TIMEZONE,    default=Europe/Moscow"`

	// SeedFile, when set, is applied on every start instead of prompting
	// for initial users.
	SeedFile string `env:"USERMGR_SEED_FILE"`
	// ScopeManagerResets rejects Manager password resets of non-subordinates.
	ScopeManagerResets bool `env:"USERMGR_SCOPE_MANAGER_RESETS, default=false"`
	// MetricsFile receives a Prometheus textfile dump on exit.
	MetricsFile string `env:"USERMGR_METRICS_FILE"`
}

type SQLiteConfig struct {
	Path  string `env:"USERMGR_SQLITE_PATH, default=data/usermgr.db"`
	Debug bool   `env:"USERMGR_DB_DEBUG,    default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=usermgr"`
}

// LoadDotenv copies variables from a .env file into the process environment
// without overriding ones already set. A missing file is not an error.
func LoadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case StoreSQLite, StoreMongo:
	default:
		return fmt.Errorf("config: USERMGR_STORE must be %q or %q, got %q", StoreSQLite, StoreMongo, c.Store)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: USERMGR_TIMEZONE: %w", err)
	}
	return nil
}

// Location returns the zone last-login times are recorded in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
