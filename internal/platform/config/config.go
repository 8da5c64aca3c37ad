// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the deployment settings of the simulator server. Simulation
// coefficients are NOT here: those live in the engine configuration so tests
// pin them independently of the deployment.
type Config struct {
	HTTPAddr string `env:"AQUASIM_HTTP_ADDR" envDefault:":8080"`

	// SQLite state database path. Always required; it is the source of truth
	// for save/load.
	DBPath string `env:"AQUASIM_DB_PATH" envDefault:"aquasim.db"`

	// Optional Postgres DSN for the shared event ledger. Empty keeps the
	// ledger in SQLite.
	PostgresDSN string `env:"AQUASIM_POSTGRES_DSN"`

	// Optional Redis address for the snapshot read cache. Empty disables it.
	RedisAddr string `env:"AQUASIM_REDIS_ADDR"`

	// TickInterval is how often the driver advances the simulation.
	TickInterval time.Duration `env:"AQUASIM_TICK_INTERVAL" envDefault:"5s"`

	// TimeScale multiplies real elapsed time into simulated time, so a
	// classroom session can compress a day of tank neglect into minutes.
	TimeScale float64 `env:"AQUASIM_TIME_SCALE" envDefault:"1"`

	// BackupInterval is how often the full state snapshot is saved.
	BackupInterval time.Duration `env:"AQUASIM_BACKUP_INTERVAL" envDefault:"30s"`

	LogFile  string `env:"AQUASIM_LOG_FILE" envDefault:"logs/aquasim.log"`
	LogLevel string `env:"AQUASIM_LOG_LEVEL" envDefault:"info"`
}

// Load reads .env if present, parses the environment, and validates.
func Load() (Config, error) {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.TickInterval <= 0 {
		return Config{}, fmt.Errorf("AQUASIM_TICK_INTERVAL must be positive, got %s", cfg.TickInterval)
	}
	if cfg.TimeScale <= 0 {
		return Config{}, fmt.Errorf("AQUASIM_TIME_SCALE must be positive, got %v", cfg.TimeScale)
	}
	if cfg.BackupInterval <= 0 {
		return Config{}, fmt.Errorf("AQUASIM_BACKUP_INTERVAL must be positive, got %s", cfg.BackupInterval)
	}
	return cfg, nil
}
