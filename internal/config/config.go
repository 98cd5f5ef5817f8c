package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds tool configuration loaded from environment variables. The
// CLI overrides individual fields from flags after Load.
type Config struct {
	DBPath        string        `env:"AETHER_DB"           envDefault:"backend/aether.db"`
	MigrationPath string        `env:"AETHER_MIGRATION"    envDefault:"backend/migrations/001_create_blocks.sql"`
	VerifyTable   string        `env:"AETHER_VERIFY_TABLE" envDefault:"blocks"`
	BaseURL       string        `env:"AETHER_BASE_URL"     envDefault:"http://localhost:3000"`
	AuditRoot     string        `env:"AETHER_AUDIT_ROOT"   envDefault:"."`
	LogMode       string        `env:"AETHER_LOG"          envDefault:"dev"`
	HTTPTimeout   time.Duration `env:"AETHER_HTTP_TIMEOUT" envDefault:"30s"`
}

// Load reads configuration from environment variables with defaults that
// match the backend's local layout.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
