package library

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store kinds accepted in Config.StoreKind.
const (
	StoreKindSnapshot = "snapshot"
	StoreKindSQLite   = "sqlite"
)

// Config carries the tunables of the circulation core. FinePerDay and
// LoanPeriodDays are configuration constants, not per-loan fields.
type Config struct {
	LoanPeriodDays int     `yaml:"loan_period_days"`
	FinePerDay     float64 `yaml:"fine_per_day"`
	StoreKind      string  `yaml:"store_kind"`
	StorePath      string  `yaml:"store_path"`
}

// DefaultConfig returns the stock configuration: 14-day loans at 0.50
// currency units per overdue day, persisted as a JSON snapshot.
func DefaultConfig() Config {
	return Config{
		LoanPeriodDays: 14,
		FinePerDay:     0.50,
		StoreKind:      StoreKindSnapshot,
		StorePath:      "library.json",
	}
}

// LoadConfig reads a YAML config file, filling unset fields with
// defaults. A missing file is not an error; the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.LoanPeriodDays <= 0 {
		cfg.LoanPeriodDays = 14
	}
	if cfg.FinePerDay < 0 {
		cfg.FinePerDay = 0.50
	}
	if cfg.StoreKind == "" {
		cfg.StoreKind = StoreKindSnapshot
	}
	if cfg.StorePath == "" {
		cfg.StorePath = "library.json"
	}
	return cfg, nil
}
