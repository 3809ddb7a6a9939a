package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/paydown-dev/paydown/internal/model"
)

// FileName is the project file at the ledger root.
const FileName = "paydown.yaml"

// Config represents the top-level paydown.yaml configuration.
type Config struct {
	Household HouseholdConfig `yaml:"household"`
	Settings  SettingsConfig  `yaml:"settings"`
	Planning  PlanningConfig  `yaml:"planning"`
	Paycheck  PaycheckConfig  `yaml:"paycheck"`
	Git       GitConfig       `yaml:"git"`
}

// HouseholdConfig identifies the ledger.
type HouseholdConfig struct {
	Name string `yaml:"name"`
}

// SettingsConfig holds the global rate settings.
type SettingsConfig struct {
	PrimeRate *decimal.Decimal `yaml:"prime_rate,omitempty"` // percent, e.g. 8.50
}

// PlanningConfig controls payment planning.
type PlanningConfig struct {
	Strategy         string          `yaml:"strategy"`
	SafetyBuffer     decimal.Decimal `yaml:"safety_buffer"`
	CheckingAccounts []string        `yaml:"checking_accounts,omitempty"` // empty = every active checking account
}

// PaycheckConfig describes when money arrives.
type PaycheckConfig struct {
	Schedule string          `yaml:"schedule"` // cron expression, e.g. "0 0 1,15 * *"
	Amount   decimal.Decimal `yaml:"amount"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a paydown.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// EnsureSettings fills in the default prime rate when none is set.
// It reports whether anything changed.
func (c *Config) EnsureSettings() bool {
	if c.Settings.PrimeRate != nil {
		return false
	}
	rate := model.DefaultPrimeRate
	c.Settings.PrimeRate = &rate
	return true
}

// GlobalSettings returns the model settings, falling back to defaults.
func (c *Config) GlobalSettings() model.Settings {
	s := model.DefaultSettings()
	if c.Settings.PrimeRate != nil {
		s.PrimeRate = *c.Settings.PrimeRate
	}
	return s
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(household string) *Config {
	rate := model.DefaultPrimeRate
	return &Config{
		Household: HouseholdConfig{Name: household},
		Settings:  SettingsConfig{PrimeRate: &rate},
		Planning: PlanningConfig{
			Strategy:     "avalanche",
			SafetyBuffer: decimal.NewFromInt(500),
		},
		Paycheck: PaycheckConfig{
			Schedule: "0 0 1,15 * *",
			Amount:   decimal.Zero,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Paydown",
			AuthorEmail: "ledger@paydown.dev",
		},
	}
}
