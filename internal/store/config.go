package store

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"trading-journal/internal/types"
)

const (
	SourceJSONL    = "JSONL"
	SourceCSV      = "CSV"
	SourcePostgres = "POSTGRES"
)

type Config struct {
	StartingEquity float64 `yaml:"starting_equity"`
	Timezone       string  `yaml:"timezone"`
	CacheSize      int     `yaml:"cache_size"`
	Ledger         struct {
		Source         string `yaml:"source"`
		Path           string `yaml:"path"`
		DatabaseURL    string `yaml:"database_url"`
		ConnectTimeout int    `yaml:"connect_timeout_seconds"`
	} `yaml:"ledger"`
	Consistency types.ConsistencyWeights `yaml:"consistency"`
	Report      struct {
		Dir string `yaml:"dir"`
	} `yaml:"report"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.CacheSize == 0 {
		c.CacheSize = 64
	}
	c.Ledger.Source = strings.ToUpper(strings.TrimSpace(c.Ledger.Source))
	if c.Ledger.Source == "" {
		c.Ledger.Source = SourceJSONL
	}
	if c.Ledger.Path == "" && c.Ledger.Source == SourceJSONL {
		c.Ledger.Path = "journal/trades.jsonl"
	}
	if c.Ledger.ConnectTimeout == 0 {
		c.Ledger.ConnectTimeout = 30
	}
	def := types.DefaultConsistencyWeights()
	if c.Consistency.WinRateTarget == 0 {
		c.Consistency.WinRateTarget = def.WinRateTarget
	}
	if c.Consistency.ProfitFactorTarget == 0 {
		c.Consistency.ProfitFactorTarget = def.ProfitFactorTarget
	}
	if c.Consistency.MaxDrawdownLimit == 0 {
		c.Consistency.MaxDrawdownLimit = def.MaxDrawdownLimit
	}
	if c.Consistency.RiskRewardTarget == 0 {
		c.Consistency.RiskRewardTarget = def.RiskRewardTarget
	}
	if c.Report.Dir == "" {
		c.Report.Dir = "reports"
	}
}

// applyEnv lets deployment secrets and per-run values override the file.
func (c *Config) applyEnv() error {
	if v := os.Getenv("JOURNAL_STARTING_EQUITY"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("JOURNAL_STARTING_EQUITY: %w", err)
		}
		c.StartingEquity = f
	}
	if v := os.Getenv("JOURNAL_LEDGER_PATH"); v != "" {
		c.Ledger.Path = v
	}
	if v := os.Getenv("JOURNAL_DATABASE_URL"); v != "" {
		c.Ledger.DatabaseURL = v
	}
	if v := os.Getenv("JOURNAL_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Ledger.Source {
	case SourceJSONL, SourceCSV:
		if c.Ledger.Path == "" {
			return fmt.Errorf("ledger.path is required for source '%s'", c.Ledger.Source)
		}
	case SourcePostgres:
		if c.Ledger.DatabaseURL == "" {
			return errors.New("ledger.database_url (or JOURNAL_DATABASE_URL) is required for source 'POSTGRES'")
		}
	default:
		return fmt.Errorf("invalid ledger.source '%s': must be 'JSONL', 'CSV' or 'POSTGRES'", c.Ledger.Source)
	}
	if c.StartingEquity < 0 {
		return fmt.Errorf("starting_equity must not be negative, got %.2f", c.StartingEquity)
	}
	w := c.Consistency
	if w.WinRateTarget < 0 || w.WinRateTarget > 100 {
		return fmt.Errorf("consistency.win_rate_target must be between 0-100, got %.2f", w.WinRateTarget)
	}
	if w.ProfitFactorTarget < 0 || w.MaxDrawdownLimit < 0 || w.RiskRewardTarget < 0 {
		return errors.New("consistency targets must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", c.Timezone, err)
	}
	return nil
}

// Location resolves Timezone; "Local" is the process zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c *Config) StartingEquityDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.StartingEquity)
}

// LoadConfig reads the YAML file at path. A missing file yields the defaults;
// environment overrides are applied before validation.
func LoadConfig(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
