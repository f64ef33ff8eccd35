package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`

	// Umbrella funds queried on the provider.
	EquityFund string `json:"equity_fund"`
	BondFund   string `json:"bond_fund"`

	// Underlying funds the umbrella funds are broken down into.
	DomesticEquity string `json:"domestic_equity"`
	ForeignEquity  string `json:"foreign_equity"`
	DomesticBond   string `json:"domestic_bond"`
	ForeignBond    string `json:"foreign_bond"`

	DefaultBonds decimal.Decimal `json:"default_bonds"`

	Debug    bool   `json:"debug"`
	LogLevel string `json:"log_level"`
}

// Defaults returns the built-in settings, ignoring .env and the environment.
func Defaults() *Config {
	return &Config{
		BaseURL:        "https://investor.vanguard.com",
		TimeoutSeconds: 30,

		EquityFund: "VT",
		BondFund:   "BNDW",

		DomesticEquity: "VTI",
		ForeignEquity:  "VXUS",
		DomesticBond:   "BND",
		ForeignBond:    "BNDX",

		DefaultBonds: decimal.NewFromInt(10),

		Debug:    false,
		LogLevel: "warn",
	}
}

// DefaultConfig returns Defaults overridden by .env and the environment.
func DefaultConfig() *Config {
	cfg := Defaults()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("VANGUARD_BASE_URL"); val != "" {
		c.BaseURL = val
	}
	if val := os.Getenv("VANGUARD_TIMEOUT"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.TimeoutSeconds = v
		}
	}
	if val := os.Getenv("BOGLEHEAD_BONDS"); val != "" {
		if v, err := decimal.NewFromString(val); err == nil {
			c.DefaultBonds = v
		}
	}
	if val := os.Getenv("BOGLEHEAD_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
	if val := os.Getenv("BOGLEHEAD_LOG_LEVEL"); val != "" {
		c.LogLevel = strings.ToLower(val)
	}
}

// Timeout is the per-request limit applied by the HTTP transport.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", c.BaseURL)
	}
	if c.TimeoutSeconds <= 0 {
		return errors.New("timeout_seconds must be positive")
	}
	for name, ticker := range map[string]string{
		"equity_fund":     c.EquityFund,
		"bond_fund":       c.BondFund,
		"domestic_equity": c.DomesticEquity,
		"foreign_equity":  c.ForeignEquity,
		"domestic_bond":   c.DomesticBond,
		"foreign_bond":    c.ForeignBond,
	} {
		if strings.TrimSpace(ticker) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
	}
	if c.DefaultBonds.IsNegative() || c.DefaultBonds.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("default_bonds %s is outside [0, 100]", c.DefaultBonds)
	}
	return nil
}
