// Package config handles configuration loading for tickertop. It reads a
// TOML config file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tickertop/tickertop/internal/alert"
	"github.com/tickertop/tickertop/pkg/models"
)

// Config represents the complete application configuration.
type Config struct {
	General  GeneralConfig       `mapstructure:"general"`
	Watch    WatchlistConfig     `mapstructure:"watchlist"`
	Holdings []HoldingConfig     `mapstructure:"holdings"`
	Display  DisplayConfig       `mapstructure:"display"`
	Colors   ColorConfig         `mapstructure:"colors"`
	Groups   map[string][]string `mapstructure:"groups"`
	Alerts   []AlertConfig       `mapstructure:"alerts"`
	Server   ServerConfig        `mapstructure:"server"`
	Logging  LoggingConfig       `mapstructure:"logging"`
}

// GeneralConfig holds refresh and provider settings.
type GeneralConfig struct {
	RefreshInterval float64 `mapstructure:"refresh_interval"` // seconds
	Timeout         int     `mapstructure:"timeout"`          // seconds
	Currency        string  `mapstructure:"currency"`
	MaxConcurrency  int     `mapstructure:"max_concurrency"`
}

// WatchlistConfig holds the tracked symbols.
type WatchlistConfig struct {
	Symbols []string `mapstructure:"symbols"`
}

// HoldingConfig is a single portfolio position.
type HoldingConfig struct {
	Symbol    string  `mapstructure:"symbol"`
	Quantity  float64 `mapstructure:"quantity"`
	CostBasis float64 `mapstructure:"cost_basis"`
}

// DisplayConfig holds table rendering preferences.
type DisplayConfig struct {
	ShowHeader       bool   `mapstructure:"show_header"`
	ShowFundamentals bool   `mapstructure:"show_fundamentals"`
	ShowHoldings     bool   `mapstructure:"show_holdings"`
	ShowSeparators   bool   `mapstructure:"show_separators"`
	SortBy           string `mapstructure:"sort_by"`
	SortDescending   bool   `mapstructure:"sort_descending"`
}

// ColorConfig holds hex colors for the table.
type ColorConfig struct {
	Gain    string `mapstructure:"gain"`
	Loss    string `mapstructure:"loss"`
	Neutral string `mapstructure:"neutral"`
	Header  string `mapstructure:"header"`
	Border  string `mapstructure:"border"`
}

// AlertConfig is a single price alert loaded from the config file.
type AlertConfig struct {
	Symbol    string  `mapstructure:"symbol"`
	Condition string  `mapstructure:"condition"` // "above", "below", "equal"
	Price     float64 `mapstructure:"price"`
}

// ServerConfig holds HTTP API server settings for the serve subcommand.
type ServerConfig struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // "console" or "json"
}

// DefaultPath returns the default config file location,
// <user config dir>/tickertop/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "tickertop", "config.toml")
}

// Load reads the configuration from the default location. A missing file is
// not an error; defaults and environment variables still apply.
// Environment variables override file values, e.g. TICKERTOP_GENERAL_TIMEOUT.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigFile(DefaultPath())

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}
	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path. Here a missing
// file is an error since the user asked for it explicitly.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	setDefaults(v)

	v.SetEnvPrefix("TICKERTOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("general.refresh_interval", 5.0)
	v.SetDefault("general.timeout", 10)
	v.SetDefault("general.currency", "USD")
	v.SetDefault("general.max_concurrency", 12)

	v.SetDefault("display.show_header", true)
	v.SetDefault("display.show_fundamentals", false)
	v.SetDefault("display.show_holdings", false)
	v.SetDefault("display.show_separators", true)
	v.SetDefault("display.sort_by", "change_percent")
	v.SetDefault("display.sort_descending", true)

	v.SetDefault("colors.gain", "#00ff00")
	v.SetDefault("colors.loss", "#ff0000")
	v.SetDefault("colors.neutral", "#ffffff")
	v.SetDefault("colors.header", "#1e90ff")
	v.SetDefault("colors.border", "#444444")

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// RefreshInterval returns the refresh interval as a duration, floored at one
// second.
func (c *Config) RefreshInterval() time.Duration {
	d := time.Duration(c.General.RefreshInterval * float64(time.Second))
	if d < time.Second {
		d = time.Second
	}
	return d
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.General.Timeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.General.Timeout) * time.Second
}

// AllSymbols returns every symbol from the watchlist, holdings, and groups,
// deduplicated in first-seen order.
func (c *Config) AllSymbols() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(sym string) {
		if sym == "" || seen[sym] {
			return
		}
		seen[sym] = true
		out = append(out, sym)
	}

	for _, sym := range c.Watch.Symbols {
		add(sym)
	}
	for _, h := range c.Holdings {
		add(h.Symbol)
	}
	for _, symbols := range c.Groups {
		for _, sym := range symbols {
			add(sym)
		}
	}
	return out
}

// GetHoldings converts the configured positions to model holdings.
func (c *Config) GetHoldings() []models.Holding {
	out := make([]models.Holding, 0, len(c.Holdings))
	for _, h := range c.Holdings {
		out = append(out, models.Holding{
			Symbol:    h.Symbol,
			Quantity:  h.Quantity,
			CostBasis: h.CostBasis,
		})
	}
	return out
}

// GetAlerts converts the configured alerts, rejecting unknown conditions.
func (c *Config) GetAlerts() ([]alert.Alert, error) {
	out := make([]alert.Alert, 0, len(c.Alerts))
	for _, a := range c.Alerts {
		cond, err := alert.ParseCondition(a.Condition)
		if err != nil {
			return nil, fmt.Errorf("alert for %s: %w", a.Symbol, err)
		}
		out = append(out, alert.Alert{Symbol: a.Symbol, Condition: cond, TargetPrice: a.Price})
	}
	return out, nil
}

// Save writes the configuration to the given path as TOML, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("general.refresh_interval", c.General.RefreshInterval)
	v.Set("general.timeout", c.General.Timeout)
	v.Set("general.currency", c.General.Currency)
	v.Set("general.max_concurrency", c.General.MaxConcurrency)
	v.Set("watchlist.symbols", c.Watch.Symbols)
	v.Set("holdings", holdingMaps(c.Holdings))
	v.Set("display.show_header", c.Display.ShowHeader)
	v.Set("display.show_fundamentals", c.Display.ShowFundamentals)
	v.Set("display.show_holdings", c.Display.ShowHoldings)
	v.Set("display.show_separators", c.Display.ShowSeparators)
	v.Set("display.sort_by", c.Display.SortBy)
	v.Set("display.sort_descending", c.Display.SortDescending)
	v.Set("colors.gain", c.Colors.Gain)
	v.Set("colors.loss", c.Colors.Loss)
	v.Set("colors.neutral", c.Colors.Neutral)
	v.Set("colors.header", c.Colors.Header)
	v.Set("colors.border", c.Colors.Border)
	v.Set("groups", c.Groups)
	v.Set("alerts", alertMaps(c.Alerts))
	v.Set("server.host", c.Server.Host)
	v.Set("server.port", c.Server.Port)
	v.Set("server.cors_origins", c.Server.CORSOrigins)
	v.Set("logging.level", c.Logging.Level)
	v.Set("logging.format", c.Logging.Format)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

func holdingMaps(holdings []HoldingConfig) []map[string]any {
	out := make([]map[string]any, 0, len(holdings))
	for _, h := range holdings {
		out = append(out, map[string]any{
			"symbol":     h.Symbol,
			"quantity":   h.Quantity,
			"cost_basis": h.CostBasis,
		})
	}
	return out
}

func alertMaps(alerts []AlertConfig) []map[string]any {
	out := make([]map[string]any, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, map[string]any{
			"symbol":    a.Symbol,
			"condition": a.Condition,
			"price":     a.Price,
		})
	}
	return out
}
