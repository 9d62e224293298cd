package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tickertop/tickertop/internal/alert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
[general]
refresh_interval = 2.5
timeout = 15
currency = "EUR"

[watchlist]
symbols = ["AAPL", "BTC-USD"]

[[holdings]]
symbol = "AAPL"
quantity = 10
cost_basis = 150.0

[display]
sort_by = "price"
sort_descending = false

[groups]
tech = ["AAPL", "MSFT"]

[[alerts]]
symbol = "AAPL"
condition = "above"
price = 200.0
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.General.RefreshInterval != 2.5 || cfg.General.Currency != "EUR" {
		t.Errorf("unexpected general config: %+v", cfg.General)
	}
	if cfg.Timeout() != 15*time.Second {
		t.Errorf("unexpected timeout: %v", cfg.Timeout())
	}
	if len(cfg.Watch.Symbols) != 2 {
		t.Errorf("unexpected watchlist: %v", cfg.Watch.Symbols)
	}
	if len(cfg.Holdings) != 1 || cfg.Holdings[0].Quantity != 10 {
		t.Errorf("unexpected holdings: %+v", cfg.Holdings)
	}
	if cfg.Display.SortBy != "price" || cfg.Display.SortDescending {
		t.Errorf("unexpected display config: %+v", cfg.Display)
	}
	if got := cfg.Groups["tech"]; len(got) != 2 {
		t.Errorf("unexpected groups: %v", cfg.Groups)
	}
	if len(cfg.Alerts) != 1 || cfg.Alerts[0].Price != 200 {
		t.Errorf("unexpected alerts: %+v", cfg.Alerts)
	}

	// Defaults fill in everything the file leaves out.
	if cfg.General.MaxConcurrency != 12 {
		t.Errorf("expected default max_concurrency, got %d", cfg.General.MaxConcurrency)
	}
	if !cfg.Display.ShowHeader {
		t.Error("expected default show_header = true")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level, got %q", cfg.Logging.Level)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestRefreshIntervalClamped(t *testing.T) {
	cfg := &Config{General: GeneralConfig{RefreshInterval: 0.2}}
	if got := cfg.RefreshInterval(); got != time.Second {
		t.Errorf("expected 1s floor, got %v", got)
	}
	cfg.General.RefreshInterval = 2.5
	if got := cfg.RefreshInterval(); got != 2500*time.Millisecond {
		t.Errorf("expected 2.5s, got %v", got)
	}
}

func TestAllSymbolsDeduplicates(t *testing.T) {
	cfg := &Config{
		Watch:    WatchlistConfig{Symbols: []string{"AAPL", "MSFT"}},
		Holdings: []HoldingConfig{{Symbol: "AAPL"}, {Symbol: "BTC-USD"}},
		Groups:   map[string][]string{"tech": {"MSFT", "NVDA"}},
	}

	symbols := cfg.AllSymbols()
	if len(symbols) != 4 {
		t.Fatalf("expected 4 distinct symbols, got %v", symbols)
	}
	if symbols[0] != "AAPL" || symbols[1] != "MSFT" {
		t.Errorf("watchlist symbols must come first, got %v", symbols)
	}
}

func TestGetAlerts(t *testing.T) {
	cfg := &Config{Alerts: []AlertConfig{{Symbol: "AAPL", Condition: "above", Price: 200}}}
	alerts, err := cfg.GetAlerts()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 || alerts[0].Condition != alert.Above {
		t.Errorf("unexpected alerts: %+v", alerts)
	}

	cfg.Alerts = append(cfg.Alerts, AlertConfig{Symbol: "MSFT", Condition: "sideways"})
	if _, err := cfg.GetAlerts(); err == nil {
		t.Error("expected error for unknown condition")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := &Config{
		General:  GeneralConfig{RefreshInterval: 3, Timeout: 8, Currency: "USD", MaxConcurrency: 4},
		Watch:    WatchlistConfig{Symbols: []string{"AAPL"}},
		Holdings: []HoldingConfig{{Symbol: "AAPL", Quantity: 5, CostBasis: 120}},
		Display:  DisplayConfig{ShowHeader: true, SortBy: "symbol"},
		Groups:   map[string][]string{"tech": {"AAPL"}},
		Alerts:   []AlertConfig{{Symbol: "AAPL", Condition: "below", Price: 100}},
		Logging:  LoggingConfig{Level: "debug", Format: "json"},
	}

	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.General.RefreshInterval != 3 || loaded.General.MaxConcurrency != 4 {
		t.Errorf("general section did not round-trip: %+v", loaded.General)
	}
	if len(loaded.Holdings) != 1 || loaded.Holdings[0].CostBasis != 120 {
		t.Errorf("holdings did not round-trip: %+v", loaded.Holdings)
	}
	if len(loaded.Alerts) != 1 || loaded.Alerts[0].Condition != "below" {
		t.Errorf("alerts did not round-trip: %+v", loaded.Alerts)
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("logging did not round-trip: %+v", loaded.Logging)
	}
}

func TestSampleConfigParses(t *testing.T) {
	path := writeConfig(t, SampleConfig())
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("sample config must parse: %v", err)
	}
	if len(cfg.Watch.Symbols) == 0 || len(cfg.Holdings) == 0 || len(cfg.Groups) == 0 {
		t.Errorf("sample config missing sections: %+v", cfg)
	}
	if _, err := cfg.GetAlerts(); err != nil {
		t.Errorf("sample alerts must be valid: %v", err)
	}
}
