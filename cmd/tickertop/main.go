// tickertop — a top-like terminal dashboard for stock and crypto prices.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tickertop/tickertop/api"
	"github.com/tickertop/tickertop/internal/app"
	"github.com/tickertop/tickertop/internal/config"
	"github.com/tickertop/tickertop/internal/datasource"
	"github.com/tickertop/tickertop/internal/export"
	"github.com/tickertop/tickertop/internal/logging"
	"github.com/tickertop/tickertop/internal/render"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	cfg *config.Config
	log *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tickertop [symbols...]",
	Short: "tickertop — a top-like dashboard for stock and crypto prices",
	Long: `tickertop watches stock, crypto, and index prices in the terminal.

Symbols follow Yahoo conventions: AAPL, BRK-B, ^GSPC, EURUSD=X. Crypto
shortcuts expand automatically, so BTC and ETH.X become BTC-USD and
ETH-USD.`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		// init writes the config file, so it must not require one to exist.
		if configFile != "" && cmd.Name() != "init" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Logging.Level
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		log, err = logging.New(level, cfg.Logging.Format)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		return nil
	},
	RunE: runDashboard,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringP("config", "c", "", "config file path (default: "+config.DefaultPath()+")")
	pf.String("log-level", "", "log level override (debug, info, warn, error)")

	f := rootCmd.Flags()
	f.StringSliceP("symbols", "s", nil, "symbols to watch (overrides the config watchlist)")
	f.Float64P("delay", "d", 0, "refresh interval in seconds (overrides config)")
	f.IntP("iterations", "n", 0, "exit after this many refresh cycles (0 = run forever)")
	f.BoolP("batch", "b", false, "batch mode: append each cycle instead of redrawing")
	f.BoolP("secure", "S", false, "secure mode: disable state-mutating interactions")
	f.BoolP("holdings", "H", false, "show portfolio holdings summary")
	f.String("sort", "", "sort field: symbol, name, price, change, change_percent, volume, market_cap")
	f.BoolP("reverse", "r", false, "reverse the sort direction")
	f.Int("timeout", 0, "per-request timeout in seconds (overrides config)")
	f.Bool("audio-alerts", false, "beep when price alerts trigger")
	f.String("export", "", "export format: csv, json, text (implies batch, single cycle)")
	f.StringP("output", "o", "", "write export to file instead of stdout")
	f.Bool("no-color", false, "disable ANSI colors")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
}

// buildApp wires the fetcher and controller from config plus flags.
func buildApp(cmd *cobra.Command, args []string) (*app.App, error) {
	if delay, _ := cmd.Flags().GetFloat64("delay"); delay > 0 {
		cfg.General.RefreshInterval = delay
	}
	if timeout, _ := cmd.Flags().GetInt("timeout"); timeout > 0 {
		cfg.General.Timeout = timeout
	}
	if sortBy, _ := cmd.Flags().GetString("sort"); sortBy != "" {
		cfg.Display.SortBy = sortBy
	}
	if reverse, _ := cmd.Flags().GetBool("reverse"); reverse {
		cfg.Display.SortDescending = !cfg.Display.SortDescending
	}

	symbols, _ := cmd.Flags().GetStringSlice("symbols")
	symbols = append(symbols, args...)

	secure, _ := cmd.Flags().GetBool("secure")
	holdings, _ := cmd.Flags().GetBool("holdings")
	iterations, _ := cmd.Flags().GetInt("iterations")
	audio, _ := cmd.Flags().GetBool("audio-alerts")

	client := datasource.NewClient(cfg.Timeout(), log).
		WithMaxConcurrency(cfg.General.MaxConcurrency)

	return app.New(cfg, app.Options{
		Symbols:       symbols,
		SecureMode:    secure,
		ShowHoldings:  holdings,
		MaxIterations: iterations,
		AudioAlerts:   audio,
	}, client, log)
}

// signalContext cancels on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	defer log.Sync()

	exportFormat, _ := cmd.Flags().GetString("export")
	if exportFormat != "" {
		return runExport(cmd, args, exportFormat)
	}

	a, err := buildApp(cmd, args)
	if err != nil {
		return err
	}

	batch, _ := cmd.Flags().GetBool("batch")
	noColor, _ := cmd.Flags().GetBool("no-color")
	renderer := render.New(os.Stdout, cfg.Display, !noColor && !batch, !batch)

	ctx, cancel := signalContext()
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		if a.NeedsRefresh() {
			a.RefreshQuotes(ctx)
			if err := renderer.Render(a); err != nil {
				return err
			}
			if a.ShouldQuit() {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case <-ticker.C:
		}
	}
}

// runExport fetches one cycle (or -n cycles to build history) and writes
// the table in the requested format.
func runExport(cmd *cobra.Command, args []string, formatName string) error {
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	a, err := buildApp(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	cycles, _ := cmd.Flags().GetInt("iterations")
	if cycles < 1 {
		cycles = 1
	}
	for i := 0; i < cycles; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cfg.RefreshInterval()):
			}
			a.ForceRefresh()
		}
		a.RefreshQuotes(ctx)
	}
	if len(a.Quotes()) == 0 {
		return fmt.Errorf("no quotes fetched: %s", a.LastError())
	}

	snap := export.Snapshot{
		Timestamp: time.Now().UTC(),
		Quotes:    a.Quotes(),
	}
	if a.ShowHoldings() {
		p := a.Portfolio()
		snap.Portfolio = &p
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return export.Write(out, format, snap)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tickertop %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the refresh loop and serve the dashboard state over HTTP",
	Long: `serve runs the quote refresh loop headless and exposes the state as a
read-only HTTP API with a WebSocket stream of refresh cycles.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer log.Sync()

		a, err := buildApp(cmd, args)
		if err != nil {
			return err
		}
		srv := api.NewServer(cfg.Server, a, log)

		ctx, cancel := signalContext()
		defer cancel()

		go func() {
			ticker := time.NewTicker(250 * time.Millisecond)
			defer ticker.Stop()
			for {
				if a.NeedsRefresh() {
					a.RefreshQuotes(ctx)
					srv.BroadcastRefresh()
				}
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			}
		}()

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			addr = listen
		}
		return srv.Run(ctx, addr)
	},
}

func init() {
	f := serveCmd.Flags()
	f.StringSliceP("symbols", "s", nil, "symbols to watch (overrides the config watchlist)")
	f.Float64P("delay", "d", 0, "refresh interval in seconds (overrides config)")
	f.Int("timeout", 0, "per-request timeout in seconds (overrides config)")
	f.String("sort", "", "sort field")
	f.BoolP("reverse", "r", false, "reverse the sort direction")
	f.BoolP("holdings", "H", false, "include portfolio aggregates in broadcasts")
	f.String("listen", "", "listen address override, host:port")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and API key status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("tickertop %s (%s)\n\n", version, commit)

		fmt.Println("Configuration:")
		fmt.Printf("  Refresh interval: %s\n", cfg.RefreshInterval())
		fmt.Printf("  Timeout:          %s\n", cfg.Timeout())
		fmt.Printf("  Max concurrency:  %d\n", cfg.General.MaxConcurrency)
		fmt.Printf("  Watchlist:        %d symbols\n", len(cfg.Watch.Symbols))
		fmt.Printf("  Holdings:         %d positions\n", len(cfg.Holdings))
		fmt.Printf("  Groups:           %d\n", len(cfg.Groups))
		fmt.Printf("  Alerts:           %d\n", len(cfg.Alerts))
		fmt.Printf("  API server:       %s:%d\n", cfg.Server.Host, cfg.Server.Port)
		fmt.Println()

		fmt.Println("API Keys:")
		for _, k := range config.CheckAPIKeys() {
			status := "not set (using public demo access)"
			if k.IsSet {
				status = fmt.Sprintf("set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("  %-15s %s\n", k.Name+":", status)
		}
		return nil
	},
}

// --- Init Command (sample config) ---

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = config.DefaultPath()
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}
		}
		if err := os.WriteFile(path, []byte(config.SampleConfig()), 0o644); err != nil {
			return fmt.Errorf("writing sample config: %w", err)
		}
		fmt.Printf("Wrote sample config to %s\n", path)
		return nil
	},
}
