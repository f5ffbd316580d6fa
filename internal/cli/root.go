// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trade-journal/internal/config"
	"trade-journal/internal/journal"
	"trade-journal/internal/logging"
	"trade-journal/internal/notify"
	"trade-journal/internal/store"
	"trade-journal/pkg/utils"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-01-01"
)

// commandTimeout bounds a single command's storage work.
const commandTimeout = 30 * time.Second

// App holds the application dependencies.
type App struct {
	ConfigDir string
	Config    *config.Config
	Logger    zerolog.Logger
	Clock     utils.Clock
	Store     store.DataStore
	Service   *journal.Service
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(logger zerolog.Logger) *cobra.Command {
	return newRootCmd(&App{Logger: logger})
}

// Execute runs the CLI and releases the store even when the command fails,
// since cobra skips post-run hooks after an error.
func Execute(ctx context.Context, logger zerolog.Logger) error {
	app := &App{Logger: logger}
	err := newRootCmd(app).ExecuteContext(ctx)
	if cerr := app.Close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(app *App) *cobra.Command {
	if app.Clock == nil {
		app.Clock = utils.SystemClock{}
	}

	rootCmd := &cobra.Command{
		Use:   "journal",
		Short: "Trade journal - log trades, track targets and manage risk",
		Long: `Trade journal records closed trades and turns them into analytics.

It reports win rate, drawdown and per-symbol performance, tracks monthly
targets, sizes positions from a risk budget and warns when daily loss or
drawdown limits are reached.

Use 'journal <command> --help' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/trade-journal)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("yaml", false, "output in YAML format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("account", "", "restrict to one trading account")

	addCoreCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addReportCommands(rootCmd, app)
	addTargetCommands(rootCmd, app)
	addSizingCommands(rootCmd, app)
	addRiskCommands(rootCmd, app)

	return rootCmd
}

// setup loads configuration and replaces the bootstrap logger.
func (app *App) setup(cmd *cobra.Command) error {
	dir, _ := cmd.Flags().GetString("config")
	if dir == "" {
		dir = config.DefaultConfigDir()
	}
	app.ConfigDir = dir

	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	app.Config = cfg
	app.Logger = logging.NewLoggerWithConfig(cfg.Logging)

	// Handle debug flag
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logging.SetDebugLevel()
		app.Logger = app.Logger.Level(zerolog.DebugLevel)
	}

	cmd.SetContext(logging.WithLogger(cmd.Context(), app.Logger))
	app.Logger.Debug().Str("config", cfg.Path).Str("db", cfg.Journal.DBPath).Msg("Configuration loaded")
	return nil
}

// service opens the store on first use and returns the journal service.
func (app *App) service(cmd *cobra.Command) (*journal.Service, error) {
	if app.Service != nil {
		return app.Service, nil
	}
	if app.Config == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	if err := os.MkdirAll(filepath.Dir(app.Config.Journal.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	ds, err := store.NewSQLiteStore(app.Config.Journal.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	app.Store = ds
	app.Logger.Debug().Str("db", app.Config.Journal.DBPath).Msg("SQLite store initialized")

	opts := journal.OptionsFromConfig(app.Config)
	opts.Clock = app.Clock
	opts.Logger = app.Logger
	opts.Notifier = notify.NewMultiNotifier(app.Config.Notifications, app.Config.Journal.CurrencySymbol, cmd.ErrOrStderr())

	svc, err := journal.NewService(ds, opts)
	if err != nil {
		return nil, err
	}
	app.Service = svc
	return svc, nil
}

// Close releases the store.
func (app *App) Close() error {
	if app.Store == nil {
		return nil
	}
	err := app.Store.Close()
	app.Store = nil
	app.Service = nil
	return err
}

// output returns an Output using the configured currency.
func (app *App) output(cmd *cobra.Command) *Output {
	out := NewOutput(cmd)
	if app.Config != nil {
		out.SetCurrency(app.Config.Journal.CurrencySymbol)
	}
	return out
}

// account returns the --account flag value.
func account(cmd *cobra.Command) string {
	a, _ := cmd.Flags().GetString("account")
	return a
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), commandTimeout)
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if output.IsStructured() {
				return output.Structured(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("Trade Journal v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			cfg := app.Config.Redacted()
			if output.IsStructured() {
				return output.Structured(cfg)
			}
			showConfig(output, &cfg)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if output.IsStructured() {
				return output.Structured(map[string]string{"path": app.ConfigDir, "file": app.Config.Path})
			}
			output.Println(app.ConfigDir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.output(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsStructured() {
				return output.Structured(map[string]bool{"valid": true})
			}
			output.Success("Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Journal")
	output.Printf("  Owner:            %s\n", cfg.Journal.Owner)
	output.Printf("  Database:         %s\n", cfg.Journal.DBPath)
	output.Printf("  Currency:         %s\n", cfg.Journal.CurrencySymbol)
	output.Printf("  Default Account:  %s\n", cfg.Journal.DefaultAccount)
	output.Println()

	output.Bold("Risk")
	output.Printf("  Daily Loss Limit: %s\n", limitString(output, cfg.Risk.DailyLossLimit))
	output.Printf("  Drawdown Limit:   %s\n", limitString(output, cfg.Risk.DrawdownLimit))
	output.Printf("  Default Risk %%:   %.2f%%\n", cfg.Risk.DefaultRiskPercent)
	output.Printf("  Default Pip Value: %s\n", output.Money(cfg.Risk.DefaultPipValue))
	output.Printf("  Watch Schedule:   %s\n", cfg.Risk.WatchSchedule)
	output.Println()

	output.Bold("Monthly Target Defaults")
	output.Printf("  P&L:              %s\n", output.Money(cfg.Targets.PnLTarget))
	output.Printf("  Trades:           %d\n", cfg.Targets.TradesTarget)
	output.Printf("  Win Rate:         %s\n", FormatWinRate(cfg.Targets.WinRateTarget))
	output.Println()

	output.Bold("Notifications")
	output.Printf("  Enabled:          %v\n", cfg.Notifications.Enabled)
	output.Printf("  Level:            %s\n", cfg.Notifications.Level)
	output.Printf("  Terminal:         %v\n", cfg.Notifications.Terminal)
	output.Printf("  Webhook:          %v\n", cfg.Notifications.Webhook.Enabled)
	if cfg.Notifications.Webhook.URL != "" {
		output.Printf("  Webhook URL:      %s\n", cfg.Notifications.Webhook.URL)
	}
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:            %s\n", cfg.Logging.Level)
	output.Printf("  File:             %v (%s)\n", cfg.Logging.File, cfg.Logging.FilePath)
}

func limitString(output *Output, limit float64) string {
	if limit <= 0 {
		return "disabled"
	}
	return output.Money(limit)
}
