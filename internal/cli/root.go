// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradejournal/internal/config"
	"tradejournal/internal/journal"
	"tradejournal/internal/logging"
	"tradejournal/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-31"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   store.Store
	Journal *journal.Service
}

// requireJournal returns the service or an error when the store could
// not be opened at startup.
func (a *App) requireJournal() (*journal.Service, error) {
	if a.Journal == nil {
		return nil, fmt.Errorf("journal database unavailable (check db_path in config)")
	}
	return a.Journal, nil
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.Journal.DBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, journal commands unavailable")
	} else {
		app.Store = dataStore
		app.Journal = journal.NewService(dataStore, cfg, logger)
		logger.Debug().Str("db_path", cfg.Journal.DBPath).Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "tradejournal",
		Short: "Trade Journal - futures trade journaling CLI",
		Long: `Trade Journal is a journaling CLI for futures day traders.

It imports broker fill exports, reconstructs round-trip trades with
P&L, plans and tracks live trades with stop/take-profit risk math,
and aggregates analytics across the journal.

Use 'tradejournal help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tradejournal)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addImportCommands(rootCmd, app)
	addDayCommands(rootCmd, app)
	addLiveCommands(rootCmd, app)
	addAnalyticsCommands(rootCmd, app)
	addPortfolioCommands(rootCmd, app)
	addSettingsCommands(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Trade Journal v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Journal")
			output.Printf("  db_path:            %s\n", app.Config.Journal.DBPath)
			output.Printf("  import_point_value: %.2f\n", app.Config.Journal.ImportPointValue)
			output.Println()
			output.Bold("Instruments")
			for sym, spec := range app.Config.Instruments {
				output.Printf("  %-4s $%.2f/pt  $%.2f/tick  %d ticks/pt\n",
					sym, spec.DollarsPerPoint, spec.DollarsPerTick, spec.TicksPerPoint)
			}
			output.Println()
			output.Bold("Plan defaults")
			d := app.Config.Defaults
			output.Printf("  full: stop %.1fpt, tp %.1fpt\n", d.FullStopPoints, d.FullTPPoints)
			output.Printf("  partials: stop %.1fpt, tps %.1f/%.1f/%.1fpt\n",
				d.PartialStopPoints, d.PartialTP1Points, d.PartialTP2Points, d.PartialTP3Points)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}
