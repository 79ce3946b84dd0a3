// Package cli provides the command-line interface for the scanner.
package cli

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"option-scanner/internal/config"
	"option-scanner/internal/logging"
	"option-scanner/internal/master"
	"option-scanner/internal/quotes"
	"option-scanner/internal/store"
	"option-scanner/pkg/utils"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Master    *master.Master
	Fetcher   *quotes.Fetcher
	Cache     store.QuoteCache
	Blacklist store.Blacklist
	Meta      store.Meta
	Tokens    store.Tokens
	Scans     store.ScanStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	dataDir := cfg.Data.Dir

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Master:    master.New(cfg.Data.MasterPath),
		Fetcher:   quotes.NewFetcher(cfg.Quotes.BaseURL, logger),
		Cache:     store.NewFileQuoteCache(dataDir),
		Blacklist: store.NewFileBlacklist(dataDir),
		Meta:      store.NewFileMeta(dataDir),
		Tokens:    store.NewFileTokens(dataDir),
	}

	// Scan history store; scans still run without it.
	scanStore, err := store.NewSQLiteStore(filepath.Join(dataDir, "scans.db"))
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize scan history store")
	} else {
		app.Scans = scanStore
	}

	rootCmd := &cobra.Command{
		Use:   "scanner",
		Short: "Positional stock option scanner for NSE F&O",
		Long: `Scanner resolves the at-the-money option pair per underlying from a
daily bhavcopy, overlays live last-traded prices from the quote API and
ranks calls and puts by their change metric.

Use 'scanner help <command>' for more information about a command.`,
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
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/option-scanner)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newScanCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newDataCmd(app))
	rootCmd.AddCommand(newAuthCmd(app))
	rootCmd.AddCommand(newBlacklistCmd(app))

	return rootCmd
}

// accessToken resolves the quote API credential: environment/config
// first, then the day-scoped token store. Empty when neither applies.
func (a *App) accessToken() string {
	if t := a.Config.Credentials.Upstox.AccessToken; t != "" {
		return t
	}
	token, err := a.Tokens.Load(utils.TodayIST())
	if err != nil {
		a.Logger.Warn().Err(err).Msg("Loading token store failed")
		return ""
	}
	return token
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("Option Scanner v%s\n", Version)
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
			output.Bold("Data")
			output.Printf("  Directory:   %s\n", app.Config.Data.Dir)
			output.Printf("  Master path: %s\n", app.Config.Data.MasterPath)
			output.Println()
			output.Bold("Quotes")
			output.Printf("  Base URL:   %s\n", app.Config.Quotes.BaseURL)
			output.Printf("  Master URL: %s\n", app.Config.Quotes.MasterURL)
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

	return cmd
}
