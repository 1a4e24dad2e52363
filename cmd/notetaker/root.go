package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/notetakerapp/notetaker-server/internal/config"
	"github.com/notetakerapp/notetaker-server/internal/export"
	"github.com/notetakerapp/notetaker-server/internal/logger"
	"github.com/notetakerapp/notetaker-server/internal/service"
	"github.com/notetakerapp/notetaker-server/internal/store/sqlite"
)

var (
	verbose bool
	dbPath  string
	log     *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notetaker",
	Short: "Export and preview NoteTaker notes from the command line",
	Long: `notetaker reads the NoteTaker SQLite database directly and renders notes
with the same exporters the server uses.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		log = logger.New(logger.Config{Writer: os.Stderr, Level: level}).Logger
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database file (defaults to the server's DATABASE_PATH)")
}

// cliEnv is what a command needs to export notes.
type cliEnv struct {
	cfg     *config.Config
	store   *sqlite.Store
	exports *service.ExportService
}

func (e *cliEnv) Close() error {
	return e.store.Close()
}

// loadConfig resolves the configuration the way the server does, without its flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(nil)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	return cfg, nil
}

// openEnv opens the database and builds the export service.
func openEnv() (*cliEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(cfg.Database.Path); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	st, err := sqlite.Open(cfg.Database.Path, log)
	if err != nil {
		return nil, err
	}

	exporter := export.New(export.Config{
		DocxEnabled:        cfg.Export.DocxEnabled,
		FailOnEmptyArchive: cfg.Export.FailOnEmptyArchive,
		FontPath:           cfg.Export.PDFFontPath,
		Logger:             log,
	})

	return &cliEnv{
		cfg:     cfg,
		store:   st,
		exports: service.NewExportService(st, exporter, log),
	}, nil
}
