package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziprune/ziprune/internal/config"
	"github.com/ziprune/ziprune/internal/database"
	"github.com/ziprune/ziprune/internal/logging"
	"github.com/ziprune/ziprune/internal/usecase"
)

var (
	dbPathFlag   string
	logLevelFlag string
	logFileFlag  string
)

var rootCmd = &cobra.Command{
	Use:          "ziprune",
	Short:        "ziprune - find zip archives that were already extracted",
	Long:         "ziprune indexes a directory tree, lists the contents of every zip archive in it and reports archives whose contents already sit in a sibling directory, so they can be deleted.",
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Path of the index store (default $XDG_DATA_HOME/ziprune/file_index.db)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Write JSON logs to this file instead of stderr")

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newIndexCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newMCPCmd())
}

// app bundles what every command needs once configuration is resolved.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	dbCtx    *database.Context
	analyzer *usecase.Analyzer
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbPathFlag != "" {
		cfg.DBPath = dbPathFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	if logFileFlag != "" {
		cfg.LogFile = logFileFlag
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	dbCtx, err := database.CreateDatabase(cfg.DBPath)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	logger.Debug("opened index store", zap.String("path", dbCtx.Path))

	return &app{
		cfg:      cfg,
		logger:   logger,
		dbCtx:    dbCtx,
		analyzer: usecase.NewAnalyzer(dbCtx, analyzerOptions(cfg, logger)),
	}, nil
}

func analyzerOptions(cfg *config.Config, logger *zap.Logger) usecase.AnalyzerOptions {
	return usecase.AnalyzerOptions{
		BatchSize: cfg.BatchSize,
		Exclude:   cfg.Exclude,
		Logger:    logger,
	}
}

func (a *app) Close() {
	_ = database.CloseDatabase(a.dbCtx)
	_ = a.logger.Sync()
}

// interruptContext is cancelled on Ctrl-C or SIGTERM so running stages stop
// between items and keep what they already wrote.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
