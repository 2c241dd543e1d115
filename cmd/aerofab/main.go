package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lmonteiro/aerofab/internal/production/audit"
	"github.com/lmonteiro/aerofab/internal/production/auth"
	"github.com/lmonteiro/aerofab/internal/production/cli"
	"github.com/lmonteiro/aerofab/internal/production/config"
	"github.com/lmonteiro/aerofab/internal/production/controller"
	"github.com/lmonteiro/aerofab/internal/production/report"
	"github.com/lmonteiro/aerofab/internal/production/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

var (
	flagDataDir  string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "aerofab",
	Short: "Interactive aircraft manufacturing tracker",
	Long: `Aerofab tracks aircraft production: employees, aircraft records, parts,
ordered manufacturing stages, acceptance tests and delivery reports,
persisted as JSON files in a local data directory.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("aerofab", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.aerofab)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.AddCommand(versionCmd)
}

func run() error {
	cfg, err := config.Load(flagDataDir, flagLogLevel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	st, err := store.Open(store.Config{DataDir: cfg.DataDir}, logger)
	if err != nil {
		logger.Error("failed to open store", zap.Error(err))
		return err
	}

	trail := audit.NewTrail(cfg.DataDir, logger)
	svc := controller.NewService(st, trail, report.NewGenerator(cfg.DataDir), logger)
	sess := auth.NewSession(logger)

	shell := cli.NewShell(os.Stdin, os.Stdout, svc, sess, logger, stdoutIsTerminal())
	return shell.Run()
}

// initLogger builds a zap logger writing to <data-dir>/aerofab.log.
// Stdout belongs to the shell, never to the logger.
func initLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{filepath.Join(cfg.DataDir, "aerofab.log")}
	zc.ErrorOutputPaths = zc.OutputPaths
	return zc.Build()
}

func stdoutIsTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
