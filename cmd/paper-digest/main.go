// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-digest CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/internal/config"
	"github.com/pdiddy/paper-digest/internal/pipeline"
	"github.com/pdiddy/paper-digest/internal/schedule"
	"github.com/pdiddy/paper-digest/internal/secrets"
	"github.com/pdiddy/paper-digest/internal/telemetry"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// secretsDir holds one file per credential.
const secretsDir = ".secrets/"

// Populated by PersistentPreRunE.
var (
	appConfig types.Config
	logger    *slog.Logger
	closeLog  = func() error { return nil }
)

// rootCmd runs the digest pipeline.
var rootCmd = &cobra.Command{
	Use:   "paper-digest",
	Short: "Email a daily digest of new, relevant arXiv papers",
	Long: `paper-digest searches arXiv for recent papers matching the configured
query or categories, scores each for relevance with a language model, and
analyzes the full text of the top papers it has not analyzed before. The
analyses are emailed as one HTML digest.

By default the pipeline runs once immediately and then daily at schedule.at.
Use --once to run a single time, or --pdf to analyze one paper and exit.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	RunE: runDigest,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-digest.yaml or ~/.config/paper-digest/paper-digest.yaml)")
	rootCmd.Flags().String("pdf", "", "analyze a single paper (local path, URL, or arXiv ID) and exit")
	rootCmd.Flags().Bool("once", false, "run the pipeline once and exit")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-digest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-digest"))
		}
	}

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintln(os.Stderr, "Reading config file:", err)
	}
}

// setup installs the logger, then loads secrets and configuration.
func setup(cmd *cobra.Command, args []string) error {
	cfg, l, closer, err := loadConfig(viper.GetViper(), secretsDir)
	if err != nil {
		return err
	}
	appConfig, logger, closeLog = cfg, l, closer
	return nil
}

// loadConfig builds the logger from the log.* keys first, so secret loading
// already logs at the configured level and into the configured file.
func loadConfig(v *viper.Viper, dir string) (types.Config, *slog.Logger, func() error, error) {
	l, closer := config.SetupLogger(v.GetString("log.file"), config.ParseLogLevel(v.GetString("log.level")))
	slog.SetDefault(l)

	s, err := secrets.Load(dir, l)
	if err != nil {
		closer()
		return types.Config{}, nil, nil, err
	}
	if len(s) > 0 {
		l.Debug("loaded secrets", "names", secrets.Names(s))
	}

	cfg, err := config.Load(v, s)
	if err != nil {
		closer()
		return types.Config{}, nil, nil, err
	}
	return cfg, l, closer, nil
}

func runDigest(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, appConfig.Telemetry, version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			logger.Warn("flushing traces", "error", err)
		}
	}()

	a, err := newApp(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if location, _ := cmd.Flags().GetString("pdf"); location != "" {
		report, err := a.runner.RunSingle(ctx, location, time.Now())
		logReport(report)
		return err
	}

	job := func(ctx context.Context, now time.Time) error {
		report, err := a.runner.Run(ctx, now)
		logReport(report)
		return err
	}

	once, _ := cmd.Flags().GetBool("once")
	if err := job(ctx, time.Now()); err != nil {
		if once {
			return err
		}
		logger.Error("initial run failed", "error", err)
	}
	if once {
		return nil
	}

	sched, err := schedule.New(appConfig.Schedule, logger)
	if err != nil {
		return err
	}
	if err := sched.Run(ctx, job); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func logReport(r pipeline.Report) {
	attrs := []any{
		"run_id", r.RunID,
		"outcome", r.Outcome,
		"candidates", r.Candidates,
		"analyzed", len(r.Analyzed),
		"skipped", len(r.Skipped),
	}
	if r.DeliveryErr != nil {
		attrs = append(attrs, "delivery_error", r.DeliveryErr)
	}
	if r.ArchivePath != "" {
		attrs = append(attrs, "archive", r.ArchivePath)
	}
	logger.Info("run report", attrs...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
