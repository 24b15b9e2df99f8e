package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piepengu/satmath/internal/config"
	"github.com/piepengu/satmath/internal/llm"
	"github.com/piepengu/satmath/internal/logger"
	"github.com/piepengu/satmath/internal/store"
)

// v holds flag, environment and config file settings for every command.
var v = config.NewViper()

var rootCmd = &cobra.Command{
	Use:   "satmath",
	Short: "SAT math practice engine",
	Long: `satmath generates seeded SAT-style math items, grades answers exactly,
and serves AI-written items behind a guardrail with template fallbacks.

Run without a subcommand to start a terminal practice session.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd, practiceFlags{skill: "linear_equation"})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String(config.KeyDB, "", "Database DSN or SQLite path (overrides SATMATH_DB)")
	pf.String(config.KeyDBDriver, store.DriverSQLite, "Database driver: sqlite or postgres")
	pf.String(config.KeyLogMode, "dev", "Log format: dev or prod")
	pf.String(config.KeyLogLevel, "", "Log level (debug, info, warn, error)")
	bindFlags(rootCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// bindFlags exposes a command's flags to viper under their own names.
func bindFlags(cmd *cobra.Command) {
	if err := v.BindPFlags(cmd.PersistentFlags()); err != nil {
		panic(err)
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		panic(err)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*logger.Logger, error) {
	return logger.New(cfg.LogMode, logger.Options{Level: cfg.LogLevel})
}

func openStore(cfg config.Config) (*store.Store, error) {
	if cfg.DBDriver == store.DriverSQLite {
		if err := store.EnsureDir(cfg.DBDSN); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	s, err := store.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newProvider returns nil when no LLM is configured. Callers then serve
// template items.
func newProvider(ctx context.Context, cfg config.Config, events store.EventRepo, log *logger.Logger) (llm.Provider, error) {
	if cfg.LLM == nil {
		return nil, nil
	}
	p, err := llm.NewProvider(ctx, *cfg.LLM, events, log)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	return p, nil
}
