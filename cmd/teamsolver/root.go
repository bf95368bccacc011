package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/teamsolver/internal/config"
	"github.com/katalvlaran/teamsolver/internal/logging"
	"github.com/katalvlaran/teamsolver/internal/store"
)

// app is the state shared by every subcommand once the root pre-run has
// loaded configuration and built the logger.
type app struct {
	configPath string
	dataDir    string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "teamsolver",
		Short: "Recommend trait-synergy team compositions",
		Long: `teamsolver searches a character roster for the teams that activate the
most valuable traits while covering tank and carry roles.

The search is an anytime branch-and-bound: it returns the best teams found
within the time budget, exact when it finishes early.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	pf.StringVar(&a.dataDir, "data-dir", "", "directory with champions/traits files (default: embedded data)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newSolveCmd(a),
		newServeCmd(a),
		newTraitsCmd(a),
		newChampionsCmd(a),
		newVariantsCmd(a),
	)

	return root
}

// init loads configuration, applies flag overrides and builds the logger.
func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dataDir != "" {
		cfg.Data.Dir = a.dataDir
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger

	return nil
}

// openStore loads the configured dataset.
func (a *app) openStore(opts ...store.Option) (*store.Store, error) {
	opts = append([]store.Option{store.WithLogger(a.logger)}, opts...)

	return store.New(a.cfg.Data.Dir, opts...)
}
