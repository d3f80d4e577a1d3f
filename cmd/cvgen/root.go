package main

import (
	"io"
	"log/slog"

	"github.com/mycv/cvgen/internal/config"
	"github.com/mycv/cvgen/internal/logging"
	"github.com/spf13/cobra"
)

// app carries the state shared by all subcommands once the root pre-run has loaded it.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
	verbose   bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "cvgen",
		Short:         "CV document generator",
		Long:          "cvgen renders CVs from stored profiles through typst templates, either over a REST API or directly from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.load()
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if a.logCloser != nil {
				return a.logCloser.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Print formatted summaries of each step")

	root.AddCommand(
		newServeCmd(a),
		newGenerateCmd(a),
		newStylesCmd(a),
		newImportCmd(a),
		newMigrateCmd(a),
		newTokenCmd(a),
	)
	return root
}

// load reads .env and the environment, then builds the logger.
func (a *app) load() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	a.cfg = cfg
	a.logger = logger
	a.logCloser = closer
	return nil
}
