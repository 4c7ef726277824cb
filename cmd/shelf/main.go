package main

import (
	"fmt"
	"os"

	"github.com/denismitr/shelf/internal/config"
	"github.com/denismitr/shelf/internal/display"
	"github.com/denismitr/shelf/internal/logging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type flags struct {
	configPath string
	dataDir    string
	style      string
	logLevel   string
}

// app is what every subcommand needs once flags and config are resolved.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	format display.Formatter
}

func newRootCmd() *cobra.Command {
	var (
		f flags
		a app
	)

	rootCmd := &cobra.Command{
		Use:   "shelf",
		Short: "shelf - keep small catalogs in JSON files",
		Long: `shelf manages an inventory, a lending library, a to-do list and an agenda.

Each collection lives in one JSON file that is rewritten after every change.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("data-dir") {
				cfg.DataDir = f.dataDir
			}
			if cmd.Flags().Changed("style") {
				cfg.Style = f.style
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Logging.Level = f.logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			style, err := display.ParseStyle(cfg.Style)
			if err != nil {
				return err
			}

			logger, err := logging.NewLogger("shelf", cfg.Logging.Level)
			if err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}

			a = app{cfg: cfg, logger: logger, format: display.New(style)}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&f.configPath, "config", "c", "shelf.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&f.dataDir, "data-dir", "d", "", "Directory holding the JSON files (default from config)")
	rootCmd.PersistentFlags().StringVar(&f.style, "style", "", "Display style: plain, emoji or table")
	rootCmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(inventoryCmd(&a))
	rootCmd.AddCommand(libraryCmd(&a))
	rootCmd.AddCommand(tasksCmd(&a))
	rootCmd.AddCommand(agendaCmd(&a))

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
