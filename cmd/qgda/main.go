package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qgda/qgda/internal/config"
	"github.com/qgda/qgda/internal/logging"
)

var (
	version = "dev"     // Injected via ldflags during build
	commit  = "unknown" // Injected via ldflags during build
	date    = "unknown" // Injected via ldflags during build
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "qgda",
		Short: "Data tools for quasi-geostrophic assimilation experiments",
		Long: `qgda prepares and inspects the data of twin experiments with the
quasi-geostrophic model: it subsamples high-resolution runs, summarises
series statistics, renders field animations and reads statistics archives.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Path to configuration file")
	rootCmd.PersistentFlags().Int("run", 0, "Run number substituted for {run} in dataset paths")

	rootCmd.AddCommand(
		newVersionCmd(),
		newSubsampleCmd(),
		newStatsCmd(),
		newRenderCmd(),
		newArchiveCmd(),
	)
	return rootCmd
}

// setup loads the configuration named by --config and builds the logger.
func setup(cmd *cobra.Command) (*config.Config, *logging.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.SetGlobal(logger)
	return cfg, logger, nil
}

// stringFlag returns the flag value, or def when the flag was not set.
func stringFlag(cmd *cobra.Command, name, def string) string {
	if !cmd.Flags().Changed(name) {
		return def
	}
	v, _ := cmd.Flags().GetString(name)
	return v
}

// intFlag returns the flag value, or def when the flag was not set.
func intFlag(cmd *cobra.Command, name string, def int) int {
	if !cmd.Flags().Changed(name) {
		return def
	}
	v, _ := cmd.Flags().GetInt(name)
	return v
}
