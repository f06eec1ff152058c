// Package cmd wires configuration, persistence and the application services
// into the campodigital command line: migrate, demo and worker.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"campodigital/config"
	"campodigital/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	envFile    string

	// cfg is loaded once by the root command before any subcommand runs.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "campodigital",
	Short:         "CampoDigital marketplace data-access layer",
	Long:          "Operator commands for the CampoDigital store: schema migration, the purchase-flow demo and the outbox relay.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return boot()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ./config.yaml or ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading CAMPO_* variables")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(workerCmd)
}

// boot loads the optional dotenv file, the configuration and the logger.
func boot() error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&loaded.Log, loaded.App.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	cfg = loaded
	return nil
}

// Execute runs the root command. Leading args are prepended to the process
// arguments, so a dedicated binary can pin a subcommand.
func Execute(args ...string) {
	if len(args) > 0 {
		rootCmd.SetArgs(append(args, os.Args[1:]...))
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
