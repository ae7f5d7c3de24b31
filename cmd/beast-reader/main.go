// Package main provides the beast-reader command line and server.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/beast-reader/internal/config"
	"github.com/yourusername/beast-reader/internal/logger"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	logLevel   string
	cfg        *config.Config
	appLog     *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(
		serveCmd,
		classifyCmd,
		totalCmd,
		grandTotalCmd,
		quickPickCmd,
		roundDownCmd,
		ocrCmd,
		ticketCmd,
		tracksCmd,
		versionCmd,
	)
}

var rootCmd = &cobra.Command{
	Use:   "beast-reader",
	Short: "Lottery ticket entry, pricing and printing",
	Long: `Beast Reader prices lottery plays across USA and Santo Domingo tracks,
reads plays from ticket photos, and prints tickets with a QR code.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.ReloadFromEnv(cfg); err != nil {
			return fmt.Errorf("failed to reload configuration: %w", err)
		}
		if logLevel != "" {
			cfg.App.LogLevel = logLevel
		}
		appLog = logger.NewLoggerWithOutput(cfg.App.LogLevel, os.Stderr)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "beast-reader %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
