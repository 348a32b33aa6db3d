package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sales-insights/internal/config"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfg *config.Config

	configPath string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:     "sales-insights",
	Short:   "Clean a raw sales table and report insights",
	Long:    "Loads a raw sales table from a local file, FTP or HTTP, maps its headers to canonical columns, cleans and enriches the rows, and writes the cleaned dataset plus a short insights report.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("log-level") {
			c.Log.Level = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			c.Log.Format = logFormat
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format override (json or console)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
