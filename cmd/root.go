package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/investor-agent/investor-mcp/config"
	"github.com/investor-agent/investor-mcp/internal/logger"
)

var (
	configPath string
	debugFlag  bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "investor-mcp",
	Short: "MCP server for financial market data",
	Long: `investor-mcp exposes financial market data to MCP clients: price
history, options chains, fundamentals, insider and institutional
activity, market movers, sentiment indexes, intraday bars, and
technical indicators.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if debugFlag {
			cfg.Logging.Debug = true
		}
		logger.Init(cfg.Logging.Debug)
		return nil
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
}
