package cmd

import (
	"github.com/spf13/cobra"

	"github.com/investor-agent/investor-mcp/internal/mcp"
	"github.com/investor-agent/investor-mcp/internal/services"
	"github.com/investor-agent/investor-mcp/internal/services/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := buildRegistry()
		server := mcp.NewServer(cfg.Server, registry)
		return server.Serve()
	},
}

// buildRegistry wires the provider clients and registers every tool.
func buildRegistry() *tools.Registry {
	fetch := services.NewFetchService(cfg)
	market := services.NewYahooService(fetch, "")
	bars := services.NewAlpacaService(fetch, cfg.Alpaca)
	indicators := services.NewIndicatorService()

	registry := tools.NewRegistry()
	registry.MustRegister(
		tools.NewPriceHistoryTool(market),
		tools.NewOptionsTool(market),
		tools.NewTickerDataTool(market),
		tools.NewFinancialStatementsTool(market),
		tools.NewEarningsHistoryTool(market),
		tools.NewInsiderTradesTool(market),
		tools.NewInstitutionalHoldersTool(market),
		tools.NewMarketMoversTool(market),
		tools.NewEarningsCalendarTool(fetch, ""),
		tools.NewCNNFearGreedTool(fetch, ""),
		tools.NewCryptoFearGreedTool(fetch, ""),
		tools.NewIntradayDataTool(bars),
		tools.NewTechnicalIndicatorTool(market, indicators),
	)
	return registry
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
