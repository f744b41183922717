package tools

import (
	"context"

	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/formatting"
	"github.com/investor-agent/investor-mcp/internal/validation"
)

// IntradayDataTool returns recent 15-minute bars from the configured bars
// provider. Requires provider credentials; without them the tool reports
// the dependency as unavailable.
type IntradayDataTool struct {
	bars domain.BarsService
}

func NewIntradayDataTool(bars domain.BarsService) *IntradayDataTool {
	return &IntradayDataTool{bars: bars}
}

func (t *IntradayDataTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "fetch_intraday_data",
		Description: "Get recent 15-minute intraday bars for a symbol as CSV, oldest first. Requires Alpaca API credentials.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"symbol": map[string]any{
					"type":        "string",
					"description": "Stock ticker symbol, e.g. AAPL",
				},
				"limit": map[string]any{
					"type":    "integer",
					"minimum": 1,
					"maximum": 1000,
					"default": 100,
				},
			},
			"required": []any{"symbol"},
		},
		Output: map[string]any{
			"type":        "string",
			"description": "CSV of 15-minute OHLCV bars",
		},
	}
}

func (t *IntradayDataTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	symbol, err := validation.Ticker(stringArg(args, "symbol", ""))
	if err != nil {
		return nil, err
	}
	limit := intArg(args, "limit", 100)

	table, err := t.bars.IntradayBars(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	return formatting.ToCleanCSV(table), nil
}
