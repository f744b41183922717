package tools

import (
	"context"

	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/formatting"
	"github.com/investor-agent/investor-mcp/internal/validation"
)

// EarningsHistoryTool returns past EPS estimates, actuals, and surprises.
type EarningsHistoryTool struct {
	market domain.MarketDataService
}

func NewEarningsHistoryTool(market domain.MarketDataService) *EarningsHistoryTool {
	return &EarningsHistoryTool{market: market}
}

func (t *EarningsHistoryTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "get_earnings_history",
		Description: "Get quarterly earnings history for a ticker as CSV: EPS estimate, actual, difference, and surprise percentage.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ticker": map[string]any{
					"type":        "string",
					"description": "Stock ticker symbol, e.g. AAPL",
				},
				"max_entries": map[string]any{
					"type":    "integer",
					"minimum": 1,
					"default": 8,
				},
			},
			"required": []any{"ticker"},
		},
		Output: map[string]any{
			"type":        "string",
			"description": "CSV of quarterly earnings results",
		},
	}
}

func (t *EarningsHistoryTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	ticker, err := validation.Ticker(stringArg(args, "ticker", ""))
	if err != nil {
		return nil, err
	}
	maxEntries := intArg(args, "max_entries", 8)

	table, err := t.market.EarningsHistory(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if table.IsEmpty() {
		return nil, &domain.NoDataError{Entity: ticker, Query: "earnings history"}
	}
	return formatting.ToCleanCSV(table.Head(maxEntries)), nil
}
