package tools

import (
	"context"

	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/formatting"
	"github.com/investor-agent/investor-mcp/internal/validation"
)

// InsiderTradesTool returns recent reportable insider transactions.
type InsiderTradesTool struct {
	market domain.MarketDataService
}

func NewInsiderTradesTool(market domain.MarketDataService) *InsiderTradesTool {
	return &InsiderTradesTool{market: market}
}

func (t *InsiderTradesTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "get_insider_trades",
		Description: "Get recent insider trading activity for a ticker as CSV: who traded, their relation to the company, and how many shares.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ticker": map[string]any{
					"type":        "string",
					"description": "Stock ticker symbol, e.g. AAPL",
				},
				"max_trades": map[string]any{
					"type":    "integer",
					"minimum": 1,
					"default": 20,
				},
			},
			"required": []any{"ticker"},
		},
		Output: map[string]any{
			"type":        "string",
			"description": "CSV of insider transactions",
		},
	}
}

func (t *InsiderTradesTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	ticker, err := validation.Ticker(stringArg(args, "ticker", ""))
	if err != nil {
		return nil, err
	}
	maxTrades := intArg(args, "max_trades", 20)

	table, err := t.market.InsiderTransactions(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if table.IsEmpty() {
		return nil, &domain.NoDataError{Entity: ticker, Query: "insider transactions"}
	}
	return formatting.ToCleanCSV(table.Head(maxTrades)), nil
}
