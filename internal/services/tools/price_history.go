package tools

import (
	"context"

	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/formatting"
	"github.com/investor-agent/investor-mcp/internal/validation"
)

var historyPeriods = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}

// PriceHistoryTool returns historical OHLCV bars as CSV. Long ranges
// switch to monthly bars to keep the payload small.
type PriceHistoryTool struct {
	market domain.MarketDataService
}

func NewPriceHistoryTool(market domain.MarketDataService) *PriceHistoryTool {
	return &PriceHistoryTool{market: market}
}

func (t *PriceHistoryTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "get_price_history",
		Description: "Get historical OHLCV price data for a ticker as CSV. Daily bars for short periods, monthly bars for 2y and longer.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ticker": map[string]any{
					"type":        "string",
					"description": "Stock ticker symbol, e.g. AAPL",
				},
				"period": map[string]any{
					"type":        "string",
					"enum":        historyPeriods,
					"default":     "1mo",
					"description": "Range of history to return",
				},
			},
			"required": []any{"ticker"},
		},
		Output: map[string]any{
			"type":        "string",
			"description": "CSV with Date,Open,High,Low,Close,Volume columns",
		},
	}
}

func (t *PriceHistoryTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	ticker, err := validation.Ticker(stringArg(args, "ticker", ""))
	if err != nil {
		return nil, err
	}
	period := stringArg(args, "period", "1mo")

	interval := "1d"
	switch period {
	case "2y", "5y", "10y", "max":
		interval = "1mo"
	}

	table, err := t.market.History(ctx, ticker, period, interval)
	if err != nil {
		return nil, err
	}
	if table.IsEmpty() {
		return nil, &domain.NoDataError{Entity: ticker, Query: "price history for " + period}
	}
	return formatting.ToCleanCSV(table), nil
}
