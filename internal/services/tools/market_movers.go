package tools

import (
	"context"

	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/formatting"
)

// MarketMoversTool returns the day's top gainers, losers, or most active
// stocks. Session selection applies to the most-active screen only.
type MarketMoversTool struct {
	market domain.MarketDataService
}

func NewMarketMoversTool(market domain.MarketDataService) *MarketMoversTool {
	return &MarketMoversTool{market: market}
}

func (t *MarketMoversTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "get_market_movers",
		Description: "Get today's top market movers as CSV: biggest gainers, biggest losers, or most active stocks. Most-active supports pre-market and after-hours sessions.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"category": map[string]any{
					"type":        "string",
					"enum":        []any{"gainers", "losers", "most-active"},
					"default":     "most-active",
					"description": "Which movers screen to return",
				},
				"count": map[string]any{
					"type":    "integer",
					"minimum": 1,
					"maximum": 100,
					"default": 25,
				},
				"market_session": map[string]any{
					"type":        "string",
					"enum":        []any{"regular", "pre-market", "after-hours"},
					"default":     "regular",
					"description": "Trading session, applies to most-active only",
				},
			},
		},
		Output: map[string]any{
			"type":        "string",
			"description": "CSV of symbols with price, change percentage, and volume",
		},
	}
}

func (t *MarketMoversTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	category := domain.MoversCategory(stringArg(args, "category", "most-active"))
	session := domain.MarketSession(stringArg(args, "market_session", "regular"))
	count := intArg(args, "count", 25)

	table, err := t.market.MarketMovers(ctx, category, session, count)
	if err != nil {
		return nil, err
	}
	return formatting.ToCleanCSV(table), nil
}
