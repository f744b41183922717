package tools

import (
	"context"

	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/formatting"
	"github.com/investor-agent/investor-mcp/internal/validation"
)

// indicatorEngine computes a technical indicator over a price table.
type indicatorEngine interface {
	Compute(table *formatting.Table, name string, period int) (*formatting.Table, error)
}

// TechnicalIndicatorTool computes a technical indicator over daily closing
// prices and returns the most recent values.
type TechnicalIndicatorTool struct {
	market     domain.MarketDataService
	indicators indicatorEngine
}

func NewTechnicalIndicatorTool(market domain.MarketDataService, indicators indicatorEngine) *TechnicalIndicatorTool {
	return &TechnicalIndicatorTool{market: market, indicators: indicators}
}

func (t *TechnicalIndicatorTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "calculate_technical_indicator",
		Description: "Calculate a technical indicator (SMA, EMA, RSI, MACD, or Bollinger Bands) over daily closing prices and return the most recent values as CSV.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ticker": map[string]any{
					"type":        "string",
					"description": "Stock ticker symbol, e.g. AAPL",
				},
				"indicator": map[string]any{
					"type":        "string",
					"enum":        []any{"SMA", "EMA", "RSI", "MACD", "BBANDS"},
					"description": "Indicator to calculate",
				},
				"period": map[string]any{
					"type":        "integer",
					"minimum":     2,
					"default":     20,
					"description": "Lookback period; ignored for MACD which uses 12/26/9",
				},
				"num_results": map[string]any{
					"type":        "integer",
					"minimum":     1,
					"default":     20,
					"description": "Number of most recent rows to return",
				},
			},
			"required": []any{"ticker", "indicator"},
		},
		Output: map[string]any{
			"type":        "string",
			"description": "CSV with Date, Close, and indicator columns",
		},
	}
}

func (t *TechnicalIndicatorTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	ticker, err := validation.Ticker(stringArg(args, "ticker", ""))
	if err != nil {
		return nil, err
	}
	indicator := stringArg(args, "indicator", "")
	period := intArg(args, "period", 20)
	numResults := intArg(args, "num_results", 20)

	history, err := t.market.History(ctx, ticker, "1y", "1d")
	if err != nil {
		return nil, err
	}
	if history.IsEmpty() {
		return nil, &domain.NoDataError{Entity: ticker, Query: "price history"}
	}

	computed, err := t.indicators.Compute(history, indicator, period)
	if err != nil {
		return nil, err
	}

	if len(computed.Rows) > numResults {
		computed = &formatting.Table{
			Columns: computed.Columns,
			Rows:    computed.Rows[len(computed.Rows)-numResults:],
		}
	}
	return formatting.ToCleanCSV(computed), nil
}
