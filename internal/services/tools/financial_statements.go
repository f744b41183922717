package tools

import (
	"context"

	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/formatting"
	"github.com/investor-agent/investor-mcp/internal/validation"
)

// FinancialStatementsTool returns an income, balance sheet, or cash flow
// statement as CSV, one column per reporting period.
type FinancialStatementsTool struct {
	market domain.MarketDataService
}

func NewFinancialStatementsTool(market domain.MarketDataService) *FinancialStatementsTool {
	return &FinancialStatementsTool{market: market}
}

func (t *FinancialStatementsTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "get_financial_statements",
		Description: "Get financial statements for a ticker as CSV. Values are reported in the filing currency, one column per period.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ticker": map[string]any{
					"type":        "string",
					"description": "Stock ticker symbol, e.g. AAPL",
				},
				"statement_type": map[string]any{
					"type":        "string",
					"enum":        []any{"income", "balance", "cash"},
					"default":     "income",
					"description": "Which statement to return",
				},
				"frequency": map[string]any{
					"type":        "string",
					"enum":        []any{"quarterly", "annual"},
					"default":     "quarterly",
					"description": "Reporting frequency",
				},
			},
			"required": []any{"ticker"},
		},
		Output: map[string]any{
			"type":        "string",
			"description": "CSV with a Metric column plus one column per period",
		},
	}
}

func (t *FinancialStatementsTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	ticker, err := validation.Ticker(stringArg(args, "ticker", ""))
	if err != nil {
		return nil, err
	}
	stmt := domain.StatementType(stringArg(args, "statement_type", "income"))
	quarterly := stringArg(args, "frequency", "quarterly") == "quarterly"

	table, err := t.market.FinancialStatement(ctx, ticker, stmt, quarterly)
	if err != nil {
		return nil, err
	}
	return formatting.ToCleanCSV(table), nil
}
