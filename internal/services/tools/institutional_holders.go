package tools

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/formatting"
	"github.com/investor-agent/investor-mcp/internal/logger"
	"github.com/investor-agent/investor-mcp/internal/validation"
)

// InstitutionalHoldersTool returns the major institutional and mutual fund
// positions. The two sections are fetched concurrently; if only one is
// available the result degrades to that section instead of failing.
type InstitutionalHoldersTool struct {
	market domain.MarketDataService
}

func NewInstitutionalHoldersTool(market domain.MarketDataService) *InstitutionalHoldersTool {
	return &InstitutionalHoldersTool{market: market}
}

func (t *InstitutionalHoldersTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "get_institutional_holders",
		Description: "Get the top institutional and mutual fund holders for a ticker as CSV sections.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ticker": map[string]any{
					"type":        "string",
					"description": "Stock ticker symbol, e.g. AAPL",
				},
				"top_n": map[string]any{
					"type":    "integer",
					"minimum": 1,
					"default": 20,
				},
			},
			"required": []any{"ticker"},
		},
		Output: map[string]any{
			"type":        "object",
			"description": "institutional_holders and mutual_fund_holders CSV sections",
		},
	}
}

func (t *InstitutionalHoldersTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	ticker, err := validation.Ticker(stringArg(args, "ticker", ""))
	if err != nil {
		return nil, err
	}
	topN := intArg(args, "top_n", 20)

	var (
		institutional, funds       *formatting.Table
		institutionalErr, fundsErr error
	)
	p := pool.New().WithMaxGoroutines(2)
	p.Go(func() { institutional, institutionalErr = t.market.InstitutionalHolders(ctx, ticker) })
	p.Go(func() { funds, fundsErr = t.market.MutualFundHolders(ctx, ticker) })
	p.Wait()

	if institutionalErr != nil && fundsErr != nil {
		return nil, institutionalErr
	}
	if institutional.IsEmpty() && funds.IsEmpty() {
		return nil, &domain.NoDataError{Entity: ticker, Query: "institutional or mutual fund holders"}
	}

	result := map[string]any{"ticker": ticker}
	if institutionalErr != nil {
		logger.Debug("Institutional holders unavailable", "ticker", ticker, "error", institutionalErr)
		result["institutional_holders_error"] = institutionalErr.Error()
	} else if !institutional.IsEmpty() {
		result["institutional_holders"] = formatting.ToCleanCSV(institutional.Head(topN))
	}
	if fundsErr != nil {
		logger.Debug("Mutual fund holders unavailable", "ticker", ticker, "error", fundsErr)
		result["mutual_fund_holders_error"] = fundsErr.Error()
	} else if !funds.IsEmpty() {
		result["mutual_fund_holders"] = formatting.ToCleanCSV(funds.Head(topN))
	}
	return result, nil
}
