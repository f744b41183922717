package tools

import (
	"context"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/formatting"
	"github.com/investor-agent/investor-mcp/internal/logger"
	"github.com/investor-agent/investor-mcp/internal/validation"
)

// maxExpirationFetches bounds the concurrent provider calls one options
// request may fan out to.
const maxExpirationFetches = 4

// OptionsTool returns filtered option contracts across expiration dates.
// Chains for the matching expirations are fetched concurrently.
type OptionsTool struct {
	market domain.MarketDataService
}

func NewOptionsTool(market domain.MarketDataService) *OptionsTool {
	return &OptionsTool{market: market}
}

func (t *OptionsTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "get_options",
		Description: "Get option contracts for a ticker, optionally filtered by expiration date range, strike bounds, and option type. Sorted by open interest and volume descending.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ticker_symbol": map[string]any{
					"type":        "string",
					"description": "Stock ticker symbol, e.g. AAPL",
				},
				"num_options": map[string]any{
					"type":        "integer",
					"minimum":     1,
					"maximum":     1000,
					"default":     10,
					"description": "Maximum number of contracts to return",
				},
				"start_date": map[string]any{
					"type":        "string",
					"description": "Earliest expiration date, YYYY-MM-DD",
				},
				"end_date": map[string]any{
					"type":        "string",
					"description": "Latest expiration date, YYYY-MM-DD",
				},
				"strike_lower": map[string]any{
					"type":        "number",
					"description": "Minimum strike price",
				},
				"strike_upper": map[string]any{
					"type":        "number",
					"description": "Maximum strike price",
				},
				"option_type": map[string]any{
					"type":        "string",
					"enum":        []any{"C", "P"},
					"description": "C for calls, P for puts, omit for both",
				},
			},
			"required": []any{"ticker_symbol"},
		},
		Output: map[string]any{
			"type":        "string",
			"description": "CSV of option contracts",
		},
	}
}

func (t *OptionsTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	ticker, err := validation.Ticker(stringArg(args, "ticker_symbol", ""))
	if err != nil {
		return nil, err
	}
	startDate := stringArg(args, "start_date", "")
	endDate := stringArg(args, "end_date", "")
	if err := validation.DateRange(startDate, endDate); err != nil {
		return nil, err
	}
	numOptions := intArg(args, "num_options", 10)
	strikeLower := floatArgPtr(args, "strike_lower")
	strikeUpper := floatArgPtr(args, "strike_upper")
	optType := domain.OptionType(stringArg(args, "option_type", ""))

	expirations, err := t.market.OptionExpirations(ctx, ticker)
	if err != nil {
		return nil, err
	}

	var selected []string
	for _, exp := range expirations {
		if startDate != "" && exp < startDate {
			continue
		}
		if endDate != "" && exp > endDate {
			continue
		}
		selected = append(selected, exp)
	}
	if len(selected) == 0 {
		return nil, &domain.NoDataError{Entity: ticker, Query: "option expirations in the requested range"}
	}

	p := pool.NewWithResults[*formatting.Table]().WithContext(ctx).WithMaxGoroutines(maxExpirationFetches)
	for _, expiry := range selected {
		expiry := expiry
		p.Go(func(ctx context.Context) (*formatting.Table, error) {
			chain, err := t.market.OptionChain(ctx, ticker, expiry, optType)
			if err != nil {
				logger.Warn("Option chain fetch failed", "ticker", ticker, "expiry", expiry, "error", err)
				return nil, err
			}
			return withExpiration(chain, expiry), nil
		})
	}
	chains, err := p.Wait()
	if err != nil {
		return nil, err
	}

	merged := formatting.NewTable(chains[0].Columns...)
	for _, chain := range chains {
		merged.Rows = append(merged.Rows, chain.Rows...)
	}
	strikeIdx := merged.ColumnIndex("strike")
	oiIdx := merged.ColumnIndex("openInterest")
	volIdx := merged.ColumnIndex("volume")

	filtered := merged.Filter(func(row []any) bool {
		strike, ok := row[strikeIdx].(float64)
		if !ok {
			return false
		}
		if strikeLower != nil && strike < *strikeLower {
			return false
		}
		if strikeUpper != nil && strike > *strikeUpper {
			return false
		}
		return true
	})

	// Most liquid contracts first: open interest descending, volume as
	// the tiebreaker.
	sort.SliceStable(filtered.Rows, func(i, j int) bool {
		oi, oj := numericAt(filtered.Rows[i], oiIdx), numericAt(filtered.Rows[j], oiIdx)
		if oi != oj {
			return oi > oj
		}
		return numericAt(filtered.Rows[i], volIdx) > numericAt(filtered.Rows[j], volIdx)
	})

	return formatting.ToCleanCSV(filtered.Head(numOptions)), nil
}

func numericAt(row []any, idx int) float64 {
	if idx < 0 || idx >= len(row) {
		return 0
	}
	v, _ := row[idx].(float64)
	return v
}

// withExpiration prefixes every contract row with its expiration date so
// rows from different chains can be merged into one table.
func withExpiration(chain *formatting.Table, expiry string) *formatting.Table {
	out := formatting.NewTable(append([]string{"expiration"}, chain.Columns...)...)
	for _, row := range chain.Rows {
		out.Rows = append(out.Rows, append([]any{expiry}, row...))
	}
	return out
}
