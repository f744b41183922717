package tools

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/formatting"
	"github.com/investor-agent/investor-mcp/internal/logger"
	"github.com/investor-agent/investor-mcp/internal/validation"
)

// TickerDataTool returns a composite report for one ticker: company info,
// upcoming events, news, analyst recommendations, and rating changes. The
// sections are fetched concurrently and a failed section degrades to an
// explanatory note instead of failing the report.
type TickerDataTool struct {
	market domain.MarketDataService
}

func NewTickerDataTool(market domain.MarketDataService) *TickerDataTool {
	return &TickerDataTool{market: market}
}

func (t *TickerDataTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "get_ticker_data",
		Description: "Get a comprehensive report for a ticker: company metrics, upcoming events, recent news, analyst recommendations, and upgrade/downgrade history.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ticker": map[string]any{
					"type":        "string",
					"description": "Stock ticker symbol, e.g. AAPL",
				},
				"max_news": map[string]any{
					"type":    "integer",
					"minimum": 1,
					"default": 5,
				},
				"max_recommendations": map[string]any{
					"type":    "integer",
					"minimum": 1,
					"default": 5,
				},
				"max_upgrades": map[string]any{
					"type":    "integer",
					"minimum": 1,
					"default": 5,
				},
			},
			"required": []any{"ticker"},
		},
		Output: map[string]any{
			"type":        "object",
			"description": "Report sections keyed by name; failed sections carry an error note",
		},
	}
}

func (t *TickerDataTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	ticker, err := validation.Ticker(stringArg(args, "ticker", ""))
	if err != nil {
		return nil, err
	}
	maxNews := intArg(args, "max_news", 5)
	maxRecs := intArg(args, "max_recommendations", 5)
	maxUpgrades := intArg(args, "max_upgrades", 5)

	var (
		info     map[string]any
		calendar []domain.CalendarEvent
		news     []domain.NewsItem
		recs     *formatting.Table
		upgrades *formatting.Table

		infoErr, calendarErr, newsErr, recsErr, upgradesErr error
	)

	p := pool.New().WithMaxGoroutines(5)
	p.Go(func() { info, infoErr = t.market.CompanyInfo(ctx, ticker) })
	p.Go(func() { calendar, calendarErr = t.market.Calendar(ctx, ticker) })
	p.Go(func() { news, newsErr = t.market.News(ctx, ticker, maxNews) })
	p.Go(func() { recs, recsErr = t.market.Recommendations(ctx, ticker) })
	p.Go(func() { upgrades, upgradesErr = t.market.UpgradesDowngrades(ctx, ticker) })
	p.Wait()

	if infoErr != nil {
		// Without the core metrics section there is no report to degrade.
		return nil, infoErr
	}

	report := map[string]any{
		"ticker": ticker,
		"info":   info,
	}
	addSection(report, "calendar", calendar, calendarErr)
	addSection(report, "news", news, newsErr)
	addTableSection(report, "recommendations", recs, maxRecs, recsErr)
	addTableSection(report, "upgrades_downgrades", upgrades, maxUpgrades, upgradesErr)
	return report, nil
}

func addSection(report map[string]any, name string, value any, err error) {
	if err != nil {
		logger.Debug("Report section unavailable", "section", name, "error", err)
		report[name+"_error"] = err.Error()
		return
	}
	report[name] = value
}

func addTableSection(report map[string]any, name string, table *formatting.Table, limit int, err error) {
	if err != nil {
		logger.Debug("Report section unavailable", "section", name, "error", err)
		report[name+"_error"] = err.Error()
		return
	}
	report[name] = formatting.ToCleanCSV(table.Head(limit))
}
