package tools

import (
	"context"
	"time"

	"github.com/tidwall/gjson"

	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/formatting"
	"github.com/investor-agent/investor-mcp/internal/validation"
)

const defaultNasdaqBaseURL = "https://api.nasdaq.com"

// nasdaqHeaders mimics a browser; the calendar API rejects requests
// without them.
var nasdaqHeaders = map[string]string{
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "en-US,en;q=0.9",
	"Origin":          "https://www.nasdaq.com",
	"Referer":         "https://www.nasdaq.com/",
}

// EarningsCalendarTool returns the Nasdaq earnings calendar for a date.
type EarningsCalendarTool struct {
	fetch   domain.FetchService
	baseURL string
	timeNow func() time.Time
}

func NewEarningsCalendarTool(fetch domain.FetchService, baseURL string) *EarningsCalendarTool {
	if baseURL == "" {
		baseURL = defaultNasdaqBaseURL
	}
	return &EarningsCalendarTool{fetch: fetch, baseURL: baseURL, timeNow: time.Now}
}

func (t *EarningsCalendarTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "get_nasdaq_earnings_calendar",
		Description: "Get the Nasdaq earnings calendar for a date as CSV: which companies report, consensus EPS forecast, and number of estimates.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"date": map[string]any{
					"type":        "string",
					"description": "Calendar date as YYYY-MM-DD, defaults to today",
				},
			},
		},
		Output: map[string]any{
			"type":        "string",
			"description": "CSV of scheduled earnings reports",
		},
	}
}

func (t *EarningsCalendarTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	date := stringArg(args, "date", "")
	if date == "" {
		date = t.timeNow().UTC().Format("2006-01-02")
	} else if _, err := validation.Date(date); err != nil {
		return nil, err
	}

	body, err := t.fetch.FetchJSON(ctx, t.baseURL+"/api/calendar/earnings?date="+date, nasdaqHeaders)
	if err != nil {
		return nil, err
	}

	rows := gjson.GetBytes(body, "data.rows").Array()
	if len(rows) == 0 {
		return nil, &domain.NoDataError{Entity: date, Query: "earnings calendar"}
	}

	table := formatting.NewTable("Symbol", "Name", "Time", "EPSForecast", "NumEstimates", "LastYearEPS", "FiscalQuarterEnding", "MarketCap")
	for _, r := range rows {
		table.AddRow(
			r.Get("symbol").String(),
			r.Get("name").String(),
			r.Get("time").String(),
			r.Get("epsForecast").String(),
			r.Get("noOfEsts").String(),
			r.Get("lastYearEPS").String(),
			r.Get("fiscalQuarterEnding").String(),
			r.Get("marketCap").String(),
		)
	}
	return formatting.ToCleanCSV(table), nil
}
