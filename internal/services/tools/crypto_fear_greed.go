package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/formatting"
)

const defaultAlternativeBaseURL = "https://api.alternative.me"

// CryptoFearGreedTool returns the crypto Fear & Greed index from
// alternative.me, newest first.
type CryptoFearGreedTool struct {
	fetch   domain.FetchService
	baseURL string
}

func NewCryptoFearGreedTool(fetch domain.FetchService, baseURL string) *CryptoFearGreedTool {
	if baseURL == "" {
		baseURL = defaultAlternativeBaseURL
	}
	return &CryptoFearGreedTool{fetch: fetch, baseURL: baseURL}
}

func (t *CryptoFearGreedTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "get_crypto_fear_greed_index",
		Description: "Get the crypto market Fear & Greed index as CSV, one row per day, newest first.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"days": map[string]any{
					"type":        "integer",
					"minimum":     1,
					"maximum":     365,
					"default":     7,
					"description": "Number of daily readings to return",
				},
			},
		},
		Output: map[string]any{
			"type":        "string",
			"description": "CSV with Date,Value,Classification columns",
		},
	}
}

func (t *CryptoFearGreedTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	days := intArg(args, "days", 7)

	body, err := t.fetch.FetchJSON(ctx, fmt.Sprintf("%s/fng/?limit=%d", t.baseURL, days), nil)
	if err != nil {
		return nil, err
	}

	entries := gjson.GetBytes(body, "data").Array()
	if len(entries) == 0 {
		return nil, &domain.NoDataError{Entity: "crypto fear and greed index", Query: "alternative.me"}
	}

	table := formatting.NewTable("Date", "Value", "Classification")
	for _, e := range entries {
		table.AddRow(
			time.Unix(e.Get("timestamp").Int(), 0).UTC().Format("2006-01-02"),
			e.Get("value").String(),
			e.Get("value_classification").String(),
		)
	}
	return formatting.ToCleanCSV(table), nil
}
