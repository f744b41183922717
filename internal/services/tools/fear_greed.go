package tools

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/investor-agent/investor-mcp/internal/domain"
)

const defaultCNNBaseURL = "https://production.dataviz.cnn.io"

// cnnIndicators are the component keys of the CNN Fear & Greed payload.
var cnnIndicators = []string{
	"fear_and_greed",
	"fear_and_greed_historical",
	"market_momentum_sp500",
	"market_momentum_sp125",
	"stock_price_strength",
	"stock_price_breadth",
	"put_call_options",
	"market_volatility_vix",
	"market_volatility_vix_50",
	"junk_bond_demand",
	"safe_haven_demand",
}

// CNNFearGreedTool returns the CNN Fear & Greed index and its component
// indicators. The bulky per-day history arrays are stripped so only the
// current readings remain.
type CNNFearGreedTool struct {
	fetch   domain.FetchService
	baseURL string
}

func NewCNNFearGreedTool(fetch domain.FetchService, baseURL string) *CNNFearGreedTool {
	if baseURL == "" {
		baseURL = defaultCNNBaseURL
	}
	return &CNNFearGreedTool{fetch: fetch, baseURL: baseURL}
}

func (t *CNNFearGreedTool) Definition() domain.ToolDefinition {
	return domain.ToolDefinition{
		Name:        "get_cnn_fear_greed_index",
		Description: "Get the current CNN Fear & Greed index score, rating, and component indicators for the US stock market.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"indicators": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string", "enum": toAnySlice(cnnIndicators)},
					"description": "Restrict the response to these component indicators; omit for all",
				},
			},
		},
		Output: map[string]any{
			"type":        "object",
			"description": "Current score and rating per indicator",
		},
	}
}

func (t *CNNFearGreedTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	requested, err := indicatorFilter(args)
	if err != nil {
		return nil, err
	}

	body, err := t.fetch.FetchJSON(ctx, t.baseURL+"/index/fearandgreed/graphdata", map[string]string{
		"Accept":  "application/json",
		"Referer": "https://www.cnn.com/markets/fear-and-greed",
	})
	if err != nil {
		return nil, err
	}

	result := map[string]any{}
	gjson.ParseBytes(body).ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if requested != nil && !requested[name] {
			return true
		}
		if value.IsObject() {
			result[name] = stripSeries(value)
		}
		return true
	})
	if len(result) == 0 {
		return nil, &domain.NoDataError{Entity: "fear and greed index", Query: "cnn"}
	}
	return result, nil
}

// stripSeries copies an indicator object without its historical data array.
func stripSeries(obj gjson.Result) map[string]any {
	out := map[string]any{}
	obj.ForEach(func(key, value gjson.Result) bool {
		if key.String() == "data" {
			return true
		}
		out[key.String()] = value.Value()
		return true
	})
	return out
}

func indicatorFilter(args map[string]any) (map[string]bool, error) {
	raw, ok := args["indicators"].([]any)
	if !ok || len(raw) == 0 {
		return nil, nil
	}
	filter := map[string]bool{}
	for _, v := range raw {
		name, ok := v.(string)
		if !ok {
			return nil, domain.NewInvalidArgument("indicators must be strings, got %T", v)
		}
		name = strings.TrimSpace(name)
		if !isKnownIndicator(name) {
			return nil, domain.NewInvalidArgument(
				"unknown indicator %q, valid indicators: %s", name, strings.Join(cnnIndicators, ", "))
		}
		filter[name] = true
	}
	return filter, nil
}

func isKnownIndicator(name string) bool {
	for _, known := range cnnIndicators {
		if known == name {
			return true
		}
	}
	return false
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
