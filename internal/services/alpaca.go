package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/investor-agent/investor-mcp/config"
	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/formatting"
	"github.com/investor-agent/investor-mcp/internal/logger"
)

// AlpacaService implements domain.BarsService against the Alpaca market
// data API. It is credential-gated: without an API key pair every call
// reports the dependency as unavailable instead of failing the process.
type AlpacaService struct {
	fetch   domain.FetchService
	cfg     config.AlpacaConfig
	timeNow func() time.Time
}

// NewAlpacaService creates the intraday bars client.
func NewAlpacaService(fetch domain.FetchService, cfg config.AlpacaConfig) *AlpacaService {
	return &AlpacaService{fetch: fetch, cfg: cfg, timeNow: time.Now}
}

var _ domain.BarsService = (*AlpacaService)(nil)

// IntradayBars implements domain.BarsService. Bars are 15-minute, covering
// roughly the last five trading days, oldest first.
func (a *AlpacaService) IntradayBars(ctx context.Context, symbol string, limit int) (*formatting.Table, error) {
	if a.cfg.APIKey == "" || a.cfg.APISecret == "" {
		return nil, &domain.DependencyUnavailableError{
			Dependency: "alpaca",
			Hint:       "set ALPACA_API_KEY and ALPACA_API_SECRET to enable intraday data",
		}
	}

	start := a.timeNow().UTC().AddDate(0, 0, -7).Format(time.RFC3339)
	u := fmt.Sprintf("%s/v2/stocks/%s/bars?timeframe=15Min&start=%s&limit=%d&adjustment=raw&feed=iex",
		a.cfg.BaseURL, url.PathEscape(symbol), url.QueryEscape(start), limit)

	headers := map[string]string{
		"APCA-API-KEY-ID":     a.cfg.APIKey,
		"APCA-API-SECRET-KEY": a.cfg.APISecret,
	}

	body, err := a.fetch.FetchJSON(ctx, u, headers)
	if err != nil {
		return nil, err
	}

	bars := gjson.GetBytes(body, "bars").Array()
	if len(bars) == 0 {
		return nil, &domain.NoDataError{Entity: symbol, Query: "intraday bars"}
	}

	table := formatting.NewTable("Timestamp", "Open", "High", "Low", "Close", "Volume", "TradeCount", "VWAP")
	for _, b := range bars {
		table.AddRow(
			b.Get("t").String(),
			b.Get("o").Float(),
			b.Get("h").Float(),
			b.Get("l").Float(),
			b.Get("c").Float(),
			b.Get("v").Float(),
			b.Get("n").Float(),
			b.Get("vw").Float(),
		)
	}
	logger.Debug("Fetched intraday bars", "symbol", symbol, "count", table.Len())
	return table, nil
}
