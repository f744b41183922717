package domain

import (
	"context"

	"github.com/investor-agent/investor-mcp/internal/formatting"
)

// StatementType selects one of the three financial statements.
type StatementType string

const (
	StatementIncome  StatementType = "income"
	StatementBalance StatementType = "balance"
	StatementCash    StatementType = "cash"
)

// MoversCategory selects a market-movers screen.
type MoversCategory string

const (
	MoversGainers    MoversCategory = "gainers"
	MoversLosers     MoversCategory = "losers"
	MoversMostActive MoversCategory = "most-active"
)

// MarketSession selects the trading session for most-active screens.
type MarketSession string

const (
	SessionRegular    MarketSession = "regular"
	SessionPreMarket  MarketSession = "pre-market"
	SessionAfterHours MarketSession = "after-hours"
)

// OptionType filters an options chain: calls, puts, or both when empty.
type OptionType string

const (
	OptionCall OptionType = "C"
	OptionPut  OptionType = "P"
)

// NewsItem is one headline attached to a ticker.
type NewsItem struct {
	Date   string `json:"date"`
	Title  string `json:"title"`
	Source string `json:"source"`
	URL    string `json:"url"`
}

// CalendarEvent is one upcoming corporate event (earnings date, dividend
// date) for a ticker.
type CalendarEvent struct {
	Event string `json:"event"`
	Value string `json:"value"`
}

// MarketDataService is the closed set of typed quote/fundamentals
// operations the tool plugins depend on. Each method corresponds to one
// provider endpoint; there is no dispatch-by-method-name.
type MarketDataService interface {
	// History returns daily or monthly OHLCV bars for the given range
	// keyword (1d, 5d, 1mo, ... max). The Date column is YYYY-MM-DD.
	History(ctx context.Context, ticker, period, interval string) (*formatting.Table, error)

	// CompanyInfo returns the essential valuation and profile metrics.
	CompanyInfo(ctx context.Context, ticker string) (map[string]any, error)

	// Calendar returns upcoming corporate events.
	Calendar(ctx context.Context, ticker string) ([]CalendarEvent, error)

	// News returns recent headlines, newest first.
	News(ctx context.Context, ticker string, limit int) ([]NewsItem, error)

	// Recommendations returns the analyst recommendation trend.
	Recommendations(ctx context.Context, ticker string) (*formatting.Table, error)

	// UpgradesDowngrades returns analyst rating changes, newest first.
	UpgradesDowngrades(ctx context.Context, ticker string) (*formatting.Table, error)

	// OptionExpirations returns the available expiry dates as YYYY-MM-DD.
	OptionExpirations(ctx context.Context, ticker string) ([]string, error)

	// OptionChain returns the contracts for one expiry, optionally
	// restricted to calls or puts.
	OptionChain(ctx context.Context, ticker, expiry string, optType OptionType) (*formatting.Table, error)

	// FinancialStatement returns one statement at annual or quarterly
	// frequency, one column per period.
	FinancialStatement(ctx context.Context, ticker string, stmt StatementType, quarterly bool) (*formatting.Table, error)

	// EarningsHistory returns past EPS estimates, actuals, and surprises.
	EarningsHistory(ctx context.Context, ticker string) (*formatting.Table, error)

	// InsiderTransactions returns recent reportable insider trades.
	InsiderTransactions(ctx context.Context, ticker string) (*formatting.Table, error)

	// InstitutionalHolders returns the major institutional positions.
	InstitutionalHolders(ctx context.Context, ticker string) (*formatting.Table, error)

	// MutualFundHolders returns the major mutual fund positions.
	MutualFundHolders(ctx context.Context, ticker string) (*formatting.Table, error)

	// MarketMovers returns a movers screen limited to count rows.
	MarketMovers(ctx context.Context, category MoversCategory, session MarketSession, count int) (*formatting.Table, error)
}

// BarsService provides high-resolution intraday bars. Implementations are
// credential-gated; a missing configuration surfaces as
// DependencyUnavailableError rather than a process failure.
type BarsService interface {
	IntradayBars(ctx context.Context, symbol string, limit int) (*formatting.Table, error)
}

// FetchService is the retrying, caching HTTP fetch layer shared by tools
// that talk to public JSON/HTML endpoints directly.
type FetchService interface {
	FetchJSON(ctx context.Context, url string, headers map[string]string) ([]byte, error)
	FetchText(ctx context.Context, url string, headers map[string]string) (string, error)
}
