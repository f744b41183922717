package tools

import (
	"context"
	"errors"
	"strings"

	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/formatting"
)

var errNotStubbed = errors.New("not stubbed")

// stubMarket implements domain.MarketDataService with per-method function
// fields; unset methods fail loudly.
type stubMarket struct {
	history            func(ctx context.Context, ticker, period, interval string) (*formatting.Table, error)
	companyInfo        func(ctx context.Context, ticker string) (map[string]any, error)
	calendar           func(ctx context.Context, ticker string) ([]domain.CalendarEvent, error)
	news               func(ctx context.Context, ticker string, limit int) ([]domain.NewsItem, error)
	recommendations    func(ctx context.Context, ticker string) (*formatting.Table, error)
	upgradesDowngrades func(ctx context.Context, ticker string) (*formatting.Table, error)
	optionExpirations  func(ctx context.Context, ticker string) ([]string, error)
	optionChain        func(ctx context.Context, ticker, expiry string, optType domain.OptionType) (*formatting.Table, error)
	financialStatement func(ctx context.Context, ticker string, stmt domain.StatementType, quarterly bool) (*formatting.Table, error)
	earningsHistory    func(ctx context.Context, ticker string) (*formatting.Table, error)
	insiderTxns        func(ctx context.Context, ticker string) (*formatting.Table, error)
	institutional      func(ctx context.Context, ticker string) (*formatting.Table, error)
	mutualFunds        func(ctx context.Context, ticker string) (*formatting.Table, error)
	marketMovers       func(ctx context.Context, category domain.MoversCategory, session domain.MarketSession, count int) (*formatting.Table, error)
}

var _ domain.MarketDataService = (*stubMarket)(nil)

func (s *stubMarket) History(ctx context.Context, ticker, period, interval string) (*formatting.Table, error) {
	if s.history == nil {
		return nil, errNotStubbed
	}
	return s.history(ctx, ticker, period, interval)
}

func (s *stubMarket) CompanyInfo(ctx context.Context, ticker string) (map[string]any, error) {
	if s.companyInfo == nil {
		return nil, errNotStubbed
	}
	return s.companyInfo(ctx, ticker)
}

func (s *stubMarket) Calendar(ctx context.Context, ticker string) ([]domain.CalendarEvent, error) {
	if s.calendar == nil {
		return nil, errNotStubbed
	}
	return s.calendar(ctx, ticker)
}

func (s *stubMarket) News(ctx context.Context, ticker string, limit int) ([]domain.NewsItem, error) {
	if s.news == nil {
		return nil, errNotStubbed
	}
	return s.news(ctx, ticker, limit)
}

func (s *stubMarket) Recommendations(ctx context.Context, ticker string) (*formatting.Table, error) {
	if s.recommendations == nil {
		return nil, errNotStubbed
	}
	return s.recommendations(ctx, ticker)
}

func (s *stubMarket) UpgradesDowngrades(ctx context.Context, ticker string) (*formatting.Table, error) {
	if s.upgradesDowngrades == nil {
		return nil, errNotStubbed
	}
	return s.upgradesDowngrades(ctx, ticker)
}

func (s *stubMarket) OptionExpirations(ctx context.Context, ticker string) ([]string, error) {
	if s.optionExpirations == nil {
		return nil, errNotStubbed
	}
	return s.optionExpirations(ctx, ticker)
}

func (s *stubMarket) OptionChain(ctx context.Context, ticker, expiry string, optType domain.OptionType) (*formatting.Table, error) {
	if s.optionChain == nil {
		return nil, errNotStubbed
	}
	return s.optionChain(ctx, ticker, expiry, optType)
}

func (s *stubMarket) FinancialStatement(ctx context.Context, ticker string, stmt domain.StatementType, quarterly bool) (*formatting.Table, error) {
	if s.financialStatement == nil {
		return nil, errNotStubbed
	}
	return s.financialStatement(ctx, ticker, stmt, quarterly)
}

func (s *stubMarket) EarningsHistory(ctx context.Context, ticker string) (*formatting.Table, error) {
	if s.earningsHistory == nil {
		return nil, errNotStubbed
	}
	return s.earningsHistory(ctx, ticker)
}

func (s *stubMarket) InsiderTransactions(ctx context.Context, ticker string) (*formatting.Table, error) {
	if s.insiderTxns == nil {
		return nil, errNotStubbed
	}
	return s.insiderTxns(ctx, ticker)
}

func (s *stubMarket) InstitutionalHolders(ctx context.Context, ticker string) (*formatting.Table, error) {
	if s.institutional == nil {
		return nil, errNotStubbed
	}
	return s.institutional(ctx, ticker)
}

func (s *stubMarket) MutualFundHolders(ctx context.Context, ticker string) (*formatting.Table, error) {
	if s.mutualFunds == nil {
		return nil, errNotStubbed
	}
	return s.mutualFunds(ctx, ticker)
}

func (s *stubMarket) MarketMovers(ctx context.Context, category domain.MoversCategory, session domain.MarketSession, count int) (*formatting.Table, error) {
	if s.marketMovers == nil {
		return nil, errNotStubbed
	}
	return s.marketMovers(ctx, category, session, count)
}

// stubFetch returns canned bodies per URL substring.
type stubFetch struct {
	responses map[string]string
	err       error
}

var _ domain.FetchService = (*stubFetch)(nil)

func (s *stubFetch) FetchJSON(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	for substr, body := range s.responses {
		if substr == "" || strings.Contains(url, substr) {
			return []byte(body), nil
		}
	}
	return nil, errNotStubbed
}

func (s *stubFetch) FetchText(ctx context.Context, url string, headers map[string]string) (string, error) {
	body, err := s.FetchJSON(ctx, url, headers)
	return string(body), err
}

func sampleHistory() *formatting.Table {
	t := formatting.NewTable("Date", "Open", "High", "Low", "Close", "Volume")
	t.AddRow("2025-01-02", 100.0, 102.0, 99.5, 101.5, 1200000.0)
	t.AddRow("2025-01-03", 101.5, 103.0, 100.75, 102.25, 980000.0)
	return t
}
