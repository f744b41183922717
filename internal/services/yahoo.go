package services

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/formatting"
	"github.com/investor-agent/investor-mcp/internal/logger"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// essentialInfoFields is the subset of profile/valuation metrics returned
// by CompanyInfo; everything else in the provider payload is noise for the
// calling agent.
var essentialInfoFields = []string{
	"symbol", "longName", "currentPrice", "marketCap", "volume",
	"trailingPE", "forwardPE", "dividendYield", "beta",
	"totalRevenue", "totalDebt", "profitMargins", "operatingMargins",
	"returnOnEquity", "returnOnAssets", "revenueGrowth", "earningsGrowth",
	"bookValue", "priceToBook", "enterpriseValue", "pegRatio",
	"trailingEps", "forwardEps",
}

// YahooService implements domain.MarketDataService against the public
// Yahoo Finance JSON endpoints, through the shared fetch layer.
type YahooService struct {
	fetch   domain.FetchService
	baseURL string
}

// NewYahooService creates the market-data client. baseURL is overridable
// for tests; empty selects the production endpoint.
func NewYahooService(fetch domain.FetchService, baseURL string) *YahooService {
	if baseURL == "" {
		baseURL = defaultYahooBaseURL
	}
	return &YahooService{fetch: fetch, baseURL: baseURL}
}

var _ domain.MarketDataService = (*YahooService)(nil)

// History implements domain.MarketDataService.
func (y *YahooService) History(ctx context.Context, ticker, period, interval string) (*formatting.Table, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		y.baseURL, url.PathEscape(ticker), url.QueryEscape(period), url.QueryEscape(interval))

	body, err := y.fetch.FetchJSON(ctx, u, nil)
	if err != nil {
		return nil, err
	}

	result := gjson.GetBytes(body, "chart.result.0")
	if !result.Exists() {
		return nil, &domain.NoDataError{Entity: ticker, Query: "price history"}
	}

	timestamps := result.Get("timestamp").Array()
	quote := result.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()

	if len(timestamps) == 0 {
		return nil, &domain.NoDataError{Entity: ticker, Query: "price history"}
	}

	table := formatting.NewTable("Date", "Open", "High", "Low", "Close", "Volume")
	for i, ts := range timestamps {
		table.AddRow(
			time.Unix(ts.Int(), 0).UTC().Format("2006-01-02"),
			numericCell(opens, i),
			numericCell(highs, i),
			numericCell(lows, i),
			numericCell(closes, i),
			numericCell(volumes, i),
		)
	}
	return table, nil
}

// CompanyInfo implements domain.MarketDataService.
func (y *YahooService) CompanyInfo(ctx context.Context, ticker string) (map[string]any, error) {
	result, err := y.quoteSummary(ctx, ticker, "price,summaryDetail,defaultKeyStatistics,financialData")
	if err != nil {
		return nil, err
	}

	flat := map[string]any{}
	flat["symbol"] = result.Get("price.symbol").String()
	flat["longName"] = result.Get("price.longName").String()
	for _, module := range []string{"price", "summaryDetail", "defaultKeyStatistics", "financialData"} {
		result.Get(module).ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			if !isEssentialField(name) {
				return true
			}
			if raw := value.Get("raw"); raw.Exists() {
				flat[name] = raw.Value()
			} else if value.Type != gjson.JSON {
				flat[name] = value.Value()
			}
			return true
		})
	}
	if price := result.Get("financialData.currentPrice.raw"); price.Exists() {
		flat["currentPrice"] = price.Value()
	}

	if len(flat) == 0 || flat["symbol"] == "" {
		return nil, &domain.NoDataError{Entity: ticker, Query: "company info"}
	}
	return flat, nil
}

func isEssentialField(name string) bool {
	for _, f := range essentialInfoFields {
		if f == name {
			return true
		}
	}
	return false
}

// Calendar implements domain.MarketDataService.
func (y *YahooService) Calendar(ctx context.Context, ticker string) ([]domain.CalendarEvent, error) {
	result, err := y.quoteSummary(ctx, ticker, "calendarEvents")
	if err != nil {
		return nil, err
	}

	var events []domain.CalendarEvent
	earnings := result.Get("calendarEvents.earnings.earningsDate")
	if earnings.Exists() {
		for _, d := range earnings.Array() {
			if f := d.Get("fmt"); f.Exists() {
				events = append(events, domain.CalendarEvent{Event: "Earnings Date", Value: f.String()})
			}
		}
	}
	for _, item := range []struct{ key, label string }{
		{"calendarEvents.exDividendDate.fmt", "Ex-Dividend Date"},
		{"calendarEvents.dividendDate.fmt", "Dividend Date"},
	} {
		if v := result.Get(item.key); v.Exists() {
			events = append(events, domain.CalendarEvent{Event: item.label, Value: v.String()})
		}
	}
	return events, nil
}

// News implements domain.MarketDataService.
func (y *YahooService) News(ctx context.Context, ticker string, limit int) ([]domain.NewsItem, error) {
	u := fmt.Sprintf("%s/v1/finance/search?q=%s&newsCount=%d&quotesCount=0",
		y.baseURL, url.QueryEscape(ticker), limit)

	body, err := y.fetch.FetchJSON(ctx, u, nil)
	if err != nil {
		return nil, err
	}

	var items []domain.NewsItem
	for _, n := range gjson.GetBytes(body, "news").Array() {
		date := ""
		if ts := n.Get("providerPublishTime"); ts.Exists() {
			date = time.Unix(ts.Int(), 0).UTC().Format("2006-01-02")
		}
		title := n.Get("title").String()
		if title == "" {
			title = "Untitled"
		}
		source := n.Get("publisher").String()
		if source == "" {
			source = "Unknown"
		}
		items = append(items, domain.NewsItem{
			Date:   date,
			Title:  title,
			Source: source,
			URL:    n.Get("link").String(),
		})
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

// Recommendations implements domain.MarketDataService.
func (y *YahooService) Recommendations(ctx context.Context, ticker string) (*formatting.Table, error) {
	result, err := y.quoteSummary(ctx, ticker, "recommendationTrend")
	if err != nil {
		return nil, err
	}

	table := formatting.NewTable("period", "strongBuy", "buy", "hold", "sell", "strongSell")
	for _, t := range result.Get("recommendationTrend.trend").Array() {
		table.AddRow(
			t.Get("period").String(),
			t.Get("strongBuy").Value(),
			t.Get("buy").Value(),
			t.Get("hold").Value(),
			t.Get("sell").Value(),
			t.Get("strongSell").Value(),
		)
	}
	return table, nil
}

// UpgradesDowngrades implements domain.MarketDataService.
func (y *YahooService) UpgradesDowngrades(ctx context.Context, ticker string) (*formatting.Table, error) {
	result, err := y.quoteSummary(ctx, ticker, "upgradeDowngradeHistory")
	if err != nil {
		return nil, err
	}

	history := result.Get("upgradeDowngradeHistory.history").Array()
	sort.Slice(history, func(i, j int) bool {
		return history[i].Get("epochGradeDate").Int() > history[j].Get("epochGradeDate").Int()
	})

	table := formatting.NewTable("GradeDate", "Firm", "ToGrade", "FromGrade", "Action")
	for _, h := range history {
		table.AddRow(
			time.Unix(h.Get("epochGradeDate").Int(), 0).UTC().Format("2006-01-02"),
			h.Get("firm").String(),
			h.Get("toGrade").String(),
			h.Get("fromGrade").String(),
			h.Get("action").String(),
		)
	}
	return table, nil
}

// OptionExpirations implements domain.MarketDataService.
func (y *YahooService) OptionExpirations(ctx context.Context, ticker string) ([]string, error) {
	u := fmt.Sprintf("%s/v7/finance/options/%s", y.baseURL, url.PathEscape(ticker))

	body, err := y.fetch.FetchJSON(ctx, u, nil)
	if err != nil {
		return nil, err
	}

	epochs := gjson.GetBytes(body, "optionChain.result.0.expirationDates").Array()
	if len(epochs) == 0 {
		return nil, &domain.NoDataError{Entity: ticker, Query: "option expirations"}
	}

	expirations := make([]string, 0, len(epochs))
	for _, e := range epochs {
		expirations = append(expirations, time.Unix(e.Int(), 0).UTC().Format("2006-01-02"))
	}
	return expirations, nil
}

// optionChainColumns is the canonical contract column set, matching the
// provider's per-contract fields.
var optionChainColumns = []string{
	"contractSymbol", "strike", "lastPrice", "bid", "ask", "change",
	"percentChange", "volume", "openInterest", "impliedVolatility",
	"inTheMoney", "type",
}

// OptionChain implements domain.MarketDataService.
func (y *YahooService) OptionChain(ctx context.Context, ticker, expiry string, optType domain.OptionType) (*formatting.Table, error) {
	expiryDate, err := time.Parse("2006-01-02", expiry)
	if err != nil {
		return nil, domain.NewInvalidArgument("invalid expiry date: %s", expiry)
	}

	u := fmt.Sprintf("%s/v7/finance/options/%s?date=%d",
		y.baseURL, url.PathEscape(ticker), expiryDate.Unix())

	body, err := y.fetch.FetchJSON(ctx, u, nil)
	if err != nil {
		return nil, err
	}

	options := gjson.GetBytes(body, "optionChain.result.0.options.0")
	if !options.Exists() {
		return nil, &domain.NoDataError{Entity: ticker, Query: "options for " + expiry}
	}

	table := formatting.NewTable(optionChainColumns...)
	if optType == "" || optType == domain.OptionCall {
		appendContracts(table, options.Get("calls"), "call")
	}
	if optType == "" || optType == domain.OptionPut {
		appendContracts(table, options.Get("puts"), "put")
	}
	return table, nil
}

func appendContracts(table *formatting.Table, contracts gjson.Result, kind string) {
	for _, c := range contracts.Array() {
		table.AddRow(
			c.Get("contractSymbol").String(),
			c.Get("strike").Float(),
			c.Get("lastPrice").Float(),
			c.Get("bid").Float(),
			c.Get("ask").Float(),
			c.Get("change").Float(),
			c.Get("percentChange").Float(),
			c.Get("volume").Float(),
			c.Get("openInterest").Float(),
			c.Get("impliedVolatility").Float(),
			c.Get("inTheMoney").Bool(),
			kind,
		)
	}
}

var statementModules = map[domain.StatementType][2]string{
	domain.StatementIncome:  {"incomeStatementHistory", "incomeStatementHistoryQuarterly"},
	domain.StatementBalance: {"balanceSheetHistory", "balanceSheetHistoryQuarterly"},
	domain.StatementCash:    {"cashflowStatementHistory", "cashflowStatementHistoryQuarterly"},
}

var statementListKeys = map[domain.StatementType]string{
	domain.StatementIncome:  "incomeStatementHistory",
	domain.StatementBalance: "balanceSheetStatements",
	domain.StatementCash:    "cashflowStatements",
}

// FinancialStatement implements domain.MarketDataService. The result has a
// Metric column plus one column per reporting period, newest first.
func (y *YahooService) FinancialStatement(ctx context.Context, ticker string, stmt domain.StatementType, quarterly bool) (*formatting.Table, error) {
	modules, ok := statementModules[stmt]
	if !ok {
		return nil, domain.NewInvalidArgument("unknown statement type: %s", stmt)
	}
	module := modules[0]
	if quarterly {
		module = modules[1]
	}

	result, err := y.quoteSummary(ctx, ticker, module)
	if err != nil {
		return nil, err
	}

	statements := result.Get(module + "." + statementListKeys[stmt]).Array()
	if len(statements) == 0 {
		return nil, &domain.NoDataError{Entity: ticker, Query: string(stmt) + " statement"}
	}

	periods := make([]string, 0, len(statements))
	metricOrder := []string{}
	seen := map[string]bool{}
	values := map[string]map[string]any{}

	for _, s := range statements {
		period := s.Get("endDate.fmt").String()
		periods = append(periods, period)
		s.ForEach(func(key, value gjson.Result) bool {
			name := key.String()
			if name == "endDate" || name == "maxAge" {
				return true
			}
			raw := value.Get("raw")
			if !raw.Exists() {
				return true
			}
			if !seen[name] {
				seen[name] = true
				metricOrder = append(metricOrder, name)
				values[name] = map[string]any{}
			}
			values[name][period] = raw.Value()
			return true
		})
	}

	table := formatting.NewTable(append([]string{"Metric"}, periods...)...)
	for _, metric := range metricOrder {
		row := make([]any, 0, len(periods)+1)
		row = append(row, metric)
		for _, period := range periods {
			row = append(row, values[metric][period])
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// EarningsHistory implements domain.MarketDataService.
func (y *YahooService) EarningsHistory(ctx context.Context, ticker string) (*formatting.Table, error) {
	result, err := y.quoteSummary(ctx, ticker, "earningsHistory")
	if err != nil {
		return nil, err
	}

	table := formatting.NewTable("quarter", "epsEstimate", "epsActual", "epsDifference", "surprisePercent")
	for _, h := range result.Get("earningsHistory.history").Array() {
		table.AddRow(
			h.Get("quarter.fmt").String(),
			h.Get("epsEstimate.raw").Value(),
			h.Get("epsActual.raw").Value(),
			h.Get("epsDifference.raw").Value(),
			h.Get("surprisePercent.raw").Value(),
		)
	}
	return table, nil
}

// InsiderTransactions implements domain.MarketDataService.
func (y *YahooService) InsiderTransactions(ctx context.Context, ticker string) (*formatting.Table, error) {
	result, err := y.quoteSummary(ctx, ticker, "insiderTransactions")
	if err != nil {
		return nil, err
	}

	table := formatting.NewTable("Date", "Insider", "Relation", "Transaction", "Shares", "Value")
	for _, t := range result.Get("insiderTransactions.transactions").Array() {
		table.AddRow(
			t.Get("startDate.fmt").String(),
			t.Get("filerName").String(),
			t.Get("filerRelation").String(),
			t.Get("transactionText").String(),
			t.Get("shares.raw").Value(),
			t.Get("value.raw").Value(),
		)
	}
	return table, nil
}

// InstitutionalHolders implements domain.MarketDataService.
func (y *YahooService) InstitutionalHolders(ctx context.Context, ticker string) (*formatting.Table, error) {
	return y.ownership(ctx, ticker, "institutionOwnership")
}

// MutualFundHolders implements domain.MarketDataService.
func (y *YahooService) MutualFundHolders(ctx context.Context, ticker string) (*formatting.Table, error) {
	return y.ownership(ctx, ticker, "fundOwnership")
}

func (y *YahooService) ownership(ctx context.Context, ticker, module string) (*formatting.Table, error) {
	result, err := y.quoteSummary(ctx, ticker, module)
	if err != nil {
		return nil, err
	}

	table := formatting.NewTable("Holder", "ReportDate", "Shares", "Value", "PctHeld")
	for _, o := range result.Get(module + ".ownershipList").Array() {
		table.AddRow(
			o.Get("organization").String(),
			o.Get("reportDate.fmt").String(),
			o.Get("position.raw").Value(),
			o.Get("value.raw").Value(),
			o.Get("pctHeld.raw").Value(),
		)
	}
	return table, nil
}

var moversScreenIDs = map[domain.MoversCategory]string{
	domain.MoversGainers:    "day_gainers",
	domain.MoversLosers:     "day_losers",
	domain.MoversMostActive: "most_actives",
}

// MarketMovers implements domain.MarketDataService. The pre-market and
// after-hours sessions report the extended-session price and change
// columns instead of the regular-session ones.
func (y *YahooService) MarketMovers(ctx context.Context, category domain.MoversCategory, session domain.MarketSession, count int) (*formatting.Table, error) {
	scrID, ok := moversScreenIDs[category]
	if !ok {
		return nil, domain.NewInvalidArgument("invalid market movers category: %s", category)
	}
	if category != domain.MoversMostActive {
		session = domain.SessionRegular
	}

	u := fmt.Sprintf("%s/v1/finance/screener/predefined/saved?scrIds=%s&count=%d",
		y.baseURL, scrID, count)

	body, err := y.fetch.FetchJSON(ctx, u, nil)
	if err != nil {
		return nil, err
	}

	quotes := gjson.GetBytes(body, "finance.result.0.quotes").Array()
	if len(quotes) == 0 {
		return nil, &domain.NoDataError{Entity: string(category), Query: "market movers"}
	}

	priceField, changeField := "regularMarketPrice", "regularMarketChangePercent"
	switch session {
	case domain.SessionPreMarket:
		priceField, changeField = "preMarketPrice", "preMarketChangePercent"
	case domain.SessionAfterHours:
		priceField, changeField = "postMarketPrice", "postMarketChangePercent"
	}

	table := formatting.NewTable("Symbol", "Name", "Price", "ChangePercent", "Volume")
	for _, q := range quotes {
		if len(table.Rows) >= count {
			break
		}
		table.AddRow(
			q.Get("symbol").String(),
			q.Get("shortName").String(),
			q.Get(priceField).Value(),
			q.Get(changeField).Value(),
			q.Get("regularMarketVolume").Value(),
		)
	}
	return table, nil
}

// quoteSummary fetches the requested quoteSummary modules and returns the
// first result object.
func (y *YahooService) quoteSummary(ctx context.Context, ticker, modules string) (gjson.Result, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		y.baseURL, url.PathEscape(ticker), url.QueryEscape(modules))

	body, err := y.fetch.FetchJSON(ctx, u, nil)
	if err != nil {
		return gjson.Result{}, err
	}

	if errDesc := gjson.GetBytes(body, "quoteSummary.error.description"); errDesc.Exists() && errDesc.String() != "" {
		if strings.Contains(strings.ToLower(errDesc.String()), "not found") {
			return gjson.Result{}, &domain.NoDataError{Entity: ticker, Query: modules}
		}
		return gjson.Result{}, fmt.Errorf("provider error for %s: %s", ticker, errDesc.String())
	}

	result := gjson.GetBytes(body, "quoteSummary.result.0")
	if !result.Exists() {
		return gjson.Result{}, &domain.NoDataError{Entity: ticker, Query: modules}
	}

	logger.Debug("Fetched quote summary", "ticker", ticker, "modules", modules)
	return result, nil
}

func numericCell(values []gjson.Result, i int) any {
	if i >= len(values) {
		return nil
	}
	v := values[i]
	if v.Type == gjson.Null {
		return nil
	}
	return v.Value()
}
