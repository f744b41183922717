package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcp_golang "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/http"

	"github.com/investor-agent/investor-mcp/config"
	"github.com/investor-agent/investor-mcp/internal/logger"
	"github.com/investor-agent/investor-mcp/internal/services/tools"
)

// Tool argument structures with jsonschema tags. Optional fields are
// pointers or omitempty strings so absent values fall through to the
// defaults declared in the tool schemas.

type PriceHistoryArgs struct {
	Ticker string `json:"ticker" jsonschema:"required,description=Stock ticker symbol (e.g. AAPL)"`
	Period string `json:"period,omitempty" jsonschema:"description=History range: 1d 5d 1mo 3mo 6mo 1y 2y 5y 10y ytd max"`
}

type OptionsArgs struct {
	TickerSymbol string   `json:"ticker_symbol" jsonschema:"required,description=Stock ticker symbol (e.g. AAPL)"`
	NumOptions   *int     `json:"num_options,omitempty" jsonschema:"description=Maximum number of contracts to return"`
	StartDate    string   `json:"start_date,omitempty" jsonschema:"description=Earliest expiration date YYYY-MM-DD"`
	EndDate      string   `json:"end_date,omitempty" jsonschema:"description=Latest expiration date YYYY-MM-DD"`
	StrikeLower  *float64 `json:"strike_lower,omitempty" jsonschema:"description=Minimum strike price"`
	StrikeUpper  *float64 `json:"strike_upper,omitempty" jsonschema:"description=Maximum strike price"`
	OptionType   string   `json:"option_type,omitempty" jsonschema:"description=C for calls or P for puts"`
}

type TickerDataArgs struct {
	Ticker             string `json:"ticker" jsonschema:"required,description=Stock ticker symbol (e.g. AAPL)"`
	MaxNews            *int   `json:"max_news,omitempty" jsonschema:"description=Maximum number of news items"`
	MaxRecommendations *int   `json:"max_recommendations,omitempty" jsonschema:"description=Maximum number of recommendation rows"`
	MaxUpgrades        *int   `json:"max_upgrades,omitempty" jsonschema:"description=Maximum number of upgrade/downgrade rows"`
}

type FinancialStatementsArgs struct {
	Ticker        string `json:"ticker" jsonschema:"required,description=Stock ticker symbol (e.g. AAPL)"`
	StatementType string `json:"statement_type,omitempty" jsonschema:"description=income balance or cash"`
	Frequency     string `json:"frequency,omitempty" jsonschema:"description=quarterly or annual"`
}

type EarningsHistoryArgs struct {
	Ticker     string `json:"ticker" jsonschema:"required,description=Stock ticker symbol (e.g. AAPL)"`
	MaxEntries *int   `json:"max_entries,omitempty" jsonschema:"description=Maximum number of quarters"`
}

type InsiderTradesArgs struct {
	Ticker    string `json:"ticker" jsonschema:"required,description=Stock ticker symbol (e.g. AAPL)"`
	MaxTrades *int   `json:"max_trades,omitempty" jsonschema:"description=Maximum number of transactions"`
}

type InstitutionalHoldersArgs struct {
	Ticker string `json:"ticker" jsonschema:"required,description=Stock ticker symbol (e.g. AAPL)"`
	TopN   *int   `json:"top_n,omitempty" jsonschema:"description=Number of holders per section"`
}

type MarketMoversArgs struct {
	Category      string `json:"category,omitempty" jsonschema:"description=gainers losers or most-active"`
	Count         *int   `json:"count,omitempty" jsonschema:"description=Number of rows to return (max 100)"`
	MarketSession string `json:"market_session,omitempty" jsonschema:"description=regular pre-market or after-hours (most-active only)"`
}

type EarningsCalendarArgs struct {
	Date string `json:"date,omitempty" jsonschema:"description=Calendar date YYYY-MM-DD (defaults to today)"`
}

type CNNFearGreedArgs struct {
	Indicators []string `json:"indicators,omitempty" jsonschema:"description=Restrict to these component indicators"`
}

type CryptoFearGreedArgs struct {
	Days *int `json:"days,omitempty" jsonschema:"description=Number of daily readings (max 365)"`
}

type IntradayDataArgs struct {
	Symbol string `json:"symbol" jsonschema:"required,description=Stock ticker symbol (e.g. AAPL)"`
	Limit  *int   `json:"limit,omitempty" jsonschema:"description=Maximum number of bars (max 1000)"`
}

type TechnicalIndicatorArgs struct {
	Ticker     string `json:"ticker" jsonschema:"required,description=Stock ticker symbol (e.g. AAPL)"`
	Indicator  string `json:"indicator" jsonschema:"required,description=SMA EMA RSI MACD or BBANDS"`
	Period     *int   `json:"period,omitempty" jsonschema:"description=Lookback period (ignored for MACD)"`
	NumResults *int   `json:"num_results,omitempty" jsonschema:"description=Number of most recent rows"`
}

// Server exposes the tool registry over the MCP HTTP transport.
type Server struct {
	cfg      config.ServerConfig
	registry *tools.Registry
}

// NewServer creates the MCP server wrapper around a populated registry.
func NewServer(cfg config.ServerConfig, registry *tools.Registry) *Server {
	return &Server{cfg: cfg, registry: registry}
}

// Serve registers every tool and blocks serving MCP over HTTP.
func (s *Server) Serve() error {
	transport := http.NewHTTPTransport(s.cfg.Path)
	transport.WithAddr(fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port))

	server := mcp_golang.NewServer(transport)
	if err := s.registerTools(server); err != nil {
		return err
	}

	logger.Info("MCP server starting",
		"addr", fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		"path", s.cfg.Path,
		"tools", len(s.registry.ListDefinitions()))
	return server.Serve()
}

func (s *Server) registerTools(server *mcp_golang.Server) error {
	handlers := map[string]any{
		"get_price_history":             handlerFor[PriceHistoryArgs](s.registry, "get_price_history"),
		"get_options":                   handlerFor[OptionsArgs](s.registry, "get_options"),
		"get_ticker_data":               handlerFor[TickerDataArgs](s.registry, "get_ticker_data"),
		"get_financial_statements":      handlerFor[FinancialStatementsArgs](s.registry, "get_financial_statements"),
		"get_earnings_history":          handlerFor[EarningsHistoryArgs](s.registry, "get_earnings_history"),
		"get_insider_trades":            handlerFor[InsiderTradesArgs](s.registry, "get_insider_trades"),
		"get_institutional_holders":     handlerFor[InstitutionalHoldersArgs](s.registry, "get_institutional_holders"),
		"get_market_movers":             handlerFor[MarketMoversArgs](s.registry, "get_market_movers"),
		"get_nasdaq_earnings_calendar":  handlerFor[EarningsCalendarArgs](s.registry, "get_nasdaq_earnings_calendar"),
		"get_cnn_fear_greed_index":      handlerFor[CNNFearGreedArgs](s.registry, "get_cnn_fear_greed_index"),
		"get_crypto_fear_greed_index":   handlerFor[CryptoFearGreedArgs](s.registry, "get_crypto_fear_greed_index"),
		"fetch_intraday_data":           handlerFor[IntradayDataArgs](s.registry, "fetch_intraday_data"),
		"calculate_technical_indicator": handlerFor[TechnicalIndicatorArgs](s.registry, "calculate_technical_indicator"),
	}

	// Names and descriptions come from the registry definitions so the
	// advertised contract cannot drift from the dispatched one.
	for _, def := range s.registry.ListDefinitions() {
		handler, ok := handlers[def.Name]
		if !ok {
			return fmt.Errorf("no transport handler for tool %s", def.Name)
		}
		if err := server.RegisterTool(def.Name, def.Description, handler); err != nil {
			return fmt.Errorf("failed to register %s: %w", def.Name, err)
		}
	}
	return nil
}

// handlerFor adapts a registry dispatch into a typed MCP tool handler. The
// typed arguments round-trip through JSON so omitted optionals disappear
// before schema defaults apply, and the full result envelope is rendered
// as the response text. The transport context is passed through so
// cancellation reaches the tool.
func handlerFor[T any](registry *tools.Registry, toolName string) func(context.Context, T) (*mcp_golang.ToolResponse, error) {
	return func(ctx context.Context, args T) (*mcp_golang.ToolResponse, error) {
		raw, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("failed to encode arguments: %w", err)
		}
		argMap := map[string]any{}
		if err := json.Unmarshal(raw, &argMap); err != nil {
			return nil, fmt.Errorf("failed to decode arguments: %w", err)
		}

		result, err := registry.Dispatch(ctx, toolName, argMap)
		if err != nil {
			return nil, err
		}

		payload, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode result: %w", err)
		}
		return mcp_golang.NewToolResponse(mcp_golang.NewTextContent(string(payload))), nil
	}
}
