package tools

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/formatting"
)

func optionsStub(expirations []string) *stubMarket {
	return &stubMarket{
		optionExpirations: func(ctx context.Context, ticker string) ([]string, error) {
			return expirations, nil
		},
		optionChain: func(ctx context.Context, ticker, expiry string, optType domain.OptionType) (*formatting.Table, error) {
			chain := formatting.NewTable("contractSymbol", "strike", "lastPrice", "type")
			chain.AddRow("C100-"+expiry, 100.0, 5.25, "call")
			chain.AddRow("C110-"+expiry, 110.0, 2.10, "call")
			chain.AddRow("P90-"+expiry, 90.0, 1.75, "put")
			return chain, nil
		},
	}
}

func TestOptionsFiltersAndSorts(t *testing.T) {
	tool := NewOptionsTool(optionsStub([]string{"2025-02-21", "2025-03-21"}))

	result, err := tool.Execute(context.Background(), map[string]any{
		"ticker_symbol": "AAPL",
		"strike_lower":  95.0,
		"strike_upper":  105.0,
	})
	require.NoError(t, err)

	csv := result.(string)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 3, "one in-range strike per expiration")
	assert.Contains(t, lines[1], "2025-02-21")
	assert.Contains(t, lines[2], "2025-03-21")
	assert.NotContains(t, csv, "C110")
	assert.NotContains(t, csv, "P90")
}

func TestOptionsInvertedStrikeBoundsYieldEmptyResult(t *testing.T) {
	tool := NewOptionsTool(optionsStub([]string{"2025-02-21"}))

	result, err := tool.Execute(context.Background(), map[string]any{
		"ticker_symbol": "AAPL",
		"strike_lower":  200.0,
		"strike_upper":  100.0,
	})
	require.NoError(t, err, "an impossible strike window is empty, not an error")

	csv := result.(string)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	assert.Len(t, lines, 1, "header only")
}

func TestOptionsDateRangeSelectsExpirations(t *testing.T) {
	var fetched []string
	stub := optionsStub([]string{"2025-01-17", "2025-02-21", "2025-03-21"})
	inner := stub.optionChain
	stub.optionChain = func(ctx context.Context, ticker, expiry string, optType domain.OptionType) (*formatting.Table, error) {
		fetched = append(fetched, expiry)
		return inner(ctx, ticker, expiry, optType)
	}
	tool := NewOptionsTool(stub)

	_, err := tool.Execute(context.Background(), map[string]any{
		"ticker_symbol": "AAPL",
		"start_date":    "2025-02-01",
		"end_date":      "2025-02-28",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-02-21"}, fetched)
}

func TestOptionsNoExpirationsInRange(t *testing.T) {
	tool := NewOptionsTool(optionsStub([]string{"2025-01-17"}))

	_, err := tool.Execute(context.Background(), map[string]any{
		"ticker_symbol": "AAPL",
		"start_date":    "2026-01-01",
	})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindNoData, domain.ClassifyError(err))
}

func TestOptionsInvalidDateRange(t *testing.T) {
	tool := NewOptionsTool(optionsStub(nil))

	_, err := tool.Execute(context.Background(), map[string]any{
		"ticker_symbol": "AAPL",
		"start_date":    "2025-12-31",
		"end_date":      "2025-01-01",
	})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindInvalidArgument, domain.ClassifyError(err))
}

func TestOptionsFetchesEveryExpirationInRange(t *testing.T) {
	expirations := []string{
		"2025-01-17", "2025-02-21", "2025-03-21",
		"2025-04-18", "2025-05-16", "2025-06-20",
	}
	var mu sync.Mutex
	var fetched []string
	stub := &stubMarket{
		optionExpirations: func(ctx context.Context, ticker string) ([]string, error) {
			return expirations, nil
		},
		optionChain: func(ctx context.Context, ticker, expiry string, optType domain.OptionType) (*formatting.Table, error) {
			mu.Lock()
			fetched = append(fetched, expiry)
			mu.Unlock()
			chain := formatting.NewTable("contractSymbol", "strike", "lastPrice", "type")
			chain.AddRow("C100-"+expiry, 100.0, 5.25, "call")
			return chain, nil
		},
	}
	tool := NewOptionsTool(stub)

	result, err := tool.Execute(context.Background(), map[string]any{
		"ticker_symbol": "AAPL",
		"num_options":   100.0,
	})
	require.NoError(t, err)

	assert.Len(t, fetched, len(expirations), "every expiration is fetched")
	csv := result.(string)
	assert.Contains(t, csv, "C100-2025-06-20", "contracts past the nearest expiries are reachable")
}

func TestOptionsSortsByOpenInterestThenVolume(t *testing.T) {
	stub := &stubMarket{
		optionExpirations: func(ctx context.Context, ticker string) ([]string, error) {
			return []string{"2025-02-21"}, nil
		},
		optionChain: func(ctx context.Context, ticker, expiry string, optType domain.OptionType) (*formatting.Table, error) {
			chain := formatting.NewTable("contractSymbol", "strike", "volume", "openInterest", "type")
			chain.AddRow("THIN", 100.0, 10.0, 50.0, "call")
			chain.AddRow("DEEP", 110.0, 200.0, 9000.0, "call")
			chain.AddRow("BUSY", 120.0, 800.0, 9000.0, "call")
			return chain, nil
		},
	}
	tool := NewOptionsTool(stub)

	result, err := tool.Execute(context.Background(), map[string]any{
		"ticker_symbol": "AAPL",
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(result.(string)), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "BUSY", "highest open interest with higher volume first")
	assert.Contains(t, lines[2], "DEEP")
	assert.Contains(t, lines[3], "THIN")
}

func TestOptionsSchemaCapsContractCount(t *testing.T) {
	def := NewOptionsTool(optionsStub(nil)).Definition()
	props := def.Parameters["properties"].(map[string]any)
	numOptions := props["num_options"].(map[string]any)
	assert.Equal(t, 1000, numOptions["maximum"])
}

func TestOptionsLimitsContractCount(t *testing.T) {
	tool := NewOptionsTool(optionsStub([]string{"2025-02-21", "2025-03-21"}))

	result, err := tool.Execute(context.Background(), map[string]any{
		"ticker_symbol": "AAPL",
		"num_options":   2.0,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(result.(string)), "\n")
	assert.Len(t, lines, 3, "header plus num_options rows")
}
