package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/formatting"
)

func holdersTable(names ...string) *formatting.Table {
	t := formatting.NewTable("Holder", "Shares")
	for _, n := range names {
		t.AddRow(n, 1000.0)
	}
	return t
}

func TestInstitutionalHoldersBothSections(t *testing.T) {
	tool := NewInstitutionalHoldersTool(&stubMarket{
		institutional: func(ctx context.Context, ticker string) (*formatting.Table, error) {
			return holdersTable("Vanguard", "BlackRock"), nil
		},
		mutualFunds: func(ctx context.Context, ticker string) (*formatting.Table, error) {
			return holdersTable("VTSAX"), nil
		},
	})

	result, err := tool.Execute(context.Background(), map[string]any{"ticker": "AAPL"})
	require.NoError(t, err)

	report := result.(map[string]any)
	assert.Contains(t, report["institutional_holders"], "Vanguard")
	assert.Contains(t, report["mutual_fund_holders"], "VTSAX")
}

func TestInstitutionalHoldersDegradesToOneSection(t *testing.T) {
	tool := NewInstitutionalHoldersTool(&stubMarket{
		institutional: func(ctx context.Context, ticker string) (*formatting.Table, error) {
			return nil, errors.New("upstream broke")
		},
		mutualFunds: func(ctx context.Context, ticker string) (*formatting.Table, error) {
			return holdersTable("VTSAX"), nil
		},
	})

	result, err := tool.Execute(context.Background(), map[string]any{"ticker": "AAPL"})
	require.NoError(t, err, "one healthy section is a success")

	report := result.(map[string]any)
	assert.Contains(t, report["mutual_fund_holders"], "VTSAX")
	assert.Contains(t, report["institutional_holders_error"], "upstream broke")
	assert.NotContains(t, report, "institutional_holders")
}

func TestInstitutionalHoldersBothSectionsFailing(t *testing.T) {
	tool := NewInstitutionalHoldersTool(&stubMarket{
		institutional: func(ctx context.Context, ticker string) (*formatting.Table, error) {
			return nil, errors.New("first failure")
		},
		mutualFunds: func(ctx context.Context, ticker string) (*formatting.Table, error) {
			return nil, errors.New("second failure")
		},
	})

	_, err := tool.Execute(context.Background(), map[string]any{"ticker": "AAPL"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first failure")
}

func TestInstitutionalHoldersBothEmpty(t *testing.T) {
	tool := NewInstitutionalHoldersTool(&stubMarket{
		institutional: func(ctx context.Context, ticker string) (*formatting.Table, error) {
			return holdersTable(), nil
		},
		mutualFunds: func(ctx context.Context, ticker string) (*formatting.Table, error) {
			return holdersTable(), nil
		},
	})

	_, err := tool.Execute(context.Background(), map[string]any{"ticker": "AAPL"})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindNoData, domain.ClassifyError(err))
}

func TestInstitutionalHoldersTopN(t *testing.T) {
	tool := NewInstitutionalHoldersTool(&stubMarket{
		institutional: func(ctx context.Context, ticker string) (*formatting.Table, error) {
			return holdersTable("A", "B", "C", "D"), nil
		},
		mutualFunds: func(ctx context.Context, ticker string) (*formatting.Table, error) {
			return holdersTable(), nil
		},
	})

	result, err := tool.Execute(context.Background(), map[string]any{"ticker": "AAPL", "top_n": 2.0})
	require.NoError(t, err)

	report := result.(map[string]any)
	csv := report["institutional_holders"].(string)
	assert.Contains(t, csv, "B")
	assert.NotContains(t, csv, "C")
}
