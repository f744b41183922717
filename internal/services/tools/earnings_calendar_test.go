package tools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/investor-agent/investor-mcp/internal/domain"
)

const nasdaqFixture = `{
	"data": {
		"rows": [
			{"symbol": "AAPL", "name": "Apple Inc.", "time": "time-after-hours", "epsForecast": "$2.35", "noOfEsts": "12", "lastYearEPS": "$2.18", "fiscalQuarterEnding": "Dec/2024", "marketCap": "$3,500,000,000,000"},
			{"symbol": "XOM", "name": "Exxon Mobil", "time": "time-pre-market", "epsForecast": "$1.76", "noOfEsts": "9", "lastYearEPS": "$2.27", "fiscalQuarterEnding": "Dec/2024", "marketCap": "$470,000,000,000"}
		]
	}
}`

func TestEarningsCalendarReturnsCSV(t *testing.T) {
	fetch := &stubFetch{responses: map[string]string{"/api/calendar/earnings?date=2025-01-30": nasdaqFixture}}
	tool := NewEarningsCalendarTool(fetch, "https://example.test")

	result, err := tool.Execute(context.Background(), map[string]any{"date": "2025-01-30"})
	require.NoError(t, err)

	csv := result.(string)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Symbol")
	assert.Contains(t, csv, "AAPL")
	assert.Contains(t, csv, "XOM")
}

func TestEarningsCalendarDefaultsToToday(t *testing.T) {
	today := "2025-06-02"
	fetch := &stubFetch{responses: map[string]string{"date=" + today: nasdaqFixture}}
	tool := NewEarningsCalendarTool(fetch, "https://example.test")
	tool.timeNow = func() time.Time {
		return time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	}

	_, err := tool.Execute(context.Background(), map[string]any{})
	require.NoError(t, err, "today's date is used when none is given")
}

func TestEarningsCalendarRejectsBadDate(t *testing.T) {
	tool := NewEarningsCalendarTool(&stubFetch{}, "https://example.test")

	_, err := tool.Execute(context.Background(), map[string]any{"date": "01/30/2025"})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindInvalidArgument, domain.ClassifyError(err))
}

func TestEarningsCalendarEmptyDay(t *testing.T) {
	fetch := &stubFetch{responses: map[string]string{"": `{"data": {"rows": []}}`}}
	tool := NewEarningsCalendarTool(fetch, "https://example.test")

	_, err := tool.Execute(context.Background(), map[string]any{"date": "2025-01-01"})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindNoData, domain.ClassifyError(err))
}
