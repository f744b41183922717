// Package validation normalizes and validates caller-supplied tickers and
// dates before any provider call is made.
package validation

import (
	"strings"
	"time"

	"github.com/investor-agent/investor-mcp/internal/domain"
)

const dateLayout = "2006-01-02"

// Ticker trims and uppercases a ticker symbol. An empty result is an
// InvalidArgumentError.
func Ticker(raw string) (string, error) {
	ticker := strings.ToUpper(strings.TrimSpace(raw))
	if ticker == "" {
		return "", domain.NewInvalidArgument("ticker symbol cannot be empty")
	}
	return ticker, nil
}

// Date parses a strict YYYY-MM-DD date string.
func Date(raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, domain.NewInvalidArgument("invalid date format: %s (use YYYY-MM-DD)", raw)
	}
	return t, nil
}

// DateRange validates an optional start/end pair. Absent bounds impose no
// constraint; a start after the end is an InvalidArgumentError.
func DateRange(start, end string) error {
	var startDate, endDate time.Time
	var err error

	if start != "" {
		if startDate, err = Date(start); err != nil {
			return err
		}
	}
	if end != "" {
		if endDate, err = Date(end); err != nil {
			return err
		}
	}

	if start != "" && end != "" && startDate.After(endDate) {
		return domain.NewInvalidArgument("start_date must be before or equal to end_date")
	}
	return nil
}
