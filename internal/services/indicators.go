package services

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/investor-agent/investor-mcp/internal/domain"
	"github.com/investor-agent/investor-mcp/internal/formatting"
)

// Indicator names accepted by Compute.
const (
	IndicatorSMA    = "SMA"
	IndicatorEMA    = "EMA"
	IndicatorRSI    = "RSI"
	IndicatorMACD   = "MACD"
	IndicatorBBANDS = "BBANDS"
)

// IndicatorService computes technical indicators over a closing-price
// series. All outputs are aligned to the input series; warm-up positions
// hold NaN and render as empty cells.
type IndicatorService struct{}

// NewIndicatorService creates the indicator engine.
func NewIndicatorService() *IndicatorService {
	return &IndicatorService{}
}

// minSamples returns the smallest closing-price series Compute accepts for
// the indicator with the given primary period.
func minSamples(name string, period int) int {
	switch name {
	case IndicatorRSI:
		return period + 1
	case IndicatorMACD:
		// Slow EMA plus the signal line warm-up.
		return 26 + 9
	default:
		return period
	}
}

// Compute appends the requested indicator columns to a copy of the input
// table. The table must carry Date and Close columns; period applies to
// SMA, EMA, RSI, and BBANDS (MACD uses the standard 12/26/9 parameters).
func (s *IndicatorService) Compute(table *formatting.Table, name string, period int) (*formatting.Table, error) {
	if period <= 0 {
		return nil, domain.NewInvalidArgument("period must be positive, got %d", period)
	}

	closeIdx := table.ColumnIndex("Close")
	dateIdx := table.ColumnIndex("Date")
	if closeIdx < 0 || dateIdx < 0 {
		return nil, domain.NewInvalidArgument("price table must have Date and Close columns")
	}

	closes := make([]float64, 0, table.Len())
	dates := make([]any, 0, table.Len())
	for _, row := range table.Rows {
		f, ok := toFloat(row[closeIdx])
		if !ok {
			continue
		}
		closes = append(closes, f)
		dates = append(dates, row[dateIdx])
	}

	if need := minSamples(name, period); len(closes) < need {
		return nil, domain.NewInvalidArgument(
			"%s requires at least %d closing prices, got %d", name, need, len(closes))
	}

	out := formatting.NewTable("Date", "Close")
	for i := range closes {
		out.AddRow(dates[i], closes[i])
	}

	switch name {
	case IndicatorSMA:
		appendColumn(out, "SMA", sma(closes, period))
	case IndicatorEMA:
		appendColumn(out, "EMA", ema(closes, period))
	case IndicatorRSI:
		appendColumn(out, "RSI", rsi(closes, period))
	case IndicatorMACD:
		macdLine, signal, hist := macd(closes)
		appendColumn(out, "MACD", macdLine)
		appendColumn(out, "Signal", signal)
		appendColumn(out, "Histogram", hist)
	case IndicatorBBANDS:
		upper, middle, lower := bbands(closes, period)
		appendColumn(out, "UpperBand", upper)
		appendColumn(out, "MiddleBand", middle)
		appendColumn(out, "LowerBand", lower)
	default:
		return nil, domain.NewInvalidArgument("unknown indicator: %s", name)
	}
	return out, nil
}

func appendColumn(table *formatting.Table, name string, values []float64) {
	table.Columns = append(table.Columns, name)
	for i := range table.Rows {
		var cell any
		if i < len(values) && !math.IsNaN(values[i]) {
			cell = values[i]
		}
		table.Rows[i] = append(table.Rows[i], cell)
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}

func sma(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	for i := period - 1; i < len(closes); i++ {
		out[i] = stat.Mean(closes[i-period+1:i+1], nil)
	}
	return out
}

func ema(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if len(closes) < period {
		return out
	}
	// Seed with the SMA of the first window, then smooth.
	alpha := 2.0 / (float64(period) + 1.0)
	out[period-1] = stat.Mean(closes[:period], nil)
	for i := period; i < len(closes); i++ {
		out[i] = alpha*closes[i] + (1-alpha)*out[i-1]
	}
	return out
}

// rsi uses Wilder smoothing of average gains and losses.
func rsi(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if len(closes) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

func macd(closes []float64) (macdLine, signal, histogram []float64) {
	fast := ema(closes, 12)
	slow := ema(closes, 26)

	macdLine = nanSlice(len(closes))
	for i := range closes {
		if !math.IsNaN(fast[i]) && !math.IsNaN(slow[i]) {
			macdLine[i] = fast[i] - slow[i]
		}
	}

	// The signal line is a 9-period EMA over the valid MACD region.
	signal = nanSlice(len(closes))
	start := 25
	if len(closes) > start {
		valid := macdLine[start:]
		sig := ema(valid, 9)
		for i, v := range sig {
			signal[start+i] = v
		}
	}

	histogram = nanSlice(len(closes))
	for i := range closes {
		if !math.IsNaN(macdLine[i]) && !math.IsNaN(signal[i]) {
			histogram[i] = macdLine[i] - signal[i]
		}
	}
	return macdLine, signal, histogram
}

func bbands(closes []float64, period int) (upper, middle, lower []float64) {
	upper = nanSlice(len(closes))
	middle = nanSlice(len(closes))
	lower = nanSlice(len(closes))
	for i := period - 1; i < len(closes); i++ {
		window := closes[i-period+1 : i+1]
		mean, std := stat.MeanStdDev(window, nil)
		// Population deviation, matching the common charting convention.
		std *= math.Sqrt(float64(period-1) / float64(period))
		middle[i] = mean
		upper[i] = mean + 2*std
		lower[i] = mean - 2*std
	}
	return upper, middle, lower
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
