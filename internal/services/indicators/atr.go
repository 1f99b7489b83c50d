package indicators

import (
	"math"

	"StockSentry/internal/domain/models"
)

// ATR computes the Average True Range as the rolling mean of the true range
// over the trailing period. Defined from index period-1 and always >= 0.
func ATR(bars models.PriceSeries, period int) []float64 {
	n := len(bars)
	out := undefinedSeries(n)
	if period <= 0 || n < period {
		return out
	}

	trs := make([]float64, n)
	trs[0] = bars[0].High - bars[0].Low
	for i := 1; i < n; i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		trs[i] = math.Max(hl, math.Max(hc, lc))
	}

	sum := 0.0
	for i, tr := range trs {
		sum += tr
		if i >= period {
			sum -= trs[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}
