package indicators

import "StockSentry/internal/domain/models"

// OBV computes On-Balance Volume: the cumulative sum of volume signed by the
// direction of the close-to-close change. Defined at every index; the first
// bar contributes zero since it has no prior close.
func OBV(bars models.PriceSeries) []float64 {
	out := make([]float64, len(bars))
	if len(bars) == 0 {
		return out
	}
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			out[i] = out[i-1] + bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			out[i] = out[i-1] - bars[i].Volume
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

// VWAP computes the volume-weighted average close over the trailing period.
// A window with zero total volume falls back to that bar's close.
func VWAP(bars models.PriceSeries, period int) []float64 {
	n := len(bars)
	out := undefinedSeries(n)
	if period <= 0 || n < period {
		return out
	}
	for i := period - 1; i < n; i++ {
		pv := 0.0
		vol := 0.0
		for j := i - period + 1; j <= i; j++ {
			pv += bars[j].Close * bars[j].Volume
			vol += bars[j].Volume
		}
		if vol == 0 {
			out[i] = bars[i].Close
			continue
		}
		out[i] = pv / vol
	}
	return out
}

// ConsecutiveRuns counts the trailing runs of strictly lower and strictly
// higher closes ending at the last bar. At most one of the two is non-zero.
func ConsecutiveRuns(closes []float64) (red, green int) {
	for i := len(closes) - 1; i > 0; i-- {
		if closes[i] < closes[i-1] {
			red++
		} else {
			break
		}
	}
	if red == 0 {
		for i := len(closes) - 1; i > 0; i-- {
			if closes[i] > closes[i-1] {
				green++
			} else {
				break
			}
		}
	}
	return red, green
}
