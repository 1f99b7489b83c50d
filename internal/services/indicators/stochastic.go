package indicators

import "StockSentry/internal/domain/models"

// Stochastic computes the %K and %D oscillator lines, each bounded to [0,100].
// A window whose high equals its low yields a neutral 50 for %K.
func Stochastic(bars models.PriceSeries, kPeriod, dPeriod int) (k, d []float64) {
	n := len(bars)
	k = undefinedSeries(n)
	if kPeriod <= 0 || n < kPeriod {
		return k, undefinedSeries(n)
	}

	for i := kPeriod - 1; i < n; i++ {
		hh := bars[i].High
		ll := bars[i].Low
		for j := i - kPeriod + 1; j <= i; j++ {
			if bars[j].High > hh {
				hh = bars[j].High
			}
			if bars[j].Low < ll {
				ll = bars[j].Low
			}
		}
		if hh == ll {
			k[i] = 50
			continue
		}
		k[i] = 100 * (bars[i].Close - ll) / (hh - ll)
	}

	d = emaSafeSMA(k, dPeriod)
	return k, d
}

// WilliamsR computes Williams %R over the trailing period, bounded to
// [-100, 0]. A flat window yields -50.
func WilliamsR(bars models.PriceSeries, period int) []float64 {
	n := len(bars)
	out := undefinedSeries(n)
	if period <= 0 || n < period {
		return out
	}
	for i := period - 1; i < n; i++ {
		hh := bars[i].High
		ll := bars[i].Low
		for j := i - period + 1; j <= i; j++ {
			if bars[j].High > hh {
				hh = bars[j].High
			}
			if bars[j].Low < ll {
				ll = bars[j].Low
			}
		}
		if hh == ll {
			out[i] = -50
			continue
		}
		out[i] = -100 * (hh - bars[i].Close) / (hh - ll)
	}
	return out
}

// emaSafeSMA is an SMA that tolerates a NaN head: the average starts once the
// whole window is defined.
func emaSafeSMA(series []float64, period int) []float64 {
	out := undefinedSeries(len(series))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(series); i++ {
		sum := 0.0
		ok := true
		for j := i - period + 1; j <= i; j++ {
			if !defined(series[j]) {
				ok = false
				break
			}
			sum += series[j]
		}
		if ok {
			out[i] = sum / float64(period)
		}
	}
	return out
}
