// Package indicators computes standard technical indicators from OHLCV series.
// Every rolling function returns a slice the same length as its input, with the
// leading entries set to NaN until enough history accumulates. Callers must
// treat NaN as "indicator unavailable", never as zero.
package indicators

import "math"

// undefinedSeries returns a slice of n NaNs.
func undefinedSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func defined(v float64) bool { return !math.IsNaN(v) }

// SMA computes the simple moving average over the trailing period.
func SMA(series []float64, period int) []float64 {
	out := undefinedSeries(len(series))
	if period <= 0 || len(series) < period {
		return out
	}
	sum := 0.0
	for i, v := range series {
		sum += v
		if i >= period {
			sum -= series[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA computes the exponential moving average, seeded with the SMA of the
// first period values. Entries before the seed are NaN.
func EMA(series []float64, period int) []float64 {
	out := undefinedSeries(len(series))
	if period <= 0 || len(series) < period {
		return out
	}
	seed := 0.0
	for i := 0; i < period; i++ {
		seed += series[i]
	}
	seed /= float64(period)
	out[period-1] = seed

	alpha := 2.0 / float64(period+1)
	prev := seed
	for i := period; i < len(series); i++ {
		prev = alpha*series[i] + (1-alpha)*prev
		out[i] = prev
	}
	return out
}

// emaOfDefined runs an EMA over a series whose leading entries may be NaN,
// seeding from the first window of defined values. Used for the MACD signal
// line, whose input is itself a derived series with a NaN head.
func emaOfDefined(series []float64, period int) []float64 {
	out := undefinedSeries(len(series))
	first := -1
	for i, v := range series {
		if defined(v) {
			first = i
			break
		}
	}
	if first < 0 || len(series)-first < period {
		return out
	}
	seed := 0.0
	for i := first; i < first+period; i++ {
		seed += series[i]
	}
	seed /= float64(period)
	out[first+period-1] = seed

	alpha := 2.0 / float64(period+1)
	prev := seed
	for i := first + period; i < len(series); i++ {
		prev = alpha*series[i] + (1-alpha)*prev
		out[i] = prev
	}
	return out
}

// rollingStd computes the population standard deviation over the trailing
// window, aligned like SMA.
func rollingStd(series []float64, period int) []float64 {
	out := undefinedSeries(len(series))
	if period <= 1 || len(series) < period {
		return out
	}
	for i := period - 1; i < len(series); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += series[j]
		}
		mean := sum / float64(period)
		varsum := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := series[j] - mean
			varsum += d * d
		}
		out[i] = math.Sqrt(varsum / float64(period))
	}
	return out
}
