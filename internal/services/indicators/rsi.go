package indicators

// RSI computes the Relative Strength Index with Wilder smoothing. The first
// defined value is at index period; everything before is NaN.
//
// When the average loss is exactly zero the naive RS ratio is undefined. This
// implementation pins that case: RSI = 100 when there were gains and no losses
// (monotonically rising window), RSI = 50 when both averages are zero (flat
// window). Both branches are deliberate, not an artifact of division order.
func RSI(series []float64, period int) []float64 {
	out := undefinedSeries(len(series))
	if period <= 0 || len(series) < period+1 {
		return out
	}

	gains := make([]float64, len(series)-1)
	losses := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		change := series[i] - series[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	avgGain := 0.0
	avgLoss := 0.0
	for i := 0; i < period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(series); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i-1]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i-1]) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
