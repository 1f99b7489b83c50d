package indicators

// BollingerBands computes the upper, middle and lower bands over the trailing
// period. Wherever all three are defined, upper >= middle >= lower.
func BollingerBands(series []float64, period int, numStd float64) (upper, middle, lower []float64) {
	n := len(series)
	upper = undefinedSeries(n)
	lower = undefinedSeries(n)

	middle = SMA(series, period)
	std := rollingStd(series, period)
	for i := 0; i < n; i++ {
		if defined(middle[i]) && defined(std[i]) {
			upper[i] = middle[i] + numStd*std[i]
			lower[i] = middle[i] - numStd*std[i]
		}
	}
	return upper, middle, lower
}
