package indicators

// MACD computes the MACD line (fast EMA minus slow EMA), its signal line
// (EMA of the MACD line) and the histogram. The identity
// histogram[i] == macd[i] - signal[i] holds exactly wherever both are defined.
func MACD(series []float64, fast, slow, signal int) (macdLine, signalLine, histogram []float64) {
	n := len(series)
	macdLine = undefinedSeries(n)
	histogram = undefinedSeries(n)

	fastEMA := EMA(series, fast)
	slowEMA := EMA(series, slow)
	for i := 0; i < n; i++ {
		if defined(fastEMA[i]) && defined(slowEMA[i]) {
			macdLine[i] = fastEMA[i] - slowEMA[i]
		}
	}

	signalLine = emaOfDefined(macdLine, signal)
	for i := 0; i < n; i++ {
		if defined(macdLine[i]) && defined(signalLine[i]) {
			histogram[i] = macdLine[i] - signalLine[i]
		}
	}
	return macdLine, signalLine, histogram
}
