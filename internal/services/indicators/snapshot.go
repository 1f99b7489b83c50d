package indicators

import "StockSentry/internal/domain/models"

// Default periods used by the snapshot builder. Trigger instances that need
// other periods compute their own series.
const (
	rsiPeriod    = 14
	macdFast     = 12
	macdSlow     = 26
	macdSignal   = 9
	bbPeriod     = 20
	bbStd        = 2.0
	atrPeriod    = 14
	stochKPeriod = 14
	stochDPeriod = 3
	adxPeriod    = 14
	vwapPeriod   = 20
	willRPeriod  = 14
	avgVolPeriod = 20
)

// BuildSnapshots computes the full indicator set for a series and samples it
// at the latest bar and the one before it. prev is nil when the series has
// fewer than two bars. Individual fields stay NaN when their lookback exceeds
// the available history; callers check models.Defined per field.
func BuildSnapshots(symbol string, bars models.PriceSeries) (curr, prev *models.IndicatorSnapshot) {
	n := len(bars)
	if n == 0 {
		return nil, nil
	}

	closes := bars.Closes()
	volumes := bars.Volumes()

	sma20 := SMA(closes, 20)
	sma50 := SMA(closes, 50)
	sma200 := SMA(closes, 200)
	ema20 := EMA(closes, 20)
	rsi := RSI(closes, rsiPeriod)
	macdLine, signalLine, hist := MACD(closes, macdFast, macdSlow, macdSignal)
	bbUpper, bbMiddle, bbLower := BollingerBands(closes, bbPeriod, bbStd)
	atr := ATR(bars, atrPeriod)
	stochK, stochD := Stochastic(bars, stochKPeriod, stochDPeriod)
	obv := OBV(bars)
	vwap := VWAP(bars, vwapPeriod)
	willR := WilliamsR(bars, willRPeriod)
	avgVol := SMA(volumes, avgVolPeriod)

	sample := func(i int, adx float64) *models.IndicatorSnapshot {
		s := models.NewIndicatorSnapshot(symbol, bars[i].Timestamp)
		s.Close = closes[i]
		s.Volume = volumes[i]
		s.RSI = rsi[i]
		s.MACDLine = macdLine[i]
		s.MACDSignal = signalLine[i]
		s.MACDHist = hist[i]
		s.SMA20 = sma20[i]
		s.SMA50 = sma50[i]
		s.SMA200 = sma200[i]
		s.EMA20 = ema20[i]
		s.BBUpper = bbUpper[i]
		s.BBMiddle = bbMiddle[i]
		s.BBLower = bbLower[i]
		s.ATR = atr[i]
		s.StochK = stochK[i]
		s.StochD = stochD[i]
		s.ADX = adx
		s.OBV = obv[i]
		s.VWAP = vwap[i]
		s.WilliamsR = willR[i]
		s.AvgVolume20 = avgVol[i]
		if defined(avgVol[i]) && avgVol[i] > 0 {
			s.VolumeRatio = volumes[i] / avgVol[i]
		}
		if defined(sma200[i]) && sma200[i] != 0 {
			s.PctFromSMA200 = (closes[i] - sma200[i]) / sma200[i] * 100
		}
		s.ConsecutiveRed, s.ConsecutiveGreen = ConsecutiveRuns(closes[:i+1])
		return s
	}

	curr = sample(n-1, ADX(bars, adxPeriod))
	if n >= 2 {
		prev = sample(n-2, ADX(bars[:n-1], adxPeriod))
	}
	return curr, prev
}
