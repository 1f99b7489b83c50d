package indicators

import (
	"math"
	"testing"
	"time"

	"StockSentry/internal/domain/models"
)

func syntheticBars(closes []float64) models.PriceSeries {
	bars := make(models.PriceSeries, len(closes))
	t0 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = models.PriceBar{
			Timestamp: t0.AddDate(0, 0, i),
			Open:      c - 0.5,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000 + float64(i%7)*100,
		}
	}
	return bars
}

func wavyCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 10*math.Sin(float64(i)/5) + 0.05*float64(i)
	}
	return out
}

func TestSMAAlignment(t *testing.T) {
	closes := wavyCloses(30)
	out := SMA(closes, 10)
	if len(out) != len(closes) {
		t.Fatalf("len mismatch: %d vs %d", len(out), len(closes))
	}
	for i := 0; i < 9; i++ {
		if !math.IsNaN(out[i]) {
			t.Fatalf("index %d should be NaN, got %v", i, out[i])
		}
	}
	for i := 9; i < len(out); i++ {
		if math.IsNaN(out[i]) {
			t.Fatalf("index %d should be defined", i)
		}
	}
	// hand check the first window
	sum := 0.0
	for i := 0; i < 10; i++ {
		sum += closes[i]
	}
	if math.Abs(out[9]-sum/10) > 1e-9 {
		t.Fatalf("sma[9] = %v, want %v", out[9], sum/10)
	}
}

func TestEMAShortInput(t *testing.T) {
	out := EMA([]float64{1, 2, 3}, 5)
	for i, v := range out {
		if !math.IsNaN(v) {
			t.Fatalf("index %d should be NaN for short input", i)
		}
	}
}

func TestRSIBounds(t *testing.T) {
	closes := wavyCloses(100)
	out := RSI(closes, 14)
	for i, v := range out {
		if math.IsNaN(v) {
			continue
		}
		if v < 0 || v > 100 {
			t.Fatalf("rsi[%d] = %v out of [0,100]", i, v)
		}
	}
}

func TestRSIMonotonicRiseIs100(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	out := RSI(closes, 14)
	last := out[len(out)-1]
	if last != 100 {
		t.Fatalf("rsi on rising series = %v, want 100", last)
	}
}

func TestRSIFlatIs50(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 55
	}
	out := RSI(closes, 14)
	if out[len(out)-1] != 50 {
		t.Fatalf("rsi on flat series = %v, want 50", out[len(out)-1])
	}
}

func TestMACDIdentity(t *testing.T) {
	closes := wavyCloses(120)
	macd, signal, hist := MACD(closes, 12, 26, 9)
	if len(macd) != len(closes) || len(signal) != len(closes) || len(hist) != len(closes) {
		t.Fatalf("length mismatch")
	}
	seen := 0
	for i := range hist {
		if math.IsNaN(hist[i]) {
			continue
		}
		seen++
		if math.Abs(hist[i]-(macd[i]-signal[i])) > 1e-9 {
			t.Fatalf("hist[%d] = %v, macd-signal = %v", i, hist[i], macd[i]-signal[i])
		}
	}
	if seen == 0 {
		t.Fatalf("no defined histogram values on 120 bars")
	}
}

func TestBollingerOrdering(t *testing.T) {
	closes := wavyCloses(80)
	upper, middle, lower := BollingerBands(closes, 20, 2)
	for i := range closes {
		if math.IsNaN(upper[i]) || math.IsNaN(middle[i]) || math.IsNaN(lower[i]) {
			continue
		}
		if upper[i] < middle[i] || middle[i] < lower[i] {
			t.Fatalf("band order violated at %d: %v %v %v", i, upper[i], middle[i], lower[i])
		}
	}
}

func TestATRNonNegative(t *testing.T) {
	bars := syntheticBars(wavyCloses(60))
	out := ATR(bars, 14)
	for i, v := range out {
		if math.IsNaN(v) {
			continue
		}
		if v < 0 {
			t.Fatalf("atr[%d] = %v negative", i, v)
		}
	}
}

func TestStochasticBounds(t *testing.T) {
	bars := syntheticBars(wavyCloses(60))
	k, d := Stochastic(bars, 14, 3)
	for i := range k {
		if !math.IsNaN(k[i]) && (k[i] < 0 || k[i] > 100) {
			t.Fatalf("%%K[%d] = %v out of range", i, k[i])
		}
		if !math.IsNaN(d[i]) && (d[i] < 0 || d[i] > 100) {
			t.Fatalf("%%D[%d] = %v out of range", i, d[i])
		}
	}
}

func TestWilliamsRBounds(t *testing.T) {
	bars := syntheticBars(wavyCloses(40))
	out := WilliamsR(bars, 14)
	for i, v := range out {
		if math.IsNaN(v) {
			continue
		}
		if v < -100 || v > 0 {
			t.Fatalf("williams[%d] = %v out of [-100,0]", i, v)
		}
	}
}

func TestADXShortSeriesFallback(t *testing.T) {
	bars := syntheticBars(wavyCloses(10))
	if got := ADX(bars, 14); got != 20 {
		t.Fatalf("short-series ADX = %v, want neutral 20", got)
	}
}

func TestADXBounded(t *testing.T) {
	bars := syntheticBars(wavyCloses(120))
	got := ADX(bars, 14)
	if got < 0 || got > 100 {
		t.Fatalf("ADX = %v out of [0,100]", got)
	}
}

func TestOBVDirection(t *testing.T) {
	bars := syntheticBars([]float64{10, 11, 10.5, 10.5, 12})
	out := OBV(bars)
	if out[1] <= out[0] {
		t.Fatalf("up close must raise OBV")
	}
	if out[2] >= out[1] {
		t.Fatalf("down close must lower OBV")
	}
	if out[3] != out[2] {
		t.Fatalf("flat close must hold OBV")
	}
}

func TestVWAPZeroVolumeFallback(t *testing.T) {
	bars := syntheticBars([]float64{10, 11, 12, 13, 14})
	for i := range bars {
		bars[i].Volume = 0
	}
	out := VWAP(bars, 3)
	if out[4] != bars[4].Close {
		t.Fatalf("zero-volume VWAP = %v, want last close %v", out[4], bars[4].Close)
	}
}

func TestConsecutiveRuns(t *testing.T) {
	red, green := ConsecutiveRuns([]float64{10, 9, 8, 7})
	if red != 3 || green != 0 {
		t.Fatalf("got red=%d green=%d, want 3/0", red, green)
	}
	red, green = ConsecutiveRuns([]float64{7, 8, 9})
	if red != 0 || green != 2 {
		t.Fatalf("got red=%d green=%d, want 0/2", red, green)
	}
	red, green = ConsecutiveRuns([]float64{5})
	if red != 0 || green != 0 {
		t.Fatalf("single bar must have no runs")
	}
}

func TestBuildSnapshotsDegradesGracefully(t *testing.T) {
	bars := syntheticBars(wavyCloses(60))
	curr, prev := BuildSnapshots("TEST", bars)
	if curr == nil || prev == nil {
		t.Fatalf("expected both snapshots on 60 bars")
	}
	if !models.Defined(curr.RSI) || !models.Defined(curr.SMA50) {
		t.Fatalf("short-lookback fields should be defined on 60 bars")
	}
	if models.Defined(curr.SMA200) {
		t.Fatalf("SMA200 must be undefined on 60 bars")
	}
	if curr.Timestamp != bars[len(bars)-1].Timestamp {
		t.Fatalf("curr sampled at wrong bar")
	}
	if prev.Timestamp != bars[len(bars)-2].Timestamp {
		t.Fatalf("prev sampled at wrong bar")
	}
}
