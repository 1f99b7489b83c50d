package swing

import (
	"math"
	"testing"

	"StockSentry/internal/domain/models"
)

// Two clear lows (85 then 80) and two highs (100 then 95), each with three
// strictly lesser/greater bars on both sides.
var vShapedPrice = []float64{
	90, 92, 94, 96, 98, 100, 97, 93, 89, 87,
	85, 88, 91, 95, 93, 90, 86, 83, 80, 82,
	84, 87,
}

func flatOscillatorWith(values map[int]float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 50
	}
	for i, v := range values {
		out[i] = v
	}
	return out
}

func TestFindSwingPointsDetectsExtrema(t *testing.T) {
	pts := FindSwingPoints(vShapedPrice, 3)
	if len(pts) != 4 {
		t.Fatalf("expected 4 swing points, got %d: %+v", len(pts), pts)
	}
	want := []struct {
		index int
		kind  models.SwingKind
	}{
		{5, models.SwingHigh}, {10, models.SwingLow}, {13, models.SwingHigh}, {18, models.SwingLow},
	}
	for i, w := range want {
		if pts[i].Index != w.index || pts[i].Kind != w.kind {
			t.Fatalf("point %d = %+v, want index %d kind %s", i, pts[i], w.index, w.kind)
		}
	}
}

func TestFindSwingPointsTiesExcluded(t *testing.T) {
	// flat top: no strict high anywhere
	series := []float64{1, 2, 3, 3, 3, 2, 1}
	for _, p := range FindSwingPoints(series, 2) {
		if p.Kind == models.SwingHigh {
			t.Fatalf("tied plateau must not produce a swing high: %+v", p)
		}
	}
}

func TestFindSwingPointsAlternation(t *testing.T) {
	inputs := [][]float64{
		vShapedPrice,
		{3, 1, 2, 2, 1, 3},          // shelf hides the high between two equal lows
		{5, 1, 3, 1.5, 0.5, 4, 2, 6}, // ragged
	}
	for _, series := range inputs {
		pts := FindSwingPoints(series, 1)
		for i := 1; i < len(pts); i++ {
			if pts[i].Kind == pts[i-1].Kind {
				t.Fatalf("same-kind neighbours at %d in %v: %+v", i, series, pts)
			}
		}
	}
}

func TestRecentSwingPointsNearestFirst(t *testing.T) {
	pts := RecentSwingPoints(vShapedPrice, 2, 0, 3)
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}
	if pts[0].Index != 18 || pts[1].Index != 13 {
		t.Fatalf("expected nearest-first ordering, got %+v", pts)
	}
}

func TestRecentSwingPointsLookbackWindow(t *testing.T) {
	// lookback 9 covers indices 13..21: only the low at 18 has a full window
	pts := RecentSwingPoints(vShapedPrice, 5, 9, 3)
	for _, p := range pts {
		if p.Index < len(vShapedPrice)-9 {
			t.Fatalf("point outside lookback window: %+v", p)
		}
	}
}

func TestDetectBullishDivergence(t *testing.T) {
	osc := flatOscillatorWith(map[int]float64{10: 30, 18: 38}, len(vShapedPrice))
	got := DetectDivergence(vShapedPrice, osc, 0, "RSI")
	if got.Type != models.DivergenceBullish {
		t.Fatalf("expected bullish, got %+v", got)
	}
	if got.Strength <= 0 {
		t.Fatalf("bullish divergence must have positive strength, got %v", got.Strength)
	}
	if math.Abs(got.Strength-8) > 1e-9 {
		t.Fatalf("strength must be the oscillator spread, got %v", got.Strength)
	}
}

func TestDetectBearishDivergence(t *testing.T) {
	// Mirror the price so the swing highs make a higher high.
	price := make([]float64, len(vShapedPrice))
	for i, v := range vShapedPrice {
		price[i] = 200 - v
	}
	osc := flatOscillatorWith(map[int]float64{10: 80, 18: 71}, len(price))
	got := DetectDivergence(price, osc, 0, "RSI")
	if got.Type != models.DivergenceBearish {
		t.Fatalf("expected bearish, got %+v", got)
	}
}

func TestDetectDivergenceThinInput(t *testing.T) {
	cases := [][]float64{nil, {}, {10, 11, 9}}
	for _, price := range cases {
		osc := make([]float64, len(price))
		got := DetectDivergence(price, osc, 30, "RSI")
		if got.Type != models.DivergenceNone || got.Strength != 0 {
			t.Fatalf("thin input must be none/0, got %+v", got)
		}
	}
}

func TestDetectDivergenceUndefinedOscillator(t *testing.T) {
	osc := flatOscillatorWith(map[int]float64{10: math.NaN(), 18: 38}, len(vShapedPrice))
	got := DetectDivergence(vShapedPrice, osc, 0, "RSI")
	if got.Type == models.DivergenceBullish {
		t.Fatalf("NaN at a swing index must not classify bullish")
	}
}

func TestDetectStrongestPrefersRSIOnTie(t *testing.T) {
	rsi := flatOscillatorWith(map[int]float64{10: 30, 18: 38}, len(vShapedPrice))
	obv := flatOscillatorWith(map[int]float64{10: 30, 18: 38}, len(vShapedPrice))
	got := DetectStrongest(vShapedPrice, map[string][]float64{"OBV": obv, "RSI": rsi}, 0)
	if got.Indicator != "RSI" {
		t.Fatalf("tie must go to RSI, got %q", got.Indicator)
	}
}

func TestDetectStrongestPicksLargerSpread(t *testing.T) {
	weak := flatOscillatorWith(map[int]float64{10: 30, 18: 32}, len(vShapedPrice))
	strong := flatOscillatorWith(map[int]float64{10: 30, 18: 44}, len(vShapedPrice))
	got := DetectStrongest(vShapedPrice, map[string][]float64{"RSI": weak, "STOCH_K": strong}, 0)
	if got.Indicator != "STOCH_K" {
		t.Fatalf("expected the stronger oscillator to win, got %+v", got)
	}
}

func TestRSIDivergenceSummary(t *testing.T) {
	osc := flatOscillatorWith(map[int]float64{10: 30, 18: 38}, len(vShapedPrice))
	if s := DetectRSIDivergence(vShapedPrice, osc, 0); s == "" {
		t.Fatalf("expected a summary string")
	}
	if s := DetectRSIDivergence(vShapedPrice, flatOscillatorWith(nil, len(vShapedPrice)), 0); s != "" {
		t.Fatalf("no divergence must summarize to empty string, got %q", s)
	}
}
