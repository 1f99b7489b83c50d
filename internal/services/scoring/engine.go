// Package scoring combines indicator readings into bounded composite scores.
// Each variant maps raw values through indicator-specific bucket tables into
// 0-10 sub-scores, then takes a weighted sum clipped to [0,10].
package scoring

import (
	"fmt"
	"math"

	"StockSentry/internal/domain/models"
)

// DefaultMinBars is the least history a composite score is computed from.
// Below it every variant returns the insufficient-data sentinel.
const DefaultMinBars = 50

// Config tunes the engine. Nil weight maps fall back to the default tables.
type Config struct {
	MinBars  int
	Oversold map[string]float64
	Bullish  map[string]float64
	Reversal map[string]float64
}

// Engine computes the three composite score variants. Construct with
// NewEngine; the zero value is not usable.
type Engine struct {
	minBars  int
	oversold Weights
	bullish  Weights
	reversal Weights
}

// NewEngine validates every weight table at construction. An invalid table is
// an operator mistake and fails loudly here rather than during a batch run.
func NewEngine(cfg Config) (*Engine, error) {
	minBars := cfg.MinBars
	if minBars <= 0 {
		minBars = DefaultMinBars
	}

	pick := func(custom, def map[string]float64) map[string]float64 {
		if custom != nil {
			return custom
		}
		return def
	}

	oversold, err := NewWeights(pick(cfg.Oversold, defaultOversoldWeights), oversoldComponents)
	if err != nil {
		return nil, fmt.Errorf("oversold %w", err)
	}
	bullish, err := NewWeights(pick(cfg.Bullish, defaultBullishWeights), bullishComponents)
	if err != nil {
		return nil, fmt.Errorf("bullish %w", err)
	}
	reversal, err := NewWeights(pick(cfg.Reversal, defaultReversalWeights), reversalComponents)
	if err != nil {
		return nil, fmt.Errorf("reversal %w", err)
	}

	return &Engine{minBars: minBars, oversold: oversold, bullish: bullish, reversal: reversal}, nil
}

// insufficient is the sentinel distinguishing "no data" from a low score.
func insufficient() models.ScoreResult {
	return models.ScoreResult{
		FinalScore: 0,
		Components: map[string]float64{},
		RawValues:  map[string]float64{},
	}
}

// Oversold scores how washed-out a symbol looks: depressed oscillators, a
// close far under its long average, a run of red days.
func (e *Engine) Oversold(snap *models.IndicatorSnapshot, barCount int) models.ScoreResult {
	if snap == nil || barCount < e.minBars {
		return insufficient()
	}
	return e.compose(e.oversold, func(component string) (raw, sub float64) {
		switch component {
		case CompRSI:
			return snap.RSI, rsiOversoldBuckets.apply(snap.RSI)
		case CompWilliamsR:
			return snap.WilliamsR, williamsOversoldBuckets.apply(snap.WilliamsR)
		case CompStochK:
			return snap.StochK, stochOversoldBuckets.apply(snap.StochK)
		case CompPctFromSMA200:
			return snap.PctFromSMA200, pctBelowSMA200Buckets.apply(snap.PctFromSMA200)
		case CompConsecutiveDays:
			v := float64(snap.ConsecutiveRed)
			return v, consecutiveDayBuckets.apply(v)
		case CompVolumeRatio:
			return snap.VolumeRatio, volumeRatioBuckets.apply(snap.VolumeRatio)
		}
		return models.Undefined, 0
	})
}

// BullishTrend scores trend participation: momentum above the midline, a
// positive MACD histogram, directional strength, price over the long average.
func (e *Engine) BullishTrend(snap *models.IndicatorSnapshot, barCount int) models.ScoreResult {
	if snap == nil || barCount < e.minBars {
		return insufficient()
	}
	return e.compose(e.bullish, func(component string) (raw, sub float64) {
		switch component {
		case CompRSI:
			return snap.RSI, rsiBullishBuckets.apply(snap.RSI)
		case CompMACDHist:
			return snap.MACDHist, macdHistBuckets.apply(snap.MACDHist)
		case CompADX:
			return snap.ADX, adxTrendBuckets.apply(snap.ADX)
		case CompPctFromSMA200:
			return snap.PctFromSMA200, pctAboveSMA200Buckets.apply(snap.PctFromSMA200)
		case CompConsecutiveDays:
			v := float64(snap.ConsecutiveGreen)
			return v, consecutiveDayBuckets.apply(v)
		case CompVolumeRatio:
			return snap.VolumeRatio, volumeRatioBuckets.apply(snap.VolumeRatio)
		}
		return models.Undefined, 0
	})
}

// Reversal scores a bullish turn setting up inside a decline: oversold
// oscillators plus confirmed bullish divergence near the lower band.
func (e *Engine) Reversal(snap *models.IndicatorSnapshot, div models.DivergenceResult, barCount int) models.ScoreResult {
	if snap == nil || barCount < e.minBars {
		return insufficient()
	}
	divStrength := 0.0
	if div.Type == models.DivergenceBullish || div.Type == models.DivergenceHiddenBullish {
		divStrength = div.Strength
	}
	return e.compose(e.reversal, func(component string) (raw, sub float64) {
		switch component {
		case CompRSI:
			return snap.RSI, rsiOversoldBuckets.apply(snap.RSI)
		case CompDivergence:
			return divStrength, divergenceStrengthBuckets.apply(divStrength)
		case CompStochK:
			return snap.StochK, stochOversoldBuckets.apply(snap.StochK)
		case CompConsecutiveDays:
			v := float64(snap.ConsecutiveRed)
			return v, consecutiveDayBuckets.apply(v)
		case CompBBPosition:
			pos := bbPosition(snap)
			return pos, bbPositionBuckets.apply(pos)
		case CompVolumeRatio:
			return snap.VolumeRatio, volumeRatioBuckets.apply(snap.VolumeRatio)
		}
		return models.Undefined, 0
	})
}

// bbPosition places the close inside the Bollinger channel, 0 at the lower
// band and 1 at the upper.
func bbPosition(snap *models.IndicatorSnapshot) float64 {
	if !models.Defined(snap.BBUpper) || !models.Defined(snap.BBLower) || !models.Defined(snap.Close) {
		return models.Undefined
	}
	width := snap.BBUpper - snap.BBLower
	if width == 0 {
		return models.Undefined
	}
	return (snap.Close - snap.BBLower) / width
}

func (e *Engine) compose(weights Weights, eval func(component string) (raw, sub float64)) models.ScoreResult {
	components := make(map[string]float64)
	raws := make(map[string]float64)
	total := 0.0
	for _, name := range weights.Components() {
		raw, sub := eval(name)
		components[name] = sub
		raws[name] = raw
		total += weights.Get(name) * sub
	}
	return models.ScoreResult{
		FinalScore: round1(clip(total, 0, 10)),
		Components: components,
		RawValues:  raws,
	}
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
