package scoring

import "math"

// bucketTable is a monotonic step function mapping a raw indicator value into
// a 0-10 sub-score. scores[i] applies when v < cuts[i]; the last score is the
// default. An undefined (NaN) input always maps to 0 so a missing indicator
// contributes nothing instead of poisoning the composite.
type bucketTable struct {
	cuts   []float64
	scores []float64 // len(cuts)+1
}

func (b bucketTable) apply(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	for i, cut := range b.cuts {
		if v < cut {
			return b.scores[i]
		}
	}
	return b.scores[len(b.cuts)]
}

// Oversold-direction tables: low readings score high.
var (
	rsiOversoldBuckets = bucketTable{
		cuts:   []float64{15, 20, 25, 30, 40, 50},
		scores: []float64{10, 9, 7, 6, 4, 2, 1},
	}
	williamsOversoldBuckets = bucketTable{
		cuts:   []float64{-90, -80, -70, -50, -30},
		scores: []float64{10, 8, 6, 4, 2, 1},
	}
	stochOversoldBuckets = bucketTable{
		cuts:   []float64{10, 20, 30, 50},
		scores: []float64{10, 8, 6, 3, 1},
	}
	// signed percent distance from SMA200; deep below scores high
	pctBelowSMA200Buckets = bucketTable{
		cuts:   []float64{-40, -30, -20, -10, -5},
		scores: []float64{10, 8, 6, 4, 2, 1},
	}
	// Bollinger position (close-lower)/(upper-lower); pinned to the lower band
	// scores high
	bbPositionBuckets = bucketTable{
		cuts:   []float64{0, 0.1, 0.25, 0.5},
		scores: []float64{10, 8, 6, 3, 1},
	}
)

// Bullish-direction tables: mirrored thresholds, high readings score high.
var (
	rsiBullishBuckets = bucketTable{
		cuts:   []float64{50, 55, 60, 65, 70, 80},
		scores: []float64{1, 3, 5, 7, 8, 9, 10},
	}
	adxTrendBuckets = bucketTable{
		cuts:   []float64{15, 20, 25, 35, 45},
		scores: []float64{1, 2, 4, 7, 9, 10},
	}
	macdHistBuckets = bucketTable{
		cuts:   []float64{-0.5, 0, 0.25, 1},
		scores: []float64{1, 2, 5, 8, 10},
	}
	pctAboveSMA200Buckets = bucketTable{
		cuts:   []float64{0, 3, 8, 15, 30},
		scores: []float64{1, 3, 6, 8, 9, 10},
	}
)

// Shared tables.
var (
	// trailing run of same-direction closes, capped
	consecutiveDayBuckets = bucketTable{
		cuts:   []float64{1, 2, 3, 4, 5, 7},
		scores: []float64{1, 1, 2, 3, 5, 7, 10},
	}
	// today's volume over its 20-day average
	volumeRatioBuckets = bucketTable{
		cuts:   []float64{0.8, 1.2, 1.5, 2, 3},
		scores: []float64{1, 2, 4, 6, 8, 10},
	}
	// oscillator-spread divergence strength, scaled for RSI-like ranges
	divergenceStrengthBuckets = bucketTable{
		cuts:   []float64{0.001, 2, 5, 10, 15},
		scores: []float64{0, 2, 5, 7, 9, 10},
	}
)
