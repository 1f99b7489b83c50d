package models

// SwingKind tags a local extremum as a high or a low.
type SwingKind string

const (
	SwingHigh SwingKind = "high"
	SwingLow  SwingKind = "low"
)

// SwingPoint is a local extremum of a series over a comparison window.
type SwingPoint struct {
	Index int
	Price float64
	Kind  SwingKind
}

// DivergenceType classifies a price-vs-oscillator divergence.
type DivergenceType string

const (
	DivergenceNone          DivergenceType = "none"
	DivergenceBullish       DivergenceType = "bullish"
	DivergenceBearish       DivergenceType = "bearish"
	DivergenceHiddenBullish DivergenceType = "hidden_bullish"
	DivergenceHiddenBearish DivergenceType = "hidden_bearish"
)

// DivergenceResult is the outcome of one divergence check. Strength is a
// non-negative magnitude used to rank results; Type == DivergenceNone implies
// Strength == 0.
type DivergenceResult struct {
	Type      DivergenceType `json:"type"`
	Strength  float64        `json:"strength"`
	Detail    string         `json:"detail"`
	Indicator string         `json:"indicator,omitempty"`
}

// NoDivergence is the graceful-degradation result for thin or missing data.
func NoDivergence() DivergenceResult {
	return DivergenceResult{Type: DivergenceNone}
}
