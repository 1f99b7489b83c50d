package models

import "time"

// SignalRow is the per-symbol, per-run row pushed to the archival sink for
// historical analytics. The engine only produces the shape; persistence is an
// external concern behind the RowArchiver interface.
type SignalRow struct {
	RunID          string
	Symbol         string
	Timestamp      time.Time
	Close          float64
	Volume         float64
	RSI            float64
	ADX            float64
	OversoldScore  float64
	BullishScore   float64
	ReversalScore  float64
	DivergenceType string
	DivergenceStr  float64
	TriggerCount   int
}
