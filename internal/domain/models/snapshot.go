package models

import (
	"math"
	"time"
)

// Undefined marks an indicator value that could not be computed (insufficient
// history or missing input). Consumers must check Defined before using a value;
// an undefined value is never zero.
var Undefined = math.NaN()

// Defined reports whether an indicator value is usable.
func Defined(v float64) bool { return !math.IsNaN(v) }

// IndicatorSnapshot holds the most recent computed indicator values for one
// symbol. Every float field defaults to Undefined, not zero, so a snapshot built
// from a short series degrades field by field instead of lying with zeros.
type IndicatorSnapshot struct {
	Symbol    string
	Timestamp time.Time

	Close  float64
	Volume float64

	RSI        float64
	MACDLine   float64
	MACDSignal float64
	MACDHist   float64

	SMA20  float64
	SMA50  float64
	SMA200 float64
	EMA20  float64

	BBUpper  float64
	BBMiddle float64
	BBLower  float64

	ATR       float64
	StochK    float64
	StochD    float64
	ADX       float64
	OBV       float64
	VWAP      float64
	WilliamsR float64

	// Derived fields used by the scoring engine.
	AvgVolume20      float64
	VolumeRatio      float64 // today's volume over 20-day average
	PctFromSMA200    float64 // percent distance of close from SMA200, signed
	ConsecutiveRed   int     // trailing run of lower closes
	ConsecutiveGreen int     // trailing run of higher closes
}

// NewIndicatorSnapshot returns a snapshot with every numeric field undefined.
func NewIndicatorSnapshot(symbol string, ts time.Time) *IndicatorSnapshot {
	return &IndicatorSnapshot{
		Symbol:        symbol,
		Timestamp:     ts,
		Close:         Undefined,
		Volume:        Undefined,
		RSI:           Undefined,
		MACDLine:      Undefined,
		MACDSignal:    Undefined,
		MACDHist:      Undefined,
		SMA20:         Undefined,
		SMA50:         Undefined,
		SMA200:        Undefined,
		EMA20:         Undefined,
		BBUpper:       Undefined,
		BBMiddle:      Undefined,
		BBLower:       Undefined,
		ATR:           Undefined,
		StochK:        Undefined,
		StochD:        Undefined,
		ADX:           Undefined,
		OBV:           Undefined,
		VWAP:          Undefined,
		WilliamsR:     Undefined,
		AvgVolume20:   Undefined,
		VolumeRatio:   Undefined,
		PctFromSMA200: Undefined,
	}
}
