package models

import (
	"fmt"
	"time"
)

// TriggerKind is the closed set of conditions the trigger engine understands.
// New kinds require engine support; instances are pure configuration.
type TriggerKind string

const (
	TriggerScoreAbove           TriggerKind = "score_above"
	TriggerRSIBelow             TriggerKind = "rsi_below"
	TriggerRSIAbove             TriggerKind = "rsi_above"
	TriggerRSICrossesBelow      TriggerKind = "rsi_crosses_below"
	TriggerRSICrossesAbove      TriggerKind = "rsi_crosses_above"
	TriggerPriceCrossesAboveMA  TriggerKind = "price_crosses_above_ma"
	TriggerPriceCrossesBelowMA  TriggerKind = "price_crosses_below_ma"
	TriggerMACDHistFlipPositive TriggerKind = "macd_histogram_flip_positive"
	TriggerMACDHistFlipNegative TriggerKind = "macd_histogram_flip_negative"
	TriggerStochasticBullCross  TriggerKind = "stochastic_bullish_cross"
	TriggerVolumeSpike          TriggerKind = "volume_spike"
	TriggerBullishDivergence    TriggerKind = "bullish_divergence"
)

// KnownTriggerKinds lists every kind the engine dispatches on.
var KnownTriggerKinds = []TriggerKind{
	TriggerScoreAbove,
	TriggerRSIBelow,
	TriggerRSIAbove,
	TriggerRSICrossesBelow,
	TriggerRSICrossesAbove,
	TriggerPriceCrossesAboveMA,
	TriggerPriceCrossesBelowMA,
	TriggerMACDHistFlipPositive,
	TriggerMACDHistFlipNegative,
	TriggerStochasticBullCross,
	TriggerVolumeSpike,
	TriggerBullishDivergence,
}

// TriggerParams is the tagged-variant payload of a TriggerDefinition. Exactly
// one concrete type matches each kind; the engine dispatches with a type switch.
type TriggerParams interface {
	// Discriminator feeds the stable trigger key so that, say, rsi_below 30
	// and rsi_below 25 on the same symbol are distinct logical alerts.
	Discriminator() string
}

// ThresholdParams parametrizes simple level conditions (rsi_below, rsi_above,
// rsi_crosses_below, rsi_crosses_above).
type ThresholdParams struct {
	Threshold float64
}

func (p ThresholdParams) Discriminator() string { return fmt.Sprintf("%g", p.Threshold) }

// ScoreParams parametrizes score_above: which composite variant and the level.
type ScoreParams struct {
	Variant   string // "oversold", "bullish_trend", "reversal"
	Threshold float64
}

func (p ScoreParams) Discriminator() string { return fmt.Sprintf("%s/%g", p.Variant, p.Threshold) }

// MACrossParams parametrizes moving-average cross conditions.
type MACrossParams struct {
	Period int // 20, 50 or 200
}

func (p MACrossParams) Discriminator() string { return fmt.Sprintf("sma%d", p.Period) }

// VolumeSpikeParams parametrizes volume_spike: volume over its trailing average.
type VolumeSpikeParams struct {
	Ratio float64
}

func (p VolumeSpikeParams) Discriminator() string { return fmt.Sprintf("%gx", p.Ratio) }

// DivergenceParams parametrizes bullish_divergence.
type DivergenceParams struct {
	MinStrength float64
}

func (p DivergenceParams) Discriminator() string { return fmt.Sprintf("%g", p.MinStrength) }

// FlipParams carries no values; histogram flips and stochastic crosses are
// parameterized only by their kind.
type FlipParams struct{}

func (FlipParams) Discriminator() string { return "flip" }

// TriggerDefinition is one declarative trigger instance. Definitions are data:
// they are built from configuration, never from code.
type TriggerDefinition struct {
	Kind         TriggerKind
	Params       TriggerParams
	Action       string // "BUY", "SELL" or "ALERT"
	CooldownDays int
	Description  string
}

// Key derives the stable trigger key for a symbol. The same logical condition
// yields the same key on every run, which is what cooldown and de-dup hang off.
func (d TriggerDefinition) Key(symbol string) string {
	disc := "-"
	if d.Params != nil {
		disc = d.Params.Discriminator()
	}
	return fmt.Sprintf("%s:%s:%s:%s", symbol, d.Kind, d.Action, disc)
}

// TriggerEvent is one fired trigger, consumed by an external notification
// layer. The engine never performs the notification itself.
type TriggerEvent struct {
	ID          string             `json:"id"`
	Symbol      string             `json:"symbol"`
	TriggerKey  string             `json:"trigger_key"`
	Kind        TriggerKind        `json:"kind"`
	Action      string             `json:"action"`
	Description string             `json:"description"`
	Fields      map[string]float64 `json:"fields"` // snapshot fields relevant to the trigger
	Timestamp   time.Time          `json:"timestamp"`
}
