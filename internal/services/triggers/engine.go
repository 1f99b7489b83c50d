// Package triggers evaluates declarative trigger definitions against computed
// indicator snapshots and emits de-duplicated trigger events.
package triggers

import (
	"time"

	"github.com/google/uuid"

	"StockSentry/internal/domain/models"
	applogger "StockSentry/pkg/logger"
)

// Cooldowns is the slice of persisted state the engine consults. Implemented
// by *state.State.
type Cooldowns interface {
	InCooldown(key string, now time.Time) bool
	EmittedLastRun(key string) bool
}

// Suppressions answers manual-mute lookups. Implemented by
// *state.SuppressionList.
type Suppressions interface {
	Active(symbol string, kind models.TriggerKind, now time.Time) bool
}

// Input is everything computed for one symbol this run.
type Input struct {
	Symbol     string
	Curr       *models.IndicatorSnapshot
	Prev       *models.IndicatorSnapshot // nil when under two bars of history
	Scores     map[string]models.ScoreResult
	Divergence models.DivergenceResult
}

// Engine runs trigger definitions through the idle -> fired -> cooling-down
// state machine. The engine itself is stateless; cooldown persistence is the
// caller's load-mutate-save cycle.
type Engine struct {
	l *applogger.Logger
}

func NewEngine(l *applogger.Logger) *Engine {
	return &Engine{l: l}
}

// Evaluate checks every definition against the snapshot pair and returns the
// events that survive cooldown, manual suppression and last-run de-dup.
// A malformed definition is skipped with a warning; it never aborts the
// symbol, and one symbol never aborts the batch (the caller guards that).
func (e *Engine) Evaluate(defs []models.TriggerDefinition, in Input, cd Cooldowns, sup Suppressions, now time.Time) []models.TriggerEvent {
	if in.Curr == nil {
		return nil
	}

	events := make([]models.TriggerEvent, 0, 4)
	for _, def := range defs {
		hit, ok := e.condition(def, in)
		if !ok {
			e.warn("unrecognized or malformed trigger definition skipped", in.Symbol, def)
			continue
		}
		if !hit {
			continue
		}

		key := def.Key(in.Symbol)
		switch {
		case cd != nil && cd.InCooldown(key, now):
			continue
		case sup != nil && sup.Active(in.Symbol, def.Kind, now):
			continue
		case cd != nil && cd.EmittedLastRun(key):
			// condition stayed true across consecutive runs; the first run
			// already notified
			continue
		}

		events = append(events, models.TriggerEvent{
			ID:          uuid.New().String(),
			Symbol:      in.Symbol,
			TriggerKey:  key,
			Kind:        def.Kind,
			Action:      def.Action,
			Description: def.Description,
			Fields:      e.fields(def.Kind, in),
			Timestamp:   now,
		})
	}
	return events
}

// condition returns (hit, ok). ok is false when the definition itself is
// malformed: unknown kind or a parameter payload of the wrong type.
func (e *Engine) condition(def models.TriggerDefinition, in Input) (bool, bool) {
	curr, prev := in.Curr, in.Prev

	switch def.Kind {
	case models.TriggerScoreAbove:
		p, ok := def.Params.(models.ScoreParams)
		if !ok {
			return false, false
		}
		score, found := in.Scores[p.Variant]
		return found && !score.Insufficient() && score.FinalScore >= p.Threshold, true

	case models.TriggerRSIBelow:
		p, ok := def.Params.(models.ThresholdParams)
		if !ok {
			return false, false
		}
		return models.Defined(curr.RSI) && curr.RSI < p.Threshold, true

	case models.TriggerRSIAbove:
		p, ok := def.Params.(models.ThresholdParams)
		if !ok {
			return false, false
		}
		return models.Defined(curr.RSI) && curr.RSI > p.Threshold, true

	case models.TriggerRSICrossesBelow:
		p, ok := def.Params.(models.ThresholdParams)
		if !ok {
			return false, false
		}
		return crossedBelow(prevVal(prev, func(s *models.IndicatorSnapshot) float64 { return s.RSI }),
			curr.RSI, p.Threshold), true

	case models.TriggerRSICrossesAbove:
		p, ok := def.Params.(models.ThresholdParams)
		if !ok {
			return false, false
		}
		return crossedAbove(prevVal(prev, func(s *models.IndicatorSnapshot) float64 { return s.RSI }),
			curr.RSI, p.Threshold), true

	case models.TriggerPriceCrossesAboveMA:
		p, ok := def.Params.(models.MACrossParams)
		if !ok {
			return false, false
		}
		currMA, prevMA, maOK := maPair(curr, prev, p.Period)
		if !maOK {
			return false, true
		}
		prevClose := prevVal(prev, func(s *models.IndicatorSnapshot) float64 { return s.Close })
		return models.Defined(prevClose) && models.Defined(curr.Close) &&
			prevClose <= prevMA && curr.Close > currMA, true

	case models.TriggerPriceCrossesBelowMA:
		p, ok := def.Params.(models.MACrossParams)
		if !ok {
			return false, false
		}
		currMA, prevMA, maOK := maPair(curr, prev, p.Period)
		if !maOK {
			return false, true
		}
		prevClose := prevVal(prev, func(s *models.IndicatorSnapshot) float64 { return s.Close })
		return models.Defined(prevClose) && models.Defined(curr.Close) &&
			prevClose >= prevMA && curr.Close < currMA, true

	case models.TriggerMACDHistFlipPositive:
		if _, ok := def.Params.(models.FlipParams); !ok {
			return false, false
		}
		prevHist := prevVal(prev, func(s *models.IndicatorSnapshot) float64 { return s.MACDHist })
		return models.Defined(prevHist) && models.Defined(curr.MACDHist) &&
			prevHist <= 0 && curr.MACDHist > 0, true

	case models.TriggerMACDHistFlipNegative:
		if _, ok := def.Params.(models.FlipParams); !ok {
			return false, false
		}
		prevHist := prevVal(prev, func(s *models.IndicatorSnapshot) float64 { return s.MACDHist })
		return models.Defined(prevHist) && models.Defined(curr.MACDHist) &&
			prevHist >= 0 && curr.MACDHist < 0, true

	case models.TriggerStochasticBullCross:
		if _, ok := def.Params.(models.FlipParams); !ok {
			return false, false
		}
		if prev == nil {
			return false, true
		}
		if !models.Defined(prev.StochK) || !models.Defined(prev.StochD) ||
			!models.Defined(curr.StochK) || !models.Defined(curr.StochD) {
			return false, true
		}
		return prev.StochK <= prev.StochD && curr.StochK > curr.StochD, true

	case models.TriggerVolumeSpike:
		p, ok := def.Params.(models.VolumeSpikeParams)
		if !ok {
			return false, false
		}
		return models.Defined(curr.VolumeRatio) && curr.VolumeRatio >= p.Ratio, true

	case models.TriggerBullishDivergence:
		p, ok := def.Params.(models.DivergenceParams)
		if !ok {
			return false, false
		}
		bullish := in.Divergence.Type == models.DivergenceBullish ||
			in.Divergence.Type == models.DivergenceHiddenBullish
		return bullish && in.Divergence.Strength >= p.MinStrength, true
	}

	return false, false
}

// prevVal samples a field from the previous snapshot, NaN when absent.
// Crossing conditions need two points; one point is never a cross.
func prevVal(prev *models.IndicatorSnapshot, get func(*models.IndicatorSnapshot) float64) float64 {
	if prev == nil {
		return models.Undefined
	}
	return get(prev)
}

// crossedBelow is the two-point sign change: previous on or above the
// threshold, current strictly below.
func crossedBelow(prev, curr, threshold float64) bool {
	return models.Defined(prev) && models.Defined(curr) && prev >= threshold && curr < threshold
}

func crossedAbove(prev, curr, threshold float64) bool {
	return models.Defined(prev) && models.Defined(curr) && prev <= threshold && curr > threshold
}

// maPair selects the moving average for a cross definition from both
// snapshots. ok is false when either side is unavailable.
func maPair(curr, prev *models.IndicatorSnapshot, period int) (currMA, prevMA float64, ok bool) {
	if prev == nil {
		return 0, 0, false
	}
	sel := func(s *models.IndicatorSnapshot) float64 {
		switch period {
		case 20:
			return s.SMA20
		case 50:
			return s.SMA50
		case 200:
			return s.SMA200
		}
		return models.Undefined
	}
	currMA, prevMA = sel(curr), sel(prev)
	if !models.Defined(currMA) || !models.Defined(prevMA) {
		return 0, 0, false
	}
	return currMA, prevMA, true
}

// fields picks the snapshot values worth carrying on the event for the
// notification layer.
func (e *Engine) fields(kind models.TriggerKind, in Input) map[string]float64 {
	f := make(map[string]float64, 6)
	add := func(name string, v float64) {
		if models.Defined(v) {
			f[name] = v
		}
	}
	add("close", in.Curr.Close)
	add("volume", in.Curr.Volume)
	add("rsi", in.Curr.RSI)

	switch kind {
	case models.TriggerScoreAbove:
		for variant, score := range in.Scores {
			if !score.Insufficient() {
				f["score_"+variant] = score.FinalScore
			}
		}
	case models.TriggerPriceCrossesAboveMA, models.TriggerPriceCrossesBelowMA:
		add("sma_20", in.Curr.SMA20)
		add("sma_50", in.Curr.SMA50)
		add("sma_200", in.Curr.SMA200)
	case models.TriggerMACDHistFlipPositive, models.TriggerMACDHistFlipNegative:
		add("macd_hist", in.Curr.MACDHist)
	case models.TriggerStochasticBullCross:
		add("stoch_k", in.Curr.StochK)
		add("stoch_d", in.Curr.StochD)
	case models.TriggerVolumeSpike:
		add("volume_ratio", in.Curr.VolumeRatio)
	case models.TriggerBullishDivergence:
		f["divergence_strength"] = in.Divergence.Strength
	}
	return f
}

func (e *Engine) warn(msg, symbol string, def models.TriggerDefinition) {
	if e.l == nil {
		return
	}
	e.l.Warn(msg,
		applogger.String("symbol", symbol),
		applogger.String("kind", string(def.Kind)),
		applogger.String("action", def.Action),
	)
}
