package swing

import (
	"fmt"
	"math"

	"StockSentry/internal/domain/models"
)

// defaultSwingOrder is the extremum comparison window used by the divergence
// detectors. Three bars either side filters one-day noise without swallowing
// short swings.
const defaultSwingOrder = 3

// minDivergenceBars is the least history worth inspecting at all.
const minDivergenceBars = 3

// DetectDivergence compares price swings against an oscillator sampled at the
// same indices and classifies the divergence, if any. Strength is the absolute
// spread between the oscillator's two compared values, so it ranks how far
// momentum has decoupled from its own trend, not how far price moved.
//
// Thin input (fewer than 3 bars), a length-mismatched oscillator or undefined
// oscillator values at the swing indices all degrade to DivergenceNone.
func DetectDivergence(price, oscillator []float64, lookback int, indicator string) models.DivergenceResult {
	if len(price) < minDivergenceBars || len(oscillator) != len(price) {
		return models.NoDivergence()
	}

	// Bullish side: compare the two most recent price swing lows.
	if prior, latest, ok := lastTwoOfKind(price, lookback, defaultSwingOrder, models.SwingLow); ok {
		oscPrior, oscLatest := oscillator[prior.Index], oscillator[latest.Index]
		if !math.IsNaN(oscPrior) && !math.IsNaN(oscLatest) {
			if latest.Price < prior.Price && oscLatest > oscPrior {
				return divergenceResult(models.DivergenceBullish, indicator, prior, latest, oscPrior, oscLatest)
			}
			if latest.Price > prior.Price && oscLatest < oscPrior {
				return divergenceResult(models.DivergenceHiddenBullish, indicator, prior, latest, oscPrior, oscLatest)
			}
		}
	}

	// Bearish side: symmetric over swing highs.
	if prior, latest, ok := lastTwoOfKind(price, lookback, defaultSwingOrder, models.SwingHigh); ok {
		oscPrior, oscLatest := oscillator[prior.Index], oscillator[latest.Index]
		if !math.IsNaN(oscPrior) && !math.IsNaN(oscLatest) {
			if latest.Price > prior.Price && oscLatest < oscPrior {
				return divergenceResult(models.DivergenceBearish, indicator, prior, latest, oscPrior, oscLatest)
			}
			if latest.Price < prior.Price && oscLatest > oscPrior {
				return divergenceResult(models.DivergenceHiddenBearish, indicator, prior, latest, oscPrior, oscLatest)
			}
		}
	}

	return models.NoDivergence()
}

func divergenceResult(typ models.DivergenceType, indicator string, prior, latest models.SwingPoint, oscPrior, oscLatest float64) models.DivergenceResult {
	return models.DivergenceResult{
		Type:      typ,
		Strength:  math.Abs(oscLatest - oscPrior),
		Indicator: indicator,
		Detail: fmt.Sprintf("%s: price %.2f->%.2f, %s %.2f->%.2f",
			typ, prior.Price, latest.Price, indicator, oscPrior, oscLatest),
	}
}

// DetectRSIDivergence is a convenience wrapper returning a one-line summary
// for notification text, or "" when no divergence is present.
func DetectRSIDivergence(price, rsi []float64, lookback int) string {
	return summary(DetectDivergence(price, rsi, lookback, "RSI"))
}

// DetectOBVDivergence mirrors DetectRSIDivergence for On-Balance Volume.
func DetectOBVDivergence(price, obv []float64, lookback int) string {
	return summary(DetectDivergence(price, obv, lookback, "OBV"))
}

func summary(r models.DivergenceResult) string {
	if r.Type == models.DivergenceNone {
		return ""
	}
	return r.Detail
}

// oscillatorPriority breaks strength ties in DetectStrongest: RSI beats OBV
// beats everything else.
var oscillatorPriority = map[string]int{"RSI": 2, "OBV": 1}

// DetectStrongest runs every supplied oscillator through DetectDivergence and
// returns the strongest non-none result.
func DetectStrongest(price []float64, oscillators map[string][]float64, lookback int) models.DivergenceResult {
	best := models.NoDivergence()
	for name, osc := range oscillators {
		r := DetectDivergence(price, osc, lookback, name)
		if r.Type == models.DivergenceNone {
			continue
		}
		if r.Strength > best.Strength ||
			(r.Strength == best.Strength && oscillatorPriority[name] > oscillatorPriority[best.Indicator]) {
			best = r
		}
	}
	return best
}
