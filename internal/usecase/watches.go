package usecase

import (
	"fmt"

	"StockSentry/internal/domain/models"
	"StockSentry/pkg/config"
)

// BuildWatches converts raw configured watches into typed trigger
// definitions. A definition the engine cannot dispatch on is a configuration
// mistake and fails here, at startup, not silently during a run.
func BuildWatches(cfg *config.Config) ([]Watch, error) {
	out := make([]Watch, 0, len(cfg.Watches))
	for _, w := range cfg.Watches {
		defs := make([]models.TriggerDefinition, 0, len(w.Triggers))
		for i, raw := range w.Triggers {
			def, err := buildTrigger(raw)
			if err != nil {
				return nil, fmt.Errorf("watch %q trigger %d: %w", w.Name, i, err)
			}
			defs = append(defs, def)
		}
		out = append(out, Watch{
			Name:     w.Name,
			Symbols:  w.Symbols,
			Triggers: defs,
		})
	}
	return out, nil
}

func buildTrigger(raw config.Trigger) (models.TriggerDefinition, error) {
	kind := models.TriggerKind(raw.Kind)
	params, err := buildParams(kind, raw)
	if err != nil {
		return models.TriggerDefinition{}, err
	}
	return models.TriggerDefinition{
		Kind:         kind,
		Params:       params,
		Action:       raw.Action,
		CooldownDays: raw.CooldownDays,
		Description:  raw.Description,
	}, nil
}

func buildParams(kind models.TriggerKind, raw config.Trigger) (models.TriggerParams, error) {
	switch kind {
	case models.TriggerScoreAbove:
		switch raw.Variant {
		case VariantOversold, VariantBullish, VariantReversal:
		default:
			return nil, fmt.Errorf("unknown score variant %q", raw.Variant)
		}
		if raw.Threshold <= 0 || raw.Threshold > 10 {
			return nil, fmt.Errorf("score threshold %g out of (0,10]", raw.Threshold)
		}
		return models.ScoreParams{Variant: raw.Variant, Threshold: raw.Threshold}, nil

	case models.TriggerRSIBelow, models.TriggerRSIAbove,
		models.TriggerRSICrossesBelow, models.TriggerRSICrossesAbove:
		if raw.Threshold <= 0 || raw.Threshold >= 100 {
			return nil, fmt.Errorf("rsi threshold %g out of (0,100)", raw.Threshold)
		}
		return models.ThresholdParams{Threshold: raw.Threshold}, nil

	case models.TriggerPriceCrossesAboveMA, models.TriggerPriceCrossesBelowMA:
		switch raw.Period {
		case 20, 50, 200:
		default:
			return nil, fmt.Errorf("ma period %d not one of 20, 50, 200", raw.Period)
		}
		return models.MACrossParams{Period: raw.Period}, nil

	case models.TriggerMACDHistFlipPositive, models.TriggerMACDHistFlipNegative,
		models.TriggerStochasticBullCross:
		return models.FlipParams{}, nil

	case models.TriggerVolumeSpike:
		if raw.Ratio <= 1 {
			return nil, fmt.Errorf("volume spike ratio %g must exceed 1", raw.Ratio)
		}
		return models.VolumeSpikeParams{Ratio: raw.Ratio}, nil

	case models.TriggerBullishDivergence:
		if raw.MinStrength < 0 {
			return nil, fmt.Errorf("divergence min strength %g must not be negative", raw.MinStrength)
		}
		return models.DivergenceParams{MinStrength: raw.MinStrength}, nil

	default:
		return nil, fmt.Errorf("unknown trigger kind %q", kind)
	}
}
