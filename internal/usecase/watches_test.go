package usecase

import (
	"strings"
	"testing"

	"StockSentry/internal/domain/models"
	"StockSentry/pkg/config"
)

func watchConfig(triggers ...config.Trigger) *config.Config {
	cfg := &config.Config{}
	cfg.Watches = []config.Watch{{
		Name:     "portfolio",
		Symbols:  []string{"AAPL"},
		Triggers: triggers,
	}}
	return cfg
}

func TestBuildWatchesAllKinds(t *testing.T) {
	cfg := watchConfig(
		config.Trigger{Kind: "score_above", Variant: VariantOversold, Threshold: 7, Action: "BUY"},
		config.Trigger{Kind: "rsi_below", Threshold: 30, Action: "ALERT"},
		config.Trigger{Kind: "rsi_crosses_below", Threshold: 60, Action: "ALERT"},
		config.Trigger{Kind: "price_crosses_above_ma", Period: 50, Action: "BUY"},
		config.Trigger{Kind: "macd_histogram_flip_positive", Action: "ALERT"},
		config.Trigger{Kind: "stochastic_bullish_cross", Action: "ALERT"},
		config.Trigger{Kind: "volume_spike", Ratio: 2, Action: "ALERT"},
		config.Trigger{Kind: "bullish_divergence", MinStrength: 5, Action: "BUY"},
	)

	watches, err := BuildWatches(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(watches) != 1 || len(watches[0].Triggers) != 8 {
		t.Fatalf("unexpected shape %+v", watches)
	}
	if watches[0].Triggers[0].Kind != models.TriggerScoreAbove {
		t.Fatalf("kind not mapped: %v", watches[0].Triggers[0].Kind)
	}
	// every built definition must produce a stable key
	for _, def := range watches[0].Triggers {
		if def.Key("AAPL") == "" {
			t.Fatalf("empty key for %v", def.Kind)
		}
	}
}

func TestBuildWatchesUnknownKind(t *testing.T) {
	_, err := BuildWatches(watchConfig(config.Trigger{Kind: "moon_phase", Action: "ALERT"}))
	if err == nil || !strings.Contains(err.Error(), "unknown trigger kind") {
		t.Fatalf("expected unknown kind error, got %v", err)
	}
}

func TestBuildWatchesBadVariant(t *testing.T) {
	_, err := BuildWatches(watchConfig(config.Trigger{
		Kind: "score_above", Variant: "lucky", Threshold: 7, Action: "ALERT",
	}))
	if err == nil || !strings.Contains(err.Error(), "unknown score variant") {
		t.Fatalf("expected variant error, got %v", err)
	}
}

func TestBuildWatchesBadMAPeriod(t *testing.T) {
	_, err := BuildWatches(watchConfig(config.Trigger{
		Kind: "price_crosses_above_ma", Period: 37, Action: "ALERT",
	}))
	if err == nil || !strings.Contains(err.Error(), "ma period") {
		t.Fatalf("expected period error, got %v", err)
	}
}

func TestBuildWatchesErrorNamesWatchAndIndex(t *testing.T) {
	_, err := BuildWatches(watchConfig(
		config.Trigger{Kind: "rsi_below", Threshold: 30, Action: "ALERT"},
		config.Trigger{Kind: "volume_spike", Ratio: 0.5, Action: "ALERT"},
	))
	if err == nil || !strings.Contains(err.Error(), `watch "portfolio" trigger 1`) {
		t.Fatalf("expected positional error, got %v", err)
	}
}
