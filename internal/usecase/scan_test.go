package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"StockSentry/internal/domain/models"
	drepo "StockSentry/internal/domain/repository"
	"StockSentry/internal/services/scoring"
	"StockSentry/internal/services/triggers"
	"StockSentry/internal/state"
	applogger "StockSentry/pkg/logger"
)

func newTestLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

// fallingBars yields n daily bars with strictly falling closes, which drives
// RSI to zero once enough history exists.
func fallingBars(n int) models.PriceSeries {
	bars := make(models.PriceSeries, n)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	price := 300.0
	for i := range bars {
		price -= 1.0
		bars[i] = models.PriceBar{
			Timestamp: day.AddDate(0, 0, i),
			Open:      price + 0.5,
			High:      price + 1.0,
			Low:       price - 1.0,
			Close:     price,
			Volume:    1_000_000,
		}
	}
	return bars
}

type fakeBarSource struct {
	series map[string]models.PriceSeries
}

func (f *fakeBarSource) DailyBars(_ context.Context, symbol string, _ int) (models.PriceSeries, error) {
	s, ok := f.series[symbol]
	if !ok {
		return nil, fmt.Errorf("unknown symbol %s", symbol)
	}
	return s, nil
}

type nopMetrics struct{}

func (nopMetrics) RecordSymbolScanned(string) {}
func (nopMetrics) RecordTriggerFired(string, string) {}
func (nopMetrics) RecordError(string) {}
func (nopMetrics) RecordScore(string, string, float64) {}
func (nopMetrics) RecordLatency(string, float64) {}

type captureSink struct {
	events []*models.TriggerEvent
	err    error
}

func (c *captureSink) Publish(_ context.Context, e *models.TriggerEvent) error {
	c.events = append(c.events, e)
	return c.err
}

func (c *captureSink) PublishBatch(_ context.Context, events []*models.TriggerEvent) error {
	c.events = append(c.events, events...)
	return c.err
}

func (c *captureSink) Close() error { return nil }

type captureArchiver struct {
	rows []*models.SignalRow
}

func (c *captureArchiver) Init(context.Context) error { return nil }
func (c *captureArchiver) StoreBatch(_ context.Context, rows []*models.SignalRow) error {
	c.rows = append(c.rows, rows...)
	return nil
}
func (c *captureArchiver) Health(context.Context) error { return nil }
func (c *captureArchiver) Close() error                 { return nil }

// panickyBarSource panics for one symbol and delegates the rest, simulating a
// bad batch of upstream data blowing up mid-scan.
type panickyBarSource struct {
	inner  *fakeBarSource
	symbol string
}

func (p *panickyBarSource) DailyBars(ctx context.Context, symbol string, lookback int) (models.PriceSeries, error) {
	if symbol == p.symbol {
		panic("corrupt bar batch")
	}
	return p.inner.DailyBars(ctx, symbol, lookback)
}

type deniedLock struct{}

func (deniedLock) TryLock(context.Context, string, time.Duration) (bool, error) { return false, nil }
func (deniedLock) Unlock(context.Context, string) error                         { return nil }

func newTestScanner(t *testing.T, bars drepo.BarSource, opts ...ScannerOption) (*Scanner, *state.Store) {
	t.Helper()
	l := newTestLogger(t)
	scores, err := scoring.NewEngine(scoring.Config{})
	if err != nil {
		t.Fatalf("scoring engine: %v", err)
	}
	store := state.NewStore(filepath.Join(t.TempDir(), "state.json"), l)
	sup := state.NewSuppressionList(nil)
	sc := NewScanner(bars, nopMetrics{}, scores, triggers.NewEngine(l), store, sup, l, opts...)
	return sc, store
}

func rsiBelowWatch(symbols ...string) Watch {
	return Watch{
		Name:    "portfolio",
		Symbols: symbols,
		Triggers: []models.TriggerDefinition{{
			Kind:         models.TriggerRSIBelow,
			Params:       models.ThresholdParams{Threshold: 30},
			Action:       "BUY",
			CooldownDays: 0,
			Description:  "washed out",
		}},
	}
}

func TestRunEmitsEventsAndRows(t *testing.T) {
	bars := &fakeBarSource{series: map[string]models.PriceSeries{"AAPL": fallingBars(120)}}
	sink := &captureSink{}
	arch := &captureArchiver{}
	sc, store := newTestScanner(t, bars, WithEventSink(sink), WithRowArchiver(arch))

	sum, err := sc.Run(context.Background(), []Watch{rsiBelowWatch("AAPL")})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.SymbolsScanned != 1 || sum.Failures != 0 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.EventsEmitted != 1 || len(sink.events) != 1 {
		t.Fatalf("expected one event, got summary=%d sink=%d", sum.EventsEmitted, len(sink.events))
	}
	ev := sink.events[0]
	if ev.Symbol != "AAPL" || ev.Kind != models.TriggerRSIBelow || ev.Action != "BUY" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if len(arch.rows) != 1 {
		t.Fatalf("expected one row, got %d", len(arch.rows))
	}
	row := arch.rows[0]
	if row.RunID != sum.RunID || row.Symbol != "AAPL" || row.TriggerCount != 1 {
		t.Fatalf("unexpected row %+v", row)
	}
	if row.RSI > 30 {
		t.Fatalf("expected depressed RSI in row, got %v", row.RSI)
	}

	st := store.Load()
	if st.LastRun.RunID != sum.RunID {
		t.Fatalf("state last run not persisted")
	}
	if len(st.LastRun.EmittedKeys) != 1 {
		t.Fatalf("expected emitted key in state, got %v", st.LastRun.EmittedKeys)
	}
	if st.LastDigest.EventsEmitted != 1 || st.LastDigest.SymbolsScanned != 1 {
		t.Fatalf("unexpected digest %+v", st.LastDigest)
	}
}

func TestRunDedupsAcrossConsecutiveRuns(t *testing.T) {
	bars := &fakeBarSource{series: map[string]models.PriceSeries{"AAPL": fallingBars(120)}}
	sink := &captureSink{}
	sc, _ := newTestScanner(t, bars, WithEventSink(sink))

	watches := []Watch{rsiBelowWatch("AAPL")}
	if _, err := sc.Run(context.Background(), watches); err != nil {
		t.Fatalf("first run: %v", err)
	}
	sum2, err := sc.Run(context.Background(), watches)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if sum2.EventsEmitted != 0 {
		t.Fatalf("condition stayed true, second run should not re-notify, got %d", sum2.EventsEmitted)
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected exactly one event across both runs, got %d", len(sink.events))
	}
}

func TestRunIsolatesSymbolFailure(t *testing.T) {
	bars := &fakeBarSource{series: map[string]models.PriceSeries{"AAPL": fallingBars(120)}}
	sc, _ := newTestScanner(t, bars)

	sum, err := sc.Run(context.Background(), []Watch{rsiBelowWatch("NOPE", "AAPL")})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Failures != 1 {
		t.Fatalf("expected one failure, got %d", sum.Failures)
	}
	if sum.SymbolsScanned != 1 {
		t.Fatalf("healthy symbol should still be scanned, got %d", sum.SymbolsScanned)
	}
}

func TestRunRecoversSymbolPanic(t *testing.T) {
	bars := &panickyBarSource{
		inner:  &fakeBarSource{series: map[string]models.PriceSeries{"AAPL": fallingBars(120)}},
		symbol: "BOOM",
	}
	sink := &captureSink{}
	sc, store := newTestScanner(t, bars, WithEventSink(sink))

	sum, err := sc.Run(context.Background(), []Watch{rsiBelowWatch("BOOM", "AAPL")})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Failures != 1 {
		t.Fatalf("panicking symbol should count as failure, got %d", sum.Failures)
	}
	if sum.SymbolsScanned != 1 || len(sink.events) != 1 {
		t.Fatalf("healthy symbol should still emit, scanned=%d events=%d", sum.SymbolsScanned, len(sink.events))
	}
	if store.Load().LastRun.RunID != sum.RunID {
		t.Fatalf("run state not persisted after recovered panic")
	}
}

func TestRunLockDeniedReturnsError(t *testing.T) {
	bars := &fakeBarSource{series: map[string]models.PriceSeries{"AAPL": fallingBars(120)}}
	sc, _ := newTestScanner(t, bars, WithRunLock(deniedLock{}))

	_, err := sc.Run(context.Background(), []Watch{rsiBelowWatch("AAPL")})
	if !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}
}

func TestRunShortHistoryStillProducesRow(t *testing.T) {
	bars := &fakeBarSource{series: map[string]models.PriceSeries{"AAPL": fallingBars(30)}}
	arch := &captureArchiver{}
	sc, _ := newTestScanner(t, bars, WithRowArchiver(arch))

	sum, err := sc.Run(context.Background(), []Watch{{
		Name:    "watch",
		Symbols: []string{"AAPL"},
		Triggers: []models.TriggerDefinition{{
			Kind:   models.TriggerScoreAbove,
			Params: models.ScoreParams{Variant: VariantOversold, Threshold: 1},
			Action: "ALERT",
		}},
	}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// Under the minimum history the composite scores are the insufficient
	// sentinel, so a score trigger must not fire.
	if sum.EventsEmitted != 0 {
		t.Fatalf("score trigger fired on insufficient history")
	}
	if len(arch.rows) != 1 || arch.rows[0].OversoldScore != 0 {
		t.Fatalf("expected archived row with sentinel score, got %+v", arch.rows)
	}
}
