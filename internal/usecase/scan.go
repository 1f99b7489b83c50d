package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"StockSentry/internal/domain/models"
	drepo "StockSentry/internal/domain/repository"
	"StockSentry/internal/services/indicators"
	"StockSentry/internal/services/scoring"
	"StockSentry/internal/services/swing"
	"StockSentry/internal/services/triggers"
	"StockSentry/internal/state"
	applogger "StockSentry/pkg/logger"
)

// Score variant names used as keys in trigger definitions and metrics labels.
const (
	VariantOversold = "oversold"
	VariantBullish  = "bullish_trend"
	VariantReversal = "reversal"
)

const (
	defaultLookback    = 260 // roughly one trading year, enough for SMA200
	divergenceLookback = 60
	rsiPeriod          = 14

	runLockKey = "scan:lock"
	runLockTTL = 15 * time.Minute
)

// ErrRunInProgress is returned when another scan holds the run lock.
var ErrRunInProgress = errors.New("scan already in progress")

// RunLock serializes scan runs across processes. Satisfied by cache.Service.
type RunLock interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// Watch binds a list of symbols to the trigger definitions evaluated for
// each of them.
type Watch struct {
	Name     string
	Symbols  []string
	Triggers []models.TriggerDefinition
}

// RunSummary is what a completed scan reports back to the caller.
type RunSummary struct {
	RunID          string
	StartedAt      time.Time
	CompletedAt    time.Time
	SymbolsScanned int
	Failures       int
	EventsEmitted  int
}

// Scanner orchestrates one evaluation run: fetch bars, compute indicators and
// scores, evaluate triggers, then persist state, rows and events. One failing
// symbol never aborts the batch.
type Scanner struct {
	bars    drepo.BarSource
	rows    drepo.RowArchiver // optional
	sink    drepo.EventSink   // optional
	metrics drepo.Metrics
	lock    RunLock // optional

	scores *scoring.Engine
	trig   *triggers.Engine
	store  *state.Store
	sup    *state.SuppressionList

	l        *applogger.Logger
	lookback int
}

// ScannerOption configures optional collaborators.
type ScannerOption func(*Scanner)

// WithRowArchiver enables archival of per-symbol rows.
func WithRowArchiver(rows drepo.RowArchiver) ScannerOption {
	return func(s *Scanner) { s.rows = rows }
}

// WithEventSink enables publishing of fired trigger events.
func WithEventSink(sink drepo.EventSink) ScannerOption {
	return func(s *Scanner) { s.sink = sink }
}

// WithRunLock guards against overlapping scan runs.
func WithRunLock(lock RunLock) ScannerOption {
	return func(s *Scanner) { s.lock = lock }
}

// WithLookback overrides how many daily bars are fetched per symbol.
func WithLookback(n int) ScannerOption {
	return func(s *Scanner) {
		if n > 0 {
			s.lookback = n
		}
	}
}

// NewScanner creates a scan orchestrator.
func NewScanner(
	bars drepo.BarSource,
	metrics drepo.Metrics,
	scores *scoring.Engine,
	trig *triggers.Engine,
	store *state.Store,
	sup *state.SuppressionList,
	l *applogger.Logger,
	opts ...ScannerOption,
) *Scanner {
	s := &Scanner{
		bars:     bars,
		metrics:  metrics,
		scores:   scores,
		trig:     trig,
		store:    store,
		sup:      sup,
		l:        l,
		lookback: defaultLookback,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run evaluates every watch and returns the run summary. State is loaded
// once at the start and saved once at the end, so a crash mid-run leaves the
// previous state file intact.
func (s *Scanner) Run(ctx context.Context, watches []Watch) (*RunSummary, error) {
	if s.lock != nil {
		ok, err := s.lock.TryLock(ctx, runLockKey, runLockTTL)
		if err != nil {
			s.l.Warn("run lock unavailable, proceeding without it", applogger.Error(err))
		} else if !ok {
			return nil, ErrRunInProgress
		} else {
			defer func() {
				if err := s.lock.Unlock(ctx, runLockKey); err != nil {
					s.l.Warn("run lock release failed", applogger.Error(err))
				}
			}()
		}
	}

	start := time.Now()
	now := start.UTC()
	runID := uuid.New().String()
	st := s.store.Load()

	summary := &RunSummary{RunID: runID, StartedAt: now}
	var (
		rows      []*models.SignalRow
		allEvents []*models.TriggerEvent
		emitted   []string
	)

	for _, w := range watches {
		for _, symbol := range w.Symbols {
			cooldowns := cooldownIndex(symbol, w.Triggers)
			out, err := s.scanSymbol(ctx, runID, symbol, w.Triggers, st, now)
			if err != nil {
				summary.Failures++
				s.metrics.RecordSymbolScanned("error")
				s.metrics.RecordError("scan_symbol")
				s.l.Error("symbol scan failed",
					applogger.String("symbol", symbol),
					applogger.String("watch", w.Name),
					applogger.Error(err),
				)
				continue
			}

			summary.SymbolsScanned++
			s.metrics.RecordSymbolScanned("ok")
			rows = append(rows, out.row)

			for i := range out.events {
				ev := &out.events[i]
				st.MarkFired(ev.TriggerKey, now, cooldowns[ev.TriggerKey])
				emitted = append(emitted, ev.TriggerKey)
				allEvents = append(allEvents, ev)
				s.metrics.RecordTriggerFired(string(ev.Kind), ev.Action)
				s.l.Info("trigger fired",
					applogger.String("symbol", ev.Symbol),
					applogger.String("key", ev.TriggerKey),
					applogger.String("action", ev.Action),
				)
			}
		}
	}
	summary.EventsEmitted = len(allEvents)

	if s.sink != nil && len(allEvents) > 0 {
		if err := s.sink.PublishBatch(ctx, allEvents); err != nil {
			s.metrics.RecordError("publish_events")
			s.l.Error("event publish failed", applogger.Error(err))
		}
	}
	if s.rows != nil && len(rows) > 0 {
		if err := s.rows.StoreBatch(ctx, rows); err != nil {
			s.metrics.RecordError("archive_rows")
			s.l.Error("row archive failed", applogger.Error(err))
		}
	}

	summary.CompletedAt = time.Now().UTC()
	st.LastRun = state.RunRecord{
		RunID:       runID,
		StartedAt:   now,
		CompletedAt: summary.CompletedAt,
		EmittedKeys: emitted,
	}
	st.LastDigest = state.Digest{
		SymbolsScanned: summary.SymbolsScanned,
		Failures:       summary.Failures,
		EventsEmitted:  summary.EventsEmitted,
		GeneratedAt:    summary.CompletedAt,
	}
	if err := s.store.Save(st); err != nil {
		return summary, fmt.Errorf("save state: %w", err)
	}

	s.metrics.RecordLatency("scan_run", time.Since(start).Seconds())
	s.l.Info("scan run complete",
		applogger.String("run_id", runID),
		applogger.Int("symbols", summary.SymbolsScanned),
		applogger.Int("failures", summary.Failures),
		applogger.Int("events", summary.EventsEmitted),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return summary, nil
}

type symbolResult struct {
	row    *models.SignalRow
	events []models.TriggerEvent
}

func (s *Scanner) scanSymbol(
	ctx context.Context,
	runID, symbol string,
	defs []models.TriggerDefinition,
	st *state.State,
	now time.Time,
) (res *symbolResult, err error) {
	// A panic in one symbol must not take down the whole run.
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("scan %s: panic: %v", symbol, r)
		}
	}()

	start := time.Now()

	bars, err := s.bars.DailyBars(ctx, symbol, s.lookback)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no price history")
	}

	curr, _ := bars.Last()
	snap, prev := indicators.BuildSnapshots(symbol, bars)

	closes := bars.Closes()
	div := swing.DetectStrongest(closes, map[string][]float64{
		"RSI": indicators.RSI(closes, rsiPeriod),
		"OBV": indicators.OBV(bars),
	}, divergenceLookback)

	scores := map[string]models.ScoreResult{
		VariantOversold: s.scores.Oversold(snap, len(bars)),
		VariantBullish:  s.scores.BullishTrend(snap, len(bars)),
		VariantReversal: s.scores.Reversal(snap, div, len(bars)),
	}
	for variant, sc := range scores {
		if !sc.Insufficient() {
			s.metrics.RecordScore(symbol, variant, sc.FinalScore)
		}
	}

	events := s.trig.Evaluate(defs, triggers.Input{
		Symbol:     symbol,
		Curr:       snap,
		Prev:       prev,
		Scores:     scores,
		Divergence: div,
	}, st, s.sup, now)

	row := &models.SignalRow{
		RunID:          runID,
		Symbol:         symbol,
		Timestamp:      curr.Timestamp,
		Close:          curr.Close,
		Volume:         curr.Volume,
		RSI:            snap.RSI,
		ADX:            snap.ADX,
		OversoldScore:  scores[VariantOversold].FinalScore,
		BullishScore:   scores[VariantBullish].FinalScore,
		ReversalScore:  scores[VariantReversal].FinalScore,
		DivergenceType: string(div.Type),
		DivergenceStr:  div.Strength,
		TriggerCount:   len(events),
	}

	s.metrics.RecordLatency("scan_symbol", time.Since(start).Seconds())
	return &symbolResult{row: row, events: events}, nil
}

// cooldownIndex maps each definition's full trigger key to its cooldown days
// for MarkFired.
func cooldownIndex(symbol string, defs []models.TriggerDefinition) map[string]int {
	out := make(map[string]int, len(defs))
	for _, d := range defs {
		out[d.Key(symbol)] = d.CooldownDays
	}
	return out
}
