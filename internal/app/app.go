// Package app hand-wires configuration into a runnable scanner: logger,
// infrastructure clients, repositories, engines, and the run loop.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	domrepo "StockSentry/internal/domain/repository"
	internalrepo "StockSentry/internal/repository"
	"StockSentry/internal/services/scoring"
	"StockSentry/internal/services/triggers"
	"StockSentry/internal/state"
	"StockSentry/internal/usecase"
	"StockSentry/pkg/cache"
	pkgch "StockSentry/pkg/clickhouse"
	"StockSentry/pkg/config"
	pkgkafka "StockSentry/pkg/kafka"
	applogger "StockSentry/pkg/logger"
	"StockSentry/pkg/metrics"
)

// App owns the wired scanner and its infrastructure clients.
type App struct {
	cfg     *config.Config
	l       *applogger.Logger
	scanner *usecase.Scanner
	watches []usecase.Watch

	ch       *pkgch.Client
	sink     domrepo.EventSink
	archiver domrepo.RowArchiver
	cacheSvc cache.Service
}

// New wires every dependency from configuration. Construction fails loudly on
// a bad config or unreachable mandatory infrastructure.
func New(cfg *config.Config) (*App, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	watches, err := usecase.BuildWatches(cfg)
	if err != nil {
		return nil, fmt.Errorf("watches: %w", err)
	}

	scores, err := scoring.NewEngine(scoring.Config{
		MinBars:  cfg.Scan.MinBars,
		Oversold: nilIfEmpty(cfg.Scoring.Oversold),
		Bullish:  nilIfEmpty(cfg.Scoring.Bullish),
		Reversal: nilIfEmpty(cfg.Scoring.Reversal),
	})
	if err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}

	ch, err := provideClickHouse(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{cfg: cfg, l: l, watches: watches, ch: ch}

	barSource := provideBarSource(cfg, ch, l, app)
	rec := metrics.New()
	store := state.NewStore(cfg.State.Path, l)
	sup := state.LoadSuppressions(cfg.State.SuppressionPath, l)

	opts := []usecase.ScannerOption{usecase.WithLookback(cfg.Scan.Lookback)}

	archiver := internalrepo.NewCHRowArchiver(ch, cfg.ClickHouse.RowsTable)
	archiver.SetLogger(l)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := archiver.Init(ctx); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("archiver schema: %w", err)
	}
	app.archiver = archiver
	opts = append(opts, usecase.WithRowArchiver(archiver))

	if cfg.Kafka.Enabled {
		sink, err := provideEventSink(cfg)
		if err != nil {
			_ = ch.Close()
			return nil, err
		}
		app.sink = sink
		opts = append(opts, usecase.WithEventSink(sink))
	}

	if app.cacheSvc != nil && cfg.Scan.UseRunLock {
		opts = append(opts, usecase.WithRunLock(app.cacheSvc))
	}

	app.scanner = usecase.NewScanner(barSource, rec, scores, triggers.NewEngine(l), store, sup, l, opts...)
	return app, nil
}

// Run executes the scan loop. With a zero interval it runs once; otherwise it
// reruns on a ticker until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.cfg.Metrics.Enabled {
		a.serveMetrics()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	runOnce := func() {
		sum, err := a.scanner.Run(ctx, a.watches)
		if err != nil {
			a.l.Error("scan run failed", applogger.Error(err))
			return
		}
		a.l.Info("scan summary",
			applogger.String("run_id", sum.RunID),
			applogger.Int("symbols", sum.SymbolsScanned),
			applogger.Int("failures", sum.Failures),
			applogger.Int("events", sum.EventsEmitted),
		)
	}

	runOnce()
	if a.cfg.Scan.Interval <= 0 {
		return a.shutdown()
	}

	ticker := time.NewTicker(a.cfg.Scan.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			runOnce()
		case <-sigCh:
			a.l.Info("shutdown signal received")
			return a.shutdown()
		}
	}
}

func (a *App) serveMetrics() {
	mux := http.NewServeMux()
	mux.Handle(a.cfg.Metrics.Path, promhttp.Handler())
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Metrics.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.l.Error("metrics server error", applogger.Error(err))
		}
	}()
	a.l.Info("metrics server started",
		applogger.Int("port", a.cfg.Metrics.Port),
		applogger.String("path", a.cfg.Metrics.Path),
	)
}

func (a *App) shutdown() error {
	if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			a.l.Warn("event sink close error", applogger.Error(err))
		}
	}
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	a.l.Info("shutdown complete")
	return nil
}

func provideClickHouse(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(4, 2),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// provideBarSource wraps the ClickHouse source with a series cache: Redis
// when enabled, otherwise in-process memory.
func provideBarSource(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger, app *App) domrepo.BarSource {
	src := internalrepo.NewCHBarSource(ch, cfg.ClickHouse.BarsTable)
	src.SetLogger(l)

	var svc cache.Service
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Redis.Host),
			cache.WithRedisPort(cfg.Redis.Port),
			cache.WithRedisPassword(cfg.Redis.Password),
			cache.WithRedisDB(cfg.Redis.DB),
			cache.WithRedisPrefix(cfg.Redis.Prefix),
		)
		if err != nil {
			l.Warn("redis unavailable, falling back to memory cache", applogger.Error(err))
		} else {
			svc = rc
		}
	}
	if svc == nil {
		svc = cache.NewMemoryCache()
	}
	app.cacheSvc = svc

	series := internalrepo.NewCachedSeries(svc, l)
	return internalrepo.NewCachingBarSource(src, series, cfg.Scan.SeriesCacheTTL)
}

func provideEventSink(cfg *config.Config) (domrepo.EventSink, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaEventSink(producer, cfg.Kafka.Topic), nil
}

func nilIfEmpty(m map[string]float64) map[string]float64 {
	if len(m) == 0 {
		return nil
	}
	return m
}
