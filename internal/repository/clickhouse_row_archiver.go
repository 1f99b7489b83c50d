package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"StockSentry/internal/domain/models"
	domrepo "StockSentry/internal/domain/repository"
	pkgch "StockSentry/pkg/clickhouse"
	applogger "StockSentry/pkg/logger"
)

// CHRowArchiver implements RowArchiver backed by ClickHouse.
type CHRowArchiver struct {
	client *pkgch.Client
	db     *sql.DB
	table  string
	l      *applogger.Logger
}

var _ domrepo.RowArchiver = (*CHRowArchiver)(nil)

func NewCHRowArchiver(ch *pkgch.Client, table string) *CHRowArchiver {
	if table == "" {
		table = "stocksentry.signal_rows"
	}
	return &CHRowArchiver{client: ch, db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHRowArchiver) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHRowArchiver) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE DATABASE IF NOT EXISTS stocksentry`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			run_id          String,
			symbol          LowCardinality(String),
			ts              DateTime,
			close           Float64,
			volume          Float64,
			rsi             Float64,
			adx             Float64,
			score_oversold  Float64,
			score_bullish   Float64,
			score_reversal  Float64,
			divergence      LowCardinality(String),
			divergence_str  Float64,
			trigger_count   UInt32
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(ts)
		ORDER BY (symbol, ts)`, s.table),
	}
	return s.client.InitSchema(ctx, stmts)
}

func (s *CHRowArchiver) StoreBatch(ctx context.Context, rows []*models.SignalRow) error {
	if len(rows) == 0 {
		return nil
	}

	start := time.Now()
	// Chunked multi-row VALUES to reduce round-trips.
	const chunkSize = 1000
	total := 0
	for lo := 0; lo < len(rows); lo += chunkSize {
		hi := lo + chunkSize
		if hi > len(rows) {
			hi = len(rows)
		}

		values := make([]string, 0, hi-lo)
		args := make([]interface{}, 0, (hi-lo)*13)
		for _, r := range rows[lo:hi] {
			if r == nil || r.Symbol == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				r.RunID,
				r.Symbol,
				r.Timestamp,
				r.Close,
				r.Volume,
				r.RSI,
				r.ADX,
				r.OversoldScore,
				r.BullishScore,
				r.ReversalScore,
				r.DivergenceType,
				r.DivergenceStr,
				r.TriggerCount,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf(
			"INSERT INTO %s (run_id, symbol, ts, close, volume, rsi, adx, score_oversold, score_bullish, score_reversal, divergence, divergence_str, trigger_count) VALUES %s",
			s.table, strings.Join(values, ","),
		)
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse store_rows insert error",
					applogger.String("table", s.table),
					applogger.Int("rows", hi-lo),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("store signal rows: %w", err)
		}
		total += len(values)
	}

	if s.l != nil {
		s.l.Info("clickhouse store_rows ok",
			applogger.String("table", s.table),
			applogger.Int("rows", total),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHRowArchiver) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHRowArchiver) Close() error {
	return nil // pool managed by pkg client
}
