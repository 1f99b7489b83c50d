package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"StockSentry/internal/domain/models"
	domrepo "StockSentry/internal/domain/repository"
	pkgch "StockSentry/pkg/clickhouse"
	applogger "StockSentry/pkg/logger"
)

// CHBarSource reads daily OHLCV bars from ClickHouse. Ingestion of the bars
// table is a separate pipeline; this side only queries it.
type CHBarSource struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

var _ domrepo.BarSource = (*CHBarSource)(nil)

func NewCHBarSource(ch *pkgch.Client, table string) *CHBarSource {
	if table == "" {
		table = "stocksentry.daily_bars"
	}
	return &CHBarSource{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHBarSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHBarSource) DailyBars(ctx context.Context, symbol string, lookback int) (models.PriceSeries, error) {
	start := time.Now()
	const qtpl = `
        SELECT ts, open, high, low, close, volume
        FROM %s
        WHERE symbol = ?
        ORDER BY ts DESC
        LIMIT ?
    `
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, lookback)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse daily_bars query error",
				applogger.String("table", s.table),
				applogger.String("symbol", symbol),
				applogger.Int("lookback", lookback),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get daily bars: %w", err)
	}
	defer rows.Close()

	tmp := make(models.PriceSeries, 0, lookback)
	for rows.Next() {
		var b models.PriceBar
		if err := rows.Scan(&b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse daily_bars scan error",
					applogger.String("table", s.table),
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		tmp = append(tmp, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}

	if s.l != nil {
		s.l.Debug("clickhouse daily_bars ok",
			applogger.String("table", s.table),
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return tmp, nil
}
