package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestTradingDay(t *testing.T) {
    ts := time.Date(2024, 10, 10, 21, 30, 5, 0, time.UTC)
    day := TradingDay(ts)
    if day.Hour() != 0 || day.Minute() != 0 {
        t.Fatalf("expected midnight, got %v", day)
    }
    other := time.Date(2024, 10, 10, 1, 0, 0, 0, time.UTC)
    if !SameTradingDay(ts, other) {
        t.Fatalf("expected same trading day")
    }
    next := ts.Add(12 * time.Hour)
    if SameTradingDay(ts, next) {
        t.Fatalf("expected different trading day")
    }
}
