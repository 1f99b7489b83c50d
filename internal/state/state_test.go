package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"StockSentry/internal/domain/models"
)

var now = time.Date(2024, 6, 3, 21, 0, 0, 0, time.UTC)

func TestCooldownWindow(t *testing.T) {
	st := NewState()
	st.MarkFired("AAPL:rsi_below:BUY:30", now, 5)

	if !st.InCooldown("AAPL:rsi_below:BUY:30", now.AddDate(0, 0, 4)) {
		t.Fatalf("key must be suppressed inside the window")
	}
	if st.InCooldown("AAPL:rsi_below:BUY:30", now.AddDate(0, 0, 6)) {
		t.Fatalf("key must clear after the window")
	}
	if st.InCooldown("MSFT:rsi_below:BUY:30", now) {
		t.Fatalf("unknown key must not be in cooldown")
	}
}

func TestMarkFiredOverwritesInPlace(t *testing.T) {
	st := NewState()
	st.MarkFired("k", now, 2)
	st.MarkFired("k", now.AddDate(0, 0, 3), 2)
	if len(st.SeenTriggers) != 1 {
		t.Fatalf("same key must replace, not append: %d entries", len(st.SeenTriggers))
	}
	if got := st.SeenTriggers["k"].SuppressUntil; !got.Equal(now.AddDate(0, 0, 5)) {
		t.Fatalf("later write must win: %v", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewStore(path, nil)

	st := NewState()
	st.MarkFired("AAPL:score_above:BUY:oversold/7", now, 3)
	st.MarkFired("MSFT:volume_spike:ALERT:2x", now, 1)
	st.LastRun = RunRecord{RunID: "r-1", StartedAt: now, CompletedAt: now.Add(time.Minute), EmittedKeys: []string{"a", "b"}}
	st.LastDigest = Digest{SymbolsScanned: 12, Failures: 1, EventsEmitted: 2, GeneratedAt: now}

	if err := store.Save(st); err != nil {
		t.Fatalf("save: %v", err)
	}
	got := store.Load()
	if !reflect.DeepEqual(got.SeenTriggers, st.SeenTriggers) {
		t.Fatalf("seen_triggers did not round-trip:\n%+v\n%+v", got.SeenTriggers, st.SeenTriggers)
	}
	if !reflect.DeepEqual(got.LastRun, st.LastRun) {
		t.Fatalf("last_run did not round-trip")
	}
	if got.LastDigest != st.LastDigest {
		t.Fatalf("last_digest did not round-trip")
	}
	if got.Version != CurrentVersion {
		t.Fatalf("version = %d", got.Version)
	}
}

func TestUnknownTopLevelKeysPreserved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	raw := `{"version":1,"seen_triggers":{},"future_field":{"a":1},"notes":"keep me"}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	store := NewStore(path, nil)
	st := store.Load()
	st.MarkFired("k", now, 1)
	if err := store.Save(st); err != nil {
		t.Fatalf("save: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var round map[string]json.RawMessage
	if err := json.Unmarshal(b, &round); err != nil {
		t.Fatalf("round parse: %v", err)
	}
	if _, ok := round["future_field"]; !ok {
		t.Fatalf("unknown key dropped across read-modify-write")
	}
	if string(round["notes"]) != `"keep me"` {
		t.Fatalf("unknown value mangled: %s", round["notes"])
	}
}

func TestLoadCorruptFallsBackFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	st := NewStore(path, nil).Load()
	if st == nil || len(st.SeenTriggers) != 0 {
		t.Fatalf("corrupt file must yield a fresh default state")
	}
}

func TestLoadMissingFile(t *testing.T) {
	st := NewStore(filepath.Join(t.TempDir(), "absent.json"), nil).Load()
	if st == nil || st.Version != CurrentVersion {
		t.Fatalf("missing file must yield a fresh default state")
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "state.json"), nil)
	if err := store.Save(NewState()); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "state.json" {
		t.Fatalf("expected only state.json, got %v", entries)
	}
}

func TestEmittedLastRun(t *testing.T) {
	st := NewState()
	st.LastRun.EmittedKeys = []string{"x", "y"}
	if !st.EmittedLastRun("x") || st.EmittedLastRun("z") {
		t.Fatalf("last-run membership check broken")
	}
}

func TestSuppressionList(t *testing.T) {
	list := NewSuppressionList([]SuppressionEntry{
		{Symbol: "AAPL", Kind: models.TriggerRSIBelow, Expires: now.AddDate(0, 0, 7)},
		{Symbol: "MSFT", Kind: models.TriggerVolumeSpike, Expires: now.AddDate(0, 0, -1)},
	})
	if !list.Active("AAPL", models.TriggerRSIBelow, now) {
		t.Fatalf("unexpired suppression must be active")
	}
	if list.Active("AAPL", models.TriggerVolumeSpike, now) {
		t.Fatalf("other kinds must not be muted")
	}
	if list.Active("MSFT", models.TriggerVolumeSpike, now) {
		t.Fatalf("expired suppression must not be active")
	}
}

func TestLoadSuppressionsMissingFile(t *testing.T) {
	list := LoadSuppressions(filepath.Join(t.TempDir(), "absent.json"), nil)
	if list.Active("AAPL", models.TriggerRSIBelow, now) {
		t.Fatalf("missing file must mean no suppressions")
	}
}
