// Package state persists trigger cooldown history across runs. The store is a
// single JSON file, read once at run start and replaced atomically at run end.
package state

import (
	"encoding/json"
	"time"
)

// CurrentVersion is written to every saved state file.
const CurrentVersion = 1

// CooldownEntry records when a trigger key last fired and until when it is
// suppressed. A key with SuppressUntil in the future must not re-fire.
type CooldownEntry struct {
	LastFiredAt   time.Time `json:"last_fired_at"`
	SuppressUntil time.Time `json:"suppress_until"`
}

// RunRecord summarizes the previous run. EmittedKeys drives run-over-run
// de-duplication for conditions that stay true across consecutive runs.
type RunRecord struct {
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	EmittedKeys []string  `json:"emitted_keys"`
}

// Digest is the per-run rollup kept for operators.
type Digest struct {
	SymbolsScanned int       `json:"symbols_scanned"`
	Failures       int       `json:"failures"`
	EventsEmitted  int       `json:"events_emitted"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// State is the persisted cooldown state. Top-level keys this version does not
// know about are captured on load and written back on save, so an older build
// never strips fields added by a newer one.
type State struct {
	Version      int                      `json:"version"`
	SeenTriggers map[string]CooldownEntry `json:"seen_triggers"`
	LastRun      RunRecord                `json:"last_run"`
	LastDigest   Digest                   `json:"last_digest"`

	extra map[string]json.RawMessage
}

// knownKeys are the top-level fields owned by this schema version.
var knownKeys = map[string]bool{
	"version":       true,
	"seen_triggers": true,
	"last_run":      true,
	"last_digest":   true,
}

// NewState returns an empty state at the current version.
func NewState() *State {
	return &State{
		Version:      CurrentVersion,
		SeenTriggers: make(map[string]CooldownEntry),
	}
}

// InCooldown reports whether key is suppressed at the given instant.
func (s *State) InCooldown(key string, now time.Time) bool {
	entry, ok := s.SeenTriggers[key]
	return ok && now.Before(entry.SuppressUntil)
}

// MarkFired records a firing and extends its suppression window. An existing
// key is overwritten in place; two triggers with the same key are the same
// logical alert.
func (s *State) MarkFired(key string, now time.Time, cooldownDays int) {
	if s.SeenTriggers == nil {
		s.SeenTriggers = make(map[string]CooldownEntry)
	}
	s.SeenTriggers[key] = CooldownEntry{
		LastFiredAt:   now,
		SuppressUntil: now.AddDate(0, 0, cooldownDays),
	}
}

// EmittedLastRun reports whether key was part of the previous run's output.
func (s *State) EmittedLastRun(key string) bool {
	for _, k := range s.LastRun.EmittedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// MarshalJSON merges the typed fields with any preserved unknown keys.
func (s *State) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(s.extra)+len(knownKeys))
	for k, v := range s.extra {
		out[k] = v
	}
	put := func(key string, v interface{}) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		out[key] = b
		return nil
	}
	if err := put("version", s.Version); err != nil {
		return nil, err
	}
	if err := put("seen_triggers", s.SeenTriggers); err != nil {
		return nil, err
	}
	if err := put("last_run", s.LastRun); err != nil {
		return nil, err
	}
	if err := put("last_digest", s.LastDigest); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the known fields and stashes everything else.
func (s *State) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.SeenTriggers = make(map[string]CooldownEntry)
	s.extra = make(map[string]json.RawMessage)
	for k, v := range raw {
		var err error
		switch k {
		case "version":
			err = json.Unmarshal(v, &s.Version)
		case "seen_triggers":
			err = json.Unmarshal(v, &s.SeenTriggers)
		case "last_run":
			err = json.Unmarshal(v, &s.LastRun)
		case "last_digest":
			err = json.Unmarshal(v, &s.LastDigest)
		default:
			s.extra[k] = v
		}
		if err != nil {
			return err
		}
	}
	return nil
}
