package state

import (
	"encoding/json"
	"os"
	"time"

	"StockSentry/internal/domain/models"
	applogger "StockSentry/pkg/logger"
)

// SuppressionEntry is a manual "user actioned this alert" override created
// out-of-band. It is independent of cooldown state: it suppresses every
// trigger of one kind for a symbol until it expires.
type SuppressionEntry struct {
	Symbol  string             `json:"symbol"`
	Kind    models.TriggerKind `json:"trigger_type"`
	Expires time.Time          `json:"expires"`
}

// SuppressionList answers "is this (symbol, kind) manually muted right now".
type SuppressionList struct {
	entries []SuppressionEntry
}

// Active reports whether an unexpired suppression covers (symbol, kind).
func (s *SuppressionList) Active(symbol string, kind models.TriggerKind, now time.Time) bool {
	for _, e := range s.entries {
		if e.Symbol == symbol && e.Kind == kind && now.Before(e.Expires) {
			return true
		}
	}
	return false
}

// NewSuppressionList wraps a fixed set of entries, mainly for tests.
func NewSuppressionList(entries []SuppressionEntry) *SuppressionList {
	return &SuppressionList{entries: entries}
}

// LoadSuppressions reads the suppression file written by the out-of-band
// actioning flow. A missing or corrupt file degrades to an empty list; manual
// mutes are a convenience, never a reason to abort a run.
func LoadSuppressions(path string, l *applogger.Logger) *SuppressionList {
	if path == "" {
		return &SuppressionList{}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) && l != nil {
			l.Warn("suppression file unreadable", applogger.String("path", path), applogger.Error(err))
		}
		return &SuppressionList{}
	}
	var entries []SuppressionEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		if l != nil {
			l.Warn("suppression file corrupt", applogger.String("path", path), applogger.Error(err))
		}
		return &SuppressionList{}
	}
	return &SuppressionList{entries: entries}
}
