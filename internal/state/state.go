package state

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/5G-MAG/m1-dashboard/internal/dashboard"
)

const (
	DefaultMaxAlerts = 20
	DefaultAlertTTL  = 5 * time.Minute
)

type AlertEntry struct {
	Seq       uint64    `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
	dashboard.Alert
}

type SnapshotData struct {
	Version uint64          `json:"version"`
	Status  string          `json:"status"`
	Rows    []dashboard.Row `json:"rows"`
	Alerts  []AlertEntry    `json:"alerts"`
}

// AppState is the server-side copy of the session table, the AF status line
// and the latest background alerts. It implements dashboard.Table and
// dashboard.Notifier.
type AppState struct {
	mu        sync.RWMutex
	version   uint64
	status    string
	rows      []dashboard.Row
	alerts    []AlertEntry
	alertSeq  uint64
	maxAlerts int
	alertTTL  time.Duration
	changeCh  chan struct{}
}

func New(maxAlerts int, alertTTL time.Duration) *AppState {
	if maxAlerts <= 0 {
		maxAlerts = DefaultMaxAlerts
	}
	if alertTTL <= 0 {
		alertTTL = DefaultAlertTTL
	}
	return &AppState{
		rows:      []dashboard.Row{},
		alerts:    []AlertEntry{},
		maxAlerts: maxAlerts,
		alertTTL:  alertTTL,
		changeCh:  make(chan struct{}, 1),
	}
}

// notifyChange must be called without holding mu.
func (s *AppState) notifyChange() {
	select {
	case s.changeCh <- struct{}{}:
	default:
	}
}

// ChangeCh receives a value after every mutation. Signals coalesce.
func (s *AppState) ChangeCh() <-chan struct{} {
	return s.changeCh
}

func (s *AppState) mutate(fn func() bool) {
	s.mu.Lock()
	changed := fn()
	if changed {
		s.version++
	}
	s.mu.Unlock()
	if changed {
		s.notifyChange()
	}
}

func (s *AppState) Rows() []dashboard.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]dashboard.Row(nil), s.rows...)
}

func (s *AppState) AddRow(sessionID string) {
	s.mutate(func() bool {
		s.rows = append(s.rows, dashboard.Row{SessionID: sessionID, Policies: dashboard.PolicyChecking})
		return true
	})
}

// RemoveRow drops the first row showing sessionID.
func (s *AppState) RemoveRow(sessionID string) bool {
	removed := false
	s.mutate(func() bool {
		for i, row := range s.rows {
			if row.SessionID == sessionID {
				s.rows = append(s.rows[:i], s.rows[i+1:]...)
				removed = true
				break
			}
		}
		return removed
	})
	return removed
}

func (s *AppState) Clear() {
	s.mutate(func() bool {
		if len(s.rows) == 0 {
			return false
		}
		s.rows = []dashboard.Row{}
		return true
	})
}

func (s *AppState) SetPolicyAvailability(sessionID string, enabled bool) {
	availability := dashboard.PolicyDisabled
	if enabled {
		availability = dashboard.PolicyEnabled
	}
	s.mutate(func() bool {
		changed := false
		for i := range s.rows {
			if s.rows[i].SessionID == sessionID && s.rows[i].Policies != availability {
				s.rows[i].Policies = availability
				changed = true
			}
		}
		return changed
	})
}

func (s *AppState) SetStatus(text string) {
	s.mutate(func() bool {
		if s.status == text {
			return false
		}
		s.status = text
		return true
	})
}

func (s *AppState) Status() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Notify records a background alert, keeping at most maxAlerts entries.
func (s *AppState) Notify(alert dashboard.Alert) {
	s.mutate(func() bool {
		s.alertSeq++
		s.alerts = append(s.alerts, AlertEntry{
			Seq:       s.alertSeq,
			Timestamp: time.Now().UTC(),
			Alert:     alert,
		})
		if len(s.alerts) > s.maxAlerts {
			s.alerts = s.alerts[len(s.alerts)-s.maxAlerts:]
		}
		return true
	})
	slog.Debug("Alert recorded", "title", alert.Title, "level", alert.Level)
}

func (s *AppState) Snapshot() SnapshotData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SnapshotData{
		Version: s.version,
		Status:  s.status,
		Rows:    append([]dashboard.Row{}, s.rows...),
		Alerts:  append([]AlertEntry{}, s.alerts...),
	}
}

// StartCleanup drops alerts older than the alert TTL until ctx is done.
func (s *AppState) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanup(time.Now())
		}
	}
}

func (s *AppState) cleanup(now time.Time) {
	removed := 0
	s.mutate(func() bool {
		kept := s.alerts[:0]
		for _, entry := range s.alerts {
			if now.Sub(entry.Timestamp) > s.alertTTL {
				removed++
				continue
			}
			kept = append(kept, entry)
		}
		s.alerts = kept
		return removed > 0
	})
	if removed > 0 {
		slog.Debug("Cleaned up alerts", "removed", removed)
	}
}
