package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/5G-MAG/m1-dashboard/internal/af"
)

const (
	DefaultPollInterval = 5 * time.Second

	StatusConnected    = "Connection with Application Function: ✅"
	StatusDisconnected = "Connection with Application Function: ❌"
	StatusInterrupted  = "Connection with AF interrupted."
)

// CheckAFStatus probes the backend once. The first failed probe of an
// outage clears the table, asks the backend to drop every session and
// raises a warning; later failures are ignored until a probe succeeds.
func (c *Controller) CheckAFStatus(ctx context.Context) {
	err := c.client.CheckConnection(ctx)
	if err == nil {
		c.mu.Lock()
		wasLost := c.connectionLost
		c.connectionLost = false
		c.mu.Unlock()

		if wasLost {
			slog.Info("Connection with Application Function restored")
		}
		c.notifier.SetStatus(StatusConnected)
		return
	}

	c.mu.Lock()
	if c.connectionLost {
		c.mu.Unlock()
		slog.Debug("Application Function still unreachable", "error", err)
		return
	}
	c.connectionLost = true
	c.mu.Unlock()

	slog.Warn("Lost connection with Application Function", "error", err, "status_code", af.StatusCode(err))
	if af.IsHTTPError(err) {
		c.notifier.SetStatus(StatusDisconnected)
	} else {
		c.notifier.SetStatus(StatusInterrupted)
	}

	c.table.Clear()
	if err := c.client.RemoveAllSessions(ctx); err != nil {
		slog.Error("Failed to purge all sessions from the backend server", "error", err)
	}
	c.notifier.Notify(Alert{
		Level: LevelWarning,
		Title: "Lost connection with Application Function!",
		Text:  "All session data has been purged.",
	})
}

// Poller runs CheckAFStatus on a fixed interval.
type Poller struct {
	controller *Controller
	interval   time.Duration
}

func NewPoller(controller *Controller, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{controller: controller, interval: interval}
}

// Run blocks until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	slog.Info("Connectivity poller started", "interval", p.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Connectivity poller stopped")
			return
		case <-ticker.C:
			p.controller.CheckAFStatus(ctx)
		}
	}
}
