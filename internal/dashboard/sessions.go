package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/5G-MAG/m1-dashboard/internal/af"
)

// LoadAllSessions replaces the table content with the sessions known to the
// backend and probes dynamic policy support for each of them.
func (c *Controller) LoadAllSessions(ctx context.Context) Result {
	ids, err := c.client.ListSessions(ctx)
	if err != nil {
		slog.Error("Failed to load sessions", "error", err)
		if af.IsHTTPError(err) {
			return alert(LevelError, "Failed to load data!", "Check connection with the 5GMS Application Function.")
		}
		return alert(LevelError, "Error", "An unexpected error occurred while loading the sessions.")
	}

	c.table.Clear()
	for _, id := range ids {
		c.table.AddRow(id)
	}
	for _, id := range ids {
		c.probePolicies(ctx, id)
	}

	slog.Debug("Sessions loaded", "count", len(ids))
	return Result{}
}

func (c *Controller) CreateSession(ctx context.Context) Result {
	id, err := c.client.CreateSession(ctx)
	if err != nil {
		slog.Error("Failed to create session", "error", err)
		if af.IsHTTPError(err) {
			return alert(LevelError, "Failed to create new provisioning session!", "Please, make sure that Application Function is running!")
		}
		return alert(LevelError, "Network Error", "Failed to communicate with the backend server.")
	}

	slog.Info("Provisioning session created", "session_id", id)
	c.table.AddRow(id)
	c.probePolicies(ctx, id)
	return alert(LevelSuccess, "Created Provisioning Session", fmt.Sprintf("ID: %s", id))
}

func (c *Controller) DeleteSession(ctx context.Context, sessionID string, confirm ConfirmFunc) Result {
	if !ask(ctx, confirm, Confirmation{
		Title: "Delete Provisioning Session?",
		Text:  "Permanently remove provisioning session and it resources?",
	}) {
		return Result{}
	}

	err := c.client.DeleteSession(ctx, sessionID)
	switch {
	case err == nil:
		slog.Info("Provisioning session deleted", "session_id", sessionID)
		c.table.RemoveRow(sessionID)
		return alert(LevelSuccess, "Deleted Provisioning session", fmt.Sprintf("%s deleted with all resources", sessionID))
	case errors.Is(err, af.ErrNotFound):
		slog.Warn("Provisioning session already gone", "session_id", sessionID)
		c.table.RemoveRow(sessionID)
		return alert(LevelInfo, "Provisioning session not found.", "The session might have already been deleted.")
	case af.IsHTTPError(err):
		slog.Error("Failed to delete session", "session_id", sessionID, "error", err)
		return alert(LevelError, "Failed to delete the provisioning session.", af.Detail(err, "An error occurred while deleting the session."))
	default:
		slog.Error("Failed to delete session", "session_id", sessionID, "error", err)
		return alert(LevelError, "Error", "An error occurred while deleting the session.")
	}
}

// PolicyTemplatesEnabled reports whether dynamic policies can be used for a
// session. Any failure counts as disabled.
func (c *Controller) PolicyTemplatesEnabled(ctx context.Context, sessionID string) bool {
	enabled, err := c.client.PolicyTemplatesEnabled(ctx, sessionID)
	if err != nil {
		slog.Debug("Policy template check failed", "session_id", sessionID, "error", err)
		return false
	}
	return enabled
}

func (c *Controller) probePolicies(ctx context.Context, sessionID string) {
	c.table.SetPolicyAvailability(sessionID, c.PolicyTemplatesEnabled(ctx, sessionID))
}

func ask(ctx context.Context, confirm ConfirmFunc, q Confirmation) bool {
	if confirm == nil {
		return true
	}
	return confirm(ctx, q)
}
