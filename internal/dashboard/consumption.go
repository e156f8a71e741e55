package dashboard

import (
	"context"
	"log/slog"

	"github.com/5G-MAG/m1-dashboard/internal/af"
	"github.com/5G-MAG/m1-dashboard/internal/forms"
)

// SetConsumption validates the form and posts it. A validation failure is
// returned as *forms.ValidationError and nothing is sent.
func (c *Controller) SetConsumption(ctx context.Context, sessionID string, form forms.ConsumptionForm) (Result, error) {
	cfg, err := form.Validate()
	if err != nil {
		return Result{}, err
	}

	msg, err := c.client.SetConsumption(ctx, sessionID, cfg)
	if err != nil {
		slog.Error("Failed to set consumption reporting", "session_id", sessionID, "error", err)
		if af.IsHTTPError(err) {
			return alert(LevelError, "Error", af.Detail(err, "An error occurred while setting consumption parameters.")), nil
		}
		return alert(LevelError, "Error", "Network error or server not responding."), nil
	}
	return alert(LevelSuccess, msg, ""), nil
}

func (c *Controller) ShowConsumption(sessionID string) Result {
	return openURL(c.viewURL("show_consumption", sessionID))
}

func (c *Controller) DeleteConsumption(ctx context.Context, sessionID string, confirm ConfirmFunc) Result {
	if !ask(ctx, confirm, Confirmation{
		Title: "Delete Consumption Reporting?",
		Text:  "Are you sure? You won't be able to revert this.",
	}) {
		return Result{}
	}

	if err := c.client.DeleteConsumption(ctx, sessionID); err != nil {
		slog.Error("Failed to delete consumption reporting", "session_id", sessionID, "error", err)
		if af.IsHTTPError(err) {
			return alert(LevelError, "Application Provider says:", af.Detail(err, "Unknown error occurred."))
		}
		return alert(LevelError, "Error", "Network error or server not responding.")
	}
	return alert(LevelSuccess, "Deleted Consumption Reporting!", "The consumption reporting has been deleted.")
}
