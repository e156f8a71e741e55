package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/5G-MAG/m1-dashboard/internal/af"
	"github.com/5G-MAG/m1-dashboard/internal/forms"
)

func (c *Controller) CreateMetrics(ctx context.Context, sessionID string, form forms.MetricsForm) (Result, error) {
	cfg, err := form.Validate()
	if err != nil {
		return Result{}, err
	}

	id, err := c.client.CreateMetrics(ctx, sessionID, cfg)
	if err != nil {
		slog.Error("Failed to create metrics configuration", "session_id", sessionID, "error", err)
		if af.IsHTTPError(err) {
			return alert(LevelError, "Error", af.Detail(err, "An error occurred while creating the metrics reporting configuration.")), nil
		}
		return alert(LevelError, "Error", "An unexpected error occurred."), nil
	}
	return alert(LevelSuccess, "Metrics Reporting Configuration successfully created", fmt.Sprintf("ID: %s", id)), nil
}

// ShowMetrics opens the metrics configuration picked by choose. Without a
// chooser the available IDs are returned as Choices.
func (c *Controller) ShowMetrics(ctx context.Context, sessionID string, choose ChooseFunc) Result {
	ids, res, ok := c.metricsIDs(ctx, sessionID)
	if !ok {
		return res
	}
	if choose == nil {
		return Result{Choices: ids}
	}

	metricsID, ok := choose(ctx, Choice{Title: "Select Metrics Configuration to display:", Options: ids})
	if !ok {
		return Result{}
	}
	return openURL(c.viewURL("show_metrics", sessionID, metricsID))
}

func (c *Controller) DeleteMetrics(ctx context.Context, sessionID string, choose ChooseFunc, confirm ConfirmFunc) Result {
	ids, res, ok := c.metricsIDs(ctx, sessionID)
	if !ok {
		return res
	}
	if choose == nil {
		return Result{Choices: ids}
	}

	metricsID, ok := choose(ctx, Choice{Title: "Select Metrics Configuration to delete:", Options: ids})
	if !ok {
		return Result{}
	}
	if !ask(ctx, confirm, Confirmation{
		Title: "Delete Metrics Configuration?",
		Text:  fmt.Sprintf("Configuration %s will be deleted permanently.", metricsID),
	}) {
		return Result{}
	}

	if err := c.client.DeleteMetrics(ctx, sessionID, metricsID); err != nil {
		slog.Error("Failed to delete metrics configuration", "session_id", sessionID, "metrics_id", metricsID, "error", err)
		if af.IsHTTPError(err) {
			return alert(LevelError, "Error", af.Detail(err, "Failed to delete the metrics configuration"))
		}
		return alert(LevelError, "Error", "Network error or server not responding.")
	}
	return alert(LevelSuccess, "Deleted!", fmt.Sprintf("The metrics configuration %s has been deleted.", metricsID))
}

func (c *Controller) metricsIDs(ctx context.Context, sessionID string) ([]string, Result, bool) {
	ids, err := c.client.ListMetricsIDs(ctx, sessionID)
	if err != nil {
		slog.Error("Failed to list metrics configurations", "session_id", sessionID, "error", err)
		return nil, alert(LevelError, "No provisioned Metrics Reporting Configurations", ""), false
	}
	if len(ids) == 0 {
		return nil, alert(LevelInfo, "No Metrics Configurations", "There are no metrics configurations available for this session."), false
	}
	return ids, Result{}, true
}

// Pick returns a ChooseFunc for a selection the user already made.
func Pick(option string) ChooseFunc {
	return func(context.Context, Choice) (string, bool) {
		return option, true
	}
}
