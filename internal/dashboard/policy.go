package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/5G-MAG/m1-dashboard/internal/af"
	"github.com/5G-MAG/m1-dashboard/internal/forms"
)

const msgNoPolicies = "No policy template IDs found for this session."

func (c *Controller) SetDynamicPolicy(ctx context.Context, sessionID string, form forms.PolicyForm) (Result, error) {
	tmpl, err := form.Validate()
	if err != nil {
		return Result{}, err
	}

	id, err := c.client.CreatePolicyTemplate(ctx, sessionID, tmpl)
	if err != nil {
		slog.Error("Failed to create policy template", "session_id", sessionID, "error", err)
		if af.IsHTTPError(err) {
			return alert(LevelError, "Error", af.Detail(err, "An error occurred while creating the policy template.")), nil
		}
		return alert(LevelError, "Error", "An unexpected error occurred."), nil
	}
	return alert(LevelSuccess, "Success", fmt.Sprintf("Created Dynamic Policies with ID: %q", id)), nil
}

// ShowDynamicPolicies opens the first policy template of a session.
func (c *Controller) ShowDynamicPolicies(ctx context.Context, sessionID string) Result {
	policyID, res, ok := c.firstPolicy(ctx, sessionID)
	if !ok {
		return res
	}
	return openURL(c.viewURL("show_policy_template", sessionID, policyID))
}

// DeleteDynamicPolicy deletes the first policy template of a session.
func (c *Controller) DeleteDynamicPolicy(ctx context.Context, sessionID string, confirm ConfirmFunc) Result {
	policyID, res, ok := c.firstPolicy(ctx, sessionID)
	if !ok {
		return res
	}

	if !ask(ctx, confirm, Confirmation{
		Title: "Delete Policy Template?",
		Text:  fmt.Sprintf("Are you sure you want to delete the policy template with ID: %s?", policyID),
	}) {
		return Result{}
	}

	if err := c.client.DeletePolicyTemplate(ctx, sessionID, policyID); err != nil {
		slog.Error("Failed to delete policy template", "session_id", sessionID, "policy_template_id", policyID, "error", err)
		if af.IsHTTPError(err) {
			return alert(LevelError, "Failed to Delete", af.Detail(err, "An error occurred while deleting the policy template."))
		}
		return alert(LevelError, "Error", "Network error or server not responding.")
	}
	return alert(LevelSuccess, "Deleted!", fmt.Sprintf("The policy template with ID: %s has been deleted.", policyID))
}

func (c *Controller) firstPolicy(ctx context.Context, sessionID string) (string, Result, bool) {
	ids, err := c.client.ListPolicyTemplateIDs(ctx, sessionID)
	if err != nil {
		slog.Error("Failed to list policy templates", "session_id", sessionID, "error", err)
		if af.IsHTTPError(err) {
			return "", alert(LevelError, "Error", "Failed to retrieve policy templates."), false
		}
		return "", alert(LevelError, "Error", "An unexpected error occurred while retrieving the policy templates."), false
	}
	if len(ids) == 0 {
		return "", alert(LevelError, "Error", msgNoPolicies), false
	}
	return ids[0], Result{}, true
}
