package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/5G-MAG/m1-dashboard/internal/af"
)

// CreateHosting sets up the content hosting configuration of a session.
func (c *Controller) CreateHosting(ctx context.Context, sessionID string) Result {
	msg, err := c.client.SetHosting(ctx, sessionID)
	if err != nil {
		slog.Error("Failed to set hosting", "session_id", sessionID, "error", err)
		return alert(LevelError, "Failed to set hosting for the provisioning session.", "")
	}
	return alert(LevelSuccess, msg, "")
}

func (c *Controller) CreateCertificate(ctx context.Context, sessionID string) Result {
	certID, err := c.client.CreateCertificate(ctx, sessionID)
	if err != nil {
		slog.Error("Failed to create certificate", "session_id", sessionID, "error", err)
		if af.IsHTTPError(err) {
			return alert(LevelError, "Error", af.Detail(err, "An error occurred"))
		}
		return alert(LevelError, "Network Error", "Failed to communicate with the server")
	}
	return alert(LevelSuccess, "Certificate created successfully!", fmt.Sprintf("ID: %s", certID))
}

func (c *Controller) ShowCertificate(ctx context.Context, sessionID string) Result {
	certID, err := c.client.GetCertificateID(ctx, sessionID)
	if err != nil {
		slog.Warn("Failed to get certificate id", "session_id", sessionID, "error", err)
		if af.IsHTTPError(err) {
			return alert(LevelError, "Error", "Certificate might not be activated for this Provisioning Session.")
		}
		return alert(LevelError, "Network Error", "Failed to communicate with the server.")
	}
	return openURL(c.viewURL("show_certificate", sessionID, certID))
}

func (c *Controller) ShowProtocols(sessionID string) Result {
	return openURL(c.viewURL("show_protocol", sessionID))
}

func (c *Controller) ShowDetails() Result {
	return openURL(c.viewURL("details"))
}
