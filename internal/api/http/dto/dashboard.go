package dto

import "github.com/5G-MAG/m1-dashboard/internal/dashboard"

// ActionResponse is the outcome of one dashboard action. The page shows the
// alert, opens open_url in a new tab, or offers choices for a follow-up call.
type ActionResponse struct {
	Alert   *dashboard.Alert `json:"alert,omitempty"`
	OpenURL string           `json:"open_url,omitempty"`
	Choices []string         `json:"choices,omitempty"`
}

func NewActionResponse(res dashboard.Result) ActionResponse {
	return ActionResponse{
		Alert:   res.Alert,
		OpenURL: res.OpenURL,
		Choices: res.Choices,
	}
}

type HealthResponse struct {
	Status         string `json:"status"`
	AFStatus       string `json:"af_status,omitempty"`
	ConnectionLost bool   `json:"connection_lost"`
}

type PolicyAvailabilityResponse struct {
	SessionID string `json:"session_id"`
	Enabled   bool   `json:"enabled"`
}

type MetricsOptionsResponse struct {
	Metrics []string `json:"metrics"`
}
