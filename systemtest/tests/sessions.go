package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5G-MAG/m1-dashboard/internal/api/http/dto"
	"github.com/5G-MAG/m1-dashboard/internal/dashboard"
	"github.com/5G-MAG/m1-dashboard/internal/forms"
)

func TestSessionLifecycle(t *testing.T, env *Env) {
	resp := env.action(t, http.MethodPost, "/api/sessions", nil)
	require.NotNil(t, resp.Alert)
	assert.Equal(t, "Created Provisioning Session", resp.Alert.Title)
	assert.Equal(t, "ID: ps-1", resp.Alert.Text)

	env.action(t, http.MethodPost, "/api/sessions", nil)
	rows := env.State.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, dashboard.Row{SessionID: "ps-1", Policies: dashboard.PolicyEnabled}, rows[0])

	// A reload rebuilds the table from the backend.
	env.State.Clear()
	env.action(t, http.MethodGet, "/api/sessions", nil)
	assert.Len(t, env.State.Rows(), 2)

	resp = env.action(t, http.MethodDelete, "/api/sessions/ps-2", nil)
	require.NotNil(t, resp.Alert)
	assert.Equal(t, dashboard.LevelSuccess, resp.Alert.Level)
	assert.Equal(t, []string{"ps-1"}, env.Backend.SessionIDs())

	resp = env.action(t, http.MethodDelete, "/api/sessions/ps-2", nil)
	require.NotNil(t, resp.Alert)
	assert.Equal(t, "Provisioning session not found.", resp.Alert.Title)
	require.Len(t, env.State.Rows(), 1)
	assert.Equal(t, "ps-1", env.State.Rows()[0].SessionID)
}

func TestResources(t *testing.T, env *Env) {
	const base = "/api/sessions/ps-1"

	t.Run("hosting", func(t *testing.T) {
		resp := env.action(t, http.MethodPost, base+"/hosting", nil)
		require.NotNil(t, resp.Alert)
		assert.Equal(t, "Hosting started", resp.Alert.Title)
	})

	t.Run("certificate", func(t *testing.T) {
		resp := env.action(t, http.MethodGet, base+"/certificate", nil)
		require.NotNil(t, resp.Alert)
		assert.Equal(t, dashboard.LevelError, resp.Alert.Level)

		env.action(t, http.MethodPost, base+"/certificate", nil)
		resp = env.action(t, http.MethodGet, base+"/certificate", nil)
		assert.Equal(t, "/view/show_certificate/ps-1/cert-ps-1", resp.OpenURL)
	})

	t.Run("consumption", func(t *testing.T) {
		rr := env.do(http.MethodPost, base+"/consumption", forms.ConsumptionForm{ReportingInterval: "abc", SamplePercentage: "10"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		resp := env.action(t, http.MethodPost, base+"/consumption", forms.ConsumptionForm{ReportingInterval: "10", SamplePercentage: "50", AccessReporting: true})
		require.NotNil(t, resp.Alert)
		assert.Equal(t, "Consumption reporting set", resp.Alert.Title)

		resp = env.action(t, http.MethodDelete, base+"/consumption", nil)
		require.NotNil(t, resp.Alert)
		assert.Equal(t, "Deleted Consumption Reporting!", resp.Alert.Title)

		resp = env.action(t, http.MethodDelete, base+"/consumption", nil)
		require.NotNil(t, resp.Alert)
		assert.Equal(t, "Application Provider says:", resp.Alert.Title)
		assert.Equal(t, "No consumption reporting configured", resp.Alert.Text)
	})

	t.Run("dynamic policies", func(t *testing.T) {
		rr := env.do(http.MethodGet, base+"/policies/enabled", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var availability dto.PolicyAvailabilityResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &availability))
		assert.True(t, availability.Enabled)

		resp := env.action(t, http.MethodPost, base+"/policies", forms.PolicyForm{
			ExternalReference: "ext-1",
			SponStatus:        forms.SponsorDisabled,
			SST:               "1",
			SD:                "000001",
		})
		require.NotNil(t, resp.Alert)
		assert.Equal(t, dashboard.LevelSuccess, resp.Alert.Level)

		resp = env.action(t, http.MethodGet, base+"/policies", nil)
		assert.Equal(t, "/view/show_policy_template/ps-1/policy-1", resp.OpenURL)

		env.action(t, http.MethodDelete, base+"/policies", nil)
		resp = env.action(t, http.MethodGet, base+"/policies", nil)
		require.NotNil(t, resp.Alert)
		assert.Equal(t, dashboard.LevelError, resp.Alert.Level)
	})

	t.Run("metrics", func(t *testing.T) {
		resp := env.action(t, http.MethodPost, base+"/metrics", forms.MetricsForm{
			SamplingPeriod:    "5",
			ReportingInterval: "10",
			Metrics:           []string{forms.KnownMetrics[0]},
		})
		require.NotNil(t, resp.Alert)
		assert.Equal(t, "ID: metrics-1", resp.Alert.Text)

		resp = env.action(t, http.MethodGet, base+"/metrics", nil)
		assert.Equal(t, []string{"metrics-1"}, resp.Choices)

		resp = env.action(t, http.MethodGet, base+"/metrics?metric_id=metrics-1", nil)
		assert.Equal(t, "/view/show_metrics/ps-1/metrics-1", resp.OpenURL)

		resp = env.action(t, http.MethodDelete, base+"/metrics/metrics-1", nil)
		require.NotNil(t, resp.Alert)
		assert.Equal(t, "Deleted!", resp.Alert.Title)

		resp = env.action(t, http.MethodGet, base+"/metrics", nil)
		require.NotNil(t, resp.Alert)
		assert.Equal(t, "No Metrics Configurations", resp.Alert.Title)
	})
}
