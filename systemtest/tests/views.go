package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5G-MAG/m1-dashboard/internal/dashboard"
	"github.com/5G-MAG/m1-dashboard/internal/state"
)

func TestViews(t *testing.T, env *Env) {
	resp := env.action(t, http.MethodGet, "/api/sessions/ps-1/protocols", nil)
	require.Equal(t, "/view/show_protocol/ps-1", resp.OpenURL)

	rr := env.do(http.MethodGet, resp.OpenURL, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `<head><base href="/view/">`)
	assert.Contains(t, rr.Body.String(), "ps-1")

	resp = env.action(t, http.MethodGet, "/api/details", nil)
	require.Equal(t, "/view/details", resp.OpenURL)

	rr = env.do(http.MethodGet, resp.OpenURL, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<h2>ps-1</h2>")
}

func TestConnectionLoss(t *testing.T, env *Env) {
	ctx := t.Context()
	require.NotEmpty(t, env.State.Rows())

	env.Backend.SetDown(true)
	env.Controller.CheckAFStatus(ctx)
	env.Controller.CheckAFStatus(ctx)

	assert.True(t, env.Controller.ConnectionLost())
	assert.Empty(t, env.State.Rows())
	assert.Empty(t, env.Backend.SessionIDs())
	assert.Equal(t, 1, env.Backend.Purges())
	assert.Equal(t, dashboard.StatusDisconnected, env.State.Status())

	alerts := env.State.Snapshot().Alerts
	require.NotEmpty(t, alerts)
	assert.Equal(t, "Lost connection with Application Function!", alerts[len(alerts)-1].Title)

	env.Backend.SetDown(false)
	env.Controller.CheckAFStatus(ctx)
	assert.False(t, env.Controller.ConnectionLost())
	assert.Equal(t, dashboard.StatusConnected, env.State.Status())
}

// TestPageLoadResync loads the page after the backend gained a session the
// dashboard never saw. The page reloads the session list before it reads the
// state snapshot.
func TestPageLoadResync(t *testing.T, env *Env) {
	require.Empty(t, env.State.Rows())
	id := env.Backend.AddSession()

	rr := env.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "await action('GET', '/api/sessions');")

	env.action(t, http.MethodGet, "/api/sessions", nil)

	rr = env.do(http.MethodGet, "/api/state", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var snap state.SnapshotData
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, id, snap.Rows[0].SessionID)
}
