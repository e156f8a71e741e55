package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/5G-MAG/m1-dashboard/internal/af"
	"github.com/5G-MAG/m1-dashboard/internal/dashboard"
	"github.com/5G-MAG/m1-dashboard/internal/state"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	backend    *httptest.Server
	client     *af.Client
	state      *state.AppState
	controller *dashboard.Controller
}

// newFixture starts a fake backend serving mux and wires a controller to it.
func newFixture(t *testing.T, mux *http.ServeMux) *fixture {
	t.Helper()
	backend := httptest.NewServer(mux)
	t.Cleanup(backend.Close)

	client, err := af.NewClient(backend.URL, backend.Client())
	require.NoError(t, err)

	appState := state.New(0, 0)
	return &fixture{
		backend:    backend,
		client:     client,
		state:      appState,
		controller: dashboard.NewController(client, appState, appState, dashboard.WithViewBase("/view/")),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func perform(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
