package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/5G-MAG/m1-dashboard/internal/api/http/dto"
	"github.com/5G-MAG/m1-dashboard/internal/dashboard"
	"github.com/5G-MAG/m1-dashboard/internal/state"
	"github.com/5G-MAG/m1-dashboard/systemtest/fakebackend"
)

type Env struct {
	Router     *gin.Engine
	Backend    *fakebackend.Backend
	Controller *dashboard.Controller
	State      *state.AppState
	JWTSecret  string
	Password   string
	APIKey     string
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	return doJSONWithHeaders(router, method, path, body, nil)
}

func doJSONWithHeaders(router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func (e *Env) do(method, path string, body any) *httptest.ResponseRecorder {
	return doJSONWithHeaders(e.Router, method, path, body, map[string]string{"X-API-Key": e.APIKey})
}

// action calls a dashboard action and decodes the response.
func (e *Env) action(t *testing.T, method, path string, body any) dto.ActionResponse {
	t.Helper()
	rr := e.do(method, path, body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp dto.ActionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}
