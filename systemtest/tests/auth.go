package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5G-MAG/m1-dashboard/internal/api/http/dto"
	"github.com/5G-MAG/m1-dashboard/internal/auth"
)

func TestHealthCheck(t *testing.T, env *Env) {
	rr := doJSON(env.Router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp dto.HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.ConnectionLost)
}

func TestAuth(t *testing.T, env *Env) {
	t.Run("page is public", func(t *testing.T) {
		rr := doJSON(env.Router, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "M1 Provisioning Sessions")
	})

	t.Run("api requires credentials", func(t *testing.T) {
		rr := doJSON(env.Router, http.MethodGet, "/api/state", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		rr = doJSON(env.Router, http.MethodGet, "/view/details", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("api key", func(t *testing.T) {
		rr := env.do(http.MethodGet, "/api/state", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("login", func(t *testing.T) {
		rr := doJSON(env.Router, http.MethodPost, "/auth/login", dto.LoginRequest{Username: "admin", Password: env.Password})
		require.Equal(t, http.StatusOK, rr.Code)

		var resp dto.LoginResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		claims, err := auth.ValidateToken(env.JWTSecret, resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Username)

		rr = doJSONWithHeaders(env.Router, http.MethodGet, "/api/state", nil, map[string]string{"Authorization": "Bearer " + resp.Token})
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		rr := doJSON(env.Router, http.MethodPost, "/auth/login", dto.LoginRequest{Username: "admin", Password: "wrongpassword"})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		rr := doJSON(env.Router, http.MethodPost, "/auth/login", dto.LoginRequest{Username: "nouser", Password: env.Password})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
