package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/5G-MAG/m1-dashboard/internal/api/http/dto"
	"github.com/5G-MAG/m1-dashboard/internal/api/http/middleware"
	"github.com/5G-MAG/m1-dashboard/internal/auth"
)

type AuthHandler struct {
	authService *auth.Service
	tokenTTL    int
}

func NewAuthHandler(authService *auth.Service, tokenTTLSeconds int) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokenTTL:    tokenTTLSeconds,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Warn("Failed login attempt", "username", req.Username, "client_ip", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		slog.Error("Failed to log in", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, token, h.tokenTTL, "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	c.Status(http.StatusNoContent)
}
