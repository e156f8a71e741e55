package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/5G-MAG/m1-dashboard/internal/api/http/dto"
	"github.com/5G-MAG/m1-dashboard/internal/dashboard"
	"github.com/5G-MAG/m1-dashboard/internal/state"
)

type HealthHandler struct {
	controller *dashboard.Controller
	appState   *state.AppState
}

func NewHealthHandler(controller *dashboard.Controller, appState *state.AppState) *HealthHandler {
	return &HealthHandler{
		controller: controller,
		appState:   appState,
	}
}

func (h *HealthHandler) Check(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status:         "ok",
		AFStatus:       h.appState.Status(),
		ConnectionLost: h.controller.ConnectionLost(),
	})
}
