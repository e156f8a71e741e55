package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/5G-MAG/m1-dashboard/internal/api/http/dto"
	"github.com/5G-MAG/m1-dashboard/internal/dashboard"
	"github.com/5G-MAG/m1-dashboard/internal/forms"
)

// DashboardHandler exposes the dashboard flows as JSON actions. The page
// asks for confirmation before calling a delete action, so deletes run
// without a second prompt.
type DashboardHandler struct {
	controller *dashboard.Controller
}

func NewDashboardHandler(controller *dashboard.Controller) *DashboardHandler {
	return &DashboardHandler{controller: controller}
}

func (h *DashboardHandler) ReloadSessions(c *gin.Context) {
	respond(c, h.controller.LoadAllSessions(c.Request.Context()))
}

func (h *DashboardHandler) CreateSession(c *gin.Context) {
	respond(c, h.controller.CreateSession(c.Request.Context()))
}

func (h *DashboardHandler) DeleteSession(c *gin.Context) {
	respond(c, h.controller.DeleteSession(c.Request.Context(), c.Param("id"), dashboard.AlwaysConfirm))
}

func (h *DashboardHandler) CreateHosting(c *gin.Context) {
	respond(c, h.controller.CreateHosting(c.Request.Context(), c.Param("id")))
}

func (h *DashboardHandler) CreateCertificate(c *gin.Context) {
	respond(c, h.controller.CreateCertificate(c.Request.Context(), c.Param("id")))
}

func (h *DashboardHandler) ShowCertificate(c *gin.Context) {
	respond(c, h.controller.ShowCertificate(c.Request.Context(), c.Param("id")))
}

func (h *DashboardHandler) ShowProtocols(c *gin.Context) {
	respond(c, h.controller.ShowProtocols(c.Param("id")))
}

func (h *DashboardHandler) ShowDetails(c *gin.Context) {
	respond(c, h.controller.ShowDetails())
}

func (h *DashboardHandler) SetConsumption(c *gin.Context) {
	var form forms.ConsumptionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.controller.SetConsumption(c.Request.Context(), c.Param("id"), form)
	respondForm(c, res, err)
}

func (h *DashboardHandler) ShowConsumption(c *gin.Context) {
	respond(c, h.controller.ShowConsumption(c.Param("id")))
}

func (h *DashboardHandler) DeleteConsumption(c *gin.Context) {
	respond(c, h.controller.DeleteConsumption(c.Request.Context(), c.Param("id"), dashboard.AlwaysConfirm))
}

func (h *DashboardHandler) SetDynamicPolicy(c *gin.Context) {
	var form forms.PolicyForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.controller.SetDynamicPolicy(c.Request.Context(), c.Param("id"), form)
	respondForm(c, res, err)
}

func (h *DashboardHandler) ShowDynamicPolicies(c *gin.Context) {
	respond(c, h.controller.ShowDynamicPolicies(c.Request.Context(), c.Param("id")))
}

func (h *DashboardHandler) DeleteDynamicPolicy(c *gin.Context) {
	respond(c, h.controller.DeleteDynamicPolicy(c.Request.Context(), c.Param("id"), dashboard.AlwaysConfirm))
}

func (h *DashboardHandler) PolicyTemplatesEnabled(c *gin.Context) {
	id := c.Param("id")
	c.JSON(http.StatusOK, dto.PolicyAvailabilityResponse{
		SessionID: id,
		Enabled:   h.controller.PolicyTemplatesEnabled(c.Request.Context(), id),
	})
}

func (h *DashboardHandler) CreateMetrics(c *gin.Context) {
	var form forms.MetricsForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.controller.CreateMetrics(c.Request.Context(), c.Param("id"), form)
	respondForm(c, res, err)
}

// ShowMetrics lists the metrics configurations of a session, or opens the
// one named by the metric_id query parameter.
func (h *DashboardHandler) ShowMetrics(c *gin.Context) {
	var choose dashboard.ChooseFunc
	if metricID := c.Query("metric_id"); metricID != "" {
		choose = dashboard.Pick(metricID)
	}
	respond(c, h.controller.ShowMetrics(c.Request.Context(), c.Param("id"), choose))
}

func (h *DashboardHandler) DeleteMetrics(c *gin.Context) {
	res := h.controller.DeleteMetrics(c.Request.Context(), c.Param("id"), dashboard.Pick(c.Param("metricId")), dashboard.AlwaysConfirm)
	respond(c, res)
}

func (h *DashboardHandler) MetricsOptions(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MetricsOptionsResponse{Metrics: forms.KnownMetrics})
}

func respond(c *gin.Context, res dashboard.Result) {
	c.JSON(http.StatusOK, dto.NewActionResponse(res))
}

func respondForm(c *gin.Context, res dashboard.Result, err error) {
	if err == nil {
		respond(c, res)
		return
	}

	var vErr *forms.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, dto.ActionResponse{
			Alert: &dashboard.Alert{Level: dashboard.LevelError, Title: "Invalid input", Text: vErr.Message},
		})
		return
	}

	slog.Error("Failed to validate form", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate form"})
}
