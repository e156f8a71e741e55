package http

import (
	"github.com/gin-gonic/gin"

	"github.com/5G-MAG/m1-dashboard/internal/api/http/handler"
	"github.com/5G-MAG/m1-dashboard/internal/api/http/middleware"
	"github.com/5G-MAG/m1-dashboard/internal/auth"
	"github.com/5G-MAG/m1-dashboard/internal/dashboard"
	"github.com/5G-MAG/m1-dashboard/internal/state"
)

type Services struct {
	Controller  *dashboard.Controller
	State       *state.AppState
	StateFeed   *handler.StateHandler
	Views       handler.ViewClient
	Auth        *auth.Service
	TokenTTL    int
	AdminAPIKey string
}

func SetupRoute(engine *gin.Engine, srvs *Services) {
	engine.Use(middleware.RequestLogger())

	healthHandler := handler.NewHealthHandler(srvs.Controller, srvs.State)
	engine.GET("/health", healthHandler.Check)
	engine.GET("/", handler.Index)

	jwtSecret := ""
	if srvs.Auth != nil && srvs.Auth.Enabled() {
		jwtSecret = srvs.Auth.Secret()
		authHandler := handler.NewAuthHandler(srvs.Auth, srvs.TokenTTL)
		engine.POST("/auth/login", authHandler.Login)
		engine.POST("/auth/logout", authHandler.Logout)
	}
	adminAuth := middleware.AdminAuth(jwtSecret, srvs.AdminAPIKey)

	stateFeed := srvs.StateFeed
	if stateFeed == nil {
		stateFeed = handler.NewStateHandler(srvs.State)
	}
	engine.GET("/ws", adminAuth, stateFeed.WebSocket)

	if srvs.Views != nil {
		viewHandler := handler.NewViewHandler(srvs.Views)
		engine.GET("/view/*path", adminAuth, viewHandler.Proxy)
	}

	dashboardHandler := handler.NewDashboardHandler(srvs.Controller)
	api := engine.Group("/api", adminAuth)
	{
		api.GET("/state", stateFeed.GetState)
		api.GET("/details", dashboardHandler.ShowDetails)
		api.GET("/metrics/options", dashboardHandler.MetricsOptions)

		api.GET("/sessions", dashboardHandler.ReloadSessions)
		api.POST("/sessions", dashboardHandler.CreateSession)

		session := api.Group("/sessions/:id")
		session.DELETE("", dashboardHandler.DeleteSession)
		session.POST("/hosting", dashboardHandler.CreateHosting)
		session.POST("/certificate", dashboardHandler.CreateCertificate)
		session.GET("/certificate", dashboardHandler.ShowCertificate)
		session.GET("/protocols", dashboardHandler.ShowProtocols)
		session.POST("/consumption", dashboardHandler.SetConsumption)
		session.GET("/consumption", dashboardHandler.ShowConsumption)
		session.DELETE("/consumption", dashboardHandler.DeleteConsumption)
		session.POST("/policies", dashboardHandler.SetDynamicPolicy)
		session.GET("/policies", dashboardHandler.ShowDynamicPolicies)
		session.DELETE("/policies", dashboardHandler.DeleteDynamicPolicy)
		session.GET("/policies/enabled", dashboardHandler.PolicyTemplatesEnabled)
		session.POST("/metrics", dashboardHandler.CreateMetrics)
		session.GET("/metrics", dashboardHandler.ShowMetrics)
		session.DELETE("/metrics/:metricId", dashboardHandler.DeleteMetrics)
	}
}
