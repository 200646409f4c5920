package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/michaelayoade/netops-backend-go/internal/api/handlers"
	"github.com/michaelayoade/netops-backend-go/internal/api/middleware"
	"github.com/michaelayoade/netops-backend-go/internal/config"
	"github.com/michaelayoade/netops-backend-go/internal/core/metrics"
	"github.com/michaelayoade/netops-backend-go/internal/database"
	"github.com/michaelayoade/netops-backend-go/internal/websocket"
)

// NewRouter creates and configures the main HTTP router
func NewRouter(cfg *config.Config, db *sqlx.DB, repos *database.Repositories, logger *logrus.Logger, wsHub *websocket.Hub, collector *metrics.Collector, services handlers.Services) *gin.Engine {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(middleware.ErrorHandlingMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CORSMiddleware(cfg.Server))
	if cfg.Metrics.Enabled {
		router.Use(middleware.MetricsMiddleware(collector))
	}

	h := handlers.NewHandlers(cfg, db, repos, logger, wsHub, services)

	router.GET("/health", h.Health)
	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.GET("/ws", h.WebSocketHandler(wsHub))
	router.GET("/ws/stats", h.WebSocketStats)

	api := router.Group("/api/v1")
	{
		telemetry := api.Group("/telemetry")
		{
			telemetry.POST("/metrics", h.RecordMetric)
			telemetry.GET("/metrics", h.ListMetrics)
		}

		alerts := api.Group("/alerts")
		{
			alerts.GET("", h.ListAlerts)
			alerts.POST("/bulk/acknowledge", h.BulkAcknowledgeAlerts)
			alerts.POST("/bulk/resolve", h.BulkResolveAlerts)
			alerts.GET("/:id", h.GetAlert)
			alerts.GET("/:id/events", h.ListAlertEvents)
			alerts.GET("/:id/notifications", h.ListAlertNotifications)
			alerts.POST("/:id/acknowledge", h.AcknowledgeAlert)
			alerts.POST("/:id/resolve", h.ResolveAlert)
		}

		rules := api.Group("/rules")
		{
			rules.POST("", h.CreateRule)
			rules.GET("", h.ListRules)
			rules.POST("/bulk/active", h.BulkSetRulesActive)
			rules.GET("/:id", h.GetRule)
			rules.PUT("/:id", h.UpdateRule)
			rules.DELETE("/:id", h.DeactivateRule)
		}

		api.GET("/reports/uptime", h.UptimeReport)

		policies := api.Group("/notification-policies")
		{
			policies.POST("", h.CreatePolicy)
			policies.GET("", h.ListPolicies)
			policies.GET("/:id", h.GetPolicy)
			policies.PUT("/:id", h.UpdatePolicy)
			policies.POST("/:id/steps", h.CreatePolicyStep)
			policies.GET("/:id/steps", h.ListPolicySteps)
			policies.PUT("/:id/steps/:step_id", h.UpdatePolicyStep)
		}

		rotations := api.Group("/rotations")
		{
			rotations.POST("", h.CreateRotation)
			rotations.GET("", h.ListRotations)
			rotations.GET("/:id", h.GetRotation)
			rotations.POST("/:id/members", h.CreateRotationMember)
			rotations.GET("/:id/members", h.ListRotationMembers)
		}

		templates := api.Group("/templates")
		{
			templates.POST("", h.CreateTemplate)
			templates.GET("", h.ListTemplates)
			templates.PUT("/:id", h.UpdateTemplate)
			templates.DELETE("/:id", h.DeleteTemplate)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", h.ListNotifications)
			notifications.POST("/claim", h.ClaimDueNotifications)
			notifications.GET("/:id", h.GetNotification)
			notifications.POST("/:id/delivery", h.RecordNotificationDelivery)
		}

		devices := api.Group("/devices")
		{
			devices.POST("", h.CreateDevice)
			devices.GET("", h.ListDevices)
			devices.GET("/:id", h.GetDevice)
			devices.PUT("/:id", h.UpdateDevice)
			devices.PUT("/:id/active", h.SetDeviceActive)
		}

		api.POST("/pop-sites", h.CreatePopSite)
		api.GET("/pop-sites", h.ListPopSites)
		api.POST("/areas", h.CreateArea)
		api.GET("/areas", h.ListAreas)
		api.POST("/fdhs", h.CreateFdh)
		api.GET("/fdhs", h.ListFdhs)

		settings := api.Group("/settings")
		{
			settings.GET("", h.ListSettings)
			settings.PUT("/:key", h.SetSetting)
		}
	}

	return router
}
