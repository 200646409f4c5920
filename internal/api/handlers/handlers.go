package handlers

import (
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/michaelayoade/netops-backend-go/internal/config"
	"github.com/michaelayoade/netops-backend-go/internal/core/alerting"
	"github.com/michaelayoade/netops-backend-go/internal/core/inventory"
	"github.com/michaelayoade/netops-backend-go/internal/core/notifications"
	"github.com/michaelayoade/netops-backend-go/internal/core/telemetry"
	"github.com/michaelayoade/netops-backend-go/internal/core/uptime"
	"github.com/michaelayoade/netops-backend-go/internal/database"
	"github.com/michaelayoade/netops-backend-go/internal/websocket"
)

// Handlers holds all HTTP handlers and their dependencies
type Handlers struct {
	cfg   *config.Config
	db    *sqlx.DB
	repos *database.Repositories
	log   *logrus.Logger
	wsHub *websocket.Hub

	telemetryService    *telemetry.Service
	alertService        *alerting.Service
	ruleService         *alerting.RuleService
	escalationService   *alerting.EscalationConfigService
	settingsService     *alerting.SettingsService
	notificationService *notifications.Service
	uptimeService       *uptime.Service
	inventoryService    *inventory.Service
}

// Services bundles the core services the handlers expose
type Services struct {
	Telemetry     *telemetry.Service
	Alerts        *alerting.Service
	Rules         *alerting.RuleService
	Escalation    *alerting.EscalationConfigService
	Settings      *alerting.SettingsService
	Notifications *notifications.Service
	Uptime        *uptime.Service
	Inventory     *inventory.Service
}

// NewHandlers creates a new handlers instance
func NewHandlers(cfg *config.Config, db *sqlx.DB, repos *database.Repositories, logger *logrus.Logger, wsHub *websocket.Hub, services Services) *Handlers {
	return &Handlers{
		cfg:                 cfg,
		db:                  db,
		repos:               repos,
		log:                 logger,
		wsHub:               wsHub,
		telemetryService:    services.Telemetry,
		alertService:        services.Alerts,
		ruleService:         services.Rules,
		escalationService:   services.Escalation,
		settingsService:     services.Settings,
		notificationService: services.Notifications,
		uptimeService:       services.Uptime,
		inventoryService:    services.Inventory,
	}
}
