package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/michaelayoade/netops-backend-go/internal/api"
	"github.com/michaelayoade/netops-backend-go/internal/config"
	"github.com/michaelayoade/netops-backend-go/internal/api/handlers"
	"github.com/michaelayoade/netops-backend-go/internal/core/alerting"
	"github.com/michaelayoade/netops-backend-go/internal/core/inventory"
	"github.com/michaelayoade/netops-backend-go/internal/core/metrics"
	"github.com/michaelayoade/netops-backend-go/internal/core/notifications"
	"github.com/michaelayoade/netops-backend-go/internal/core/telemetry"
	"github.com/michaelayoade/netops-backend-go/internal/core/uptime"
	"github.com/michaelayoade/netops-backend-go/internal/database"
	"github.com/michaelayoade/netops-backend-go/internal/websocket"
	"github.com/michaelayoade/netops-backend-go/pkg/logger"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	logger.SetLevel(log, cfg.Logging.Level)

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Database); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	repos := database.NewRepositories(db)

	wsHub := websocket.NewHub(cfg.WebSocket, log)
	go wsHub.Run()

	collector := metrics.NewCollector(cfg.Metrics)
	settings := alerting.NewSettingsResolver(cfg.Alerting, repos.Settings, log)

	// Sinks fed by every alert transition, after the escalation dispatcher
	sinks := []alerting.AlertEventSink{
		websocket.NewAlertNotifier(wsHub),
		collector,
	}

	services := handlers.Services{
		Telemetry:     telemetry.NewService(db, repos, settings, collector, cfg.Telemetry, log, sinks...),
		Alerts:        alerting.NewService(db, repos, settings, collector, log, sinks...),
		Rules:         alerting.NewRuleService(db, repos, log),
		Escalation:    alerting.NewEscalationConfigService(repos, log),
		Settings:      alerting.NewSettingsService(repos, settings, log),
		Notifications: notifications.NewService(db, repos, log),
		Uptime:        uptime.NewService(repos, log),
		Inventory:     inventory.NewService(repos, log),
	}

	if err := services.Telemetry.StartRetention(); err != nil {
		log.Fatal("Failed to start retention scheduler:", err)
	}
	defer services.Telemetry.StopRetention()

	router := api.NewRouter(cfg, db, repos, log, wsHub, collector, services)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Starting NetOps Backend on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Info("Server exited")
}
