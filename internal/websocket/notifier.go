package websocket

import (
	"context"

	"github.com/michaelayoade/netops-backend-go/internal/database/models"
)

// AlertNotifier bridges alert state transitions onto the hub. Broadcasting
// is fire-and-forget; a full broadcast channel never fails the pipeline.
type AlertNotifier struct {
	hub *Hub
}

// NewAlertNotifier creates an alert notifier over the hub
func NewAlertNotifier(hub *Hub) *AlertNotifier {
	return &AlertNotifier{hub: hub}
}

// HandleAlertTransition implements the alert event sink
func (n *AlertNotifier) HandleAlertTransition(_ context.Context, alert *models.Alert, status models.AlertStatus) error {
	n.hub.BroadcastAlert(alert, status)
	return nil
}
