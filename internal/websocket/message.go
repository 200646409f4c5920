package websocket

import (
	"encoding/json"
	"time"

	"github.com/michaelayoade/netops-backend-go/internal/database/models"
)

// Message types pushed to connected operator consoles
const (
	MessageTypeConnection        = "connection"
	MessageTypeHeartbeat         = "heartbeat"
	MessageTypeAlertTriggered    = "alert_triggered"
	MessageTypeAlertAcknowledged = "alert_acknowledged"
	MessageTypeAlertResolved     = "alert_resolved"
)

// Message represents a WebSocket message
type Message struct {
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes
func (m Message) ToJSON() []byte {
	m.Timestamp = time.Now().UTC()
	data, _ := json.Marshal(m)
	return data
}

// AlertMessage builds the broadcast message for an alert transition
func AlertMessage(alert *models.Alert, status models.AlertStatus) Message {
	messageType := MessageTypeAlertTriggered
	switch status {
	case models.AlertStatusAcknowledged:
		messageType = MessageTypeAlertAcknowledged
	case models.AlertStatusResolved:
		messageType = MessageTypeAlertResolved
	}

	return Message{
		Type: messageType,
		Data: map[string]interface{}{
			"alert_id":       alert.ID,
			"rule_id":        alert.RuleID,
			"device_id":      alert.DeviceID,
			"interface_id":   alert.InterfaceID,
			"metric_type":    alert.MetricType,
			"measured_value": alert.MeasuredValue,
			"severity":       alert.Severity,
			"status":         alert.Status,
		},
	}
}
