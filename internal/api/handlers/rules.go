package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/netops-backend-go/internal/api/middleware"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	"github.com/michaelayoade/netops-backend-go/pkg/utils"
)

type ruleRequest struct {
	Name            string  `json:"name" binding:"required"`
	MetricType      string  `json:"metric_type" binding:"required"`
	Operator        string  `json:"operator" binding:"required"`
	Threshold       float64 `json:"threshold"`
	DurationSeconds int     `json:"duration_seconds"`
	Severity        string  `json:"severity" binding:"required"`
	DeviceID        *string `json:"device_id"`
	InterfaceID     *string `json:"interface_id"`
}

func (r *ruleRequest) toModel() *models.AlertRule {
	return &models.AlertRule{
		Name:            r.Name,
		MetricType:      r.MetricType,
		Operator:        models.Operator(r.Operator),
		Threshold:       r.Threshold,
		DurationSeconds: r.DurationSeconds,
		Severity:        models.Severity(r.Severity),
		DeviceID:        r.DeviceID,
		InterfaceID:     r.InterfaceID,
	}
}

// CreateRule creates a new alert rule
func (h *Handlers) CreateRule(c *gin.Context) {
	var request ruleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	rule := request.toModel()
	if err := h.ruleService.Create(c.Request.Context(), rule); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendCreated(c, rule)
}

// GetRule retrieves one rule
func (h *Handlers) GetRule(c *gin.Context) {
	rule, err := h.ruleService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, rule)
}

// ListRules retrieves rules
func (h *Handlers) ListRules(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	rules, err := h.ruleService.List(c.Request.Context(), includeInactive)
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, rules)
}

// UpdateRule updates an existing rule
func (h *Handlers) UpdateRule(c *gin.Context) {
	var request ruleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	rule := request.toModel()
	rule.ID = c.Param("id")
	rule.IsActive = true
	if err := h.ruleService.Update(c.Request.Context(), rule); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, rule)
}

// DeactivateRule tombstones a rule
func (h *Handlers) DeactivateRule(c *gin.Context) {
	if err := h.ruleService.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, gin.H{"deactivated": true})
}

// BulkSetRulesActive flips the active flag on a batch of rules atomically
func (h *Handlers) BulkSetRulesActive(c *gin.Context) {
	var request struct {
		RuleIDs  []string `json:"rule_ids" binding:"required"`
		IsActive *bool    `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	count, err := h.ruleService.BulkSetActive(c.Request.Context(), request.RuleIDs, *request.IsActive)
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, gin.H{"updated": count})
}
