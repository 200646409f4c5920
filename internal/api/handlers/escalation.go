package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/netops-backend-go/internal/api/middleware"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	"github.com/michaelayoade/netops-backend-go/pkg/utils"
)

type policyRequest struct {
	Name        string  `json:"name" binding:"required"`
	Channel     string  `json:"channel" binding:"required"`
	Recipient   *string `json:"recipient"`
	TemplateID  *string `json:"template_id"`
	RuleID      *string `json:"rule_id"`
	DeviceID    *string `json:"device_id"`
	InterfaceID *string `json:"interface_id"`
	SeverityMin string  `json:"severity_min" binding:"required"`
	Status      string  `json:"status" binding:"required"`
}

func (r *policyRequest) toModel() *models.AlertNotificationPolicy {
	return &models.AlertNotificationPolicy{
		Name:        r.Name,
		Channel:     models.NotificationChannel(r.Channel),
		Recipient:   r.Recipient,
		TemplateID:  r.TemplateID,
		RuleID:      r.RuleID,
		DeviceID:    r.DeviceID,
		InterfaceID: r.InterfaceID,
		SeverityMin: models.Severity(r.SeverityMin),
		Status:      models.AlertStatus(r.Status),
	}
}

// CreatePolicy creates a notification policy
func (h *Handlers) CreatePolicy(c *gin.Context) {
	var request policyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	policy := request.toModel()
	if err := h.escalationService.CreatePolicy(c.Request.Context(), policy); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendCreated(c, policy)
}

// GetPolicy retrieves one policy
func (h *Handlers) GetPolicy(c *gin.Context) {
	policy, err := h.escalationService.GetPolicy(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, policy)
}

// ListPolicies retrieves notification policies
func (h *Handlers) ListPolicies(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	policies, err := h.escalationService.ListPolicies(c.Request.Context(), includeInactive)
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, policies)
}

// UpdatePolicy updates an existing policy
func (h *Handlers) UpdatePolicy(c *gin.Context) {
	var request policyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	policy := request.toModel()
	policy.ID = c.Param("id")
	policy.IsActive = true
	if err := h.escalationService.UpdatePolicy(c.Request.Context(), policy); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, policy)
}

type stepRequest struct {
	StepIndex    int     `json:"step_index"`
	DelayMinutes int     `json:"delay_minutes"`
	Channel      string  `json:"channel" binding:"required"`
	Recipient    *string `json:"recipient"`
	TemplateID   *string `json:"template_id"`
	RotationID   *string `json:"rotation_id"`
	SeverityMin  string  `json:"severity_min" binding:"required"`
	Status       string  `json:"status" binding:"required"`
}

func (r *stepRequest) toModel(policyID string) *models.AlertNotificationPolicyStep {
	return &models.AlertNotificationPolicyStep{
		PolicyID:     policyID,
		StepIndex:    r.StepIndex,
		DelayMinutes: r.DelayMinutes,
		Channel:      models.NotificationChannel(r.Channel),
		Recipient:    r.Recipient,
		TemplateID:   r.TemplateID,
		RotationID:   r.RotationID,
		SeverityMin:  models.Severity(r.SeverityMin),
		Status:       models.AlertStatus(r.Status),
	}
}

// CreatePolicyStep creates an escalation step under a policy
func (h *Handlers) CreatePolicyStep(c *gin.Context) {
	var request stepRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	step := request.toModel(c.Param("id"))
	if err := h.escalationService.CreateStep(c.Request.Context(), step); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendCreated(c, step)
}

// ListPolicySteps retrieves a policy's steps ordered by step_index
func (h *Handlers) ListPolicySteps(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	steps, err := h.escalationService.ListSteps(c.Request.Context(), c.Param("id"), includeInactive)
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, steps)
}

// UpdatePolicyStep updates an existing step
func (h *Handlers) UpdatePolicyStep(c *gin.Context) {
	var request stepRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	existing, err := h.escalationService.GetStep(c.Request.Context(), c.Param("step_id"))
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}

	step := request.toModel(existing.PolicyID)
	step.ID = existing.ID
	step.IsActive = true
	if err := h.escalationService.UpdateStep(c.Request.Context(), step); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, step)
}

type rotationRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateRotation creates an on-call rotation
func (h *Handlers) CreateRotation(c *gin.Context) {
	var request rotationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	rotation := &models.OnCallRotation{Name: request.Name}
	if err := h.escalationService.CreateRotation(c.Request.Context(), rotation); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendCreated(c, rotation)
}

// ListRotations retrieves all rotations
func (h *Handlers) ListRotations(c *gin.Context) {
	rotations, err := h.escalationService.ListRotations(c.Request.Context())
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, rotations)
}

// GetRotation retrieves one rotation
func (h *Handlers) GetRotation(c *gin.Context) {
	rotation, err := h.escalationService.GetRotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, rotation)
}

type memberRequest struct {
	Name     string `json:"name" binding:"required"`
	Contact  string `json:"contact" binding:"required"`
	Priority int    `json:"priority"`
}

// CreateRotationMember adds a member to a rotation
func (h *Handlers) CreateRotationMember(c *gin.Context) {
	var request memberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	member := &models.OnCallRotationMember{
		RotationID: c.Param("id"),
		Name:       request.Name,
		Contact:    request.Contact,
		Priority:   request.Priority,
	}
	if err := h.escalationService.CreateMember(c.Request.Context(), member); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendCreated(c, member)
}

// ListRotationMembers retrieves a rotation's members
func (h *Handlers) ListRotationMembers(c *gin.Context) {
	members, err := h.escalationService.ListMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, members)
}

type templateRequest struct {
	Name    string  `json:"name" binding:"required"`
	Channel string  `json:"channel" binding:"required"`
	Subject *string `json:"subject"`
	Body    string  `json:"body" binding:"required"`
}

func (r *templateRequest) toModel() *models.NotificationTemplate {
	return &models.NotificationTemplate{
		Name:    r.Name,
		Channel: models.NotificationChannel(r.Channel),
		Subject: r.Subject,
		Body:    r.Body,
	}
}

// CreateTemplate creates a notification template
func (h *Handlers) CreateTemplate(c *gin.Context) {
	var request templateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	template := request.toModel()
	if err := h.escalationService.CreateTemplate(c.Request.Context(), template); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendCreated(c, template)
}

// ListTemplates retrieves all templates
func (h *Handlers) ListTemplates(c *gin.Context) {
	templates, err := h.escalationService.ListTemplates(c.Request.Context())
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, templates)
}

// UpdateTemplate updates an existing template
func (h *Handlers) UpdateTemplate(c *gin.Context) {
	var request templateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	template := request.toModel()
	template.ID = c.Param("id")
	if err := h.escalationService.UpdateTemplate(c.Request.Context(), template); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, template)
}

// DeleteTemplate removes a template
func (h *Handlers) DeleteTemplate(c *gin.Context) {
	if err := h.escalationService.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, gin.H{"deleted": true})
}
