package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/netops-backend-go/internal/api/middleware"
	"github.com/michaelayoade/netops-backend-go/pkg/utils"
)

// ListSettings retrieves all stored escalation settings
func (h *Handlers) ListSettings(c *gin.Context) {
	settings, err := h.settingsService.List(c.Request.Context())
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, settings)
}

// SetSetting stores one escalation setting value
func (h *Handlers) SetSetting(c *gin.Context) {
	var request struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	key := c.Param("key")
	if err := h.settingsService.Set(c.Request.Context(), key, request.Value); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, gin.H{"key": key, "value": request.Value})
}
