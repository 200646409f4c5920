package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/netops-backend-go/internal/api/middleware"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
	"github.com/michaelayoade/netops-backend-go/pkg/utils"
)

type deviceRequest struct {
	Name      string  `json:"name" binding:"required"`
	PopSiteID *string `json:"pop_site_id"`
	AreaID    *string `json:"area_id"`
	FdhID     *string `json:"fdh_id"`
}

func (r *deviceRequest) toModel() *models.Device {
	return &models.Device{
		Name:      r.Name,
		PopSiteID: r.PopSiteID,
		AreaID:    r.AreaID,
		FdhID:     r.FdhID,
	}
}

// CreateDevice registers a monitored device
func (h *Handlers) CreateDevice(c *gin.Context) {
	var request deviceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	device := request.toModel()
	if err := h.inventoryService.CreateDevice(c.Request.Context(), device); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendCreated(c, device)
}

// GetDevice retrieves one device
func (h *Handlers) GetDevice(c *gin.Context) {
	device, err := h.inventoryService.GetDevice(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, device)
}

// ListDevices retrieves devices
func (h *Handlers) ListDevices(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	devices, err := h.inventoryService.ListDevices(c.Request.Context(), includeInactive)
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, devices)
}

// UpdateDevice updates a device
func (h *Handlers) UpdateDevice(c *gin.Context) {
	var request deviceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	device := request.toModel()
	device.ID = c.Param("id")
	device.IsActive = true
	if err := h.inventoryService.UpdateDevice(c.Request.Context(), device); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, device)
}

// SetDeviceActive flips the device tombstone flag
func (h *Handlers) SetDeviceActive(c *gin.Context) {
	var request struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.inventoryService.SetDeviceActive(c.Request.Context(), c.Param("id"), *request.IsActive); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, gin.H{"is_active": *request.IsActive})
}

type namedRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreatePopSite creates a POP site
func (h *Handlers) CreatePopSite(c *gin.Context) {
	var request namedRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	site := &models.PopSite{Name: request.Name}
	if err := h.inventoryService.CreatePopSite(c.Request.Context(), site); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendCreated(c, site)
}

// ListPopSites retrieves all POP sites
func (h *Handlers) ListPopSites(c *gin.Context) {
	sites, err := h.inventoryService.ListPopSites(c.Request.Context())
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, sites)
}

// CreateArea creates a coverage area
func (h *Handlers) CreateArea(c *gin.Context) {
	var request namedRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	area := &models.Area{Name: request.Name}
	if err := h.inventoryService.CreateArea(c.Request.Context(), area); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendCreated(c, area)
}

// ListAreas retrieves all coverage areas
func (h *Handlers) ListAreas(c *gin.Context) {
	areas, err := h.inventoryService.ListAreas(c.Request.Context())
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, areas)
}

// CreateFdh creates a fiber distribution hub
func (h *Handlers) CreateFdh(c *gin.Context) {
	var request namedRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	fdh := &models.Fdh{Name: request.Name}
	if err := h.inventoryService.CreateFdh(c.Request.Context(), fdh); err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendCreated(c, fdh)
}

// ListFdhs retrieves all fiber distribution hubs
func (h *Handlers) ListFdhs(c *gin.Context) {
	fdhs, err := h.inventoryService.ListFdhs(c.Request.Context())
	if err != nil {
		middleware.HandleServiceError(c, h.log, err)
		return
	}
	utils.SendSuccess(c, fdhs)
}
