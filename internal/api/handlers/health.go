package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/michaelayoade/netops-backend-go/pkg/utils"
)

// Health returns the health status of the service
func (h *Handlers) Health(c *gin.Context) {
	health := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "netops-backend-go",
	}

	if err := h.db.PingContext(c.Request.Context()); err != nil {
		health["status"] = "degraded"
		health["database"] = "unreachable"
		h.log.WithError(err).Warn("Health check database ping failed")
	} else {
		health["database"] = "ok"
	}

	if memInfo, err := mem.VirtualMemory(); err == nil {
		health["memory_used_percent"] = memInfo.UsedPercent
	}
	if cpuPercent, err := cpu.Percent(0, false); err == nil && len(cpuPercent) > 0 {
		health["cpu_percent"] = cpuPercent[0]
	}

	health["websocket_clients"] = h.wsHub.GetClientCount()

	utils.SendSuccess(c, health)
}
