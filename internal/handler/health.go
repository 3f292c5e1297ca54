// internal/handler/health.go

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/mem"

	"tenant-otp-service/internal/config"
	"tenant-otp-service/pkg/utils"
)

type HealthHandler struct {
	config  *config.Config
	cache   Pinger
	records Pinger
	started time.Time
}

// NewHealthHandler takes connectivity probes for the cache and record
// stores; either may be nil when that backend is in-process.
func NewHealthHandler(cfg *config.Config, cacheStore, recordStore Pinger) *HealthHandler {
	return &HealthHandler{
		config:  cfg,
		cache:   cacheStore,
		records: recordStore,
		started: time.Now(),
	}
}

func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	info := gin.H{
		"status":         "UP",
		"mode":           h.config.Server.Mode,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	}

	info["cache_status"] = h.probe(c, h.cache)
	info["store_status"] = h.probe(c, h.records)
	if info["cache_status"] == "DOWN" || info["store_status"] == "DOWN" {
		status = http.StatusServiceUnavailable
		info["status"] = "DEGRADED"
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		info["memory"] = gin.H{
			"used_percent": vm.UsedPercent,
			"available":    vm.Available,
		}
	}

	utils.RespondWithSuccess(c, status, "SERVICE_HEALTH", info)
}

func (h *HealthHandler) probe(c *gin.Context, p Pinger) string {
	if p == nil {
		return "IN_PROCESS"
	}
	if err := p.Ping(c.Request.Context()); err != nil {
		return "DOWN"
	}
	return "OK"
}
