// internal/handler/cache.go

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tenant-otp-service/internal/cache"
	"tenant-otp-service/internal/metrics"
	"tenant-otp-service/internal/middleware"
	"tenant-otp-service/pkg/utils"
)

type CacheHandler struct {
	cache *cache.ScopedCache
}

func NewCacheHandler(scoped *cache.ScopedCache) *CacheHandler {
	return &CacheHandler{cache: scoped}
}

// Flush evicts every cache entry belonging to the resolved tenant's
// namespace. Other tenants' entries, including the global partition, are
// untouched.
func (h *CacheHandler) Flush(c *gin.Context) {
	scoped := h.cache.Rebind(middleware.TenantFrom(c))
	if err := scoped.Flush(c.Request.Context()); err != nil {
		utils.RespondWithError(c, err)
		return
	}

	metrics.CacheFlushTotal.Inc()
	utils.RespondWithSuccess(c, http.StatusOK, "CACHE_FLUSHED", gin.H{
		"tag": scoped.Tag(),
	})
}

// Stats reports the tenant's issue/verify counters from the scoped cache.
func (h *CacheHandler) Stats(c *gin.Context) {
	scoped := h.cache.Rebind(middleware.TenantFrom(c))

	values, err := scoped.Many(c.Request.Context(), []string{"otp:issued", "otp:verified"})
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	utils.RespondWithSuccess(c, http.StatusOK, "CACHE_STATS", gin.H{
		"tenant":   scoped.Tenant().PartitionID(),
		"issued":   counterValue(values["otp:issued"]),
		"verified": counterValue(values["otp:verified"]),
	})
}

func counterValue(raw []byte) int64 {
	if len(raw) == 0 {
		return 0
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
