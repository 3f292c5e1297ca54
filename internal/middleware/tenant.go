// internal/middleware/tenant.go

package middleware

import (
	"github.com/gin-gonic/gin"

	"tenant-otp-service/internal/domain"
)

const tenantContextKey = "tenant"

// Header names the upstream gateway uses to convey the resolved tenant.
// Resolution itself (domain lookup, settings) happens upstream; this
// middleware only carries the identity into the request context. A missing
// header is the valid "no tenant" state and routes to the global partition.
const (
	HeaderTenantID     = "X-Tenant-ID"
	HeaderTenantActive = "X-Tenant-Active"
)

func (m *Middleware) Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderTenantID)
		if id == "" {
			c.Next()
			return
		}

		c.Set(tenantContextKey, &domain.Tenant{
			ID:     id,
			Active: c.GetHeader(HeaderTenantActive) != "false",
		})
		c.Next()
	}
}

// TenantFrom returns the tenant bound to the request, nil when none was
// resolved.
func TenantFrom(c *gin.Context) *domain.Tenant {
	if v, ok := c.Get(tenantContextKey); ok {
		if t, ok := v.(*domain.Tenant); ok {
			return t
		}
	}
	return nil
}
