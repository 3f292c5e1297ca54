// internal/handler/otp.go

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tenant-otp-service/internal/cache"
	"tenant-otp-service/internal/domain"
	"tenant-otp-service/internal/middleware"
	"tenant-otp-service/pkg/logger"
	"tenant-otp-service/pkg/utils"
)

type OTPHandler struct {
	service domain.OTPService
	cache   *cache.ScopedCache
}

func NewOTPHandler(service domain.OTPService, scoped *cache.ScopedCache) *OTPHandler {
	return &OTPHandler{
		service: service,
		cache:   scoped,
	}
}

type issueRequest struct {
	Identifier string `json:"identifier"`
}

type verifyRequest struct {
	Identifier string `json:"identifier"`
	Code       string `json:"code"`
}

// Issue handles OTP issuance requests
func (h *OTPHandler) Issue(c *gin.Context) {
	var req issueRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Identifier == "" {
		utils.RespondWithError(c, domain.ErrMissingParameters)
		return
	}

	tenant := middleware.TenantFrom(c)
	if tenant != nil && !tenant.Active {
		utils.RespondWithError(c, domain.ErrTenantInactive)
		return
	}

	receipt, err := h.service.Issue(c.Request.Context(), req.Identifier)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	h.bumpCounter(c, tenant, "otp:issued")
	utils.RespondWithSuccess(c, http.StatusOK, "OTP_ISSUED", receipt)
}

// Verify handles OTP validation requests
func (h *OTPHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Identifier == "" || req.Code == "" {
		utils.RespondWithError(c, domain.ErrMissingParameters)
		return
	}

	valid, err := h.service.Validate(c.Request.Context(), req.Identifier, req.Code)
	if err != nil {
		utils.RespondWithError(c, err)
		return
	}

	if !valid {
		// One opaque negative for wrong, expired and unknown codes alike.
		apiErr := utils.ErrorResponse["OTP_INVALID"]
		c.JSON(apiErr.Status, apiErr)
		return
	}

	h.bumpCounter(c, middleware.TenantFrom(c), "otp:verified")
	utils.RespondWithSuccess(c, http.StatusOK, "OTP_VERIFIED", nil)
}

// bumpCounter tracks per-tenant traffic in the scoped cache. Counter upkeep
// is advisory; a cache outage must not fail the OTP operation itself.
func (h *OTPHandler) bumpCounter(c *gin.Context, tenant *domain.Tenant, key string) {
	scoped := h.cache.Rebind(tenant)
	if _, err := scoped.Increment(c.Request.Context(), key, 1); err != nil {
		logger.Warn("Failed to update tenant counter ", key, ": ", err)
	}
}
