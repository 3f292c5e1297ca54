// pkg/utils/response.go

package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tenant-otp-service/internal/domain"
	"tenant-otp-service/pkg/logger"
)

// APIError represents a standard error response
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// StandardResponse represents a standard success response
type StandardResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Info    interface{} `json:"info,omitempty"`
}

// ErrorResponse maps sentinel errors to HTTP status codes and messages
var ErrorResponse = map[string]APIError{
	"OTP_INVALID": {
		Status:  http.StatusUnauthorized,
		Message: "Invalid OTP provided",
		Code:    "OTP_INVALID",
	},
	"OTP_MISSING": {
		Status:  http.StatusBadRequest,
		Message: "Identifier or OTP is missing",
		Code:    "OTP_MISSING",
	},
	"TENANT_INACTIVE": {
		Status:  http.StatusForbidden,
		Message: "Tenant is deactivated",
		Code:    "TENANT_INACTIVE",
	},
	"PERSISTENCE_FAILURE": {
		Status:  http.StatusServiceUnavailable,
		Message: "Record store is unavailable",
		Code:    "PERSISTENCE_FAILURE",
	},
	"CACHE_UNAVAILABLE": {
		Status:  http.StatusServiceUnavailable,
		Message: "Cache store is unavailable",
		Code:    "CACHE_UNAVAILABLE",
	},
}

// RespondWithError sends a JSON error response
func RespondWithError(c *gin.Context, err error) {
	code := sentinelCode(err)

	if apiErr, exists := ErrorResponse[code]; exists {
		if apiErr.Status >= 500 {
			logger.Error("System error occurred: ", err)
		} else {
			logger.Warn("Request error: ", err)
		}
		c.JSON(apiErr.Status, apiErr)
		return
	}

	logger.Error("Unknown error occurred: ", err)
	c.JSON(http.StatusInternalServerError, APIError{
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
		Code:    "INTERNAL_SERVER_ERROR",
	})
}

// sentinelCode unwraps err to the sentinel it was built from, so wrapped
// store errors still map to the right response.
func sentinelCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrPersistenceFailure):
		return "PERSISTENCE_FAILURE"
	case errors.Is(err, domain.ErrCacheUnavailable):
		return "CACHE_UNAVAILABLE"
	case errors.Is(err, domain.ErrMissingParameters):
		return "OTP_MISSING"
	case errors.Is(err, domain.ErrTenantInactive):
		return "TENANT_INACTIVE"
	default:
		return err.Error()
	}
}

// RespondWithSuccess sends a JSON success response
func RespondWithSuccess(c *gin.Context, status int, message string, info interface{}) {
	c.JSON(status, StandardResponse{
		Status:  status,
		Message: message,
		Info:    info,
	})
}
