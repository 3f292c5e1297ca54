// internal/middleware/middleware.go

package middleware

import (
	"tenant-otp-service/internal/config"
)

type Middleware struct {
	config *config.Config
}

func NewMiddleware(cfg *config.Config) *Middleware {
	return &Middleware{config: cfg}
}
