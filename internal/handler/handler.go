// internal/handler/handler.go

package handler

import "context"

// Pinger is the connectivity probe each backing store exposes for health
// reporting.
type Pinger interface {
	Ping(ctx context.Context) error
}
