// internal/notify/sms.go

// Package notify holds the delivery channels the OTP manager dispatches
// through. Channels implement domain.Notifier; a failed Send carries a
// human-readable reason and never touches the stored record.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"tenant-otp-service/internal/domain"
	"tenant-otp-service/pkg/logger"
)

// SMSGateway posts messages to an HTTP SMS provider.
type SMSGateway struct {
	url    string
	apiKey string
	sender string
	client *http.Client
}

type SMSConfig struct {
	URL     string
	APIKey  string
	Sender  string
	Timeout time.Duration
}

func NewSMSGateway(cfg SMSConfig) *SMSGateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &SMSGateway{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		sender: cfg.Sender,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

var _ domain.Notifier = (*SMSGateway)(nil)

type smsPayload struct {
	To      string `json:"to"`
	From    string `json:"from,omitempty"`
	Message string `json:"message"`
}

func (g *SMSGateway) Send(ctx context.Context, destination, message string) error {
	body, err := json.Marshal(smsPayload{
		To:      destination,
		From:    g.sender,
		Message: message,
	})
	if err != nil {
		return deliveryFailed(destination, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return deliveryFailed(destination, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return deliveryFailed(destination, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		// Keep a slice of the body for the reason; gateways put the error there.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return deliveryFailed(destination,
			fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(detail)))
	}

	logger.Debug("SMS accepted by gateway for ", destination)
	return nil
}

func deliveryFailed(destination string, err error) error {
	return fmt.Errorf("%w: sms to %s: %v", domain.ErrDeliveryFailure, destination, err)
}
