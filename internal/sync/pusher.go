package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/noah-isme/backend-pos/internal/order"
	"github.com/noah-isme/backend-pos/internal/resilience"
)

// ErrDisabled indicates no remote endpoint is configured.
var ErrDisabled = errors.New("sync: remote endpoint not configured")

// Pusher delivers committed orders to the back office over HTTP.
type Pusher struct {
	HTTP     *resilience.HTTPClient
	Endpoint string
	APIKey   string
}

// Push sends one order upstream. A 2xx response means the back office has
// accepted the order; 409 counts as accepted because the order was already
// delivered by an earlier attempt.
func (p Pusher) Push(ctx context.Context, o order.Order) error {
	if strings.TrimSpace(p.Endpoint) == "" {
		return ErrDisabled
	}
	if p.HTTP == nil {
		return errors.New("sync: http client not configured")
	}
	body, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("sync: encode order: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}
	resp, err := p.HTTP.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("sync: push order %s: %w", o.ID, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusConflict {
		return nil
	}
	return fmt.Errorf("sync: push order %s: unexpected status %s", o.ID, resp.Status)
}
