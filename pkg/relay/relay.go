package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/shabadpapers/shabad-api/pkg/errors"
	"github.com/shabadpapers/shabad-api/pkg/httpclient"
	"github.com/shabadpapers/shabad-api/pkg/logger"
	"github.com/shabadpapers/shabad-api/pkg/metrics"
	"go.uber.org/zap"
)

// DefaultURL is the Web3Forms submit endpoint
const DefaultURL = "https://api.web3forms.com/submit"

const serviceName = "inquiry_relay"

// maxResponseBytes caps how much of a relay reply is read
const maxResponseBytes = 64 << 10

// Response is the relay's JSON answer
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Client posts inquiry payloads to a Web3Forms-compatible relay
type Client struct {
	url        string
	httpClient httpclient.Client
}

// NewClient creates a relay client. An empty url selects DefaultURL.
func NewClient(url string, httpClient httpclient.Client) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{url: url, httpClient: httpClient}
}

// Send performs exactly one POST of payload. A reply with success=false is
// a *errors.RelayError carrying the relay's message; transport and decode
// failures wrap errors.ErrNetwork.
func (c *Client) Send(ctx context.Context, payload map[string]any) (*Response, error) {
	start := time.Now()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode relay payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(ctx, "error", start, zap.Error(err))
		return nil, apperrors.NetworkError(serviceName, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.record(ctx, "error", start, zap.Error(err))
		return nil, apperrors.NetworkError(serviceName, err)
	}

	var result Response
	if err := json.Unmarshal(raw, &result); err != nil {
		c.record(ctx, "error", start, zap.Int("status_code", resp.StatusCode), zap.Error(err))
		return nil, apperrors.NetworkError(serviceName, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err))
	}

	if !result.Success {
		c.record(ctx, "rejected", start, zap.Int("status_code", resp.StatusCode), zap.String("relay_message", result.Message))
		return &result, &apperrors.RelayError{Message: result.Message}
	}

	c.record(ctx, "success", start, zap.Int("status_code", resp.StatusCode))
	return &result, nil
}

func (c *Client) record(ctx context.Context, status string, start time.Time, fields ...zap.Field) {
	duration := metrics.MeasureDuration(start)
	metrics.UpstreamRequestDuration.WithLabelValues(serviceName, status).Observe(duration)
	logger.LogAPICall(ctx, serviceName, "submit", status, duration, fields...)
}
