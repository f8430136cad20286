package trigger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shabadpapers/shabad-api/pkg/httpclient"
	"github.com/shabadpapers/shabad-api/pkg/logger"
	"go.uber.org/zap"
)

// asyncTimeout bounds a background trigger call
const asyncTimeout = 10 * time.Second

// Call POSTs event as JSON to triggerURL. An empty URL is a no-op.
func Call(ctx context.Context, triggerURL string, event any, httpClient httpclient.Client) error {
	if triggerURL == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode trigger event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, triggerURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build trigger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call trigger URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("trigger URL returned status %d", resp.StatusCode)
	}
	return nil
}

// CallAsync calls the trigger in the background. Failures are logged but
// never block or fail the operation that fired the event.
func CallAsync(triggerURL string, event any, httpClient httpclient.Client) {
	if triggerURL == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()

		if err := Call(ctx, triggerURL, event, httpClient); err != nil {
			logger.Warn("Trigger call failed", zap.String("url", triggerURL), zap.Error(err))
			return
		}
		logger.Info("Trigger called successfully", zap.String("url", triggerURL))
	}()
}
