package recalc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/carboncart/backend/internal/domain"
	"github.com/carboncart/backend/internal/util"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	recalculatePath = "/api/recalculate"
	maxAttempts     = 3
)

// ClientConfig holds configuration for the recalculation client
type ClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	RequestsPerSec float64
	Burst          int
}

// Client calls a remote recalculation backend over HTTP
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
}

// NewClient creates a new recalculation backend client
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	rps := config.RequestsPerSec
	if rps <= 0 {
		rps = 5
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 10
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		backoff:     exponentialBackoff,
		logger:      util.Named("recalc"),
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// Recalculate posts items to the backend and returns its per-item results
func (c *Client) Recalculate(ctx context.Context, userPincode string, items []domain.CartItem) (*domain.RecalcResponse, error) {
	if items == nil {
		items = []domain.CartItem{}
	}
	payload, err := json.Marshal(domain.RecalcRequest{Pincode: userPincode, Items: items})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := c.baseURL + recalculatePath

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		status, body, err := c.doRequest(ctx, endpoint, payload)
		if err != nil {
			c.logger.Warn("request failed", zap.Int("attempt", attempt), zap.Error(err))
			lastErr = err
			if !c.sleep(ctx, attempt) {
				return nil, fmt.Errorf("%w: %v", domain.ErrRecalcUnavailable, ctx.Err())
			}
			continue
		}

		if status != http.StatusOK {
			c.logger.Warn("backend error",
				zap.Int("attempt", attempt),
				zap.Int("status", status),
				zap.String("body", string(body)))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrRecalcUnavailable, status)
			// client errors will not succeed on retry
			if status >= 400 && status < 500 {
				return nil, lastErr
			}
			if !c.sleep(ctx, attempt) {
				return nil, lastErr
			}
			continue
		}

		var resp domain.RecalcResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrRecalcUnavailable, err)
		}
		if !resp.Success {
			return nil, fmt.Errorf("%w: backend reported failure", domain.ErrRecalcUnavailable)
		}

		c.logger.Debug("recalculated",
			zap.String("pincode", resp.UserPincode),
			zap.Int("results", len(resp.Results)))
		return &resp, nil
	}

	c.logger.Error("all retries failed", zap.String("endpoint", endpoint))
	return nil, lastErr
}

// doRequest executes a JSON POST and returns the status code and body
func (c *Client) doRequest(ctx context.Context, endpoint string, payload []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "CarbonCart/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrRecalcUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrRecalcUnavailable, err)
	}
	return resp.StatusCode, body, nil
}

// sleep waits out the backoff for attempt; false means ctx ended first
func (c *Client) sleep(ctx context.Context, attempt int) bool {
	if attempt >= maxAttempts {
		return true
	}
	timer := time.NewTimer(c.backoff(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
