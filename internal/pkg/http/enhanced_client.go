package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/piresc/busfleet/internal/pkg/circuitbreaker"
	apperrors "github.com/piresc/busfleet/internal/pkg/errors"
	"github.com/piresc/busfleet/internal/pkg/logger"
	nrpkg "github.com/piresc/busfleet/internal/pkg/newrelic"
	"github.com/piresc/busfleet/internal/pkg/retry"
)

// APIKeyHeader is the header carrying the downstream API key
const APIKeyHeader = "X-API-Key"

// HTTPError is a non-2xx response from a dependency
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// EnhancedClient calls one JSON dependency with retry and circuit breaker
// protection. Network failures and 5xx responses are reported as transient
// dependency failures; 4xx responses are returned as *HTTPError unchanged.
type EnhancedClient struct {
	name    string
	baseURL string
	apiKey  string
	client  *http.Client
	retrier *retry.Retrier
	breaker *circuitbreaker.CircuitBreaker
}

// NewEnhancedClient creates a client for the dependency called name
func NewEnhancedClient(name, baseURL, apiKey string, timeout time.Duration, log *logger.ZapLogger) *EnhancedClient {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	cbConfig := circuitbreaker.DefaultConfig()
	cbConfig.IsFailure = apperrors.IsRetryable

	return &EnhancedClient{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		retrier: retry.NewWithDefaults(log),
		breaker: circuitbreaker.New(name, cbConfig),
	}
}

// WithRetrier replaces the default retrier
func (c *EnhancedClient) WithRetrier(r *retry.Retrier) *EnhancedClient {
	c.retrier = r
	return c
}

// PostJSON posts in as JSON to path and decodes the response into out
func (c *EnhancedClient) PostJSON(ctx context.Context, path string, in, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, in, out)
}

// GetJSON fetches path and decodes the response into out
func (c *EnhancedClient) GetJSON(ctx context.Context, path string, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// BreakerState reports the dependency's circuit breaker state
func (c *EnhancedClient) BreakerState() string {
	return c.breaker.State().String()
}

func (c *EnhancedClient) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", c.name, err)
		}
	}

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Execute(ctx, func(ctx context.Context) error {
			return c.attempt(ctx, method, path, payload, out)
		})
	})
	if errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
		return apperrors.Transient(c.name, err)
	}
	return err
}

// attempt builds a fresh request so the body can be replayed on retry
func (c *EnhancedClient) attempt(ctx context.Context, method, path string, payload []byte, out interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", c.name, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	resp, err := nrpkg.InstrumentHTTPRequest(ctx, req, func() (*http.Response, error) {
		return c.client.Do(req)
	})
	if err != nil {
		return apperrors.Transient(c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		httpErr := &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %s: %w", apperrors.ErrTransientDependency, c.name, httpErr)
		}
		return httpErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("failed to decode %s response: %w", c.name, err)
	}
	return nil
}
