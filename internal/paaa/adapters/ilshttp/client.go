// Package ilshttp talks to an ILS exposing a JSON-over-HTTP patron API.
package ilshttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"paaa/internal/paaa/models"
	"paaa/internal/paaa/ports"
	"paaa/internal/platform/metrics"
	"paaa/pkg/platform/circuit"
)

const backendName = "ils-http"

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures a Client.
type Config struct {
	BaseURL          string
	APIKey           string
	Timeout          time.Duration
	HTTPClient       HTTPDoer
	FailureThreshold int
	SuccessThreshold int
	Cooldown         time.Duration
	Metrics          *metrics.Metrics
	Logger           *slog.Logger
}

// Client implements ports.ILS over HTTP. Every operation is a
// POST {base}/{operation}; repeated outages open a circuit breaker and
// calls fail fast until its cooldown elapses.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	client  HTTPDoer
	breaker *circuit.Breaker
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type request struct {
	Patron *models.Patron `json:"patron,omitempty"`
	Block  *models.Block  `json:"block,omitempty"`
	Fee    *models.Fee    `json:"fee,omitempty"`
}

func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		client:  client,
		breaker: circuit.New(backendName,
			circuit.WithFailureThreshold(cfg.FailureThreshold),
			circuit.WithSuccessThreshold(cfg.SuccessThreshold),
			circuit.WithCooldown(cfg.Cooldown),
		),
		metrics: cfg.Metrics,
		logger:  logger,
	}
}

func (c *Client) Signup(ctx context.Context, patron *models.Patron) (*models.Patron, error) {
	return callPatron(ctx, c, models.OpSignup, request{Patron: patron})
}

func (c *Client) NewPatron(ctx context.Context, patron *models.Patron) (*models.Patron, error) {
	return callPatron(ctx, c, models.OpNewPatron, request{Patron: patron})
}

func (c *Client) UpdatePatron(ctx context.Context, patron *models.Patron) (*models.Patron, error) {
	return callPatron(ctx, c, models.OpUpdatePatron, request{Patron: patron})
}

func (c *Client) BlockPatron(ctx context.Context, patron *models.Patron, block *models.Block) (*models.Patron, error) {
	return callPatron(ctx, c, models.OpBlockPatron, request{Patron: patron, Block: block})
}

func (c *Client) UnblockPatron(ctx context.Context, patron *models.Patron, block *models.Block) (*models.Patron, error) {
	return callPatron(ctx, c, models.OpUnblockPatron, request{Patron: patron, Block: block})
}

func (c *Client) DeletePatron(ctx context.Context, patron *models.Patron) (*models.Patron, error) {
	return callPatron(ctx, c, models.OpDeletePatron, request{Patron: patron})
}

func (c *Client) NewFee(ctx context.Context, patron *models.Patron, fee *models.Fee) (*models.Fee, error) {
	var out models.Fee
	found, err := c.call(ctx, models.OpNewFee, request{Patron: patron, Fee: fee}, &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

func callPatron(ctx context.Context, c *Client, op models.Operation, body request) (*models.Patron, error) {
	var out models.Patron
	found, err := c.call(ctx, op, body, &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

// call posts body and decodes the response into out. found is false when
// the ILS answered without a record.
func (c *Client) call(ctx context.Context, op models.Operation, body request, out any) (found bool, err error) {
	if !c.breaker.Allow() {
		return false, ports.NewBackendError(ports.ErrorOutage, backendName, "circuit open", nil)
	}
	defer func() { c.record(ctx, err) }()

	payload, err := json.Marshal(body)
	if err != nil {
		return false, ports.NewBackendError(ports.ErrorBadData, backendName, "failed to marshal request", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+op.String(), bytes.NewReader(payload))
	if err != nil {
		return false, ports.NewBackendError(ports.ErrorInternal, backendName, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return false, ports.NewBackendError(ports.ErrorTimeout, backendName, "request timeout", err)
		}
		return false, ports.NewBackendError(ports.ErrorOutage, backendName, "failed to execute request", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, ports.NewBackendError(ports.ErrorBadData, backendName, "failed to read response", err)
	}

	if err := classifyStatus(resp.StatusCode); err != nil {
		return false, err
	}
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return false, ports.NewBackendError(ports.ErrorBadData, backendName, "failed to parse response", err)
	}
	return true, nil
}

func classifyStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ports.NewBackendError(ports.ErrorAuthentication, backendName, fmt.Sprintf("authentication failed: %d", code), nil)
	case code == http.StatusNotFound:
		return ports.NewBackendError(ports.ErrorNotFound, backendName, "record not found", nil)
	case code == http.StatusBadRequest, code == http.StatusConflict, code == http.StatusUnprocessableEntity:
		return ports.NewBackendError(ports.ErrorBadData, backendName, fmt.Sprintf("request rejected: %d", code), nil)
	case code == http.StatusTooManyRequests, code >= 500:
		return ports.NewBackendError(ports.ErrorOutage, backendName, fmt.Sprintf("ils unavailable: %d", code), nil)
	default:
		return ports.NewBackendError(ports.ErrorInternal, backendName, fmt.Sprintf("unexpected status: %d", code), nil)
	}
}

// record feeds the breaker. Only outages and timeouts count as failures;
// a rejected request proves the ILS is up.
func (c *Client) record(ctx context.Context, err error) {
	var change circuit.StateChange
	switch ports.CategoryOf(err) {
	case ports.ErrorOutage, ports.ErrorTimeout:
		_, change = c.breaker.RecordFailure()
	default:
		_, change = c.breaker.RecordSuccess()
	}

	if change.Opened {
		c.logger.WarnContext(ctx, "ils circuit opened", "breaker", c.breaker.Name(), "error", err)
	}
	if change.Closed {
		c.logger.InfoContext(ctx, "ils circuit closed", "breaker", c.breaker.Name())
	}
	if (change.Opened || change.Closed) && c.metrics != nil {
		c.metrics.SetBreakerOpen(c.breaker.Name(), change.Opened)
	}
}

// Health implements ports.ILS by probing GET {base}/health.
func (c *Client) Health(ctx context.Context) map[string]string {
	status := map[string]string{"ils": "ok"}
	if c.breaker.IsOpen() {
		status["ils_circuit"] = "open"
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		status["ils"] = "health check failed: " + err.Error()
		return status
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		status["ils"] = "unreachable: " + err.Error()
		return status
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		status["ils"] = fmt.Sprintf("unhealthy status: %d", resp.StatusCode)
	}
	return status
}
