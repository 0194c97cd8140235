package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Mo7Ati/dawlystore-storefront/pkg/config"
	pkgerrors "github.com/Mo7Ati/dawlystore-storefront/pkg/errors"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/logger"
	"github.com/Mo7Ati/dawlystore-storefront/pkg/metrics"
)

var (
	errBaseURLRequired = errors.New("backend base url is required")
	errLoggerRequired  = errors.New("backend logger is required")
)

// Client wraps the platform API with centralized auth forwarding,
// logging, latency metrics, and error mapping. The storefront treats
// every endpoint as opaque request/response; no automatic retries.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
	metrics *metrics.StorefrontMetrics
}

// NewClient initializes the platform API wrapper and validates the configuration.
func NewClient(ctx context.Context, cfg config.BackendConfig, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parsing backend base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		logger:  logg,
		metrics: m,
	}

	logg.Info(ctx, "backend client initialized")
	return c, nil
}

// Ping verifies the platform API is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health/live", "", "ping", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token, endpoint string, body, out any) error {
	if c == nil || c.http == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "backend client unavailable")
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode backend request")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build backend request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.ObserveBackendCall(endpoint, time.Since(start))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("call backend %s", endpoint))
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.mapError(resp, endpoint)
	}

	if out == nil {
		return nil
	}
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read backend response")
	}
	if err := json.Unmarshal(payload, &envelope); err == nil && len(envelope.Data) > 0 {
		payload = envelope.Data
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode backend response")
	}
	return nil
}

// apiError is the platform API error envelope.
type apiError struct {
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details,omitempty"`
	} `json:"error"`
}

// httpError carries the upstream status and code for log dumps.
type httpError struct {
	status  int
	code    string
	message string
}

func (e *httpError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("backend %d (%s): %s", e.status, e.code, e.message)
	}
	return fmt.Sprintf("backend %d", e.status)
}

func (e *httpError) HTTPStatus() int     { return e.status }
func (e *httpError) BackendCode() string { return e.code }

func (c *Client) mapError(resp *http.Response, endpoint string) error {
	var envelope apiError
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &envelope)

	cause := &httpError{
		status:  resp.StatusCode,
		code:    envelope.Error.Code,
		message: envelope.Error.Message,
	}

	code := pkgerrors.CodeDependency
	switch resp.StatusCode {
	case http.StatusBadRequest:
		code = pkgerrors.CodeValidation
	case http.StatusUnauthorized:
		code = pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		code = pkgerrors.CodeForbidden
	case http.StatusNotFound:
		code = pkgerrors.CodeNotFound
	case http.StatusConflict:
		code = pkgerrors.CodeConflict
	case http.StatusUnprocessableEntity:
		code = pkgerrors.CodeStateConflict
	case http.StatusTooManyRequests:
		code = pkgerrors.CodeRateLimit
	}

	typed := pkgerrors.Wrap(code, cause, fmt.Sprintf("backend %s rejected request", endpoint))
	if envelope.Error.Message != "" {
		typed = pkgerrors.Wrap(code, cause, envelope.Error.Message)
	}
	if len(envelope.Error.Details) > 0 {
		typed = typed.WithDetails(json.RawMessage(envelope.Error.Details))
	}
	return typed
}
