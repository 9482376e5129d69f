package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/config"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/events"
	"github.com/phrazzld/taskdesk/internal/redact"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 4 << 20

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// TokenSource supplies the current bearer token. An empty string means
// no token is available.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource. It lets the session guard,
// which itself depends on the client for login, supply tokens lazily.
type TokenFunc func() string

// Token calls f.
func (f TokenFunc) Token() string { return f() }

// Locator reports the user's current route.
type Locator interface {
	Location() string
}

// Client talks to the remote task service.
type Client struct {
	baseURL    string
	http       *http.Client
	tokens     TokenSource
	locator    Locator
	emitter    events.EventEmitter
	classifier Classifier
	entryRoute string
	validate   *validator.Validate
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a Client for cfg.BaseURL. AuthFault events are emitted
// through emitter unless locator reports entryRoute.
func NewClient(
	cfg config.RemoteConfig,
	entryRoute string,
	tokens TokenSource,
	locator Locator,
	emitter events.EventEmitter,
	logger *slog.Logger,
	opts ...ClientOption,
) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid remote base URL %q", cfg.BaseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(base.String(), "/"),
		http:       &http.Client{Timeout: cfg.Timeout},
		tokens:     tokens,
		locator:    locator,
		emitter:    emitter,
		classifier: Classifier{ErrorEndpoint: cfg.ErrorEndpoint},
		entryRoute: entryRoute,
		validate:   newValidator(),
		logger:     logger.With("component", "gateway"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// response is a successful (or passthrough-free) exchange.
type response struct {
	status int
	body   []byte
}

// do sends one request. payload, when non-nil, is encoded as JSON. Any
// non-success status is returned as a *Fault.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) (*response, error) {
	target := c.baseURL + path
	relative := path
	if len(query) > 0 {
		encoded := query.Encode()
		target += "?" + encoded
		relative += "?" + encoded
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	log := c.logger.With(
		"request_id", requestID,
		"method", method,
		"path", redact.String(relative))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.WarnContext(ctx, "request failed", "error", redact.Error(err))
		return nil, &Fault{
			Kind:      domain.ErrTransportFault,
			Method:    method,
			Path:      relative,
			RequestID: requestID,
			Err:       err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Fault{
			Kind:      domain.ErrTransportFault,
			Status:    resp.StatusCode,
			Method:    method,
			Path:      relative,
			RequestID: requestID,
			Err:       err,
		}
	}

	log.DebugContext(ctx, "response received",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	verdict := c.classifier.Classify(resp.StatusCode, method, relative, raw)
	if verdict.Kind == nil {
		return &response{status: resp.StatusCode, body: raw}, nil
	}

	fault := &Fault{
		Kind:           verdict.Kind,
		Status:         resp.StatusCode,
		Method:         method,
		Path:           relative,
		RequestID:      requestID,
		Code:           verdict.Code,
		Message:        verdict.Message,
		SessionInvalid: verdict.SessionInvalid,
	}
	log.InfoContext(ctx, "request rejected",
		"status", resp.StatusCode,
		"kind", verdict.Kind.Error(),
		"passthrough", verdict.Passthrough,
		"session_invalid", verdict.SessionInvalid)

	if verdict.SessionInvalid {
		c.reportAuthFault(ctx, fault)
	}
	return nil, fault
}

// authorize attaches the bearer token when one is usable. It never blocks
// the request.
func (c *Client) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	token := strings.TrimSpace(c.tokens.Token())
	switch token {
	case "", "null", "undefined":
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func (c *Client) reportAuthFault(ctx context.Context, fault *Fault) {
	location := ""
	if c.locator != nil {
		location = c.locator.Location()
	}
	if location == c.entryRoute {
		c.logger.DebugContext(ctx, "auth fault on entry route, not emitting", "request_id", fault.RequestID)
		return
	}
	if c.emitter == nil {
		return
	}

	reason := fault.Code
	if reason == "" {
		reason = fault.Message
	}
	event := events.NewAuthFaultEvent(fault.RequestID, fault.Method, fault.Path, reason, location)
	if err := c.emitter.EmitEvent(ctx, event); err != nil {
		c.logger.ErrorContext(ctx, "failed to emit auth fault", "error", err, "event_id", event.ID)
	}
}

// decode unmarshals a response body into v.
func decode(resp *response, v any) error {
	if err := json.Unmarshal(resp.body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
