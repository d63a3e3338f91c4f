// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jeranaias/nutrilens/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents a failed backend call.
type ClientError struct {
	Type    ErrorType
	Op      string // operation, e.g. "simplify"
	Status  int    // HTTP status for ErrTypeStatus, 0 otherwise
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by type.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Op == "" && t.Type == e.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeTransport
	ErrTypeTimeout
	ErrTypeStatus
	ErrTypeDecode
	ErrTypeRequest
)

// String returns the lowercase name of the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeTransport:
		return "transport"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeStatus:
		return "status"
	case ErrTypeDecode:
		return "decode"
	case ErrTypeRequest:
		return "request"
	default:
		return "unknown"
	}
}

// Sentinel errors for errors.Is checks.
var (
	ErrTransport = &ClientError{Type: ErrTypeTransport, Message: "backend unreachable"}
	ErrTimeout   = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrStatus    = &ClientError{Type: ErrTypeStatus, Message: "unexpected status"}
	ErrDecode    = &ClientError{Type: ErrTypeDecode, Message: "malformed response"}
)

// IsTransport reports whether err failed before a response could be decoded:
// network errors, timeouts, non-2xx statuses and unbuildable requests.
func IsTransport(err error) bool {
	var ce *ClientError
	if !errors.As(err, &ce) {
		return false
	}
	switch ce.Type {
	case ErrTypeTransport, ErrTypeTimeout, ErrTypeStatus, ErrTypeRequest:
		return true
	}
	return false
}

// IsDecode reports whether err is a response decoding failure.
func IsDecode(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeDecode
}

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeTimeout
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// Default settings.
const (
	DefaultBaseURL           = "http://localhost:8000"
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 10
	DefaultBurst             = 4

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 4 << 20
)

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the API root (default: http://localhost:8000)
	BaseURL string

	// Timeout bounds each request. Zero waits indefinitely.
	Timeout time.Duration

	// RequestsPerSecond caps outbound requests (default: 10). Negative disables limiting.
	RequestsPerSecond float64

	// Burst is the limiter burst (default: 4, one analysis round).
	Burst int

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           DefaultBaseURL,
		Timeout:           DefaultTimeout,
		RequestsPerSecond: DefaultRequestsPerSecond,
		Burst:             DefaultBurst,
		UserAgent:         "nutrilens",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the analysis backend. It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client for baseURL with default settings.
func NewClient(baseURL string) *Client {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout < 0 {
		config.Timeout = 0
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if config.Burst <= 0 {
		config.Burst = DefaultBurst
	}
	if config.UserAgent == "" {
		config.UserAgent = "nutrilens"
	}

	limit := rate.Limit(config.RequestsPerSecond)
	if config.RequestsPerSecond < 0 {
		limit = rate.Inf
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(limit, config.Burst),
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	if h != nil {
		c.httpClient = h
	}
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// Health probes whether the backend has its models loaded.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.do(ctx, OpHealth, http.MethodGet, PathHealth, nil, &out, healthFields...); err != nil {
		return nil, err
	}
	return &out, nil
}

// Simplify requests a plain-language reading of the label.
func (c *Client) Simplify(ctx context.Context, rec model.NutritionRecord) (*model.Simplification, error) {
	var out model.Simplification
	if err := c.do(ctx, OpSimplify, http.MethodPost, PathSimplify, rec, &out, simplifyFields...); err != nil {
		return nil, err
	}
	return &out, nil
}

// HealthGoal scores the label against a health goal.
func (c *Client) HealthGoal(ctx context.Context, rec model.NutritionRecord, goal model.HealthGoal) (*model.GoalFit, error) {
	var out model.GoalFit
	body := HealthGoalRequest{NutritionData: rec, HealthGoal: goal}
	if err := c.do(ctx, OpHealthGoal, http.MethodPost, PathHealthGoal, body, &out, healthGoalFields...); err != nil {
		return nil, err
	}
	return &out, nil
}

// DietCompatibility checks the label against a diet.
func (c *Client) DietCompatibility(ctx context.Context, rec model.NutritionRecord, diet model.DietType) (*model.DietFit, error) {
	var out model.DietFit
	body := DietRequest{NutritionData: rec, DietType: diet}
	if err := c.do(ctx, OpDietCompatibility, http.MethodPost, PathDietCompatibility, body, &out, dietFields...); err != nil {
		return nil, err
	}
	return &out, nil
}

// Warnings requests health warnings and alternatives for the label.
func (c *Client) Warnings(ctx context.Context, rec model.NutritionRecord) (*model.WarningReport, error) {
	var out model.WarningReport
	if err := c.do(ctx, OpWarnings, http.MethodPost, PathWarnings, rec, &out, warningsFields...); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ask sends a follow-up question about the label. prior is the latest
// simplification text, or "".
func (c *Client) Ask(ctx context.Context, rec model.NutritionRecord, question, prior string) (*model.ConversationTurn, error) {
	var out model.ConversationTurn
	body := AskRequest{NutritionData: rec, Question: question, Context: prior}
	if err := c.do(ctx, OpAsk, http.MethodPost, PathChat, body, &out, askFields...); err != nil {
		return nil, err
	}
	out.AnsweredAt = time.Now()
	return &out, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do performs one JSON request and decodes the response into out. Every
// name in required must be present and non-null in the response object.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any, required ...string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &ClientError{Type: ErrTypeTransport, Op: op, Message: "rate limiter", Cause: err}
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &ClientError{Type: ErrTypeRequest, Op: op, Message: "failed to marshal request", Cause: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return &ClientError{Type: ErrTypeRequest, Op: op, Message: "failed to create request", Cause: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("backend: %s %s failed after %v [%s]: %v", method, path, time.Since(start), requestID, err)
		return classifyTransport(op, err)
	}
	defer resp.Body.Close()
	log.Printf("backend: %s %s -> %d (%v) [%s]", method, path, resp.StatusCode, time.Since(start), requestID)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return classifyTransport(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ClientError{
			Type:    ErrTypeStatus,
			Op:      op,
			Status:  resp.StatusCode,
			Message: statusMessage(resp.Status, data),
		}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &ClientError{Type: ErrTypeDecode, Op: op, Message: "empty response body"}
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return &ClientError{Type: ErrTypeDecode, Op: op, Message: "failed to decode response", Cause: err}
	}
	if missing := missingFields(trimmed, required); len(missing) > 0 {
		log.Printf("backend: %s %s [%s]: response missing %s", method, path, requestID, strings.Join(missing, ", "))
		return &ClientError{
			Type:    ErrTypeDecode,
			Op:      op,
			Message: "response missing " + strings.Join(missing, ", "),
		}
	}
	return nil
}

// missingFields returns the names in required that are absent or null in
// the JSON object data.
func missingFields(data []byte, required []string) []string {
	if len(required) == 0 {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return required
	}
	var missing []string
	for _, name := range required {
		raw, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			missing = append(missing, name)
		}
	}
	return missing
}

// classifyTransport maps an http.Client error to a ClientError.
func classifyTransport(op string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &ClientError{Type: ErrTypeTimeout, Op: op, Message: "request timed out", Cause: err}
	}
	return &ClientError{Type: ErrTypeTransport, Op: op, Message: "backend unreachable", Cause: err}
}

// statusMessage builds a message from the status line and the API's error
// detail when it sent one.
func statusMessage(status string, body []byte) string {
	msg := "unexpected status " + status
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Detail == nil {
		return msg
	}
	switch d := apiErr.Detail.(type) {
	case string:
		if d != "" {
			return msg + ": " + d
		}
	default:
		if b, err := json.Marshal(d); err == nil {
			return msg + ": " + string(b)
		}
	}
	return msg
}

// String implements fmt.Stringer for log lines.
func (c *Client) String() string {
	return fmt.Sprintf("backend.Client(%s)", c.config.BaseURL)
}
