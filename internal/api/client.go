package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/logger"
)

// TenantHeader carries the current tenant slug on every request.
const TenantHeader = "X-Tenant-Page-Id"

const maxBodyBytes = 5 * 1024 * 1024

// Response is the backend's {success, message, data, error} envelope.
// Endpoints that answer with a bare object get it as Data.
type Response struct {
	Success bool
	Message string
	Error   string
	Data    json.RawMessage

	// Malformed is set when a 2xx body was not JSON. The response then
	// degrades to an empty success.
	Malformed bool
}

// Client is the shared REST client. It attaches the session cookies and
// tenant header, and folds Set-Cookie responses back into the session.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger

	mu      sync.RWMutex
	session *domain.Session
}

// New creates a Client for baseURL. A zero timeout means no client timeout.
func New(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// SetSession installs the session used for subsequent requests. nil logs out.
func (c *Client) SetSession(s *domain.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// Session returns a copy of the current session, or nil.
func (c *Client) Session() *domain.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	cp := *c.session
	cp.Cookies = make(map[string]string, len(c.session.Cookies))
	for k, v := range c.session.Cookies {
		cp.Cookies[k] = v
	}
	return &cp
}

// Tenant returns the current tenant slug, or "".
func (c *Client) Tenant() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.Tenant
}

// SetTenant switches the tenant on the current session, creating an
// anonymous session if there is none.
func (c *Client) SetTenant(tenant string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		c.session = &domain.Session{Cookies: map[string]string{}, CreatedAt: time.Now()}
	}
	c.session.Tenant = tenant
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// Do performs one request inside a client span. It never retries.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	ctx, span := c.startSpan(ctx, method, path)
	defer span.End()

	resp, err := c.do(ctx, method, path, body)
	endSpan(span, err)
	if err == nil && resp.Malformed {
		span.SetAttributes(attribute.Bool("pagebuilder.response.malformed", true))
	}
	return resp, err
}

// Download GETs path and returns the body as is, for endpoints that answer
// with a file instead of the JSON envelope.
func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	ctx, span := c.startSpan(ctx, http.MethodGet, path)
	defer span.End()

	status, raw, err := c.roundTrip(ctx, http.MethodGet, path, nil)
	if err == nil && (status < 200 || status > 299) {
		err = statusError(http.MethodGet, path, status, raw)
	}
	endSpan(span, err)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) startSpan(ctx context.Context, method, path string) (context.Context, trace.Span) {
	return otel.Tracer("pagebuilder/api").Start(ctx, "api "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
}

func endSpan(span trace.Span, err error) {
	var se *StatusError
	switch {
	case errors.As(err, &se):
		span.SetAttributes(attribute.Int("http.response.status_code", se.Status))
		span.SetStatus(codes.Error, se.Message)
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*Response, error) {
	status, raw, err := c.roundTrip(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, statusError(method, path, status, raw)
	}
	out, ok := parseEnvelope(raw)
	if !ok {
		c.log.Warn("api response is not JSON, treating as empty success", "method", method, "path", path, "status", status)
		return &Response{Success: true, Malformed: true}, nil
	}
	return out, nil
}

// roundTrip sends one request and reads at most maxBodyBytes of the answer.
func (c *Client) roundTrip(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.decorate(req)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api request failed", "method", method, "path", path, "error", err)
		return 0, nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	c.absorbCookies(resp)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return 0, nil, &TransportError{Method: method, Path: path, Err: fmt.Errorf("read body: %w", err)}
	}
	// A cut-off body would parse as malformed and pass for an empty success.
	if len(raw) > maxBodyBytes {
		c.log.Warn("api response too large", "method", method, "path", path, "status", resp.StatusCode, "limit_bytes", maxBodyBytes)
		return 0, nil, &TransportError{Method: method, Path: path, Err: ErrResponseTooLarge}
	}
	c.log.Debug("api request", "method", method, "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	return resp.StatusCode, raw, nil
}

// statusError builds the error for a non-2xx answer, preferring the
// backend's own message.
func statusError(method, path string, status int, raw []byte) *StatusError {
	msg := "Request failed"
	if out, ok := parseEnvelope(raw); ok {
		switch {
		case out.Message != "":
			msg = out.Message
		case out.Error != "":
			msg = out.Error
		}
	}
	return &StatusError{Method: method, Path: path, Status: status, Message: msg}
}

func (c *Client) decorate(req *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return
	}
	for name, value := range c.session.Cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	if c.session.Tenant != "" {
		req.Header.Set(TenantHeader, c.session.Tenant)
	}
}

func (c *Client) absorbCookies(resp *http.Response) {
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		c.session = &domain.Session{CreatedAt: time.Now()}
	}
	if c.session.Cookies == nil {
		c.session.Cookies = map[string]string{}
	}
	for _, ck := range cookies {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(c.session.Cookies, ck.Name)
			continue
		}
		c.session.Cookies[ck.Name] = ck.Value
	}
}

// parseEnvelope decodes the body. It reports false for empty or non-JSON
// bodies.
func parseEnvelope(raw []byte) (*Response, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return nil, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		// Valid JSON that is not an object, e.g. a bare array.
		return &Response{Success: true, Data: json.RawMessage(trimmed)}, true
	}

	out := &Response{Success: true}
	if v, ok := fields["success"]; ok {
		_ = json.Unmarshal(v, &out.Success)
	}
	if v, ok := fields["message"]; ok {
		_ = json.Unmarshal(v, &out.Message)
	}
	if v, ok := fields["error"]; ok {
		_ = json.Unmarshal(v, &out.Error)
	}
	if v, ok := fields["data"]; ok {
		out.Data = v
	} else {
		out.Data = json.RawMessage(trimmed)
	}
	return out, true
}

// decodeData unmarshals resp.Data into T. Empty or null data yields T's
// zero value.
func decodeData[T any](resp *Response) (T, error) {
	var out T
	if resp == nil || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return out, fmt.Errorf("decode response data: %w", err)
	}
	return out, nil
}
