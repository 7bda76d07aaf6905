package transport

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

	"github.com/dmitrijs2005/pharmaintel/internal/logging"
	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
)

const maxErrorBody = 64 << 10

// Request describes one round trip relative to the client's base URL.
type Request struct {
	Method string
	Path   string // joined onto the base URL; segments must already be escaped
	Query  url.Values
	Header http.Header
	Body   any // JSON-encoded when non-nil
}

// Doer performs a JSON round trip and decodes a successful response into out.
type Doer interface {
	Do(ctx context.Context, r Request, out any) error
}

type Client struct {
	base        *url.URL
	http        *http.Client
	tokens      TokenSource
	interpreter *Interpreter
	logger      logging.Logger
	requestID   func() string
}

type Option func(*Client)

// WithHTTPClient replaces the pooled default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRequestIDs overrides the X-Request-Id generator.
func WithRequestIDs(fn func() string) Option {
	return func(c *Client) { c.requestID = fn }
}

// NewClient builds a Client for baseURL. tokens may be nil for anonymous use;
// a nil interpreter only returns faults without notifying anyone.
func NewClient(baseURL string, tokens TokenSource, interpreter *Interpreter, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}

	if interpreter == nil {
		interpreter = NewInterpreter(nil, nil)
	}

	c := &Client{
		base:        base,
		http:        cleanhttp.DefaultPooledClient(),
		tokens:      tokens,
		interpreter: interpreter,
		logger:      logging.Nop(),
		requestID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the root every request path is joined onto.
func (c *Client) BaseURL() string { return c.base.String() }

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

// Do sends r and decodes a 2xx JSON body into out (skipped when out is nil,
// the status is 204 or the body is empty). Any other outcome goes through
// the Interpreter and comes back as a *Fault.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return err
	}
	req = Augment(req, c.token())

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		f := Classify(0, "", err)
		f.Method, f.URL = req.Method, req.URL.String()
		return c.interpreter.Interpret(ctx, f)
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "request completed",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"request_id", req.Header.Get(HeaderRequestID),
		"elapsed", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		f := Classify(resp.StatusCode, errorDetail(body), nil)
		f.Method, f.URL = req.Method, req.URL.String()
		return c.interpreter.Interpret(ctx, f)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode %s %s response: %w", req.Method, r.Path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	u := c.base.JoinPath(r.Path)
	if len(r.Query) > 0 {
		u.RawQuery = r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s body: %w", method, r.Path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", method, r.Path, err)
	}

	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(HeaderRequestID, c.requestID())
	return req, nil
}

// errorDetail extracts the server explanation from an error body. Both
// {"detail": "..."} and {"error": "...", "message": "..."} shapes are read;
// validation detail lists are flattened to their "msg" entries.
func errorDetail(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return string(body)
	}

	switch d := payload["detail"].(type) {
	case string:
		return d
	case []any:
		var msgs []string
		for _, item := range d {
			if m, ok := item.(map[string]any); ok {
				if s, ok := m["msg"].(string); ok {
					msgs = append(msgs, s)
				}
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	for _, key := range []string{"message", "error"} {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return string(body)
}
