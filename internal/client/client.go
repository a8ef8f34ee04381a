// Package client talks to the Big Library HTTP API. It keeps the bearer
// token in memory and acts as the identity provider for session.Resolver.
package client

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
	"sync"
	"time"

	"biglibrary/internal/session"
)

type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Logger    *slog.Logger
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *slog.Logger

	mu      sync.Mutex
	token   string
	user    *session.User
	subs    map[int]func(*session.User)
	nextSub int
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		logger:     opts.Logger,
		subs:       make(map[int]func(*session.User)),
	}
}

// APIError is any non-2xx answer from the API. Message is the server's
// human-readable message.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusUnauthorized
}

// envelope covers both the enveloped and the flat error bodies.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   json.RawMessage `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Token returns the bearer token of the signed-in user, if any.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// do sends one request. When out is non-nil the raw body is decoded into it.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("api call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// doData unwraps the success envelope into data and, when given, meta.
func (c *Client) doData(ctx context.Context, method, path string, body, data, meta interface{}) error {
	var env envelope
	if err := c.do(ctx, method, path, body, &env); err != nil {
		return err
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	if meta != nil && len(env.Meta) > 0 {
		if err := json.Unmarshal(env.Meta, meta); err != nil {
			return fmt.Errorf("decode meta: %w", err)
		}
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	ae := &APIError{StatusCode: status}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Error) == 0 {
		return ae
	}

	// {"error": "message"} or {"error": {"code": ..., "message": ...}}
	var msg string
	if err := json.Unmarshal(env.Error, &msg); err == nil {
		ae.Message = msg
		return ae
	}
	var eb errorBody
	if err := json.Unmarshal(env.Error, &eb); err == nil {
		ae.Code = eb.Code
		ae.Message = eb.Message
	}
	return ae
}
