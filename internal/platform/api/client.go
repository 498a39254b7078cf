package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Client is the shared HTTP transport for the backend API. It owns the
// cookie jar that carries the session token, so every request goes out with
// the credential policy attached.
type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

// NewClient builds a client rooted at baseURL (the "/api" prefix is part of
// the request paths, not the base URL). No retry policy is configured:
// every retry in this application is a manual refresh action.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	jar, _ := cookiejar.New(nil)

	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetCookieJar(jar).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:   rc,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// SetCookie seeds the jar with a session cookie, used when restoring a
// persisted session.
func (c *Client) SetCookie(cookie *http.Cookie) {
	c.http.SetCookie(cookie)
}

func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

// do issues exactly one network call and passes the body through the
// envelope unwrapper. Transport failures classify as unreachable; envelope
// failures keep their own classification.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	start := time.Now()
	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", uuid.NewString())
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Error().Err(err).
			Str("method", method).
			Str("path", path).
			Dur("latency", time.Since(start)).
			Msg("request failed")
		return nil, unreachable(err)
	}

	data, err := Unwrap(resp.Body())

	evt := c.logger.Debug()
	if err != nil {
		evt = c.logger.Warn().Err(err)
	}
	evt.
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("latency", time.Since(start)).
		Msg("request")

	return data, err
}

// FetchInto performs a GET and decodes the unwrapped data into T. This is
// the blocking-view entry point: every failure propagates to the caller.
func FetchInto[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	data, err := c.Get(ctx, path)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, malformed(err)
	}
	return out, nil
}

// Decode unmarshals unwrapped envelope data, classifying decode failures as
// malformed responses.
func Decode[T any](data json.RawMessage) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return out, malformed(err)
	}
	return out, nil
}
