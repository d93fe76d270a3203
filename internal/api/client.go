// Package api implements the remote e-library contracts: OTP authentication,
// materials listing/upload/download and the feedback relay. Validation errors
// are rejected before any network call; non-2xx responses surface the
// server-supplied message with the HTTP status attached; transport failures
// surface a generic per-operation fallback.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/uniportfoc/elibrary-client/internal/errs"
)

// Client carries the HTTP plumbing shared by the endpoint clients.
type Client struct {
	base string
	hc   *http.Client
	log  *zap.Logger
}

// NewClient configures connection and request timeouts for API calls.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
	}
	return &Client{
		base: baseURL,
		hc:   &http.Client{Transport: transport, Timeout: timeout},
		log:  log,
	}
}

// errorBody is the shape every endpoint uses for non-2xx responses.
type errorBody struct {
	Message string `json:"message"`
}

// postJSON sends body as JSON and decodes a 2xx response into out.
func (c *Client) postJSON(ctx context.Context, path string, body, out any, fallback string) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out, fallback)
}

// getJSON fetches path and decodes a 2xx response into out.
func (c *Client) getJSON(ctx context.Context, path, bearer string, out any, fallback string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return c.do(req, out, fallback)
}

// do executes the request, mapping non-2xx responses to APIError with the
// server message and transport failures to APIError with the fallback.
func (c *Client) do(req *http.Request, out any, fallback string) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Error("api: request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return &errs.APIError{Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFrom(resp, fallback)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &errs.APIError{Message: fallback, Err: err}
	}
	return nil
}

// errorFrom extracts the server's message field when the error body carries
// one, falling back to the per-operation message.
func (c *Client) errorFrom(resp *http.Response, fallback string) error {
	msg := fallback
	var body errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil && body.Message != "" {
		msg = body.Message
	}
	return errs.NewAPIError(msg, resp.StatusCode)
}
