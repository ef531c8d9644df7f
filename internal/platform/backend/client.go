package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxErrorBody = 64 << 10

// APIError is a non-2xx answer from the HR backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

func (e *APIError) StatusCode() int {
	return e.Status
}

// Detail is the backend's {detail} text, empty when it sent none.
func (e *APIError) Detail() string {
	return e.Message
}

func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type UpstreamRecorder interface {
	RecordUpstream(operation string, status int, err error, duration time.Duration)
}

// Client talks to the HR backend REST API. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    UpstreamRecorder
	logger     *slog.Logger
}

func New(baseURL string, timeout time.Duration, metrics UpstreamRecorder) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout}, metrics)
}

func NewWithHTTPClient(baseURL string, httpClient *http.Client, metrics UpstreamRecorder) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		metrics:    metrics,
		logger:     slog.Default(),
	}
}

type call struct {
	op          string
	method      string
	path        string
	query       url.Values
	token       string
	body        io.Reader
	contentType string
}

func jsonCall(op, method, path, token string, payload any) (call, error) {
	c := call{op: op, method: method, path: path, token: token}
	if payload == nil {
		return c, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return c, fmt.Errorf("%s: encode body: %w", op, err)
	}
	c.body = bytes.NewReader(data)
	c.contentType = "application/json"
	return c, nil
}

// do performs the call and returns the raw 2xx body.
func (c *Client) do(ctx context.Context, in call) (body []byte, err error) {
	start := time.Now()
	status := 0
	defer func() {
		if c.metrics != nil {
			c.metrics.RecordUpstream(in.op, status, err, time.Since(start))
		}
	}()

	target := c.baseURL + "/api" + in.path
	if len(in.query) > 0 {
		target += "?" + in.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, in.method, target, in.body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", in.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in.contentType != "" {
		req.Header.Set("Content-Type", in.contentType)
	}
	if in.token != "" {
		req.Header.Set("Authorization", "Bearer "+in.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", "operation", in.op, "err", err)
		return nil, fmt.Errorf("%s: %w", in.op, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{Status: resp.StatusCode, Message: detailOf(raw)}
		if resp.StatusCode >= 500 {
			c.logger.Warn("backend error", "operation", in.op, "status", resp.StatusCode)
		}
		return nil, apiErr
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", in.op, err)
	}
	return body, nil
}

// detailOf extracts {"detail": "..."}. FastAPI validation errors carry a list instead; the
// first message is used.
func detailOf(raw []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil && len(items) > 0 {
		return strings.TrimSpace(items[0].Msg)
	}
	return ""
}

func (c *Client) getJSON(ctx context.Context, op, path, token string, out any) error {
	body, err := c.do(ctx, call{op: op, method: http.MethodGet, path: path, token: token})
	if err != nil {
		return err
	}
	return decode(op, body, out)
}

func (c *Client) send(ctx context.Context, op, method, path, token string, payload any, out any) error {
	in, err := jsonCall(op, method, path, token, payload)
	if err != nil {
		return err
	}
	body, err := c.do(ctx, in)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(op, body, out)
}

func decode(op string, body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
