// Package xano is a small JSON client for a Xano workspace API.
//
// Every call goes through Client.do, which injects the bearer token (the
// per-call token, or the workspace API key when none is given) and turns
// non-2xx responses into *APIError values with a normalised message.
package xano

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultTimeout = 10 * time.Second

// APIError is returned for any non-2xx response from the workspace.
type APIError struct {
	Status  int
	Message string
	Method  string
	URL     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("xano %s %s: %d %s", e.Method, e.URL, e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.Logger
}

func New(config Config, log *zap.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		apiKey:  config.APIKey,
		http:    &http.Client{Timeout: timeout},
		log:     log.With(zap.String("component", "xano")),
	}
}

func (c *Client) Get(ctx context.Context, endpoint string, params url.Values, token string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, params, nil, token, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, body any, token string, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, nil, body, token, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, body any, token string, out any) error {
	return c.do(ctx, http.MethodPut, endpoint, nil, body, token, out)
}

func (c *Client) Patch(ctx context.Context, endpoint string, body any, token string, out any) error {
	return c.do(ctx, http.MethodPatch, endpoint, nil, body, token, out)
}

func (c *Client) Delete(ctx context.Context, endpoint string, token string, out any) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil, token, out)
}

// TestConnection probes the workspace health endpoint.
func (c *Client) TestConnection(ctx context.Context) error {
	if err := c.Get(ctx, "/health", nil, "", nil); err != nil {
		c.log.Error("Xano connection check failed", zap.Error(err), zap.Int("status", StatusOf(err)))
		return err
	}

	c.log.Info("Xano connection established")
	return nil
}

// Pagination describes one page of a listing endpoint.
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
}

type Page struct {
	Data       json.RawMessage `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

// GetPaginated fetches one page from endpoint. Xano endpoints disagree on
// the envelope, so items are read from "items", then "data", then the raw
// body, and totals from "total" or "count".
func (c *Client) GetPaginated(ctx context.Context, endpoint string, page, limit int, params url.Values, token string) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(limit))

	var raw json.RawMessage
	if err := c.Get(ctx, endpoint, query, token, &raw); err != nil {
		return nil, err
	}

	return normalisePage(raw, page, limit)
}

func normalisePage(raw json.RawMessage, page, limit int) (*Page, error) {
	result := &Page{
		Data:       raw,
		Pagination: Pagination{Page: page, PerPage: limit},
	}

	var envelope struct {
		Items   json.RawMessage `json:"items"`
		Data    json.RawMessage `json:"data"`
		Page    int             `json:"page"`
		PerPage int             `json:"per_page"`
		Total   int64           `json:"total"`
		Count   int64           `json:"count"`
		Pages   int             `json:"pages"`
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return result, nil
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode paginated response: %w", err)
	}

	switch {
	case len(envelope.Items) > 0:
		result.Data = envelope.Items
	case len(envelope.Data) > 0:
		result.Data = envelope.Data
	}

	if envelope.Page > 0 {
		result.Pagination.Page = envelope.Page
	}
	if envelope.PerPage > 0 {
		result.Pagination.PerPage = envelope.PerPage
	}

	result.Pagination.Total = envelope.Total
	if result.Pagination.Total == 0 {
		result.Pagination.Total = envelope.Count
	}

	result.Pagination.Pages = envelope.Pages
	if result.Pagination.Pages == 0 {
		result.Pagination.Pages = int(math.Ceil(float64(result.Pagination.Total) / float64(limit)))
	}

	return result, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, body any, token string, out any) error {
	target := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if auth := bearer(token, c.apiKey); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	c.log.Debug("Xano API request",
		zap.String("method", method),
		zap.String("url", endpoint),
		zap.Bool("has_auth", req.Header.Get("Authorization") != ""),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("Xano request failed",
			zap.Error(err),
			zap.String("method", method),
			zap.String("url", endpoint),
		)
		return fmt.Errorf("xano %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read xano response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, data),
			Method:  method,
			URL:     endpoint,
		}
		c.log.Error("Xano API error response",
			zap.Int("status", resp.StatusCode),
			zap.String("status_text", http.StatusText(resp.StatusCode)),
			zap.String("url", endpoint),
			zap.String("method", method),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	c.log.Debug("Xano API response",
		zap.Int("status", resp.StatusCode),
		zap.String("url", endpoint),
		zap.Int("data_size", len(data)),
	)

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode xano response: %w", err)
	}

	return nil
}

// bearer picks the call token over the API key and adds the Bearer scheme
// unless it is already there.
func bearer(token, apiKey string) string {
	if token == "" {
		token = apiKey
	}
	if token == "" {
		return ""
	}
	if strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bearer " + token
}

func errorMessage(status int, body []byte) string {
	switch {
	case status == http.StatusUnauthorized:
		return "invalid or expired authentication token"
	case status == http.StatusForbidden:
		return "not allowed to perform this action"
	case status == http.StatusNotFound:
		return "resource not found"
	case status >= http.StatusInternalServerError:
		return "remote server error"
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return http.StatusText(status)
}
