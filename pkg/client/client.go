// Package client is a typed HTTP client for the hms API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jwalitptl/hms-api/internal/model"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client, which sets no timeout
// of its own: calls are bounded by the context passed to each method.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:3000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListPractitioners(ctx context.Context) ([]model.Practitioner, error) {
	var out []model.Practitioner
	if err := c.do(ctx, http.MethodGet, "/practitioners", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePractitioner, CreateVisit and UpdateSessionIdentity return nil when
// the API answers without a record.
func (c *Client) CreatePractitioner(ctx context.Context, req model.CreatePractitionerRequest) (*model.Practitioner, error) {
	var out model.Practitioner
	found, err := c.doOptional(ctx, http.MethodPost, "/practitioners", req, &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePractitioner(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/practitioners/%d", id), nil, nil)
}

func (c *Client) ListClients(ctx context.Context) ([]model.Client, error) {
	var out []model.Client
	if err := c.do(ctx, http.MethodGet, "/clients", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetClient returns nil when the API reports no client with the id.
func (c *Client) GetClient(ctx context.Context, id int64) (*model.Client, error) {
	var out model.Client
	found, err := c.doOptional(ctx, http.MethodGet, fmt.Sprintf("/clients/%d", id), nil, &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListVisits(ctx context.Context) ([]model.Visit, error) {
	var out []model.Visit
	if err := c.do(ctx, http.MethodGet, "/visits", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateVisit(ctx context.Context, req model.CreateVisitRequest) (*model.Visit, error) {
	var out model.Visit
	found, err := c.doOptional(ctx, http.MethodPost, "/visits", req, &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteVisit(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/visits/%d", id), nil, nil)
}

// UpdateVisitStatus returns nil when the id matched no visit.
func (c *Client) UpdateVisitStatus(ctx context.Context, id int64, status model.VisitStatus) (*model.Visit, error) {
	var out model.Visit
	body := model.UpdateVisitStatusRequest{Status: status}
	found, err := c.doOptional(ctx, http.MethodPut, fmt.Sprintf("/visits/%d/status", id), body, &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

// GetSessionIdentity returns nil when no identity has been stored.
func (c *Client) GetSessionIdentity(ctx context.Context) (*model.SessionIdentity, error) {
	var out model.SessionIdentity
	found, err := c.doOptional(ctx, http.MethodGet, "/sessionIdentity", nil, &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSessionIdentity(ctx context.Context, patch model.SessionIdentityPatch) (*model.SessionIdentity, error) {
	var out model.SessionIdentity
	found, err := c.doOptional(ctx, http.MethodPut, "/sessionIdentity", patch, &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	_, err := c.doOptional(ctx, method, path, body, out)
	return err
}

// doOptional reports found=false when the API answered with an empty
// object or null instead of a record.
func (c *Client) doOptional(ctx context.Context, method, path string, body, out interface{}) (bool, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil {
		return true, nil
	}
	switch trimmed := bytes.TrimSpace(raw); string(trimmed) {
	case "", "{}", "null":
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return true, nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return strings.TrimSpace(string(raw))
}
