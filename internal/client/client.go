// Package client is the API Client the two screens use to talk to the
// students backend. It offers the four operations the screens need —
// list, create, update and delete — against a single configured base URL.
//
// Every call takes a context.Context, and the underlying http.Client has
// a timeout, so a hung backend turns into an ordinary error instead of a
// screen that stays in its loading state forever.
package client

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

	"github.com/aanand-mishra/students-portal/internal/config"
	"github.com/aanand-mishra/students-portal/internal/types"
)

// Endpoint paths, relative to the base URL.
const (
	pathList   = "/api/v1/getStudent"
	pathCreate = "/api/v1/register"
	pathUpdate = "/api/v1/UpdateStudent/"
	pathDelete = "/api/v1/DeleteStudent/"
)

// maxErrorBody caps how much of a failed response we read looking for a
// message.
const maxErrorBody = 1 << 20

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client from the api section of the config.
func New(cfg config.API) *Client {
	return NewWithHTTPClient(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout})
}

// NewWithHTTPClient lets callers (and tests) supply their own transport.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

// List handles GET /api/v1/getStudent and returns the records in the
// order the server sent them. The result is never nil.
func (c *Client) List(ctx context.Context) ([]types.Student, error) {
	var out types.ListResponse
	if err := c.do(ctx, "List", http.MethodGet, pathList, nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = make([]types.Student, 0)
	}
	return out.Data, nil
}

// Create handles POST /api/v1/register. The identifier of s is never
// sent; the returned record carries the one the server assigned.
//
// A 2xx body with "success": false is a failure carrying the server's
// message.
func (c *Client) Create(ctx context.Context, s types.Student) (types.Student, error) {
	s.ID = ""

	var out types.RecordResponse
	if err := c.do(ctx, "Create", http.MethodPost, pathCreate, s, &out); err != nil {
		return types.Student{}, err
	}
	if out.Success != nil && !*out.Success {
		return types.Student{}, &Error{Op: "Create", Status: http.StatusOK, Message: out.Message}
	}
	return out.Data, nil
}

// Update handles PATCH /api/v1/UpdateStudent/{id} and returns the record
// as stored after the update.
func (c *Client) Update(ctx context.Context, id string, s types.Student) (types.Student, error) {
	if id == "" {
		return types.Student{}, &Error{Op: "Update", Message: "missing student id"}
	}
	s.ID = ""

	var out types.RecordResponse
	if err := c.do(ctx, "Update", http.MethodPatch, pathUpdate+url.PathEscape(id), s, &out); err != nil {
		return types.Student{}, err
	}
	return out.Data, nil
}

// Delete handles DELETE /api/v1/DeleteStudent/{id}. Only the status code
// matters.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return &Error{Op: "Delete", Message: "missing student id"}
	}
	return c.do(ctx, "Delete", http.MethodDelete, pathDelete+url.PathEscape(id), nil, nil)
}

// do sends one request. body, when non-nil, is JSON-encoded; out, when
// non-nil, receives the decoded 2xx body.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Err: fmt.Errorf("encode body: %w", err)}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("api request", slog.String("op", op), slog.String("method", method), slog.String("path", path))

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Op: op, Status: resp.StatusCode, Message: readMessage(resp.Body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}

// readMessage pulls the "message" field out of an error body, if there is
// one.
func readMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, maxErrorBody)).Decode(&body); err != nil {
		return ""
	}
	return body.Message
}
