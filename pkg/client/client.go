// Package client is a typed Go client for the blog API. Inputs are checked
// against the shared schemas before any request leaves the process.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vaughan-dsouza/medium-blog/pkg/schema"
)

// APIError is a non-2xx answer from the server, or a local validation failure
// (Status 0).
type APIError struct {
	Status  int
	Message string
	Fields  []schema.FieldError
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return "client: " + e.Message
	}
	return fmt.Sprintf("client: %d %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New builds a client for baseURL, e.g. "http://localhost:8787/api/v1".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string { return c.token }

func (c *Client) SetToken(token string) { c.token = token }

// Signup registers a user and keeps the returned token for later calls.
func (c *Client) Signup(ctx context.Context, in schema.SignupInput) (string, error) {
	return c.authenticate(ctx, "/user/signup", &in)
}

// Signin logs in and keeps the returned token for later calls.
func (c *Client) Signin(ctx context.Context, in schema.SigninInput) (string, error) {
	return c.authenticate(ctx, "/user/signin", &in)
}

func (c *Client) authenticate(ctx context.Context, path string, in validatable) (string, error) {
	if err := check(in); err != nil {
		return "", err
	}

	var out schema.TokenResponse
	if err := c.do(ctx, http.MethodPost, path, in, &out); err != nil {
		return "", err
	}

	c.token = out.JWT
	return out.JWT, nil
}

func (c *Client) CreatePost(ctx context.Context, in schema.CreatePostInput) (*schema.Post, error) {
	if err := check(&in); err != nil {
		return nil, err
	}

	var out schema.PostResponse
	if err := c.do(ctx, http.MethodPost, "/post", &in, &out); err != nil {
		return nil, err
	}
	return &out.Blog, nil
}

func (c *Client) ListPosts(ctx context.Context) ([]schema.Post, error) {
	var out schema.PostListResponse
	if err := c.do(ctx, http.MethodGet, "/post/bulk", nil, &out); err != nil {
		return nil, err
	}
	return out.Blog, nil
}

func (c *Client) GetPost(ctx context.Context, id int64) (*schema.Post, error) {
	var out schema.PostResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/post/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Blog, nil
}

// UpdatePost patches the post in.ID and returns the id the server confirmed.
func (c *Client) UpdatePost(ctx context.Context, in schema.UpdatePostInput) (int64, error) {
	if err := check(&in); err != nil {
		return 0, err
	}

	var out schema.UpdatePostResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/post/%d", in.ID), &in, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

type validatable interface {
	Validate() error
}

func check(in validatable) error {
	err := in.Validate()
	if err == nil {
		return nil
	}

	fields, ok := schema.FieldErrors(err)
	if !ok {
		return &APIError{Message: err.Error()}
	}
	return &APIError{Message: "invalid input", Fields: fields}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e schema.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error, Fields: e.Errors}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}
