// Package smoke drives short request sequences against a running backend
// and reports what came back. It is operator tooling: every step prints its
// outcome and nothing is retried.
package smoke

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

	"github.com/tidwall/gjson"
)

// ErrNoToken is returned when authentication did not yield a bearer token.
var ErrNoToken = errors.New("authentication returned no token")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

// Credentials are sent to the register and login endpoints. Email is only
// used by register.
type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// ContentRequest is the body of POST /api/content.
type ContentRequest struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug,omitempty"`
	Body       string   `json:"body"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
	Visibility string   `json:"visibility"`
	Reason     string   `json:"reason,omitempty"`
}

// Article is the part of an article response the scenarios look at. Raw
// holds the full JSON object.
type Article struct {
	ID    string
	Title string
	Raw   json.RawMessage
}

// Template is one entry of GET /api/templates.
type Template struct {
	RendererID string
	Title      string
}

// Client talks to the backend REST API. It holds no session state; calls
// that need authentication take the bearer token explicitly.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client for the backend at baseURL
// (e.g. http://localhost:3000). A zero timeout means no timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Register creates an account. The token is empty when the backend does not
// log the new user in.
func (c *Client) Register(ctx context.Context, creds Credentials) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/auth/register", "", creds)
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(body, "token").String(), nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/auth/login", "", Credentials{
		Username: creds.Username,
		Password: creds.Password,
	})
	if err != nil {
		return "", err
	}
	token := gjson.GetBytes(body, "token").String()
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// CreateContent publishes an article as the holder of token.
func (c *Client) CreateContent(ctx context.Context, token string, req ContentRequest) (*Article, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}
	body, err := c.do(ctx, http.MethodPost, "/api/content", token, req)
	if err != nil {
		return nil, err
	}
	a := parseArticle(gjson.ParseBytes(body))
	return &a, nil
}

// ListContent returns the articles visible to token, optionally filtered by
// category. An empty token lists as a guest.
func (c *Client) ListContent(ctx context.Context, token, category string) ([]Article, error) {
	path := "/api/content"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	body, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}

	res := gjson.ParseBytes(body)
	if !res.IsArray() {
		return nil, fmt.Errorf("list content: response is not an array")
	}
	var out []Article
	res.ForEach(func(_, v gjson.Result) bool {
		out = append(out, parseArticle(v))
		return true
	})
	return out, nil
}

// ListTemplates returns the layout templates the backend serves.
func (c *Client) ListTemplates(ctx context.Context) ([]Template, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/templates", "", nil)
	if err != nil {
		return nil, err
	}

	res := gjson.ParseBytes(body)
	if !res.IsArray() {
		return nil, fmt.Errorf("list templates: response is not an array")
	}
	var out []Template
	res.ForEach(func(_, v gjson.Result) bool {
		out = append(out, Template{
			RendererID: v.Get("renderer_id").String(),
			Title:      v.Get("title").String(),
		})
		return true
	})
	return out, nil
}

// Get performs an unauthenticated GET and returns the raw status and body.
// Non-2xx responses are not turned into errors.
func (c *Client) Get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func parseArticle(v gjson.Result) Article {
	return Article{
		ID:    v.Get("id").String(),
		Title: v.Get("title").String(),
		Raw:   json.RawMessage(v.Raw),
	}
}
