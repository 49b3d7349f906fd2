// Package content is a thin client for the headless content store. It issues
// the two read queries the site needs, creates comment documents, and builds
// image URLs from asset references.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no post matches the requested slug.
var ErrNotFound = errors.New("content: not found")

// APIError is a non-2xx response from the content store.
type APIError struct {
	StatusCode  int    `json:"statusCode"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("content: store returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("content: store returned status %d: %s", e.StatusCode, e.Description)
}

// Client talks to the content store's HTTP API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	baseURL    string
	newID      func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sends every request to base instead of the project's hosts.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithIDGenerator sets the function used to mint new document ids.
func WithIDGenerator(fn func() string) Option {
	return func(c *Client) {
		c.newID = fn
	}
}

// New creates a Client for cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the effective configuration, defaults applied.
func (c *Client) Config() Config {
	return c.cfg
}

// ImageURL resolves an image asset reference. See Config.ImageURL.
func (c *Client) ImageURL(ref string) string {
	return c.cfg.ImageURL(ref)
}

// ImageURLWidth resolves an image asset reference scaled by the CDN. See
// Config.ImageURLWidth.
func (c *Client) ImageURLWidth(ref string, width int) string {
	return c.cfg.ImageURLWidth(ref, width)
}

func (c *Client) queryHost() string {
	if c.baseURL != "" {
		return c.baseURL
	}
	if c.cfg.UseCDN && c.cfg.Token == "" {
		return "https://" + c.cfg.ProjectID + ".apicdn.sanity.io"
	}
	return c.apiHost()
}

func (c *Client) apiHost() string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return "https://" + c.cfg.ProjectID + ".api.sanity.io"
}

func (c *Client) endpoint(host, action string) string {
	return fmt.Sprintf("%s/v%s/data/%s/%s", host, c.cfg.APIVersion, action, url.PathEscape(c.cfg.Dataset))
}

// Fetch runs query with params and decodes the result into out. Each param
// is JSON-encoded and sent as $name.
func (c *Client) Fetch(ctx context.Context, query string, params map[string]any, out any) error {
	v := url.Values{}
	v.Set("query", query)
	for name, p := range params {
		b, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("content: encode param %s: %w", name, err)
		}
		v.Set("$"+name, string(b))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(c.queryHost(), "query")+"?"+v.Encode(), nil)
	if err != nil {
		return fmt.Errorf("content: build query request: %w", err)
	}
	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := c.do(req, &envelope); err != nil {
		return err
	}
	if out == nil || len(envelope.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("content: decode result: %w", err)
	}
	return nil
}

// ListPosts returns every post that has a slug, newest first.
func (c *Client) ListPosts(ctx context.Context) ([]PostSummary, error) {
	var posts []PostSummary
	if err := c.Fetch(ctx, listPostsQuery, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// PostBySlug returns the post with the given slug, or ErrNotFound.
func (c *Client) PostBySlug(ctx context.Context, slug string) (*Post, error) {
	var post *Post
	if err := c.Fetch(ctx, postBySlugQuery, map[string]any{"slug": slug}, &post); err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

type mutateResponse struct {
	TransactionID string `json:"transactionId"`
	Results       []struct {
		ID        string `json:"id"`
		Operation string `json:"operation"`
	} `json:"results"`
}

// CreateComment persists a new, unapproved comment referencing in.PostID and
// returns the new document id.
func (c *Client) CreateComment(ctx context.Context, in NewComment) (string, error) {
	doc := commentDocument{
		ID:      c.newID(),
		Type:    "comment",
		Post:    Reference{Type: "reference", Ref: in.PostID},
		Name:    in.Name,
		Email:   in.Email,
		Comment: in.Comment,
	}
	body, err := json.Marshal(map[string]any{
		"mutations": []map[string]any{{"create": doc}},
	})
	if err != nil {
		return "", fmt.Errorf("content: encode mutation: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(c.apiHost(), "mutate")+"?returnIds=true", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("content: build mutate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	var res mutateResponse
	if err := c.do(req, &res); err != nil {
		return "", err
	}
	if len(res.Results) > 0 && res.Results[0].ID != "" {
		return res.Results[0].ID, nil
	}
	return doc.ID, nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("content: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("content: decode response: %w", err)
	}
	return nil
}

// decodeAPIError understands both error shapes the store uses:
// {"error":{"type":…,"description":…}} and {"error":"…","message":"…"}.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(raw) == 0 {
		return apiErr
	}
	var body struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		apiErr.Description = string(raw)
		return apiErr
	}
	var detail struct {
		Type        string `json:"type"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body.Error, &detail); err == nil && (detail.Type != "" || detail.Description != "") {
		apiErr.Type = detail.Type
		apiErr.Description = detail.Description
		return apiErr
	}
	var short string
	if err := json.Unmarshal(body.Error, &short); err == nil {
		apiErr.Type = short
	}
	apiErr.Description = body.Message
	return apiErr
}
