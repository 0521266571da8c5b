// Package client is a Go client for the video library HTTP API. It unwraps
// the {success, data} envelope and turns failure envelopes into *APIError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/therealutkarshpriyadarshi/videolib/pkg/models"
)

const (
	// VideosPath is where the API serves the collection
	VideosPath = "/api/videos"

	defaultErrorMessage = "An error occurred"
)

// APIError is returned when the server answers with a failure envelope or a
// non-2xx status
type APIError struct {
	StatusCode int
	Message    string
	Details    json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Client calls the video library API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the API at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListVideos fetches the collection, optionally sorted
func (c *Client) ListVideos(ctx context.Context, sort models.SortOption) ([]models.Video, error) {
	return c.listVideos(ctx, sort, "")
}

// SearchVideos fetches the collection filtered server-side by query
func (c *Client) SearchVideos(ctx context.Context, sort models.SortOption, query string) ([]models.Video, error) {
	return c.listVideos(ctx, sort, query)
}

func (c *Client) listVideos(ctx context.Context, sort models.SortOption, query string) ([]models.Video, error) {
	params := url.Values{}
	if sort != models.SortNatural {
		params.Set("sort", string(sort))
	}
	if query != "" {
		params.Set("q", query)
	}

	path := VideosPath
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var videos []models.Video
	if err := c.do(ctx, http.MethodGet, path, nil, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// GetVideo fetches one video by id
func (c *Client) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	var video models.Video
	if err := c.do(ctx, http.MethodGet, VideosPath+"/"+url.PathEscape(id), nil, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// CreateVideo submits a new video and returns the stored record
func (c *Client) CreateVideo(ctx context.Context, req models.CreateVideoRequest) (*models.Video, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var video models.Video
	if err := c.do(ctx, http.MethodPost, VideosPath, body, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{StatusCode: resp.StatusCode, Message: defaultErrorMessage}
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = defaultErrorMessage
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg, Details: env.Details}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}
	return nil
}
