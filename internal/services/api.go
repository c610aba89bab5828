// HTTP client for the song search service
package services

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

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songsearch/internal/models"
	"github.com/desertthunder/songsearch/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "http://localhost:5000"

	searchPath  = "/search"
	suggestPath = "/suggest_playlists"
	historyPath = "/history"

	requestIDHeader = "X-Request-ID"
)

// Client makes requests to the song search service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// ClientOpts contains configuration options for creating a Client.
type ClientOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration // Used only when HTTPClient is nil
	RateLimit  float64       // Requests per second; <= 0 disables throttling
	Logger     *log.Logger
}

// NewClient creates a new song search client.
func NewClient(opts ClientOpts) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if opts.HTTPClient == nil {
		if opts.Timeout > 0 {
			opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
		} else {
			opts.HTTPClient = http.DefaultClient
		}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: opts.HTTPClient,
		limiter:    limiter,
		logger:     opts.Logger,
	}
}

// BaseURL returns the service base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Search sends the query to POST /search.
func (c *Client) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	var result models.SearchResult
	if err := c.doRequest(ctx, http.MethodPost, searchPath, nil, models.SearchRequest{Query: query}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SuggestPlaylists requests GET /suggest_playlists with the vibe as a query parameter.
func (c *Client) SuggestPlaylists(ctx context.Context, vibe string) ([]models.Playlist, error) {
	var result models.PlaylistSuggestions
	params := url.Values{"vibe": []string{vibe}}
	if err := c.doRequest(ctx, http.MethodGet, suggestPath, params, nil, &result); err != nil {
		return nil, err
	}
	return result.Playlists, nil
}

// History requests GET /history.
func (c *Client) History(ctx context.Context) ([]models.HistoryEntry, error) {
	var result models.History
	if err := c.doRequest(ctx, http.MethodGet, historyPath, nil, nil, &result); err != nil {
		return nil, err
	}
	return result.History, nil
}

// doRequest performs a request against the service and decodes a successful JSON answer into result.
func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, body, result any) error {
	requestID := shared.GenerateID()
	logger := shared.WithLogger(c.logger, "request_id", requestID, "method", method, "path", path)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: throttle: %w", shared.ErrAPIRequest, err)
		}
	}

	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %w", shared.ErrAPIRequest, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", shared.ErrAPIRequest, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("request failed", "error", err)
		return fmt.Errorf("%w: request failed: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("failed to read response", "status", resp.StatusCode, "error", err)
		return fmt.Errorf("%w: failed to read response: %w", shared.ErrAPIRequest, err)
	}

	logger.Debug("response received", "status", resp.StatusCode, "bytes", len(data), "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error("unexpected status", "status", resp.StatusCode)
		return &shared.APIError{StatusCode: resp.StatusCode, Body: data}
	}

	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		logger.Error("empty response body")
		return fmt.Errorf("%w: empty response", shared.ErrAPIRequest)
	}

	if err := json.Unmarshal(data, result); err != nil {
		logger.Error("failed to decode response", "error", err)
		return fmt.Errorf("%w: failed to decode response: %w", shared.ErrAPIRequest, err)
	}

	return nil
}
