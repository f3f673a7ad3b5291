package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const (
	// DefaultPageSize is the default number of items per page
	DefaultPageSize = 100
	// MaxPageSize is the largest page GitHub and GitLab will return
	MaxPageSize = 100
	// MaxPages bounds pagination so a misbehaving server cannot loop forever
	MaxPages = 1000
)

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// BaseClient contains the request plumbing shared by the tracker clients.
type BaseClient struct {
	BaseURL    string
	HTTPClient HTTPClient
	Logger     *zap.Logger
}

// NewBaseClient creates a new base client.
func NewBaseClient(baseURL string, httpClient HTTPClient, logger *zap.Logger) *BaseClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaseClient{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		Logger:     logger,
	}
}

// GetJSON performs a GET request with the given headers and decodes the JSON
// body into result. The response headers are returned for pagination.
func (c *BaseClient) GetJSON(ctx context.Context, url string, headers map[string]string, result interface{}) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.Logger.Debug("api request", zap.String("url", url))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return resp.Header, nil
}
