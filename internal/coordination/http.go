package coordination

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cruciblehq/barn/internal"
	"github.com/cruciblehq/barn/internal/build"
	"github.com/cruciblehq/barn/internal/logfields"
)

// Talks to the coordination service over HTTP with JSON bodies.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ Coordinator = (*HTTPClient)(nil)

// Creates a client for the service rooted at baseURL. Requests are bounded
// only by the caller's context.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

func (c *HTTPClient) Check(ctx context.Context, name string, tags []string) (bool, error) {
	body, err := encodeCheck(name, tags)
	if err != nil {
		return false, err
	}

	resp, err := c.post(ctx, "/check", body)
	if err != nil {
		return false, err
	}
	return decodeCheck(resp)
}

func (c *HTTPClient) Send(ctx context.Context, result *build.Result, tags []string) error {
	body, err := encodeResults(result, tags)
	if err != nil {
		return err
	}

	_, err = c.post(ctx, "/results", body)
	return err
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// POSTs body to path under the base URL and returns the response body.
func (c *HTTPClient) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	endpoint := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", internal.UserAgent())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	slog.Debug("coordination request",
		logfields.Server(endpoint),
		slog.Int("status_code", resp.StatusCode),
		logfields.Duration(time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: HTTP %d: %s", ErrHTTPStatus, endpoint, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return respBody, nil
}
