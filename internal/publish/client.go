// Package publish pushes a built site to a remote static-hosting HTTP API.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"time"
)

// Client communicates with the hosting deploy API.
type Client struct {
	baseURL    string
	apiKey     string
	site       string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, site string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		site:    site,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// RetryableError marks a failure worth retrying: a transport error or a 5xx
// from the hosting API.
type RetryableError struct {
	Status int
	Err    error
}

func (e *RetryableError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("server status %d: %v", e.Status, e.Err)
	}
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error { return e.Err }

// PutFile uploads one file of the built site. relPath uses forward slashes
// relative to the site root, e.g. "first-post/index.html".
func (c *Client) PutFile(ctx context.Context, relPath string, content []byte) error {
	u := fmt.Sprintf("%s/sites/%s/files/%s", c.baseURL, url.PathEscape(c.site), relPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType(relPath))
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RetryableError{Err: fmt.Errorf("put %s: %w", relPath, err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode >= 500:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &RetryableError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("put %s: %s", relPath, string(body)),
		}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("put %s: status %d: %s", relPath, resp.StatusCode, string(body))
	}
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func contentType(relPath string) string {
	if ct := mime.TypeByExtension(filepath.Ext(relPath)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
