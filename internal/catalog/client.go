// Package catalog talks to the storefront catalog service that owns the
// category forest, and caches indexed snapshots of it.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgallion1/shopadmin/internal/categorytree"
)

const treePath = "/categories/tree"

// Client communicates with the catalog HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// treeBody is the wire shape of GET/PUT /categories/tree.
type treeBody struct {
	Categories []*categorytree.Node `json:"categories"`
}

// FetchForest retrieves the current category forest. The forest is not
// validated; callers index it with categorytree.Build.
func (c *Client) FetchForest(ctx context.Context) ([]*categorytree.Node, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+treePath, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch forest: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "fetch forest", http.StatusOK); err != nil {
		return nil, err
	}

	var body treeBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode forest: %w", err)
	}
	if body.Categories == nil {
		body.Categories = []*categorytree.Node{}
	}
	return body.Categories, nil
}

// PublishForest replaces the catalog's category forest.
func (c *Client) PublishForest(ctx context.Context, forest []*categorytree.Node) error {
	body, err := json.Marshal(treeBody{Categories: forest})
	if err != nil {
		return fmt.Errorf("marshal forest: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+treePath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("publish forest: %w", err)
	}
	defer resp.Body.Close()
	return checkStatus(resp, "publish forest", http.StatusOK, http.StatusCreated, http.StatusNoContent)
}

// checkStatus maps unexpected statuses to errors; 429 and 5xx are
// retryable.
func checkStatus(resp *http.Response, op string, ok ...int) error {
	for _, code := range ok {
		if resp.StatusCode == code {
			return nil
		}
	}
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, string(respBody))
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	msg := e.Message
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, msg)
}

// IsRetryable reports whether err wraps a *RetryableError.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
