package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client wraps HTTP calls to the mentions REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL string, timeout ...time.Duration) *Client {
	httpTimeout := 30 * time.Second
	if len(timeout) > 0 && timeout[0] > 0 {
		httpTimeout = timeout[0]
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithTimeout clones the client with a different HTTP timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	return NewClient(c.baseURL, timeout)
}

// do executes an HTTP request and returns the raw response body.
func (c *Client) do(ctx context.Context, method, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, &ParseError{Op: "create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &NetworkError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &NetworkError{Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if msg, ok := errorMessage(respBody); ok {
			return nil, resp.StatusCode, &NetworkError{Status: resp.StatusCode, Err: fmt.Errorf("%s", msg)}
		}
		return nil, resp.StatusCode, &NetworkError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))),
		}
	}

	return respBody, resp.StatusCode, nil
}

// get performs a GET request.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	body, _, err := c.do(ctx, http.MethodGet, path)
	return body, err
}

// decodeInto decodes a response body into T.
func decodeInto[T any](data []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &ParseError{Op: "decode response", Err: err}
	}
	return &out, nil
}

// buildQuery appends query params to a path.
func buildQuery(path string, params QueryParams) string {
	if len(params) == 0 {
		return path
	}
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	return path + "?" + q.Encode()
}

// errorBody is the envelope sent with non-2xx responses. error is either
// a string or a {code, message} object.
type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorMessage pulls a readable message out of an error response body.
func errorMessage(body []byte) (string, bool) {
	var eb errorBody
	if len(body) == 0 || json.Unmarshal(body, &eb) != nil {
		return "", false
	}
	if len(eb.Error) > 0 {
		var text string
		if json.Unmarshal(eb.Error, &text) == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), true
		}
		var d errorDetail
		if json.Unmarshal(eb.Error, &d) == nil {
			parts := make([]string, 0, 2)
			for _, part := range []string{d.Code, d.Message} {
				if part = strings.TrimSpace(part); part != "" {
					parts = append(parts, part)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, ": "), true
			}
		}
	}
	if msg := strings.TrimSpace(eb.Message); msg != "" {
		return msg, true
	}
	return "", false
}
