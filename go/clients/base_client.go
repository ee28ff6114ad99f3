package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bidforhope/livesync/go/internal/apierrors"
)

// BaseClient wraps net/http with a base URL, default headers and the error
// mapping every backend call shares. Non-2xx responses become
// *apierrors.RequestError carrying the backend message.
type BaseClient struct {
	baseURL string
	client  *http.Client
	headers map[string]string
}

func NewBaseClient(baseURL string) *BaseClient {
	return &BaseClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		headers: make(map[string]string),
	}
}

func (c *BaseClient) SetHeader(key, value string) {
	c.headers[key] = value
}

func (c *BaseClient) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// errorBody is the backend's error response shape.
type errorBody struct {
	Message string `json:"message"`
}

func (c *BaseClient) MakeRequest(ctx context.Context, method, endpoint string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &apierrors.RequestError{Err: err}
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apierrors.RequestError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(responseBody, &eb)
		return nil, &apierrors.RequestError{StatusCode: resp.StatusCode, Message: eb.Message}
	}

	return responseBody, nil
}

func (c *BaseClient) Get(ctx context.Context, endpoint string) ([]byte, error) {
	return c.MakeRequest(ctx, http.MethodGet, endpoint, nil)
}

func (c *BaseClient) Post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	body, err := encodeBody(payload)
	if err != nil {
		return nil, err
	}
	return c.MakeRequest(ctx, http.MethodPost, endpoint, body)
}

func (c *BaseClient) Put(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	body, err := encodeBody(payload)
	if err != nil {
		return nil, err
	}
	return c.MakeRequest(ctx, http.MethodPut, endpoint, body)
}

func encodeBody(payload any) (io.Reader, error) {
	if payload == nil {
		return nil, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return bytes.NewReader(data), nil
}
