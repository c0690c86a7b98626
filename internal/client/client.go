// Package client calls the users API over HTTP. It is shared by the web UI and the CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/crucial707/userlist/internal/models"
)

// DefaultBaseURL is where the API listens when nothing else is configured.
const DefaultBaseURL = "http://localhost:5000"

// APIError is a non-2xx response from the API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	var out struct {
		Error string `json:"error"`
	}
	if json.Unmarshal([]byte(e.Body), &out) == nil && out.Error != "" {
		return fmt.Sprintf("API error (%d): %s", e.Status, out.Error)
	}
	return fmt.Sprintf("API error (%d): %s", e.Status, strings.TrimSpace(e.Body))
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a Client for baseURL with a bounded request timeout.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// ListUsers calls GET /users.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	data, err := c.do(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// CreateUser calls POST /users with {"name": name} and returns the server's message.
func (c *Client) CreateUser(ctx context.Context, name string) (string, error) {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return "", err
	}
	data, err := c.do(ctx, http.MethodPost, "/users", body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{Status: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}
