package govee

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://developer-api.govee.com"
	controlPath    = "/v1/devices/control"

	defaultTimeout = 15 * time.Second

	// maxErrorBodySize bounds how much of an error response is read for the
	// error message.
	maxErrorBodySize = 4096
)

// Client talks to the Govee developer API. Safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against the public Govee endpoint.
func NewClient(apiKey string) (*Client, error) {
	return NewClientWithURL(apiKey, defaultBaseURL)
}

// NewClientWithURL creates a client against a specific base URL.
// Used by tests to point at an httptest server.
func NewClientWithURL(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// controlRequest is the wire form of a device command.
type controlRequest struct {
	Device string     `json:"device"`
	Model  string     `json:"model"`
	Cmd    controlCmd `json:"cmd"`
}

type controlCmd struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// controlResponse is the API's response envelope. Code mirrors the HTTP
// status for successful transports.
type controlResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Control sends one command to one device.
//
// Parameters:
//   - deviceID: the device's MAC-style identifier
//   - model: the device SKU (e.g. "H5083")
//   - command: the command name (e.g. "turn")
//   - value: the command value (e.g. "on")
func (c *Client) Control(ctx context.Context, deviceID, model, command string, value any) error {
	body, err := json.Marshal(controlRequest{
		Device: deviceID,
		Model:  model,
		Cmd:    controlCmd{Name: command, Value: value},
	})
	if err != nil {
		return fmt.Errorf("%w: encoding command: %w", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+controlPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Govee-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only body

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, bytes.TrimSpace(tail))
	}

	var parsed controlResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("%w: parsing response: %w", ErrRequestFailed, err)
	}
	if parsed.Code != http.StatusOK {
		return fmt.Errorf("%w: api code %d: %s", ErrRequestFailed, parsed.Code, parsed.Message)
	}
	return nil
}

// SetPower turns a device on or off.
func (c *Client) SetPower(ctx context.Context, deviceID, model string, on bool) error {
	value := "off"
	if on {
		value = "on"
	}
	return c.Control(ctx, deviceID, model, "turn", value)
}
