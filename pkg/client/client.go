// Package client is a small HTTP client for the pald control API, used
// by palctl and suitable for scripting against a running daemon.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to a pald daemon's HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the daemon at baseURL, e.g.
// "http://127.0.0.1:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Status returns the daemon status document.
func (c *Client) Status() (json.RawMessage, error) {
	return c.get("/api/status")
}

// Channels returns the stored channel table.
func (c *Client) Channels() (json.RawMessage, error) {
	return c.get("/api/channels")
}

// Channel returns the codec's current channel.
func (c *Client) Channel() (json.RawMessage, error) {
	return c.get("/api/channel")
}

// SetChannel programs a channel. mode may be empty for the daemon
// default; id 0 leaves the channel table entry at slot 0.
func (c *Client) SetChannel(frequencyHz uint32, mode string, id uint8) (json.RawMessage, error) {
	body := map[string]any{"frequency": frequencyHz}
	if mode != "" {
		body["mode"] = mode
	}
	if id != 0 {
		body["id"] = id
	}
	return c.post("/api/channel", body)
}

// SetPTT keys or unkeys the transmitter.
func (c *Client) SetPTT(transmit bool) (json.RawMessage, error) {
	return c.post("/api/ptt", map[string]any{"transmit": transmit})
}

// IsConnected reports whether the daemon answers its status endpoint.
func (c *Client) IsConnected() bool {
	_, err := c.Status()
	return err == nil
}

func (c *Client) get(path string) (json.RawMessage, error) {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("failed to reach daemon: %w", err)
	}
	defer resp.Body.Close()
	return readResponse(resp)
}

func (c *Client) post(path string, body any) (json.RawMessage, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to reach daemon: %w", err)
	}
	defer resp.Body.Close()
	return readResponse(resp)
}

func readResponse(resp *http.Response) (json.RawMessage, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return data, fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return data, fmt.Errorf("server returned %s", resp.Status)
	}

	return data, nil
}
