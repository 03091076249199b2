package cdp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotReady is returned while Chrome answers but has no page target yet.
var ErrNotReady = errors.New("chrome has no page target yet")

// BrowserInfo is the /json/version document of a DevTools endpoint.
type BrowserInfo struct {
	Browser              string `json:"Browser"`
	ProtocolVersion      string `json:"Protocol-Version"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// Endpoint is the DevTools HTTP endpoint of one Chrome instance.
type Endpoint struct {
	host   string
	client *http.Client
}

// NewEndpoint returns the endpoint of a Chrome listening on localhost:port.
func NewEndpoint(port string) *Endpoint {
	return newEndpoint("localhost:" + port)
}

func newEndpoint(host string) *Endpoint {
	return &Endpoint{
		host:   host,
		client: &http.Client{Timeout: 2 * time.Second},
	}
}

// Version fetches /json/version. A browser without a websocket debugger URL
// cannot be attached to and is reported as an error.
func (e *Endpoint) Version(ctx context.Context) (*BrowserInfo, error) {
	var info BrowserInfo
	if err := e.get(ctx, "/json/version", &info); err != nil {
		return nil, err
	}
	if info.WebSocketDebuggerURL == "" {
		return nil, fmt.Errorf("chrome on %s reported no websocket debugger URL", e.host)
	}
	return &info, nil
}

// Ready returns the browser info once Chrome lists at least one page.
func (e *Endpoint) Ready(ctx context.Context) (*BrowserInfo, error) {
	info, err := e.Version(ctx)
	if err != nil {
		return nil, err
	}

	var targets []struct {
		Type string `json:"type"`
	}
	if err := e.get(ctx, "/json/list", &targets); err != nil {
		return nil, err
	}
	for _, target := range targets {
		if target.Type == "page" {
			return info, nil
		}
	}
	return nil, ErrNotReady
}

// Wait polls Ready until it succeeds, timeout elapses or ctx is done.
func (e *Endpoint) Wait(ctx context.Context, timeout time.Duration) (*BrowserInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		info, err := e.Ready(ctx)
		if err == nil {
			return info, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("chrome on %s not ready after %v: %w", e.host, timeout, err)
		case <-ticker.C:
		}
	}
}

func (e *Endpoint) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+e.host+path, nil)
	if err != nil {
		return err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach chrome on %s: %w", e.host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status code %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", path, err)
	}
	return nil
}
