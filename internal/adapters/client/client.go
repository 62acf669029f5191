// Package client talks to a running daemon over its HTTP API.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/ports"
)

// ErrDaemonUnreachable is returned when no daemon answers at the base URL.
var ErrDaemonUnreachable = errors.New("daemon is not running (start it with 'focusguard daemon')")

// Client implements ports.MessageHandler against the daemon.
type Client struct {
	baseURL string
	http    *http.Client
	stream  *http.Client
}

var _ ports.MessageHandler = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the client used for request/response calls.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for the daemon at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
		stream:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the daemon address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send posts msg and decodes the reply into dst.
func (c *Client) Send(ctx context.Context, msg domain.Message, dst any) error {
	return c.postJSON(ctx, "/message", msg, dst)
}

// Handle implements ports.MessageHandler. Transport failures become
// {success:false}.
func (c *Client) Handle(ctx context.Context, msg domain.Message) domain.Response {
	if msg.Action == domain.ActionGetTimerState {
		state, err := c.TimerState(ctx)
		if err != nil {
			return domain.Response{Success: false}
		}
		return domain.Response{State: &state}
	}
	var resp domain.Response
	if err := c.Send(ctx, msg, &resp); err != nil {
		return domain.Response{Success: false}
	}
	return resp
}

// TimerState returns the coordinator's current state.
func (c *Client) TimerState(ctx context.Context) (domain.TimerState, error) {
	var state domain.TimerState
	err := c.Send(ctx, domain.Message{Action: domain.ActionGetTimerState}, &state)
	return state, err
}

// Start starts the countdown. It reports false when a timer is already
// running.
func (c *Client) Start(ctx context.Context) (bool, error) {
	return c.simple(ctx, domain.Message{Action: domain.ActionStartTimer})
}

func (c *Client) Stop(ctx context.Context) (bool, error) {
	return c.simple(ctx, domain.Message{Action: domain.ActionStopTimer})
}

// Reset returns the new remaining seconds.
func (c *Client) Reset(ctx context.Context) (int, error) {
	var resp domain.Response
	if err := c.Send(ctx, domain.Message{Action: domain.ActionResetTimer}, &resp); err != nil {
		return 0, err
	}
	if !resp.Success || resp.TimeRemaining == nil {
		return 0, fmt.Errorf("reset rejected by daemon")
	}
	return *resp.TimeRemaining, nil
}

func (c *Client) ToggleGreyscale(ctx context.Context, enabled bool) (bool, error) {
	return c.simple(ctx, domain.Message{Action: domain.ActionToggleGreyscale, Enabled: enabled})
}

// UpdateSettings asks the daemon to re-read durations from the store.
func (c *Client) UpdateSettings(ctx context.Context) (bool, error) {
	return c.simple(ctx, domain.Message{Action: domain.ActionUpdateSettings})
}

// Navigate reports a navigation and returns the daemon's decision.
func (c *Client) Navigate(ctx context.Context, ev domain.NavigationEvent) (domain.Decision, error) {
	var d domain.Decision
	err := c.postJSON(ctx, "/navigate", ev, &d)
	return d, err
}

// Ping checks that the daemon is up.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDaemonUnreachable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("daemon health check returned %s", resp.Status)
	}
	return nil
}

// Subscribe calls fn for every event broadcast by the daemon until ctx is
// cancelled or the stream ends.
func (c *Client) Subscribe(ctx context.Context, fn func(domain.Event)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/events", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	resp, err := c.stream.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrDaemonUnreachable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("event stream returned %s", resp.Status)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		var ev domain.Event
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			continue
		}
		fn(ev)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return scanner.Err()
}

func (c *Client) simple(ctx context.Context, msg domain.Message) (bool, error) {
	var resp domain.Response
	if err := c.Send(ctx, msg, &resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, dst any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDaemonUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("daemon returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
