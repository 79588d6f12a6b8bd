package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulseboard/pkg/domain/model"
	"github.com/secmon-lab/pulseboard/pkg/utils/errutil"
	"github.com/secmon-lab/pulseboard/pkg/utils/logging"
	"github.com/secmon-lab/pulseboard/pkg/utils/safe"
)

const defaultReconnectDelay = 3 * time.Second

// Client keeps an in-memory mirror of the board synchronized with a
// running server. It seeds the mirror with a bulk fetch, applies realtime
// events as they arrive, and reconnects with a fixed delay when the
// transport drops. The baseline is re-fetched on every (re)connect so a
// mirror that missed events while disconnected converges again.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	dialer         *websocket.Dialer
	reconnectDelay time.Duration
	onEvent        func(ev model.RawEvent)

	mu     sync.RWMutex
	mirror *Mirror
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithReconnectDelay overrides the fixed delay between reconnect attempts.
func WithReconnectDelay(d time.Duration) Option {
	return func(c *Client) {
		c.reconnectDelay = d
	}
}

// WithOnEvent registers a hook invoked after each event is folded into the
// mirror.
func WithOnEvent(fn func(ev model.RawEvent)) Option {
	return func(c *Client) {
		c.onEvent = fn
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		httpClient:     http.DefaultClient,
		dialer:         websocket.DefaultDialer,
		reconnectDelay: defaultReconnectDelay,
		mirror:         emptyMirror(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mirror returns the current board view. The returned value is a snapshot;
// later events do not modify it.
func (c *Client) Mirror() *Mirror {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mirror
}

// Run drives the sync loop until ctx is cancelled: fetch baseline, open
// the realtime channel, apply events, and on any transport failure retry
// after the fixed reconnect delay. Retries repeat indefinitely with no
// backoff growth.
func (c *Client) Run(ctx context.Context) error {
	for {
		if err := c.session(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			errutil.Handle(ctx, err, "sync session ended, reconnecting")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.reconnectDelay):
		}
	}
}

func (c *Client) session(ctx context.Context) error {
	if err := c.fetchBaseline(ctx); err != nil {
		return err
	}

	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/ws"
	conn, resp, err := c.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to open realtime channel", goerr.V("url", wsURL))
	}
	if resp != nil {
		safe.Close(ctx, resp.Body)
	}

	logging.From(ctx).Info("realtime channel open", "url", wsURL)

	// Close the socket when the context ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
			_ = conn.Close()
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return goerr.Wrap(err, "realtime channel closed")
		}

		var ev model.RawEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			logging.From(ctx).Warn("discarding malformed frame", "error", err)
			continue
		}

		c.mu.Lock()
		c.mirror = Apply(ctx, c.mirror, ev)
		c.mu.Unlock()

		if c.onEvent != nil {
			c.onEvent(ev)
		}
	}
}

// fetchBaseline replaces the mirror with the server's current state. This
// is the authoritative view; events only keep it current between fetches.
func (c *Client) fetchBaseline(ctx context.Context) error {
	next := emptyMirror()

	if err := c.getJSON(ctx, "/api/tasks", &next.Tasks); err != nil {
		return err
	}
	if err := c.getJSON(ctx, "/api/blockers", &next.Blockers); err != nil {
		return err
	}
	if err := c.getJSON(ctx, "/api/activity", &next.Activity); err != nil {
		return err
	}
	if err := c.getJSON(ctx, "/api/settings", &next.Settings); err != nil {
		return err
	}

	c.mu.Lock()
	c.mirror = next
	c.mu.Unlock()

	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build request", goerr.V("path", path))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "baseline fetch failed", goerr.V("path", path))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return goerr.New(fmt.Sprintf("unexpected status %d", resp.StatusCode), goerr.V("path", path))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return goerr.Wrap(err, "failed to decode baseline response", goerr.V("path", path))
	}

	return nil
}
