// Package feed is the HTTP client for the upstream prop and live-stat feeds.
// It deliberately decodes rows into untyped maps: upstream schemas drift, and
// shaping them into the canonical model is the normalizer's job, not ours.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/courtside/proptracker/internal/domain/model"
	"github.com/courtside/proptracker/internal/domain/resolve"
	"github.com/courtside/proptracker/pkg/logger"
)

const defaultTimeout = 10 * time.Second

// Client fetches raw prop rows and live snapshots from the feed backend.
type Client struct {
	base   string
	client *http.Client
	logger logger.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client (used in tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a feed client for the given base URL.
func New(base string, opts ...Option) (*Client, error) {
	if _, err := url.Parse(base); err != nil || base == "" {
		return nil, fmt.Errorf("feed: invalid base url %q", base)
	}

	c := &Client{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: defaultTimeout},
		logger: logger.Get().Named("feed"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Rows fetches one page of raw rows from the named feed resource.
// The body may be a bare JSON array or a {"data": [...]} envelope; numbers
// are decoded as json.Number so large ids and odds survive intact.
func (c *Client) Rows(ctx context.Context, resource string, limit, offset int) ([]map[string]any, error) {
	u := c.base + "/" + strings.TrimLeft(resource, "/")
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err == nil {
		return rows, nil
	}

	dec = json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, resource, err)
	}
	return envelope.Data, nil
}

// liveEntry is the wire shape of one live player line.
type liveEntry struct {
	GameID     string             `json:"gameId"`
	PlayerID   int64              `json:"playerId"`
	Period     any                `json:"period"`
	Clock      string             `json:"clock"`
	GameStatus string             `json:"gameStatus"`
	Stats      map[string]float64 `json:"stats"`
}

// LiveSnapshots fetches the current live stat lines, keyed by player id.
// Stat keys go through the market alias tables so upstream naming drift
// ("pts", "threePointersMade") lands on canonical markets.
func (c *Client) LiveSnapshots(ctx context.Context) (map[int64]model.LiveSnapshot, error) {
	body, err := c.get(ctx, c.base+"/live")
	if err != nil {
		return nil, err
	}

	var entries []liveEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: live: %v", ErrDecode, err)
	}

	out := make(map[int64]model.LiveSnapshot, len(entries))
	for _, e := range entries {
		if e.PlayerID == 0 {
			continue
		}
		stats := make(map[model.Market]float64, len(e.Stats))
		for k, v := range e.Stats {
			if m, ok := resolve.MarketKey(k); ok {
				stats[m] = v
			}
		}
		out[e.PlayerID] = model.LiveSnapshot{
			GameID:     e.GameID,
			PlayerID:   e.PlayerID,
			Period:     period(e.Period),
			Clock:      e.Clock,
			GameStatus: gameStatus(e.GameStatus),
			Stats:      stats,
		}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("feed: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed: request %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s returned %d", ErrBadStatus, u, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// period renders the wire period, which some feeds send as a number
// ("period": 2) and others as a label ("period": "Q2").
func period(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.Itoa(int(t))
	default:
		return fmt.Sprint(t)
	}
}

// gameStatus maps the wire status onto the canonical vocabulary. Anything
// unrecognized stays unknown ("") so reconciliation falls back to the leg's
// previous state rather than regressing a finalized game to live.
func gameStatus(raw string) model.GameStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "final", "closed", "complete", "completed":
		return model.GameFinal
	case "pregame", "scheduled", "upcoming":
		return model.GamePregame
	case "live", "in_progress", "inprogress", "halftime":
		return model.GameLive
	default:
		return ""
	}
}
