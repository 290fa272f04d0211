// Package relay implements the retrieval collaborator: a websocket client
// that executes serialized predicate queries against a remote record store.
//
// The wire protocol is framed JSON arrays: the client sends
// ["REQ", subID, filter] and ["CLOSE", subID]; the relay answers with
// ["EVENT", subID, record] frames followed by ["EOSE", subID] once the stored
// results are exhausted. Each request runs under its own subscription id, so
// concurrent fetches over one connection do not block each other.
package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Silberengel/wikistr-sub007/core/cache"
	"github.com/Silberengel/wikistr-sub007/core/citation"
	"github.com/Silberengel/wikistr-sub007/core/errors"
	"github.com/Silberengel/wikistr-sub007/core/query"
	"github.com/Silberengel/wikistr-sub007/core/record"
	"github.com/Silberengel/wikistr-sub007/internal/logging"
)

const (
	defaultLimit    = 500
	defaultTimeout  = 15 * time.Second
	subscribeBuffer = 64

	// defaultIndexKind is the record kind addressing index records.
	defaultIndexKind = 30040

	maxMessageSize = 1 << 20
)

// filter is the query payload of a REQ frame. The search string is the
// serialized predicate, consumed opaquely by the relay's indexing subsystem.
type filter struct {
	Search string `json:"search"`
	Kinds  []int  `json:"kinds,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// inbound is one routed frame for a subscription.
type inbound struct {
	eose bool
	rec  record.Record
}

// Client is a relay connection. It implements resolve.Fetcher.
type Client struct {
	url    string
	conn   *websocket.Conn
	logger *slog.Logger

	writeMu sync.Mutex

	subsMu sync.Mutex
	subs   map[string]chan inbound

	cache     cache.Cache[string, []record.Record]
	limit     int
	timeout   time.Duration
	indexKind int

	done    chan struct{}
	readErr error
}

// Option configures a Client.
type Option func(*Client)

// WithLimit caps the number of records requested per query.
func WithLimit(n int) Option {
	return func(c *Client) { c.limit = n }
}

// WithTimeout bounds how long one fetch waits for its EOSE.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithCacheSize sets the size of the per-connection query memoization cache.
// Zero disables memoization.
func WithCacheSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.cache = cache.NewLRU[string, []record.Record](cache.Config{MaxSize: n})
		} else {
			c.cache = nil
		}
	}
}

// WithIndexKind overrides the record kind used to address index records.
func WithIndexKind(kind int) Option {
	return func(c *Client) { c.indexKind = kind }
}

// Dial connects to a relay endpoint and starts the read loop.
func Dial(ctx context.Context, url string, opts ...Option) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.NewRelay(url, "dial", err)
	}
	conn.SetReadLimit(maxMessageSize)

	c := &Client{
		url:       url,
		conn:      conn,
		logger:    logging.Component("relay"),
		subs:      make(map[string]chan inbound),
		cache:     cache.NewLRU[string, []record.Record](cache.DefaultConfig()),
		limit:     defaultLimit,
		timeout:   defaultTimeout,
		indexKind: defaultIndexKind,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.readLoop()
	return c, nil
}

// Close closes the connection. In-flight fetches fail with the read error.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	return c.conn.Close()
}

// Fetch executes one serialized predicate query and returns the candidate
// records the relay served for it, memoized per connection.
func (c *Client) Fetch(ctx context.Context, q string) ([]record.Record, error) {
	if c.cache != nil {
		if recs, ok := c.cache.Get(q); ok {
			return recs, nil
		}
	}
	recs, err := c.request(ctx, filter{Search: q, Limit: c.limit})
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Put(q, recs)
	}
	return recs, nil
}

// FetchIndex locates the index record governing the order of a reference's
// records within a version: the first index-kind record answering the
// reference's base query that actually declares child pointers.
func (c *Client) FetchIndex(ctx context.Context, ref citation.Reference, version string) (*record.Record, error) {
	p := query.Build(ref, version)
	recs, err := c.request(ctx, filter{
		Search: p.BaseQuery(),
		Kinds:  []int{c.indexKind},
		Limit:  c.limit,
	})
	if err != nil {
		return nil, err
	}
	for i := range recs {
		if len(recs[i].Values(record.TagIDPointer)) > 0 ||
			len(recs[i].Values(record.TagCoordPointer)) > 0 {
			return &recs[i], nil
		}
	}
	return nil, errors.NewNotFound("index", p.BaseQuery())
}

// request runs one subscription round trip: REQ, EVENT*, EOSE, CLOSE.
func (c *Client) request(ctx context.Context, f filter) ([]record.Record, error) {
	sub := uuid.New().String()
	ch := make(chan inbound, subscribeBuffer)

	c.subsMu.Lock()
	c.subs[sub] = ch
	c.subsMu.Unlock()
	defer func() {
		c.subsMu.Lock()
		delete(c.subs, sub)
		c.subsMu.Unlock()
		_ = c.write([]any{"CLOSE", sub})
	}()

	if err := c.write([]any{"REQ", sub, f}); err != nil {
		return nil, errors.NewRelay(c.url, "subscribe", err)
	}

	timeout := time.NewTimer(c.timeout)
	defer timeout.Stop()

	var recs []record.Record
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timeout.C:
			return nil, errors.NewRelay(c.url, "fetch", context.DeadlineExceeded)
		case <-c.done:
			return nil, errors.NewRelay(c.url, "fetch", c.readErr)
		case in := <-ch:
			if in.eose {
				return recs, nil
			}
			recs = append(recs, in.rec)
		}
	}
}

func (c *Client) write(msg []any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// readLoop routes incoming frames to their subscriptions until the
// connection dies.
func (c *Client) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.readErr = err
			close(c.done)
			return
		}
		c.route(data)
	}
}

func (c *Client) route(data []byte) {
	var frame []json.RawMessage
	if err := json.Unmarshal(data, &frame); err != nil || len(frame) < 2 {
		c.logger.Debug("discarding unparsable frame", "error", err)
		return
	}
	var kind, sub string
	if json.Unmarshal(frame[0], &kind) != nil || json.Unmarshal(frame[1], &sub) != nil {
		return
	}

	switch kind {
	case "EVENT":
		if len(frame) < 3 {
			return
		}
		var rec record.Record
		if err := json.Unmarshal(frame[2], &rec); err != nil {
			c.logger.Debug("discarding unparsable record", "sub", sub, "error", err)
			return
		}
		c.deliver(sub, inbound{rec: rec})
	case "EOSE":
		c.deliver(sub, inbound{eose: true})
	case "NOTICE":
		c.logger.Warn("relay notice", "payload", string(data))
	}
}

func (c *Client) deliver(sub string, in inbound) {
	c.subsMu.Lock()
	ch, ok := c.subs[sub]
	c.subsMu.Unlock()
	if !ok {
		return
	}
	select {
	case ch <- in:
	default:
		c.logger.Warn("subscription buffer full, dropping frame", "sub", sub)
	}
}
