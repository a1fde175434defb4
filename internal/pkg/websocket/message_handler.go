package websocket

import (
	"context"
	"encoding/json"
	"sync"
)

// requestTracker keeps at most one report request in flight per connection.
// Beginning a request cancels the previous one; only the latest may deliver a result.
type requestTracker struct {
	mu      sync.Mutex
	parent  context.Context
	started bool
	current uint64
	cancel  context.CancelFunc
}

func newRequestTracker(parent context.Context) *requestTracker {
	return &requestTracker{parent: parent}
}

// begin starts request id and cancels the one in flight. Once a request has started,
// ids not newer than the current one are ignored and begin returns false.
func (t *requestTracker) begin(id uint64) (context.Context, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started && id <= t.current {
		return nil, false
	}
	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(t.parent)
	t.started, t.current, t.cancel = true, id, cancel
	return ctx, true
}

// isCurrent reports whether id is still the latest request.
func (t *requestTracker) isCurrent(id uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isCurrentLocked(id)
}

func (t *requestTracker) isCurrentLocked(id uint64) bool {
	return t.started && id == t.current && t.cancel != nil
}

// deliver calls send only while id is the latest request. The lock is held across
// the check and send so a request begun meanwhile cannot be overtaken by an older result.
func (t *requestTracker) deliver(id uint64, send func() bool) (current, sent bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.isCurrentLocked(id) {
		return false, false
	}
	return true, send()
}

// stop cancels the request in flight. No later result is current.
func (t *requestTracker) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// handleMessage dispatches one client message
func (c *Client) handleMessage(msg *Message) {
	switch msg.Type {
	case TypeReportRequest:
		ctx, ok := c.requests.begin(msg.RequestID)
		if !ok {
			c.logger.Debug().Uint64("requestID", msg.RequestID).Msg("Ignored stale report request")
			return
		}
		go c.runReport(ctx, msg.RequestID)
	default:
		c.logger.Debug().Str("type", msg.Type).Str("accountID", c.accountID).Msg("Ignored unknown message type")
	}
}

// runReport fetches the report and replies unless a newer request superseded it
func (c *Client) runReport(ctx context.Context, requestID uint64) {
	data, err := c.fetch(ctx)
	if !c.requests.isCurrent(requestID) {
		c.logger.Debug().Uint64("requestID", requestID).Msg("Discarded superseded report result")
		return
	}

	reply := Message{Type: TypeReportResult, RequestID: requestID, Data: data, Timestamp: c.hub.now()}
	if err != nil {
		c.logger.Error().Err(err).Uint64("requestID", requestID).Str("accountID", c.accountID).Msg("Live report failed")
		reply = Message{Type: TypeReportError, RequestID: requestID, Error: "Gagal memuat laporan", Timestamp: c.hub.now()}
	}

	encoded, err := json.Marshal(reply)
	if err != nil {
		c.logger.Error().Err(err).Uint64("requestID", requestID).Msg("Failed to marshal report result")
		return
	}
	current, sent := c.requests.deliver(requestID, func() bool { return c.queue(encoded) })
	switch {
	case !current:
		c.logger.Debug().Uint64("requestID", requestID).Msg("Discarded superseded report result")
	case !sent:
		c.logger.Warn().Uint64("requestID", requestID).Msg("Report result not delivered")
	}
}
