package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestTracker_NewerCancelsOlder(t *testing.T) {
	tr := newRequestTracker(context.Background())

	ctx1, ok := tr.begin(1)
	require.True(t, ok)
	assert.True(t, tr.isCurrent(1))

	ctx2, ok := tr.begin(2)
	require.True(t, ok)
	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
	assert.NoError(t, ctx2.Err())
	assert.False(t, tr.isCurrent(1))
	assert.True(t, tr.isCurrent(2))

	_, ok = tr.begin(1)
	assert.False(t, ok, "an older id is ignored")
	assert.NoError(t, ctx2.Err())

	tr.stop()
	assert.ErrorIs(t, ctx2.Err(), context.Canceled)
	assert.False(t, tr.isCurrent(2))
}

func TestRequestTracker_RepeatedIDIgnored(t *testing.T) {
	tr := newRequestTracker(context.Background())

	ctx0, ok := tr.begin(0)
	require.True(t, ok, "the first request may carry id 0")

	_, ok = tr.begin(0)
	assert.False(t, ok)
	assert.NoError(t, ctx0.Err(), "a repeated id does not restart the request")

	tr.stop()
	_, ok = tr.begin(0)
	assert.False(t, ok, "stopping does not reopen older ids")
}

func TestRequestTracker_DeliverOnlyCurrent(t *testing.T) {
	tr := newRequestTracker(context.Background())
	_, ok := tr.begin(1)
	require.True(t, ok)

	var sends int
	send := func() bool { sends++; return true }

	current, sent := tr.deliver(1, send)
	assert.True(t, current)
	assert.True(t, sent)

	_, ok = tr.begin(2)
	require.True(t, ok)
	current, sent = tr.deliver(1, send)
	assert.False(t, current)
	assert.False(t, sent)
	assert.Equal(t, 1, sends, "a superseded result is never queued")

	current, sent = tr.deliver(2, func() bool { return false })
	assert.True(t, current)
	assert.False(t, sent)
}

type liveServer struct {
	hub    *Hub
	url    string
	cancel context.CancelFunc
}

func startLiveServer(t *testing.T, fetch FetchFunc) *liveServer {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, "acc-1", fetch)
	}))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return &liveServer{hub: hub, url: "ws" + strings.TrimPrefix(srv.URL, "http"), cancel: cancel}
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn, within time.Duration) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(within)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientsCount() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestLiveReport_SupersededResultIsDropped(t *testing.T) {
	var calls int32
	started := make(chan struct{})
	fetch := func(ctx context.Context) (interface{}, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-ctx.Done()
			// A slow fetch that ignores cancellation still delivers its value late.
			return map[string]string{"report": "stale"}, nil
		}
		return map[string]string{"report": "fresh"}, nil
	}
	ls := startLiveServer(t, fetch)
	conn := dial(t, ls.url)

	require.NoError(t, conn.WriteJSON(Message{Type: TypeReportRequest, RequestID: 1}))
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first fetch never started")
	}
	require.NoError(t, conn.WriteJSON(Message{Type: TypeReportRequest, RequestID: 2}))

	msg := readMessage(t, conn, 2*time.Second)
	assert.Equal(t, TypeReportResult, msg.Type)
	assert.Equal(t, uint64(2), msg.RequestID)
	assert.Equal(t, map[string]interface{}{"report": "fresh"}, msg.Data)

	// Nothing else arrives for request 1.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestLiveReport_RepeatedRequestIDAnsweredOnce(t *testing.T) {
	var calls int32
	ls := startLiveServer(t, func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return map[string]string{"report": "ok"}, nil
	})
	conn := dial(t, ls.url)

	require.NoError(t, conn.WriteJSON(Message{Type: TypeReportRequest, RequestID: 3}))
	msg := readMessage(t, conn, 2*time.Second)
	assert.Equal(t, uint64(3), msg.RequestID)

	require.NoError(t, conn.WriteJSON(Message{Type: TypeReportRequest, RequestID: 3}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLiveReport_FetchError(t *testing.T) {
	ls := startLiveServer(t, func(ctx context.Context) (interface{}, error) {
		return nil, assert.AnError
	})
	conn := dial(t, ls.url)

	require.NoError(t, conn.WriteJSON(Message{Type: TypeReportRequest, RequestID: 7}))
	msg := readMessage(t, conn, 2*time.Second)
	assert.Equal(t, TypeReportError, msg.Type)
	assert.Equal(t, uint64(7), msg.RequestID)
	assert.NotEmpty(t, msg.Error)
	assert.NotContains(t, msg.Error, assert.AnError.Error())
}

func TestHub_PublishReachesEveryClient(t *testing.T) {
	ls := startLiveServer(t, func(ctx context.Context) (interface{}, error) { return nil, nil })
	a := dial(t, ls.url)
	b := dial(t, ls.url)
	waitForClients(t, ls.hub, 2)

	ls.hub.Publish("prestasi", "created")

	for _, conn := range []*websocket.Conn{a, b} {
		msg := readMessage(t, conn, 2*time.Second)
		assert.Equal(t, TypeDataChanged, msg.Type)
		assert.Equal(t, "prestasi", msg.Entity)
		assert.Equal(t, "created", msg.Action)
	}
}

func TestHub_UnregistersClosedClients(t *testing.T) {
	ls := startLiveServer(t, func(ctx context.Context) (interface{}, error) { return nil, nil })
	conn := dial(t, ls.url)
	waitForClients(t, ls.hub, 1)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()
	waitForClients(t, ls.hub, 0)
}

func TestHub_PublishWithoutRunDoesNotBlock(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish("siswa", "updated")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked")
	}
}

func TestMessage_DataChangedShape(t *testing.T) {
	b, err := json.Marshal(Message{Type: TypeDataChanged, Entity: "guru", Action: "deleted"})
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "data.changed", raw["type"])
	assert.Equal(t, "guru", raw["entity"])
	assert.NotContains(t, raw, "requestId")
}
