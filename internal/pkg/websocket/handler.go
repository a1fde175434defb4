package websocket

import (
	"context"
	"errors"
	"net/http"
)

// ErrHubStopped is returned by Serve after the hub's Run has returned.
var ErrHubStopped = errors.New("websocket hub stopped")

// Serve upgrades the request to a websocket and registers the connection with the hub.
// fetch is called for every report.request the connection sends. The caller has already
// authenticated the request; accountID is only used for logging.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, accountID string, fetch FetchFunc) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("accountID", accountID).Msg("Failed to upgrade connection to WebSocket")
		return err
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		accountID: accountID,
		fetch:     fetch,
		// Requests outlive the HTTP handler; they end with the connection.
		requests: newRequestTracker(context.Background()),
		logger:   h.logger,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return ErrHubStopped
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("accountID", accountID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
	return nil
}
