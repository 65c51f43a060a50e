package remote

import (
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/coder/websocket"
)

const (
	streamBuffer = 32
	writeTimeout = 5 * time.Second
)

// handleEvents streams timer events to one websocket client. The first frame
// is the current snapshot; events that overflow the buffer are dropped.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket accept failed", "err", err)
		return
	}
	defer func() {
		_ = conn.CloseNow()
	}()

	events := h.controller.Subscribe(streamBuffer)
	defer h.controller.Unsubscribe(events)

	// Clients only listen; CloseRead handles pings and reports disconnects.
	ctx := conn.CloseRead(r.Context())
	h.logger.Debug("event stream opened", "remote", r.RemoteAddr)

	if err := h.writeFrame(ctx, conn, newSnapshotMessage(h.controller.Snapshot(), time.Now())); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("event stream closed", "remote", r.RemoteAddr)
			return
		case event, ok := <-events:
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "timer closed")
				return
			}
			if err := h.writeFrame(ctx, conn, newEventMessage(event)); err != nil {
				h.logger.Debug("event stream write failed", "err", err)
				return
			}
		}
	}
}

func (h *Handler) writeFrame(ctx context.Context, conn *websocket.Conn, message EventMessage) error {
	data, err := sonic.Marshal(message)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, data)
}
