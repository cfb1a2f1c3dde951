package server

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/pkarls/schackbord/pkg/boarddto"
)

const broadcastTimeout = 5 * time.Second

type subscriber struct {
	conn *websocket.Conn
}

// hub fans session events out to websocket subscribers, keyed by session id.
type hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscriber]struct{}
	logger *zap.Logger
}

func newHub(logger *zap.Logger) *hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &hub{subs: make(map[string]map[*subscriber]struct{}), logger: logger}
}

func (h *hub) subscribe(sessionID string, conn *websocket.Conn) *subscriber {
	sub := &subscriber{conn: conn}
	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[*subscriber]struct{})
	}
	h.subs[sessionID][sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *hub) unsubscribe(sessionID string, sub *subscriber) {
	h.mu.Lock()
	if set, ok := h.subs[sessionID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sessionID)
		}
	}
	h.mu.Unlock()
	_ = sub.conn.Close(websocket.StatusNormalClosure, "")
}

// broadcast writes the event to every subscriber of the session. A slow or
// dead peer is dropped rather than stalling the others.
func (h *hub) broadcast(sessionID string, ev boarddto.Event) {
	h.mu.RLock()
	targets := make([]*subscriber, 0, len(h.subs[sessionID]))
	for sub := range h.subs[sessionID] {
		targets = append(targets, sub)
	}
	h.mu.RUnlock()

	for _, sub := range targets {
		ctx, cancel := context.WithTimeout(context.Background(), broadcastTimeout)
		err := wsjson.Write(ctx, sub.conn, ev)
		cancel()
		if err != nil {
			h.logger.Debug("dropping websocket subscriber", zap.String("session_id", sessionID), zap.Error(err))
			h.unsubscribe(sessionID, sub)
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	for id, set := range h.subs {
		for sub := range set {
			_ = sub.conn.Close(websocket.StatusGoingAway, "server shutting down")
		}
		delete(h.subs, id)
	}
	h.mu.Unlock()
}
