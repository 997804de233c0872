package console

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// ConversationEvent notifies listeners that a conversation changed and the
// open pane should refresh.
type ConversationEvent struct {
	Tenant         string `json:"tenant"`
	ConversationID int64  `json:"conversation_id"`
	Reason         string `json:"reason"`
}

// RefreshHook receives conversation change events. The broadcast
// implementation below fans them out to websocket and SSE clients.
type RefreshHook interface {
	ConversationUpdated(ctx context.Context, event ConversationEvent) error
}

type noopRefreshHook struct{}

func (noopRefreshHook) ConversationUpdated(context.Context, ConversationEvent) error {
	return nil
}

// BroadcastHook fans out conversation events to in-process subscribers.
type BroadcastHook struct {
	mu    sync.RWMutex
	subs  map[int]chan ConversationEvent
	next  int
	close chan struct{}
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{
		subs:  make(map[int]chan ConversationEvent),
		close: make(chan struct{}),
	}
}

// ConversationUpdated satisfies the RefreshHook interface and broadcasts
// events. Slow subscribers drop events rather than block the publisher.
func (h *BroadcastHook) ConversationUpdated(ctx context.Context, event ConversationEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel of conversation events and a cancel func.
func (h *BroadcastHook) Subscribe() (<-chan ConversationEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan ConversationEvent, 8)
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams conversation events as
// JSON.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer conn.Close()

	events, cancel := h.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// ServeSSE provides a Server-Sent Events endpoint for refresh events.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := h.Subscribe()
	defer cancel()

	encoder := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			w.Write([]byte("data: "))
			if err := encoder.Encode(event); err != nil {
				return
			}
			w.Write([]byte("\n"))
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
