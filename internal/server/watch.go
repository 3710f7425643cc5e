package server

import (
	"sync"

	"adpilot/internal/chat"
)

// Hub fans turn outcomes out to websocket watchers, keyed by session.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan chat.Outcome]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: map[string]map[chan chat.Outcome]struct{}{}}
}

// Publish delivers an outcome to every watcher of the session.
// Slow watchers drop events instead of blocking the turn.
func (h *Hub) Publish(sessionID string, o chat.Outcome) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[sessionID] {
		select {
		case ch <- o:
		default:
		}
	}
}

// Subscribe registers a watcher. The caller must Unsubscribe.
func (h *Hub) Subscribe(sessionID string) chan chat.Outcome {
	ch := make(chan chat.Outcome, 8)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = map[chan chat.Outcome]struct{}{}
	}
	h.subs[sessionID][ch] = struct{}{}
	return ch
}

func (h *Hub) Unsubscribe(sessionID string, ch chan chat.Outcome) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[sessionID]; ok {
		delete(set, ch)
		if len(set) == 0 {
			delete(h.subs, sessionID)
		}
	}
	close(ch)
}
