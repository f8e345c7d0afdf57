// Package realtime pushes storefront events to connected websocket clients.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mohibbulwara/orjon/events"
	zlog "github.com/rs/zerolog/log"
)

const sendBuffer = 32

type client struct {
	userID string
	send   chan []byte
}

// Hub tracks websocket clients per user. It implements events.Publisher so
// it can sit directly behind the services or behind the Redis bridge.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*client]struct{})}
}

func (h *Hub) register(userID string) *client {
	c := &client{userID: userID, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[userID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[userID] = set
	}
	set[c] = struct{}{}
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; ok {
		delete(set, c)
		close(c.send)
	}
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
}

// Connections returns the number of live connections for userID.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Publish delivers evt to every connection of every recipient. Slow clients
// whose buffer is full miss the event rather than blocking the caller.
func (h *Hub) Publish(_ context.Context, evt events.Event) error {
	if len(evt.Recipients) == 0 {
		return nil
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, uid := range evt.Recipients {
		for c := range h.clients[uid] {
			select {
			case c.send <- payload:
			default:
				zlog.Warn().Str("user_id", uid).Str("kind", string(evt.Kind)).Msg("websocket client too slow, event dropped")
			}
		}
	}
	return nil
}
