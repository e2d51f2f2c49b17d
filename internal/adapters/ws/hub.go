// Package ws implements the event broadcaster over WebSocket
// connections. Delivery is at-most-once per subscriber; reconnecting
// clients resync through the snapshot API.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openseminar/server/internal/core"
	"github.com/openseminar/server/internal/domain"
)

// Hub fans room events out to subscribers. It implements
// core.Publisher. Publish never blocks: a subscriber whose buffer is
// full is dropped rather than allowed to stall the room.
type Hub struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]map[*subscriber]struct{}

	buffer       int
	writeTimeout time.Duration
}

func NewHub(buffer int, writeTimeout time.Duration) *Hub {
	if buffer <= 0 {
		buffer = 32
	}
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &Hub{
		rooms:        make(map[domain.RoomID]map[*subscriber]struct{}),
		buffer:       buffer,
		writeTimeout: writeTimeout,
	}
}

// Subscribe attaches conn to the room's event channel and starts its
// write pump. The returned cancel detaches and closes the connection.
func (h *Hub) Subscribe(ctx context.Context, roomID domain.RoomID, conn Conn) (cancel func()) {
	sub := newSubscriber(conn, h.buffer, h.writeTimeout)

	h.mu.Lock()
	set, ok := h.rooms[roomID]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.rooms[roomID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	ctx, stop := context.WithCancel(ctx)
	go sub.writePump(ctx)
	log.Info().Str("module", "adapters.ws").Str("room", string(roomID)).Msg("subscriber attached")

	return func() {
		stop()
		h.detach(roomID, sub)
	}
}

func (h *Hub) detach(roomID domain.RoomID, sub *subscriber) {
	h.mu.Lock()
	if set, ok := h.rooms[roomID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.rooms, roomID)
		}
	}
	h.mu.Unlock()
	sub.close()
}

// Publish delivers ev to every current subscriber of the room.
func (h *Hub) Publish(roomID domain.RoomID, ev core.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Str("type", ev.Type).Msg("event marshal failed")
		return
	}

	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.rooms[roomID]))
	for sub := range h.rooms[roomID] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	var slow []*subscriber
	for _, sub := range subs {
		if err := sub.trySend(data); err != nil {
			slow = append(slow, sub)
		}
	}
	for _, sub := range slow {
		h.detach(roomID, sub)
		log.Warn().Str("module", "adapters.ws").Str("room", string(roomID)).
			Str("type", ev.Type).Msg("dropped slow subscriber")
	}
}

// SubscriberCount is a read-only view for diagnostics and tests.
func (h *Hub) SubscriberCount(roomID domain.RoomID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
