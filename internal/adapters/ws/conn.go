package ws

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var ErrBackpressure = errors.New("backpressure")

// Conn is an indirection over *websocket.Conn to ease testing.
type Conn interface {
	WriteMessage(mt int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// subscriber is one client connection on a room's event channel.
// The hub owns it; the write pump drains the buffered send channel so
// a room publishing under its lock never blocks on the network.
type subscriber struct {
	conn Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool

	writeTimeout time.Duration
}

func newSubscriber(conn Conn, buffer int, writeTimeout time.Duration) *subscriber {
	return &subscriber{
		conn:         conn,
		send:         make(chan []byte, buffer),
		writeTimeout: writeTimeout,
	}
}

// trySend and close race: a publish can hit a subscriber that a
// concurrent cancel is detaching, so the closed flag is checked under
// the same mutex that orders the channel close.
func (s *subscriber) trySend(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrBackpressure
	}
	select {
	case s.send <- data:
		return nil
	default:
		return ErrBackpressure
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	close(s.send)
	_ = s.conn.Close()
}

// writePump pumps events to the network until the channel closes or
// the context ends. It owns the transport resource and closes it.
func (s *subscriber) writePump(ctx context.Context) {
	defer s.close()
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-s.send:
			if !ok {
				return
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
