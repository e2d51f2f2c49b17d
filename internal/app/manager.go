package app

import (
	"sync"

	"github.com/openseminar/server/internal/core"
	"github.com/openseminar/server/internal/domain"
)

// SessionManager owns the live sessions. Each room is its own unit of
// mutual exclusion; the manager only guards the lookup maps.
type SessionManager struct {
	mu        sync.RWMutex
	rooms     map[domain.RoomID]*core.Session
	bySession map[domain.SessionID]domain.RoomID
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		rooms:     make(map[domain.RoomID]*core.Session),
		bySession: make(map[domain.SessionID]domain.RoomID),
	}
}

// Create registers a session for the room, enforcing at most one room
// per parent session.
func (m *SessionManager) Create(room domain.Room, pub core.Publisher, saver core.Saver) (*core.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bySession[room.SessionID]; ok {
		return nil, domain.ErrConflict("a room for session %s already exists", room.SessionID)
	}
	s := core.NewSession(room, pub, saver)
	m.rooms[room.ID] = s
	m.bySession[room.SessionID] = room.ID
	return s, nil
}

func (m *SessionManager) Get(id domain.RoomID) (*core.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.rooms[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound("room %s not found", id)
}

func (m *SessionManager) List() []core.RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(m.rooms))
	for _, s := range m.rooms {
		out = append(out, s.Info())
	}
	return out
}

// All returns the live sessions; the reaper walks this.
func (m *SessionManager) All() []*core.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*core.Session, 0, len(m.rooms))
	for _, s := range m.rooms {
		out = append(out, s)
	}
	return out
}

// Remove drops an ended session from the live set. The room's rows
// survive in the repository; only the in-memory unit goes away.
func (m *SessionManager) Remove(id domain.RoomID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.rooms[id]; ok {
		delete(m.bySession, s.Room().SessionID)
		delete(m.rooms, id)
	}
}
