// Package memory is the map-backed Repository used by tests and
// standalone runs. The durable collaborator plugs in behind the same
// interface.
package memory

import (
	"context"
	"sync"

	"github.com/openseminar/server/internal/domain"
)

type Repository struct {
	mu        sync.RWMutex
	rooms     map[domain.RoomID]domain.Room
	bySession map[domain.SessionID]domain.RoomID
	parts     map[domain.ParticipantID]domain.Participant
	breakouts map[domain.BreakoutID]domain.BreakoutRoom
	entries   map[domain.EntryID]domain.SpeakingQueueEntry
}

func NewRepository() *Repository {
	return &Repository{
		rooms:     make(map[domain.RoomID]domain.Room),
		bySession: make(map[domain.SessionID]domain.RoomID),
		parts:     make(map[domain.ParticipantID]domain.Participant),
		breakouts: make(map[domain.BreakoutID]domain.BreakoutRoom),
		entries:   make(map[domain.EntryID]domain.SpeakingQueueEntry),
	}
}

func (r *Repository) SaveRoom(_ context.Context, room domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[room.ID] = room
	r.bySession[room.SessionID] = room.ID
	return nil
}

func (r *Repository) FindRoom(_ context.Context, id domain.RoomID) (domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if room, ok := r.rooms[id]; ok {
		return room, nil
	}
	return domain.Room{}, domain.ErrNotFound("room %s not found", id)
}

func (r *Repository) FindRoomBySession(_ context.Context, id domain.SessionID) (domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if roomID, ok := r.bySession[id]; ok {
		return r.rooms[roomID], nil
	}
	return domain.Room{}, domain.ErrNotFound("no room for session %s", id)
}

func (r *Repository) SaveParticipant(_ context.Context, p domain.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parts[p.ID] = p
	return nil
}

func (r *Repository) FindParticipantsByRoom(_ context.Context, roomID domain.RoomID) ([]domain.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Participant
	for _, p := range r.parts {
		if p.RoomID == roomID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Repository) SaveBreakout(_ context.Context, b domain.BreakoutRoom) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.breakouts[b.ID] = b
	return nil
}

func (r *Repository) FindBreakoutsByRoom(_ context.Context, roomID domain.RoomID) ([]domain.BreakoutRoom, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.BreakoutRoom
	for _, b := range r.breakouts {
		if b.ParentID == roomID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *Repository) SaveQueueEntry(_ context.Context, e domain.SpeakingQueueEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.ID] = e
	return nil
}

func (r *Repository) FindQueueEntriesByRoom(_ context.Context, roomID domain.RoomID) ([]domain.SpeakingQueueEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.SpeakingQueueEntry
	for _, e := range r.entries {
		if e.RoomID == roomID {
			out = append(out, e)
		}
	}
	return out, nil
}
