package core

import (
	"time"

	"github.com/openseminar/server/internal/domain"
)

// Speaking-queue operations. Position assignment runs under the room
// lock, so concurrent enqueues can never produce duplicate positions.

func (s *Session) Enqueue(userID domain.UserID, topic string) (domain.SpeakingQueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.active[userID]
	if !ok {
		return domain.SpeakingQueueEntry{}, domain.ErrNotFound("user %s is not in the room", userID)
	}
	if p.Status != domain.ParticipantJoined {
		return domain.SpeakingQueueEntry{}, domain.ErrInvalidState("participant is %s, not JOINED", p.Status)
	}
	for _, e := range s.queue {
		if e.UserID == userID && e.Status != domain.SpeakingDone {
			return domain.SpeakingQueueEntry{}, domain.ErrConflict("user %s is already queued", userID)
		}
	}
	e := domain.NewSpeakingQueueEntry(s.room.ID, userID, p.DisplayName, s.nextPos, topic)
	s.nextPos++
	s.queue = append(s.queue, &e)
	s.saver.SaveQueueEntry(e)
	s.publishLocked(NewEvent(EvSpeakingQueueUpdate, s.room.ID, e))
	return e, nil
}

// Dequeue removes an entry without renumbering the rest; ordering
// survives the gap. Caller must be the host or the entry owner.
func (s *Session) Dequeue(caller domain.UserID, entryID domain.EntryID) (domain.SpeakingQueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entryLocked(entryID)
	if e == nil {
		return domain.SpeakingQueueEntry{}, domain.ErrNotFound("queue entry %s not found", entryID)
	}
	if caller != s.room.HostID && caller != e.UserID {
		return domain.SpeakingQueueEntry{}, domain.ErrPermissionDenied("only the host or the entry owner may dequeue")
	}
	now := time.Now().UTC()
	e.Status = domain.SpeakingDone
	e.DoneAt = &now
	s.saver.SaveQueueEntry(*e)
	s.publishLocked(NewEvent(EvSpeakingQueueUpdate, s.room.ID, *e))
	return *e, nil
}

// GrantTurn is advisory: it notifies, it does not revoke earlier
// grants and holds no exclusivity lock.
func (s *Session) GrantTurn(caller domain.UserID, entryID domain.EntryID) (domain.SpeakingQueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hostOnlyLocked(caller); err != nil {
		return domain.SpeakingQueueEntry{}, err
	}
	e := s.entryLocked(entryID)
	if e == nil {
		return domain.SpeakingQueueEntry{}, domain.ErrNotFound("queue entry %s not found", entryID)
	}
	if e.Status != domain.SpeakingWaiting {
		return domain.SpeakingQueueEntry{}, domain.ErrInvalidState("entry is %s, not WAITING", e.Status)
	}
	now := time.Now().UTC()
	e.Status = domain.SpeakingGranted
	e.GrantedAt = &now
	s.saver.SaveQueueEntry(*e)
	s.publishLocked(NewEvent(EvSpeakingQueueUpdate, s.room.ID, *e))
	return *e, nil
}

func (s *Session) CompleteTurn(caller domain.UserID, entryID domain.EntryID) (domain.SpeakingQueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entryLocked(entryID)
	if e == nil {
		return domain.SpeakingQueueEntry{}, domain.ErrNotFound("queue entry %s not found", entryID)
	}
	if caller != s.room.HostID && caller != e.UserID {
		return domain.SpeakingQueueEntry{}, domain.ErrPermissionDenied("only the host or the speaker may complete a turn")
	}
	if e.Status != domain.SpeakingGranted {
		return domain.SpeakingQueueEntry{}, domain.ErrInvalidState("entry is %s, not GRANTED", e.Status)
	}
	now := time.Now().UTC()
	e.Status = domain.SpeakingDone
	e.DoneAt = &now
	s.saver.SaveQueueEntry(*e)
	s.publishLocked(NewEvent(EvSpeakingQueueUpdate, s.room.ID, *e))
	return *e, nil
}

// Queue returns WAITING entries in position order.
func (s *Session) Queue() []domain.SpeakingQueueEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queueLocked()
}

func (s *Session) queueLocked() []domain.SpeakingQueueEntry {
	out := make([]domain.SpeakingQueueEntry, 0, len(s.queue))
	for _, e := range s.queue {
		if e.Status == domain.SpeakingWaiting {
			out = append(out, *e)
		}
	}
	return out
}

func (s *Session) entryLocked(id domain.EntryID) *domain.SpeakingQueueEntry {
	for _, e := range s.queue {
		if e.ID == id {
			return e
		}
	}
	return nil
}
