package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openseminar/server/internal/domain"
)

// BreakoutSpec describes one breakout room to create.
type BreakoutSpec struct {
	Name            string
	Topic           string
	Capacity        int
	DurationMinutes int
}

func (s *Session) CreateBreakouts(caller domain.UserID, specs []BreakoutSpec) ([]domain.BreakoutRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hostOnlyLocked(caller); err != nil {
		return nil, err
	}
	if s.room.Status != domain.RoomLive {
		return nil, domain.ErrInvalidState("room is %s, not LIVE", s.room.Status)
	}
	created := make([]domain.BreakoutRoom, 0, len(specs))
	for _, spec := range specs {
		s.nextBreakout++
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("Breakout %d", s.nextBreakout)
		}
		b := domain.NewBreakoutRoom(s.room.ID, s.nextBreakout, name, spec.Topic)
		b.Capacity = spec.Capacity
		b.DurationMinutes = spec.DurationMinutes
		s.breakouts[b.ID] = &b
		s.breakoutOrder = append(s.breakoutOrder, b.ID)
		s.saver.SaveBreakout(b)
		created = append(created, b)
	}
	s.publishLocked(NewEvent(EvBreakoutsCreated, s.room.ID, created))
	log.Info().Str("module", "core.session").Str("room", string(s.room.ID)).
		Int("count", len(created)).Msg("breakout rooms created")
	return created, nil
}

// Assignment is a keyed request item for the bulk assign operation.
type Assignment struct {
	UserID     domain.UserID
	BreakoutID domain.BreakoutID
}

// Assign places participants into breakout rooms. The batch is
// best-effort: each item succeeds or fails on its own and valid items
// are never rolled back. Moving a user between breakouts is atomic,
// the user is never in two at once.
func (s *Session) Assign(caller domain.UserID, assignments []Assignment) ([]AssignmentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hostOnlyLocked(caller); err != nil {
		return nil, err
	}
	results := make([]AssignmentResult, 0, len(assignments))
	changed := make(map[domain.BreakoutID]bool)
	for _, a := range assignments {
		res := AssignmentResult{UserID: a.UserID, BreakoutID: a.BreakoutID}
		if err := s.assignOneLocked(a.UserID, a.BreakoutID, changed); err != nil {
			res.Error = err.Error()
		} else {
			res.OK = true
		}
		results = append(results, res)
	}
	for id := range changed {
		s.publishLocked(NewEvent(EvBreakoutUpdated, s.room.ID, s.breakoutSnapshotLocked(id)))
	}
	return results, nil
}

func (s *Session) assignOneLocked(userID domain.UserID, breakoutID domain.BreakoutID, changed map[domain.BreakoutID]bool) error {
	p, ok := s.active[userID]
	if !ok || p.Status != domain.ParticipantJoined {
		return domain.ErrNotFound("user %s has no active participant in the parent room", userID)
	}
	b, ok := s.breakouts[breakoutID]
	if !ok {
		return domain.ErrNotFound("breakout room %s not found", breakoutID)
	}
	if b.Status == domain.BreakoutClosed {
		return domain.ErrInvalidState("breakout room %s is CLOSED", breakoutID)
	}
	cur, hasCur := s.memberOf[userID]
	if hasCur && cur == breakoutID {
		return nil
	}
	// capacity is checked before touching the old membership, so a
	// rejected move leaves the user exactly where they were
	if b.Capacity > 0 && s.breakoutSizeLocked(breakoutID) >= b.Capacity {
		return domain.ErrCapacityExceeded("breakout room %s is full (%d)", breakoutID, b.Capacity)
	}
	if hasCur {
		delete(s.memberOf, userID)
		changed[cur] = true
	}
	s.memberOf[userID] = breakoutID
	changed[breakoutID] = true
	return nil
}

// AssignAuto distributes unassigned JOINED participants over open
// breakout rooms: RANDOM shuffles, BALANCED fills smallest-first.
func (s *Session) AssignAuto(caller domain.UserID, method domain.AssignmentMethod) ([]AssignmentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hostOnlyLocked(caller); err != nil {
		return nil, err
	}
	var open []domain.BreakoutID
	for _, id := range s.breakoutOrder {
		if s.breakouts[id].Status != domain.BreakoutClosed {
			open = append(open, id)
		}
	}
	if len(open) == 0 {
		return nil, domain.ErrInvalidState("no open breakout rooms to assign into")
	}

	var pending []domain.UserID
	for uid, p := range s.active {
		if p.Status != domain.ParticipantJoined || p.Role == domain.RoleHost {
			continue
		}
		if _, assigned := s.memberOf[uid]; !assigned {
			pending = append(pending, uid)
		}
	}
	sortUserIDs(pending)
	if method == domain.AssignRandom {
		shuffle(len(pending), func(i, j int) { pending[i], pending[j] = pending[j], pending[i] })
	}

	results := make([]AssignmentResult, 0, len(pending))
	changed := make(map[domain.BreakoutID]bool)
	for i, uid := range pending {
		var target domain.BreakoutID
		if method == domain.AssignBalanced {
			target = s.smallestOpenLocked(open)
		} else {
			target = open[i%len(open)]
		}
		res := AssignmentResult{UserID: uid, BreakoutID: target}
		if err := s.assignOneLocked(uid, target, changed); err != nil {
			res.Error = err.Error()
		} else {
			res.OK = true
		}
		results = append(results, res)
	}
	for id := range changed {
		s.publishLocked(NewEvent(EvBreakoutUpdated, s.room.ID, s.breakoutSnapshotLocked(id)))
	}
	return results, nil
}

func (s *Session) StartBreakout(caller domain.UserID, id domain.BreakoutID) (domain.BreakoutRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hostOnlyLocked(caller); err != nil {
		return domain.BreakoutRoom{}, err
	}
	b, ok := s.breakouts[id]
	if !ok {
		return domain.BreakoutRoom{}, domain.ErrNotFound("breakout room %s not found", id)
	}
	if b.Status != domain.BreakoutPending {
		return domain.BreakoutRoom{}, domain.ErrInvalidState("breakout room is %s, not PENDING", b.Status)
	}
	now := time.Now().UTC()
	b.Status = domain.BreakoutActive
	b.StartedAt = &now
	s.saver.SaveBreakout(*b)
	s.publishLocked(NewEvent(EvBreakoutStarted, s.room.ID, *b))
	s.publishLocked(NewEvent(EvBreakoutStarted, domain.RoomID(b.ID), *b))
	return *b, nil
}

// CloseBreakout returns every member to the parent room and removes
// the membership. A PENDING room may be closed without ever starting.
func (s *Session) CloseBreakout(caller domain.UserID, id domain.BreakoutID) (domain.BreakoutRoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hostOnlyLocked(caller); err != nil {
		return domain.BreakoutRoom{}, err
	}
	b, ok := s.breakouts[id]
	if !ok {
		return domain.BreakoutRoom{}, domain.ErrNotFound("breakout room %s not found", id)
	}
	if b.Status == domain.BreakoutClosed {
		return domain.BreakoutRoom{}, domain.ErrInvalidState("breakout room is already CLOSED")
	}
	s.closeBreakoutLocked(b, time.Now().UTC())
	return *b, nil
}

func (s *Session) closeBreakoutLocked(b *domain.BreakoutRoom, now time.Time) {
	for uid, cur := range s.memberOf {
		if cur != b.ID {
			continue
		}
		delete(s.memberOf, uid)
		if p, ok := s.active[uid]; ok && p.Status != domain.ParticipantJoined {
			p.Status = domain.ParticipantJoined
			s.saver.SaveParticipant(*p)
		}
		ev := NewEvent(EvReturnToMain, s.room.ID, ReturnToMainPayload{UserID: uid, BreakoutID: b.ID})
		s.publishLocked(ev)
		s.publishLocked(NewEvent(EvReturnToMain, domain.RoomID(b.ID), ev.Payload))
	}
	b.Status = domain.BreakoutClosed
	b.ClosedAt = &now
	s.saver.SaveBreakout(*b)
	s.publishLocked(NewEvent(EvBreakoutClosed, s.room.ID, *b))
	s.publishLocked(NewEvent(EvBreakoutClosed, domain.RoomID(b.ID), *b))
	log.Info().Str("module", "core.session").Str("room", string(s.room.ID)).
		Str("breakout", string(b.ID)).Msg("breakout room closed")
}

// BroadcastToBreakouts fans a host message to every ACTIVE breakout's
// event channel, reporting delivery per room.
func (s *Session) BroadcastToBreakouts(caller domain.UserID, senderName, message string) ([]DeliveryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hostOnlyLocked(caller); err != nil {
		return nil, err
	}
	results := make([]DeliveryResult, 0, len(s.breakoutOrder))
	for _, id := range s.breakoutOrder {
		b := s.breakouts[id]
		res := DeliveryResult{BreakoutID: id}
		if b.Status != domain.BreakoutActive {
			res.Error = fmt.Sprintf("breakout room is %s, not ACTIVE", b.Status)
		} else {
			s.publishLocked(NewEvent(EvBroadcastMessage, domain.RoomID(id), BroadcastMessagePayload{
				SenderID:   caller,
				SenderName: senderName,
				Message:    message,
				BreakoutID: id,
				SentAt:     time.Now().UTC(),
			}))
			res.OK = true
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *Session) Breakouts() []BreakoutSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.breakoutsLocked()
}

func (s *Session) breakoutsLocked() []BreakoutSnapshot {
	out := make([]BreakoutSnapshot, 0, len(s.breakoutOrder))
	for _, id := range s.breakoutOrder {
		out = append(out, s.breakoutSnapshotLocked(id))
	}
	return out
}

func (s *Session) breakoutSnapshotLocked(id domain.BreakoutID) BreakoutSnapshot {
	snap := BreakoutSnapshot{Breakout: *s.breakouts[id], Members: []domain.UserID{}}
	for uid, cur := range s.memberOf {
		if cur == id {
			snap.Members = append(snap.Members, uid)
		}
	}
	sortUserIDs(snap.Members)
	return snap
}

func (s *Session) breakoutSizeLocked(id domain.BreakoutID) int {
	n := 0
	for _, cur := range s.memberOf {
		if cur == id {
			n++
		}
	}
	return n
}

func sortUserIDs(ids []domain.UserID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func (s *Session) smallestOpenLocked(open []domain.BreakoutID) domain.BreakoutID {
	best := open[0]
	bestN := s.breakoutSizeLocked(best)
	for _, id := range open[1:] {
		if n := s.breakoutSizeLocked(id); n < bestN {
			best, bestN = id, n
		}
	}
	return best
}
