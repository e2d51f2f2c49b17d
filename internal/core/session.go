package core

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openseminar/server/internal/domain"
)

// Session is the live, threadsafe state of one room: participants,
// screen-share lock, speaking queue and breakout membership, all
// guarded by a single mutex so multi-participant invariants hold
// under concurrent commands. Sessions for different rooms never
// block each other.
//
// Events are published and saves recorded while the lock is held;
// both collaborators are non-blocking, which keeps per-room event
// order equal to command acceptance order.
type Session struct {
	mu sync.RWMutex

	room domain.Room

	active map[domain.UserID]*domain.Participant
	left   []domain.Participant

	shareHolder domain.ParticipantID

	queue   []*domain.SpeakingQueueEntry
	nextPos int

	breakouts     map[domain.BreakoutID]*domain.BreakoutRoom
	breakoutOrder []domain.BreakoutID
	memberOf      map[domain.UserID]domain.BreakoutID
	nextBreakout  int

	pub   Publisher
	saver Saver
}

func NewSession(room domain.Room, pub Publisher, saver Saver) *Session {
	return &Session{
		room:      room,
		active:    make(map[domain.UserID]*domain.Participant),
		breakouts: make(map[domain.BreakoutID]*domain.BreakoutRoom),
		memberOf:  make(map[domain.UserID]domain.BreakoutID),
		nextPos:   1,
		pub:       pub,
		saver:     saver,
	}
}

func (s *Session) ID() domain.RoomID { return s.room.ID }

func (s *Session) Room() domain.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room
}

func (s *Session) Info() RoomInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return RoomInfo{
		ID:               s.room.ID,
		SessionID:        s.room.SessionID,
		Status:           s.room.Status,
		ParticipantCount: len(s.active),
	}
}

// Snapshot is the resync read for reconnecting clients.
func (s *Session) Snapshot() RoomSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return RoomSnapshot{
		Room:         s.room,
		Participants: s.participantsLocked(),
		Breakouts:    s.breakoutsLocked(),
		Queue:        s.queueLocked(),
		ShareHolder:  s.shareHolder,
	}
}

func (s *Session) Participants() []domain.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.participantsLocked()
}

func (s *Session) participantsLocked() []domain.Participant {
	out := make([]domain.Participant, 0, len(s.active)+len(s.left))
	for _, p := range s.active {
		out = append(out, *p)
	}
	out = append(out, s.left...)
	return out
}

// ---- room lifecycle ----

func (s *Session) Start(caller domain.UserID) (domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hostOnlyLocked(caller); err != nil {
		return domain.Room{}, err
	}
	if s.room.Status != domain.RoomScheduled {
		return domain.Room{}, domain.ErrInvalidState("room is %s, not SCHEDULED", s.room.Status)
	}
	now := time.Now().UTC()
	s.room.Status = domain.RoomLive
	s.room.StartedAt = &now
	s.saver.SaveRoom(s.room)
	s.publishLocked(NewEvent(EvRoomStarted, s.room.ID, s.room))
	log.Info().Str("module", "core.session").Str("room", string(s.room.ID)).Msg("room started")
	return s.room, nil
}

func (s *Session) Cancel(caller domain.UserID) (domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hostOnlyLocked(caller); err != nil {
		return domain.Room{}, err
	}
	if s.room.Status != domain.RoomScheduled {
		return domain.Room{}, domain.ErrInvalidState("room is %s, not SCHEDULED", s.room.Status)
	}
	now := time.Now().UTC()
	s.room.Status = domain.RoomCancelled
	s.room.EndedAt = &now
	s.saver.SaveRoom(s.room)
	s.publishLocked(NewEvent(EvRoomCancelled, s.room.ID, s.room))
	return s.room, nil
}

// End transitions LIVE to ENDED and cascades: breakouts close, joined
// participants leave, the share lock releases, the queue drains.
func (s *Session) End(caller domain.UserID) (domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hostOnlyLocked(caller); err != nil {
		return domain.Room{}, err
	}
	if s.room.Status != domain.RoomLive {
		return domain.Room{}, domain.ErrInvalidState("room is %s, not LIVE", s.room.Status)
	}
	now := time.Now().UTC()

	for _, id := range s.breakoutOrder {
		if b := s.breakouts[id]; b.Status != domain.BreakoutClosed {
			s.closeBreakoutLocked(b, now)
		}
	}
	for _, p := range s.active {
		s.markLeftLocked(p, now)
	}
	s.shareHolder = ""
	for _, e := range s.queue {
		if e.Status != domain.SpeakingDone {
			e.Status = domain.SpeakingDone
			e.DoneAt = &now
			s.saver.SaveQueueEntry(*e)
		}
	}
	s.queue = nil

	s.room.Status = domain.RoomEnded
	s.room.EndedAt = &now
	s.saver.SaveRoom(s.room)
	s.publishLocked(NewEvent(EvRoomEnded, s.room.ID, s.room))
	log.Info().Str("module", "core.session").Str("room", string(s.room.ID)).Msg("room ended")
	return s.room, nil
}

func (s *Session) UpdateLayout(caller domain.UserID, layout domain.Layout) (domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hostOnlyLocked(caller); err != nil {
		return domain.Room{}, err
	}
	if s.room.Status.Terminal() {
		return domain.Room{}, domain.ErrInvalidState("room is %s", s.room.Status)
	}
	s.room.Layout = layout
	s.saver.SaveRoom(s.room)
	s.publishLocked(NewEvent(EvLayoutChanged, s.room.ID, LayoutChangedPayload{Layout: layout}))
	return s.room, nil
}

// ---- participants ----

func (s *Session) Join(userID domain.UserID, name string, prefs domain.MediaPrefs) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.room.Status != domain.RoomLive {
		return domain.Participant{}, domain.ErrInvalidState("room is %s, not LIVE", s.room.Status)
	}
	if _, ok := s.active[userID]; ok {
		return domain.Participant{}, domain.ErrConflict("user %s is already in the room", userID)
	}
	if len(s.active) >= s.room.Capacity {
		return domain.Participant{}, domain.ErrCapacityExceeded("room is full (%d)", s.room.Capacity)
	}

	role := domain.RoleParticipant
	if userID == s.room.HostID {
		role = domain.RoleHost
	}
	status := domain.ParticipantJoined
	if s.room.Settings.WaitingRoom && role != domain.RoleHost {
		status = domain.ParticipantWaiting
	}

	p := domain.NewParticipant(s.room.ID, userID, name, role, status, prefs)
	s.active[userID] = &p
	s.saver.SaveParticipant(p)

	typ := EvParticipantJoined
	if status == domain.ParticipantWaiting {
		typ = EvParticipantWaiting
	}
	s.publishLocked(NewEvent(typ, s.room.ID, p))
	log.Info().Str("module", "core.session").Str("room", string(s.room.ID)).
		Str("user", string(userID)).Str("status", string(status)).Msg("participant joined")
	return p, nil
}

// Admit moves a gated participant from WAITING to JOINED.
func (s *Session) Admit(caller domain.UserID, participantID domain.ParticipantID) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.hostOnlyLocked(caller); err != nil {
		return domain.Participant{}, err
	}
	p := s.byParticipantIDLocked(participantID)
	if p == nil {
		return domain.Participant{}, domain.ErrNotFound("participant %s not found", participantID)
	}
	if p.Status != domain.ParticipantWaiting {
		return domain.Participant{}, domain.ErrInvalidState("participant is %s, not WAITING", p.Status)
	}
	p.Status = domain.ParticipantJoined
	s.saver.SaveParticipant(*p)
	s.publishLocked(NewEvent(EvParticipantAdmitted, s.room.ID, *p))
	return *p, nil
}

func (s *Session) Leave(userID domain.UserID) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.active[userID]
	if !ok {
		return domain.Participant{}, domain.ErrNotFound("user %s is not in the room", userID)
	}
	left := s.markLeftLocked(p, time.Now().UTC())
	log.Info().Str("module", "core.session").Str("room", string(s.room.ID)).
		Str("user", string(userID)).Msg("participant left")
	return left, nil
}

// markLeftLocked is the one exit path: it releases the share lock and
// queue entries the participant holds and drops breakout membership.
func (s *Session) markLeftLocked(p *domain.Participant, now time.Time) domain.Participant {
	if s.shareHolder == p.ID {
		s.shareHolder = ""
		p.ScreenSharing = false
		s.publishLocked(NewEvent(EvScreenShareStopped, s.room.ID, MediaStatePayload{
			ParticipantID: p.ID, UserID: p.UserID, ScreenSharing: boolPtr(false),
		}))
	}
	for _, e := range s.queue {
		if e.UserID == p.UserID && e.Status != domain.SpeakingDone {
			e.Status = domain.SpeakingDone
			e.DoneAt = &now
			s.saver.SaveQueueEntry(*e)
			s.publishLocked(NewEvent(EvSpeakingQueueUpdate, s.room.ID, *e))
		}
	}
	delete(s.memberOf, p.UserID)

	p.Status = domain.ParticipantLeft
	p.LeftAt = &now
	s.saver.SaveParticipant(*p)
	s.left = append(s.left, *p)
	delete(s.active, p.UserID)
	s.publishLocked(NewEvent(EvParticipantLeft, s.room.ID, *p))
	return *p
}

func (s *Session) Heartbeat(userID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.active[userID]
	if !ok {
		return domain.ErrNotFound("user %s is not in the room", userID)
	}
	p.LastSeen = time.Now().UTC()
	return nil
}

// ReapIdle marks every participant silent past ttl as LEFT through
// the same exit path a voluntary leave takes.
func (s *Session) ReapIdle(ttl time.Duration) []domain.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.room.Status != domain.RoomLive {
		return nil
	}
	now := time.Now().UTC()
	var idle []*domain.Participant
	for _, p := range s.active {
		if now.Sub(p.LastSeen) > ttl {
			idle = append(idle, p)
		}
	}
	reaped := make([]domain.Participant, 0, len(idle))
	for _, p := range idle {
		reaped = append(reaped, s.markLeftLocked(p, now))
	}
	return reaped
}

func (s *Session) SetHandRaised(userID domain.UserID, raised bool) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.active[userID]
	if !ok {
		return domain.Participant{}, domain.ErrNotFound("user %s is not in the room", userID)
	}
	p.HandRaised = raised
	s.saver.SaveParticipant(*p)
	s.publishLocked(NewEvent(EvHandRaised, s.room.ID, HandRaisedPayload{
		ParticipantID: p.ID, UserID: p.UserID, Raised: raised,
	}))
	return *p, nil
}

func (s *Session) ToggleMute(userID domain.UserID) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.active[userID]
	if !ok {
		return domain.Participant{}, domain.ErrNotFound("user %s is not in the room", userID)
	}
	p.Muted = !p.Muted
	s.saver.SaveParticipant(*p)
	s.publishLocked(NewEvent(EvMediaStateChanged, s.room.ID, MediaStatePayload{
		ParticipantID: p.ID, UserID: p.UserID, Muted: boolPtr(p.Muted),
	}))
	return *p, nil
}

func (s *Session) ToggleVideo(userID domain.UserID) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.active[userID]
	if !ok {
		return domain.Participant{}, domain.ErrNotFound("user %s is not in the room", userID)
	}
	p.VideoOn = !p.VideoOn
	s.saver.SaveParticipant(*p)
	s.publishLocked(NewEvent(EvMediaStateChanged, s.room.ID, MediaStatePayload{
		ParticipantID: p.ID, UserID: p.UserID, VideoOn: boolPtr(p.VideoOn),
	}))
	return *p, nil
}

// ---- screen share ----

// StartScreenShare is an atomic check-and-set: holder comparison and
// assignment happen under the same critical section, so two racing
// starts can never both win.
func (s *Session) StartScreenShare(userID domain.UserID) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.active[userID]
	if !ok {
		return domain.Participant{}, domain.ErrNotFound("user %s is not in the room", userID)
	}
	if p.Status != domain.ParticipantJoined {
		return domain.Participant{}, domain.ErrInvalidState("participant is %s, not JOINED", p.Status)
	}
	if s.room.Settings.HostOnlyScreen && p.Role != domain.RoleHost {
		return domain.Participant{}, domain.ErrPermissionDenied("screen sharing is limited to the host")
	}
	if s.shareHolder == p.ID {
		return *p, nil
	}
	if s.shareHolder != "" {
		return domain.Participant{}, domain.ErrConflict("screen share is already in use")
	}
	s.shareHolder = p.ID
	p.ScreenSharing = true
	s.saver.SaveParticipant(*p)
	s.publishLocked(NewEvent(EvScreenShareStarted, s.room.ID, MediaStatePayload{
		ParticipantID: p.ID, UserID: p.UserID, ScreenSharing: boolPtr(true),
	}))
	return *p, nil
}

// StopScreenShare clears the lock only for its holder; otherwise it
// is an idempotent no-op.
func (s *Session) StopScreenShare(userID domain.UserID) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.active[userID]
	if !ok {
		return domain.Participant{}, domain.ErrNotFound("user %s is not in the room", userID)
	}
	if s.shareHolder != p.ID {
		return *p, nil
	}
	s.shareHolder = ""
	p.ScreenSharing = false
	s.saver.SaveParticipant(*p)
	s.publishLocked(NewEvent(EvScreenShareStopped, s.room.ID, MediaStatePayload{
		ParticipantID: p.ID, UserID: p.UserID, ScreenSharing: boolPtr(false),
	}))
	return *p, nil
}

// ---- helpers ----

func (s *Session) hostOnlyLocked(caller domain.UserID) error {
	if caller != s.room.HostID {
		return domain.ErrPermissionDenied("only the host may do this")
	}
	return nil
}

func (s *Session) byParticipantIDLocked(id domain.ParticipantID) *domain.Participant {
	for _, p := range s.active {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Session) publishLocked(ev Event) {
	if s.pub != nil {
		s.pub.Publish(ev.RoomID, ev)
	}
}

func boolPtr(b bool) *bool { return &b }

// shuffle indirection for deterministic tests.
var shuffle = func(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }
