package core_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openseminar/server/internal/core"
	"github.com/openseminar/server/internal/domain"
)

const (
	host  = domain.UserID("host")
	userA = domain.UserID("alice")
	userB = domain.UserID("bob")
	userC = domain.UserID("carol")
)

// fakePublisher records every published event in order.
type fakePublisher struct {
	mu     sync.Mutex
	events []core.Event
}

func (p *fakePublisher) Publish(_ domain.RoomID, ev core.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

func (p *fakePublisher) byType(typ string) []core.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []core.Event
	for _, ev := range p.events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

// fakeSaver is a no-op write-behind seam.
type fakeSaver struct{}

func (fakeSaver) SaveRoom(domain.Room)                     {}
func (fakeSaver) SaveParticipant(domain.Participant)       {}
func (fakeSaver) SaveBreakout(domain.BreakoutRoom)         {}
func (fakeSaver) SaveQueueEntry(domain.SpeakingQueueEntry) {}

func newLiveSession(t *testing.T, capacity int, settings domain.RoomSettings) (*core.Session, *fakePublisher) {
	t.Helper()
	pub := &fakePublisher{}
	room := domain.NewRoom("sess-1", host, capacity, settings)
	s := core.NewSession(room, pub, fakeSaver{})
	_, err := s.Start(host)
	require.NoError(t, err)
	return s, pub
}

func join(t *testing.T, s *core.Session, users ...domain.UserID) {
	t.Helper()
	for _, u := range users {
		_, err := s.Join(u, string(u), domain.MediaPrefs{})
		require.NoError(t, err)
	}
}

func TestRoomLifecycleTransitions(t *testing.T) {
	pub := &fakePublisher{}
	room := domain.NewRoom("sess-1", host, 10, domain.RoomSettings{})
	s := core.NewSession(room, pub, fakeSaver{})

	t.Run("non-host cannot start", func(t *testing.T) {
		_, err := s.Start(userA)
		require.True(t, domain.IsKind(err, domain.ErrKindPermissionDenied))
	})

	t.Run("scheduled to live", func(t *testing.T) {
		r, err := s.Start(host)
		require.NoError(t, err)
		require.Equal(t, domain.RoomLive, r.Status)
		require.NotNil(t, r.StartedAt)
	})

	t.Run("live cannot start again", func(t *testing.T) {
		_, err := s.Start(host)
		require.True(t, domain.IsKind(err, domain.ErrKindInvalidState))
	})

	t.Run("live cannot cancel", func(t *testing.T) {
		_, err := s.Cancel(host)
		require.True(t, domain.IsKind(err, domain.ErrKindInvalidState))
	})

	t.Run("live to ended", func(t *testing.T) {
		r, err := s.End(host)
		require.NoError(t, err)
		require.Equal(t, domain.RoomEnded, r.Status)
	})

	t.Run("ended is terminal", func(t *testing.T) {
		_, err := s.Start(host)
		require.True(t, domain.IsKind(err, domain.ErrKindInvalidState))
		_, err = s.End(host)
		require.True(t, domain.IsKind(err, domain.ErrKindInvalidState))
	})
}

func TestCancelScheduledRoom(t *testing.T) {
	room := domain.NewRoom("sess-1", host, 10, domain.RoomSettings{})
	s := core.NewSession(room, &fakePublisher{}, fakeSaver{})
	r, err := s.Cancel(host)
	require.NoError(t, err)
	require.Equal(t, domain.RoomCancelled, r.Status)
}

func TestJoinCapacity(t *testing.T) {
	s, _ := newLiveSession(t, 2, domain.RoomSettings{})
	join(t, s, userA, userB)

	_, err := s.Join(userC, "carol", domain.MediaPrefs{})
	require.True(t, domain.IsKind(err, domain.ErrKindCapacityExceeded))

	// a seat frees up after a leave
	_, err = s.Leave(userA)
	require.NoError(t, err)
	_, err = s.Join(userC, "carol", domain.MediaPrefs{})
	require.NoError(t, err)
}

func TestJoinDuplicate(t *testing.T) {
	s, _ := newLiveSession(t, 10, domain.RoomSettings{})
	join(t, s, userA)

	_, err := s.Join(userA, "alice", domain.MediaPrefs{})
	require.True(t, domain.IsKind(err, domain.ErrKindConflict))

	// rejoining after leaving creates a fresh row, the old one survives
	_, err = s.Leave(userA)
	require.NoError(t, err)
	_, err = s.Join(userA, "alice", domain.MediaPrefs{})
	require.NoError(t, err)

	var left, joined int
	for _, p := range s.Participants() {
		if p.UserID == userA {
			switch p.Status {
			case domain.ParticipantLeft:
				left++
			default:
				joined++
			}
		}
	}
	require.Equal(t, 1, left)
	require.Equal(t, 1, joined)
}

func TestJoinRequiresLiveRoom(t *testing.T) {
	room := domain.NewRoom("sess-1", host, 10, domain.RoomSettings{})
	s := core.NewSession(room, &fakePublisher{}, fakeSaver{})
	_, err := s.Join(userA, "alice", domain.MediaPrefs{})
	require.True(t, domain.IsKind(err, domain.ErrKindInvalidState))
}

func TestWaitingRoomGate(t *testing.T) {
	s, pub := newLiveSession(t, 10, domain.RoomSettings{WaitingRoom: true})

	p, err := s.Join(userA, "alice", domain.MediaPrefs{})
	require.NoError(t, err)
	require.Equal(t, domain.ParticipantWaiting, p.Status)
	require.Len(t, pub.byType(core.EvParticipantWaiting), 1)

	// the host is never gated
	hp, err := s.Join(host, "host", domain.MediaPrefs{})
	require.NoError(t, err)
	require.Equal(t, domain.ParticipantJoined, hp.Status)

	t.Run("non-host cannot admit", func(t *testing.T) {
		_, err := s.Admit(userA, p.ID)
		require.True(t, domain.IsKind(err, domain.ErrKindPermissionDenied))
	})

	admitted, err := s.Admit(host, p.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ParticipantJoined, admitted.Status)

	_, err = s.Admit(host, p.ID)
	require.True(t, domain.IsKind(err, domain.ErrKindInvalidState))
}

func TestLeaveUnknownUser(t *testing.T) {
	s, _ := newLiveSession(t, 10, domain.RoomSettings{})
	_, err := s.Leave(userA)
	require.True(t, domain.IsKind(err, domain.ErrKindNotFound))
}

func TestHandAndMediaFlags(t *testing.T) {
	s, pub := newLiveSession(t, 10, domain.RoomSettings{})
	join(t, s, userA)

	p, err := s.SetHandRaised(userA, true)
	require.NoError(t, err)
	require.True(t, p.HandRaised)
	p, err = s.SetHandRaised(userA, false)
	require.NoError(t, err)
	require.False(t, p.HandRaised)

	p, err = s.ToggleMute(userA)
	require.NoError(t, err)
	require.True(t, p.Muted)
	p, err = s.ToggleVideo(userA)
	require.NoError(t, err)
	require.True(t, p.VideoOn)

	require.Len(t, pub.byType(core.EvHandRaised), 2)
	require.Len(t, pub.byType(core.EvMediaStateChanged), 2)
}

func TestScreenShareExclusive(t *testing.T) {
	s, _ := newLiveSession(t, 10, domain.RoomSettings{})
	join(t, s, userA, userB)

	_, err := s.StartScreenShare(userA)
	require.NoError(t, err)

	_, err = s.StartScreenShare(userB)
	require.True(t, domain.IsKind(err, domain.ErrKindConflict))

	// restart by the holder is a no-op success
	_, err = s.StartScreenShare(userA)
	require.NoError(t, err)

	// stop by a non-holder changes nothing
	_, err = s.StopScreenShare(userB)
	require.NoError(t, err)
	require.Equal(t, 1, sharingCount(s))

	_, err = s.StopScreenShare(userA)
	require.NoError(t, err)
	_, err = s.StartScreenShare(userB)
	require.NoError(t, err)
}

func TestScreenShareHostOnlySetting(t *testing.T) {
	s, _ := newLiveSession(t, 10, domain.RoomSettings{HostOnlyScreen: true})
	join(t, s, host, userA)

	_, err := s.StartScreenShare(userA)
	require.True(t, domain.IsKind(err, domain.ErrKindPermissionDenied))
	_, err = s.StartScreenShare(host)
	require.NoError(t, err)
}

func TestScreenShareReleasedOnLeave(t *testing.T) {
	s, _ := newLiveSession(t, 10, domain.RoomSettings{})
	join(t, s, userA, userB)

	_, err := s.StartScreenShare(userA)
	require.NoError(t, err)
	_, err = s.Leave(userA)
	require.NoError(t, err)

	_, err = s.StartScreenShare(userB)
	require.NoError(t, err)
}

// At any instant at most one participant is screen sharing, even under
// concurrent starts racing for the lock.
func TestScreenShareConcurrentStarts(t *testing.T) {
	s, _ := newLiveSession(t, 50, domain.RoomSettings{})
	users := make([]domain.UserID, 20)
	for i := range users {
		users[i] = domain.UserID(string(rune('a'+i)) + "-user")
		join(t, s, users[i])
	}

	var wg sync.WaitGroup
	var wins int64
	var mu sync.Mutex
	for _, u := range users {
		wg.Add(1)
		go func(u domain.UserID) {
			defer wg.Done()
			if _, err := s.StartScreenShare(u); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(u)
	}
	wg.Wait()

	require.EqualValues(t, 1, wins)
	require.Equal(t, 1, sharingCount(s))
}

func sharingCount(s *core.Session) int {
	n := 0
	for _, p := range s.Participants() {
		if p.ScreenSharing {
			n++
		}
	}
	return n
}

func TestEndCascades(t *testing.T) {
	s, pub := newLiveSession(t, 10, domain.RoomSettings{})
	join(t, s, userA, userB)

	_, err := s.StartScreenShare(userA)
	require.NoError(t, err)
	_, err = s.Enqueue(userA, "")
	require.NoError(t, err)
	_, err = s.Enqueue(userB, "")
	require.NoError(t, err)
	_, err = s.CreateBreakouts(host, []core.BreakoutSpec{{Name: "g1"}})
	require.NoError(t, err)

	_, err = s.End(host)
	require.NoError(t, err)

	require.Empty(t, s.Queue())
	require.Equal(t, 0, sharingCount(s))
	for _, p := range s.Participants() {
		require.Equal(t, domain.ParticipantLeft, p.Status)
	}
	for _, b := range s.Breakouts() {
		require.Equal(t, domain.BreakoutClosed, b.Breakout.Status)
	}
	require.Len(t, pub.byType(core.EvRoomEnded), 1)

	_, err = s.Start(host)
	require.True(t, domain.IsKind(err, domain.ErrKindInvalidState))
}

func TestHeartbeatAndReap(t *testing.T) {
	s, _ := newLiveSession(t, 10, domain.RoomSettings{})
	join(t, s, userA, userB)

	require.NoError(t, s.Heartbeat(userA))
	require.True(t, domain.IsKind(s.Heartbeat(userC), domain.ErrKindNotFound))

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.Heartbeat(userB))

	reaped := s.ReapIdle(10 * time.Millisecond)
	require.Len(t, reaped, 1)
	require.Equal(t, userA, reaped[0].UserID)

	var active int
	for _, p := range s.Participants() {
		if p.Active() {
			active++
		}
	}
	require.Equal(t, 1, active)
}

func TestEventOrderWithinRoom(t *testing.T) {
	s, pub := newLiveSession(t, 10, domain.RoomSettings{})
	join(t, s, userA)
	_, err := s.ToggleMute(userA)
	require.NoError(t, err)
	_, err = s.Leave(userA)
	require.NoError(t, err)

	require.Equal(t, []string{
		core.EvRoomStarted,
		core.EvParticipantJoined,
		core.EvMediaStateChanged,
		core.EvParticipantLeft,
	}, pub.types())
}
