package core_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openseminar/server/internal/core"
	"github.com/openseminar/server/internal/domain"
)

func TestEnqueuePositionsIncrease(t *testing.T) {
	s, _ := newLiveSession(t, 10, domain.RoomSettings{})
	join(t, s, userA, userB, userC)

	e1, err := s.Enqueue(userA, "intro")
	require.NoError(t, err)
	e2, err := s.Enqueue(userB, "")
	require.NoError(t, err)
	require.Equal(t, 1, e1.Position)
	require.Equal(t, 2, e2.Position)

	// removing does not renumber; new entries keep climbing
	_, err = s.Dequeue(userA, e1.ID)
	require.NoError(t, err)
	e3, err := s.Enqueue(userC, "")
	require.NoError(t, err)
	require.Equal(t, 3, e3.Position)

	q := s.Queue()
	require.Len(t, q, 2)
	require.Equal(t, 2, q[0].Position)
	require.Equal(t, 3, q[1].Position)
}

func TestEnqueueDuplicate(t *testing.T) {
	s, _ := newLiveSession(t, 10, domain.RoomSettings{})
	join(t, s, userA)

	e, err := s.Enqueue(userA, "")
	require.NoError(t, err)
	_, err = s.Enqueue(userA, "")
	require.True(t, domain.IsKind(err, domain.ErrKindConflict))

	// a granted entry still blocks re-queueing
	_, err = s.GrantTurn(host, e.ID)
	require.NoError(t, err)
	_, err = s.Enqueue(userA, "")
	require.True(t, domain.IsKind(err, domain.ErrKindConflict))

	// done does not
	_, err = s.CompleteTurn(userA, e.ID)
	require.NoError(t, err)
	_, err = s.Enqueue(userA, "")
	require.NoError(t, err)
}

func TestDequeuePermissions(t *testing.T) {
	s, _ := newLiveSession(t, 10, domain.RoomSettings{})
	join(t, s, userA, userB)

	e, err := s.Enqueue(userA, "")
	require.NoError(t, err)

	_, err = s.Dequeue(userB, e.ID)
	require.True(t, domain.IsKind(err, domain.ErrKindPermissionDenied))

	// the host may remove anyone
	_, err = s.Dequeue(host, e.ID)
	require.NoError(t, err)

	_, err = s.Dequeue(host, "missing")
	require.True(t, domain.IsKind(err, domain.ErrKindNotFound))
}

func TestGrantTurnIsAdvisory(t *testing.T) {
	s, _ := newLiveSession(t, 10, domain.RoomSettings{})
	join(t, s, userA, userB)

	e1, err := s.Enqueue(userA, "")
	require.NoError(t, err)
	e2, err := s.Enqueue(userB, "")
	require.NoError(t, err)

	_, err = s.GrantTurn(userA, e1.ID)
	require.True(t, domain.IsKind(err, domain.ErrKindPermissionDenied))

	g1, err := s.GrantTurn(host, e1.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SpeakingGranted, g1.Status)

	// a second grant does not revoke the first
	g2, err := s.GrantTurn(host, e2.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SpeakingGranted, g2.Status)

	_, err = s.GrantTurn(host, e1.ID)
	require.True(t, domain.IsKind(err, domain.ErrKindInvalidState))
}

func TestCompleteTurnRecordsDone(t *testing.T) {
	s, _ := newLiveSession(t, 10, domain.RoomSettings{})
	join(t, s, userA, userB)

	e, err := s.Enqueue(userA, "")
	require.NoError(t, err)

	_, err = s.CompleteTurn(userA, e.ID)
	require.True(t, domain.IsKind(err, domain.ErrKindInvalidState))

	_, err = s.GrantTurn(host, e.ID)
	require.NoError(t, err)

	_, err = s.CompleteTurn(userB, e.ID)
	require.True(t, domain.IsKind(err, domain.ErrKindPermissionDenied))

	done, err := s.CompleteTurn(userA, e.ID)
	require.NoError(t, err)
	require.Equal(t, domain.SpeakingDone, done.Status)
	require.NotNil(t, done.DoneAt)
}

func TestLeaveDropsQueueEntries(t *testing.T) {
	s, _ := newLiveSession(t, 10, domain.RoomSettings{})
	join(t, s, userA, userB)

	_, err := s.Enqueue(userA, "")
	require.NoError(t, err)
	_, err = s.Enqueue(userB, "")
	require.NoError(t, err)

	_, err = s.Leave(userA)
	require.NoError(t, err)

	q := s.Queue()
	require.Len(t, q, 1)
	require.Equal(t, userB, q[0].UserID)
}

// Positions never repeat under concurrent enqueues.
func TestEnqueueConcurrentPositionsUnique(t *testing.T) {
	s, _ := newLiveSession(t, 100, domain.RoomSettings{})
	const n = 40
	users := make([]domain.UserID, n)
	for i := range users {
		users[i] = domain.UserID(fmt.Sprintf("user-%02d", i))
		join(t, s, users[i])
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var positions []int
	for _, u := range users {
		wg.Add(1)
		go func(u domain.UserID) {
			defer wg.Done()
			e, err := s.Enqueue(u, "")
			if err != nil {
				return
			}
			mu.Lock()
			positions = append(positions, e.Position)
			mu.Unlock()
		}(u)
	}
	wg.Wait()

	require.Len(t, positions, n)
	seen := make(map[int]bool, n)
	for _, pos := range positions {
		require.False(t, seen[pos], "duplicate position %d", pos)
		seen[pos] = true
	}
	q := s.Queue()
	for i := 1; i < len(q); i++ {
		require.Greater(t, q[i].Position, q[i-1].Position)
	}
}

func TestChatAndReactions(t *testing.T) {
	s, pub := newLiveSession(t, 10, domain.RoomSettings{})
	join(t, s, userA)

	msg, err := s.SendChat(userA, domain.ChatPublic, "hello")
	require.NoError(t, err)
	require.Equal(t, "alice", msg.SenderName)
	require.Len(t, pub.byType(core.EvChatMessage), 1)

	_, err = s.SendChat(userB, domain.ChatPublic, "hi")
	require.True(t, domain.IsKind(err, domain.ErrKindNotFound))

	r, err := s.SendReaction(userA, domain.ReactionClap)
	require.NoError(t, err)
	require.Equal(t, domain.ReactionClap, r.Type)
}

func TestChatDisabled(t *testing.T) {
	s, _ := newLiveSession(t, 10, domain.RoomSettings{ChatDisabled: true})
	join(t, s, userA)
	_, err := s.SendChat(userA, domain.ChatPublic, "hello")
	require.True(t, domain.IsKind(err, domain.ErrKindPermissionDenied))
}
