package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openseminar/server/internal/app"
	"github.com/openseminar/server/internal/domain"
)

func TestReaperRemovesIdleParticipants(t *testing.T) {
	orch, _, cancelJournal := newFixture(t)
	defer cancelJournal()

	room, err := orch.CreateRoom("sess-1", host, 5, domain.RoomSettings{})
	require.NoError(t, err)
	_, err = orch.StartRoom(room.ID, host)
	require.NoError(t, err)
	_, err = orch.JoinRoom(context.Background(), room.ID, userA, domain.MediaPrefs{})
	require.NoError(t, err)

	reaper := &app.Reaper{
		Sessions:  orch.Sessions,
		IdleTTL:   20 * time.Millisecond,
		Retention: time.Hour,
		Interval:  5 * time.Millisecond,
	}
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go reaper.Run(ctx)

	require.Eventually(t, func() bool {
		parts, err := orch.Participants(room.ID)
		if err != nil {
			return false
		}
		for _, p := range parts {
			if p.Status == domain.ParticipantJoined {
				return false
			}
		}
		return len(parts) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestHeartbeatKeepsParticipantAlive(t *testing.T) {
	orch, _, cancelJournal := newFixture(t)
	defer cancelJournal()

	room, err := orch.CreateRoom("sess-1", host, 5, domain.RoomSettings{})
	require.NoError(t, err)
	_, err = orch.StartRoom(room.ID, host)
	require.NoError(t, err)
	_, err = orch.JoinRoom(context.Background(), room.ID, userA, domain.MediaPrefs{})
	require.NoError(t, err)

	reaper := &app.Reaper{
		Sessions:  orch.Sessions,
		IdleTTL:   60 * time.Millisecond,
		Retention: time.Hour,
		Interval:  10 * time.Millisecond,
	}
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go reaper.Run(ctx)

	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		require.NoError(t, orch.Heartbeat(room.ID, userA))
		time.Sleep(15 * time.Millisecond)
	}

	parts, err := orch.Participants(room.ID)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	require.Equal(t, domain.ParticipantJoined, parts[0].Status)
}

func TestReaperPrunesTerminatedSessions(t *testing.T) {
	orch, _, cancelJournal := newFixture(t)
	defer cancelJournal()

	room, err := orch.CreateRoom("sess-1", host, 5, domain.RoomSettings{})
	require.NoError(t, err)
	_, err = orch.StartRoom(room.ID, host)
	require.NoError(t, err)
	_, err = orch.EndRoom(room.ID, host)
	require.NoError(t, err)

	reaper := &app.Reaper{
		Sessions:  orch.Sessions,
		IdleTTL:   time.Hour,
		Retention: time.Millisecond,
		Interval:  5 * time.Millisecond,
	}
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go reaper.Run(ctx)

	require.Eventually(t, func() bool {
		_, err := orch.Snapshot(room.ID)
		return domain.IsKind(err, domain.ErrKindNotFound)
	}, time.Second, 5*time.Millisecond)
}
