package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openseminar/server/internal/domain"
	"github.com/openseminar/server/internal/storage/memory"
)

func TestRoomRoundTrip(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()

	room := domain.NewRoom("sess-1", "host", 10, domain.RoomSettings{})
	require.NoError(t, repo.SaveRoom(ctx, room))

	got, err := repo.FindRoom(ctx, room.ID)
	require.NoError(t, err)
	require.Equal(t, room.ID, got.ID)
	require.Equal(t, domain.RoomScheduled, got.Status)

	bySession, err := repo.FindRoomBySession(ctx, "sess-1")
	require.NoError(t, err)
	require.Equal(t, room.ID, bySession.ID)

	// a save is an upsert, latest state wins
	room.Status = domain.RoomLive
	require.NoError(t, repo.SaveRoom(ctx, room))
	got, err = repo.FindRoom(ctx, room.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoomLive, got.Status)
}

func TestFindMissing(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()

	_, err := repo.FindRoom(ctx, "nope")
	require.True(t, domain.IsKind(err, domain.ErrKindNotFound))
	_, err = repo.FindRoomBySession(ctx, "nope")
	require.True(t, domain.IsKind(err, domain.ErrKindNotFound))
}

func TestParticipantsAreScopedToRoom(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()

	p1 := domain.NewParticipant("room-1", "alice", "Alice", domain.RoleParticipant, domain.ParticipantJoined, domain.MediaPrefs{})
	p2 := domain.NewParticipant("room-1", "bob", "Bob", domain.RoleParticipant, domain.ParticipantJoined, domain.MediaPrefs{})
	p3 := domain.NewParticipant("room-2", "carol", "Carol", domain.RoleHost, domain.ParticipantJoined, domain.MediaPrefs{})
	for _, p := range []domain.Participant{p1, p2, p3} {
		require.NoError(t, repo.SaveParticipant(ctx, p))
	}

	got, err := repo.FindParticipantsByRoom(ctx, "room-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = repo.FindParticipantsByRoom(ctx, "room-3")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestBreakoutsAndQueueEntries(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()

	b := domain.NewBreakoutRoom("room-1", 1, "Breakout 1", "intro")
	require.NoError(t, repo.SaveBreakout(ctx, b))
	got, err := repo.FindBreakoutsByRoom(ctx, "room-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, b.ID, got[0].ID)

	e := domain.NewSpeakingQueueEntry("room-1", "alice", "Alice", 1, "question")
	require.NoError(t, repo.SaveQueueEntry(ctx, e))
	entries, err := repo.FindQueueEntriesByRoom(ctx, "room-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 1, entries[0].Position)
}
