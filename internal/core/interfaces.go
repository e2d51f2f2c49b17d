package core

import (
	"context"

	"github.com/openseminar/server/internal/domain"
)

// Publisher fans an event out to every current subscriber of a room.
// Implementations must not block: a slow subscriber is the
// implementation's problem, never the calling room's.
type Publisher interface {
	Publish(roomID domain.RoomID, ev Event)
}

// Repository is the durable-storage collaborator. The core defines
// neither schema nor transaction scope; absent rows are signaled with
// a domain not-found error.
type Repository interface {
	SaveRoom(ctx context.Context, room domain.Room) error
	FindRoom(ctx context.Context, id domain.RoomID) (domain.Room, error)
	FindRoomBySession(ctx context.Context, id domain.SessionID) (domain.Room, error)

	SaveParticipant(ctx context.Context, p domain.Participant) error
	FindParticipantsByRoom(ctx context.Context, roomID domain.RoomID) ([]domain.Participant, error)

	SaveBreakout(ctx context.Context, b domain.BreakoutRoom) error
	FindBreakoutsByRoom(ctx context.Context, roomID domain.RoomID) ([]domain.BreakoutRoom, error)

	SaveQueueEntry(ctx context.Context, e domain.SpeakingQueueEntry) error
	FindQueueEntriesByRoom(ctx context.Context, roomID domain.RoomID) ([]domain.SpeakingQueueEntry, error)
}

// Saver is the write-behind seam the session records through while
// holding its lock. Implementations must return immediately.
type Saver interface {
	SaveRoom(room domain.Room)
	SaveParticipant(p domain.Participant)
	SaveBreakout(b domain.BreakoutRoom)
	SaveQueueEntry(e domain.SpeakingQueueEntry)
}

// Identity is the resolved view of an opaque user id.
type Identity struct {
	DisplayName string
}

// IdentityResolver maps user ids to display data for event payloads.
// It performs no authentication.
type IdentityResolver interface {
	Resolve(ctx context.Context, id domain.UserID) (Identity, error)
}

// Snapshot types are read-only views for APIs (no lock-guarded fields).

type RoomSnapshot struct {
	Room         domain.Room                 `json:"room"`
	Participants []domain.Participant        `json:"participants"`
	Breakouts    []BreakoutSnapshot          `json:"breakouts,omitempty"`
	Queue        []domain.SpeakingQueueEntry `json:"speakingQueue,omitempty"`
	ShareHolder  domain.ParticipantID        `json:"screenShareHolder,omitempty"`
}

type BreakoutSnapshot struct {
	Breakout domain.BreakoutRoom `json:"breakoutRoom"`
	Members  []domain.UserID     `json:"members"`
}

type RoomInfo struct {
	ID               domain.RoomID     `json:"id"`
	SessionID        domain.SessionID  `json:"sessionId"`
	Status           domain.RoomStatus `json:"status"`
	ParticipantCount int               `json:"participantCount"`
}

// AssignmentResult reports one item of a best-effort bulk assignment.
type AssignmentResult struct {
	UserID     domain.UserID     `json:"userId"`
	BreakoutID domain.BreakoutID `json:"breakoutRoomId"`
	OK         bool              `json:"ok"`
	Error      string            `json:"error,omitempty"`
}

// DeliveryResult reports one breakout room of a host broadcast.
type DeliveryResult struct {
	BreakoutID domain.BreakoutID `json:"breakoutRoomId"`
	OK         bool              `json:"ok"`
	Error      string            `json:"error,omitempty"`
}
