package domain

import (
	"time"

	"github.com/google/uuid"
)

type ParticipantID string

type Role string

const (
	RoleHost        Role = "HOST"
	RoleParticipant Role = "PARTICIPANT"
)

type ParticipantStatus string

const (
	ParticipantWaiting ParticipantStatus = "WAITING"
	ParticipantJoined  ParticipantStatus = "JOINED"
	ParticipantLeft    ParticipantStatus = "LEFT"
)

// MediaPrefs is what a client declares when joining.
type MediaPrefs struct {
	Muted   bool `json:"muted"`
	VideoOn bool `json:"videoOn"`
}

// Participant is a user's presence record within a Room.
// Rows are never deleted; leaving marks them LEFT.
type Participant struct {
	ID            ParticipantID     `json:"id"`
	RoomID        RoomID            `json:"roomId"`
	UserID        UserID            `json:"userId"`
	DisplayName   string            `json:"displayName"`
	Role          Role              `json:"role"`
	Status        ParticipantStatus `json:"status"`
	HandRaised    bool              `json:"isHandRaised"`
	Muted         bool              `json:"isMuted"`
	VideoOn       bool              `json:"isVideoOn"`
	ScreenSharing bool              `json:"isScreenSharing"`
	JoinedAt      time.Time         `json:"joinedAt"`
	LeftAt        *time.Time        `json:"leftAt,omitempty"`
	LastSeen      time.Time         `json:"-"`
}

func NewParticipant(roomID RoomID, userID UserID, name string, role Role, status ParticipantStatus, prefs MediaPrefs) Participant {
	now := time.Now().UTC()
	return Participant{
		ID:          ParticipantID(uuid.NewString()),
		RoomID:      roomID,
		UserID:      userID,
		DisplayName: name,
		Role:        role,
		Status:      status,
		Muted:       prefs.Muted,
		VideoOn:     prefs.VideoOn,
		JoinedAt:    now,
		LastSeen:    now,
	}
}

// Active reports whether the row still occupies a seat.
func (p Participant) Active() bool { return p.Status != ParticipantLeft }
