// Package domain contains entities without logic, just meta-data.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type (
	RoomID    string
	SessionID string
	UserID    string
)

type RoomStatus string

const (
	RoomScheduled RoomStatus = "SCHEDULED"
	RoomLive      RoomStatus = "LIVE"
	RoomEnded     RoomStatus = "ENDED"
	RoomCancelled RoomStatus = "CANCELLED"
)

// Terminal reports whether no further transition is allowed.
func (s RoomStatus) Terminal() bool { return s == RoomEnded || s == RoomCancelled }

type Layout string

const (
	LayoutGallery Layout = "GALLERY"
	LayoutSpeaker Layout = "SPEAKER"
	LayoutSidebar Layout = "SIDEBAR"
)

func ValidLayout(l Layout) bool {
	switch l {
	case LayoutGallery, LayoutSpeaker, LayoutSidebar:
		return true
	}
	return false
}

// RoomSettings are host-chosen toggles fixed at creation.
type RoomSettings struct {
	WaitingRoom    bool `json:"waitingRoom"`
	HostOnlyScreen bool `json:"hostOnlyScreen"`
	ChatDisabled   bool `json:"chatDisabled"`
}

const DefaultCapacity = 100

type Room struct {
	ID        RoomID       `json:"id"`
	SessionID SessionID    `json:"sessionId"`
	HostID    UserID       `json:"hostId"`
	Status    RoomStatus   `json:"status"`
	Capacity  int          `json:"capacity"`
	Layout    Layout       `json:"layout"`
	Settings  RoomSettings `json:"settings"`
	CreatedAt time.Time    `json:"createdAt"`
	StartedAt *time.Time   `json:"startedAt,omitempty"`
	EndedAt   *time.Time   `json:"endedAt,omitempty"`
}

// NewRoom avoids raw literals in services and keeps construction obvious.
func NewRoom(sessionID SessionID, hostID UserID, capacity int, settings RoomSettings) Room {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return Room{
		ID:        RoomID(uuid.NewString()),
		SessionID: sessionID,
		HostID:    hostID,
		Status:    RoomScheduled,
		Capacity:  capacity,
		Layout:    LayoutGallery,
		Settings:  settings,
		CreatedAt: time.Now().UTC(),
	}
}
