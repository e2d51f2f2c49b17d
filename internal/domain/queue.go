package domain

import (
	"time"

	"github.com/google/uuid"
)

type EntryID string

type SpeakingStatus string

const (
	SpeakingWaiting SpeakingStatus = "WAITING"
	SpeakingGranted SpeakingStatus = "GRANTED"
	SpeakingDone    SpeakingStatus = "DONE"
)

// SpeakingQueueEntry is one request for the conversational floor.
// Positions strictly increase per room and are never reused,
// so ordering survives removals without renumbering.
type SpeakingQueueEntry struct {
	ID          EntryID        `json:"id"`
	RoomID      RoomID         `json:"roomId"`
	UserID      UserID         `json:"userId"`
	DisplayName string         `json:"userName"`
	Position    int            `json:"position"`
	Status      SpeakingStatus `json:"status"`
	Topic       string         `json:"topic,omitempty"`
	RequestedAt time.Time      `json:"requestedAt"`
	GrantedAt   *time.Time     `json:"grantedAt,omitempty"`
	DoneAt      *time.Time     `json:"doneAt,omitempty"`
}

func NewSpeakingQueueEntry(roomID RoomID, userID UserID, name string, position int, topic string) SpeakingQueueEntry {
	return SpeakingQueueEntry{
		ID:          EntryID(uuid.NewString()),
		RoomID:      roomID,
		UserID:      userID,
		DisplayName: name,
		Position:    position,
		Status:      SpeakingWaiting,
		Topic:       topic,
		RequestedAt: time.Now().UTC(),
	}
}
