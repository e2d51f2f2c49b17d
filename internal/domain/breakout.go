package domain

import (
	"time"

	"github.com/google/uuid"
)

type BreakoutID string

type BreakoutStatus string

const (
	BreakoutPending BreakoutStatus = "PENDING"
	BreakoutActive  BreakoutStatus = "ACTIVE"
	BreakoutClosed  BreakoutStatus = "CLOSED"
)

type AssignmentMethod string

const (
	AssignManual   AssignmentMethod = "MANUAL"
	AssignRandom   AssignmentMethod = "RANDOM"
	AssignBalanced AssignmentMethod = "BALANCED"
)

func ValidAssignmentMethod(m AssignmentMethod) bool {
	switch m {
	case AssignManual, AssignRandom, AssignBalanced:
		return true
	}
	return false
}

// BreakoutRoom is a sub-session owning a disjoint subset of the
// parent room's participants for its lifetime.
type BreakoutRoom struct {
	ID              BreakoutID     `json:"id"`
	ParentID        RoomID         `json:"parentId"`
	Number          int            `json:"roomNumber"`
	Name            string         `json:"name"`
	Topic           string         `json:"topic,omitempty"`
	Capacity        int            `json:"capacity,omitempty"`
	DurationMinutes int            `json:"durationMinutes,omitempty"`
	Status          BreakoutStatus `json:"status"`
	CreatedAt       time.Time      `json:"createdAt"`
	StartedAt       *time.Time     `json:"startedAt,omitempty"`
	ClosedAt        *time.Time     `json:"closedAt,omitempty"`
}

func NewBreakoutRoom(parentID RoomID, number int, name, topic string) BreakoutRoom {
	return BreakoutRoom{
		ID:        BreakoutID(uuid.NewString()),
		ParentID:  parentID,
		Number:    number,
		Name:      name,
		Topic:     topic,
		Status:    BreakoutPending,
		CreatedAt: time.Now().UTC(),
	}
}
