package domain

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessageType string

const (
	ChatPublic ChatMessageType = "PUBLIC"
	ChatSystem ChatMessageType = "SYSTEM"
)

const MaxChatContentLen = 2000

// ChatMessage is transient: it travels through the broadcaster only,
// history belongs to the persistence side of the platform.
type ChatMessage struct {
	ID         string          `json:"id"`
	RoomID     RoomID          `json:"roomId"`
	SenderID   UserID          `json:"senderId"`
	SenderName string          `json:"senderName"`
	Type       ChatMessageType `json:"messageType"`
	Content    string          `json:"content"`
	SentAt     time.Time       `json:"sentAt"`
}

func NewChatMessage(roomID RoomID, senderID UserID, senderName string, typ ChatMessageType, content string) ChatMessage {
	return ChatMessage{
		ID:         uuid.NewString(),
		RoomID:     roomID,
		SenderID:   senderID,
		SenderName: senderName,
		Type:       typ,
		Content:    content,
		SentAt:     time.Now().UTC(),
	}
}

type ReactionType string

const (
	ReactionThumbsUp  ReactionType = "THUMBS_UP"
	ReactionClap      ReactionType = "CLAP"
	ReactionHeart     ReactionType = "HEART"
	ReactionLaugh     ReactionType = "LAUGH"
	ReactionSurprised ReactionType = "SURPRISED"
)

func ValidReaction(r ReactionType) bool {
	switch r {
	case ReactionThumbsUp, ReactionClap, ReactionHeart, ReactionLaugh, ReactionSurprised:
		return true
	}
	return false
}

type Reaction struct {
	RoomID          RoomID        `json:"roomId"`
	ParticipantID   ParticipantID `json:"participantId"`
	ParticipantName string        `json:"participantName"`
	Type            ReactionType  `json:"reactionType"`
	CreatedAt       time.Time     `json:"createdAt"`
}
