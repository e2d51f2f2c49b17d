package core

import (
	"time"

	"github.com/openseminar/server/internal/domain"
)

// Event types use snake_case discriminators on the wire.
const (
	EvRoomStarted         = "room_started"
	EvRoomEnded           = "room_ended"
	EvRoomCancelled       = "room_cancelled"
	EvLayoutChanged       = "layout_changed"
	EvParticipantJoined   = "participant_joined"
	EvParticipantWaiting  = "participant_waiting"
	EvParticipantAdmitted = "participant_admitted"
	EvParticipantLeft     = "participant_left"
	EvHandRaised          = "hand_raised"
	EvMediaStateChanged   = "media_state_changed"
	EvScreenShareStarted  = "screen_share_started"
	EvScreenShareStopped  = "screen_share_stopped"
	EvSpeakingQueueUpdate = "speaking_queue_updated"
	EvBreakoutsCreated    = "breakout_rooms_created"
	EvBreakoutUpdated     = "breakout_room_updated"
	EvBreakoutStarted     = "breakout_started"
	EvBreakoutClosed      = "breakout_closed"
	EvReturnToMain        = "return_to_main"
	EvBroadcastMessage    = "broadcast_message"
	EvChatMessage         = "chat_message"
	EvReaction            = "reaction"
)

// Event is one accepted state transition, published to every
// subscriber of the affected room. Delivery is at-most-once;
// reconnecting clients resync via snapshot queries.
type Event struct {
	Type    string        `json:"type"`
	RoomID  domain.RoomID `json:"roomId"`
	Payload any           `json:"payload,omitempty"`
	At      time.Time     `json:"timestamp"`
}

func NewEvent(typ string, roomID domain.RoomID, payload any) Event {
	return Event{Type: typ, RoomID: roomID, Payload: payload, At: time.Now().UTC()}
}

// Payload shapes mirror what clients render.

type MediaStatePayload struct {
	ParticipantID domain.ParticipantID `json:"participantId"`
	UserID        domain.UserID        `json:"userId"`
	Muted         *bool                `json:"isMuted,omitempty"`
	VideoOn       *bool                `json:"isVideoOn,omitempty"`
	ScreenSharing *bool                `json:"isScreenSharing,omitempty"`
}

type HandRaisedPayload struct {
	ParticipantID domain.ParticipantID `json:"participantId"`
	UserID        domain.UserID        `json:"userId"`
	Raised        bool                 `json:"isRaised"`
}

type LayoutChangedPayload struct {
	Layout domain.Layout `json:"layout"`
}

type ReturnToMainPayload struct {
	UserID     domain.UserID     `json:"userId"`
	BreakoutID domain.BreakoutID `json:"breakoutRoomId"`
}

type BroadcastMessagePayload struct {
	SenderID   domain.UserID     `json:"senderId"`
	SenderName string            `json:"senderName"`
	Message    string            `json:"message"`
	BreakoutID domain.BreakoutID `json:"breakoutRoomId"`
	SentAt     time.Time         `json:"sentAt"`
}
