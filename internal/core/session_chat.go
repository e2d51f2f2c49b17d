package core

import (
	"time"

	"github.com/openseminar/server/internal/domain"
)

// Chat and reactions are transient: they ride the broadcaster and are
// never persisted here. A sender inside an active breakout chats into
// that breakout's channel, not the whole room.

func (s *Session) SendChat(userID domain.UserID, typ domain.ChatMessageType, content string) (domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.room.Settings.ChatDisabled {
		return domain.ChatMessage{}, domain.ErrPermissionDenied("chat is disabled in this room")
	}
	p, ok := s.active[userID]
	if !ok {
		return domain.ChatMessage{}, domain.ErrNotFound("user %s is not in the room", userID)
	}
	if p.Status != domain.ParticipantJoined {
		return domain.ChatMessage{}, domain.ErrInvalidState("participant is %s, not JOINED", p.Status)
	}

	target := s.room.ID
	msg := domain.NewChatMessage(s.room.ID, userID, p.DisplayName, typ, content)
	if bid, ok := s.memberOf[userID]; ok && s.breakouts[bid].Status == domain.BreakoutActive {
		target = domain.RoomID(bid)
	}
	s.publishLocked(NewEvent(EvChatMessage, target, msg))
	return msg, nil
}

func (s *Session) SendReaction(userID domain.UserID, typ domain.ReactionType) (domain.Reaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.active[userID]
	if !ok {
		return domain.Reaction{}, domain.ErrNotFound("user %s is not in the room", userID)
	}
	if p.Status != domain.ParticipantJoined {
		return domain.Reaction{}, domain.ErrInvalidState("participant is %s, not JOINED", p.Status)
	}
	r := domain.Reaction{
		RoomID:          s.room.ID,
		ParticipantID:   p.ID,
		ParticipantName: p.DisplayName,
		Type:            typ,
		CreatedAt:       time.Now().UTC(),
	}
	s.publishLocked(NewEvent(EvReaction, s.room.ID, r))
	return r, nil
}
