package app

import (
	"context"

	"github.com/openseminar/server/internal/domain"
)

func (o *Orchestrator) JoinRoom(ctx context.Context, roomID domain.RoomID, userID domain.UserID, prefs domain.MediaPrefs) (domain.Participant, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.Participant{}, err
	}
	return s.Join(userID, o.displayName(ctx, userID), prefs)
}

func (o *Orchestrator) LeaveRoom(roomID domain.RoomID, userID domain.UserID) (domain.Participant, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.Participant{}, err
	}
	return s.Leave(userID)
}

func (o *Orchestrator) AdmitParticipant(roomID domain.RoomID, caller domain.UserID, participantID domain.ParticipantID) (domain.Participant, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.Participant{}, err
	}
	return s.Admit(caller, participantID)
}

func (o *Orchestrator) Heartbeat(roomID domain.RoomID, userID domain.UserID) error {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return err
	}
	return s.Heartbeat(userID)
}

func (o *Orchestrator) RaiseHand(roomID domain.RoomID, userID domain.UserID) (domain.Participant, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.Participant{}, err
	}
	return s.SetHandRaised(userID, true)
}

func (o *Orchestrator) LowerHand(roomID domain.RoomID, userID domain.UserID) (domain.Participant, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.Participant{}, err
	}
	return s.SetHandRaised(userID, false)
}

func (o *Orchestrator) SendChat(roomID domain.RoomID, userID domain.UserID, typ domain.ChatMessageType, content string) (domain.ChatMessage, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	return s.SendChat(userID, typ, content)
}

func (o *Orchestrator) SendReaction(roomID domain.RoomID, userID domain.UserID, typ domain.ReactionType) (domain.Reaction, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.Reaction{}, err
	}
	return s.SendReaction(userID, typ)
}
