package app

import (
	"github.com/openseminar/server/internal/domain"
)

func (o *Orchestrator) ToggleMute(roomID domain.RoomID, userID domain.UserID) (domain.Participant, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.Participant{}, err
	}
	return s.ToggleMute(userID)
}

func (o *Orchestrator) ToggleVideo(roomID domain.RoomID, userID domain.UserID) (domain.Participant, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.Participant{}, err
	}
	return s.ToggleVideo(userID)
}

func (o *Orchestrator) StartScreenShare(roomID domain.RoomID, userID domain.UserID) (domain.Participant, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.Participant{}, err
	}
	return s.StartScreenShare(userID)
}

func (o *Orchestrator) StopScreenShare(roomID domain.RoomID, userID domain.UserID) (domain.Participant, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.Participant{}, err
	}
	return s.StopScreenShare(userID)
}
