package app

import (
	"github.com/openseminar/server/internal/domain"
)

func (o *Orchestrator) EnqueueSpeaker(roomID domain.RoomID, userID domain.UserID, topic string) (domain.SpeakingQueueEntry, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.SpeakingQueueEntry{}, err
	}
	return s.Enqueue(userID, topic)
}

func (o *Orchestrator) DequeueSpeaker(roomID domain.RoomID, caller domain.UserID, entryID domain.EntryID) (domain.SpeakingQueueEntry, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.SpeakingQueueEntry{}, err
	}
	return s.Dequeue(caller, entryID)
}

func (o *Orchestrator) GrantTurn(roomID domain.RoomID, caller domain.UserID, entryID domain.EntryID) (domain.SpeakingQueueEntry, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.SpeakingQueueEntry{}, err
	}
	return s.GrantTurn(caller, entryID)
}

func (o *Orchestrator) CompleteTurn(roomID domain.RoomID, caller domain.UserID, entryID domain.EntryID) (domain.SpeakingQueueEntry, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.SpeakingQueueEntry{}, err
	}
	return s.CompleteTurn(caller, entryID)
}

func (o *Orchestrator) ListQueue(roomID domain.RoomID) ([]domain.SpeakingQueueEntry, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return nil, err
	}
	return s.Queue(), nil
}
