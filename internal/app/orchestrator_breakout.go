package app

import (
	"context"

	"github.com/openseminar/server/internal/core"
	"github.com/openseminar/server/internal/domain"
)

// CreateBreakoutRooms accepts either an explicit spec list or a bare
// count; a count expands to that many unnamed rooms.
func (o *Orchestrator) CreateBreakoutRooms(roomID domain.RoomID, caller domain.UserID, count int, specs []core.BreakoutSpec) ([]domain.BreakoutRoom, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		if count <= 0 {
			return nil, domain.ErrInvalidState("either a room count or an explicit room list is required")
		}
		specs = make([]core.BreakoutSpec, count)
	}
	return s.CreateBreakouts(caller, specs)
}

func (o *Orchestrator) AssignParticipants(roomID domain.RoomID, caller domain.UserID, assignments []core.Assignment) ([]core.AssignmentResult, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return nil, err
	}
	return s.Assign(caller, assignments)
}

func (o *Orchestrator) AssignParticipantsAuto(roomID domain.RoomID, caller domain.UserID, method domain.AssignmentMethod) ([]core.AssignmentResult, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return nil, err
	}
	return s.AssignAuto(caller, method)
}

func (o *Orchestrator) StartBreakout(roomID domain.RoomID, caller domain.UserID, breakoutID domain.BreakoutID) (domain.BreakoutRoom, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.BreakoutRoom{}, err
	}
	return s.StartBreakout(caller, breakoutID)
}

func (o *Orchestrator) CloseBreakout(roomID domain.RoomID, caller domain.UserID, breakoutID domain.BreakoutID) (domain.BreakoutRoom, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.BreakoutRoom{}, err
	}
	return s.CloseBreakout(caller, breakoutID)
}

func (o *Orchestrator) BroadcastToBreakouts(ctx context.Context, roomID domain.RoomID, caller domain.UserID, message string) ([]core.DeliveryResult, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return nil, err
	}
	return s.BroadcastToBreakouts(caller, o.displayName(ctx, caller), message)
}
