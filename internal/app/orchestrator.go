package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/openseminar/server/internal/core"
	"github.com/openseminar/server/internal/domain"
)

// Orchestrator is the transport-independent command surface. Every
// command resolves the target session, applies the mutation under that
// room's own serialization, and returns a snapshot or a typed error.
type Orchestrator struct {
	Sessions *SessionManager
	Identity core.IdentityResolver
	Pub      core.Publisher
	Journal  *Journal
}

func NewOrchestrator(sessions *SessionManager, identity core.IdentityResolver, pub core.Publisher, journal *Journal) *Orchestrator {
	return &Orchestrator{Sessions: sessions, Identity: identity, Pub: pub, Journal: journal}
}

// ---- room lifecycle ----

func (o *Orchestrator) CreateRoom(sessionID domain.SessionID, hostID domain.UserID, capacity int, settings domain.RoomSettings) (domain.Room, error) {
	room := domain.NewRoom(sessionID, hostID, capacity, settings)
	if _, err := o.Sessions.Create(room, o.Pub, o.Journal); err != nil {
		return domain.Room{}, err
	}
	o.Journal.SaveRoom(room)
	log.Info().Str("module", "app.orchestrator").Str("room", string(room.ID)).
		Str("session", string(sessionID)).Msg("room created")
	return room, nil
}

func (o *Orchestrator) StartRoom(roomID domain.RoomID, caller domain.UserID) (domain.Room, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.Room{}, err
	}
	return s.Start(caller)
}

func (o *Orchestrator) EndRoom(roomID domain.RoomID, caller domain.UserID) (domain.Room, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.Room{}, err
	}
	return s.End(caller)
}

func (o *Orchestrator) CancelRoom(roomID domain.RoomID, caller domain.UserID) (domain.Room, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.Room{}, err
	}
	return s.Cancel(caller)
}

func (o *Orchestrator) UpdateLayout(roomID domain.RoomID, caller domain.UserID, layout domain.Layout) (domain.Room, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return domain.Room{}, err
	}
	return s.UpdateLayout(caller, layout)
}

// ---- snapshot reads ----

func (o *Orchestrator) Rooms() []core.RoomInfo { return o.Sessions.List() }

func (o *Orchestrator) Snapshot(roomID domain.RoomID) (core.RoomSnapshot, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return core.RoomSnapshot{}, err
	}
	return s.Snapshot(), nil
}

func (o *Orchestrator) Participants(roomID domain.RoomID) ([]domain.Participant, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return nil, err
	}
	return s.Participants(), nil
}

func (o *Orchestrator) Breakouts(roomID domain.RoomID) ([]core.BreakoutSnapshot, error) {
	s, err := o.Sessions.Get(roomID)
	if err != nil {
		return nil, err
	}
	return s.Breakouts(), nil
}

// displayName resolves an id for event payloads, falling back to the
// raw id when the identity collaborator has nothing.
func (o *Orchestrator) displayName(ctx context.Context, id domain.UserID) string {
	ident, err := o.Identity.Resolve(ctx, id)
	if err != nil || ident.DisplayName == "" {
		return string(id)
	}
	return ident.DisplayName
}
