package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Reaper is the liveness sweep: participants that stopped
// heartbeating are taken out through the same exit path a voluntary
// leave uses, and long-terminated sessions are pruned from memory.
// It runs outside any request goroutine.
type Reaper struct {
	Sessions  *SessionManager
	IdleTTL   time.Duration
	Retention time.Duration
	Interval  time.Duration
}

func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *Reaper) sweep() {
	now := time.Now().UTC()
	for _, s := range r.Sessions.All() {
		room := s.Room()
		if room.Status.Terminal() {
			if room.EndedAt != nil && now.Sub(*room.EndedAt) > r.Retention {
				r.Sessions.Remove(room.ID)
				log.Info().Str("module", "app.reaper").Str("room", string(room.ID)).Msg("pruned terminated session")
			}
			continue
		}
		for _, p := range s.ReapIdle(r.IdleTTL) {
			log.Info().Str("module", "app.reaper").Str("room", string(room.ID)).
				Str("user", string(p.UserID)).Msg("reaped idle participant")
		}
	}
}
