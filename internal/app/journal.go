package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/openseminar/server/internal/core"
	"github.com/openseminar/server/internal/domain"
)

// Journal decouples persistence from command handling: sessions record
// writes while holding their lock, a single worker drains them to the
// repository. A slow datastore stalls the worker, never a room. A
// failed write is logged and dropped, not rolled back; accepted state
// stands.
type Journal struct {
	repo core.Repository
	ch   chan func(context.Context) error
}

func NewJournal(repo core.Repository, depth int) *Journal {
	if depth <= 0 {
		depth = 1024
	}
	return &Journal{
		repo: repo,
		ch:   make(chan func(context.Context) error, depth),
	}
}

// Run drains the journal until ctx is cancelled.
func (j *Journal) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-j.ch:
			if err := op(ctx); err != nil {
				log.Error().Err(err).Str("module", "app.journal").Msg("persistence write failed")
			}
		}
	}
}

func (j *Journal) enqueue(op func(context.Context) error) {
	select {
	case j.ch <- op:
	default:
		log.Warn().Str("module", "app.journal").Msg("journal full, dropping write")
	}
}

func (j *Journal) SaveRoom(room domain.Room) {
	j.enqueue(func(ctx context.Context) error { return j.repo.SaveRoom(ctx, room) })
}

func (j *Journal) SaveParticipant(p domain.Participant) {
	j.enqueue(func(ctx context.Context) error { return j.repo.SaveParticipant(ctx, p) })
}

func (j *Journal) SaveBreakout(b domain.BreakoutRoom) {
	j.enqueue(func(ctx context.Context) error { return j.repo.SaveBreakout(ctx, b) })
}

func (j *Journal) SaveQueueEntry(e domain.SpeakingQueueEntry) {
	j.enqueue(func(ctx context.Context) error { return j.repo.SaveQueueEntry(ctx, e) })
}
