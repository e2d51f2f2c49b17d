// Package identity holds IdentityResolver implementations. The real
// platform resolves users against its account service; StaticResolver
// serves standalone runs and tests.
package identity

import (
	"context"
	"sync"

	"github.com/openseminar/server/internal/core"
	"github.com/openseminar/server/internal/domain"
)

type StaticResolver struct {
	mu    sync.RWMutex
	names map[domain.UserID]string
}

func NewStaticResolver() *StaticResolver {
	return &StaticResolver{names: make(map[domain.UserID]string)}
}

func (r *StaticResolver) Register(id domain.UserID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[id] = name
}

func (r *StaticResolver) Resolve(_ context.Context, id domain.UserID) (core.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.names[id]; ok {
		return core.Identity{DisplayName: name}, nil
	}
	return core.Identity{}, domain.ErrNotFound("unknown user %s", id)
}
