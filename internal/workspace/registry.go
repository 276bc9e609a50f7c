package workspace

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/localstore"
)

// Registry maps device ids to their workspace
type Registry struct {
	storage localstore.Backend
	deps    Deps

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewRegistry(storage localstore.Backend, deps Deps) *Registry {
	return &Registry{
		storage:    storage,
		deps:       deps,
		workspaces: make(map[string]*Workspace),
	}
}

// Open performs a page load: the device gets a fresh workspace and any
// previous one is dropped.
func (r *Registry) Open(ctx context.Context, deviceID string) *Workspace {
	ws := New(ctx, localstore.ForDevice(r.storage, deviceID), r.deps)

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.workspaces[deviceID]; ok {
		prev.replaced.Store(true)
	}
	r.workspaces[deviceID] = ws
	return ws
}

// Get returns the device's workspace, performing a page load if it has none
func (r *Registry) Get(ctx context.Context, deviceID string) *Workspace {
	r.mu.Lock()
	ws, ok := r.workspaces[deviceID]
	r.mu.Unlock()
	if ok {
		return ws
	}
	return r.Open(ctx, deviceID)
}

// Len returns how many workspaces are held
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// Prune drops workspaces unused for longer than maxIdle. Their devices get a
// fresh page load on the next request; stored sessions are untouched.
func (r *Registry) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()
	pruned := 0
	for id, ws := range r.workspaces {
		if ws.idleSince().Before(cutoff) {
			delete(r.workspaces, id)
			pruned++
		}
	}
	return pruned
}

// RunPruner prunes every interval until ctx is done
func (r *Registry) RunPruner(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Prune(maxIdle); n > 0 {
				log.Printf("Pruned %d idle workspaces", n)
			}
		}
	}
}
