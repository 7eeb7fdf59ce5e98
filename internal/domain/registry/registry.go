package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"approval-backend/internal/domain/approval"
)

// Filter selects entities of one kind by approval state.
type Filter struct {
	Status   approval.Status
	Priority approval.Priority // empty = all priorities
}

// Item is the engine's view of one attached entity: its reference, its
// approval state, and (when loaded individually) its raw attributes for
// rule condition matching.
type Item struct {
	Ref        approval.EntityRef
	State      approval.Approvable
	Attributes map[string]any
}

// Store gives the engine uniform access to one kind's rows without a
// compile-time dependency on the owning module. A missing row is reported
// as approval.ErrNotFound; callers treat that as a first-class case
// (dangling references), never a panic.
type Store interface {
	Get(ctx context.Context, id uint64) (*Item, error)
	// GetForUpdate locks the row for the enclosing transaction so two
	// concurrent transitions on the same entity serialize.
	GetForUpdate(ctx context.Context, id uint64) (*Item, error)
	Save(ctx context.Context, id uint64, st *approval.Approvable) error

	Count(ctx context.Context, f Filter) (int64, error)
	List(ctx context.Context, f Filter, limit int) ([]Item, error)
	ListBySubmitter(ctx context.Context, user string) ([]Item, error)
}

// Registry is the open set of entity kinds attached to the engine. Modules
// register their kind at startup; the engine never needs to change when a
// kind is added.
type Registry struct {
	mu     sync.RWMutex
	stores map[approval.EntityKind]Store
}

func New() *Registry {
	return &Registry{stores: make(map[approval.EntityKind]Store)}
}

func (g *Registry) Register(kind approval.EntityKind, s Store) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stores[kind] = s
}

// Store resolves a kind to its store, or approval.ErrUnknownEntityKind.
func (g *Registry) Store(kind approval.EntityKind) (Store, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.stores[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", approval.ErrUnknownEntityKind, kind)
	}
	return s, nil
}

// Kinds returns all registered kinds in stable (sorted) order.
func (g *Registry) Kinds() []approval.EntityKind {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]approval.EntityKind, 0, len(g.stores))
	for k := range g.stores {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
