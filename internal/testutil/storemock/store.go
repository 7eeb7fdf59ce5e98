package storemock

import (
	"context"
	"fmt"
	"sync"

	"approval-backend/internal/domain/approval"
	"approval-backend/internal/domain/registry"
)

// Store is a function-field mock of registry.Store. With no function fields
// set it acts as a small in-memory store over Items, which covers most
// usecase tests without a database.
type Store struct {
	mu    sync.Mutex
	Kind  approval.EntityKind
	Items map[uint64]*registry.Item

	GetFn             func(ctx context.Context, id uint64) (*registry.Item, error)
	GetForUpdateFn    func(ctx context.Context, id uint64) (*registry.Item, error)
	SaveFn            func(ctx context.Context, id uint64, st *approval.Approvable) error
	CountFn           func(ctx context.Context, f registry.Filter) (int64, error)
	ListFn            func(ctx context.Context, f registry.Filter, limit int) ([]registry.Item, error)
	ListBySubmitterFn func(ctx context.Context, user string) ([]registry.Item, error)
}

func New(kind approval.EntityKind) *Store {
	return &Store{Kind: kind, Items: map[uint64]*registry.Item{}}
}

// Put seeds an item with the given state and attributes.
func (m *Store) Put(id uint64, st approval.Approvable, attrs map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items[id] = &registry.Item{
		Ref:        approval.EntityRef{Kind: m.Kind, ID: id},
		State:      st,
		Attributes: attrs,
	}
}

// State returns a copy of the stored approval state for assertions.
func (m *Store) State(id uint64) approval.Approvable {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it, ok := m.Items[id]; ok {
		return it.State
	}
	return approval.Approvable{}
}

func (m *Store) get(id uint64) (*registry.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.Items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s:%d", approval.ErrNotFound, m.Kind, id)
	}
	cp := *it
	return &cp, nil
}

func (m *Store) Get(ctx context.Context, id uint64) (*registry.Item, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return m.get(id)
}

func (m *Store) GetForUpdate(ctx context.Context, id uint64) (*registry.Item, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, id)
	}
	return m.get(id)
}

func (m *Store) Save(ctx context.Context, id uint64, st *approval.Approvable) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, id, st)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.Items[id]
	if !ok {
		return fmt.Errorf("%w: %s:%d", approval.ErrNotFound, m.Kind, id)
	}
	it.State = *st
	return nil
}

func (m *Store) Count(ctx context.Context, f registry.Filter) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, f)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, it := range m.Items {
		if matches(it, f) {
			n++
		}
	}
	return n, nil
}

func (m *Store) List(ctx context.Context, f registry.Filter, limit int) ([]registry.Item, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []registry.Item
	for _, it := range m.Items {
		if matches(it, f) {
			out = append(out, *it)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *Store) ListBySubmitter(ctx context.Context, user string) ([]registry.Item, error) {
	if m.ListBySubmitterFn != nil {
		return m.ListBySubmitterFn(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []registry.Item
	for _, it := range m.Items {
		if it.State.SubmittedBy != nil && *it.State.SubmittedBy == user {
			out = append(out, *it)
		}
	}
	return out, nil
}

func matches(it *registry.Item, f registry.Filter) bool {
	if it.State.Status != f.Status {
		return false
	}
	if f.Priority != "" && it.State.Priority != f.Priority {
		return false
	}
	return true
}
