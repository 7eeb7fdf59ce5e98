package queuemock

import (
	"context"
	"fmt"
	"sort"

	"approval-backend/internal/domain/approval"
)

// Repo is a function-field mock of approval.QueueRepository backed by
// Queues when no function fields are set.
type Repo struct {
	Queues []approval.Queue

	CreateFn          func(ctx context.Context, q *approval.Queue) error
	GetActiveBySlugFn func(ctx context.Context, slug string) (*approval.Queue, error)
	ListActiveFn      func(ctx context.Context) ([]approval.Queue, error)
	ListFn            func(ctx context.Context) ([]approval.Queue, error)
}

func (m *Repo) Create(ctx context.Context, q *approval.Queue) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, q)
	}
	m.Queues = append(m.Queues, *q)
	return nil
}

func (m *Repo) GetActiveBySlug(ctx context.Context, slug string) (*approval.Queue, error) {
	if m.GetActiveBySlugFn != nil {
		return m.GetActiveBySlugFn(ctx, slug)
	}
	for i := range m.Queues {
		if m.Queues[i].Slug == slug && m.Queues[i].IsActive {
			q := m.Queues[i]
			return &q, nil
		}
	}
	return nil, fmt.Errorf("%w: queue %s", approval.ErrNotFound, slug)
}

func (m *Repo) ListActive(ctx context.Context) ([]approval.Queue, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx)
	}
	var out []approval.Queue
	for _, q := range m.Queues {
		if q.IsActive {
			out = append(out, q)
		}
	}
	sortQueues(out)
	return out, nil
}

func (m *Repo) List(ctx context.Context) ([]approval.Queue, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	out := append([]approval.Queue(nil), m.Queues...)
	sortQueues(out)
	return out, nil
}

func sortQueues(queues []approval.Queue) {
	sort.SliceStable(queues, func(i, j int) bool {
		if queues[i].DisplayOrder != queues[j].DisplayOrder {
			return queues[i].DisplayOrder < queues[j].DisplayOrder
		}
		return queues[i].Name < queues[j].Name
	})
}
