package auditmock

import (
	"context"
	"sync"
	"time"

	"approval-backend/internal/domain/approval"
)

// Repo is a function-field mock of approval.AuditRepository. When AppendFn
// is nil, Append records entries into Entries so tests can inspect the
// trail that was written.
type Repo struct {
	mu      sync.Mutex
	Entries []approval.AuditLog

	AppendFn             func(ctx context.Context, entry *approval.AuditLog) error
	ListByEntityFn       func(ctx context.Context, ref approval.EntityRef) ([]approval.AuditLog, error)
	ListRecentFn         func(ctx context.Context, limit int) ([]approval.AuditLog, error)
	CountByActionSinceFn func(ctx context.Context, since time.Time) (map[approval.Action]int64, error)
	CountByUserSinceFn   func(ctx context.Context, since time.Time, limit int) ([]approval.UserActionCount, error)
	CountByKindSinceFn   func(ctx context.Context, since time.Time) (map[approval.EntityKind]int64, error)
}

func (m *Repo) Append(ctx context.Context, entry *approval.AuditLog) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e := *entry
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	m.Entries = append(m.Entries, e)
	return nil
}

func (m *Repo) ListByEntity(ctx context.Context, ref approval.EntityRef) ([]approval.AuditLog, error) {
	if m.ListByEntityFn != nil {
		return m.ListByEntityFn(ctx, ref)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []approval.AuditLog
	for i := len(m.Entries) - 1; i >= 0; i-- {
		if m.Entries[i].Ref() == ref {
			out = append(out, m.Entries[i])
		}
	}
	return out, nil
}

func (m *Repo) ListRecent(ctx context.Context, limit int) ([]approval.AuditLog, error) {
	if m.ListRecentFn != nil {
		return m.ListRecentFn(ctx, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []approval.AuditLog
	for i := len(m.Entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.Entries[i])
	}
	return out, nil
}

func (m *Repo) CountByActionSince(ctx context.Context, since time.Time) (map[approval.Action]int64, error) {
	if m.CountByActionSinceFn != nil {
		return m.CountByActionSinceFn(ctx, since)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[approval.Action]int64{}
	for _, e := range m.Entries {
		if !e.CreatedAt.Before(since) {
			out[e.Action]++
		}
	}
	return out, nil
}

func (m *Repo) CountByUserSince(ctx context.Context, since time.Time, limit int) ([]approval.UserActionCount, error) {
	if m.CountByUserSinceFn != nil {
		return m.CountByUserSinceFn(ctx, since, limit)
	}
	return nil, nil
}

func (m *Repo) CountByKindSince(ctx context.Context, since time.Time) (map[approval.EntityKind]int64, error) {
	if m.CountByKindSinceFn != nil {
		return m.CountByKindSinceFn(ctx, since)
	}
	return nil, nil
}
