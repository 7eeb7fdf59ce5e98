package approval

import (
	"context"
	"time"
)

// UserActionCount pairs a user with how many audit actions they performed.
type UserActionCount struct {
	User  string `json:"user"`
	Count int64  `json:"count"`
}

// AuditRepository is append-only by construction: there is no update or
// delete. Implementations must keep it that way.
type AuditRepository interface {
	Append(ctx context.Context, entry *AuditLog) error

	// ListByEntity returns the full history for one entity, newest first.
	ListByEntity(ctx context.Context, ref EntityRef) ([]AuditLog, error)
	ListRecent(ctx context.Context, limit int) ([]AuditLog, error)

	CountByActionSince(ctx context.Context, since time.Time) (map[Action]int64, error)
	CountByUserSince(ctx context.Context, since time.Time, limit int) ([]UserActionCount, error)
	CountByKindSince(ctx context.Context, since time.Time) (map[EntityKind]int64, error)
}

type RuleRepository interface {
	Create(ctx context.Context, r *Rule) error

	// ListActiveForKind returns active rules for the kind in evaluation
	// order: priority descending, ties broken by name ascending.
	ListActiveForKind(ctx context.Context, kind EntityKind) ([]Rule, error)

	// List returns all rules, optionally filtered by kind (empty = all),
	// in the same deterministic order.
	List(ctx context.Context, kind EntityKind) ([]Rule, error)
}

type QueueRepository interface {
	Create(ctx context.Context, q *Queue) error
	GetActiveBySlug(ctx context.Context, slug string) (*Queue, error)
	ListActive(ctx context.Context) ([]Queue, error)
	List(ctx context.Context) ([]Queue, error)
}
