package uow

import (
	"context"

	"approval-backend/internal/domain/approval"
	"approval-backend/internal/domain/registry"
)

// StoreResolver resolves an entity kind to a store. Inside a transaction
// the resolver hands out tx-bound stores.
type StoreResolver interface {
	Store(kind approval.EntityKind) (registry.Store, error)
}

type Repos struct {
	Audit  approval.AuditRepository
	Rules  approval.RuleRepository
	Queues approval.QueueRepository
	Stores StoreResolver
}

// UnitOfWork runs a status transition and its audit append as one atomic
// unit: both persist or neither does.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error

	// WithinEntityTx locks the referenced entity row up-front, then runs fn
	// with tx-bound repos and the locked item.
	WithinEntityTx(ctx context.Context, ref approval.EntityRef, fn func(r Repos, it *registry.Item) error) error
}
