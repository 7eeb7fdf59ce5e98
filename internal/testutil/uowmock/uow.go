package uowmock

import (
	"context"

	"approval-backend/internal/domain/approval"
	"approval-backend/internal/domain/registry"
	"approval-backend/internal/domain/uow"
)

// UoW is a function-field mock of uow.UnitOfWork. With no function fields
// set it runs fn directly against Repos without a transaction, loading the
// item via the resolver's GetForUpdate like the real thing.
type UoW struct {
	Repos uow.Repos

	WithinTxFn       func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinEntityTxFn func(ctx context.Context, ref approval.EntityRef, fn func(r uow.Repos, it *registry.Item) error) error
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return fn(m.Repos)
}

func (m *UoW) WithinEntityTx(ctx context.Context, ref approval.EntityRef, fn func(r uow.Repos, it *registry.Item) error) error {
	if m.WithinEntityTxFn != nil {
		return m.WithinEntityTxFn(ctx, ref, fn)
	}
	store, err := m.Repos.Stores.Store(ref.Kind)
	if err != nil {
		return err
	}
	it, err := store.GetForUpdate(ctx, ref.ID)
	if err != nil {
		return err
	}
	return fn(m.Repos, it)
}
