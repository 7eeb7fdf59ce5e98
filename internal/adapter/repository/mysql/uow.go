package mysql

import (
	"context"

	"approval-backend/internal/domain/approval"
	"approval-backend/internal/domain/registry"
	"approval-backend/internal/domain/uow"

	"gorm.io/gorm"
)

// TxBinder is implemented by stores that can rebind to a transaction.
// EntityStore implements it; stores that don't are used as-is.
type TxBinder interface {
	WithTx(tx *gorm.DB) registry.Store
}

type GormUoW struct {
	db  *gorm.DB
	reg *registry.Registry
}

func NewGormUoW(db *gorm.DB, reg *registry.Registry) *GormUoW {
	return &GormUoW{db: db, reg: reg}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(u.repos(tx))
	})
}

func (u *GormUoW) WithinEntityTx(ctx context.Context, ref approval.EntityRef, fn func(r uow.Repos, it *registry.Item) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := u.repos(tx)
		store, err := r.Stores.Store(ref.Kind)
		if err != nil {
			return err
		}
		// lock the entity row up-front so concurrent transitions serialize
		it, err := store.GetForUpdate(ctx, ref.ID)
		if err != nil {
			return err
		}
		return fn(r, it)
	})
}

func (u *GormUoW) repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Audit:  NewAuditRepository(tx),
		Rules:  NewRuleRepository(tx),
		Queues: NewQueueRepository(tx),
		Stores: &txResolver{reg: u.reg, tx: tx},
	}
}

type txResolver struct {
	reg *registry.Registry
	tx  *gorm.DB
}

func (r *txResolver) Store(kind approval.EntityKind) (registry.Store, error) {
	s, err := r.reg.Store(kind)
	if err != nil {
		return nil, err
	}
	if b, ok := s.(TxBinder); ok {
		return b.WithTx(r.tx), nil
	}
	return s, nil
}
