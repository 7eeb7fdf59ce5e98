package mysql

import (
	"context"
	"errors"
	"fmt"

	"approval-backend/internal/domain/approval"

	"gorm.io/gorm"
)

type QueueRepository struct{ db *gorm.DB }

func NewQueueRepository(db *gorm.DB) *QueueRepository { return &QueueRepository{db: db} }

func (r *QueueRepository) Create(ctx context.Context, q *approval.Queue) error {
	if err := q.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *QueueRepository) GetActiveBySlug(ctx context.Context, slug string) (*approval.Queue, error) {
	var out approval.Queue
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: queue %s", approval.ErrNotFound, slug)
		}
		return nil, err
	}
	return &out, nil
}

func (r *QueueRepository) ListActive(ctx context.Context) ([]approval.Queue, error) {
	var out []approval.Queue
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, name ASC").
		Find(&out).Error
	return out, err
}

func (r *QueueRepository) List(ctx context.Context) ([]approval.Queue, error) {
	var out []approval.Queue
	err := r.db.WithContext(ctx).
		Order("display_order ASC, name ASC").
		Find(&out).Error
	return out, err
}
