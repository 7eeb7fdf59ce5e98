package mysql

import (
	"context"
	"time"

	"approval-backend/internal/domain/approval"

	"gorm.io/gorm"
)

// AuditRepository persists approval_logs. It deliberately has no update or
// delete methods; the AuditLog gorm hooks reject mutation attempts that
// reach the ORM some other way.
type AuditRepository struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) *AuditRepository { return &AuditRepository{db: db} }

func (r *AuditRepository) Append(ctx context.Context, entry *approval.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *AuditRepository) ListByEntity(ctx context.Context, ref approval.EntityRef) ([]approval.AuditLog, error) {
	var out []approval.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_kind = ? AND entity_id = ?", ref.Kind, ref.ID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]approval.AuditLog, error) {
	var out []approval.AuditLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *AuditRepository) CountByActionSince(ctx context.Context, since time.Time) (map[approval.Action]int64, error) {
	var rows []struct {
		Action approval.Action
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&approval.AuditLog{}).
		Select("action, COUNT(*) AS n").
		Where("created_at >= ?", since).
		Group("action").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[approval.Action]int64, len(rows))
	for _, row := range rows {
		out[row.Action] = row.N
	}
	return out, nil
}

func (r *AuditRepository) CountByUserSince(ctx context.Context, since time.Time, limit int) ([]approval.UserActionCount, error) {
	var rows []struct {
		PerformedBy string
		N           int64
	}
	err := r.db.WithContext(ctx).
		Model(&approval.AuditLog{}).
		Select("performed_by, COUNT(*) AS n").
		Where("created_at >= ? AND performed_by IS NOT NULL", since).
		Group("performed_by").
		Order("n DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]approval.UserActionCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, approval.UserActionCount{User: row.PerformedBy, Count: row.N})
	}
	return out, nil
}

func (r *AuditRepository) CountByKindSince(ctx context.Context, since time.Time) (map[approval.EntityKind]int64, error) {
	var rows []struct {
		EntityKind approval.EntityKind
		N          int64
	}
	err := r.db.WithContext(ctx).
		Model(&approval.AuditLog{}).
		Select("entity_kind, COUNT(*) AS n").
		Where("created_at >= ?", since).
		Group("entity_kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[approval.EntityKind]int64, len(rows))
	for _, row := range rows {
		out[row.EntityKind] = row.N
	}
	return out, nil
}
