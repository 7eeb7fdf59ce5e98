package mysql

import (
	"context"
	"errors"
	"fmt"

	"approval-backend/internal/domain/approval"
	"approval-backend/internal/domain/registry"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// entityRow scans the shared approval columns out of any approvable table.
// Extra entity-specific columns are ignored by the typed scan.
type entityRow struct {
	ID                  uint64 `gorm:"column:id"`
	approval.Approvable `gorm:"embedded"`
}

// EntityStore adapts one approvable table to registry.Store. Entity modules
// construct one per kind and register it; the engine itself never learns
// the table's full schema, only the embedded approval columns plus a raw
// attribute map for rule matching.
type EntityStore struct {
	db    *gorm.DB
	kind  approval.EntityKind
	table string
}

func NewEntityStore(db *gorm.DB, kind approval.EntityKind, table string) *EntityStore {
	return &EntityStore{db: db, kind: kind, table: table}
}

// WithTx rebinds the store to a transaction (used by the unit of work).
func (s *EntityStore) WithTx(tx *gorm.DB) registry.Store {
	return &EntityStore{db: tx, kind: s.kind, table: s.table}
}

func (s *EntityStore) Get(ctx context.Context, id uint64) (*registry.Item, error) {
	return s.fetch(ctx, id, false)
}

func (s *EntityStore) GetForUpdate(ctx context.Context, id uint64) (*registry.Item, error) {
	return s.fetch(ctx, id, true)
}

func (s *EntityStore) fetch(ctx context.Context, id uint64, lock bool) (*registry.Item, error) {
	q := s.db.WithContext(ctx).Table(s.table).Where("id = ?", id)
	// sqlite has no row locks; the test dialect just skips the clause
	if lock && s.db.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row entityRow
	if err := q.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s:%d", approval.ErrNotFound, s.kind, id)
		}
		return nil, err
	}

	attrs := map[string]any{}
	if err := s.db.WithContext(ctx).Table(s.table).Where("id = ?", id).Take(&attrs).Error; err != nil {
		return nil, err
	}

	return &registry.Item{
		Ref:        approval.EntityRef{Kind: s.kind, ID: row.ID},
		State:      row.Approvable,
		Attributes: normalizeAttrs(attrs),
	}, nil
}

// Save writes only the shared approval columns, leaving the entity's own
// fields untouched.
func (s *EntityStore) Save(ctx context.Context, id uint64, st *approval.Approvable) error {
	res := s.db.WithContext(ctx).Table(s.table).Where("id = ?", id).Updates(map[string]any{
		"approval_status":   st.Status,
		"approval_priority": st.Priority,
		"submitted_by":      st.SubmittedBy,
		"submitted_at":      st.SubmittedAt,
		"reviewed_by":       st.ReviewedBy,
		"reviewed_at":       st.ReviewedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s:%d", approval.ErrNotFound, s.kind, id)
	}
	return nil
}

func (s *EntityStore) Count(ctx context.Context, f registry.Filter) (int64, error) {
	var n int64
	err := s.filtered(ctx, f).Count(&n).Error
	return n, err
}

func (s *EntityStore) List(ctx context.Context, f registry.Filter, limit int) ([]registry.Item, error) {
	var rows []entityRow
	q := s.filtered(ctx, f).Order("submitted_at IS NULL DESC, submitted_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return s.items(rows), nil
}

func (s *EntityStore) ListBySubmitter(ctx context.Context, user string) ([]registry.Item, error) {
	var rows []entityRow
	err := s.db.WithContext(ctx).Table(s.table).
		Where("submitted_by = ?", user).
		Order("submitted_at IS NULL DESC, submitted_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return s.items(rows), nil
}

func (s *EntityStore) filtered(ctx context.Context, f registry.Filter) *gorm.DB {
	q := s.db.WithContext(ctx).Table(s.table).Where("approval_status = ?", f.Status)
	if f.Priority != "" {
		q = q.Where("approval_priority = ?", f.Priority)
	}
	return q
}

func (s *EntityStore) items(rows []entityRow) []registry.Item {
	out := make([]registry.Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, registry.Item{
			Ref:   approval.EntityRef{Kind: s.kind, ID: row.ID},
			State: row.Approvable,
		})
	}
	return out
}

// normalizeAttrs makes raw driver values comparable by the rule engine:
// []byte columns become strings, everything else passes through.
func normalizeAttrs(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if b, ok := v.([]byte); ok {
			out[k] = string(b)
			continue
		}
		out[k] = v
	}
	return out
}
