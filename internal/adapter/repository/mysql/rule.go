package mysql

import (
	"context"

	"approval-backend/internal/domain/approval"

	"gorm.io/gorm"
)

type RuleRepository struct{ db *gorm.DB }

func NewRuleRepository(db *gorm.DB) *RuleRepository { return &RuleRepository{db: db} }

func (r *RuleRepository) Create(ctx context.Context, rule *approval.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(rule).Error
}

// ListActiveForKind returns rules in evaluation order. The ordering here is
// what makes rule evaluation deterministic; keep it in the query.
func (r *RuleRepository) ListActiveForKind(ctx context.Context, kind approval.EntityKind) ([]approval.Rule, error) {
	var out []approval.Rule
	err := r.db.WithContext(ctx).
		Where("entity_kind = ? AND is_active = ?", kind, true).
		Order("priority DESC, name ASC").
		Find(&out).Error
	return out, err
}

func (r *RuleRepository) List(ctx context.Context, kind approval.EntityKind) ([]approval.Rule, error) {
	q := r.db.WithContext(ctx)
	if kind != "" {
		q = q.Where("entity_kind = ?", kind)
	}
	var out []approval.Rule
	err := q.Order("priority DESC, name ASC").Find(&out).Error
	return out, err
}
