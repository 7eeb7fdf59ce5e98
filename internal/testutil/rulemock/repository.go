package rulemock

import (
	"context"
	"sort"

	"approval-backend/internal/domain/approval"
)

// Repo is a function-field mock of approval.RuleRepository. With no
// function fields set it serves Rules, applying the deterministic
// (priority desc, name asc) evaluation order itself.
type Repo struct {
	Rules []approval.Rule

	CreateFn            func(ctx context.Context, r *approval.Rule) error
	ListActiveForKindFn func(ctx context.Context, kind approval.EntityKind) ([]approval.Rule, error)
	ListFn              func(ctx context.Context, kind approval.EntityKind) ([]approval.Rule, error)
}

func (m *Repo) Create(ctx context.Context, r *approval.Rule) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	m.Rules = append(m.Rules, *r)
	return nil
}

func (m *Repo) ListActiveForKind(ctx context.Context, kind approval.EntityKind) ([]approval.Rule, error) {
	if m.ListActiveForKindFn != nil {
		return m.ListActiveForKindFn(ctx, kind)
	}
	var out []approval.Rule
	for _, r := range m.Rules {
		if r.EntityKind == kind && r.IsActive {
			out = append(out, r)
		}
	}
	sortRules(out)
	return out, nil
}

func (m *Repo) List(ctx context.Context, kind approval.EntityKind) ([]approval.Rule, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, kind)
	}
	var out []approval.Rule
	for _, r := range m.Rules {
		if kind == "" || r.EntityKind == kind {
			out = append(out, r)
		}
	}
	sortRules(out)
	return out, nil
}

func sortRules(rules []approval.Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		return rules[i].Name < rules[j].Name
	})
}
