package mysql

import (
	"context"
	"errors"
	"testing"

	"approval-backend/internal/domain/approval"
)

func TestRuleRepository_EvaluationOrder(t *testing.T) {
	db := openTestDB(t)
	repo := NewRuleRepository(db)
	ctx := context.Background()

	seed := []approval.Rule{
		{RuleID: "r1r1r1r1r1r1r1r1r1r1r1r1r1r1r1r1", Name: "beta", EntityKind: "activity", IsActive: true, Priority: 10},
		{RuleID: "r2r2r2r2r2r2r2r2r2r2r2r2r2r2r2r2", Name: "alpha", EntityKind: "activity", IsActive: true, Priority: 10},
		{RuleID: "r3r3r3r3r3r3r3r3r3r3r3r3r3r3r3r3", Name: "top", EntityKind: "activity", IsActive: true, Priority: 90},
		{RuleID: "r4r4r4r4r4r4r4r4r4r4r4r4r4r4r4r4", Name: "off", EntityKind: "activity", IsActive: false, Priority: 100},
		{RuleID: "r5r5r5r5r5r5r5r5r5r5r5r5r5r5r5r5", Name: "other", EntityKind: "location", IsActive: true, Priority: 50},
	}
	for i := range seed {
		if err := repo.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("Create %s: %v", seed[i].Name, err)
		}
	}

	rules, err := repo.ListActiveForKind(ctx, "activity")
	if err != nil {
		t.Fatalf("ListActiveForKind: %v", err)
	}
	var names []string
	for _, r := range rules {
		names = append(names, r.Name)
	}
	want := []string{"top", "alpha", "beta"}
	if len(names) != len(want) {
		t.Fatalf("rules = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("rules = %v, want %v", names, want)
		}
	}

	all, err := repo.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("all rules = %d", len(all))
	}
}

func TestRuleRepository_CreateValidates(t *testing.T) {
	db := openTestDB(t)
	repo := NewRuleRepository(db)
	ctx := context.Background()

	bad := &approval.Rule{RuleID: "c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0", Name: "both", EntityKind: "activity", AutoApprove: true, AutoReject: true}
	if err := repo.Create(ctx, bad); !errors.Is(err, approval.ErrRuleConflict) {
		t.Fatalf("want ErrRuleConflict, got %v", err)
	}
	var n int64
	db.Model(&approval.Rule{}).Count(&n)
	if n != 0 {
		t.Fatalf("conflicting rule persisted")
	}
}

func TestRuleRepository_ConditionsRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewRuleRepository(db)
	ctx := context.Background()

	r := &approval.Rule{
		RuleID:      "cdcdcdcdcdcdcdcdcdcdcdcdcdcdcdcd",
		Name:        "long reads",
		EntityKind:  "activity",
		IsActive:    true,
		AutoApprove: true,
		Conditions:  map[string]any{"word_count__gte": 1000, "category": "news"},
	}
	if err := repo.Create(ctx, r); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rules, err := repo.ListActiveForKind(ctx, "activity")
	if err != nil || len(rules) != 1 {
		t.Fatalf("ListActiveForKind: %d, %v", len(rules), err)
	}
	conds := rules[0].Conditions
	if conds["category"] != "news" {
		t.Errorf("conditions = %v", conds)
	}
	// JSON round-trips numbers as float64
	if got, ok := conds["word_count__gte"].(float64); !ok || got != 1000 {
		t.Errorf("word_count__gte = %v (%T)", conds["word_count__gte"], conds["word_count__gte"])
	}
}
