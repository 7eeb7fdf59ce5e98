package http_test

import (
	"net/http"
	"testing"

	"approval-backend/internal/domain/approval"
)

func TestCreateRuleEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/approvals/rules",
		`{"name":"trusted","entity_kind":"activity","auto_approve":true,"priority":50,"conditions":{"word_count__gte":100}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created approval.Rule
	decode(t, rec, &created)
	if len(created.RuleID) != 32 {
		t.Errorf("rule_id = %q", created.RuleID)
	}
	if !created.IsActive {
		t.Error("is_active must default to true")
	}
	if len(f.rules.Rules) != 1 {
		t.Fatalf("persisted rules = %d", len(f.rules.Rules))
	}

	tests := []struct {
		name string
		body string
		code int
	}{
		{"missing name", `{"entity_kind":"activity"}`, http.StatusUnprocessableEntity},
		{"bad assign_to", `{"name":"x","entity_kind":"activity","assign_to":"nope"}`, http.StatusUnprocessableEntity},
		{"conflicting dispositions", `{"name":"x","entity_kind":"activity","auto_approve":true,"auto_reject":true}`, http.StatusUnprocessableEntity},
		{"unregistered kind", `{"name":"x","entity_kind":"trip","auto_approve":true}`, http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/approvals/rules", tc.body)
			if rec.Code != tc.code {
				t.Fatalf("status = %d, want %d; body = %s", rec.Code, tc.code, rec.Body.String())
			}
		})
	}
}

func TestListRulesEndpoint(t *testing.T) {
	f := newFixture(t)
	f.rules.Rules = []approval.Rule{
		{RuleID: "r1r1r1r1r1r1r1r1r1r1r1r1r1r1r1r1", Name: "a", EntityKind: "activity", IsActive: true},
		{RuleID: "r2r2r2r2r2r2r2r2r2r2r2r2r2r2r2r2", Name: "b", EntityKind: "location", IsActive: true},
	}

	rec := f.do(http.MethodGet, "/approvals/rules?kind=activity", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var res struct {
		Rules []approval.Rule `json:"rules"`
	}
	decode(t, rec, &res)
	if len(res.Rules) != 1 || res.Rules[0].Name != "a" {
		t.Fatalf("rules = %+v", res.Rules)
	}
}

func TestCreateQueueEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/approvals/queues",
		`{"name":"Urgent","slug":"urgent-review","entity_kinds":["activity"],"priority_filter":"urgent","reviewers":["`+reviewerID+`"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created approval.Queue
	decode(t, rec, &created)
	if created.Color != "#007bff" {
		t.Errorf("color = %q, want default", created.Color)
	}
	if created.StatusFilter != approval.StatusPending {
		t.Errorf("status_filter = %q, want pending default", created.StatusFilter)
	}

	tests := []struct {
		name string
		body string
	}{
		{"bad slug", `{"name":"x","slug":"Bad Slug","entity_kinds":["activity"]}`},
		{"no kinds", `{"name":"x","slug":"x","entity_kinds":[]}`},
		{"bad reviewer", `{"name":"x","slug":"x","entity_kinds":["activity"],"reviewers":["short"]}`},
		{"bad status filter", `{"name":"x","slug":"x","entity_kinds":["activity"],"status_filter":"published"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/approvals/queues", tc.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestQueueDetailEndpoint(t *testing.T) {
	f := newFixture(t)
	f.queues.Queues = []approval.Queue{{
		Name: "Main", Slug: "main",
		EntityKinds: []string{"activity"}, StatusFilter: approval.StatusPending, IsActive: true,
	}}

	rec := f.do(http.MethodGet, "/approvals/queues/main", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	rec = f.do(http.MethodGet, "/approvals/queues/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing queue status = %d", rec.Code)
	}
}
