package workflow

import (
	"context"

	"approval-backend/internal/domain/approval"
)

// SystemActor performs rule-driven transitions.
const SystemActor = "system"

// Notification is the "notify" signal emitted after a transition. Delivery
// is external; publishers must never fail the transition that emitted it.
type Notification struct {
	Entity    approval.EntityRef `json:"entity"`
	Action    approval.Action    `json:"action"`
	Recipient string             `json:"recipient,omitempty"` // empty = reviewer audience
	Notes     string             `json:"notes,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NoopNotifier drops every signal. Used when no broker is configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Notification) {}

// ReviewInput is a single-item review action: an optional priority update
// followed by one transition.
type ReviewInput struct {
	Ref      approval.EntityRef
	Action   approval.Action
	Actor    string
	Notes    string
	Priority approval.Priority // empty = leave unchanged
}

type BulkItemError struct {
	Ref   approval.EntityRef `json:"ref"`
	Error string             `json:"error"`
}

// BulkResult reports a bulk action's outcome. SuccessCount+ErrorCount
// always equals the number of submitted refs.
type BulkResult struct {
	Action       approval.Action `json:"action"`
	SuccessCount int             `json:"success_count"`
	ErrorCount   int             `json:"error_count"`
	Errors       []BulkItemError `json:"errors,omitempty"`
}

// HistoryResult is an entity's full audit trail, newest first. When the
// referenced row no longer exists the entries still render, flagged with
// EntityDeleted instead of failing.
type HistoryResult struct {
	Entity        approval.EntityRef  `json:"entity"`
	Entries       []approval.AuditLog `json:"entries"`
	EntityDeleted bool                `json:"entity_deleted"`
}
