package approval

import "fmt"

// Status is the moderation lifecycle state of an attached entity.
type Status string

const (
	StatusDraft            Status = "draft"
	StatusPending          Status = "pending"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
	StatusChangesRequested Status = "changes_requested"
	StatusArchived         Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusChangesRequested, StatusArchived:
		return true
	}
	return false
}

// Priority orders items inside review queues.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Action identifies an audit log entry. Submitted/Approved/Rejected/
// ChangesRequested/Archived are status transitions; Edited and
// PriorityChanged record non-transition events.
type Action string

const (
	ActionSubmitted        Action = "submitted"
	ActionApproved         Action = "approved"
	ActionRejected         Action = "rejected"
	ActionChangesRequested Action = "changes_requested"
	ActionArchived         Action = "archived"
	ActionEdited           Action = "edited"
	ActionPriorityChanged  Action = "priority_changed"
)

type transition struct {
	from   Status
	action Action
}

// transitions is the complete legality table for the state machine.
// Anything not listed here is an invalid transition.
var transitions = map[transition]Status{
	{StatusDraft, ActionSubmitted}:            StatusPending,
	{StatusRejected, ActionSubmitted}:         StatusPending,
	{StatusChangesRequested, ActionSubmitted}: StatusPending,

	{StatusPending, ActionApproved}:          StatusApproved,
	{StatusChangesRequested, ActionApproved}: StatusApproved,

	{StatusPending, ActionRejected}:          StatusRejected,
	{StatusChangesRequested, ActionRejected}: StatusRejected,

	{StatusPending, ActionChangesRequested}: StatusChangesRequested,

	{StatusDraft, ActionArchived}:            StatusArchived,
	{StatusPending, ActionArchived}:          StatusArchived,
	{StatusApproved, ActionArchived}:         StatusArchived,
	{StatusRejected, ActionArchived}:         StatusArchived,
	{StatusChangesRequested, ActionArchived}: StatusArchived,
}

// Next returns the status reached by applying action from the given status,
// or ErrInvalidTransition naming both when the move is not legal.
func Next(from Status, action Action) (Status, error) {
	next, ok := transitions[transition{from: from, action: action}]
	if !ok {
		return "", fmt.Errorf("%w: cannot %s from status %s", ErrInvalidTransition, action, from)
	}
	return next, nil
}
