package approval

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EntityKind tags a category of attachable content ("activity", "location", ...).
// Kinds form an open registry; the engine has no compile-time dependency on
// the entities behind them.
type EntityKind string

// EntityRef points at one row of one registered kind. The engine enforces no
// referential integrity against the row itself; a deleted row leaves the
// reference dangling and history rendering must cope (see workflow.History).
type EntityRef struct {
	Kind EntityKind `json:"kind"`
	ID   uint64     `json:"id"`
}

func (r EntityRef) String() string { return fmt.Sprintf("%s:%d", r.Kind, r.ID) }

// ParseRef parses the "kind:id" wire format used by bulk action payloads.
func ParseRef(s string) (EntityRef, error) {
	kind, rawID, ok := strings.Cut(s, ":")
	if !ok || kind == "" {
		return EntityRef{}, fmt.Errorf("invalid entity ref %q, want kind:id", s)
	}
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return EntityRef{}, fmt.Errorf("invalid entity ref %q: %w", s, err)
	}
	return EntityRef{Kind: EntityKind(kind), ID: id}, nil
}

// Approvable is the moderation state embedded in every attached entity's
// table. Column names are shared across all kinds so the engine can query
// any registered table uniformly.
//
// Invariants: SubmittedBy/SubmittedAt change only on submit; ReviewedBy/
// ReviewedAt only on approve, reject or request-changes. Only the workflow
// usecase mutates this struct.
type Approvable struct {
	Status      Status     `gorm:"column:approval_status;type:varchar(20);default:'draft';index" json:"approval_status"`
	Priority    Priority   `gorm:"column:approval_priority;type:varchar(10);default:'normal'" json:"approval_priority"`
	SubmittedBy *string    `gorm:"column:submitted_by;type:char(32)" json:"submitted_by,omitempty"`
	SubmittedAt *time.Time `gorm:"column:submitted_at;index" json:"submitted_at,omitempty"`
	ReviewedBy  *string    `gorm:"column:reviewed_by;type:char(32)" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
}

// IsPublic reports whether the content is visible to the public.
func (a *Approvable) IsPublic() bool { return a.Status == StatusApproved }

func (a *Approvable) IsPending() bool { return a.Status == StatusPending }

func (a *Approvable) IsDraft() bool { return a.Status == StatusDraft }

// AuditLog is one immutable record of an approval action. Entries are only
// ever created; the repository exposes no update/delete, and the gorm hooks
// below reject mutation attempts that bypass it.
type AuditLog struct {
	ID          uint64            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	EntityKind  EntityKind        `gorm:"column:entity_kind;type:varchar(50);not null;index:idx_approval_logs_entity,priority:1" json:"entity_kind"`
	EntityID    uint64            `gorm:"column:entity_id;not null;index:idx_approval_logs_entity,priority:2" json:"entity_id"`
	Action      Action            `gorm:"column:action;type:varchar(20);not null;index" json:"action"`
	PerformedBy *string           `gorm:"column:performed_by;type:char(32);index" json:"performed_by,omitempty"`
	OldStatus   *Status           `gorm:"column:old_status;type:varchar(20)" json:"old_status,omitempty"`
	NewStatus   *Status           `gorm:"column:new_status;type:varchar(20)" json:"new_status,omitempty"`
	Notes       string            `gorm:"column:notes;type:text" json:"notes"`
	Metadata    datatypes.JSONMap `gorm:"column:metadata" json:"metadata,omitempty"`
	IPAddress   *string           `gorm:"column:ip_address;type:varchar(45)" json:"ip_address,omitempty"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string { return "approval_logs" }

func (l *AuditLog) Ref() EntityRef { return EntityRef{Kind: l.EntityKind, ID: l.EntityID} }

func (*AuditLog) BeforeUpdate(*gorm.DB) error { return ErrImmutableLog }

func (*AuditLog) BeforeDelete(*gorm.DB) error { return ErrImmutableLog }

// Rule is an automatic disposition/routing policy evaluated at submission.
// Active rules for a kind run ordered by priority descending then name, and
// the first whose conditions match wins.
type Rule struct {
	ID          uint64            `gorm:"primaryKey;autoIncrement;column:id" json:"-"`
	RuleID      string            `gorm:"column:rule_id;type:char(32);not null;uniqueIndex" json:"rule_id"`
	Name        string            `gorm:"column:name;size:200;not null" json:"name"`
	Description string            `gorm:"column:description;type:text" json:"description"`
	EntityKind  EntityKind        `gorm:"column:entity_kind;type:varchar(50);not null;index" json:"entity_kind"`
	IsActive    bool              `gorm:"column:is_active;default:true" json:"is_active"`
	Priority    int               `gorm:"column:priority;default:0" json:"priority"`
	AutoApprove bool              `gorm:"column:auto_approve;default:false" json:"auto_approve"`
	AutoReject  bool              `gorm:"column:auto_reject;default:false" json:"auto_reject"`
	AssignTo    *string           `gorm:"column:assign_to;type:char(32)" json:"assign_to,omitempty"`
	Conditions  datatypes.JSONMap `gorm:"column:conditions" json:"conditions"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Rule) TableName() string { return "approval_rules" }

// Validate rejects malformed rules at authoring time. Auto-approve and
// auto-reject are mutually exclusive.
func (r *Rule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	if r.EntityKind == "" {
		return fmt.Errorf("rule entity kind is required")
	}
	if r.AutoApprove && r.AutoReject {
		return fmt.Errorf("%w: %s", ErrRuleConflict, r.Name)
	}
	return nil
}

// Queue is a saved filter over entities awaiting or undergoing review.
type Queue struct {
	ID             uint64                      `gorm:"primaryKey;autoIncrement;column:id" json:"-"`
	Name           string                      `gorm:"column:name;size:200;not null" json:"name"`
	Description    string                      `gorm:"column:description;type:text" json:"description"`
	Slug           string                      `gorm:"column:slug;size:100;not null;uniqueIndex" json:"slug"`
	EntityKinds    datatypes.JSONSlice[string] `gorm:"column:entity_kinds" json:"entity_kinds"`
	StatusFilter   Status                      `gorm:"column:status_filter;type:varchar(20);default:'pending'" json:"status_filter"`
	PriorityFilter Priority                    `gorm:"column:priority_filter;type:varchar(10)" json:"priority_filter,omitempty"`
	Reviewers      datatypes.JSONSlice[string] `gorm:"column:reviewers" json:"reviewers"`
	Color          string                      `gorm:"column:color;size:7;default:'#007bff'" json:"color"`
	Icon           string                      `gorm:"column:icon;size:50" json:"icon"`
	IsActive       bool                        `gorm:"column:is_active;default:true" json:"is_active"`
	DisplayOrder   int                         `gorm:"column:display_order;default:0" json:"display_order"`
	CreatedAt      time.Time                   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Queue) TableName() string { return "approval_queues" }

func (q *Queue) Kinds() []EntityKind {
	out := make([]EntityKind, 0, len(q.EntityKinds))
	for _, k := range q.EntityKinds {
		out = append(out, EntityKind(k))
	}
	return out
}

func (q *Queue) Validate() error {
	if q.Name == "" {
		return fmt.Errorf("queue name is required")
	}
	if q.Slug == "" {
		return fmt.Errorf("queue slug is required")
	}
	if q.StatusFilter != "" && !q.StatusFilter.Valid() {
		return fmt.Errorf("invalid status filter %q", q.StatusFilter)
	}
	if q.PriorityFilter != "" && !q.PriorityFilter.Valid() {
		return fmt.Errorf("invalid priority filter %q", q.PriorityFilter)
	}
	return nil
}

// Settings parameterizes the whole approval process. It is loaded once at
// startup from the environment and passed by value into the components that
// need it; there is no lazily created settings row.
type Settings struct {
	NotifyOnSubmission      bool
	NotifyOnApproval        bool
	NotifyOnRejection       bool
	AutoArchiveRejectedDays int // 0 = never
	ReviewSLAHours          int
	ItemsPerPage            int
	ShowArchivedInSearch    bool
}

// DefaultSettings mirrors the defaults of the settings record this replaces.
func DefaultSettings() Settings {
	return Settings{
		NotifyOnSubmission:      true,
		NotifyOnApproval:        true,
		NotifyOnRejection:       true,
		AutoArchiveRejectedDays: 30,
		ReviewSLAHours:          48,
		ItemsPerPage:            25,
		ShowArchivedInSearch:    false,
	}
}
