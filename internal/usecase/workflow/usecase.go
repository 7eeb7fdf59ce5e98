package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"approval-backend/internal/domain/approval"
	"approval-backend/internal/domain/registry"
	"approval-backend/internal/domain/uow"
	"approval-backend/pkg/id"
)

// Usecase is the approval capability attached entities call into. Every
// transition runs inside a unit of work: the entity row is locked, the
// status update and exactly one audit entry commit together or not at all.
type Usecase struct {
	uow      uow.UnitOfWork
	reg      *registry.Registry
	rules    approval.RuleRepository
	audit    approval.AuditRepository
	notifier Notifier
	settings approval.Settings
}

func NewUsecase(tx uow.UnitOfWork, reg *registry.Registry, rules approval.RuleRepository, audit approval.AuditRepository, n Notifier, settings approval.Settings) *Usecase {
	if n == nil {
		n = NoopNotifier{}
	}
	return &Usecase{uow: tx, reg: reg, rules: rules, audit: audit, notifier: n, settings: settings}
}

// Submit moves an entity into review. Legal from draft, rejected and
// changes_requested. After the transition commits, active rules for the
// kind run and may immediately approve, reject or route the entity.
func (u *Usecase) Submit(ctx context.Context, ref approval.EntityRef, actor string) error {
	err := u.uow.WithinEntityTx(ctx, ref, func(r uow.Repos, it *registry.Item) error {
		next, err := approval.Next(it.State.Status, approval.ActionSubmitted)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		it.State.Status = next
		it.State.SubmittedAt = &now
		if actor != "" {
			it.State.SubmittedBy = &actor
		}
		if err := u.save(ctx, r, ref, &it.State); err != nil {
			return err
		}
		return r.Audit.Append(ctx, &approval.AuditLog{
			EntityKind:  ref.Kind,
			EntityID:    ref.ID,
			Action:      approval.ActionSubmitted,
			PerformedBy: it.State.SubmittedBy,
			NewStatus:   &next,
			Notes:       "Submitted for review",
		})
	})
	if err != nil {
		return err
	}
	if u.settings.NotifyOnSubmission {
		u.notifier.Notify(ctx, Notification{Entity: ref, Action: approval.ActionSubmitted})
	}
	return u.applyRules(ctx, ref)
}

// Approve requires status pending or changes_requested.
func (u *Usecase) Approve(ctx context.Context, ref approval.EntityRef, reviewer, notes string) error {
	return u.reviewTransition(ctx, ref, approval.ActionApproved, reviewer, notes, u.settings.NotifyOnApproval)
}

// Reject requires status pending or changes_requested.
func (u *Usecase) Reject(ctx context.Context, ref approval.EntityRef, reviewer, notes string) error {
	return u.reviewTransition(ctx, ref, approval.ActionRejected, reviewer, notes, u.settings.NotifyOnRejection)
}

// RequestChanges requires status pending. The submitter is always signaled.
func (u *Usecase) RequestChanges(ctx context.Context, ref approval.EntityRef, reviewer, notes string) error {
	return u.reviewTransition(ctx, ref, approval.ActionChangesRequested, reviewer, notes, true)
}

func (u *Usecase) reviewTransition(ctx context.Context, ref approval.EntityRef, act approval.Action, reviewer, notes string, notify bool) error {
	var recipient string
	err := u.uow.WithinEntityTx(ctx, ref, func(r uow.Repos, it *registry.Item) error {
		next, err := approval.Next(it.State.Status, act)
		if err != nil {
			return err
		}
		old := it.State.Status
		now := time.Now().UTC()
		it.State.Status = next
		it.State.ReviewedBy = &reviewer
		it.State.ReviewedAt = &now
		if it.State.SubmittedBy != nil {
			recipient = *it.State.SubmittedBy
		}
		if err := u.save(ctx, r, ref, &it.State); err != nil {
			return err
		}
		return r.Audit.Append(ctx, &approval.AuditLog{
			EntityKind:  ref.Kind,
			EntityID:    ref.ID,
			Action:      act,
			PerformedBy: &reviewer,
			OldStatus:   &old,
			NewStatus:   &next,
			Notes:       notes,
		})
	})
	if err != nil {
		return err
	}
	if notify && recipient != "" {
		u.notifier.Notify(ctx, Notification{Entity: ref, Action: act, Recipient: recipient, Notes: notes})
	}
	return nil
}

// Archive is legal from any non-archived status and touches no reviewer
// bookkeeping.
func (u *Usecase) Archive(ctx context.Context, ref approval.EntityRef, actor, notes string) error {
	return u.uow.WithinEntityTx(ctx, ref, func(r uow.Repos, it *registry.Item) error {
		next, err := approval.Next(it.State.Status, approval.ActionArchived)
		if err != nil {
			return err
		}
		old := it.State.Status
		it.State.Status = next
		if err := u.save(ctx, r, ref, &it.State); err != nil {
			return err
		}
		var by *string
		if actor != "" {
			by = &actor
		}
		return r.Audit.Append(ctx, &approval.AuditLog{
			EntityKind:  ref.Kind,
			EntityID:    ref.ID,
			Action:      approval.ActionArchived,
			PerformedBy: by,
			OldStatus:   &old,
			NewStatus:   &next,
			Notes:       notes,
		})
	})
}

// SetPriority changes queue priority without touching status. A no-op when
// the priority is unchanged; otherwise logged as priority_changed.
func (u *Usecase) SetPriority(ctx context.Context, ref approval.EntityRef, actor string, p approval.Priority) error {
	if !p.Valid() {
		return fmt.Errorf("invalid priority %q", p)
	}
	return u.uow.WithinEntityTx(ctx, ref, func(r uow.Repos, it *registry.Item) error {
		if it.State.Priority == p {
			return nil
		}
		old := it.State.Priority
		it.State.Priority = p
		if err := u.save(ctx, r, ref, &it.State); err != nil {
			return err
		}
		var by *string
		if actor != "" {
			by = &actor
		}
		return r.Audit.Append(ctx, &approval.AuditLog{
			EntityKind:  ref.Kind,
			EntityID:    ref.ID,
			Action:      approval.ActionPriorityChanged,
			PerformedBy: by,
			Notes:       fmt.Sprintf("Priority changed from %s to %s", old, p),
			Metadata:    map[string]any{"old_priority": string(old), "new_priority": string(p)},
		})
	})
}

// Review performs a single-item review action, optionally updating the
// priority first (logged separately as priority_changed).
func (u *Usecase) Review(ctx context.Context, in ReviewInput) error {
	if in.Priority != "" {
		if err := u.SetPriority(ctx, in.Ref, in.Actor, in.Priority); err != nil {
			return err
		}
	}
	return u.Apply(ctx, in.Action, in.Ref, in.Actor, in.Notes)
}

// Apply dispatches a transition action by name.
func (u *Usecase) Apply(ctx context.Context, act approval.Action, ref approval.EntityRef, actor, notes string) error {
	switch act {
	case approval.ActionSubmitted:
		return u.Submit(ctx, ref, actor)
	case approval.ActionApproved:
		return u.Approve(ctx, ref, actor, notes)
	case approval.ActionRejected:
		return u.Reject(ctx, ref, actor, notes)
	case approval.ActionChangesRequested:
		return u.RequestChanges(ctx, ref, actor, notes)
	case approval.ActionArchived:
		return u.Archive(ctx, ref, actor, notes)
	default:
		return fmt.Errorf("unsupported action %q", act)
	}
}

// BulkApply runs the same action over a batch. Items are independent: one
// failure never aborts the rest, and failed items keep their state.
func (u *Usecase) BulkApply(ctx context.Context, act approval.Action, refs []approval.EntityRef, actor, notes string) BulkResult {
	if notes == "" {
		notes = fmt.Sprintf("Bulk %s by %s", act, actor)
	}
	res := BulkResult{Action: act}
	for _, ref := range refs {
		if err := u.Apply(ctx, act, ref, actor, notes); err != nil {
			res.ErrorCount++
			res.Errors = append(res.Errors, BulkItemError{Ref: ref, Error: err.Error()})
			continue
		}
		res.SuccessCount++
	}
	return res
}

// History returns the full audit trail, newest first. A dangling reference
// (entity row gone) is reported via EntityDeleted, not as an error.
func (u *Usecase) History(ctx context.Context, ref approval.EntityRef) (*HistoryResult, error) {
	entries, err := u.audit.ListByEntity(ctx, ref)
	if err != nil {
		return nil, err
	}
	out := &HistoryResult{Entity: ref, Entries: entries}
	store, err := u.reg.Store(ref.Kind)
	if err != nil {
		out.EntityDeleted = true
		return out, nil
	}
	if _, err := store.Get(ctx, ref.ID); err != nil {
		if errors.Is(err, approval.ErrNotFound) {
			out.EntityDeleted = true
			return out, nil
		}
		return nil, err
	}
	return out, nil
}

// CreateRule validates and stores a disposition rule. Conflicting rules
// (auto-approve plus auto-reject) are rejected here, at authoring time.
func (u *Usecase) CreateRule(ctx context.Context, r *approval.Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if _, err := u.reg.Store(r.EntityKind); err != nil {
		return err
	}
	if r.RuleID == "" {
		r.RuleID = id.NewID32()
	}
	return u.rules.Create(ctx, r)
}

func (u *Usecase) ListRules(ctx context.Context, kind approval.EntityKind) ([]approval.Rule, error) {
	return u.rules.List(ctx, kind)
}

// ArchiveStaleRejected archives rejected items older than the configured
// horizon. Request-driven; there is no scheduler in this subsystem.
func (u *Usecase) ArchiveStaleRejected(ctx context.Context) (BulkResult, error) {
	res := BulkResult{Action: approval.ActionArchived}
	days := u.settings.AutoArchiveRejectedDays
	if days <= 0 {
		return res, nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	for _, kind := range u.reg.Kinds() {
		store, err := u.reg.Store(kind)
		if err != nil {
			continue
		}
		items, err := store.List(ctx, registry.Filter{Status: approval.StatusRejected}, 0)
		if err != nil {
			return res, err
		}
		for _, it := range items {
			if it.State.ReviewedAt == nil || it.State.ReviewedAt.After(cutoff) {
				continue
			}
			notes := fmt.Sprintf("Auto-archived: rejected more than %d days ago", days)
			if err := u.Archive(ctx, it.Ref, SystemActor, notes); err != nil {
				res.ErrorCount++
				res.Errors = append(res.Errors, BulkItemError{Ref: it.Ref, Error: err.Error()})
				continue
			}
			res.SuccessCount++
		}
	}
	return res, nil
}

func (u *Usecase) save(ctx context.Context, r uow.Repos, ref approval.EntityRef, st *approval.Approvable) error {
	store, err := r.Stores.Store(ref.Kind)
	if err != nil {
		return err
	}
	return store.Save(ctx, ref.ID, st)
}

// applyRules evaluates active rules for the kind against the entity's
// current attributes and applies the first match's disposition.
func (u *Usecase) applyRules(ctx context.Context, ref approval.EntityRef) error {
	store, err := u.reg.Store(ref.Kind)
	if err != nil {
		return err
	}
	it, err := store.Get(ctx, ref.ID)
	if err != nil {
		return err
	}
	rules, err := u.rules.ListActiveForKind(ctx, ref.Kind)
	if err != nil {
		return err
	}
	rule := firstMatch(rules, it.Attributes)
	if rule == nil {
		return nil
	}
	switch {
	case rule.AutoApprove:
		return u.Approve(ctx, ref, SystemActor, "Auto-approved by rule "+rule.Name)
	case rule.AutoReject:
		return u.Reject(ctx, ref, SystemActor, "Auto-rejected by rule "+rule.Name)
	case rule.AssignTo != nil && *rule.AssignTo != "":
		return u.recordAssignment(ctx, ref, rule)
	}
	return nil
}

// recordAssignment routes the entity to a reviewer as audit metadata only;
// the status stays pending.
func (u *Usecase) recordAssignment(ctx context.Context, ref approval.EntityRef, rule *approval.Rule) error {
	actor := SystemActor
	err := u.audit.Append(ctx, &approval.AuditLog{
		EntityKind:  ref.Kind,
		EntityID:    ref.ID,
		Action:      approval.ActionEdited,
		PerformedBy: &actor,
		Notes:       "Assigned to reviewer by rule " + rule.Name,
		Metadata:    map[string]any{"assigned_to": *rule.AssignTo, "rule": rule.RuleID},
	})
	if err != nil {
		return err
	}
	log.Printf("workflow: %s routed to %s by rule %s", ref, *rule.AssignTo, rule.Name)
	return nil
}
