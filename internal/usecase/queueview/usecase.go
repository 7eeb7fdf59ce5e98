package queueview

import (
	"context"
	"sort"
	"time"

	"approval-backend/internal/domain/approval"
	"approval-backend/internal/domain/registry"
)

const (
	recentActivityLimit = 20
	topReviewersLimit   = 10
	defaultStatsDays    = 30
)

// CountCache memoizes per-queue pending counts so dashboard renders don't
// pay the per-kind query fan-out on every hit. A nil cache means direct
// computation; cache failures must degrade to a miss, never an error.
type CountCache interface {
	Get(ctx context.Context, slug string) (int64, bool)
	Set(ctx context.Context, slug string, count int64)
}

// Usecase aggregates queue views and read-only dashboard data across all
// registered entity kinds.
type Usecase struct {
	queues   approval.QueueRepository
	audit    approval.AuditRepository
	reg      *registry.Registry
	cache    CountCache
	settings approval.Settings
}

func NewUsecase(queues approval.QueueRepository, audit approval.AuditRepository, reg *registry.Registry, cache CountCache, settings approval.Settings) *Usecase {
	return &Usecase{queues: queues, audit: audit, reg: reg, cache: cache, settings: settings}
}

// PendingCount sums per-kind filtered counts for one queue. Kinds in the
// queue that are not registered are skipped rather than failing the whole
// count.
func (u *Usecase) PendingCount(ctx context.Context, q *approval.Queue) (int64, error) {
	if u.cache != nil {
		if n, ok := u.cache.Get(ctx, q.Slug); ok {
			return n, nil
		}
	}
	f := registry.Filter{Status: q.StatusFilter, Priority: q.PriorityFilter}
	var total int64
	for _, kind := range q.Kinds() {
		store, err := u.reg.Store(kind)
		if err != nil {
			continue
		}
		n, err := store.Count(ctx, f)
		if err != nil {
			return 0, err
		}
		total += n
	}
	if u.cache != nil {
		u.cache.Set(ctx, q.Slug, total)
	}
	return total, nil
}

// Dashboard builds the unified review dashboard: every active queue with
// its count, the overall total, recent audit activity and the SLA window.
func (u *Usecase) Dashboard(ctx context.Context) (*DashboardData, error) {
	queues, err := u.queues.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	data := &DashboardData{SLAHours: u.settings.ReviewSLAHours}
	for i := range queues {
		n, err := u.PendingCount(ctx, &queues[i])
		if err != nil {
			return nil, err
		}
		data.Queues = append(data.Queues, QueueStat{Queue: queues[i], Count: n})
		data.TotalPending += n
	}
	recent, err := u.audit.ListRecent(ctx, recentActivityLimit)
	if err != nil {
		return nil, err
	}
	data.RecentLogs = recent
	return data, nil
}

// QueueDetail lists a queue's items: filtered fetch per kind, merged and
// sorted by submission time descending (missing submitted_at sorts as now),
// truncated to the configured page size.
func (u *Usecase) QueueDetail(ctx context.Context, slug string) (*QueueDetailData, error) {
	q, err := u.queues.GetActiveBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	perPage := u.settings.ItemsPerPage
	f := registry.Filter{Status: q.StatusFilter, Priority: q.PriorityFilter}
	var items []QueueItem
	for _, kind := range q.Kinds() {
		store, err := u.reg.Store(kind)
		if err != nil {
			continue
		}
		batch, err := store.List(ctx, f, perPage)
		if err != nil {
			return nil, err
		}
		for _, it := range batch {
			items = append(items, QueueItem{Ref: it.Ref, State: it.State})
		}
	}
	sortBySubmission(items)
	if perPage > 0 && len(items) > perPage {
		items = items[:perPage]
	}
	return &QueueDetailData{Queue: *q, Items: items}, nil
}

// PendingCounts is the JSON-shaped counts API: slug → {name, count, color}
// plus a grand total.
func (u *Usecase) PendingCounts(ctx context.Context) (*PendingCountsData, error) {
	queues, err := u.queues.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	data := &PendingCountsData{Queues: make(map[string]QueueCount, len(queues))}
	for i := range queues {
		n, err := u.PendingCount(ctx, &queues[i])
		if err != nil {
			return nil, err
		}
		data.Queues[queues[i].Slug] = QueueCount{Name: queues[i].Name, Count: n, Color: queues[i].Color}
		data.Total += n
	}
	return data, nil
}

// Stats aggregates audit actions over a rolling window by action type,
// performing user (top N) and entity kind.
func (u *Usecase) Stats(ctx context.Context, days int) (*StatsData, error) {
	if days <= 0 {
		days = defaultStatsDays
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	byAction, err := u.audit.CountByActionSince(ctx, since)
	if err != nil {
		return nil, err
	}
	byUser, err := u.audit.CountByUserSince(ctx, since, topReviewersLimit)
	if err != nil {
		return nil, err
	}
	byKind, err := u.audit.CountByKindSince(ctx, since)
	if err != nil {
		return nil, err
	}
	return &StatsData{Days: days, ByAction: byAction, ByUser: byUser, ByKind: byKind}, nil
}

// QuickStats reports today's approved/rejected totals.
func (u *Usecase) QuickStats(ctx context.Context) (*QuickStatsData, error) {
	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	byAction, err := u.audit.CountByActionSince(ctx, midnight)
	if err != nil {
		return nil, err
	}
	return &QuickStatsData{Today: map[string]int64{
		"approved": byAction[approval.ActionApproved],
		"rejected": byAction[approval.ActionRejected],
	}}, nil
}

// MySubmissions merges one user's submissions across every registered kind,
// newest first. Archived items are hidden unless configured otherwise.
func (u *Usecase) MySubmissions(ctx context.Context, user string) ([]QueueItem, error) {
	var items []QueueItem
	for _, kind := range u.reg.Kinds() {
		store, err := u.reg.Store(kind)
		if err != nil {
			continue
		}
		batch, err := store.ListBySubmitter(ctx, user)
		if err != nil {
			return nil, err
		}
		for _, it := range batch {
			if !u.settings.ShowArchivedInSearch && it.State.Status == approval.StatusArchived {
				continue
			}
			items = append(items, QueueItem{Ref: it.Ref, State: it.State})
		}
	}
	sortBySubmission(items)
	return items, nil
}

func (u *Usecase) CreateQueue(ctx context.Context, q *approval.Queue) error {
	if err := q.Validate(); err != nil {
		return err
	}
	if q.StatusFilter == "" {
		q.StatusFilter = approval.StatusPending
	}
	return u.queues.Create(ctx, q)
}

func (u *Usecase) ListQueues(ctx context.Context) ([]approval.Queue, error) {
	return u.queues.List(ctx)
}

func sortBySubmission(items []QueueItem) {
	now := time.Now().UTC()
	at := func(it QueueItem) time.Time {
		if it.State.SubmittedAt == nil {
			return now
		}
		return *it.State.SubmittedAt
	}
	sort.SliceStable(items, func(i, j int) bool { return at(items[i]).After(at(items[j])) })
}
