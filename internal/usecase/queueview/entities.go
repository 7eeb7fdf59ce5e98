package queueview

import (
	"approval-backend/internal/domain/approval"
)

// QueueStat is one queue's dashboard row.
type QueueStat struct {
	Queue approval.Queue `json:"queue"`
	Count int64          `json:"count"`
}

type DashboardData struct {
	Queues       []QueueStat         `json:"queues"`
	TotalPending int64               `json:"total_pending"`
	RecentLogs   []approval.AuditLog `json:"recent_activity"`
	SLAHours     int                 `json:"sla_hours"`
}

// QueueItem is one entity in a queue listing or submission history.
type QueueItem struct {
	Ref   approval.EntityRef  `json:"ref"`
	State approval.Approvable `json:"state"`
}

type QueueDetailData struct {
	Queue approval.Queue `json:"queue"`
	Items []QueueItem    `json:"items"`
}

// QueueCount is the per-queue payload of the pending-counts API.
type QueueCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
	Color string `json:"color"`
}

type PendingCountsData struct {
	Queues map[string]QueueCount `json:"queues"`
	Total  int64                 `json:"total"`
}

type StatsData struct {
	Days     int                           `json:"days"`
	ByAction map[approval.Action]int64     `json:"by_action"`
	ByUser   []approval.UserActionCount    `json:"by_user"`
	ByKind   map[approval.EntityKind]int64 `json:"by_kind"`
}

type QuickStatsData struct {
	Today map[string]int64 `json:"today"`
}
