package notifymock

import (
	"context"
	"sync"

	"approval-backend/internal/usecase/workflow"
)

// Notifier records every emitted signal.
type Notifier struct {
	mu    sync.Mutex
	Calls []workflow.Notification
}

func (m *Notifier) Notify(_ context.Context, n workflow.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, n)
}

func (m *Notifier) Sent() []workflow.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]workflow.Notification(nil), m.Calls...)
}
