package notify

import (
	"context"
	"encoding/json"
	"log"

	"approval-backend/internal/usecase/workflow"

	"github.com/redis/go-redis/v9"
)

// Channel carries approval notification signals. Whatever consumes it
// (mailer, websocket fanout) is outside this service.
const Channel = "approvals:notifications"

// RedisPublisher emits notification signals over redis pub/sub. Publish
// failures are logged and swallowed: losing a signal must never fail the
// transition that produced it.
type RedisPublisher struct{ rdb *redis.Client }

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher { return &RedisPublisher{rdb: rdb} }

func (p *RedisPublisher) Notify(ctx context.Context, n workflow.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		log.Printf("notify: marshal failed: %v", err)
		return
	}
	if err := p.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		log.Printf("notify: publish %s for %s failed: %v", n.Action, n.Entity, err)
	}
}
