package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"approval-backend/internal/domain/approval"
	"approval-backend/internal/usecase/workflow"
)

func TestRedisPublisher_Notify(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, Channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	pub := NewRedisPublisher(rdb)
	pub.Notify(ctx, workflow.Notification{
		Entity:    approval.EntityRef{Kind: "activity", ID: 7},
		Action:    approval.ActionApproved,
		Recipient: "a1b2c3d4a1b2c3d4a1b2c3d4a1b2c3d4",
		Notes:     "looks good",
	})

	select {
	case msg := <-sub.Channel():
		var got workflow.Notification
		if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if got.Entity.Kind != "activity" || got.Entity.ID != 7 || got.Action != approval.ActionApproved {
			t.Errorf("payload = %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no signal received on the notification channel")
	}
}

func TestRedisPublisher_SwallowsPublishFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	pub := NewRedisPublisher(rdb)
	// must not panic or error; the transition already committed
	pub.Notify(context.Background(), workflow.Notification{
		Entity: approval.EntityRef{Kind: "activity", ID: 1},
		Action: approval.ActionSubmitted,
	})
}
