package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DedupeGuard records processed event ids so a redelivered queue message
// is recognized and skipped instead of answering a second question. The
// check and the record are separate: an id is recorded only after its
// event fully applied, so a crash mid-event lets the redelivered copy be
// processed instead of silently dropped.
type DedupeGuard interface {
	// Seen reports whether the event id was already recorded.
	Seen(ctx context.Context, eventID string) (bool, error)
	// MarkSeen records the event id.
	MarkSeen(ctx context.Context, eventID string) error
}

type dedupeGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDedupeGuard creates an event id guard. Entries expire after ttl;
// at-least-once redelivery happens within seconds, so a day is generous.
func NewDedupeGuard(client *redis.Client, ttl time.Duration) DedupeGuard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &dedupeGuard{client: client, ttl: ttl}
}

func (g *dedupeGuard) key(eventID string) string {
	return "event:seen:" + eventID
}

func (g *dedupeGuard) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(eventID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (g *dedupeGuard) MarkSeen(ctx context.Context, eventID string) error {
	return g.client.Set(ctx, g.key(eventID), 1, g.ttl).Err()
}
