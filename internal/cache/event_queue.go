package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
)

// EventQueue is the shared at-least-once inbound event queue between the
// webhook intake and the worker pool. Dequeued events sit on a processing
// list until acked, so a worker crash leaves them recoverable instead of
// lost.
type EventQueue interface {
	Enqueue(ctx context.Context, ev *model.InboundEvent) error
	// Dequeue blocks up to timeout, moving the event onto the processing
	// list; it returns nil without error when the queue stayed empty.
	Dequeue(ctx context.Context, timeout time.Duration) (*model.InboundEvent, error)
	// Ack removes a handled event from the processing list.
	Ack(ctx context.Context, ev *model.InboundEvent) error
	// Requeue puts an event at the back of the line, used when a worker
	// could not take the respondent lock.
	Requeue(ctx context.Context, ev *model.InboundEvent) error
	// Recover moves events a crashed worker left on the processing list
	// back onto the queue. Called once at worker startup.
	Recover(ctx context.Context) (int64, error)
	Len(ctx context.Context) (int64, error)
}

type eventQueue struct {
	client     *redis.Client
	name       string
	processing string
}

// NewEventQueue creates a redis list backed queue.
func NewEventQueue(client *redis.Client, name string) EventQueue {
	if name == "" {
		name = "survey:events"
	}
	return &eventQueue{client: client, name: name, processing: name + ":processing"}
}

func (q *eventQueue) Enqueue(ctx context.Context, ev *model.InboundEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.name, data).Err()
}

func (q *eventQueue) Dequeue(ctx context.Context, timeout time.Duration) (*model.InboundEvent, error) {
	val, err := q.client.BLMove(ctx, q.name, q.processing, "RIGHT", "LEFT", timeout).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ev model.InboundEvent
	if err := json.Unmarshal([]byte(val), &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Ack re-marshals the event to match the stored payload byte for byte;
// events are immutable between dequeue and ack.
func (q *eventQueue) Ack(ctx context.Context, ev *model.InboundEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return q.client.LRem(ctx, q.processing, 1, data).Err()
}

func (q *eventQueue) Requeue(ctx context.Context, ev *model.InboundEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	// Back of the line, giving the lock holder time to finish, then off
	// the processing list.
	if err := q.client.LPush(ctx, q.name, data).Err(); err != nil {
		return err
	}
	return q.client.LRem(ctx, q.processing, 1, data).Err()
}

func (q *eventQueue) Recover(ctx context.Context) (int64, error) {
	var moved int64
	for {
		_, err := q.client.LMove(ctx, q.processing, q.name, "RIGHT", "LEFT").Result()
		if errors.Is(err, redis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, err
		}
		moved++
	}
}

func (q *eventQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.name).Result()
}
