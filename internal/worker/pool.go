// Package worker drains the inbound event queue with a pool of goroutines.
// Events for different respondents process fully in parallel; a per
// respondent advisory lock serializes events for the same sender.
package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/cache"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
)

// Handler processes one inbound event.
type Handler interface {
	HandleEvent(ctx context.Context, ev *model.InboundEvent) error
}

// Pool consumes the shared at-least-once queue.
type Pool struct {
	queue   cache.EventQueue
	lock    cache.RespondentLock
	handler Handler
	size    int

	// backoff before re-attempting a respondent whose lock is held
	requeueDelay time.Duration
}

// NewPool creates a worker pool of the given size.
func NewPool(queue cache.EventQueue, lock cache.RespondentLock, handler Handler, size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		queue:        queue,
		lock:         lock,
		handler:      handler,
		size:         size,
		requeueDelay: 200 * time.Millisecond,
	}
}

// Run blocks until ctx is cancelled and all workers have drained their
// current event.
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.work(ctx, id)
		}(i)
	}
	wg.Wait()
	log.Println("worker pool drained")
}

func (p *Pool) work(ctx context.Context, id int) {
	for {
		if ctx.Err() != nil {
			return
		}

		ev, err := p.queue.Dequeue(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[WORKER %d] dequeue: %v", id, err)
			time.Sleep(time.Second)
			continue
		}
		if ev == nil {
			continue
		}

		p.handleOne(ctx, id, ev)
	}
}

// handleOne serializes per respondent: if the lock is held by another
// worker the event rejoins the queue rather than waiting, so this worker
// stays available for other respondents.
func (p *Pool) handleOne(ctx context.Context, id int, ev *model.InboundEvent) {
	token, acquired, err := p.lock.Acquire(ctx, ev.RespondentID)
	if err != nil {
		log.Printf("[WORKER %d] lock %s: %v", id, ev.RespondentID, err)
		p.requeue(ctx, id, ev)
		return
	}
	if !acquired {
		p.requeue(ctx, id, ev)
		time.Sleep(p.requeueDelay)
		return
	}
	defer func() {
		if err := p.lock.Release(ctx, ev.RespondentID, token); err != nil {
			log.Printf("[WORKER %d] unlock %s: %v", id, ev.RespondentID, err)
		}
	}()

	if err := p.handler.HandleEvent(ctx, ev); err != nil {
		// The engine already resolved conflicts and local errors; what
		// reaches here is terminal for this delivery and the event is
		// acked off the processing list below. Only a crash leaves it
		// there, to be recovered on the next start.
		log.Printf("[WORKER %d] event %s for %s failed: %v", id, ev.EventID, ev.RespondentID, err)
	}
	if err := p.queue.Ack(ctx, ev); err != nil {
		log.Printf("[WORKER %d] ack event %s: %v", id, ev.EventID, err)
	}
}

func (p *Pool) requeue(ctx context.Context, id int, ev *model.InboundEvent) {
	if err := p.queue.Requeue(ctx, ev); err != nil {
		log.Printf("[WORKER %d] requeue event %s: %v", id, ev.EventID, err)
	}
}
