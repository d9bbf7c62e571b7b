package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Poller periodically re-runs a fetch and pushes the result to subscribers.
// It backs the permission watch: the current user's permission set is
// re-read on a fixed interval regardless of other activity, so revoked
// access propagates without a page reload.
type Poller[T any] struct {
	scheduler gocron.Scheduler
	fetch     func(context.Context) (T, error)
	logger    *zap.Logger

	mu     sync.Mutex
	subs   map[int64]func(T)
	nextID int64
}

// NewPoller schedules fetch every interval. Start must be called before any
// results are delivered.
func NewPoller[T any](interval time.Duration, fetch func(context.Context) (T, error), logger *zap.Logger) (*Poller[T], error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create poll scheduler: %w", err)
	}

	p := &Poller[T]{
		scheduler: scheduler,
		fetch:     fetch,
		logger:    logger,
		subs:      make(map[int64]func(T)),
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(p.run),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule poll job: %w", err)
	}
	return p, nil
}

// Subscribe registers a callback for every successful poll. The returned
// function removes the subscription.
func (p *Poller[T]) Subscribe(fn func(T)) func() {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// Start begins polling; the first fetch runs immediately
func (p *Poller[T]) Start() {
	p.scheduler.Start()
	go p.run()
}

// Stop shuts the scheduler down
func (p *Poller[T]) Stop() error {
	return p.scheduler.Shutdown()
}

func (p *Poller[T]) run() {
	value, err := p.fetch(context.Background())
	if err != nil {
		p.logger.Warn("Poll fetch failed", zap.Error(err))
		return
	}

	p.mu.Lock()
	callbacks := make([]func(T), 0, len(p.subs))
	for _, fn := range p.subs {
		callbacks = append(callbacks, fn)
	}
	p.mu.Unlock()

	for _, fn := range callbacks {
		fn(value)
	}
}
