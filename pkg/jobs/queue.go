package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is a unit of background work.
type Task struct {
	ID         string
	Kind       string
	Payload    interface{}
	Attempt    int
	EnqueuedAt time.Time
}

// HandlerFunc processes a single task.
type HandlerFunc func(context.Context, Task) error

// Options tunes the worker pool.
type Options struct {
	Workers     int
	Buffer      int
	MaxAttempts int
	Backoff     time.Duration
	Logger      *zap.Logger
}

// Queue dispatches tasks to a fixed pool of goroutine workers. Failed
// tasks are retried with a linear backoff until MaxAttempts is reached.
type Queue struct {
	name    string
	handle  HandlerFunc
	opts    Options
	log     *zap.SugaredLogger
	tasks   chan Task
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// New builds a queue for the given handler. The pool is idle until Start.
func New(name string, handle HandlerFunc, opts Options) *Queue {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Buffer <= 0 {
		opts.Buffer = opts.Workers * 4
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Queue{
		name:   name,
		handle: handle,
		opts:   opts,
		log:    opts.Logger.Sugar(),
		tasks:  make(chan Task, opts.Buffer),
	}
}

// Start spawns the workers. Calling Start twice is a no-op.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.opts.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.running = true
	q.log.Infow("queue started", "queue", q.name, "workers", q.opts.Workers)
}

// Stop cancels the pool and waits for in-flight tasks to return.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.mu.Unlock()
	q.wg.Wait()
	q.log.Infow("queue stopped", "queue", q.name)
}

// Enqueue submits a task, blocking until a buffer slot frees or either
// the caller context or the queue itself is cancelled.
func (q *Queue) Enqueue(ctx context.Context, t Task) error {
	q.mu.Lock()
	running := q.running
	qctx := q.ctx
	q.mu.Unlock()

	if !running {
		return fmt.Errorf("queue %s not started", q.name)
	}
	if t.EnqueuedAt.IsZero() {
		t.EnqueuedAt = time.Now().UTC()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-qctx.Done():
		return fmt.Errorf("queue %s stopped: %w", q.name, qctx.Err())
	case q.tasks <- t:
		return nil
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case t := <-q.tasks:
			if err := q.handle(q.ctx, t); err != nil {
				q.retry(t, err)
			}
		}
	}
}

func (q *Queue) retry(t Task, err error) {
	t.Attempt++
	if t.Attempt >= q.opts.MaxAttempts {
		q.log.Errorw("task gave up", "queue", q.name, "task", t.ID, "kind", t.Kind, "attempts", t.Attempt, "error", err)
		return
	}
	delay := q.opts.Backoff * time.Duration(t.Attempt)
	q.log.Warnw("task failed, retrying", "queue", q.name, "task", t.ID, "kind", t.Kind, "attempt", t.Attempt, "error", err)

	go func(t Task) {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
		case <-timer.C:
			if err := q.Enqueue(q.ctx, t); err != nil {
				q.log.Errorw("requeue failed", "queue", q.name, "task", t.ID, "error", err)
			}
		}
	}(t)
}
