// Package queue provides the bounded worker pool that runs persistence work
// off the request goroutines.
package queue

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tawargy/sqliteserver/internal/pkg/metrics"
)

const (
	defaultWorkers   = 8
	defaultQueueSize = 256
)

var (
	ErrQueueFull        = errors.New("worker queue is full")
	ErrPoolClosed       = errors.New("worker pool is closed")
	ErrDropped          = errors.New("work item dropped from a full queue")
	ErrDeadlineExceeded = errors.New("work item deadline passed before execution")
	ErrTaskPanicked     = errors.New("work item panicked")
)

// Task is a unit of work executed by a pool worker. The context is the one
// given to Submit.
type Task func(ctx context.Context) (any, error)

// OverflowPolicy decides what Submit does when the queue is full.
type OverflowPolicy int

const (
	// OverflowBlock waits for queue space until the submit context ends, then
	// fails with ErrQueueFull.
	OverflowBlock OverflowPolicy = iota
	// OverflowReject fails immediately with ErrQueueFull.
	OverflowReject
	// OverflowDropOldest evicts the oldest queued item, whose handle resolves
	// with ErrDropped, and queues the new one.
	OverflowDropOldest
)

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowReject:
		return "reject"
	case OverflowDropOldest:
		return "drop_oldest"
	default:
		return "block"
	}
}

// ParseOverflowPolicy maps "block", "reject" and "drop_oldest" to a policy.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "block":
		return OverflowBlock, nil
	case "reject":
		return OverflowReject, nil
	case "drop_oldest":
		return OverflowDropOldest, nil
	default:
		return OverflowBlock, fmt.Errorf("unknown overflow policy %q", s)
	}
}

// PanicError is delivered through a Handle when its task panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("work item panicked: %v", e.Value)
}

func (e *PanicError) Unwrap() error { return ErrTaskPanicked }

// Handle resolves exactly once with the result of a submitted task.
type Handle struct {
	id    string
	done  chan struct{}
	once  sync.Once
	value any
	err   error
}

func newHandle() *Handle {
	return &Handle{id: uuid.NewString(), done: make(chan struct{})}
}

// ID identifies the work item in logs.
func (h *Handle) ID() string { return h.id }

// Wait blocks until the task resolves or ctx ends. Giving up on the wait does
// not cancel the item; it still resolves.
func (h *Handle) Wait(ctx context.Context) (any, error) {
	select {
	case <-h.done:
		return h.value, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Handle) resolve(v any, err error) {
	h.once.Do(func() {
		h.value, h.err = v, err
		close(h.done)
	})
}

type workItem struct {
	ctx    context.Context
	task   Task
	handle *Handle
}

// Options configures a Pool. Zero values fall back to defaults.
type Options struct {
	Workers   int
	QueueSize int
	Overflow  OverflowPolicy
}

// Stats is a point-in-time view of the pool.
type Stats struct {
	Workers  int
	Busy     int
	Queued   int
	Capacity int
	Closed   bool
}

// Pool runs tasks on a fixed set of workers fed by a bounded FIFO queue.
type Pool struct {
	opts  Options
	items chan *workItem
	log   zerolog.Logger

	mu    sync.RWMutex // held for reading around every send on items
	evict sync.Mutex

	closed      atomic.Bool
	closing     chan struct{} // closed when Shutdown begins
	closingOnce sync.Once
	itemsOnce   sync.Once

	startOnce sync.Once
	abort     chan struct{}
	abortOnce sync.Once
	wg        sync.WaitGroup
	busy      atomic.Int64
}

// NewPool creates a Pool. Call Start before submitting work.
func NewPool(opts Options, log zerolog.Logger) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	return &Pool{
		opts:    opts,
		items:   make(chan *workItem, opts.QueueSize),
		log:     log.With().Str("component", "worker_pool").Logger(),
		abort:   make(chan struct{}),
		closing: make(chan struct{}),
	}
}

// Start launches the workers. Subsequent calls do nothing.
func (p *Pool) Start() {
	p.startOnce.Do(func() {
		p.wg.Add(p.opts.Workers)
		for i := 0; i < p.opts.Workers; i++ {
			go p.runWorker(i)
		}
		p.log.Info().
			Int("workers", p.opts.Workers).
			Int("queue_size", p.opts.QueueSize).
			Str("overflow", p.opts.Overflow.String()).
			Msg("worker pool started")
	})
}

// Submit queues task and returns its handle. The item inherits ctx: if ctx is
// done by the time a worker claims it, the task is not run and the handle
// resolves with ErrDeadlineExceeded.
func (p *Pool) Submit(ctx context.Context, task Task) (*Handle, error) {
	if task == nil {
		return nil, errors.New("submit: nil task")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed.Load() {
		metrics.WorkerTasksTotal.WithLabelValues("closed").Inc()
		return nil, ErrPoolClosed
	}

	it := &workItem{ctx: ctx, task: task, handle: newHandle()}
	if err := p.enqueue(ctx, it); err != nil {
		outcome := "rejected"
		if errors.Is(err, ErrPoolClosed) {
			outcome = "closed"
		}
		metrics.WorkerTasksTotal.WithLabelValues(outcome).Inc()
		return nil, err
	}
	metrics.WorkerQueueDepth.Set(float64(len(p.items)))
	return it.handle, nil
}

func (p *Pool) enqueue(ctx context.Context, it *workItem) error {
	switch p.opts.Overflow {
	case OverflowReject:
		select {
		case p.items <- it:
			return nil
		default:
			return ErrQueueFull
		}

	case OverflowDropOldest:
		p.evict.Lock()
		defer p.evict.Unlock()
		for {
			select {
			case p.items <- it:
				return nil
			default:
			}
			select {
			case old := <-p.items:
				old.handle.resolve(nil, ErrDropped)
				metrics.WorkerTasksTotal.WithLabelValues("dropped").Inc()
				p.log.Warn().Str("item_id", old.handle.ID()).Msg("queue full, dropped oldest work item")
			default:
			}
		}

	default:
		// A blocked submitter gives up as soon as Shutdown begins so the
		// read lock is never held past that point.
		select {
		case p.items <- it:
			return nil
		case <-p.closing:
			return ErrPoolClosed
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrQueueFull, ctx.Err())
		}
	}
}

func (p *Pool) runWorker(id int) {
	defer p.wg.Done()
	for it := range p.items {
		metrics.WorkerQueueDepth.Set(float64(len(p.items)))
		p.execute(id, it)
	}
}

func (p *Pool) execute(workerID int, it *workItem) {
	select {
	case <-p.abort:
		it.handle.resolve(nil, ErrPoolClosed)
		metrics.WorkerTasksTotal.WithLabelValues("closed").Inc()
		return
	default:
	}

	if err := it.ctx.Err(); err != nil {
		it.handle.resolve(nil, fmt.Errorf("%w: %w", ErrDeadlineExceeded, err))
		metrics.WorkerTasksTotal.WithLabelValues("expired").Inc()
		p.log.Debug().Str("item_id", it.handle.ID()).Int("worker_id", workerID).Msg("work item expired in queue")
		return
	}

	p.busy.Add(1)
	metrics.WorkersBusy.Inc()
	start := time.Now()

	v, err := p.run(it)

	metrics.WorkerTaskDuration.Observe(time.Since(start).Seconds())
	metrics.WorkersBusy.Dec()
	p.busy.Add(-1)

	outcome := "ok"
	var pe *PanicError
	switch {
	case errors.As(err, &pe):
		outcome = "panic"
		p.log.Error().
			Str("item_id", it.handle.ID()).
			Int("worker_id", workerID).
			Interface("panic", pe.Value).
			Bytes("stack", pe.Stack).
			Msg("work item panicked")
	case err != nil:
		outcome = "error"
	}
	metrics.WorkerTasksTotal.WithLabelValues(outcome).Inc()
	it.handle.resolve(v, err)
}

func (p *Pool) run(it *workItem) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return it.task(it.ctx)
}

// Shutdown stops accepting work and waits for queued and in-flight items to
// finish. Submitters blocked on a full queue fail with ErrPoolClosed. If ctx
// ends first, items still queued resolve with ErrPoolClosed and ctx.Err() is
// returned.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.closingOnce.Do(func() {
		p.closed.Store(true)
		close(p.closing)
	})

	p.mu.Lock()
	p.itemsOnce.Do(func() { close(p.items) })
	p.mu.Unlock()

	started := true
	p.startOnce.Do(func() { started = false })
	if !started {
		// No workers will ever drain the queue.
		for it := range p.items {
			it.handle.resolve(nil, ErrPoolClosed)
			metrics.WorkerTasksTotal.WithLabelValues("closed").Inc()
		}
		return nil
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.log.Info().Msg("worker pool drained")
		return nil
	case <-ctx.Done():
		p.abortOnce.Do(func() { close(p.abort) })
		p.log.Warn().Int("queued", len(p.items)).Msg("worker pool shutdown deadline reached")
		return ctx.Err()
	}
}

// Stats reports current pool occupancy.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:  p.opts.Workers,
		Busy:     int(p.busy.Load()),
		Queued:   len(p.items),
		Capacity: p.opts.QueueSize,
		Closed:   p.closed.Load(),
	}
}
