package room

import (
	"context"
	"sync"
)

// Request is one queued mode change. Source records where the trigger came
// from (macro, api, mqtt) for logging.
type Request struct {
	Mode   Mode
	Source string
}

// defaultQueueDepth bounds pending mode changes. A screen travel takes ~31s;
// anything beyond a couple of queued requests is operator key-mashing.
const defaultQueueDepth = 2

// Queue decouples trigger sources from mode application. Triggers enqueue;
// a single worker goroutine drains requests sequentially, guaranteeing at
// most one SetMode is in flight at a time. A request arriving while the
// queue is full is dropped and logged; mode changes are not composable
// mid-flight, and dropping beats silently interleaving.
type Queue struct {
	orch     *Orchestrator
	logger   Logger
	requests chan Request

	mu      sync.Mutex
	closed  bool
	started bool
	done    chan struct{}
}

// NewQueue creates a queue in front of the orchestrator. depth <= 0 selects
// the default.
func NewQueue(orch *Orchestrator, depth int, logger Logger) *Queue {
	if depth <= 0 {
		depth = defaultQueueDepth
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Queue{
		orch:     orch,
		logger:   logger,
		requests: make(chan Request, depth),
		done:     make(chan struct{}),
	}
}

// Start launches the worker goroutine. It drains until the context is
// cancelled or Close is called.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	q.started = true
	q.mu.Unlock()
	go func() {
		defer close(q.done)
		for {
			select {
			case <-ctx.Done():
				return
			case req, ok := <-q.requests:
				if !ok {
					return
				}
				q.logger.Info("applying queued mode change",
					"mode", string(req.Mode),
					"source", req.Source,
				)
				q.orch.SetMode(ctx, req.Mode)
			}
		}
	}()
}

// Enqueue submits a mode change. It never blocks: when the queue is full the
// request is dropped and false is returned so the caller can report it.
// Returns ErrQueueClosed after Close.
func (q *Queue) Enqueue(mode Mode, source string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false, ErrQueueClosed
	}

	select {
	case q.requests <- Request{Mode: mode, Source: source}:
		return true, nil
	default:
		q.logger.Warn("mode change dropped, queue full",
			"mode", string(mode),
			"source", source,
		)
		return false, nil
	}
}

// Pending returns the number of queued requests not yet started.
func (q *Queue) Pending() int {
	return len(q.requests)
}

// Close stops accepting requests and waits for the worker to drain what was
// already queued. Safe to call once.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	started := q.started
	close(q.requests)
	q.mu.Unlock()
	if started {
		<-q.done
	}
}
