// Package worker reads PGN files in parallel. Each file is handled by one
// worker with its own parser.Reader, so no parser state is shared.
package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/lgbarn/chessdb/internal/chess"
	"github.com/lgbarn/chessdb/internal/stats"
)

// WorkItem is a file to read and its position in the caller's list.
type WorkItem struct {
	Path  string
	Index int
}

// ProcessResult is what reading one file produced.
type ProcessResult struct {
	Path  string
	Index int
	Games []*chess.Game
	// Err is a file-level failure. Per-game failures are recorded on the
	// games themselves and combined in GameErrs.
	Err      error
	GameErrs error
}

// ErrPoolClosed is the stop cause of a pool after Close.
var ErrPoolClosed = errors.New("worker pool closed")

// ProcessFunc reads one item.
type ProcessFunc func(ctx context.Context, item WorkItem) ProcessResult

// Pool runs a ProcessFunc over submitted items on a fixed set of
// goroutines. Results arrive in completion order.
type Pool struct {
	workers int
	buffer  int
	fn      ProcessFunc
	stats   stats.Collector

	ctx    context.Context
	cancel context.CancelCauseFunc

	items   chan WorkItem
	results chan ProcessResult
	wg      sync.WaitGroup
	busy    atomic.Int64
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of goroutines. Values below 1 are ignored.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n >= 1 {
			p.workers = n
		}
	}
}

// WithBufferSize sets the capacity of the item and result channels.
func WithBufferSize(size int) PoolOption {
	return func(p *Pool) {
		if size >= 1 {
			p.buffer = size
		}
	}
}

// WithStats reports files read and busy workers to c.
func WithStats(c stats.Collector) PoolOption {
	return func(p *Pool) {
		p.stats = stats.OrNoop(c)
	}
}

// NewPool creates a pool bound to ctx. Defaults: one worker, buffer of 10.
func NewPool(ctx context.Context, fn ProcessFunc, opts ...PoolOption) *Pool {
	p := &Pool{
		workers: 1,
		buffer:  10,
		fn:      fn,
		stats:   stats.Noop{},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.ctx, p.cancel = context.WithCancelCause(ctx)
	p.items = make(chan WorkItem, p.buffer)
	p.results = make(chan ProcessResult, p.buffer)
	return p
}

// Start launches the workers.
func (p *Pool) Start() {
	for range p.workers {
		p.wg.Add(1)
		go p.work()
	}
}

// work handles items until the item channel is closed. Items received after
// the pool is stopped are dropped without a result.
func (p *Pool) work() {
	defer p.wg.Done()
	for item := range p.items {
		if p.ctx.Err() != nil {
			continue
		}
		p.stats.SetGauge(stats.MetricBusyWorkers, p.busy.Add(1))
		res := p.fn(p.ctx, item)
		p.stats.SetGauge(stats.MetricBusyWorkers, p.busy.Add(-1))
		p.stats.IncCounter(stats.MetricFilesRead, 1)
		p.results <- res
	}
}

// Submit queues an item, blocking while the buffer is full. It returns the
// stop cause if the pool is stopped first.
func (p *Pool) Submit(item WorkItem) error {
	if p.ctx.Err() != nil {
		return context.Cause(p.ctx)
	}
	select {
	case <-p.ctx.Done():
		return context.Cause(p.ctx)
	case p.items <- item:
		return nil
	}
}

// TrySubmit queues an item without blocking. It reports false when the
// buffer is full or the pool is stopped.
func (p *Pool) TrySubmit(item WorkItem) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.items <- item:
		return true
	default:
		return false
	}
}

// Stop makes workers drop the items still queued. cause is reported by
// Submit and Err; nil means context.Canceled.
func (p *Pool) Stop(cause error) {
	p.cancel(cause)
}

// Stopped reports whether the pool or its parent context was cancelled.
func (p *Pool) Stopped() bool {
	return p.ctx.Err() != nil
}

// Err returns why the pool stopped, or nil.
func (p *Pool) Err() error {
	if p.ctx.Err() == nil {
		return nil
	}
	return context.Cause(p.ctx)
}

// Close stops accepting items and waits for the workers. The result channel
// is closed once the last worker returns. Close must be called once, by the
// goroutine that submits.
func (p *Pool) Close() {
	close(p.items)
	p.wg.Wait()
	close(p.results)
	p.cancel(ErrPoolClosed)
}

// Results returns the channel results are delivered on.
func (p *Pool) Results() <-chan ProcessResult {
	return p.results
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}
