package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Default processing configuration.
const (
	// DefaultBatchSize is the default number of items per batch.
	DefaultBatchSize = 20

	// DefaultConcurrency is the default number of concurrent calls per batch.
	DefaultConcurrency = 4

	// MinBatchSize is the minimum allowed batch size.
	MinBatchSize = 1

	// MaxBatchSize is the maximum allowed batch size.
	MaxBatchSize = 500
)

// Common processing errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 500")
	ErrNilOperation     = errors.New("batch operation cannot be nil")
	ErrEmptyItems       = errors.New("items slice cannot be empty")
)

// Operation is the per-item call, e.g. deleting one transaction.
type Operation[T any] func(ctx context.Context, item T) error

// ProgressCallback is invoked after each item completes. It may be called
// from several goroutines, never concurrently.
type ProgressCallback func(snap ProgressSnapshot)

// Failure records an item whose operation returned an error.
type Failure[T any] struct {
	Item T
	Err  error
}

// Result summarizes a run.
type Result[T any] struct {
	Succeeded []T
	Failed    []Failure[T]
}

// Total returns the number of items attempted.
func (r Result[T]) Total() int {
	return len(r.Succeeded) + len(r.Failed)
}

// Err joins every item failure, or returns nil.
func (r Result[T]) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = fmt.Errorf("%v: %w", f.Item, f.Err)
	}
	return errors.Join(errs...)
}

// Processor runs an Operation over items in batches.
type Processor[T any] struct {
	batchSize   int
	concurrency int
	onProgress  ProgressCallback

	mu sync.Mutex
}

// NewProcessor creates a processor with the given batch size.
func NewProcessor[T any](batchSize int) (*Processor[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	return &Processor[T]{batchSize: batchSize, concurrency: DefaultConcurrency}, nil
}

// NewProcessorWithDefaults creates a processor with the default batch size.
func NewProcessorWithDefaults[T any]() *Processor[T] {
	return &Processor[T]{batchSize: DefaultBatchSize, concurrency: DefaultConcurrency}
}

// WithProgressCallback sets a progress callback.
func (p *Processor[T]) WithProgressCallback(callback ProgressCallback) *Processor[T] {
	p.onProgress = callback
	return p
}

// WithConcurrency sets how many calls run at once within a batch. Values
// below 1 mean sequential.
func (p *Processor[T]) WithConcurrency(n int) *Processor[T] {
	p.concurrency = max(n, 1)
	return p
}

// Run applies op to every item. It returns an error only for invalid input
// or context cancellation; per-item failures are reported in the Result.
// Items not attempted because ctx was cancelled are absent from the Result.
func (p *Processor[T]) Run(ctx context.Context, items []T, op Operation[T]) (Result[T], error) {
	var res Result[T]
	if len(items) == 0 {
		return res, ErrEmptyItems
	}
	if op == nil {
		return res, ErrNilOperation
	}

	batches := p.CalculateBatches(len(items))
	progress := NewProgress(len(items), len(batches), p.batchSize)

	for _, bounds := range batches {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.concurrency)
		for _, item := range items[bounds[0]:bounds[1]] {
			g.Go(func() error {
				if gctx.Err() != nil {
					return nil
				}
				err := op(gctx, item)
				p.record(&res, progress, item, err)
				return nil
			})
		}
		_ = g.Wait()
		progress.FinishBatch()
	}

	return res, ctx.Err()
}

// record stores one outcome and notifies the progress callback.
func (p *Processor[T]) record(res *Result[T], progress *Progress, item T, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		res.Failed = append(res.Failed, Failure[T]{Item: item, Err: err})
	} else {
		res.Succeeded = append(res.Succeeded, item)
	}
	progress.AddProcessed(1, err != nil)
	if p.onProgress != nil {
		p.onProgress(progress.Snapshot())
	}
}

// GetBatchSize returns the configured batch size.
func (p *Processor[T]) GetBatchSize() int {
	return p.batchSize
}

// CalculateBatches returns [start, end) index pairs for totalItems.
func (p *Processor[T]) CalculateBatches(totalItems int) [][2]int {
	n := (totalItems + p.batchSize - 1) / p.batchSize
	batches := make([][2]int, n)
	for i := range n {
		start := i * p.batchSize
		batches[i] = [2]int{start, min(start+p.batchSize, totalItems)}
	}
	return batches
}
