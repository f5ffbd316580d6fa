// Package batch groups items into fixed-size batches for bulk writes.
package batch

import (
	"context"
	"sync"
)

// DefaultSize is the batch size used when none is given.
const DefaultSize = 100

// Processor collects items and hands them to a flush function in batches.
type Processor[T any] struct {
	batchSize int
	flushFn   func(context.Context, []T) error
	items     []T
	processed int
	mu        sync.Mutex
}

// NewProcessor creates a new batch processor. A batchSize <= 0 uses DefaultSize.
func NewProcessor[T any](batchSize int, flush func(context.Context, []T) error) *Processor[T] {
	if batchSize <= 0 {
		batchSize = DefaultSize
	}
	return &Processor[T]{
		batchSize: batchSize,
		flushFn:   flush,
		items:     make([]T, 0, batchSize),
	}
}

// Add adds an item to the batch. If the batch is full, it's processed.
func (b *Processor[T]) Add(ctx context.Context, item T) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = append(b.items, item)
	if len(b.items) >= b.batchSize {
		return b.flush(ctx)
	}
	return nil
}

// Flush processes any remaining items in the batch.
func (b *Processor[T]) Flush(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flush(ctx)
}

// Processed returns how many items were flushed successfully.
func (b *Processor[T]) Processed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.processed
}

// Pending returns how many items wait for the next flush.
func (b *Processor[T]) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

func (b *Processor[T]) flush(ctx context.Context) error {
	if len(b.items) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	batch := make([]T, len(b.items))
	copy(batch, b.items)
	b.items = b.items[:0] // Reset slice but keep capacity

	if err := b.flushFn(ctx, batch); err != nil {
		return err
	}
	b.processed += len(batch)
	return nil
}
