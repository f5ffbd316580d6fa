package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestProcessorFunctionality(t *testing.T) {
	ctx := context.Background()
	var batches [][]int

	processor := NewProcessor(5, func(_ context.Context, items []int) error {
		batches = append(batches, items)
		return nil
	})

	// Add 12 items (should create 2 full batches + 2 remaining)
	for i := 0; i < 12; i++ {
		if err := processor.Add(ctx, i); err != nil {
			t.Fatal(err)
		}
	}
	if processor.Pending() != 2 {
		t.Errorf("Pending = %d, want 2", processor.Pending())
	}
	if err := processor.Flush(ctx); err != nil {
		t.Fatal(err)
	}

	if len(batches) != 3 {
		t.Fatalf("Expected 3 batches, got %d", len(batches))
	}
	if len(batches[0]) != 5 || len(batches[1]) != 5 || len(batches[2]) != 2 {
		t.Error("Batch sizes incorrect")
	}
	if batches[0][0] != 0 || batches[1][0] != 5 {
		t.Error("earlier batches were overwritten by later ones")
	}
	if processor.Processed() != 12 {
		t.Errorf("Processed = %d, want 12", processor.Processed())
	}
}

func TestProcessorPropagatesFlushError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	processor := NewProcessor(2, func(_ context.Context, items []string) error {
		return boom
	})

	if err := processor.Add(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if err := processor.Add(ctx, "b"); !errors.Is(err, boom) {
		t.Errorf("expected flush error, got %v", err)
	}
	if processor.Processed() != 0 {
		t.Errorf("Processed = %d, want 0", processor.Processed())
	}
}

func TestProcessorStopsOnCancelledContext(t *testing.T) {
	var calls int32
	processor := NewProcessor(0, func(_ context.Context, items []int) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	_ = processor.Add(ctx, 1)
	cancel()

	if err := processor.Flush(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("flush function should not run after cancellation")
	}
}

// BenchmarkProcessor benchmarks batch processing.
func BenchmarkProcessor(b *testing.B) {
	ctx := context.Background()
	var processed int64

	processor := NewProcessor(100, func(_ context.Context, items []int) error {
		atomic.AddInt64(&processed, int64(len(items)))
		return nil
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		processor.Add(ctx, i)
	}
	processor.Flush(ctx)
}
