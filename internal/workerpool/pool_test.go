package workerpool

import (
	"context"
	"math/rand"
	"testing"
	"time"
)

func TestRunPreservesOrderUnderRandomLatency(t *testing.T) {
	items := make([]int, 200)
	for i := range items {
		items[i] = i
	}

	for _, workers := range []int{1, 3, 7, len(items), len(items) + 5} {
		workers := workers
		t.Run("", func(t *testing.T) {
			got := Run(context.Background(), items, workers, func(n int) int {
				time.Sleep(time.Duration(rand.Intn(200)) * time.Microsecond)
				return n * 2
			})
			if len(got) != len(items) {
				t.Fatalf("expected %d results, got %d", len(items), len(got))
			}
			for i, v := range got {
				if v != i*2 {
					t.Fatalf("workers=%d: expected result[%d]=%d, got %d", workers, i, i*2, v)
				}
			}
		})
	}
}

func TestRunEmptyInput(t *testing.T) {
	got := Run(context.Background(), []int{}, 4, func(n int) int { return n })
	if got != nil {
		t.Fatalf("expected nil result for empty input, got %v", got)
	}
}

func TestRunZeroOrNegativeWorkersClampsToOne(t *testing.T) {
	got := Run(context.Background(), []int{1, 2, 3}, 0, func(n int) int { return n * n })
	if len(got) != 3 || got[0] != 1 || got[1] != 4 || got[2] != 9 {
		t.Fatalf("expected squared results in order, got %v", got)
	}
}

func TestRunRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	items := make([]int, 50)
	got := Run(ctx, items, 4, func(n int) int {
		time.Sleep(time.Millisecond)
		return n + 1
	})
	if len(got) != len(items) {
		t.Fatalf("expected a full-length result slice even when cancelled, got %d entries", len(got))
	}
}
