package workerpool

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRun_ProcessesAllItemsAndSortsDeterministically(t *testing.T) {
	items := []Item[int, int]{
		{Key: 3, Value: 30},
		{Key: 1, Value: 10},
		{Key: 2, Value: 20},
	}

	results, err := Run(context.Background(), items, 4,
		func(ctx context.Context, key int, value int) (int, error) {
			return value * 2, nil
		},
		func(a, b Result[int, int]) bool { return a.Key < b.Key },
	)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	wantKeys := []int{1, 2, 3}
	wantOut := []int{20, 40, 60}
	for i, r := range results {
		if r.Key != wantKeys[i] || r.Out != wantOut[i] {
			t.Errorf("result[%d] = %+v, want key=%d out=%d", i, r, wantKeys[i], wantOut[i])
		}
	}
}

func TestRun_PerItemErrorsAreCollectedNotFatal(t *testing.T) {
	items := []Item[string, int]{
		{Key: "a", Value: 1},
		{Key: "b", Value: 0},
	}

	results, err := Run(context.Background(), items, 2,
		func(ctx context.Context, key string, value int) (int, error) {
			if value == 0 {
				return 0, errors.New("boom")
			}
			return value, nil
		},
		func(a, b Result[string, int]) bool { return a.Key < b.Key },
	)
	if err != nil {
		t.Fatalf("Run returned a fatal error for a per-item failure: %v", err)
	}
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected exactly one failed item, got %d", failed)
	}
}

func TestRun_EmptyInput(t *testing.T) {
	results, err := Run[int, int, int](context.Background(), nil, 4,
		func(ctx context.Context, key int, value int) (int, error) { return 0, nil },
		func(a, b Result[int, int]) bool { return a.Key < b.Key },
	)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestRun_CancellationStopsAcceptingNewWork(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	items := make([]Item[int, int], 50)
	for i := range items {
		items[i] = Item[int, int]{Key: i, Value: i}
	}

	var processed int
	_, err := Run(ctx, items, 2,
		func(ctx context.Context, key int, value int) (int, error) {
			processed++
			if key == 5 {
				cancel()
			}
			time.Sleep(time.Millisecond)
			return value, nil
		},
		func(a, b Result[int, int]) bool { return a.Key < b.Key },
	)
	if err == nil {
		t.Error("expected context cancellation error, got nil")
	}
	if processed >= len(items) {
		t.Errorf("expected cancellation to stop processing before all items ran, processed=%d", processed)
	}
}
