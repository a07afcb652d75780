package notifications

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDelayed(t *testing.T) {
	src := NewMemorySource(DefaultSeed(""), 0)
	if Delayed(src, 0) != Source(src) {
		t.Error("zero delay should return the source unchanged")
	}

	delayed := Delayed(src, 20*time.Millisecond)
	start := time.Now()
	list, err := delayed.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 5 {
		t.Errorf("List returned %d, want 5", len(list))
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("List returned after %v, want at least 20ms", elapsed)
	}

	if err := delayed.Delete(context.Background(), "1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, _ = src.List(context.Background())
	if len(list) != 4 {
		t.Errorf("Delete should reach the wrapped source, got %d rows", len(list))
	}
}

func TestDelayedHonoursContext(t *testing.T) {
	delayed := Delayed(NewMemorySource(DefaultSeed(""), 0), time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := delayed.List(ctx)
	if !errors.Is(err, context.Canceled) || KindOf(err) != KindUnavailable {
		t.Errorf("List error = %v, want cancelled", err)
	}
}
