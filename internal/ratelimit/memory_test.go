package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_RemoveExpired(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore().WithClock(clock.Now)
	ctx := context.Background()

	store.Increment(ctx, "old", time.Minute)
	clock.Advance(30 * time.Second)
	store.Increment(ctx, "fresh", time.Minute)

	clock.Advance(40 * time.Second)
	store.removeExpired()

	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", store.Len())
	}

	count, _, _ := store.Increment(ctx, "fresh", time.Minute)
	if count != 2 {
		t.Errorf("fresh count = %d, want 2", count)
	}
}

func TestMemoryStore_Janitor(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore().WithClock(clock.Now)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store.Increment(ctx, "k", time.Minute)
	clock.Advance(2 * time.Minute)

	store.StartJanitor(ctx, 10*time.Millisecond)

	deadline := time.After(2 * time.Second)
	for store.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("janitor did not remove the expired window")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
