package trip

import (
	"context"
	"testing"
	"time"

	"backend-tripsight/internal/analytics"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)

	ctx := context.Background()
	vis := analytics.Visualization{TripID: "t-1", TripName: "Morning Run"}

	if _, ok := cache.GetVisualization(ctx, "t-1", "user-1", 1, 10); ok {
		t.Fatalf("expected a miss on a cold cache")
	}

	cache.SetVisualization(ctx, "t-1", "user-1", 1, 10, vis)

	got, ok := cache.GetVisualization(ctx, "t-1", "user-1", 1, 10)
	if !ok {
		t.Fatalf("expected a hit after set")
	}
	if got.TripName != "Morning Run" {
		t.Fatalf("unexpected cached value: %+v", got)
	}

	// Same trip, different page: separate entry.
	if _, ok := cache.GetVisualization(ctx, "t-1", "user-1", 2, 10); ok {
		t.Fatalf("page 2 should not share page 1's entry")
	}
}

func TestCacheEntriesExpire(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)

	ctx := context.Background()
	cache.SetVisualization(ctx, "t-1", "user-1", 1, 10, analytics.Visualization{TripID: "t-1"})

	mr.FastForward(2 * time.Minute)

	if _, ok := cache.GetVisualization(ctx, "t-1", "user-1", 1, 10); ok {
		t.Fatalf("entry should have expired")
	}
}

func TestInvalidateTripDropsAllPages(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)

	ctx := context.Background()
	cache.SetVisualization(ctx, "t-1", "user-1", 1, 10, analytics.Visualization{TripID: "t-1"})
	cache.SetVisualization(ctx, "t-1", "user-1", 2, 10, analytics.Visualization{TripID: "t-1"})
	cache.SetVisualization(ctx, "t-2", "user-1", 1, 10, analytics.Visualization{TripID: "t-2"})

	cache.InvalidateTrip(ctx, "t-1")

	if _, ok := cache.GetVisualization(ctx, "t-1", "user-1", 1, 10); ok {
		t.Fatalf("page 1 survived invalidation")
	}
	if _, ok := cache.GetVisualization(ctx, "t-1", "user-1", 2, 10); ok {
		t.Fatalf("page 2 survived invalidation")
	}
	if _, ok := cache.GetVisualization(ctx, "t-2", "user-1", 1, 10); !ok {
		t.Fatalf("other trip's entry should be untouched")
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	ctx := context.Background()

	var cache *Cache
	cache.SetVisualization(ctx, "t-1", "user-1", 1, 10, analytics.Visualization{})
	cache.InvalidateTrip(ctx, "t-1")
	if _, ok := cache.GetVisualization(ctx, "t-1", "user-1", 1, 10); ok {
		t.Fatalf("nil cache must always miss")
	}

	empty := NewCache(nil, time.Minute)
	empty.SetVisualization(ctx, "t-1", "user-1", 1, 10, analytics.Visualization{})
	if _, ok := empty.GetVisualization(ctx, "t-1", "user-1", 1, 10); ok {
		t.Fatalf("cache without a client must always miss")
	}
}
