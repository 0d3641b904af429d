package trip

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend-tripsight/internal/analytics"

	"github.com/redis/go-redis/v9"
)

// Cache keeps rendered visualizations in Redis so repeated page loads skip
// the rebuild. A nil Cache or nil client degrades to cache misses, keeping
// Redis optional.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{redis: client, ttl: ttl}
}

func (c *Cache) GetVisualization(ctx context.Context, tripID, userID string, page, pageSize int) (analytics.Visualization, bool) {
	if c == nil || c.redis == nil {
		return analytics.Visualization{}, false
	}

	payload, err := c.redis.Get(ctx, vizKey(tripID, userID, page, pageSize)).Bytes()
	if err != nil {
		return analytics.Visualization{}, false
	}

	var vis analytics.Visualization
	if err := json.Unmarshal(payload, &vis); err != nil {
		return analytics.Visualization{}, false
	}
	return vis, true
}

func (c *Cache) SetVisualization(ctx context.Context, tripID, userID string, page, pageSize int, vis analytics.Visualization) {
	if c == nil || c.redis == nil {
		return
	}

	payload, err := json.Marshal(vis)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, vizKey(tripID, userID, page, pageSize), payload, c.ttl).Err()
}

// InvalidateTrip drops every cached page of one trip. SCAN keeps the
// lookup incremental instead of blocking the server on a full keyspace walk.
func (c *Cache) InvalidateTrip(ctx context.Context, tripID string) {
	if c == nil || c.redis == nil {
		return
	}

	var keys []string
	iter := c.redis.Scan(ctx, 0, "trip:viz:"+tripID+":*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if iter.Err() != nil || len(keys) == 0 {
		return
	}
	_ = c.redis.Del(ctx, keys...).Err()
}

// Keys are scoped by viewer so a cached page can never serve a trip the
// requesting user does not own.
func vizKey(tripID, userID string, page, pageSize int) string {
	return fmt.Sprintf("trip:viz:%s:%s:%d:%d", tripID, userID, page, pageSize)
}
