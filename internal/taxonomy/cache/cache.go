// Package cache provides a Redis-backed cache for taxonomy snapshots so
// that multiple instances share one warm copy of the reference data.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"leadcrm_backend/internal/taxonomy"

	"github.com/redis/go-redis/v9"
)

const snapshotKey = "taxonomy:nodes"

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a taxonomy cache on top of the given Redis client.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached node list, or ok=false on a miss.
// Corrupt payloads are treated as misses and dropped.
func (c *Cache) Get(ctx context.Context) ([]taxonomy.Node, bool, error) {
	payload, err := c.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var nodes []taxonomy.Node
	if err := json.Unmarshal(payload, &nodes); err != nil {
		_ = c.client.Del(ctx, snapshotKey).Err()
		return nil, false, nil
	}

	return nodes, true, nil
}

// Set stores the node list with the configured TTL.
func (c *Cache) Set(ctx context.Context, nodes []taxonomy.Node) error {
	payload, err := json.Marshal(nodes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey, payload, c.ttl).Err()
}

// Invalidate drops the cached node list. Called after taxonomy edits.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, snapshotKey).Err()
}
