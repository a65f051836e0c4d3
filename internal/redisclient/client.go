package redisclient

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

//go:embed scripts/adjust_quantity.lua
var adjustQuantityScript string

// Client caches the color quantity aggregate for the read side and
// keeps a fast-path seen-set for webhook event ids. The database stays
// authoritative for both.
type Client struct {
	rdb          *redis.Client
	adjustScript *redis.Script
}

// NewClient creates a new Redis client with the Lua script loaded
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:          rdb,
		adjustScript: redis.NewScript(adjustQuantityScript),
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func colorKey(colorID int64) string {
	return fmt.Sprintf("color:qty:%d", colorID)
}

// SetColorQuantity overwrites the cached aggregate for a color.
func (c *Client) SetColorQuantity(ctx context.Context, colorID int64, quantity int) error {
	return c.rdb.Set(ctx, colorKey(colorID), quantity, 0).Err()
}

// AdjustColorQuantity atomically shifts the cached aggregate, floored
// at zero. Returns the new value, or -1 if the color is not cached.
func (c *Client) AdjustColorQuantity(ctx context.Context, colorID int64, delta int) (int64, error) {
	result, err := c.adjustScript.Run(ctx, c.rdb, []string{colorKey(colorID)}, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("adjust quantity script failed: %w", err)
	}

	qty, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected script result type")
	}
	return qty, nil
}

// GetColorQuantity reads the cached aggregate. The second return is
// false on a cache miss.
func (c *Client) GetColorQuantity(ctx context.Context, colorID int64) (int, bool, error) {
	val, err := c.rdb.Get(ctx, colorKey(colorID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	qty, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, err
	}
	return qty, true, nil
}

// MarkEventSeen records a webhook event id with a TTL. Returns false
// when the id was already seen. This is only a cheap pre-filter; the
// processed_events table inside the finalization transaction is the
// authoritative idempotency check.
func (c *Client) MarkEventSeen(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("webhook:seen:%s", eventID), "1", ttl).Result()
}
