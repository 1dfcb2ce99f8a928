package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const orderCodeKey = "sequence:order_code"

// Client wraps go-redis for the counters the service needs.
type Client struct {
	rdb   *redis.Client
	start int64
}

func Initialize(redisURL string, orderCodeStart int64) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewClient(rdb, orderCodeStart), nil
}

func NewClient(rdb *redis.Client, orderCodeStart int64) *Client {
	return &Client{rdb: rdb, start: orderCodeStart}
}

// NextOrderCode returns the next value of the shared order code sequence.
// The sequence is seeded once so the first code handed out is start+1.
func (c *Client) NextOrderCode(ctx context.Context) (int64, error) {
	if err := c.rdb.SetNX(ctx, orderCodeKey, c.start, 0).Err(); err != nil {
		return 0, fmt.Errorf("failed to seed order code sequence: %w", err)
	}
	code, err := c.rdb.Incr(ctx, orderCodeKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate order code: %w", err)
	}
	return code, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
