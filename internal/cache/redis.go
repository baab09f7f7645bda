package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client counts guard requests per client in Redis.
type Client struct {
	rdb         *redis.Client
	maxRequests int
	window      time.Duration
}

func NewClient(addr string, maxRequests int, window time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	return &Client{rdb: rdb, maxRequests: maxRequests, window: window}, nil
}

// IsRateLimited reports whether ip has exceeded its budget for the current
// fixed window. The window starts at the first request and is not extended
// by later ones. Redis failures let the request through.
func (c *Client) IsRateLimited(ctx context.Context, ip string) bool {
	key := fmt.Sprintf("coffee-bff:ratelimit:%s", ip)

	pipe := c.rdb.Pipeline()
	pipe.SetNX(ctx, key, 0, c.window)
	incr := pipe.Incr(ctx, key)
	_, err := pipe.Exec(ctx)

	if err != nil {
		slog.Warn("Rate limiter unavailable", "error", err)
		return false
	}

	return incr.Val() > int64(c.maxRequests)
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
