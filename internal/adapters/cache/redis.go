// Package cache holds the shared Redis client used by the target
// read-through cache and the rate limiter.
package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout = 5 * time.Second
	opTimeout   = 3 * time.Second
)

// NewRedisClient connects and pings, so wiring fails fast when Redis is
// unreachable instead of surfacing as cache misses later.
func NewRedisClient(host, port, password string, dbIndex int) (*redis.Client, error) {
	addr := net.JoinHostPort(host, port)

	rdb := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		DB:              dbIndex,
		DialTimeout:     dialTimeout,
		ReadTimeout:     opTimeout,
		WriteTimeout:    opTimeout,
		PoolSize:        20,
		MinIdleConns:    2,
		ConnMaxIdleTime: 5 * time.Minute,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	return rdb, nil
}
