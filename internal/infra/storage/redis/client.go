// Package redis implements the indexer.CursorCache interface on top of a
// Redis instance. The cache fronts durable cursor storage; losing it only
// costs one extra storage read per account.
package redis

import (
	"context"

	redis "github.com/redis/go-redis/v9"
)

// client wraps a Redis connection shared by all cache operations.
type client struct {
	conn *redis.Client
}

// Close releases the underlying connection pool.
func (c *client) Close() error {
	return c.conn.Close()
}

// NewClient connects to the Redis instance at addr and verifies the
// connection with a ping before returning.
func NewClient(ctx context.Context, addr, username, password string, db int) (*client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{
		conn: conn,
	}, nil
}
