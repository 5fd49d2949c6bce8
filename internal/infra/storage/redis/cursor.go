package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabapcia/driftwatch/internal/indexer"

	"github.com/gagliardetto/solana-go"
	"github.com/redis/go-redis/v9"
)

// cursorKeyPrefix is the namespace prefix for all cursor cache keys.
const cursorKeyPrefix = "driftwatch"

// cursorKey constructs the Redis key holding the last indexed signature for
// one account. The format is:
//
//	"driftwatch:cursor:<account>"
func cursorKey(account solana.PublicKey) string {
	return fmt.Sprintf("%s:cursor:%s", cursorKeyPrefix, account)
}

// SetCursor stores the last indexed signature for account. The key has no
// expiration; durable storage is the source of truth and overwrites stale
// entries on the next commit.
func (c *client) SetCursor(ctx context.Context, account solana.PublicKey, signature solana.Signature) error {
	return c.conn.Set(ctx, cursorKey(account), signature.String(), 0).Err()
}

// GetCursor retrieves the cached cursor for account, returning
// indexer.ErrCursorNotCached on a miss so the caller falls back to durable
// storage.
func (c *client) GetCursor(ctx context.Context, account solana.PublicKey) (solana.Signature, error) {
	val, err := c.conn.Get(ctx, cursorKey(account)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			err = indexer.ErrCursorNotCached
		}

		return solana.Signature{}, err
	}

	return solana.SignatureFromBase58(val)
}

// Compile-time assertion to ensure client implements the CursorCache interface.
var _ indexer.CursorCache = new(client)
