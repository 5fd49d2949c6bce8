package indexer

import (
	"context"
	"errors"

	"github.com/gabapcia/driftwatch/internal/drift"

	"github.com/gagliardetto/solana-go"
)

// ErrNoCursorFound is returned by LastIndexedSignature when indexing has
// never run for the requested account.
var ErrNoCursorFound = errors.New("no cursor found for account")

// Storage persists decoded events and the per-account resume cursor. It is
// the only shared mutable resource between account tasks and must be safe
// for concurrent use; event insertion must tolerate duplicates since a
// retried tick can reprocess a signature.
type Storage interface {
	// LastIndexedSignature returns the most recently committed cursor for
	// account, or ErrNoCursorFound when the account was never indexed.
	LastIndexedSignature(ctx context.Context, account solana.PublicKey) (solana.Signature, error)

	// SetLastIndexedSignature records signature as the new cursor for
	// account, creating the cursor entry when absent (upsert semantics).
	SetLastIndexedSignature(ctx context.Context, account solana.PublicKey, signature solana.Signature) error

	// InsertEvent appends one decoded event. Events are immutable and
	// append-only; inserting a semantically equal event twice is allowed.
	InsertEvent(ctx context.Context, event drift.Event) error
}

// ErrCursorNotCached is returned by CursorCache when it holds no entry for
// the requested account.
var ErrCursorNotCached = errors.New("cursor not cached")

// CursorCache is an optional read-through cache in front of Storage's
// cursor, saving one storage round trip per tick. It is strictly
// best-effort: cache failures are logged and indexing falls back to
// Storage, which remains the source of truth.
type CursorCache interface {
	// GetCursor returns the cached cursor for account, or
	// ErrCursorNotCached on a miss.
	GetCursor(ctx context.Context, account solana.PublicKey) (solana.Signature, error)

	// SetCursor caches signature as the latest cursor for account.
	SetCursor(ctx context.Context, account solana.PublicKey, signature solana.Signature) error
}

// nopCursorCache is the default CursorCache: it caches nothing, so every
// cursor read goes to Storage.
type nopCursorCache struct{}

func (nopCursorCache) GetCursor(_ context.Context, _ solana.PublicKey) (solana.Signature, error) {
	return solana.Signature{}, ErrCursorNotCached
}

func (nopCursorCache) SetCursor(_ context.Context, _ solana.PublicKey, _ solana.Signature) error {
	return nil
}
