// Package memory provides an in-memory indexer.Storage, useful for local
// runs without a database and as a double in end-to-end tests.
package memory

import (
	"context"
	"sync"

	"github.com/gabapcia/driftwatch/internal/drift"
	"github.com/gabapcia/driftwatch/internal/indexer"

	"github.com/gagliardetto/solana-go"
)

// Storage keeps cursors and events in process memory. It is safe for
// concurrent use. Everything is lost when the process exits.
type Storage struct {
	mu      sync.Mutex
	cursors map[solana.PublicKey]solana.Signature
	events  []drift.Event
}

var _ indexer.Storage = (*Storage)(nil)

// New creates an empty in-memory storage.
func New() *Storage {
	return &Storage{
		cursors: make(map[solana.PublicKey]solana.Signature),
	}
}

// LastIndexedSignature implements indexer.Storage.
func (s *Storage) LastIndexedSignature(_ context.Context, account solana.PublicKey) (solana.Signature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cursor, ok := s.cursors[account]
	if !ok {
		return solana.Signature{}, indexer.ErrNoCursorFound
	}

	return cursor, nil
}

// SetLastIndexedSignature implements indexer.Storage.
func (s *Storage) SetLastIndexedSignature(_ context.Context, account solana.PublicKey, signature solana.Signature) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursors[account] = signature
	return nil
}

// InsertEvent implements indexer.Storage.
func (s *Storage) InsertEvent(_ context.Context, event drift.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of every event inserted so far, in insertion order.
func (s *Storage) Events() []drift.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]drift.Event(nil), s.events...)
}
