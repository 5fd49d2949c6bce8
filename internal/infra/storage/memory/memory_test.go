package memory

import (
	"context"
	"testing"

	"github.com/gabapcia/driftwatch/internal/drift"
	"github.com/gabapcia/driftwatch/internal/indexer"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	account := solana.MustPublicKeyFromBase58("BTDXiRzG1QBP7bfK4A33RcSP5mmZx8mGJ9YC5maetoD6")

	t.Run("missing cursor", func(t *testing.T) {
		s := New()

		_, err := s.LastIndexedSignature(context.Background(), account)
		assert.ErrorIs(t, err, indexer.ErrNoCursorFound)
	})

	t.Run("cursor round trip", func(t *testing.T) {
		s := New()
		signature := solana.Signature{0x01}

		require.NoError(t, s.SetLastIndexedSignature(context.Background(), account, signature))

		got, err := s.LastIndexedSignature(context.Background(), account)
		require.NoError(t, err)
		assert.Equal(t, signature, got)
	})

	t.Run("events accumulate in insertion order", func(t *testing.T) {
		s := New()

		first := drift.OrderRecord{Ts: 1}
		second := drift.OrderRecord{Ts: 2}
		require.NoError(t, s.InsertEvent(context.Background(), first))
		require.NoError(t, s.InsertEvent(context.Background(), second))

		events := s.Events()
		require.Len(t, events, 2)
		assert.Equal(t, drift.Event(first), events[0])
		assert.Equal(t, drift.Event(second), events[1])
	})
}
