package solana

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gabapcia/driftwatch/internal/indexer"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccountBase58   = "BTDXiRzG1QBP7bfK4A33RcSP5mmZx8mGJ9YC5maetoD6"
	testProgramBase58   = "dRiftyHA39MWEi3m9aunc5MzRF1JYuBsbn6VPcn33UH"
	testSignatureBase58 = "3gvGQufckknnCnAdm8rTv1kzGtyMWpsQM5xbwkBFaHjmmQWRa23JCTCrqrbMbuGXUEjdBJo4oJvDgZe2y7D1AqWA"
)

// fakeRPC implements jsonrpc.Client through a settable function.
type fakeRPC struct {
	fetchFn func(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

func (f *fakeRPC) Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	return f.fetchFn(ctx, method, params...)
}

func TestClient_ListSignatures(t *testing.T) {
	account := solana.MustPublicKeyFromBase58(testAccountBase58)

	t.Run("lists signatures with the expected parameters", func(t *testing.T) {
		var (
			gotMethod string
			gotParams []any
		)
		conn := &fakeRPC{
			fetchFn: func(_ context.Context, method string, params ...any) (json.RawMessage, error) {
				gotMethod, gotParams = method, params
				return json.RawMessage(`[
					{"signature": "` + testSignatureBase58 + `", "slot": 196923928, "blockTime": 1689326492, "confirmationStatus": "finalized"}
				]`), nil
			},
		}

		infos, err := NewClient(conn).ListSignatures(context.Background(), account, 3, solana.Signature{})
		require.NoError(t, err)

		require.Len(t, infos, 1)
		assert.Equal(t, testSignatureBase58, infos[0].Signature.String())
		assert.Equal(t, uint64(196923928), infos[0].Slot)
		require.NotNil(t, infos[0].BlockTime)
		assert.Equal(t, int64(1689326492), *infos[0].BlockTime)

		assert.Equal(t, "getSignaturesForAddress", gotMethod)
		require.Len(t, gotParams, 2)
		assert.Equal(t, testAccountBase58, gotParams[0])
		opts, ok := gotParams[1].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 3, opts["limit"])
		assert.Equal(t, "finalized", opts["commitment"])
		assert.NotContains(t, opts, "until")
	})

	t.Run("passes the cursor as the until bound", func(t *testing.T) {
		until, err := solana.SignatureFromBase58(testSignatureBase58)
		require.NoError(t, err)

		conn := &fakeRPC{
			fetchFn: func(_ context.Context, _ string, params ...any) (json.RawMessage, error) {
				opts := params[1].(map[string]any)
				assert.Equal(t, testSignatureBase58, opts["until"])
				return json.RawMessage(`[]`), nil
			},
		}

		infos, err := NewClient(conn).ListSignatures(context.Background(), account, 3, until)
		require.NoError(t, err)
		assert.Empty(t, infos)
	})

	t.Run("propagates rpc errors", func(t *testing.T) {
		wantErr := errors.New("rate limited")
		conn := &fakeRPC{
			fetchFn: func(_ context.Context, _ string, _ ...any) (json.RawMessage, error) {
				return nil, wantErr
			},
		}

		_, err := NewClient(conn).ListSignatures(context.Background(), account, 3, solana.Signature{})
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("rejects malformed signatures", func(t *testing.T) {
		conn := &fakeRPC{
			fetchFn: func(_ context.Context, _ string, _ ...any) (json.RawMessage, error) {
				return json.RawMessage(`[{"signature": "not-base58!", "slot": 1}]`), nil
			},
		}

		_, err := NewClient(conn).ListSignatures(context.Background(), account, 3, solana.Signature{})
		assert.Error(t, err)
	})
}

func TestClient_GetTransaction(t *testing.T) {
	signature, err := solana.SignatureFromBase58(testSignatureBase58)
	require.NoError(t, err)

	t.Run("maps a json-encoded transaction", func(t *testing.T) {
		conn := &fakeRPC{
			fetchFn: func(_ context.Context, method string, params ...any) (json.RawMessage, error) {
				assert.Equal(t, "getTransaction", method)
				require.Len(t, params, 2)
				assert.Equal(t, testSignatureBase58, params[0])
				opts := params[1].(map[string]any)
				assert.Equal(t, "json", opts["encoding"])
				assert.Equal(t, 0, opts["maxSupportedTransactionVersion"])

				return json.RawMessage(`{
					"slot": 196923928,
					"blockTime": 1689326492,
					"transaction": {
						"message": {"accountKeys": ["` + testAccountBase58 + `"]},
						"signatures": ["` + testSignatureBase58 + `"]
					},
					"meta": {
						"logMessages": ["Program ` + testProgramBase58 + ` invoke [1]"],
						"loadedAddresses": {"writable": ["` + testProgramBase58 + `"], "readonly": []}
					}
				}`), nil
			},
		}

		tx, err := NewClient(conn).GetTransaction(context.Background(), signature)
		require.NoError(t, err)

		require.Len(t, tx.AccountKeys, 2)
		assert.Equal(t, testAccountBase58, tx.AccountKeys[0].String())
		assert.Equal(t, testProgramBase58, tx.AccountKeys[1].String())
		assert.Equal(t, []string{"Program " + testProgramBase58 + " invoke [1]"}, tx.LogMessages)
	})

	t.Run("null result means not found", func(t *testing.T) {
		conn := &fakeRPC{
			fetchFn: func(_ context.Context, _ string, _ ...any) (json.RawMessage, error) {
				return json.RawMessage(`null`), nil
			},
		}

		_, err := NewClient(conn).GetTransaction(context.Background(), signature)
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})

	t.Run("message without account keys is unsupported", func(t *testing.T) {
		conn := &fakeRPC{
			fetchFn: func(_ context.Context, _ string, _ ...any) (json.RawMessage, error) {
				return json.RawMessage(`{"slot": 1, "transaction": {"message": {}}}`), nil
			},
		}

		_, err := NewClient(conn).GetTransaction(context.Background(), signature)
		assert.ErrorIs(t, err, indexer.ErrUnsupportedTransaction)
	})

	t.Run("malformed account key is unsupported", func(t *testing.T) {
		conn := &fakeRPC{
			fetchFn: func(_ context.Context, _ string, _ ...any) (json.RawMessage, error) {
				return json.RawMessage(`{"slot": 1, "transaction": {"message": {"accountKeys": ["zz!!"]}}}`), nil
			},
		}

		_, err := NewClient(conn).GetTransaction(context.Background(), signature)
		assert.ErrorIs(t, err, indexer.ErrUnsupportedTransaction)
	})

	t.Run("propagates rpc errors", func(t *testing.T) {
		wantErr := errors.New("node unavailable")
		conn := &fakeRPC{
			fetchFn: func(_ context.Context, _ string, _ ...any) (json.RawMessage, error) {
				return nil, wantErr
			},
		}

		_, err := NewClient(conn).GetTransaction(context.Background(), signature)
		assert.ErrorIs(t, err, wantErr)
	})
}
