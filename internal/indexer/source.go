package indexer

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
)

// ErrUnsupportedTransaction is returned by TransactionSource implementations
// when a transaction body cannot be decoded into a well-formed message.
// Unsupported encodings show up occasionally on mainnet and are skipped as
// no-ops rather than surfaced as indexing failures.
var ErrUnsupportedTransaction = errors.New("unsupported transaction encoding")

// SignatureInfo is one entry of an account's signature history, newest
// first.
type SignatureInfo struct {
	Signature solana.Signature // transaction signature, also the cursor value
	Slot      uint64           // slot the transaction was confirmed in
	BlockTime *int64           // unix timestamp, when the node reports one
}

// Transaction is the slice of a fetched transaction the indexer cares
// about: which accounts it touches and what it logged. It only lives for
// the duration of one processing call.
type Transaction struct {
	AccountKeys []solana.PublicKey // static account keys of the message
	LogMessages []string           // program log output, in emission order
}

// TransactionSource is the read-only view of the chain the indexer consumes.
// Implementations talk to a Solana RPC node; tests substitute fakes.
type TransactionSource interface {
	// ListSignatures returns up to limit signatures for account, newest
	// first, stopping at (and excluding) until when it is non-zero.
	ListSignatures(ctx context.Context, account solana.PublicKey, limit int, until solana.Signature) ([]SignatureInfo, error)

	// GetTransaction fetches the transaction identified by signature. It
	// returns ErrUnsupportedTransaction when the body cannot be decoded,
	// and a plain error when the transaction cannot be retrieved at all.
	GetTransaction(ctx context.Context, signature solana.Signature) (Transaction, error)
}
