package solana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gabapcia/driftwatch/internal/indexer"

	"github.com/gagliardetto/solana-go"
)

// ErrTransactionNotFound indicates the node has no record of the requested
// signature at finalized commitment. Signatures are only requested after
// appearing in the account's history, so this usually means the node is
// lagging; the pass fails and retries on the next tick.
var ErrTransactionNotFound = errors.New("transaction not found")

type (
	// SignatureResponse represents one entry returned by the
	// getSignaturesForAddress RPC method.
	SignatureResponse struct {
		Signature          string `json:"signature"`
		Slot               uint64 `json:"slot"`
		BlockTime          *int64 `json:"blockTime"`
		Err                any    `json:"err"`
		Memo               string `json:"memo"`
		ConfirmationStatus string `json:"confirmationStatus"`
	}

	// MessageResponse is the message portion of a json-encoded transaction.
	MessageResponse struct {
		AccountKeys []string `json:"accountKeys"`
	}

	// LoadedAddressesResponse lists the accounts a versioned transaction
	// loaded from address lookup tables.
	LoadedAddressesResponse struct {
		Writable []string `json:"writable"`
		Readonly []string `json:"readonly"`
	}

	// MetaResponse is the transaction status metadata, carrying the
	// program log output the indexer scans.
	MetaResponse struct {
		LogMessages     []string                `json:"logMessages"`
		LoadedAddresses LoadedAddressesResponse `json:"loadedAddresses"`
	}

	// TransactionResponse represents the full getTransaction result with
	// json encoding.
	TransactionResponse struct {
		Slot        uint64 `json:"slot"`
		BlockTime   *int64 `json:"blockTime"`
		Transaction struct {
			Message    MessageResponse `json:"message"`
			Signatures []string        `json:"signatures"`
		} `json:"transaction"`
		Meta *MetaResponse `json:"meta"`
	}
)

// toIndexerSignatureInfo converts a SignatureResponse to an
// indexer.SignatureInfo.
func (s SignatureResponse) toIndexerSignatureInfo() (indexer.SignatureInfo, error) {
	signature, err := solana.SignatureFromBase58(s.Signature)
	if err != nil {
		return indexer.SignatureInfo{}, fmt.Errorf("parsing signature %q: %w", s.Signature, err)
	}

	return indexer.SignatureInfo{
		Signature: signature,
		Slot:      s.Slot,
		BlockTime: s.BlockTime,
	}, nil
}

// toIndexerTransaction converts a TransactionResponse to an
// indexer.Transaction. The static message keys and any lookup-table loaded
// addresses are merged, so program invocations through address tables are
// still attributed. Responses whose message cannot be decoded into account
// keys map to indexer.ErrUnsupportedTransaction.
func (t TransactionResponse) toIndexerTransaction() (indexer.Transaction, error) {
	if len(t.Transaction.Message.AccountKeys) == 0 {
		return indexer.Transaction{}, fmt.Errorf("%w: message carries no account keys", indexer.ErrUnsupportedTransaction)
	}

	rawKeys := make([]string, 0, len(t.Transaction.Message.AccountKeys))
	rawKeys = append(rawKeys, t.Transaction.Message.AccountKeys...)
	if t.Meta != nil {
		rawKeys = append(rawKeys, t.Meta.LoadedAddresses.Writable...)
		rawKeys = append(rawKeys, t.Meta.LoadedAddresses.Readonly...)
	}

	accountKeys := make([]solana.PublicKey, len(rawKeys))
	for i, raw := range rawKeys {
		key, err := solana.PublicKeyFromBase58(raw)
		if err != nil {
			return indexer.Transaction{}, fmt.Errorf("%w: account key %q: %s", indexer.ErrUnsupportedTransaction, raw, err)
		}
		accountKeys[i] = key
	}

	var logMessages []string
	if t.Meta != nil {
		logMessages = t.Meta.LogMessages
	}

	return indexer.Transaction{
		AccountKeys: accountKeys,
		LogMessages: logMessages,
	}, nil
}

// ListSignatures implements indexer.TransactionSource using the
// getSignaturesForAddress RPC method. A zero until signature means no lower
// bound, matching a first run with no stored cursor.
func (c *client) ListSignatures(ctx context.Context, account solana.PublicKey, limit int, until solana.Signature) ([]indexer.SignatureInfo, error) {
	opts := map[string]any{
		"limit":      limit,
		"commitment": commitmentFinalized,
	}
	if !until.IsZero() {
		opts["until"] = until.String()
	}

	data, err := c.conn.Fetch(ctx, "getSignaturesForAddress", account.String(), opts)
	if err != nil {
		return nil, err
	}

	var responses []SignatureResponse
	if err := json.Unmarshal(data, &responses); err != nil {
		return nil, err
	}

	infos := make([]indexer.SignatureInfo, len(responses))
	for i, res := range responses {
		info, err := res.toIndexerSignatureInfo()
		if err != nil {
			return nil, err
		}
		infos[i] = info
	}

	return infos, nil
}

// GetTransaction implements indexer.TransactionSource using the
// getTransaction RPC method with json encoding. Version 0 transactions are
// requested explicitly; the node rejects them otherwise.
func (c *client) GetTransaction(ctx context.Context, signature solana.Signature) (indexer.Transaction, error) {
	data, err := c.conn.Fetch(ctx, "getTransaction", signature.String(), map[string]any{
		"encoding":                       "json",
		"commitment":                     commitmentFinalized,
		"maxSupportedTransactionVersion": 0,
	})
	if err != nil {
		return indexer.Transaction{}, err
	}

	if len(data) == 0 || string(data) == "null" {
		return indexer.Transaction{}, fmt.Errorf("%w: %s", ErrTransactionNotFound, signature)
	}

	var res TransactionResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return indexer.Transaction{}, err
	}

	return res.toIndexerTransaction()
}
