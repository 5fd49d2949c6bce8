// Package solana implements the indexer.TransactionSource interface for
// Solana RPC nodes using a JSON-RPC client.
package solana

import (
	"github.com/gabapcia/driftwatch/internal/indexer"
	"github.com/gabapcia/driftwatch/internal/pkg/transport/jsonrpc"
)

// commitmentFinalized is the commitment level requested on every call.
// Finalized blocks cannot be rolled back, so the indexer never has to
// handle forked-out signatures.
const commitmentFinalized = "finalized"

// client implements the indexer.TransactionSource interface on top of a
// Solana node's JSON-RPC API.
type client struct {
	conn jsonrpc.Client // underlying JSON-RPC client used to talk to the node
}

// Ensure client implements the indexer.TransactionSource interface at compile time.
var _ indexer.TransactionSource = (*client)(nil)

// NewClient creates a new Solana transaction source using the provided
// JSON-RPC connection.
func NewClient(conn jsonrpc.Client) *client {
	return &client{
		conn: conn,
	}
}
