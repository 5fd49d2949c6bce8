package indexer

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabapcia/driftwatch/internal/drift"
	"github.com/gabapcia/driftwatch/internal/pkg/logger"
	"github.com/gabapcia/driftwatch/internal/pkg/types"

	"github.com/gagliardetto/solana-go"
)

// LogScanner extracts a typed event from one raw log line, yielding nil for
// lines that carry no recognized event payload.
type LogScanner interface {
	Extract(line string) (drift.Event, error)
}

// fetchTransaction retrieves one transaction from the source, going through
// the configured retry policy when one is set.
func (s *service) fetchTransaction(ctx context.Context, signature solana.Signature) (Transaction, error) {
	if s.retry == nil {
		return s.source.GetTransaction(ctx, signature)
	}

	var tx Transaction
	err := s.retry.Execute(ctx, func() error {
		var err error
		tx, err = s.source.GetTransaction(ctx, signature)
		return err
	})
	return tx, err
}

// processTransaction fetches the transaction identified by signature and
// extracts every event the target program logged in it, in log order.
//
// Transactions whose body cannot be decoded are skipped as no-ops: they are
// an expected occurrence and must not halt indexing. Transactions that do
// not touch the target program produce no events and no error, as most of
// an account's history is unrelated to the program. Individual log lines
// that carry a recognized marker but fail to decode are logged and skipped;
// only source failures propagate, so a missed transaction can never
// silently advance the cursor.
//
// This method performs no storage I/O; the caller owns persistence and
// cursor advancement.
func (s *service) processTransaction(ctx context.Context, signature solana.Signature) ([]drift.Event, error) {
	tx, err := s.fetchTransaction(ctx, signature)
	if err != nil {
		if errors.Is(err, ErrUnsupportedTransaction) {
			logger.Warn(ctx, "skipping transaction with unsupported encoding",
				"tx.signature", signature,
			)
			return nil, nil
		}

		return nil, fmt.Errorf("fetching transaction %s: %w", signature, err)
	}

	if !types.NewSet(tx.AccountKeys...).Contains(s.programID) {
		return nil, nil
	}

	var events []drift.Event
	for _, line := range tx.LogMessages {
		event, err := s.scanner.Extract(line)
		if err != nil {
			logger.Warn(ctx, "skipping undecodable log line",
				"tx.signature", signature,
				"error", err,
			)
			continue
		}

		if event != nil {
			events = append(events, event)
		}
	}

	return events, nil
}
