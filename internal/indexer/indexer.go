package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gabapcia/driftwatch/internal/pkg/logger"

	"github.com/gagliardetto/solana-go"
)

// loadCursor resolves the resume cursor for account: cache first, then
// storage. A missing cursor (first run) resolves to the zero signature,
// which the source treats as "no lower bound".
func (s *service) loadCursor(ctx context.Context, account solana.PublicKey) (solana.Signature, error) {
	cached, err := s.cursorCache.GetCursor(ctx, account)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCursorNotCached) {
		logger.Warn(ctx, "cursor cache read failed",
			"account", account,
			"error", err,
		)
	}

	cursor, err := s.storage.LastIndexedSignature(ctx, account)
	if err != nil {
		if errors.Is(err, ErrNoCursorFound) {
			return solana.Signature{}, nil
		}

		return solana.Signature{}, fmt.Errorf("loading cursor for %s: %w", account, err)
	}

	return cursor, nil
}

// cacheCursor mirrors a freshly committed cursor into the cache. Cache
// failures are logged only; storage already holds the committed value.
func (s *service) cacheCursor(ctx context.Context, account solana.PublicKey, signature solana.Signature) {
	if err := s.cursorCache.SetCursor(ctx, account, signature); err != nil {
		logger.Warn(ctx, "cursor cache write failed",
			"account", account,
			"error", err,
		)
	}
}

// listSignatures pages the account's signature history through the
// configured retry policy when one is set.
func (s *service) listSignatures(ctx context.Context, account solana.PublicKey, until solana.Signature) ([]SignatureInfo, error) {
	if s.retry == nil {
		return s.source.ListSignatures(ctx, account, s.pageSize, until)
	}

	var infos []SignatureInfo
	err := s.retry.Execute(ctx, func() error {
		var err error
		infos, err = s.source.ListSignatures(ctx, account, s.pageSize, until)
		return err
	})
	return infos, err
}

// indexAccountOnce runs one indexing pass for account: it resolves the
// resume cursor, requests one page of newer signatures, processes them
// concurrently, persists extracted events, and commits the cursor.
//
// Processing within the page is unordered: each signature's fetch runs in
// its own goroutine and persists its events as soon as it completes. The
// cursor, however, is batch-committed: it advances exactly once per pass,
// to the newest signature of the page, and only after every fetch in the
// page succeeded. A pass that fails midway leaves the cursor untouched, so
// the next tick re-examines the same page; duplicate-tolerant event
// insertion makes that harmless.
func (s *service) indexAccountOnce(ctx context.Context, account solana.PublicKey) error {
	cursor, err := s.loadCursor(ctx, account)
	if err != nil {
		return err
	}

	infos, err := s.listSignatures(ctx, account, cursor)
	if err != nil {
		return fmt.Errorf("listing signatures for %s: %w", account, err)
	}

	if len(infos) == 0 {
		logger.Debug(ctx, "no new signatures", "account", account)
		return nil
	}

	logger.Info(ctx, "indexing new signatures",
		"account", account,
		"count", len(infos),
	)

	var (
		wg   sync.WaitGroup
		errs = make([]error, len(infos))
	)
	for i, info := range infos {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.indexTransaction(ctx, account, info.Signature)
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return err
	}

	// The source returns signatures newest first.
	newest := infos[0].Signature
	if err := s.storage.SetLastIndexedSignature(ctx, account, newest); err != nil {
		return fmt.Errorf("committing cursor for %s: %w", account, err)
	}
	s.cacheCursor(ctx, account, newest)

	return nil
}

// indexTransaction processes a single signature and persists whatever
// events it yields.
func (s *service) indexTransaction(ctx context.Context, account solana.PublicKey, signature solana.Signature) error {
	events, err := s.processTransaction(ctx, signature)
	if err != nil {
		return err
	}

	for _, event := range events {
		if err := s.storage.InsertEvent(ctx, event); err != nil {
			return fmt.Errorf("persisting %s from %s: %w", event.EventName(), signature, err)
		}

		logger.Info(ctx, "event indexed",
			"account", account,
			"event", event.EventName(),
			"tx.signature", signature,
		)
	}

	return nil
}
