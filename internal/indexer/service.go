// Package indexer implements the core change-data-capture loop: it tails
// each configured account's transaction history on a fixed interval,
// extracts the target program's events from transaction logs, and persists
// them together with a per-account resume cursor.
package indexer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gabapcia/driftwatch/internal/pkg/logger"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrServiceAlreadyStarted is returned by Start when the service is
	// already running.
	ErrServiceAlreadyStarted = errors.New("service already started")

	// ErrInvalidConfiguration indicates unusable construction parameters:
	// a zero program id, no accounts, or a zero account key. It is fatal;
	// nothing retries it.
	ErrInvalidConfiguration = errors.New("invalid indexer configuration")
)

const (
	// defaultPageSize bounds how many signatures one tick requests. Paired
	// with the poll interval it caps the request rate against the RPC
	// provider: pageSize/pollInterval is the throughput ceiling.
	defaultPageSize = 3

	// defaultPollInterval is how often each account is polled for new
	// signatures.
	defaultPollInterval = 3 * time.Second

	// defaultMaxPassTime bounds one indexing pass so a hung fetch cannot
	// stall shutdown, which waits for in-flight passes to finish.
	defaultMaxPassTime = time.Minute
)

// AccountFailure reports the fatal termination of one account's polling
// loop. Transient indexing errors are retried on the next tick and never
// reach this channel.
type AccountFailure struct {
	Account solana.PublicKey
	Err     error
}

// Service runs one polling loop per configured account until closed.
type Service interface {
	// Start launches the per-account polling loops. The returned channel
	// receives at most one AccountFailure per account, and only for fatal
	// errors; the host process is expected to exit when it receives one.
	Start(ctx context.Context) (<-chan AccountFailure, error)

	// Close stops polling and waits for in-flight indexing passes to
	// finish, so an already-fetched event is never dropped on shutdown.
	Close()
}

type service struct {
	mu        sync.Mutex
	isStarted bool
	closeFunc func()

	programID solana.PublicKey
	accounts  []solana.PublicKey

	source  TransactionSource
	storage Storage
	scanner LogScanner

	cursorCache  CursorCache
	retry        retryExecutor
	pageSize     int
	pollInterval time.Duration
	maxPassTime  time.Duration
}

var _ Service = (*service)(nil)

// retryExecutor matches the retry wrapper's Execute surface; declared here
// so the service depends on behavior, not the concrete package.
type retryExecutor interface {
	Execute(ctx context.Context, operation func() error) error
}

type config struct {
	cursorCache  CursorCache
	retry        retryExecutor
	pageSize     int
	pollInterval time.Duration
	maxPassTime  time.Duration
}

// Option adjusts the service built by New.
type Option func(*config)

// New builds the indexing service for the given program and accounts.
// The program id is resolved once by the caller and injected here; no
// component reads it from global state.
func New(programID solana.PublicKey, accounts []solana.PublicKey, source TransactionSource, storage Storage, scanner LogScanner, opts ...Option) (*service, error) {
	if programID.IsZero() {
		return nil, errors.Join(ErrInvalidConfiguration, errors.New("program id is zero"))
	}
	if len(accounts) == 0 {
		return nil, errors.Join(ErrInvalidConfiguration, errors.New("no accounts to index"))
	}
	for _, account := range accounts {
		if account.IsZero() {
			return nil, errors.Join(ErrInvalidConfiguration, errors.New("account key is zero"))
		}
	}

	cfg := config{
		cursorCache:  nopCursorCache{},
		retry:        nil,
		pageSize:     defaultPageSize,
		pollInterval: defaultPollInterval,
		maxPassTime:  defaultMaxPassTime,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		programID:    programID,
		accounts:     accounts,
		source:       source,
		storage:      storage,
		scanner:      scanner,
		cursorCache:  cfg.cursorCache,
		retry:        cfg.retry,
		pageSize:     cfg.pageSize,
		pollInterval: cfg.pollInterval,
		maxPassTime:  cfg.maxPassTime,
	}, nil
}

// WithCursorCache installs a best-effort cursor cache in front of storage.
func WithCursorCache(cache CursorCache) Option {
	return func(c *config) {
		c.cursorCache = cache
	}
}

// WithRetry wraps source fetches with the given retry policy.
func WithRetry(r retryExecutor) Option {
	return func(c *config) {
		c.retry = r
	}
}

// WithPageSize sets how many signatures one tick requests. Tune together
// with WithPollInterval to respect the RPC provider's rate limits.
func WithPageSize(n int) Option {
	return func(c *config) {
		c.pageSize = n
	}
}

// WithPollInterval sets how often each account is polled.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		c.pollInterval = d
	}
}

// WithMaxPassTime bounds the duration of a single indexing pass.
func WithMaxPassTime(d time.Duration) Option {
	return func(c *config) {
		c.maxPassTime = d
	}
}

// Start implements Service.
func (s *service) Start(ctx context.Context) (<-chan AccountFailure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return nil, ErrServiceAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)

	var (
		wg        sync.WaitGroup
		failureCh = make(chan AccountFailure, len(s.accounts))
	)
	for _, account := range s.accounts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.watchAccount(ctx, account, failureCh)
		}()
	}

	s.closeFunc = func() {
		cancel()
		wg.Wait()
		close(failureCh)
	}
	s.isStarted = true

	return failureCh, nil
}

// Close implements Service.
func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeFunc != nil {
		s.closeFunc()
	}
	s.isStarted = false
	s.closeFunc = nil
}

// watchAccount drives the per-account polling loop: one indexing pass per
// tick, errors logged and retried on the next tick. Each pass runs on a
// context detached from the loop's, bounded by maxPassTime, so cancellation
// between ticks never abandons a pass that already fetched transactions.
func (s *service) watchAccount(ctx context.Context, account solana.PublicKey, failureCh chan<- AccountFailure) {
	logger.Info(ctx, "starting account indexer",
		"account", account,
		"poll_interval", s.pollInterval,
		"page_size", s.pageSize,
	)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			passCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.maxPassTime)
			err := s.indexAccountOnce(passCtx, account)
			cancel()

			if err == nil {
				continue
			}

			if errors.Is(err, ErrInvalidConfiguration) {
				failureCh <- AccountFailure{Account: account, Err: err}
				return
			}

			logger.Error(ctx, "indexing pass failed",
				"account", account,
				"error", err,
			)
		}
	}
}
