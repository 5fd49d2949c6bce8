package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gabapcia/driftwatch/internal/drift"
	"github.com/gabapcia/driftwatch/internal/indexer"
	"github.com/gabapcia/driftwatch/internal/infra/blockchain/solana"
	"github.com/gabapcia/driftwatch/internal/infra/storage/memory"
	"github.com/gabapcia/driftwatch/internal/infra/storage/mongo"
	"github.com/gabapcia/driftwatch/internal/infra/storage/redis"
	"github.com/gabapcia/driftwatch/internal/logscan"
	"github.com/gabapcia/driftwatch/internal/pkg/logger"
	"github.com/gabapcia/driftwatch/internal/pkg/resilience/retry"
	"github.com/gabapcia/driftwatch/internal/pkg/transport/http"
	"github.com/gabapcia/driftwatch/internal/pkg/transport/jsonrpc"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/urfave/cli/v3"
)

// startIndexerCommand returns a CLI command that starts the indexing
// pipeline for the given accounts and runs it until interrupted.
//
// Usage example:
//
//	driftwatch start --accounts BTDXiRzG1QBP7bfK4A33RcSP5mmZx8mGJ9YC5maetoD6
//
// Environment variables (INDEXER_SOLANA_RPC_URL, INDEXER_DB_CONN_STR, ...)
// take precedence over the corresponding flags. The process runs
// indefinitely until it receives an interrupt (SIGINT or SIGTERM) or one of
// the account loops fails fatally.
func startIndexerCommand(cfg Config) *cli.Command {
	return &cli.Command{
		Name:        "start",
		Description: "Starts the indexing pipeline: polls each account's transaction history and persists the program events found in it.",
		Usage:       "Runs the indexer for the given accounts. Terminates gracefully on Ctrl+C or termination signals.",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "accounts",
				Usage:    "Account addresses to index, comma separated or repeated.",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "rpc",
				Usage: "Solana JSON-RPC endpoint. INDEXER_SOLANA_RPC_URL takes precedence.",
				Value: "https://api.mainnet-beta.solana.com",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "MongoDB connection string. INDEXER_DB_CONN_STR takes precedence. Omit to keep everything in memory.",
			},
			&cli.DurationFlag{
				Name:  "poll",
				Usage: "Interval between polling passes per account.",
				Value: 3 * time.Second,
			},
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "Maximum signatures fetched per polling pass.",
				Value: 3,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if cfg.SolanaRPCURL == "" {
				cfg.SolanaRPCURL = c.String("rpc")
			}
			if cfg.DBConnStr == "" {
				cfg.DBConnStr = c.String("db")
			}
			if cfg.PageSize == 0 {
				cfg.PageSize = c.Int("page-size")
			}
			if err := cfg.validate(); err != nil {
				return err
			}

			accounts, err := parseAccounts(c.StringSlice("accounts"))
			if err != nil {
				return err
			}

			storage, closeStorage, err := buildStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStorage()

			opts := []indexer.Option{
				indexer.WithRetry(retry.New()),
				indexer.WithPollInterval(c.Duration("poll")),
				indexer.WithPageSize(cfg.PageSize),
			}

			if cfg.RedisAddr != "" {
				cache, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
				if err != nil {
					return fmt.Errorf("connecting to redis: %w", err)
				}
				defer cache.Close()

				opts = append(opts, indexer.WithCursorCache(cache))
			}

			source := solana.NewClient(jsonrpc.NewClient(http.NewClient().StandardClient(), cfg.SolanaRPCURL))
			scanner := logscan.New(drift.NewRegistry())

			svc, err := indexer.New(drift.ProgramID(), accounts, source, storage, scanner, opts...)
			if err != nil {
				return err
			}

			failureCh, err := svc.Start(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			quit := make(chan os.Signal, 1)
			defer close(quit)

			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case <-quit:
				logger.Info(ctx, "shutting down")
				return nil
			case failure := <-failureCh:
				return fmt.Errorf("account %s failed fatally: %w", failure.Account, failure.Err)
			}
		},
	}
}

// parseAccounts converts the --account flag values into public keys.
func parseAccounts(raw []string) ([]solanago.PublicKey, error) {
	accounts := make([]solanago.PublicKey, len(raw))
	for i, addr := range raw {
		account, err := solanago.PublicKeyFromBase58(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid account address %q: %w", addr, err)
		}
		accounts[i] = account
	}

	return accounts, nil
}

// buildStorage picks the event storage from the configuration: MongoDB when
// a connection string is set, process memory otherwise.
func buildStorage(ctx context.Context, cfg Config) (indexer.Storage, func(), error) {
	if cfg.DBConnStr == "" {
		logger.Warn(ctx, "no database configured, events are kept in memory and lost on exit")
		return memory.New(), func() {}, nil
	}

	db, err := mongo.NewClient(ctx, cfg.DBConnStr, cfg.DBName)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	closeStorage := func() {
		if err := db.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Error(ctx, "closing mongodb connection", "error", err)
		}
	}
	return db, closeStorage, nil
}
