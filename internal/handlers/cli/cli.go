// Package cli is the command-line surface of the indexer: it parses flags,
// merges them with the environment configuration, wires the infrastructure
// adapters together, and runs the indexing service until shutdown.
package cli

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the driftwatch CLI application.
//
// It registers all available commands, including:
//
//   - `start`: Starts the indexing pipeline for the configured accounts.
//
// Parameters:
//   - ctx: Context used to control the lifecycle of the CLI application.
//   - cfg: The environment configuration, merged with flags per command.
//
// This function sets up shell completion and invokes the CLI framework to
// parse and run commands.
func Run(ctx context.Context, cfg Config) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "driftwatch",
		Description:           "Command-line interface for running the Drift account event indexer.",
		Usage:                 "driftwatch [command] [flags]",
		Commands: []*cli.Command{
			startIndexerCommand(cfg),
		},
	}

	return app.Run(ctx, os.Args)
}
