// Package cli is the gtd command line: the HTTP server, the MCP server and
// a few task commands for the terminal.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gtdagent/config"
	"gtdagent/connection"
	"gtdagent/storage"
	"gtdagent/store"
)

var Version = "dev"

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gtd",
		Short:         "GTD task manager with an AI assistant",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(mcpCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(adviceCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	return rootCmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore loads the configuration and opens the configured store.
func openStore(ctx context.Context) (*config.Config, *store.Store, *storage.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	s, db, err := connection.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, s, db, nil
}
