// Package commands implements the ledgerctl command tree.
package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carson-networks/finance-ledger/internal/service"
)

// Opener builds the service the commands run against. The returned func
// releases whatever Opener acquired.
type Opener func(ctx context.Context) (*service.Service, func(), error)

type rootOptions struct {
	open   Opener
	userID string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(open Opener) *cobra.Command {
	opts := &rootOptions{open: open}

	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Record transactions and manage account balances",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.userID, "user", "", "user the command acts for (required)")
	_ = rootCmd.MarkPersistentFlagRequired("user")

	rootCmd.AddCommand(newAccountCommand(opts))
	rootCmd.AddCommand(newTransactionCommand(opts))

	return rootCmd
}

// run opens the service, calls fn and prints its result as indented JSON.
func (o *rootOptions) run(cmd *cobra.Command, fn func(ctx context.Context, svc *service.Service) (any, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, closeFn, err := o.open(ctx)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer closeFn()

	result, err := fn(ctx, svc)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
