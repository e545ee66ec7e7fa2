package commands

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/carson-networks/finance-ledger/internal/ledger"
	"github.com/carson-networks/finance-ledger/internal/service"
)

func newAccountCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}

	cmd.AddCommand(
		newAccountCreateCommand(opts),
		newAccountGetCommand(opts),
		newAccountListCommand(opts),
		newAccountAdjustCommand(opts),
		newAccountTransferCommand(opts),
	)
	return cmd
}

func newAccountCreateCommand(opts *rootOptions) *cobra.Command {
	var name, accountType, currency, initialBalance string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			balance, err := decimal.NewFromString(initialBalance)
			if err != nil {
				return fmt.Errorf("parsing --initial-balance: %w", err)
			}
			return opts.run(cmd, func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.Account.CreateAccount(ctx, opts.userID, service.AccountCreate{
					Name:           name,
					Type:           ledger.AccountType(accountType),
					Currency:       currency,
					InitialBalance: balance,
				})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&accountType, "type", string(ledger.AccountTypeBank), "cash, bank, credit, investment, wallet or other")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO 4217 code, defaults to USD")
	cmd.Flags().StringVar(&initialBalance, "initial-balance", "0", "starting balance")

	return cmd
}

func newAccountGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <account-id>",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.FromString(args[0])
			if err != nil {
				return fmt.Errorf("parsing account id: %w", err)
			}
			return opts.run(cmd, func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.Account.GetAccount(ctx, opts.userID, id)
			})
		},
	}
}

type accountPage struct {
	Accounts   []service.Account      `json:"accounts"`
	NextCursor *service.AccountCursor `json:"nextCursor,omitempty"`
}

func newAccountListCommand(opts *rootOptions) *cobra.Command {
	var position, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts ordered by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, svc *service.Service) (any, error) {
				accounts, next, err := svc.Account.ListAccounts(ctx, opts.userID, &service.AccountCursor{Position: position, Limit: limit})
				if err != nil {
					return nil, err
				}
				return accountPage{Accounts: accounts, NextCursor: next}, nil
			})
		},
	}

	cmd.Flags().IntVar(&position, "position", 0, "offset of the first account")
	cmd.Flags().IntVar(&limit, "limit", 20, "page size")

	return cmd
}

func newAccountAdjustCommand(opts *rootOptions) *cobra.Command {
	var delta string

	cmd := &cobra.Command{
		Use:   "adjust <account-id>",
		Short: "Apply a manual balance correction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.FromString(args[0])
			if err != nil {
				return fmt.Errorf("parsing account id: %w", err)
			}
			amount, err := decimal.NewFromString(delta)
			if err != nil {
				return fmt.Errorf("parsing --delta: %w", err)
			}
			return opts.run(cmd, func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.Account.AdjustBalance(ctx, opts.userID, id, amount)
			})
		},
	}

	cmd.Flags().StringVar(&delta, "delta", "", "signed amount added to the balance (required)")
	_ = cmd.MarkFlagRequired("delta")

	return cmd
}

func newAccountTransferCommand(opts *rootOptions) *cobra.Command {
	var from, to, amount string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move funds between accounts without recording a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fromID, err := uuid.FromString(from)
			if err != nil {
				return fmt.Errorf("parsing --from: %w", err)
			}
			toID, err := uuid.FromString(to)
			if err != nil {
				return fmt.Errorf("parsing --to: %w", err)
			}
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("parsing --amount: %w", err)
			}
			return opts.run(cmd, func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.Account.TransferFunds(ctx, opts.userID, fromID, toID, value)
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source account id (required)")
	cmd.Flags().StringVar(&to, "to", "", "destination account id (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "positive amount (required)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
