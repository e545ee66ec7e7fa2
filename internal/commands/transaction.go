package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/carson-networks/finance-ledger/internal/ledger"
	"github.com/carson-networks/finance-ledger/internal/service"
)

func newTransactionCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transaction",
		Aliases: []string{"tx"},
		Short:   "Record and inspect transactions",
	}

	cmd.AddCommand(
		newTransactionRecordCommand(opts),
		newTransactionGetCommand(opts),
		newTransactionListCommand(opts),
	)
	return cmd
}

type recordFlags struct {
	txType         string
	amount         string
	currency       string
	account        string
	to             string
	category       string
	goal           string
	description    string
	notes          string
	tags           []string
	date           string
	exchangeRate   string
	idempotencyKey string
}

func (f *recordFlags) draft() (ledger.Draft, error) {
	amount, err := decimal.NewFromString(f.amount)
	if err != nil {
		return ledger.Draft{}, fmt.Errorf("parsing --amount: %w", err)
	}
	accountID, err := uuid.FromString(f.account)
	if err != nil {
		return ledger.Draft{}, fmt.Errorf("parsing --account: %w", err)
	}

	draft := ledger.Draft{
		Type:           ledger.TransactionType(f.txType),
		Amount:         amount,
		Currency:       f.currency,
		AccountID:      accountID,
		CategoryID:     f.category,
		GoalID:         f.goal,
		Description:    f.description,
		Notes:          f.notes,
		Tags:           f.tags,
		Date:           f.date,
		IdempotencyKey: f.idempotencyKey,
	}
	if draft.Date == "" {
		draft.Date = time.Now().Format(time.DateOnly)
	}
	if f.to != "" {
		if draft.ToAccountID, err = uuid.FromString(f.to); err != nil {
			return ledger.Draft{}, fmt.Errorf("parsing --to: %w", err)
		}
	}
	if f.exchangeRate != "" {
		rate, err := decimal.NewFromString(f.exchangeRate)
		if err != nil {
			return ledger.Draft{}, fmt.Errorf("parsing --exchange-rate: %w", err)
		}
		draft.ExchangeRate = decimal.NewNullDecimal(rate)
	}
	return draft, nil
}

func newTransactionRecordCommand(opts *rootOptions) *cobra.Command {
	flags := &recordFlags{}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a transaction and apply it to account balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := flags.draft()
			if err != nil {
				return err
			}
			return opts.run(cmd, func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.Transaction.CreateTransaction(ctx, opts.userID, draft)
			})
		},
	}

	cmd.Flags().StringVar(&flags.txType, "type", "", "income, expense, transfer or saving (required)")
	cmd.Flags().StringVar(&flags.amount, "amount", "", "positive amount (required)")
	cmd.Flags().StringVar(&flags.account, "account", "", "source account id (required)")
	cmd.Flags().StringVar(&flags.to, "to", "", "destination account id, transfers only")
	cmd.Flags().StringVar(&flags.currency, "currency", "", "ISO 4217 code, defaults to the account currency")
	cmd.Flags().StringVar(&flags.category, "category", "", "category id")
	cmd.Flags().StringVar(&flags.goal, "goal", "", "goal id")
	cmd.Flags().StringVar(&flags.description, "description", "", "short description")
	cmd.Flags().StringVar(&flags.notes, "notes", "", "free-form notes")
	cmd.Flags().StringSliceVar(&flags.tags, "tag", nil, "tag, repeatable")
	cmd.Flags().StringVar(&flags.date, "date", "", "effective date (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&flags.exchangeRate, "exchange-rate", "", "units of currency per unit of the reference currency")
	cmd.Flags().StringVar(&flags.idempotencyKey, "idempotency-key", "", "repeat a key to replay instead of applying twice")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func newTransactionGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <transaction-id>",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.FromString(args[0])
			if err != nil {
				return fmt.Errorf("parsing transaction id: %w", err)
			}
			return opts.run(cmd, func(ctx context.Context, svc *service.Service) (any, error) {
				return svc.Transaction.GetTransaction(ctx, opts.userID, id)
			})
		},
	}
}

type transactionPage struct {
	Transactions []service.Transaction      `json:"transactions"`
	NextCursor   *service.TransactionCursor `json:"nextCursor,omitempty"`
}

func newTransactionListCommand(opts *rootOptions) *cobra.Command {
	var account, yearMonth, maxCreationTime string
	var position, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := &service.TransactionFilter{YearMonth: yearMonth}
			if account != "" {
				id, err := uuid.FromString(account)
				if err != nil {
					return fmt.Errorf("parsing --account: %w", err)
				}
				filter.AccountID = &id
			}

			var cursor *service.TransactionCursor
			if maxCreationTime != "" {
				maxTime, err := time.Parse(time.RFC3339, maxCreationTime)
				if err != nil {
					return fmt.Errorf("parsing --max-creation-time: %w", err)
				}
				cursor = &service.TransactionCursor{Position: position, Limit: limit, MaxCreationTime: maxTime}
			} else if position > 0 || limit > 0 {
				cursor = &service.TransactionCursor{Position: position, Limit: limit}
			}

			return opts.run(cmd, func(ctx context.Context, svc *service.Service) (any, error) {
				txs, next, err := svc.Transaction.ListTransactions(ctx, opts.userID, filter, cursor)
				if err != nil {
					return nil, err
				}
				return transactionPage{Transactions: txs, NextCursor: next}, nil
			})
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "only transactions touching this account")
	cmd.Flags().StringVar(&yearMonth, "year-month", "", "only transactions in this YYYY-MM bucket")
	cmd.Flags().IntVar(&position, "position", 0, "offset from a previous page's cursor")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size, default 20")
	cmd.Flags().StringVar(&maxCreationTime, "max-creation-time", "", "RFC3339 upper bound from a previous page's cursor")

	return cmd
}
