package service

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-ledger/internal/ledger"
	"github.com/carson-networks/finance-ledger/internal/money"
	"github.com/carson-networks/finance-ledger/internal/operator"
	"github.com/carson-networks/finance-ledger/internal/operator/actions"
	"github.com/carson-networks/finance-ledger/internal/storage"
	"github.com/carson-networks/finance-ledger/internal/storage/memory"
)

const testUser = "user-1"

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	store *memory.Storage
	svc   *Service
}

func newFixture(t *testing.T, opts ...memory.Option) *fixture {
	t.Helper()
	store := memory.New(opts...)
	return newFixtureWithStorage(t, store, store)
}

func newFixtureWithStorage(t *testing.T, store storage.Storage, mem *memory.Storage) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	op := operator.NewOperator(store,
		operator.WithMaxAttempts(100),
		operator.WithBaseDelay(0),
		operator.WithLogger(logger),
	)
	normalizer, err := money.NewNormalizer("USD")
	require.NoError(t, err)

	return &fixture{store: mem, svc: NewService(store, op, normalizer)}
}

func (f *fixture) account(t *testing.T, accountType ledger.AccountType, currency, balance string) *Account {
	t.Helper()
	acc, err := f.svc.Account.CreateAccount(context.Background(), testUser, AccountCreate{
		Name:           string(accountType) + " " + currency,
		Type:           accountType,
		Currency:       currency,
		InitialBalance: d(balance),
	})
	require.NoError(t, err)
	return acc
}

func (f *fixture) balance(t *testing.T, acc *Account) decimal.Decimal {
	t.Helper()
	got, err := f.svc.Account.GetAccount(context.Background(), testUser, acc.ID)
	require.NoError(t, err)
	return got.CurrentBalance
}

// untouchableStorage fails the test on any store access.
type untouchableStorage struct {
	t *testing.T
}

func (u untouchableStorage) Reader() storage.Reader {
	u.t.Fatal("unexpected store read")
	return nil
}

func (u untouchableStorage) Write(context.Context) (storage.Writer, error) {
	u.t.Fatal("unexpected store write")
	return nil, nil
}

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Process(ctx context.Context, action actions.IAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

// conflictingStorage aborts every unit at commit as if a concurrent writer won.
type conflictingStorage struct {
	storage.Storage
}

func (c *conflictingStorage) Write(ctx context.Context) (storage.Writer, error) {
	w, err := c.Storage.Write(ctx)
	if err != nil {
		return nil, err
	}
	return conflictingWriter{Writer: w}, nil
}

type conflictingWriter struct {
	storage.Writer
}

func (w conflictingWriter) Commit(ctx context.Context) error {
	_ = w.Writer.Rollback(ctx)
	return storage.ErrConflict
}
