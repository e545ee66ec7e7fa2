package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/finance-ledger/internal/config"
	"github.com/carson-networks/finance-ledger/internal/storage/account"
	"github.com/carson-networks/finance-ledger/internal/storage/transaction"
)

// PostgresStorage is the production Storage backed by database/sql and bob.
type PostgresStorage struct {
	DB   *sql.DB
	exec bob.DB
}

var _ Storage = (*PostgresStorage)(nil)

// NewPostgresStorage opens a connection pool using the configured credentials.
func NewPostgresStorage(env *config.Config) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", env.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	return NewPostgresStorageFromDB(db), nil
}

func NewPostgresStorageFromDB(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{
		DB:   db,
		exec: bob.NewDB(db),
	}
}

func (s *PostgresStorage) Reader() Reader {
	return &sqlReader{
		accounts:     account.NewReader(s.exec),
		transactions: transaction.NewReader(s.exec),
	}
}

// Write begins a READ COMMITTED transaction. Balance rows are locked with
// SELECT ... FOR UPDATE inside the unit, which serializes writers per account.
func (s *PostgresStorage) Write(ctx context.Context) (Writer, error) {
	tx, err := s.exec.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	return &sqlWriter{
		tx:           tx,
		accounts:     account.NewWriter(tx),
		transactions: transaction.NewWriter(tx),
	}, nil
}

// Ping checks that the database is reachable.
func (s *PostgresStorage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *PostgresStorage) Close() error {
	return s.DB.Close()
}

type sqlReader struct {
	accounts     *account.Reader
	transactions *transaction.Reader
}

func (r *sqlReader) Accounts() account.IAccountReader {
	return r.accounts
}

func (r *sqlReader) Transactions() transaction.ITransactionReader {
	return r.transactions
}

type sqlWriter struct {
	tx           bob.Tx
	accounts     *account.Writer
	transactions *transaction.Writer
}

func (w *sqlWriter) Accounts() account.IAccountWriter {
	return w.accounts
}

func (w *sqlWriter) Transactions() transaction.ITransactionWriter {
	return w.transactions
}

func (w *sqlWriter) Commit(ctx context.Context) error {
	return w.tx.Commit(ctx)
}

func (w *sqlWriter) Rollback(ctx context.Context) error {
	return w.tx.Rollback(ctx)
}
