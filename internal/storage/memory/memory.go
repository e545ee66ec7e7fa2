// Package memory is an in-process Storage.
//
// Units buffer their writes and record the version of every account and
// idempotency key they read. Commit validates those versions under a single
// lock and fails with storage.ErrConflict if another unit committed a change
// in between, so callers observe the same retry behavior as with Postgres.
package memory

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/storage"
	"github.com/carson-networks/finance-ledger/internal/storage/account"
	"github.com/carson-networks/finance-ledger/internal/storage/transaction"
)

var (
	ErrUnitClosed     = errors.New("memory: unit already committed or rolled back")
	ErrDuplicateID    = errors.New("memory: duplicate id")
	ErrDuplicateEntry = errors.New("memory: duplicate idempotency key")
)

type accountRecord struct {
	account account.Account
	version uint64
}

type idempotencyKey struct {
	userID string
	key    string
}

// Storage keeps committed state in maps guarded by mu.
type Storage struct {
	mu           sync.Mutex
	now          func() time.Time
	accounts     map[uuid.UUID]*accountRecord
	transactions map[uuid.UUID]*transaction.Transaction
	idempotency  map[idempotencyKey]uuid.UUID
}

var _ storage.Storage = (*Storage)(nil)

type Option func(*Storage)

// WithClock overrides the clock used to stamp created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		s.now = now
	}
}

func New(opts ...Option) *Storage {
	s := &Storage{
		now:          func() time.Time { return time.Now().UTC() },
		accounts:     map[uuid.UUID]*accountRecord{},
		transactions: map[uuid.UUID]*transaction.Transaction{},
		idempotency:  map[idempotencyKey]uuid.UUID{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Storage) Reader() storage.Reader {
	return &reader{s: s}
}

func (s *Storage) Write(ctx context.Context) (storage.Writer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w := &writer{
		s:             s,
		startedAt:     s.now(),
		readVersions:  map[uuid.UUID]uint64{},
		readKeys:      map[idempotencyKey]bool{},
		accountWrites: map[uuid.UUID]account.Account{},
	}
	w.accounts = &accountWriter{w: w}
	w.transactions = &transactionWriter{w: w}
	return w, nil
}

// TransactionCount returns the number of committed records.
func (s *Storage) TransactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}

func (s *Storage) committedAccount(userID string, id uuid.UUID) (*accountRecord, bool) {
	rec, ok := s.accounts[id]
	if !ok || rec.account.UserID != userID {
		return nil, false
	}
	return rec, true
}

func (s *Storage) findAccount(userID string, id uuid.UUID) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.committedAccount(userID, id)
	if !ok {
		return nil, account.ErrNotFound
	}
	acc := rec.account
	return &acc, nil
}

func (s *Storage) listAccounts(userID string, filter *account.AccountFilter) []*account.Account {
	s.mu.Lock()
	var all []*account.Account
	for _, rec := range s.accounts {
		if rec.account.UserID == userID {
			acc := rec.account
			all = append(all, &acc)
		}
	}
	s.mu.Unlock()

	slices.SortFunc(all, func(a, b *account.Account) int {
		if a.Name != b.Name {
			if a.Name < b.Name {
				return -1
			}
			return 1
		}
		return bytes.Compare(a.ID.Bytes(), b.ID.Bytes())
	})

	limit, offset := 20, 0
	if filter != nil {
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		offset = filter.Offset
	}
	return page(all, offset, limit+1)
}

func (s *Storage) findTransaction(userID string, id uuid.UUID) (*transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.transactions[id]
	if !ok || rec.UserID != userID {
		return nil, transaction.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *Storage) findByKey(userID, key string) (*transaction.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.idempotency[idempotencyKey{userID: userID, key: key}]
	if !ok {
		return nil, transaction.ErrNotFound
	}
	cp := *s.transactions[id]
	return &cp, nil
}

func (s *Storage) listTransactions(userID string, filter *transaction.TransactionFilter) []*transaction.Transaction {
	s.mu.Lock()
	var matched []*transaction.Transaction
	for _, rec := range s.transactions {
		if rec.UserID != userID || !matchesFilter(rec, filter) {
			continue
		}
		cp := *rec
		matched = append(matched, &cp)
	}
	s.mu.Unlock()

	slices.SortFunc(matched, func(a, b *transaction.Transaction) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(b.ID.Bytes(), a.ID.Bytes())
	})

	if filter == nil {
		return matched
	}
	limit := len(matched)
	if filter.Limit > 0 {
		limit = filter.Limit + 1
	}
	return page(matched, filter.Offset, limit)
}

func matchesFilter(rec *transaction.Transaction, filter *transaction.TransactionFilter) bool {
	if filter == nil {
		return true
	}
	if filter.AccountID != nil {
		id := *filter.AccountID
		if rec.AccountID != id && !(rec.ToAccountID.Valid && rec.ToAccountID.UUID == id) {
			return false
		}
	}
	if filter.YearMonth != "" && rec.YearMonth != filter.YearMonth {
		return false
	}
	if filter.MaxCreationTime != nil && rec.CreatedAt.After(*filter.MaxCreationTime) {
		return false
	}
	return true
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type reader struct {
	s *Storage
}

func (r *reader) Accounts() account.IAccountReader {
	return &accountReader{s: r.s}
}

func (r *reader) Transactions() transaction.ITransactionReader {
	return &transactionReader{s: r.s}
}

type accountReader struct {
	s *Storage
}

func (r *accountReader) FindByID(_ context.Context, userID string, id uuid.UUID) (*account.Account, error) {
	return r.s.findAccount(userID, id)
}

func (r *accountReader) List(_ context.Context, userID string, filter *account.AccountFilter) ([]*account.Account, error) {
	return r.s.listAccounts(userID, filter), nil
}

type transactionReader struct {
	s *Storage
}

func (r *transactionReader) FindByID(_ context.Context, userID string, id uuid.UUID) (*transaction.Transaction, error) {
	return r.s.findTransaction(userID, id)
}

func (r *transactionReader) FindByIdempotencyKey(_ context.Context, userID string, key string) (*transaction.Transaction, error) {
	return r.s.findByKey(userID, key)
}

func (r *transactionReader) List(_ context.Context, userID string, filter *transaction.TransactionFilter) ([]*transaction.Transaction, error) {
	return r.s.listTransactions(userID, filter), nil
}

// writer is one optimistic unit.
type writer struct {
	s         *Storage
	startedAt time.Time
	closed    bool

	// readVersions holds the committed version seen for each account; zero
	// means the account did not exist.
	readVersions map[uuid.UUID]uint64
	// readKeys records whether an idempotency key was present when read.
	readKeys map[idempotencyKey]bool

	accountWrites map[uuid.UUID]account.Account
	newTxs        []transaction.Transaction

	accounts     *accountWriter
	transactions *transactionWriter
}

func (w *writer) Accounts() account.IAccountWriter {
	return w.accounts
}

func (w *writer) Transactions() transaction.ITransactionWriter {
	return w.transactions
}

func (w *writer) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.s.mu.Lock()
	defer w.s.mu.Unlock()

	if w.closed {
		return ErrUnitClosed
	}
	w.closed = true

	for id, seen := range w.readVersions {
		var current uint64
		if rec, ok := w.s.accounts[id]; ok {
			current = rec.version
		}
		if current != seen {
			return storage.ErrConflict
		}
	}
	for key, present := range w.readKeys {
		if _, ok := w.s.idempotency[key]; ok != present {
			return storage.ErrConflict
		}
	}
	for i := range w.newTxs {
		if _, exists := w.s.transactions[w.newTxs[i].ID]; exists {
			return ErrDuplicateID
		}
	}

	for id, acc := range w.accountWrites {
		var version uint64
		if rec, ok := w.s.accounts[id]; ok {
			version = rec.version
		}
		w.s.accounts[id] = &accountRecord{account: acc, version: version + 1}
	}
	for i := range w.newTxs {
		rec := w.newTxs[i]
		w.s.transactions[rec.ID] = &rec
		if key, ok := rec.IdempotencyKey.Get(); ok {
			w.s.idempotency[idempotencyKey{userID: rec.UserID, key: key}] = rec.ID
		}
	}
	return nil
}

func (w *writer) Rollback(_ context.Context) error {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	w.closed = true
	return nil
}

// readAccount returns the unit's view of an account and records the version
// it depends on.
func (w *writer) readAccount(userID string, id uuid.UUID) (*account.Account, bool) {
	if acc, ok := w.accountWrites[id]; ok {
		if acc.UserID != userID {
			return nil, false
		}
		return &acc, true
	}

	w.s.mu.Lock()
	rec, exists := w.s.accounts[id]
	var version uint64
	var acc account.Account
	if exists {
		version = rec.version
		acc = rec.account
	}
	w.s.mu.Unlock()

	if _, seen := w.readVersions[id]; !seen {
		w.readVersions[id] = version
	}
	if !exists || acc.UserID != userID {
		return nil, false
	}
	return &acc, true
}

type accountWriter struct {
	w *writer
}

func (a *accountWriter) FindByID(_ context.Context, userID string, id uuid.UUID) (*account.Account, error) {
	acc, ok := a.w.readAccount(userID, id)
	if !ok {
		return nil, account.ErrNotFound
	}
	return acc, nil
}

func (a *accountWriter) List(_ context.Context, userID string, filter *account.AccountFilter) ([]*account.Account, error) {
	return a.w.s.listAccounts(userID, filter), nil
}

func (a *accountWriter) FindForUpdate(_ context.Context, userID string, ids ...uuid.UUID) (map[uuid.UUID]*account.Account, error) {
	found := make(map[uuid.UUID]*account.Account, len(ids))
	for _, id := range ids {
		if acc, ok := a.w.readAccount(userID, id); ok {
			found[id] = acc
		}
	}
	return found, nil
}

func (a *accountWriter) Insert(_ context.Context, create *account.AccountCreate) (*account.Account, error) {
	if _, buffered := a.w.accountWrites[create.ID]; buffered {
		return nil, ErrDuplicateID
	}

	a.w.s.mu.Lock()
	_, exists := a.w.s.accounts[create.ID]
	a.w.s.mu.Unlock()
	if exists {
		return nil, ErrDuplicateID
	}
	if _, seen := a.w.readVersions[create.ID]; !seen {
		a.w.readVersions[create.ID] = 0
	}

	acc := account.Account{
		ID:             create.ID,
		UserID:         create.UserID,
		Name:           create.Name,
		Type:           create.Type,
		Currency:       create.Currency,
		InitialBalance: create.InitialBalance,
		CurrentBalance: create.InitialBalance,
		IsActive:       true,
		CreatedAt:      a.w.startedAt,
		UpdatedAt:      a.w.startedAt,
	}
	a.w.accountWrites[acc.ID] = acc
	return &acc, nil
}

func (a *accountWriter) UpdateBalance(_ context.Context, userID string, id uuid.UUID, balance decimal.Decimal) (*account.Account, error) {
	acc, ok := a.w.readAccount(userID, id)
	if !ok {
		return nil, account.ErrNotFound
	}
	acc.CurrentBalance = balance
	acc.UpdatedAt = a.w.startedAt
	a.w.accountWrites[id] = *acc
	return acc, nil
}

type transactionWriter struct {
	w *writer
}

func (t *transactionWriter) FindByID(_ context.Context, userID string, id uuid.UUID) (*transaction.Transaction, error) {
	for i := range t.w.newTxs {
		if t.w.newTxs[i].ID == id && t.w.newTxs[i].UserID == userID {
			cp := t.w.newTxs[i]
			return &cp, nil
		}
	}
	return t.w.s.findTransaction(userID, id)
}

func (t *transactionWriter) FindByIdempotencyKey(_ context.Context, userID string, key string) (*transaction.Transaction, error) {
	for i := range t.w.newTxs {
		if k, ok := t.w.newTxs[i].IdempotencyKey.Get(); ok && k == key && t.w.newTxs[i].UserID == userID {
			cp := t.w.newTxs[i]
			return &cp, nil
		}
	}

	rec, err := t.w.s.findByKey(userID, key)
	ik := idempotencyKey{userID: userID, key: key}
	if _, seen := t.w.readKeys[ik]; !seen {
		t.w.readKeys[ik] = err == nil
	}
	return rec, err
}

func (t *transactionWriter) List(_ context.Context, userID string, filter *transaction.TransactionFilter) ([]*transaction.Transaction, error) {
	return t.w.s.listTransactions(userID, filter), nil
}

func (t *transactionWriter) Insert(ctx context.Context, record *transaction.Transaction) (*transaction.Transaction, error) {
	if key, ok := record.IdempotencyKey.Get(); ok {
		for i := range t.w.newTxs {
			if k, set := t.w.newTxs[i].IdempotencyKey.Get(); set && k == key && t.w.newTxs[i].UserID == record.UserID {
				return nil, ErrDuplicateEntry
			}
		}
		// A key committed by another unit since this one started behaves like
		// a unique violation: the whole unit is retried and replays.
		if _, err := t.FindByIdempotencyKey(ctx, record.UserID, key); err == nil {
			return nil, storage.ErrConflict
		}
	}

	rec := *record
	rec.Tags = slices.Clone(record.Tags)
	rec.CreatedAt = t.w.startedAt
	rec.UpdatedAt = t.w.startedAt
	t.w.newTxs = append(t.w.newTxs, rec)

	out := rec
	return &out, nil
}
