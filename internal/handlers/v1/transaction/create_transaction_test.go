package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-ledger/internal/ledger"
	"github.com/carson-networks/finance-ledger/internal/service"
)

const userHeader = "X-User-ID: user-1"

type mockTransactionCreator struct {
	mock.Mock
}

func (m *mockTransactionCreator) CreateTransaction(ctx context.Context, userID string, draft ledger.Draft) (*service.CommittedTransaction, error) {
	args := m.Called(ctx, userID, draft)
	committed, _ := args.Get(0).(*service.CommittedTransaction)
	return committed, args.Error(1)
}

func newCreateTestAPI(t *testing.T, svc transactionCreator) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewCreateTransactionHandler(svc).Register(api)
	return api
}

func committedExpense(accountID uuid.UUID, replayed bool) *service.CommittedTransaction {
	return &service.CommittedTransaction{
		Transaction: service.Transaction{
			ID:        uuid.Must(uuid.NewV4()),
			Type:      ledger.TransactionTypeExpense,
			Amount:    decimal.RequireFromString("12.5"),
			Currency:  "USD",
			AccountID: accountID,
			Date:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
			Year:      2026,
			Month:     3,
			Day:       14,
			Week:      2,
			YearMonth: "2026-03",
			CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		},
		SourceBalance: decimal.RequireFromString("87.5"),
		Replayed:      replayed,
	}
}

// -- parseCreateTransactionInput unit tests --

func TestParseCreateTransactionInput_ValidTransfer(t *testing.T) {
	from := uuid.Must(uuid.NewV4())
	to := uuid.Must(uuid.NewV4())

	draft, err := parseCreateTransactionInput(&CreateTransactionInput{
		UserID: "user-1",
		Body: CreateTransactionBody{
			Type:           "transfer",
			Amount:         "200.10",
			AccountID:      from.String(),
			ToAccountID:    to.String(),
			Tags:           []string{"rent"},
			Date:           "2026-03-14",
			ExchangeRate:   "1.25",
			IdempotencyKey: "k-1",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, ledger.TransactionTypeTransfer, draft.Type)
	assert.True(t, draft.Amount.Equal(decimal.RequireFromString("200.10")))
	assert.Equal(t, from, draft.AccountID)
	assert.Equal(t, to, draft.ToAccountID)
	assert.Equal(t, []string{"rent"}, draft.Tags)
	assert.True(t, draft.ExchangeRate.Valid)
	assert.True(t, draft.ExchangeRate.Decimal.Equal(decimal.RequireFromString("1.25")))
	assert.Equal(t, "k-1", draft.IdempotencyKey)
}

func TestParseCreateTransactionInput_EmptyIDsLeftForValidation(t *testing.T) {
	draft, err := parseCreateTransactionInput(&CreateTransactionInput{
		Body: CreateTransactionBody{Type: "expense", Amount: "1", Date: "2026-03-14"},
	})

	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, draft.AccountID)
	assert.Equal(t, uuid.Nil, draft.ToAccountID)
	assert.False(t, draft.ExchangeRate.Valid)
}

func TestParseCreateTransactionInput_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body CreateTransactionBody
	}{
		{name: "amount", body: CreateTransactionBody{Amount: "twelve"}},
		{name: "non-finite amount", body: CreateTransactionBody{Amount: "NaN"}},
		{name: "infinite amount", body: CreateTransactionBody{Amount: "Inf"}},
		{name: "accountId", body: CreateTransactionBody{Amount: "1", AccountID: "nope"}},
		{name: "toAccountId", body: CreateTransactionBody{Amount: "1", ToAccountID: "nope"}},
		{name: "exchangeRate", body: CreateTransactionBody{Amount: "1", ExchangeRate: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCreateTransactionInput(&CreateTransactionInput{Body: tt.body})
			assert.Error(t, err)
		})
	}
}

// -- HTTP tests --

func TestHTTP_CreateTransaction_Created(t *testing.T) {
	accountID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockTransactionCreator)
	mockSvc.On("CreateTransaction", mock.Anything, "user-1", mock.MatchedBy(func(d ledger.Draft) bool {
		return d.AccountID == accountID &&
			d.Type == ledger.TransactionTypeExpense &&
			d.Amount.Equal(decimal.RequireFromString("12.50")) &&
			d.Date == "2026-03-14"
	})).Return(committedExpense(accountID, false), nil)

	resp := newCreateTestAPI(t, mockSvc).Post("/v1/transaction", userHeader, CreateTransactionBody{
		Type:      "expense",
		Amount:    "12.50",
		AccountID: accountID.String(),
		Date:      "2026-03-14",
	})

	require.Equal(t, http.StatusCreated, resp.Code)
	var body CreateTransactionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "87.5", body.SourceBalance)
	assert.Empty(t, body.DestinationBalance)
	assert.False(t, body.Replayed)
	assert.Equal(t, "2026-03-14", body.Transaction.Date)
	assert.Equal(t, "2026-03", body.Transaction.YearMonth)
	assert.Equal(t, []string{}, body.Transaction.Tags)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateTransaction_ReplayReturnsOK(t *testing.T) {
	accountID := uuid.Must(uuid.NewV4())
	mockSvc := new(mockTransactionCreator)
	mockSvc.On("CreateTransaction", mock.Anything, "user-1", mock.Anything).
		Return(committedExpense(accountID, true), nil)

	resp := newCreateTestAPI(t, mockSvc).Post("/v1/transaction", userHeader, CreateTransactionBody{
		Type:           "expense",
		Amount:         "12.50",
		AccountID:      accountID.String(),
		Date:           "2026-03-14",
		IdempotencyKey: "k-1",
	})

	require.Equal(t, http.StatusOK, resp.Code)
	var body CreateTransactionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Replayed)
}

func TestHTTP_CreateTransaction_MissingUserHeader(t *testing.T) {
	mockSvc := new(mockTransactionCreator)

	resp := newCreateTestAPI(t, mockSvc).Post("/v1/transaction", CreateTransactionBody{
		Type:      "expense",
		Amount:    "1",
		AccountID: uuid.Must(uuid.NewV4()).String(),
		Date:      "2026-03-14",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateTransaction")
}

func TestHTTP_CreateTransaction_InvalidAmount(t *testing.T) {
	mockSvc := new(mockTransactionCreator)

	resp := newCreateTestAPI(t, mockSvc).Post("/v1/transaction", userHeader, CreateTransactionBody{
		Type:      "expense",
		Amount:    "not-a-decimal",
		AccountID: uuid.Must(uuid.NewV4()).String(),
		Date:      "2026-03-14",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateTransaction")
}

func TestHTTP_CreateTransaction_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{
			name:   "validation",
			err:    &ledger.ValidationError{Errors: []ledger.DomainError{{Code: ledger.ErrorInvalidAmount, Field: "amount", Message: "amount must be a positive number"}}},
			status: http.StatusBadRequest,
		},
		{
			name:   "account not found",
			err:    ledger.NewDomainError(ledger.ErrorAccountNotFound, "accountId", "account not found"),
			status: http.StatusNotFound,
		},
		{
			name:   "insufficient funds",
			err:    ledger.NewDomainError(ledger.ErrorInsufficientFunds, "amount", "insufficient funds"),
			status: http.StatusConflict,
		},
		{
			name:   "commit",
			err:    &ledger.CommitError{Attempts: 5, Err: errors.New("serialization failure")},
			status: http.StatusServiceUnavailable,
		},
		{
			name:   "unexpected",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(mockTransactionCreator)
			mockSvc.On("CreateTransaction", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			resp := newCreateTestAPI(t, mockSvc).Post("/v1/transaction", userHeader, CreateTransactionBody{
				Type:      "expense",
				Amount:    "1",
				AccountID: uuid.Must(uuid.NewV4()).String(),
				Date:      "2026-03-14",
			})

			assert.Equal(t, tt.status, resp.Code)
			mockSvc.AssertExpectations(t)
		})
	}
}
