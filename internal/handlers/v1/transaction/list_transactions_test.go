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

type mockTransactionLister struct {
	mock.Mock
}

func (m *mockTransactionLister) ListTransactions(ctx context.Context, userID string, filter *service.TransactionFilter, cursor *service.TransactionCursor) ([]service.Transaction, *service.TransactionCursor, error) {
	args := m.Called(ctx, userID, filter, cursor)
	txs, _ := args.Get(0).([]service.Transaction)
	next, _ := args.Get(1).(*service.TransactionCursor)
	return txs, next, args.Error(2)
}

func newListTestAPI(t *testing.T, svc transactionLister) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewListTransactionsHandler(svc).Register(api)
	return api
}

// -- parseListTransactionsInput unit tests --

func TestParseListTransactionsInput_NoCursor(t *testing.T) {
	filter, cursor, err := parseListTransactionsInput(&ListTransactionsInput{})
	assert.NoError(t, err)
	assert.Nil(t, filter)
	assert.Nil(t, cursor)
}

func TestParseListTransactionsInput_WithFilterAndCursor(t *testing.T) {
	accountID := uuid.Must(uuid.NewV4())
	cursorMaxTime := "2025-06-15T08:00:00Z"

	filter, cursor, err := parseListTransactionsInput(&ListTransactionsInput{
		Body: ListTransactionsBody{
			AccountID: accountID.String(),
			YearMonth: "2025-06",
			Cursor: &ListTransactionsCursor{
				Position:        40,
				Limit:           10,
				MaxCreationTime: cursorMaxTime,
			},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, filter)
	assert.Equal(t, accountID, *filter.AccountID)
	assert.Equal(t, "2025-06", filter.YearMonth)

	expectedMax, _ := time.Parse(time.RFC3339, cursorMaxTime)
	require.NotNil(t, cursor)
	assert.Equal(t, 40, cursor.Position)
	assert.Equal(t, 10, cursor.Limit)
	assert.Equal(t, expectedMax, cursor.MaxCreationTime)
}

func TestParseListTransactionsInput_InvalidCursorMaxCreationTime(t *testing.T) {
	_, _, err := parseListTransactionsInput(&ListTransactionsInput{
		Body: ListTransactionsBody{
			Cursor: &ListTransactionsCursor{Limit: 10, MaxCreationTime: "not-a-date"},
		},
	})
	assert.Error(t, err)
}

func TestParseListTransactionsInput_InvalidAccountID(t *testing.T) {
	_, _, err := parseListTransactionsInput(&ListTransactionsInput{
		Body: ListTransactionsBody{AccountID: "nope"},
	})
	assert.Error(t, err)
}

// -- HTTP tests --

func TestHTTP_ListTransactions_FirstPage(t *testing.T) {
	maxCreation := time.Date(2026, 3, 1, 10, 0, 0, 500, time.UTC)
	txs := []service.Transaction{
		{
			ID:        uuid.Must(uuid.NewV4()),
			Type:      ledger.TransactionTypeIncome,
			Amount:    decimal.RequireFromString("1000"),
			Currency:  "USD",
			AccountID: uuid.Must(uuid.NewV4()),
			Date:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			CreatedAt: maxCreation,
		},
	}

	mockSvc := new(mockTransactionLister)
	mockSvc.On("ListTransactions", mock.Anything, "user-1", (*service.TransactionFilter)(nil), (*service.TransactionCursor)(nil)).
		Return(txs, &service.TransactionCursor{Position: 1, Limit: 1, MaxCreationTime: maxCreation}, nil)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list", userHeader, ListTransactionsBody{})

	require.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Transactions, 1)
	assert.Equal(t, "1000", body.Transactions[0].Amount)
	require.NotNil(t, body.NextCursor)
	assert.Equal(t, 1, body.NextCursor.Position)

	parsed, err := time.Parse(time.RFC3339, body.NextCursor.MaxCreationTime)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(maxCreation))
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_LastPageHasNoCursor(t *testing.T) {
	mockSvc := new(mockTransactionLister)
	mockSvc.On("ListTransactions", mock.Anything, "user-1", mock.Anything, mock.Anything).
		Return([]service.Transaction{}, nil, nil)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list", userHeader, ListTransactionsBody{
		Cursor: &ListTransactionsCursor{Position: 20, Limit: 20, MaxCreationTime: "2026-03-01T10:00:00Z"},
	})

	require.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Transactions)
	assert.Nil(t, body.NextCursor)
}

func TestHTTP_ListTransactions_InvalidYearMonth(t *testing.T) {
	mockSvc := new(mockTransactionLister)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list", userHeader, ListTransactionsBody{YearMonth: "March"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "ListTransactions")
}

func TestHTTP_ListTransactions_InvalidCursorDate(t *testing.T) {
	mockSvc := new(mockTransactionLister)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list", userHeader, ListTransactionsBody{
		Cursor: &ListTransactionsCursor{Position: 0, Limit: 10, MaxCreationTime: "not-a-date"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "ListTransactions")
}

func TestHTTP_ListTransactions_ServiceError(t *testing.T) {
	mockSvc := new(mockTransactionLister)
	mockSvc.On("ListTransactions", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, errors.New("database unavailable"))

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list", userHeader, ListTransactionsBody{})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
