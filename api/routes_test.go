package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-ledger/internal/logging"
	"github.com/carson-networks/finance-ledger/internal/money"
	"github.com/carson-networks/finance-ledger/internal/operator"
	"github.com/carson-networks/finance-ledger/internal/service"
	"github.com/carson-networks/finance-ledger/internal/storage/memory"
)

func newTestRoutes(t *testing.T) http.Handler {
	t.Helper()
	logger := logging.SetupLogging("error")
	logger.SetOutput(io.Discard)

	store := memory.New()
	normalizer, err := money.NewNormalizer("USD")
	require.NoError(t, err)
	op := operator.NewOperator(store, operator.WithBaseDelay(0), operator.WithLogger(logger))

	rest := &Rest{
		Logger:  logger,
		Service: service.NewService(store, op, normalizer),
	}
	return rest.Routes()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(logging.UserIDHeader, "user-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if out != nil {
		require.NoError(t, json.NewDecoder(w.Body).Decode(out))
	}
	return w.Code
}

func TestRoutes_Status(t *testing.T) {
	h := newTestRoutes(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_RecordExpenseEndToEnd(t *testing.T) {
	h := newTestRoutes(t)

	var acc struct {
		ID             string `json:"id"`
		CurrentBalance string `json:"currentBalance"`
	}
	code := doJSON(t, h, http.MethodPost, "/v1/account", map[string]any{
		"name": "Checking", "type": "bank", "initialBalance": "100",
	}, &acc)
	require.Equal(t, http.StatusCreated, code)

	expense := map[string]any{
		"type": "expense", "amount": "30.5", "accountId": acc.ID,
		"date": "2026-03-14", "idempotencyKey": "groceries-1",
	}
	var created struct {
		SourceBalance string `json:"sourceBalance"`
		Replayed      bool   `json:"replayed"`
	}
	code = doJSON(t, h, http.MethodPost, "/v1/transaction", expense, &created)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "69.5", created.SourceBalance)

	code = doJSON(t, h, http.MethodPost, "/v1/transaction", expense, &created)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, created.Replayed)
	assert.Equal(t, "69.5", created.SourceBalance)

	code = doJSON(t, h, http.MethodPost, "/v1/transaction", map[string]any{
		"type": "expense", "amount": "70", "accountId": acc.ID, "date": "2026-03-14",
	}, nil)
	assert.Equal(t, http.StatusConflict, code)

	code = doJSON(t, h, http.MethodGet, "/v1/account/"+acc.ID, nil, &acc)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "69.5", acc.CurrentBalance)

	var page struct {
		Transactions []json.RawMessage `json:"transactions"`
	}
	code = doJSON(t, h, http.MethodPost, "/v1/transaction/list", map[string]any{"accountId": acc.ID}, &page)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, page.Transactions, 1)
}

func TestRoutes_ValidationErrorIsBadRequest(t *testing.T) {
	h := newTestRoutes(t)

	var problem struct {
		Errors []struct {
			Location string `json:"location"`
		} `json:"errors"`
	}
	code := doJSON(t, h, http.MethodPost, "/v1/transaction", map[string]any{
		"type": "expense", "amount": "-1", "accountId": "", "date": "2026-03-14",
	}, &problem)

	require.Equal(t, http.StatusBadRequest, code)
	locations := make([]string, len(problem.Errors))
	for i, e := range problem.Errors {
		locations[i] = e.Location
	}
	assert.ElementsMatch(t, []string{"amount", "accountId"}, locations)
}

