package account

import (
	"context"
	"encoding/json"
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

type mockAccountService struct {
	mock.Mock
}

func (m *mockAccountService) CreateAccount(ctx context.Context, userID string, create service.AccountCreate) (*service.Account, error) {
	args := m.Called(ctx, userID, create)
	acc, _ := args.Get(0).(*service.Account)
	return acc, args.Error(1)
}

func (m *mockAccountService) GetAccount(ctx context.Context, userID string, id uuid.UUID) (*service.Account, error) {
	args := m.Called(ctx, userID, id)
	acc, _ := args.Get(0).(*service.Account)
	return acc, args.Error(1)
}

func (m *mockAccountService) ListAccounts(ctx context.Context, userID string, cursor *service.AccountCursor) ([]service.Account, *service.AccountCursor, error) {
	args := m.Called(ctx, userID, cursor)
	accounts, _ := args.Get(0).([]service.Account)
	next, _ := args.Get(1).(*service.AccountCursor)
	return accounts, next, args.Error(2)
}

func (m *mockAccountService) AdjustBalance(ctx context.Context, userID string, id uuid.UUID, delta decimal.Decimal) (*service.Account, error) {
	args := m.Called(ctx, userID, id, delta)
	acc, _ := args.Get(0).(*service.Account)
	return acc, args.Error(1)
}

func (m *mockAccountService) TransferFunds(ctx context.Context, userID string, from, to uuid.UUID, amount decimal.Decimal) (*service.TransferResult, error) {
	args := m.Called(ctx, userID, from, to, amount)
	result, _ := args.Get(0).(*service.TransferResult)
	return result, args.Error(1)
}

// newTestAPI registers every account handler against one humatest API.
func newTestAPI(t *testing.T, svc *mockAccountService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewCreateAccountHandler(svc).Register(api)
	NewGetAccountHandler(svc).Register(api)
	NewListAccountsHandler(svc).Register(api)
	NewAdjustBalanceHandler(svc).Register(api)
	NewTransferFundsHandler(svc).Register(api)
	return api
}

func testAccount(balance string) *service.Account {
	created := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	return &service.Account{
		ID:             uuid.Must(uuid.NewV4()),
		Name:           "Checking",
		Type:           ledger.AccountTypeBank,
		Currency:       "USD",
		InitialBalance: decimal.RequireFromString("100"),
		CurrentBalance: decimal.RequireFromString(balance),
		IsActive:       true,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
}

func TestParseCreateAccountInput_DefaultsBalance(t *testing.T) {
	create, err := parseCreateAccountInput(&CreateAccountInput{
		Body: CreateAccountBody{Name: "Wallet", Type: "cash"},
	})

	require.NoError(t, err)
	assert.True(t, create.InitialBalance.IsZero())
	assert.Equal(t, ledger.AccountTypeCash, create.Type)
}

func TestParseCreateAccountInput_InvalidBalance(t *testing.T) {
	_, err := parseCreateAccountInput(&CreateAccountInput{
		Body: CreateAccountBody{Name: "Wallet", Type: "cash", InitialBalance: "lots"},
	})
	assert.Error(t, err)
}

func TestHTTP_CreateAccount_Success(t *testing.T) {
	acc := testAccount("100")
	mockSvc := new(mockAccountService)
	mockSvc.On("CreateAccount", mock.Anything, "user-1", mock.MatchedBy(func(c service.AccountCreate) bool {
		return c.Name == "Checking" &&
			c.Type == ledger.AccountTypeBank &&
			c.Currency == "usd" &&
			c.InitialBalance.Equal(decimal.RequireFromString("100"))
	})).Return(acc, nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/account", userHeader, CreateAccountBody{
		Name:           "Checking",
		Type:           "bank",
		Currency:       "usd",
		InitialBalance: "100",
	})

	require.Equal(t, http.StatusCreated, resp.Code)
	var body Account
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, acc.ID.String(), body.ID)
	assert.Equal(t, "100", body.CurrentBalance)
	assert.True(t, body.IsActive)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateAccount_UnknownType(t *testing.T) {
	mockSvc := new(mockAccountService)

	resp := newTestAPI(t, mockSvc).Post("/v1/account", userHeader, CreateAccountBody{Name: "Loan", Type: "loan"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateAccount")
}

func TestHTTP_CreateAccount_ValidationError(t *testing.T) {
	mockSvc := new(mockAccountService)
	mockSvc.On("CreateAccount", mock.Anything, "user-1", mock.Anything).Return(nil, &ledger.ValidationError{
		Errors: []ledger.DomainError{{Code: ledger.ErrorInvalidInput, Field: "currency", Message: "unknown currency: ZZZ"}},
	})

	resp := newTestAPI(t, mockSvc).Post("/v1/account", userHeader, CreateAccountBody{Name: "A", Type: "cash", Currency: "ZZZ"})

	require.Equal(t, http.StatusBadRequest, resp.Code)
	var body struct {
		Errors []struct {
			Location string `json:"location"`
			Value    string `json:"value"`
		} `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "currency", body.Errors[0].Location)
	assert.Equal(t, string(ledger.ErrorInvalidInput), body.Errors[0].Value)
}
