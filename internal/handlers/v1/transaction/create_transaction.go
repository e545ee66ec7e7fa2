package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/handlers/httperr"
	"github.com/carson-networks/finance-ledger/internal/ledger"
	"github.com/carson-networks/finance-ledger/internal/logging"
	"github.com/carson-networks/finance-ledger/internal/service"
)

// CreateTransactionBody is the request body for recording a transaction.
type CreateTransactionBody struct {
	Type           string   `json:"type" required:"true" doc:"income, expense, transfer or saving"`
	Amount         string   `json:"amount" required:"true" doc:"Positive decimal amount"`
	Currency       string   `json:"currency,omitempty" doc:"ISO 4217 code, defaults to the source account currency"`
	AccountID      string   `json:"accountId" required:"true" doc:"Source account UUID"`
	ToAccountID    string   `json:"toAccountId,omitempty" doc:"Destination account UUID, transfers only"`
	CategoryID     string   `json:"categoryId,omitempty"`
	GoalID         string   `json:"goalId,omitempty"`
	Description    string   `json:"description,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Date           string   `json:"date" required:"true" doc:"Calendar date (YYYY-MM-DD) or RFC3339 timestamp"`
	ExchangeRate   string   `json:"exchangeRate,omitempty" doc:"Units of currency per unit of the reference currency"`
	IdempotencyKey string   `json:"idempotencyKey,omitempty" maxLength:"128" doc:"Repeating a key returns the original transaction"`
}

// CreateTransactionInput is the Huma input for recording a transaction.
type CreateTransactionInput struct {
	UserID string `header:"X-User-ID" required:"true" minLength:"1" doc:"Calling user"`
	Body   CreateTransactionBody
}

// CreateTransactionResponse is the response body for a recorded transaction.
type CreateTransactionResponse struct {
	Transaction        Transaction `json:"transaction"`
	SourceBalance      string      `json:"sourceBalance" doc:"Source account balance after the transaction"`
	DestinationBalance string      `json:"destinationBalance,omitempty" doc:"Destination account balance, transfers only"`
	Replayed           bool        `json:"replayed" doc:"True when the idempotency key matched an earlier transaction"`
}

// CreateTransactionOutput is the Huma output for recording a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   CreateTransactionResponse
}

// transactionCreator is the interface for recording transactions.
type transactionCreator interface {
	CreateTransaction(ctx context.Context, userID string, draft ledger.Draft) (*service.CommittedTransaction, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transaction",
		Summary:     "Record transaction",
		Description: "Records a transaction and applies its balance effect atomically.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseCreateTransactionInput turns the wire body into a draft. Empty ids are
// left as uuid.Nil so draft validation reports them per field.
func parseCreateTransactionInput(input *CreateTransactionInput) (ledger.Draft, error) {
	body := input.Body

	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return ledger.Draft{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	var accountID, toAccountID uuid.UUID
	if body.AccountID != "" {
		if accountID, err = uuid.FromString(body.AccountID); err != nil {
			return ledger.Draft{}, huma.NewError(http.StatusBadRequest, "invalid accountId", err)
		}
	}
	if body.ToAccountID != "" {
		if toAccountID, err = uuid.FromString(body.ToAccountID); err != nil {
			return ledger.Draft{}, huma.NewError(http.StatusBadRequest, "invalid toAccountId", err)
		}
	}

	var rate decimal.NullDecimal
	if body.ExchangeRate != "" {
		parsed, err := decimal.NewFromString(body.ExchangeRate)
		if err != nil {
			return ledger.Draft{}, huma.NewError(http.StatusBadRequest, "invalid exchangeRate", err)
		}
		rate = decimal.NewNullDecimal(parsed)
	}

	return ledger.Draft{
		Type:           ledger.TransactionType(body.Type),
		Amount:         amount,
		Currency:       body.Currency,
		AccountID:      accountID,
		ToAccountID:    toAccountID,
		CategoryID:     body.CategoryID,
		GoalID:         body.GoalID,
		Description:    body.Description,
		Notes:          body.Notes,
		Tags:           body.Tags,
		Date:           body.Date,
		ExchangeRate:   rate,
		IdempotencyKey: body.IdempotencyKey,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	draft, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createTransactionMs")
	}
	committed, err := h.TransactionService.CreateTransaction(ctx, input.UserID, draft)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, httperr.FromError(err, "failed to create transaction")
	}

	if logData != nil {
		logData.AddData("transactionID", committed.Transaction.ID.String())
		logData.AddData("replayed", committed.Replayed)
	}

	resp := CreateTransactionResponse{
		Transaction:   fromService(committed.Transaction),
		SourceBalance: committed.SourceBalance.String(),
		Replayed:      committed.Replayed,
	}
	if committed.DestinationBalance.Valid {
		resp.DestinationBalance = committed.DestinationBalance.Decimal.String()
	}

	status := http.StatusCreated
	if committed.Replayed {
		status = http.StatusOK
	}

	return &CreateTransactionOutput{Status: status, Body: resp}, nil
}
