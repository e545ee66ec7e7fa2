package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/handlers/httperr"
	"github.com/carson-networks/finance-ledger/internal/service"
)

type TransferFundsBody struct {
	FromAccountID string `json:"fromAccountId" required:"true" doc:"Source account UUID"`
	ToAccountID   string `json:"toAccountId" required:"true" doc:"Destination account UUID"`
	Amount        string `json:"amount" required:"true" doc:"Positive decimal amount"`
}

type TransferFundsInput struct {
	UserID string `header:"X-User-ID" required:"true" minLength:"1" doc:"Calling user"`
	Body   TransferFundsBody
}

type TransferFundsResponseBody struct {
	From Account `json:"from"`
	To   Account `json:"to"`
}

type TransferFundsOutput struct {
	Body TransferFundsResponseBody
}

type fundsTransferer interface {
	TransferFunds(ctx context.Context, userID string, from, to uuid.UUID, amount decimal.Decimal) (*service.TransferResult, error)
}

// TransferFundsHandler handles POST /v1/account/transfer.
type TransferFundsHandler struct {
	AccountService fundsTransferer
}

func NewTransferFundsHandler(svc fundsTransferer) *TransferFundsHandler {
	return &TransferFundsHandler{AccountService: svc}
}

func (h *TransferFundsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "transfer-funds",
		Method:      http.MethodPost,
		Path:        "/v1/account/transfer",
		Summary:     "Transfer funds",
		Description: "Moves funds between two accounts of the same currency without recording a transaction.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *TransferFundsHandler) handle(ctx context.Context, input *TransferFundsInput) (*TransferFundsOutput, error) {
	from, err := uuid.FromString(input.Body.FromAccountID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid fromAccountId", err)
	}
	to, err := uuid.FromString(input.Body.ToAccountID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid toAccountId", err)
	}
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	result, err := h.AccountService.TransferFunds(ctx, input.UserID, from, to, amount)
	if err != nil {
		return nil, httperr.FromError(err, "failed to transfer funds")
	}

	return &TransferFundsOutput{Body: TransferFundsResponseBody{
		From: fromService(result.From),
		To:   fromService(result.To),
	}}, nil
}
