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

type AdjustBalanceInput struct {
	UserID    string `header:"X-User-ID" required:"true" minLength:"1" doc:"Calling user"`
	AccountID string `path:"accountID" doc:"Account UUID"`
	Body      struct {
		Delta string `json:"delta" required:"true" doc:"Signed decimal added to the current balance"`
	}
}

type AdjustBalanceOutput struct {
	Body Account
}

type balanceAdjuster interface {
	AdjustBalance(ctx context.Context, userID string, id uuid.UUID, delta decimal.Decimal) (*service.Account, error)
}

// AdjustBalanceHandler handles POST /v1/account/{accountID}/adjust.
type AdjustBalanceHandler struct {
	AccountService balanceAdjuster
}

func NewAdjustBalanceHandler(svc balanceAdjuster) *AdjustBalanceHandler {
	return &AdjustBalanceHandler{AccountService: svc}
}

func (h *AdjustBalanceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "adjust-account-balance",
		Method:      http.MethodPost,
		Path:        "/v1/account/{accountID}/adjust",
		Summary:     "Adjust an account balance",
		Description: "Applies a manual correction without recording a transaction.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *AdjustBalanceHandler) handle(ctx context.Context, input *AdjustBalanceInput) (*AdjustBalanceOutput, error) {
	id, err := uuid.FromString(input.AccountID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid accountID", err)
	}
	delta, err := decimal.NewFromString(input.Body.Delta)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid delta", err)
	}

	acc, err := h.AccountService.AdjustBalance(ctx, input.UserID, id, delta)
	if err != nil {
		return nil, httperr.FromError(err, "failed to adjust balance")
	}

	return &AdjustBalanceOutput{Body: fromService(*acc)}, nil
}
