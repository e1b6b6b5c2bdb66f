package handler

import (
	"subsidy-ledger/internal/adapter/http/dto"
	"subsidy-ledger/internal/core/domain"
	"subsidy-ledger/internal/core/ports"
	"subsidy-ledger/pkg/apperror"
	"subsidy-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// RecipientHandler handles recipient management endpoints.
type RecipientHandler struct {
	recipientSvc ports.RecipientService
	paymentSvc   ports.PaymentService
}

// NewRecipientHandler creates a new RecipientHandler.
func NewRecipientHandler(recipientSvc ports.RecipientService, paymentSvc ports.PaymentService) *RecipientHandler {
	return &RecipientHandler{recipientSvc: recipientSvc, paymentSvc: paymentSvc}
}

// Create handles POST /api/v1/recipients.
func (h *RecipientHandler) Create(c *gin.Context) {
	var req dto.CreateRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	recipient, err := h.recipientSvc.Create(c.Request.Context(), req.Name, req.DailyLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toRecipientResponse(recipient))
}

// Get handles GET /api/v1/recipients/:id.
func (h *RecipientHandler) Get(c *gin.Context) {
	detail, err := h.recipientSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.RecipientDetailResponse{
		RecipientResponse: toRecipientResponse(&detail.Recipient),
		Balance:           toBalanceResponse(detail.Balance),
		Transactions:      toTransactionResponses(detail.Transactions),
	}
	response.OK(c, resp)
}

// List handles GET /api/v1/recipients.
func (h *RecipientHandler) List(c *gin.Context) {
	summaries, err := h.recipientSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.RecipientSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, dto.RecipientSummaryResponse{
			RecipientResponse: toRecipientResponse(&s.Recipient),
			Balance:           toBalanceResponse(s.Balance),
		})
	}
	response.OK(c, items)
}

// Fund handles POST /api/v1/recipients/:id/fund.
func (h *RecipientHandler) Fund(c *gin.Context) {
	var req dto.FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	txn, err := h.paymentSvc.FundRecipient(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// toRecipientResponse converts domain.Recipient to DTO. Wallet keys never
// leave the server.
func toRecipientResponse(r *domain.Recipient) dto.RecipientResponse {
	return dto.RecipientResponse{
		ID:         r.ID,
		Name:       r.Name,
		WalletID:   r.WalletID,
		DailyLimit: r.DailyLimit,
		CreatedAt:  r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
