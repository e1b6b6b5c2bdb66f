package handler

import (
	"subsidy-ledger/internal/adapter/http/dto"
	"subsidy-ledger/internal/adapter/http/middleware"
	"subsidy-ledger/internal/core/domain"
	"subsidy-ledger/internal/core/ports"
	"subsidy-ledger/pkg/apperror"
	"subsidy-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// PaymentHandler handles payment and validation endpoints.
type PaymentHandler struct {
	paymentSvc   ports.PaymentService
	validatorSvc ports.ValidationService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService, validatorSvc ports.ValidationService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc, validatorSvc: validatorSvc}
}

// Pay handles POST /api/v1/payments.
func (h *PaymentHandler) Pay(c *gin.Context) {
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	txn, err := h.paymentSvc.PayVendor(c.Request.Context(), ports.PayVendorRequest{
		RecipientID: req.RecipientID,
		VendorID:    req.VendorID,
		Amount:      req.Amount,
	})
	if err != nil {
		middleware.CountPaymentRejection("payments")
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// Validate handles POST /api/v1/payments/validate. A policy rejection is a
// 200 with valid=false, not an error: the decision itself is the payload.
func (h *PaymentHandler) Validate(c *gin.Context) {
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result := h.validatorSvc.Validate(c.Request.Context(), req.RecipientID, req.VendorID, req.Amount)
	if !result.Valid {
		middleware.CountPaymentRejection("validate")
	}

	response.OK(c, dto.ValidationResponse{
		Valid:  result.Valid,
		Reason: result.Reason,
	})
}

// Record handles POST /api/v1/payments/record.
func (h *PaymentHandler) Record(c *gin.Context) {
	var req dto.RecordSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	txn, err := h.paymentSvc.RecordSettlement(c.Request.Context(), ports.SettlementRecord{
		RecipientID: req.RecipientID,
		VendorID:    req.VendorID,
		Amount:      req.Amount,
		PaymentHash: req.PaymentHash,
		Date:        req.Date,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// CreateInvoice handles POST /api/v1/invoices.
func (h *PaymentHandler) CreateInvoice(c *gin.Context) {
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.paymentSvc.GenerateVendorInvoice(c.Request.Context(), ports.PayVendorRequest{
		RecipientID: req.RecipientID,
		VendorID:    req.VendorID,
		Amount:      req.Amount,
	})
	if err != nil {
		middleware.CountPaymentRejection("invoices")
		response.Error(c, err)
		return
	}

	response.Created(c, dto.InvoiceResponse{
		PaymentRequest: result.Invoice.PaymentRequest,
		PaymentHash:    result.Invoice.PaymentHash,
		Amount:         result.Invoice.Amount,
		Memo:           result.Invoice.Memo,
		Transaction:    toTransactionResponse(result.Transaction),
	})
}

// SettleInvoice handles POST /api/v1/invoices/:id/settle.
func (h *PaymentHandler) SettleInvoice(c *gin.Context) {
	var req struct {
		PaymentHash string `json:"payment_hash,omitempty"`
	}
	// Body is optional; the hash may already be on the pending entry.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperror.Validation(err.Error()))
			return
		}
	}

	txn, err := h.paymentSvc.SettleInvoice(c.Request.Context(), c.Param("id"), req.PaymentHash)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransactionResponse(txn))
}

// toTransactionResponse converts domain.Transaction to DTO. A zero date is
// rendered as an empty string.
func toTransactionResponse(tx *domain.Transaction) dto.TransactionResponse {
	date := ""
	if !tx.Date.IsZero() {
		date = tx.Date.Format("2006-01-02T15:04:05Z07:00")
	}
	return dto.TransactionResponse{
		ID:          tx.ID,
		RecipientID: tx.RecipientID,
		VendorID:    tx.VendorID,
		Amount:      tx.Amount,
		Date:        date,
		Status:      string(tx.Status),
		Type:        string(tx.Type),
		PaymentHash: tx.PaymentHash,
	}
}

func toTransactionResponses(txs []domain.Transaction) []dto.TransactionResponse {
	out := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, toTransactionResponse(&txs[i]))
	}
	return out
}

// toBalanceResponse converts domain.Balance to DTO.
func toBalanceResponse(b domain.Balance) dto.BalanceResponse {
	return dto.BalanceResponse{
		Sats:   b.Sats,
		Source: string(b.Source),
	}
}
