package handler

import (
	"subsidy-ledger/internal/core/ports"
	"subsidy-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// LedgerHandler handles transaction read endpoints.
type LedgerHandler struct {
	ledgerSvc ports.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerSvc ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// List handles GET /api/v1/transactions.
func (h *LedgerHandler) List(c *gin.Context) {
	txs, err := h.ledgerSvc.ListTransactions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTransactionResponses(txs))
}

// Get handles GET /api/v1/transactions/:id.
func (h *LedgerHandler) Get(c *gin.Context) {
	txn, err := h.ledgerSvc.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toTransactionResponse(txn))
}
