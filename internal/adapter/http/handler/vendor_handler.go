package handler

import (
	"subsidy-ledger/internal/adapter/http/dto"
	"subsidy-ledger/internal/core/domain"
	"subsidy-ledger/internal/core/ports"
	"subsidy-ledger/pkg/apperror"
	"subsidy-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// VendorHandler handles vendor management endpoints.
type VendorHandler struct {
	vendorSvc ports.VendorService
}

// NewVendorHandler creates a new VendorHandler.
func NewVendorHandler(vendorSvc ports.VendorService) *VendorHandler {
	return &VendorHandler{vendorSvc: vendorSvc}
}

// Create handles POST /api/v1/vendors.
func (h *VendorHandler) Create(c *gin.Context) {
	var req dto.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	vendor, err := h.vendorSvc.Create(c.Request.Context(), req.Name, req.Category)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toVendorResponse(vendor))
}

// Get handles GET /api/v1/vendors/:id.
func (h *VendorHandler) Get(c *gin.Context) {
	detail, err := h.vendorSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.VendorDetailResponse{
		VendorResponse: toVendorResponse(&detail.Vendor),
		Balance:        toBalanceResponse(detail.Balance),
		Transactions:   toTransactionResponses(detail.Transactions),
	}
	response.OK(c, resp)
}

// List handles GET /api/v1/vendors.
func (h *VendorHandler) List(c *gin.Context) {
	vendors, err := h.vendorSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.VendorResponse, 0, len(vendors))
	for i := range vendors {
		items = append(items, toVendorResponse(&vendors[i]))
	}
	response.OK(c, items)
}

// toVendorResponse converts domain.Vendor to DTO. Wallet keys never leave
// the server.
func toVendorResponse(v *domain.Vendor) dto.VendorResponse {
	return dto.VendorResponse{
		ID:        v.ID,
		Name:      v.Name,
		Category:  v.Category,
		WalletID:  v.WalletID,
		CreatedAt: v.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
