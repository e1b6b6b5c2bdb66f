package dto

// LoginRequest is the request body for admin login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// CreateRecipientRequest is the request body for recipient registration.
type CreateRecipientRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=100"`
	DailyLimit int64  `json:"daily_limit" binding:"omitempty,gt=0"` // Satoshis; 0 = program default
}

// CreateVendorRequest is the request body for vendor registration.
type CreateVendorRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Category string `json:"category" binding:"required,min=1,max=50"`
}

// PaymentRequest is the request body for a recipient-to-vendor payment,
// a dry-run validation, or a vendor invoice.
type PaymentRequest struct {
	RecipientID string `json:"recipient_id" binding:"required,safe_id"`
	VendorID    string `json:"vendor_id" binding:"required,safe_id"`
	Amount      int64  `json:"amount" binding:"required,gt=0"` // Satoshis
}

// FundRequest is the request body for funding a recipient wallet.
type FundRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"` // Satoshis
}

// RecordSettlementRequest is the request body for recording an externally
// settled payment. Date is optional; RFC3339 or "2006-01-02 15:04:05".
type RecordSettlementRequest struct {
	RecipientID string `json:"recipient_id" binding:"required,safe_id"`
	VendorID    string `json:"vendor_id" binding:"required,safe_id"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	PaymentHash string `json:"payment_hash,omitempty"`
	Date        string `json:"date,omitempty"`
}

// BalanceResponse is a resolved balance with its source tag.
type BalanceResponse struct {
	Sats   int64  `json:"sats"`
	Source string `json:"source"` // live | derived
}

// RecipientResponse is the public view of a recipient.
type RecipientResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	WalletID   string `json:"wallet_id"`
	DailyLimit int64  `json:"daily_limit"`
	CreatedAt  string `json:"created_at"`
}

// RecipientDetailResponse is a recipient with balance and history.
type RecipientDetailResponse struct {
	RecipientResponse
	Balance      BalanceResponse       `json:"balance"`
	Transactions []TransactionResponse `json:"transactions"`
}

// RecipientSummaryResponse is a recipient with its resolved balance.
type RecipientSummaryResponse struct {
	RecipientResponse
	Balance BalanceResponse `json:"balance"`
}

// VendorResponse is the public view of a vendor.
type VendorResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	WalletID  string `json:"wallet_id"`
	CreatedAt string `json:"created_at"`
}

// VendorDetailResponse is a vendor with balance and received payments.
type VendorDetailResponse struct {
	VendorResponse
	Balance      BalanceResponse       `json:"balance"`
	Transactions []TransactionResponse `json:"transactions"`
}

// TransactionResponse is the public view of a ledger entry.
type TransactionResponse struct {
	ID          string `json:"id"`
	RecipientID string `json:"recipient_id"`
	VendorID    string `json:"vendor_id"`
	Amount      int64  `json:"amount"`
	Date        string `json:"date"`
	Status      string `json:"status"`
	Type        string `json:"type"`
	PaymentHash string `json:"payment_hash,omitempty"`
}

// ValidationResponse is the accept/reject decision for a proposed payment.
type ValidationResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}

// InvoiceResponse is a created vendor invoice plus its pending ledger entry.
type InvoiceResponse struct {
	PaymentRequest string              `json:"payment_request"`
	PaymentHash    string              `json:"payment_hash"`
	Amount         int64               `json:"amount"`
	Memo           string              `json:"memo"`
	Transaction    TransactionResponse `json:"transaction"`
}
