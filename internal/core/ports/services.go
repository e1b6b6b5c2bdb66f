package ports

import (
	"context"
	"time"

	"subsidy-ledger/internal/core/domain"
)

// WalletAccount is an account created on the external wallet service.
type WalletAccount struct {
	ID       string
	Name     string
	AdminKey string
}

// WalletInfo describes a wallet issued by the external service. Both keys
// are opaque bearer secrets: AdminKey spends, InvoiceKey receives.
type WalletInfo struct {
	ID         string
	Name       string
	AdminKey   string
	InvoiceKey string
}

// Invoice is a payment request created against a receive-capable key.
type Invoice struct {
	PaymentRequest string // BOLT11 string
	PaymentHash    string
	CheckingID     string
	Amount         int64 // Satoshis
	Memo           string
}

// Payment is the result of settling an invoice.
type Payment struct {
	PaymentHash string
	CheckingID  string
	Fee         int64
}

// WalletService is the external wallet/ledger collaborator. Every method is
// fallible and never retried by callers; GetBalance failures trigger the
// derived-balance fallback.
type WalletService interface {
	CreateAccount(ctx context.Context, name string) (*WalletAccount, error)
	CreateWallet(ctx context.Context, accountKey, name string) (*WalletInfo, error)
	// GetBalance returns the wallet balance in whole satoshis.
	GetBalance(ctx context.Context, walletKey string) (int64, error)
	CreateInvoice(ctx context.Context, walletKey string, amountSats int64, memo string) (*Invoice, error)
	PayInvoice(ctx context.Context, walletAdminKey, paymentRequest string) (*Payment, error)
}

// BalanceCache stores last-known live balances keyed by wallet ID.
// Implementations are best-effort; a nil cache disables caching.
type BalanceCache interface {
	// Get returns the cached balance and true, or false on a miss.
	Get(ctx context.Context, walletID string) (int64, bool, error)
	Set(ctx context.Context, walletID string, sats int64, ttl time.Duration) error
}

// Clock supplies the current time. Injected so the day-boundary computation
// in the spending calculator is deterministic under test.
type Clock interface {
	Now() time.Time
}

// TokenService handles admin session JWT operations.
type TokenService interface {
	Generate(username string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Username string
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// EncryptionService handles AES-256-GCM encryption/decryption. Used to seal
// LNbits wallet keys before they reach a store.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// AuditService records administrative actions. Logging is fire-and-forget;
// a failed audit write never fails the audited request.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditEntry)
}

// --- Service Ports (Business Logic) ---

// ValidationResult is the accept/reject decision for a proposed payment.
// Policy rejections are data, not errors: the reason is user-facing.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}

// ValidationService decides whether a recipient-to-vendor payment is
// allowed. Pure decision function: it never appends to the ledger.
type ValidationService interface {
	Validate(ctx context.Context, recipientID, vendorID string, amount int64) ValidationResult
}

// LedgerService answers aggregate questions over the transaction ledger.
type LedgerService interface {
	// SpentToday sums the recipient's completed payments dated within the
	// current local calendar day, bounds inclusive.
	SpentToday(ctx context.Context, recipientID string) (int64, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
}

// BalanceService resolves wallet balances, preferring the live wallet
// service and falling back to ledger-derived values.
type BalanceService interface {
	ForRecipient(ctx context.Context, r *domain.Recipient) (domain.Balance, error)
	ForVendor(ctx context.Context, v *domain.Vendor) (domain.Balance, error)
	// AdminBalance is live-only; the admin wallet has no ledger fallback.
	AdminBalance(ctx context.Context) (int64, error)
}

// PaymentService orchestrates invoice creation, settlement, and ledger
// recording. Validate-then-record sequences are serialized per recipient.
type PaymentService interface {
	PayVendor(ctx context.Context, req PayVendorRequest) (*domain.Transaction, error)
	FundRecipient(ctx context.Context, recipientID string, amount int64) (*domain.Transaction, error)
	GenerateVendorInvoice(ctx context.Context, req PayVendorRequest) (*VendorInvoice, error)
	SettleInvoice(ctx context.Context, transactionID, paymentHash string) (*domain.Transaction, error)
	RecordSettlement(ctx context.Context, req SettlementRecord) (*domain.Transaction, error)
}

// PayVendorRequest holds validated input for a recipient-to-vendor payment.
type PayVendorRequest struct {
	RecipientID string
	VendorID    string
	Amount      int64
}

// VendorInvoice pairs a created invoice with its pending ledger entry.
type VendorInvoice struct {
	Invoice     *Invoice
	Transaction *domain.Transaction
}

// SettlementRecord holds input for recording an externally settled payment.
type SettlementRecord struct {
	RecipientID string
	VendorID    string
	Amount      int64
	PaymentHash string
	Date        string // Optional; RFC3339 or "2006-01-02 15:04:05"
}

// RecipientService provisions and reads recipients.
type RecipientService interface {
	Create(ctx context.Context, name string, dailyLimit int64) (*domain.Recipient, error)
	Get(ctx context.Context, id string) (*RecipientDetail, error)
	List(ctx context.Context) ([]RecipientSummary, error)
}

// RecipientDetail is a recipient with its resolved balance and history.
type RecipientDetail struct {
	Recipient    domain.Recipient
	Balance      domain.Balance
	Transactions []domain.Transaction
}

// RecipientSummary is a recipient with its resolved balance.
type RecipientSummary struct {
	Recipient domain.Recipient
	Balance   domain.Balance
}

// VendorService provisions and reads vendors.
type VendorService interface {
	Create(ctx context.Context, name, category string) (*domain.Vendor, error)
	Get(ctx context.Context, id string) (*VendorDetail, error)
	List(ctx context.Context) ([]domain.Vendor, error)
}

// VendorDetail is a vendor with its resolved balance and received payments.
type VendorDetail struct {
	Vendor       domain.Vendor
	Balance      domain.Balance
	Transactions []domain.Transaction
}

// AuthService authenticates the program administrator.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// ReportingService aggregates program-level figures from the ledger.
type ReportingService interface {
	// Summary reports totals for "day", "week", "month", or "all" ("" = all).
	Summary(ctx context.Context, period string) (*ProgramSummary, error)
}

// ProgramSummary holds aggregate disbursement and spending figures.
type ProgramSummary struct {
	Period           string        `json:"period"`
	TotalDeposited   int64         `json:"total_deposited"`
	TotalSpent       int64         `json:"total_spent"`
	PaymentCount     int           `json:"payment_count"`
	DepositCount     int           `json:"deposit_count"`
	ReceivedByVendor []VendorTotal `json:"received_by_vendor"`
}

// VendorTotal is the settled amount a vendor received in the period.
type VendorTotal struct {
	VendorID string `json:"vendor_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Total    int64  `json:"total"`
}
