package ports

import (
	"context"

	"subsidy-ledger/internal/core/domain"
)

// RecipientRepository defines persistence operations for recipients.
// Recipients are never deleted.
type RecipientRepository interface {
	Create(ctx context.Context, recipient *domain.Recipient) error
	// GetByID returns nil, nil when the recipient does not exist.
	GetByID(ctx context.Context, id string) (*domain.Recipient, error)
	List(ctx context.Context) ([]domain.Recipient, error)
}

// VendorRepository defines persistence operations for vendors.
type VendorRepository interface {
	Create(ctx context.Context, vendor *domain.Vendor) error
	// GetByID returns nil, nil when the vendor does not exist.
	GetByID(ctx context.Context, id string) (*domain.Vendor, error)
	List(ctx context.Context) ([]domain.Vendor, error)
}

// AuditRepository persists administrative audit entries. Append-only.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
}

// TransactionRepository defines persistence for the append-only ledger.
// Entries are never removed; UpdateStatus only transitions pending entries.
type TransactionRepository interface {
	Append(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]domain.Transaction, error)
	ListByVendor(ctx context.Context, vendorID string) ([]domain.Transaction, error)
	UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus, paymentHash string) error
}
