package domain

import (
	"time"
)

// AdminParty is the sentinel counterparty ID used on ledger entries that
// involve the program's admin wallet rather than a registered recipient
// or vendor (e.g. the vendor side of a funding deposit).
const AdminParty = "admin"

// TransactionType represents the kind of money movement.
type TransactionType string

const (
	TransactionTypeDeposit TransactionType = "deposit"
	TransactionTypePayment TransactionType = "payment"
)

// TransactionStatus represents the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusComplete TransactionStatus = "complete"
	TransactionStatusFailed   TransactionStatus = "failed"
)

// Transaction is an append-only ledger entry. Entries are never removed;
// only the status of a pending entry may transition.
type Transaction struct {
	ID          string            `json:"id"`
	RecipientID string            `json:"recipient_id"`
	VendorID    string            `json:"vendor_id"`
	Amount      int64             `json:"amount"` // Whole satoshis, always > 0
	Date        time.Time         `json:"date"`
	Status      TransactionStatus `json:"status"`
	Type        TransactionType   `json:"type"`
	PaymentHash string            `json:"payment_hash,omitempty"`
}

// IsSettledPayment returns true for completed outgoing payments, the only
// entries that count against a recipient's daily limit.
func (t *Transaction) IsSettledPayment() bool {
	return t.Type == TransactionTypePayment && t.Status == TransactionStatusComplete
}

// IsSettledDeposit returns true for completed funding deposits.
func (t *Transaction) IsSettledDeposit() bool {
	return t.Type == TransactionTypeDeposit && t.Status == TransactionStatusComplete
}

// transactionTimeLayouts are the accepted wire formats for externally
// supplied transaction dates, tried in order.
var transactionTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseTransactionTime parses a timestamp supplied by an external caller.
// Returns the zero time and false when no known layout matches; callers
// record such entries with a zero date, which the spending calculator
// skips rather than failing the whole computation.
func ParseTransactionTime(s string) (time.Time, bool) {
	for _, layout := range transactionTimeLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
