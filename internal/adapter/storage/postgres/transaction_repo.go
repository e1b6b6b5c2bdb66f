package postgres

import (
	"context"
	"errors"
	"fmt"

	"subsidy-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository. Rows are
// append-only; UpdateStatus guards in SQL against touching settled entries.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, recipient_id, vendor_id, amount, date, status, type, payment_hash`

// Append inserts a new ledger entry.
func (r *TransactionRepo) Append(ctx context.Context, t *domain.Transaction) error {
	if t.Amount <= 0 {
		return fmt.Errorf("transaction amount must be positive, got %d", t.Amount)
	}

	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.RecipientID, t.VendorID, t.Amount,
		t.Date, t.Status, t.Type, t.PaymentHash,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by ID. Returns nil, nil when absent.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t := &domain.Transaction{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.RecipientID, &t.VendorID, &t.Amount,
		&t.Date, &t.Status, &t.Type, &t.PaymentHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction by id: %w", err)
	}
	return t, nil
}

// List returns the full ledger in insertion order.
func (r *TransactionRepo) List(ctx context.Context) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY date`
	return r.queryTransactions(ctx, query)
}

// ListByRecipient returns the recipient's entries in insertion order.
func (r *TransactionRepo) ListByRecipient(ctx context.Context, recipientID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE recipient_id = $1 ORDER BY date`
	return r.queryTransactions(ctx, query, recipientID)
}

// ListByVendor returns the vendor's entries in insertion order.
func (r *TransactionRepo) ListByVendor(ctx context.Context, vendorID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE vendor_id = $1 ORDER BY date`
	return r.queryTransactions(ctx, query, vendorID)
}

// UpdateStatus transitions a pending entry; settled entries are immutable.
func (r *TransactionRepo) UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus, paymentHash string) error {
	query := `UPDATE transactions
		SET status = $1, payment_hash = COALESCE(NULLIF($2, ''), payment_hash)
		WHERE id = $3 AND status = 'pending'`

	tag, err := r.pool.Exec(ctx, query, status, paymentHash, id)
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s not found or not pending", id)
	}
	return nil
}

func (r *TransactionRepo) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID, &t.RecipientID, &t.VendorID, &t.Amount,
			&t.Date, &t.Status, &t.Type, &t.PaymentHash,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
