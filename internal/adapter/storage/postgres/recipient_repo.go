package postgres

import (
	"context"
	"errors"
	"fmt"

	"subsidy-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// RecipientRepo implements ports.RecipientRepository.
type RecipientRepo struct {
	pool Pool
}

// NewRecipientRepo creates a new RecipientRepo.
func NewRecipientRepo(pool Pool) *RecipientRepo {
	return &RecipientRepo{pool: pool}
}

// Create inserts a new recipient.
func (r *RecipientRepo) Create(ctx context.Context, rec *domain.Recipient) error {
	query := `INSERT INTO recipients (id, name, wallet_id, admin_key, invoice_key, daily_limit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.Name, rec.WalletID, rec.AdminKey,
		rec.InvoiceKey, rec.DailyLimit, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert recipient: %w", err)
	}
	return nil
}

// GetByID fetches a recipient by ID. Returns nil, nil when absent.
func (r *RecipientRepo) GetByID(ctx context.Context, id string) (*domain.Recipient, error) {
	query := `SELECT id, name, wallet_id, admin_key, invoice_key, daily_limit, created_at
		FROM recipients WHERE id = $1`

	rec := &domain.Recipient{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.Name, &rec.WalletID, &rec.AdminKey,
		&rec.InvoiceKey, &rec.DailyLimit, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipient by id: %w", err)
	}
	return rec, nil
}

// List returns all recipients in registration order.
func (r *RecipientRepo) List(ctx context.Context) ([]domain.Recipient, error) {
	query := `SELECT id, name, wallet_id, admin_key, invoice_key, daily_limit, created_at
		FROM recipients ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	defer rows.Close()

	var out []domain.Recipient
	for rows.Next() {
		var rec domain.Recipient
		if err := rows.Scan(
			&rec.ID, &rec.Name, &rec.WalletID, &rec.AdminKey,
			&rec.InvoiceKey, &rec.DailyLimit, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
