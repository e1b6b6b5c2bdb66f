package postgres

import (
	"context"
	"errors"
	"fmt"

	"subsidy-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// VendorRepo implements ports.VendorRepository.
type VendorRepo struct {
	pool Pool
}

// NewVendorRepo creates a new VendorRepo.
func NewVendorRepo(pool Pool) *VendorRepo {
	return &VendorRepo{pool: pool}
}

// Create inserts a new vendor.
func (r *VendorRepo) Create(ctx context.Context, v *domain.Vendor) error {
	query := `INSERT INTO vendors (id, name, category, wallet_id, admin_key, invoice_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		v.ID, v.Name, v.Category, v.WalletID,
		v.AdminKey, v.InvoiceKey, v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// GetByID fetches a vendor by ID. Returns nil, nil when absent.
func (r *VendorRepo) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	query := `SELECT id, name, category, wallet_id, admin_key, invoice_key, created_at
		FROM vendors WHERE id = $1`

	v := &domain.Vendor{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Name, &v.Category, &v.WalletID,
		&v.AdminKey, &v.InvoiceKey, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor by id: %w", err)
	}
	return v, nil
}

// List returns all vendors in registration order.
func (r *VendorRepo) List(ctx context.Context) ([]domain.Vendor, error) {
	query := `SELECT id, name, category, wallet_id, admin_key, invoice_key, created_at
		FROM vendors ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var out []domain.Vendor
	for rows.Next() {
		var v domain.Vendor
		if err := rows.Scan(
			&v.ID, &v.Name, &v.Category, &v.WalletID,
			&v.AdminKey, &v.InvoiceKey, &v.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
