// Package sealed wraps recipient and vendor repositories so LNbits wallet
// keys are encrypted before they reach the underlying store. AdminKey spends
// and InvoiceKey receives; neither may sit in plaintext at rest.
package sealed

import (
	"context"
	"fmt"

	"subsidy-ledger/internal/core/domain"
	"subsidy-ledger/internal/core/ports"
)

// RecipientRepo decorates a ports.RecipientRepository with at-rest key
// encryption. Callers see plaintext keys; the inner store never does.
type RecipientRepo struct {
	inner ports.RecipientRepository
	enc   ports.EncryptionService
}

// NewRecipientRepo wraps inner with key encryption.
func NewRecipientRepo(inner ports.RecipientRepository, enc ports.EncryptionService) *RecipientRepo {
	return &RecipientRepo{inner: inner, enc: enc}
}

func (r *RecipientRepo) Create(ctx context.Context, recipient *domain.Recipient) error {
	cp := *recipient
	var err error
	if cp.AdminKey, err = r.enc.Encrypt(recipient.AdminKey); err != nil {
		return fmt.Errorf("sealing recipient admin key: %w", err)
	}
	if cp.InvoiceKey, err = r.enc.Encrypt(recipient.InvoiceKey); err != nil {
		return fmt.Errorf("sealing recipient invoice key: %w", err)
	}
	return r.inner.Create(ctx, &cp)
}

func (r *RecipientRepo) GetByID(ctx context.Context, id string) (*domain.Recipient, error) {
	recipient, err := r.inner.GetByID(ctx, id)
	if err != nil || recipient == nil {
		return recipient, err
	}
	if err := r.unseal(recipient); err != nil {
		return nil, err
	}
	return recipient, nil
}

func (r *RecipientRepo) List(ctx context.Context) ([]domain.Recipient, error) {
	recipients, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range recipients {
		if err := r.unseal(&recipients[i]); err != nil {
			return nil, err
		}
	}
	return recipients, nil
}

func (r *RecipientRepo) unseal(recipient *domain.Recipient) error {
	var err error
	if recipient.AdminKey, err = r.enc.Decrypt(recipient.AdminKey); err != nil {
		return fmt.Errorf("unsealing recipient %s admin key: %w", recipient.ID, err)
	}
	if recipient.InvoiceKey, err = r.enc.Decrypt(recipient.InvoiceKey); err != nil {
		return fmt.Errorf("unsealing recipient %s invoice key: %w", recipient.ID, err)
	}
	return nil
}

// VendorRepo decorates a ports.VendorRepository with at-rest key encryption.
type VendorRepo struct {
	inner ports.VendorRepository
	enc   ports.EncryptionService
}

// NewVendorRepo wraps inner with key encryption.
func NewVendorRepo(inner ports.VendorRepository, enc ports.EncryptionService) *VendorRepo {
	return &VendorRepo{inner: inner, enc: enc}
}

func (r *VendorRepo) Create(ctx context.Context, vendor *domain.Vendor) error {
	cp := *vendor
	var err error
	if cp.AdminKey, err = r.enc.Encrypt(vendor.AdminKey); err != nil {
		return fmt.Errorf("sealing vendor admin key: %w", err)
	}
	if cp.InvoiceKey, err = r.enc.Encrypt(vendor.InvoiceKey); err != nil {
		return fmt.Errorf("sealing vendor invoice key: %w", err)
	}
	return r.inner.Create(ctx, &cp)
}

func (r *VendorRepo) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	vendor, err := r.inner.GetByID(ctx, id)
	if err != nil || vendor == nil {
		return vendor, err
	}
	if err := r.unseal(vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (r *VendorRepo) List(ctx context.Context) ([]domain.Vendor, error) {
	vendors, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range vendors {
		if err := r.unseal(&vendors[i]); err != nil {
			return nil, err
		}
	}
	return vendors, nil
}

func (r *VendorRepo) unseal(vendor *domain.Vendor) error {
	var err error
	if vendor.AdminKey, err = r.enc.Decrypt(vendor.AdminKey); err != nil {
		return fmt.Errorf("unsealing vendor %s admin key: %w", vendor.ID, err)
	}
	if vendor.InvoiceKey, err = r.enc.Decrypt(vendor.InvoiceKey); err != nil {
		return fmt.Errorf("unsealing vendor %s invoice key: %w", vendor.ID, err)
	}
	return nil
}
