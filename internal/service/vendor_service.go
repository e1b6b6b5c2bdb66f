package service

import (
	"context"
	"fmt"

	"subsidy-ledger/internal/core/domain"
	"subsidy-ledger/internal/core/ports"
	"subsidy-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// VendorServiceImpl implements ports.VendorService. Vendors may register
// under any category; the category gate is enforced at payment time, so a
// later policy change does not strand existing registrations.
type VendorServiceImpl struct {
	vendorRepo ports.VendorRepository
	txRepo     ports.TransactionRepository
	walletSvc  ports.WalletService
	balanceSvc ports.BalanceService
	clock      ports.Clock
	log        zerolog.Logger
}

// NewVendorService creates a new VendorServiceImpl.
func NewVendorService(
	vendorRepo ports.VendorRepository,
	txRepo ports.TransactionRepository,
	walletSvc ports.WalletService,
	balanceSvc ports.BalanceService,
	clock ports.Clock,
	log zerolog.Logger,
) *VendorServiceImpl {
	return &VendorServiceImpl{
		vendorRepo: vendorRepo,
		txRepo:     txRepo,
		walletSvc:  walletSvc,
		balanceSvc: balanceSvc,
		clock:      clock,
		log:        log,
	}
}

// Create provisions a wallet and registers the vendor.
func (s *VendorServiceImpl) Create(ctx context.Context, name, category string) (*domain.Vendor, error) {
	if name == "" || category == "" {
		return nil, apperror.Validation("Vendor name and category are required")
	}

	account, err := s.walletSvc.CreateAccount(ctx, "Vendor-"+name)
	if err != nil {
		return nil, apperror.ErrWalletService(fmt.Errorf("create account: %w", err))
	}
	wallet, err := s.walletSvc.CreateWallet(ctx, account.AdminKey, name+"-wallet")
	if err != nil {
		return nil, apperror.ErrWalletService(fmt.Errorf("create wallet: %w", err))
	}

	vendor := &domain.Vendor{
		ID:         domain.NewID(domain.VendorIDPrefix),
		Name:       name,
		Category:   category,
		WalletID:   wallet.ID,
		AdminKey:   wallet.AdminKey,
		InvoiceKey: wallet.InvoiceKey,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("store vendor: %w", err))
	}

	s.log.Info().
		Str("vendor_id", vendor.ID).
		Str("category", category).
		Msg("vendor registered")

	return vendor, nil
}

// Get returns the vendor with its resolved balance and received payments.
func (s *VendorServiceImpl) Get(ctx context.Context, id string) (*ports.VendorDetail, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if vendor == nil {
		return nil, apperror.ErrVendorNotFound()
	}

	balance, err := s.balanceSvc.ForVendor(ctx, vendor)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	history, err := s.txRepo.ListByVendor(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	return &ports.VendorDetail{
		Vendor:       *vendor,
		Balance:      balance,
		Transactions: history,
	}, nil
}

// List returns all registered vendors.
func (s *VendorServiceImpl) List(ctx context.Context) ([]domain.Vendor, error) {
	vendors, err := s.vendorRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return vendors, nil
}
