package service

import (
	"context"
	"fmt"
	"slices"

	"subsidy-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// ValidationServiceImpl implements ports.ValidationService: the ordered
// policy checks deciding whether a recipient may pay a vendor. It is a pure
// decision function — it never appends to the ledger; recording is the
// orchestrator's job after settlement.
type ValidationServiceImpl struct {
	recipientRepo ports.RecipientRepository
	vendorRepo    ports.VendorRepository
	ledgerSvc     ports.LedgerService
	balanceSvc    ports.BalanceService
	categories    []string
	log           zerolog.Logger
}

// NewValidationService creates a new ValidationServiceImpl.
// allowedCategories is the fixed set of vendor categories the program funds.
func NewValidationService(
	recipientRepo ports.RecipientRepository,
	vendorRepo ports.VendorRepository,
	ledgerSvc ports.LedgerService,
	balanceSvc ports.BalanceService,
	allowedCategories []string,
	log zerolog.Logger,
) *ValidationServiceImpl {
	return &ValidationServiceImpl{
		recipientRepo: recipientRepo,
		vendorRepo:    vendorRepo,
		ledgerSvc:     ledgerSvc,
		balanceSvc:    balanceSvc,
		categories:    allowedCategories,
		log:           log,
	}
}

func reject(reason string) ports.ValidationResult {
	return ports.ValidationResult{Valid: false, Reason: reason}
}

// Validate runs the policy checks in order, short-circuiting on the first
// failure. The order is user-facing contract: unknown vendor is reported
// before unknown recipient, category before limits, limits before balance.
func (s *ValidationServiceImpl) Validate(ctx context.Context, recipientID, vendorID string, amount int64) ports.ValidationResult {
	s.log.Debug().
		Str("recipient_id", recipientID).
		Str("vendor_id", vendorID).
		Int64("amount", amount).
		Msg("validating payment")

	if amount <= 0 {
		return reject("Amount must be a positive number of satoshis")
	}

	// 1. Vendor whitelist
	vendor, err := s.vendorRepo.GetByID(ctx, vendorID)
	if err != nil {
		return reject(fmt.Sprintf("Error checking vendor: %v", err))
	}
	if vendor == nil {
		return reject("Vendor not approved for subsidy program")
	}

	// 2. Recipient existence
	recipient, err := s.recipientRepo.GetByID(ctx, recipientID)
	if err != nil {
		return reject(fmt.Sprintf("Error checking recipient: %v", err))
	}
	if recipient == nil {
		return reject("Recipient not found")
	}

	// 3. Vendor category
	if !slices.Contains(s.categories, vendor.Category) {
		return reject(fmt.Sprintf("Category '%s' is not approved for subsidy", vendor.Category))
	}

	// 4. Daily spending limit. Equality at the limit passes.
	spentToday, err := s.ledgerSvc.SpentToday(ctx, recipientID)
	if err != nil {
		return reject(fmt.Sprintf("Error checking daily limit: %v", err))
	}
	if spentToday+amount > recipient.DailyLimit {
		return reject(fmt.Sprintf(
			"Daily spending limit exceeded (limit: %d sats, already spent: %d sats)",
			recipient.DailyLimit, spentToday,
		))
	}

	// 5. Available balance
	balance, err := s.balanceSvc.ForRecipient(ctx, recipient)
	if err != nil {
		return reject(fmt.Sprintf("Error checking wallet balance: %v", err))
	}
	if balance.Sats < amount {
		return reject(fmt.Sprintf(
			"Insufficient balance (balance: %d sats, required: %d sats)",
			balance.Sats, amount,
		))
	}

	return ports.ValidationResult{Valid: true, Reason: "Transaction validated successfully"}
}
