package service

import (
	"context"
	"fmt"
	"time"

	"subsidy-ledger/internal/core/domain"
	"subsidy-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// balanceCacheTTL bounds how stale a cached live reading may get.
const balanceCacheTTL = 30 * time.Second

// BalanceServiceImpl implements ports.BalanceService. The live wallet
// service is the primary source; any failure there degrades to the cached
// last-known reading, then to a balance derived from ledger history.
// Live and derived values may drift; that is accepted, not reconciled.
type BalanceServiceImpl struct {
	walletSvc   ports.WalletService
	txRepo      ports.TransactionRepository
	cache       ports.BalanceCache // nil disables caching
	adminKey    string
	log         zerolog.Logger
}

// NewBalanceService creates a new BalanceServiceImpl. cache may be nil.
func NewBalanceService(
	walletSvc ports.WalletService,
	txRepo ports.TransactionRepository,
	cache ports.BalanceCache,
	adminKey string,
	log zerolog.Logger,
) *BalanceServiceImpl {
	return &BalanceServiceImpl{
		walletSvc: walletSvc,
		txRepo:    txRepo,
		cache:     cache,
		adminKey:  adminKey,
		log:       log,
	}
}

// ForRecipient resolves a recipient's spendable balance.
// Derived fallback: sum(complete deposits) - sum(complete payments).
func (s *BalanceServiceImpl) ForRecipient(ctx context.Context, r *domain.Recipient) (domain.Balance, error) {
	if bal, ok := s.live(ctx, r.WalletID, r.AdminKey); ok {
		return bal, nil
	}

	entries, err := s.txRepo.ListByRecipient(ctx, r.ID)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("deriving balance for %s: %w", r.ID, err)
	}
	var deposits, payments int64
	for _, tx := range entries {
		switch {
		case tx.IsSettledDeposit():
			deposits += tx.Amount
		case tx.IsSettledPayment():
			payments += tx.Amount
		}
	}
	return domain.DerivedBalance(deposits - payments), nil
}

// ForVendor resolves a vendor's received balance.
// Derived fallback: sum(complete payments received).
func (s *BalanceServiceImpl) ForVendor(ctx context.Context, v *domain.Vendor) (domain.Balance, error) {
	if bal, ok := s.live(ctx, v.WalletID, v.AdminKey); ok {
		return bal, nil
	}

	entries, err := s.txRepo.ListByVendor(ctx, v.ID)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("deriving balance for %s: %w", v.ID, err)
	}
	var received int64
	for _, tx := range entries {
		if tx.IsSettledPayment() {
			received += tx.Amount
		}
	}
	return domain.DerivedBalance(received), nil
}

// AdminBalance queries the program funding wallet. Live-only: the admin
// wallet is funded outside the ledger, so there is nothing to derive from.
func (s *BalanceServiceImpl) AdminBalance(ctx context.Context) (int64, error) {
	sats, err := s.walletSvc.GetBalance(ctx, s.adminKey)
	if err != nil {
		return 0, fmt.Errorf("admin wallet balance: %w", err)
	}
	return sats, nil
}

// live attempts the primary path: wallet service, then cached last-known
// reading. Both report as live-sourced; only the ledger fallback is derived.
func (s *BalanceServiceImpl) live(ctx context.Context, walletID, walletKey string) (domain.Balance, bool) {
	sats, err := s.walletSvc.GetBalance(ctx, walletKey)
	if err == nil {
		if s.cache != nil {
			if cerr := s.cache.Set(ctx, walletID, sats, balanceCacheTTL); cerr != nil {
				s.log.Debug().Err(cerr).Str("wallet_id", walletID).Msg("balance cache write failed")
			}
		}
		return domain.LiveBalance(sats), true
	}

	s.log.Warn().Err(err).Str("wallet_id", walletID).Msg("live balance unavailable")

	if s.cache != nil {
		if sats, ok, cerr := s.cache.Get(ctx, walletID); cerr == nil && ok {
			return domain.LiveBalance(sats), true
		}
	}
	return domain.Balance{}, false
}
