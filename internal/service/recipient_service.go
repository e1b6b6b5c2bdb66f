package service

import (
	"context"
	"fmt"

	"subsidy-ledger/internal/core/domain"
	"subsidy-ledger/internal/core/ports"
	"subsidy-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// RecipientServiceImpl implements ports.RecipientService. Creating a
// recipient provisions an account and wallet on the external service; the
// wallet keys are the only way the program can later move funds.
type RecipientServiceImpl struct {
	recipientRepo ports.RecipientRepository
	txRepo        ports.TransactionRepository
	walletSvc     ports.WalletService
	balanceSvc    ports.BalanceService
	clock         ports.Clock
	defaultLimit  int64
	log           zerolog.Logger
}

// NewRecipientService creates a new RecipientServiceImpl.
func NewRecipientService(
	recipientRepo ports.RecipientRepository,
	txRepo ports.TransactionRepository,
	walletSvc ports.WalletService,
	balanceSvc ports.BalanceService,
	clock ports.Clock,
	defaultDailyLimit int64,
	log zerolog.Logger,
) *RecipientServiceImpl {
	return &RecipientServiceImpl{
		recipientRepo: recipientRepo,
		txRepo:        txRepo,
		walletSvc:     walletSvc,
		balanceSvc:    balanceSvc,
		clock:         clock,
		defaultLimit:  defaultDailyLimit,
		log:           log,
	}
}

// Create provisions a wallet and registers the recipient. A zero dailyLimit
// takes the program default.
func (s *RecipientServiceImpl) Create(ctx context.Context, name string, dailyLimit int64) (*domain.Recipient, error) {
	if dailyLimit == 0 {
		dailyLimit = s.defaultLimit
	}
	if dailyLimit < 0 {
		return nil, apperror.Validation("Daily limit must be positive")
	}

	account, err := s.walletSvc.CreateAccount(ctx, "Subsidy-"+name)
	if err != nil {
		return nil, apperror.ErrWalletService(fmt.Errorf("create account: %w", err))
	}
	wallet, err := s.walletSvc.CreateWallet(ctx, account.AdminKey, name+"-wallet")
	if err != nil {
		return nil, apperror.ErrWalletService(fmt.Errorf("create wallet: %w", err))
	}

	recipient := &domain.Recipient{
		ID:         domain.NewID(domain.RecipientIDPrefix),
		Name:       name,
		WalletID:   wallet.ID,
		AdminKey:   wallet.AdminKey,
		InvoiceKey: wallet.InvoiceKey,
		DailyLimit: dailyLimit,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.recipientRepo.Create(ctx, recipient); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("store recipient: %w", err))
	}

	s.log.Info().
		Str("recipient_id", recipient.ID).
		Str("wallet_id", wallet.ID).
		Int64("daily_limit", dailyLimit).
		Msg("recipient registered")

	return recipient, nil
}

// Get returns the recipient with its resolved balance and ledger history.
func (s *RecipientServiceImpl) Get(ctx context.Context, id string) (*ports.RecipientDetail, error) {
	recipient, err := s.recipientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if recipient == nil {
		return nil, apperror.ErrRecipientNotFound()
	}

	balance, err := s.balanceSvc.ForRecipient(ctx, recipient)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	history, err := s.txRepo.ListByRecipient(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	return &ports.RecipientDetail{
		Recipient:    *recipient,
		Balance:      balance,
		Transactions: history,
	}, nil
}

// List returns all recipients with resolved balances.
func (s *RecipientServiceImpl) List(ctx context.Context) ([]ports.RecipientSummary, error) {
	recipients, err := s.recipientRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	out := make([]ports.RecipientSummary, 0, len(recipients))
	for i := range recipients {
		balance, err := s.balanceSvc.ForRecipient(ctx, &recipients[i])
		if err != nil {
			return nil, apperror.InternalError(err)
		}
		out = append(out, ports.RecipientSummary{Recipient: recipients[i], Balance: balance})
	}
	return out, nil
}
