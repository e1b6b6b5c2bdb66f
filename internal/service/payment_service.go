package service

import (
	"context"
	"fmt"
	"sync"

	"subsidy-ledger/internal/core/domain"
	"subsidy-ledger/internal/core/ports"
	"subsidy-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// PaymentServiceImpl implements ports.PaymentService: invoice creation,
// settlement through the wallet service, and ledger recording.
//
// Validate-then-append is serialized per recipient: without the keyed lock
// two concurrent payments could each pass the daily-limit and balance
// checks before either is recorded, together overdrawing the recipient.
type PaymentServiceImpl struct {
	recipientRepo ports.RecipientRepository
	vendorRepo    ports.VendorRepository
	txRepo        ports.TransactionRepository
	walletSvc     ports.WalletService
	validator     ports.ValidationService
	balanceSvc    ports.BalanceService
	clock         ports.Clock
	adminKey      string
	log           zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	recipientRepo ports.RecipientRepository,
	vendorRepo ports.VendorRepository,
	txRepo ports.TransactionRepository,
	walletSvc ports.WalletService,
	validator ports.ValidationService,
	balanceSvc ports.BalanceService,
	clock ports.Clock,
	adminKey string,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		recipientRepo: recipientRepo,
		vendorRepo:    vendorRepo,
		txRepo:        txRepo,
		walletSvc:     walletSvc,
		validator:     validator,
		balanceSvc:    balanceSvc,
		clock:         clock,
		adminKey:      adminKey,
		log:           log,
		locks:         make(map[string]*sync.Mutex),
	}
}

// recipientLock returns the mutex serializing operations for one recipient.
func (s *PaymentServiceImpl) recipientLock(recipientID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[recipientID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[recipientID] = l
	}
	return l
}

// PayVendor validates and settles a recipient-to-vendor payment, then
// appends the completed ledger entry. On invoice or settlement failure
// nothing is recorded; an invoice created but never paid is abandoned.
func (s *PaymentServiceImpl) PayVendor(ctx context.Context, req ports.PayVendorRequest) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	lock := s.recipientLock(req.RecipientID)
	lock.Lock()
	defer lock.Unlock()

	result := s.validator.Validate(ctx, req.RecipientID, req.VendorID, req.Amount)
	if !result.Valid {
		return nil, apperror.ErrPaymentRejected(result.Reason)
	}

	recipient, err := s.recipientRepo.GetByID(ctx, req.RecipientID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load recipient: %w", err))
	}
	vendor, err := s.vendorRepo.GetByID(ctx, req.VendorID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load vendor: %w", err))
	}

	invoice, err := s.walletSvc.CreateInvoice(ctx, vendor.InvoiceKey, req.Amount,
		fmt.Sprintf("Payment from %s", recipient.Name))
	if err != nil {
		return nil, apperror.ErrWalletService(fmt.Errorf("vendor invoice: %w", err))
	}

	payment, err := s.walletSvc.PayInvoice(ctx, recipient.AdminKey, invoice.PaymentRequest)
	if err != nil {
		return nil, apperror.ErrWalletService(fmt.Errorf("pay vendor invoice: %w", err))
	}

	txn := &domain.Transaction{
		ID:          domain.NewID(domain.TransactionIDPrefix),
		RecipientID: req.RecipientID,
		VendorID:    req.VendorID,
		Amount:      req.Amount,
		Date:        s.clock.Now(),
		Status:      domain.TransactionStatusComplete,
		Type:        domain.TransactionTypePayment,
		PaymentHash: payment.PaymentHash,
	}
	if err := s.txRepo.Append(ctx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record payment: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID).
		Str("recipient_id", req.RecipientID).
		Str("vendor_id", req.VendorID).
		Int64("amount", req.Amount).
		Msg("payment settled")

	return txn, nil
}

// FundRecipient moves amount sats from the program admin wallet into the
// recipient's wallet and records the completed deposit.
func (s *PaymentServiceImpl) FundRecipient(ctx context.Context, recipientID string, amount int64) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	recipient, err := s.recipientRepo.GetByID(ctx, recipientID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load recipient: %w", err))
	}
	if recipient == nil {
		return nil, apperror.ErrRecipientNotFound()
	}

	adminBalance, err := s.balanceSvc.AdminBalance(ctx)
	if err != nil {
		return nil, apperror.ErrWalletService(fmt.Errorf("admin balance: %w", err))
	}
	if adminBalance < amount {
		return nil, apperror.ErrAdminBalanceTooLow(adminBalance, amount)
	}

	invoice, err := s.walletSvc.CreateInvoice(ctx, recipient.InvoiceKey, amount,
		fmt.Sprintf("Subsidy funding for %s", recipient.Name))
	if err != nil {
		return nil, apperror.ErrWalletService(fmt.Errorf("funding invoice: %w", err))
	}

	payment, err := s.walletSvc.PayInvoice(ctx, s.adminKey, invoice.PaymentRequest)
	if err != nil {
		return nil, apperror.ErrWalletService(fmt.Errorf("pay funding invoice: %w", err))
	}

	txn := &domain.Transaction{
		ID:          domain.NewID(domain.TransactionIDPrefix),
		RecipientID: recipientID,
		VendorID:    domain.AdminParty,
		Amount:      amount,
		Date:        s.clock.Now(),
		Status:      domain.TransactionStatusComplete,
		Type:        domain.TransactionTypeDeposit,
		PaymentHash: payment.PaymentHash,
	}
	if err := s.txRepo.Append(ctx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record deposit: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID).
		Str("recipient_id", recipientID).
		Int64("amount", amount).
		Msg("recipient funded")

	return txn, nil
}

// GenerateVendorInvoice validates the payment, creates an invoice on the
// vendor's wallet, and records a pending ledger entry carrying the invoice
// hash. Settlement happens out of band; the entry stays pending until then.
func (s *PaymentServiceImpl) GenerateVendorInvoice(ctx context.Context, req ports.PayVendorRequest) (*ports.VendorInvoice, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	result := s.validator.Validate(ctx, req.RecipientID, req.VendorID, req.Amount)
	if !result.Valid {
		return nil, apperror.ErrPaymentRejected(result.Reason)
	}

	vendor, err := s.vendorRepo.GetByID(ctx, req.VendorID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load vendor: %w", err))
	}

	invoice, err := s.walletSvc.CreateInvoice(ctx, vendor.InvoiceKey, req.Amount,
		fmt.Sprintf("Payment from recipient %s", req.RecipientID))
	if err != nil {
		return nil, apperror.ErrWalletService(fmt.Errorf("vendor invoice: %w", err))
	}

	txn := &domain.Transaction{
		ID:          domain.NewID(domain.TransactionIDPrefix),
		RecipientID: req.RecipientID,
		VendorID:    req.VendorID,
		Amount:      req.Amount,
		Date:        s.clock.Now(),
		Status:      domain.TransactionStatusPending,
		Type:        domain.TransactionTypePayment,
		PaymentHash: invoice.PaymentHash,
	}
	if err := s.txRepo.Append(ctx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record pending payment: %w", err))
	}

	return &ports.VendorInvoice{Invoice: invoice, Transaction: txn}, nil
}

// SettleInvoice marks a pending vendor invoice as complete once its payment
// was observed out of band. Only pending entries transition; settling an
// already-complete or unknown transaction fails.
func (s *PaymentServiceImpl) SettleInvoice(ctx context.Context, transactionID, paymentHash string) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrTransactionNotFound()
	}
	if txn.Status != domain.TransactionStatusPending {
		return nil, apperror.ErrPaymentRejected(
			fmt.Sprintf("Transaction %s is not pending (status: %s)", transactionID, txn.Status))
	}

	if err := s.txRepo.UpdateStatus(ctx, transactionID, domain.TransactionStatusComplete, paymentHash); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("settle invoice: %w", err))
	}

	txn, err = s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("reload transaction: %w", err))
	}

	s.log.Info().
		Str("tx_id", transactionID).
		Str("payment_hash", paymentHash).
		Msg("pending invoice settled")

	return txn, nil
}

// RecordSettlement appends a completed payment settled by an external
// integration. The supplied date is parsed leniently; an unparseable date
// is stored as zero rather than rejecting the record.
func (s *PaymentServiceImpl) RecordSettlement(ctx context.Context, req ports.SettlementRecord) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	date := s.clock.Now()
	if req.Date != "" {
		parsed, ok := domain.ParseTransactionTime(req.Date)
		if !ok {
			s.log.Warn().Str("date", req.Date).Msg("unparseable settlement date, storing zero time")
		}
		date = parsed
	}

	txn := &domain.Transaction{
		ID:          domain.NewID(domain.TransactionIDPrefix),
		RecipientID: req.RecipientID,
		VendorID:    req.VendorID,
		Amount:      req.Amount,
		Date:        date,
		Status:      domain.TransactionStatusComplete,
		Type:        domain.TransactionTypePayment,
		PaymentHash: req.PaymentHash,
	}
	if err := s.txRepo.Append(ctx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("record settlement: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID).
		Str("recipient_id", req.RecipientID).
		Str("vendor_id", req.VendorID).
		Msg("external settlement recorded")

	return txn, nil
}
