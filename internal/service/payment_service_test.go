package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"subsidy-ledger/internal/adapter/storage/memory"
	"subsidy-ledger/internal/core/domain"
	"subsidy-ledger/internal/core/ports"
	"subsidy-ledger/internal/core/ports/mocks"
	"subsidy-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type paymentTestDeps struct {
	svc        *PaymentServiceImpl
	recipients *memory.RecipientStore
	vendors    *memory.VendorStore
	txStore    *memory.TransactionStore
	wallet     *mocks.MockWalletService
	ctrl       *gomock.Controller
	now        time.Time
}

func setupPaymentService(t *testing.T) *paymentTestDeps {
	ctrl := gomock.NewController(t)
	d := &paymentTestDeps{
		recipients: memory.NewRecipientStore(),
		vendors:    memory.NewVendorStore(),
		txStore:    memory.NewTransactionStore(),
		wallet:     mocks.NewMockWalletService(ctrl),
		ctrl:       ctrl,
		now:        time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local),
	}
	clock := fixedClock{d.now}
	ledgerSvc := NewLedgerService(d.txStore, clock, zerolog.Nop())
	balanceSvc := NewBalanceService(d.wallet, d.txStore, nil, "admin-key", zerolog.Nop())
	validator := NewValidationService(d.recipients, d.vendors, ledgerSvc, balanceSvc,
		[]string{"food", "medicine"}, zerolog.Nop())
	d.svc = NewPaymentService(d.recipients, d.vendors, d.txStore, d.wallet,
		validator, balanceSvc, clock, "admin-key", zerolog.Nop())
	return d
}

func (d *paymentTestDeps) seedParties(t *testing.T) {
	t.Helper()
	require.NoError(t, d.recipients.Create(context.Background(), &domain.Recipient{
		ID: "R1", Name: "Alice", WalletID: "w-r1", AdminKey: "ak-r1",
		InvoiceKey: "ik-r1", DailyLimit: 500, CreatedAt: d.now,
	}))
	require.NoError(t, d.vendors.Create(context.Background(), &domain.Vendor{
		ID: "V1", Name: "Corner Shop", Category: "food", WalletID: "w-v1",
		AdminKey: "ak-v1", InvoiceKey: "ik-v1", CreatedAt: d.now,
	}))
}

// ==================== PayVendor ====================

func TestPaymentService_PayVendor_Success(t *testing.T) {
	d := setupPaymentService(t)
	d.seedParties(t)
	ctx := context.Background()

	d.wallet.EXPECT().GetBalance(gomock.Any(), "ak-r1").Return(int64(1000), nil)
	d.wallet.EXPECT().CreateInvoice(gomock.Any(), "ik-v1", int64(100), "Payment from Alice").
		Return(&ports.Invoice{PaymentRequest: "lnbc100...", PaymentHash: "hash1"}, nil)
	d.wallet.EXPECT().PayInvoice(gomock.Any(), "ak-r1", "lnbc100...").
		Return(&ports.Payment{PaymentHash: "hash1"}, nil)

	txn, err := d.svc.PayVendor(ctx, ports.PayVendorRequest{RecipientID: "R1", VendorID: "V1", Amount: 100})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusComplete, txn.Status)
	assert.Equal(t, domain.TransactionTypePayment, txn.Type)
	assert.Equal(t, "hash1", txn.PaymentHash)
	assert.Equal(t, d.now, txn.Date)

	entries, err := d.txStore.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, txn.ID, entries[0].ID)
}

func TestPaymentService_PayVendor_RejectionRecordsNothing(t *testing.T) {
	d := setupPaymentService(t)
	d.seedParties(t)
	ctx := context.Background()

	// Over the daily limit: no wallet calls, no ledger entry.
	_, err := d.svc.PayVendor(ctx, ports.PayVendorRequest{RecipientID: "R1", VendorID: "V1", Amount: 600})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SUB_004", appErr.Code)

	entries, _ := d.txStore.List(ctx)
	assert.Empty(t, entries)
}

func TestPaymentService_PayVendor_SettlementFailureRecordsNothing(t *testing.T) {
	d := setupPaymentService(t)
	d.seedParties(t)
	ctx := context.Background()

	d.wallet.EXPECT().GetBalance(gomock.Any(), "ak-r1").Return(int64(1000), nil)
	d.wallet.EXPECT().CreateInvoice(gomock.Any(), "ik-v1", int64(100), gomock.Any()).
		Return(&ports.Invoice{PaymentRequest: "lnbc100..."}, nil)
	d.wallet.EXPECT().PayInvoice(gomock.Any(), "ak-r1", "lnbc100...").
		Return(nil, errors.New("route not found"))

	_, err := d.svc.PayVendor(ctx, ports.PayVendorRequest{RecipientID: "R1", VendorID: "V1", Amount: 100})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "EXT_001", appErr.Code)

	entries, _ := d.txStore.List(ctx)
	assert.Empty(t, entries)
}

// ==================== FundRecipient ====================

func TestPaymentService_FundRecipient_Success(t *testing.T) {
	d := setupPaymentService(t)
	d.seedParties(t)
	ctx := context.Background()

	d.wallet.EXPECT().GetBalance(gomock.Any(), "admin-key").Return(int64(5000), nil)
	d.wallet.EXPECT().CreateInvoice(gomock.Any(), "ik-r1", int64(1000), "Subsidy funding for Alice").
		Return(&ports.Invoice{PaymentRequest: "lnbc1000...", PaymentHash: "hash2"}, nil)
	d.wallet.EXPECT().PayInvoice(gomock.Any(), "admin-key", "lnbc1000...").
		Return(&ports.Payment{PaymentHash: "hash2"}, nil)

	txn, err := d.svc.FundRecipient(ctx, "R1", 1000)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeDeposit, txn.Type)
	assert.Equal(t, domain.TransactionStatusComplete, txn.Status)
	assert.Equal(t, domain.AdminParty, txn.VendorID)
}

func TestPaymentService_FundRecipient_AdminBalanceTooLow(t *testing.T) {
	d := setupPaymentService(t)
	d.seedParties(t)

	d.wallet.EXPECT().GetBalance(gomock.Any(), "admin-key").Return(int64(500), nil)

	_, err := d.svc.FundRecipient(context.Background(), "R1", 1000)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SUB_006", appErr.Code)

	entries, _ := d.txStore.List(context.Background())
	assert.Empty(t, entries)
}

func TestPaymentService_FundRecipient_UnknownRecipient(t *testing.T) {
	d := setupPaymentService(t)

	_, err := d.svc.FundRecipient(context.Background(), "Rmissing", 1000)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SUB_001", appErr.Code)
}

// ==================== Vendor invoices ====================

func TestPaymentService_GenerateVendorInvoice_PendingEntry(t *testing.T) {
	d := setupPaymentService(t)
	d.seedParties(t)
	ctx := context.Background()

	d.wallet.EXPECT().GetBalance(gomock.Any(), "ak-r1").Return(int64(1000), nil)
	d.wallet.EXPECT().CreateInvoice(gomock.Any(), "ik-v1", int64(200), "Payment from recipient R1").
		Return(&ports.Invoice{PaymentRequest: "lnbc200...", PaymentHash: "hash3"}, nil)

	result, err := d.svc.GenerateVendorInvoice(ctx, ports.PayVendorRequest{RecipientID: "R1", VendorID: "V1", Amount: 200})
	require.NoError(t, err)
	assert.Equal(t, "lnbc200...", result.Invoice.PaymentRequest)
	assert.Equal(t, domain.TransactionStatusPending, result.Transaction.Status)
	assert.Equal(t, "hash3", result.Transaction.PaymentHash)

	// Pending entries do not count against the daily limit yet.
	entries, _ := d.txStore.List(ctx)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsSettledPayment())
}

func TestPaymentService_SettleInvoice(t *testing.T) {
	d := setupPaymentService(t)
	d.seedParties(t)
	ctx := context.Background()

	d.wallet.EXPECT().GetBalance(gomock.Any(), "ak-r1").Return(int64(1000), nil)
	d.wallet.EXPECT().CreateInvoice(gomock.Any(), "ik-v1", int64(200), gomock.Any()).
		Return(&ports.Invoice{PaymentRequest: "lnbc200...", PaymentHash: "hash3"}, nil)

	result, err := d.svc.GenerateVendorInvoice(ctx, ports.PayVendorRequest{RecipientID: "R1", VendorID: "V1", Amount: 200})
	require.NoError(t, err)

	txn, err := d.svc.SettleInvoice(ctx, result.Transaction.ID, "hash3-settled")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusComplete, txn.Status)
	assert.Equal(t, "hash3-settled", txn.PaymentHash)

	// Settling twice fails: the entry is no longer pending.
	_, err = d.svc.SettleInvoice(ctx, result.Transaction.ID, "")
	require.Error(t, err)

	// Unknown transaction.
	_, err = d.svc.SettleInvoice(ctx, "Tmissing", "")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SUB_003", appErr.Code)
}

// ==================== RecordSettlement ====================

func TestPaymentService_RecordSettlement(t *testing.T) {
	d := setupPaymentService(t)
	ctx := context.Background()

	txn, err := d.svc.RecordSettlement(ctx, ports.SettlementRecord{
		RecipientID: "R1", VendorID: "V1", Amount: 75,
		PaymentHash: "exthash", Date: "2025-03-15 09:30:00",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusComplete, txn.Status)
	assert.Equal(t, time.Date(2025, 3, 15, 9, 30, 0, 0, time.Local), txn.Date)
}

func TestPaymentService_RecordSettlement_UnparseableDateStoredAsZero(t *testing.T) {
	d := setupPaymentService(t)

	txn, err := d.svc.RecordSettlement(context.Background(), ports.SettlementRecord{
		RecipientID: "R1", VendorID: "V1", Amount: 75, Date: "yesterday-ish",
	})
	require.NoError(t, err)
	assert.True(t, txn.Date.IsZero())
}

// ==================== Concurrency ====================

func TestPaymentService_ConcurrentPaymentsCannotJointlyExceedLimit(t *testing.T) {
	d := setupPaymentService(t)
	d.seedParties(t)
	ctx := context.Background()

	// Both goroutines attempt 300 sats against a 500 sat limit; only one
	// may settle. The wallet accepts anything it is asked.
	d.wallet.EXPECT().GetBalance(gomock.Any(), "ak-r1").Return(int64(10000), nil).AnyTimes()
	d.wallet.EXPECT().CreateInvoice(gomock.Any(), "ik-v1", int64(300), gomock.Any()).
		Return(&ports.Invoice{PaymentRequest: "lnbc300...", PaymentHash: "h"}, nil).AnyTimes()
	d.wallet.EXPECT().PayInvoice(gomock.Any(), "ak-r1", "lnbc300...").
		Return(&ports.Payment{PaymentHash: "h"}, nil).AnyTimes()

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := d.svc.PayVendor(ctx, ports.PayVendorRequest{RecipientID: "R1", VendorID: "V1", Amount: 300})
			errs <- err
		}()
	}

	var failures int
	for i := 0; i < 2; i++ {
		if <-errs != nil {
			failures++
		}
	}
	assert.Equal(t, 1, failures)

	entries, err := d.txStore.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
