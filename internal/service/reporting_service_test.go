package service

import (
	"context"
	"testing"
	"time"

	"subsidy-ledger/internal/adapter/storage/memory"
	"subsidy-ledger/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReportingLedger(t *testing.T, txStore *memory.TransactionStore, vendorStore *memory.VendorStore, now time.Time) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, vendorStore.Create(ctx, &domain.Vendor{ID: "V1", Name: "Corner Shop", Category: "food", CreatedAt: now}))
	require.NoError(t, vendorStore.Create(ctx, &domain.Vendor{ID: "V2", Name: "Pharmacy", Category: "medicine", CreatedAt: now}))

	seedTx(t, txStore, domain.Transaction{RecipientID: "R1", VendorID: domain.AdminParty, Amount: 1000,
		Date: now.Add(-2 * time.Hour), Status: domain.TransactionStatusComplete, Type: domain.TransactionTypeDeposit})
	seedTx(t, txStore, domain.Transaction{RecipientID: "R1", VendorID: "V1", Amount: 300,
		Date: now.Add(-time.Hour), Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})
	seedTx(t, txStore, domain.Transaction{RecipientID: "R1", VendorID: "V2", Amount: 150,
		Date: now.Add(-30 * time.Minute), Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})
	seedTx(t, txStore, domain.Transaction{RecipientID: "R1", VendorID: "V1", Amount: 50,
		Date: now.Add(-30 * time.Minute), Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})

	// Outside the day window.
	seedTx(t, txStore, domain.Transaction{RecipientID: "R1", VendorID: "V1", Amount: 999,
		Date: now.AddDate(0, 0, -3), Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})
	// Never counted: pending.
	seedTx(t, txStore, domain.Transaction{RecipientID: "R1", VendorID: "V1", Amount: 999,
		Date: now, Status: domain.TransactionStatusPending, Type: domain.TransactionTypePayment})
}

func TestReportingService_Summary_Day(t *testing.T) {
	txStore := memory.NewTransactionStore()
	vendorStore := memory.NewVendorStore()
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	seedReportingLedger(t, txStore, vendorStore, now)

	svc := NewReportingService(txStore, vendorStore, fixedClock{now}, zerolog.Nop())
	summary, err := svc.Summary(context.Background(), "day")
	require.NoError(t, err)

	assert.Equal(t, "day", summary.Period)
	assert.Equal(t, int64(1000), summary.TotalDeposited)
	assert.Equal(t, 1, summary.DepositCount)
	assert.Equal(t, int64(500), summary.TotalSpent)
	assert.Equal(t, 3, summary.PaymentCount)

	require.Len(t, summary.ReceivedByVendor, 2)
	assert.Equal(t, "V1", summary.ReceivedByVendor[0].VendorID)
	assert.Equal(t, "Corner Shop", summary.ReceivedByVendor[0].Name)
	assert.Equal(t, int64(350), summary.ReceivedByVendor[0].Total)
	assert.Equal(t, "V2", summary.ReceivedByVendor[1].VendorID)
	assert.Equal(t, int64(150), summary.ReceivedByVendor[1].Total)
}

func TestReportingService_Summary_AllIncludesOlderEntries(t *testing.T) {
	txStore := memory.NewTransactionStore()
	vendorStore := memory.NewVendorStore()
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	seedReportingLedger(t, txStore, vendorStore, now)

	svc := NewReportingService(txStore, vendorStore, fixedClock{now}, zerolog.Nop())
	summary, err := svc.Summary(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "all", summary.Period)
	assert.Equal(t, int64(1499), summary.TotalSpent)
	assert.Equal(t, 4, summary.PaymentCount)
}

func TestReportingService_Summary_InvalidPeriod(t *testing.T) {
	svc := NewReportingService(memory.NewTransactionStore(), memory.NewVendorStore(), fixedClock{time.Now()}, zerolog.Nop())

	_, err := svc.Summary(context.Background(), "fortnight")
	assert.Error(t, err)
}

func TestReportingService_Summary_EmptyLedger(t *testing.T) {
	svc := NewReportingService(memory.NewTransactionStore(), memory.NewVendorStore(), fixedClock{time.Now()}, zerolog.Nop())

	summary, err := svc.Summary(context.Background(), "week")
	require.NoError(t, err)
	assert.Zero(t, summary.TotalDeposited)
	assert.Zero(t, summary.TotalSpent)
	assert.Empty(t, summary.ReceivedByVendor)
}
