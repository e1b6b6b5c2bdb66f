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

// fixedClock pins Now() for deterministic day-boundary tests.
type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

func seedTx(t *testing.T, store *memory.TransactionStore, tx domain.Transaction) {
	t.Helper()
	if tx.ID == "" {
		tx.ID = domain.NewID(domain.TransactionIDPrefix)
	}
	require.NoError(t, store.Append(context.Background(), &tx))
}

func TestLedgerService_SpentToday_FiltersAndSums(t *testing.T) {
	store := memory.NewTransactionStore()
	now := time.Date(2025, 3, 15, 14, 0, 0, 0, time.Local)
	svc := NewLedgerService(store, fixedClock{now}, zerolog.Nop())
	ctx := context.Background()

	// Counted: completed payments today.
	seedTx(t, store, domain.Transaction{RecipientID: "R1", VendorID: "V1", Amount: 100,
		Date: now.Add(-2 * time.Hour), Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})
	seedTx(t, store, domain.Transaction{RecipientID: "R1", VendorID: "V2", Amount: 250,
		Date: now.Add(time.Hour), Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})

	// Not counted: pending, failed, deposits, other recipients, other days.
	seedTx(t, store, domain.Transaction{RecipientID: "R1", VendorID: "V1", Amount: 999,
		Date: now, Status: domain.TransactionStatusPending, Type: domain.TransactionTypePayment})
	seedTx(t, store, domain.Transaction{RecipientID: "R1", VendorID: "V1", Amount: 999,
		Date: now, Status: domain.TransactionStatusFailed, Type: domain.TransactionTypePayment})
	seedTx(t, store, domain.Transaction{RecipientID: "R1", VendorID: domain.AdminParty, Amount: 999,
		Date: now, Status: domain.TransactionStatusComplete, Type: domain.TransactionTypeDeposit})
	seedTx(t, store, domain.Transaction{RecipientID: "R2", VendorID: "V1", Amount: 999,
		Date: now, Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})
	seedTx(t, store, domain.Transaction{RecipientID: "R1", VendorID: "V1", Amount: 999,
		Date: now.AddDate(0, 0, -1), Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})

	total, err := svc.SpentToday(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, int64(350), total)
}

func TestLedgerService_SpentToday_DayBoundsInclusive(t *testing.T) {
	store := memory.NewTransactionStore()
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	svc := NewLedgerService(store, fixedClock{now}, zerolog.Nop())

	midnight := time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local)
	lastInstant := midnight.AddDate(0, 0, 1).Add(-time.Nanosecond)

	seedTx(t, store, domain.Transaction{RecipientID: "R1", VendorID: "V1", Amount: 10,
		Date: midnight, Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})
	seedTx(t, store, domain.Transaction{RecipientID: "R1", VendorID: "V1", Amount: 20,
		Date: lastInstant, Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})
	// Just outside either bound.
	seedTx(t, store, domain.Transaction{RecipientID: "R1", VendorID: "V1", Amount: 999,
		Date: midnight.Add(-time.Nanosecond), Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})
	seedTx(t, store, domain.Transaction{RecipientID: "R1", VendorID: "V1", Amount: 999,
		Date: midnight.AddDate(0, 0, 1), Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})

	total, err := svc.SpentToday(context.Background(), "R1")
	require.NoError(t, err)
	assert.Equal(t, int64(30), total)
}

func TestLedgerService_SpentToday_SkipsZeroDates(t *testing.T) {
	store := memory.NewTransactionStore()
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	svc := NewLedgerService(store, fixedClock{now}, zerolog.Nop())

	seedTx(t, store, domain.Transaction{RecipientID: "R1", VendorID: "V1", Amount: 40,
		Date: now, Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})
	seedTx(t, store, domain.Transaction{RecipientID: "R1", VendorID: "V1", Amount: 999,
		Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment}) // zero Date

	total, err := svc.SpentToday(context.Background(), "R1")
	require.NoError(t, err)
	assert.Equal(t, int64(40), total)
}

func TestLedgerService_SpentToday_EmptyLedger(t *testing.T) {
	store := memory.NewTransactionStore()
	svc := NewLedgerService(store, fixedClock{time.Now()}, zerolog.Nop())

	total, err := svc.SpentToday(context.Background(), "R1")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestLedgerService_ListTransactions_NewestFirst(t *testing.T) {
	store := memory.NewTransactionStore()
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	svc := NewLedgerService(store, fixedClock{now}, zerolog.Nop())

	// Appended out of order; the zero-date entry must sort last.
	seedTx(t, store, domain.Transaction{ID: "Tmiddle", RecipientID: "R1", VendorID: "V1", Amount: 1,
		Date: now.Add(-time.Hour), Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})
	seedTx(t, store, domain.Transaction{ID: "Tnodate", RecipientID: "R1", VendorID: "V1", Amount: 1,
		Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})
	seedTx(t, store, domain.Transaction{ID: "Tnewest", RecipientID: "R1", VendorID: "V1", Amount: 1,
		Date: now, Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})
	seedTx(t, store, domain.Transaction{ID: "Toldest", RecipientID: "R1", VendorID: "V1", Amount: 1,
		Date: now.Add(-2 * time.Hour), Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})

	entries, err := svc.ListTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "Tnewest", entries[0].ID)
	assert.Equal(t, "Tmiddle", entries[1].ID)
	assert.Equal(t, "Toldest", entries[2].ID)
	assert.Equal(t, "Tnodate", entries[3].ID)
}

func TestLedgerService_GetTransaction(t *testing.T) {
	store := memory.NewTransactionStore()
	svc := NewLedgerService(store, fixedClock{time.Now()}, zerolog.Nop())
	ctx := context.Background()

	seedTx(t, store, domain.Transaction{ID: "Tdeadbeef", RecipientID: "R1", VendorID: "V1", Amount: 5,
		Date: time.Now(), Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})

	txn, err := svc.GetTransaction(ctx, "Tdeadbeef")
	require.NoError(t, err)
	assert.Equal(t, int64(5), txn.Amount)

	_, err = svc.GetTransaction(ctx, "Tmissing")
	assert.Error(t, err)
}
