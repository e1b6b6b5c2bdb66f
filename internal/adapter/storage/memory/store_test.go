package memory

import (
	"context"
	"testing"
	"time"

	"subsidy-ledger/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipientStore_CreateGetList(t *testing.T) {
	store := NewRecipientStore()
	ctx := context.Background()

	r := &domain.Recipient{ID: "R1", Name: "Alice", DailyLimit: 500}
	require.NoError(t, store.Create(ctx, r))
	assert.Error(t, store.Create(ctx, r), "duplicate ID must be rejected")

	got, err := store.GetByID(ctx, "R1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alice", got.Name)

	// Absent is (nil, nil), not an error.
	got, err = store.GetByID(ctx, "Rmissing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Create(ctx, &domain.Recipient{ID: "R2"}))
	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "R1", list[0].ID, "insertion order preserved")
}

func TestRecipientStore_ReturnsCopies(t *testing.T) {
	store := NewRecipientStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &domain.Recipient{ID: "R1", Name: "Alice"}))

	got, _ := store.GetByID(ctx, "R1")
	got.Name = "Mallory"

	again, _ := store.GetByID(ctx, "R1")
	assert.Equal(t, "Alice", again.Name)
}

func TestTransactionStore_AppendRules(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	tx := &domain.Transaction{ID: "T1", RecipientID: "R1", VendorID: "V1", Amount: 100,
		Date: time.Now(), Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment}
	require.NoError(t, store.Append(ctx, tx))

	assert.Error(t, store.Append(ctx, tx), "duplicate ID must be rejected")
	assert.Error(t, store.Append(ctx, &domain.Transaction{ID: "T2", Amount: 0}))
	assert.Error(t, store.Append(ctx, &domain.Transaction{ID: "T3", Amount: -5}))
}

func TestTransactionStore_ListFilters(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, &domain.Transaction{ID: "T1", RecipientID: "R1", VendorID: "V1", Amount: 10}))
	require.NoError(t, store.Append(ctx, &domain.Transaction{ID: "T2", RecipientID: "R1", VendorID: "V2", Amount: 20}))
	require.NoError(t, store.Append(ctx, &domain.Transaction{ID: "T3", RecipientID: "R2", VendorID: "V1", Amount: 30}))

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byRecipient, err := store.ListByRecipient(ctx, "R1")
	require.NoError(t, err)
	assert.Len(t, byRecipient, 2)

	byVendor, err := store.ListByVendor(ctx, "V1")
	require.NoError(t, err)
	assert.Len(t, byVendor, 2)
}

func TestTransactionStore_UpdateStatus_PendingOnly(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, &domain.Transaction{ID: "T1", Amount: 10,
		Status: domain.TransactionStatusPending, Type: domain.TransactionTypePayment}))

	require.NoError(t, store.UpdateStatus(ctx, "T1", domain.TransactionStatusComplete, "hash"))

	got, err := store.GetByID(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusComplete, got.Status)
	assert.Equal(t, "hash", got.PaymentHash)

	// Settled entries are immutable.
	assert.Error(t, store.UpdateStatus(ctx, "T1", domain.TransactionStatusFailed, ""))
	assert.Error(t, store.UpdateStatus(ctx, "Tmissing", domain.TransactionStatusComplete, ""))
}

func TestTransactionStore_UpdateStatus_KeepsHashWhenEmpty(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, &domain.Transaction{ID: "T1", Amount: 10,
		Status: domain.TransactionStatusPending, Type: domain.TransactionTypePayment, PaymentHash: "orig"}))
	require.NoError(t, store.UpdateStatus(ctx, "T1", domain.TransactionStatusComplete, ""))

	got, _ := store.GetByID(ctx, "T1")
	assert.Equal(t, "orig", got.PaymentHash)
}

func TestAuditStore_AppendOrder(t *testing.T) {
	store := NewAuditStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &domain.AuditEntry{ID: "A1", Action: domain.AuditActionLogin}))
	require.NoError(t, store.Create(ctx, &domain.AuditEntry{ID: "A2", Action: domain.AuditActionRegisterVendor}))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "A1", entries[0].ID)
	assert.Equal(t, "A2", entries[1].ID)

	// List returns a snapshot.
	entries[0].ID = "mutated"
	again, _ := store.List(ctx)
	assert.Equal(t, "A1", again[0].ID)
}
