package service

import (
	"context"
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

type vendorTestDeps struct {
	svc     *VendorServiceImpl
	store   *memory.VendorStore
	txStore *memory.TransactionStore
	wallet  *mocks.MockWalletService
	now     time.Time
}

func setupVendorService(t *testing.T) *vendorTestDeps {
	ctrl := gomock.NewController(t)
	d := &vendorTestDeps{
		store:   memory.NewVendorStore(),
		txStore: memory.NewTransactionStore(),
		wallet:  mocks.NewMockWalletService(ctrl),
		now:     time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local),
	}
	balanceSvc := NewBalanceService(d.wallet, d.txStore, nil, "admin-key", zerolog.Nop())
	d.svc = NewVendorService(d.store, d.txStore, d.wallet, balanceSvc, fixedClock{d.now}, zerolog.Nop())
	return d
}

func TestVendorService_Create(t *testing.T) {
	d := setupVendorService(t)
	ctx := context.Background()

	d.wallet.EXPECT().CreateAccount(gomock.Any(), "Vendor-Corner Shop").
		Return(&ports.WalletAccount{AdminKey: "acc-key"}, nil)
	d.wallet.EXPECT().CreateWallet(gomock.Any(), "acc-key", "Corner Shop-wallet").
		Return(&ports.WalletInfo{ID: "w1", AdminKey: "ak", InvoiceKey: "ik"}, nil)

	vendor, err := d.svc.Create(ctx, "Corner Shop", "food")
	require.NoError(t, err)
	assert.Regexp(t, "^V[0-9a-f]{8}$", vendor.ID)
	assert.Equal(t, "food", vendor.Category)

	stored, err := d.store.GetByID(ctx, vendor.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "ik", stored.InvoiceKey)
}

func TestVendorService_Create_RequiresNameAndCategory(t *testing.T) {
	d := setupVendorService(t)

	_, err := d.svc.Create(context.Background(), "", "food")
	assert.Error(t, err)

	_, err = d.svc.Create(context.Background(), "Corner Shop", "")
	assert.Error(t, err)
}

// Vendors may register with any category; the category gate applies at
// payment time, not registration time.
func TestVendorService_Create_UnapprovedCategoryAllowed(t *testing.T) {
	d := setupVendorService(t)

	d.wallet.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).
		Return(&ports.WalletAccount{AdminKey: "acc-key"}, nil)
	d.wallet.EXPECT().CreateWallet(gomock.Any(), "acc-key", gomock.Any()).
		Return(&ports.WalletInfo{ID: "w1"}, nil)

	vendor, err := d.svc.Create(context.Background(), "Gadget Hut", "electronics")
	require.NoError(t, err)
	assert.Equal(t, "electronics", vendor.Category)
}

func TestVendorService_Get_WithReceivedPayments(t *testing.T) {
	d := setupVendorService(t)
	ctx := context.Background()

	require.NoError(t, d.store.Create(ctx, &domain.Vendor{
		ID: "V1", Name: "Corner Shop", Category: "food", WalletID: "w1", AdminKey: "ak",
	}))
	seedTx(t, d.txStore, domain.Transaction{RecipientID: "R1", VendorID: "V1", Amount: 120,
		Date: d.now, Status: domain.TransactionStatusComplete, Type: domain.TransactionTypePayment})

	d.wallet.EXPECT().GetBalance(gomock.Any(), "ak").Return(int64(120), nil)

	detail, err := d.svc.Get(ctx, "V1")
	require.NoError(t, err)
	assert.Equal(t, int64(120), detail.Balance.Sats)
	assert.Len(t, detail.Transactions, 1)
}

func TestVendorService_Get_NotFound(t *testing.T) {
	d := setupVendorService(t)

	_, err := d.svc.Get(context.Background(), "Vmissing")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SUB_002", appErr.Code)
}

func TestVendorService_List(t *testing.T) {
	d := setupVendorService(t)
	ctx := context.Background()

	require.NoError(t, d.store.Create(ctx, &domain.Vendor{ID: "V1", Category: "food"}))
	require.NoError(t, d.store.Create(ctx, &domain.Vendor{ID: "V2", Category: "medicine"}))

	vendors, err := d.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, vendors, 2)
	assert.Equal(t, "V1", vendors[0].ID)
}
