package service

import (
	"context"
	"testing"

	"tiro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminUpdateUserFlags(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	u := store.addUser("flagged", 0)
	svc := NewAdminService(store)

	verified := true
	banned := true
	updated, err := svc.UpdateUserFlags(ctx, u.ID, UserFlags{Verified: &verified, Banned: &banned})
	require.NoError(t, err)
	assert.True(t, updated.IsVerified)
	assert.True(t, updated.IsBanned)

	// Nil flags leave the current values alone.
	unban := false
	updated, err = svc.UpdateUserFlags(ctx, u.ID, UserFlags{Banned: &unban})
	require.NoError(t, err)
	assert.True(t, updated.IsVerified)
	assert.False(t, updated.IsBanned)
}

func TestAdminStats(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	cipher := testCipher()
	seller := store.addUser("seller", 25_00)
	buyer := store.addUser("buyer", 75_00)
	listProduct(t, store, cipher, seller.ID, "Twitter account", 10_00)

	require.NoError(t, store.Transactions().Create(ctx, &models.Transaction{
		UserID: seller.ID, Type: models.TransactionSale,
		AmountCents: 10_00, Status: models.StatusCompleted, Reference: "r1",
	}))
	require.NoError(t, store.Transactions().Create(ctx, &models.Transaction{
		UserID: buyer.ID, Type: models.TransactionDeposit,
		AmountCents: 50_00, Status: models.StatusPending, Reference: "r2",
	}))
	require.NoError(t, store.Transactions().Create(ctx, &models.Transaction{
		UserID: seller.ID, Type: models.TransactionWithdraw,
		AmountCents: 5_00, Status: models.StatusPending, Reference: "r3",
	}))

	stats, err := NewAdminService(store).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 1, stats.CompletedSales)
	assert.Equal(t, int64(10_00), stats.SalesVolumeCents)
	assert.Equal(t, 1, stats.PendingDeposits)
	assert.Equal(t, 1, stats.PendingWithdrawals)
	assert.Equal(t, int64(100_00), stats.HeldInBalancesCents)
}
