package service

import (
	"context"
	"testing"
	"time"

	"tiro/internal/domain"
	"tiro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromotionPurchase(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	store := newMemStore()
	cipher := testCipher()
	seller := store.addUser("seller", 30_00)
	other := store.addUser("other", 30_00)
	product := listProduct(t, store, cipher, seller.ID, "TikTok account", 10_00)

	svc := NewPromotionService(store)
	svc.now = func() time.Time { return start }

	promo, err := svc.Purchase(ctx, seller.ID, product.ID, domain.PromotionTierTop3, start.Add(7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(25_00), promo.PriceCents)
	assert.True(t, promo.IsActive)
	assert.Equal(t, int64(5_00), store.users[seller.ID].BalanceCents)

	var entry *models.Transaction
	for _, tr := range store.transactions {
		if tr.Type == models.TransactionPromotion {
			entry = tr
		}
	}
	require.NotNil(t, entry)
	assert.Equal(t, models.StatusCompleted, entry.Status)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	t.Run("only the owner can promote", func(t *testing.T) {
		_, err := svc.Purchase(ctx, other.ID, product.ID, domain.PromotionTierTop10, start.Add(24*time.Hour))
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, int64(30_00), store.users[other.ID].BalanceCents)
	})

	t.Run("unknown tier", func(t *testing.T) {
		_, err := svc.Purchase(ctx, seller.ID, product.ID, "top_1", start.Add(24*time.Hour))
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("end date in the past", func(t *testing.T) {
		_, err := svc.Purchase(ctx, seller.ID, product.ID, domain.PromotionTierTop10, start.Add(-time.Hour))
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("insufficient balance", func(t *testing.T) {
		_, err := svc.Purchase(ctx, seller.ID, product.ID, domain.PromotionTierTop10, start.Add(24*time.Hour))
		assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
		assert.Equal(t, int64(5_00), store.users[seller.ID].BalanceCents)
	})
}
