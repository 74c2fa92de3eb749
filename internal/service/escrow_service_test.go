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

type escrowFixture struct {
	store   *memStore
	buyer   *models.User
	seller  *models.User
	product *models.Product
	chat    *models.Chat
	entry   *models.Transaction
	escrow  *EscrowService
	clock   *time.Time
}

// setupEscrow seeds one completed purchase: buyer with $100, a $40 product,
// the escrow chat open. The clock is shared between the purchase and escrow
// services so tests can move time forward.
func setupEscrow(t *testing.T) *escrowFixture {
	t.Helper()
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	store := newMemStore()
	cipher := testCipher()
	buyer := store.addUser("buyer", 100_00)
	seller := store.addUser("seller", 0)
	product := listProduct(t, store, cipher, seller.ID, "Instagram account", 40_00)

	purchases := NewPurchaseService(store, cipher, newTestLogger())
	purchases.now = func() time.Time { return clock }
	result, err := purchases.Purchase(context.Background(), buyer.ID, product.ID)
	require.NoError(t, err)

	escrow := NewEscrowService(store, newTestLogger())
	escrow.now = func() time.Time { return clock }

	return &escrowFixture{
		store:   store,
		buyer:   buyer,
		seller:  seller,
		product: product,
		chat:    result.Chat,
		entry:   result.Transaction,
		escrow:  escrow,
		clock:   &clock,
	}
}

func (f *escrowFixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func TestBuyerCloseSchedulesPayout(t *testing.T) {
	ctx := context.Background()
	f := setupEscrow(t)
	closedAt := *f.clock

	chat, err := f.escrow.CloseChat(ctx, f.chat.ID, f.buyer.ID, domain.ClosedByBuyer)
	require.NoError(t, err)
	assert.Equal(t, models.ChatSettledSeller, chat.Status)
	assert.Equal(t, domain.ClosedByBuyer, chat.ClosedBy)
	require.NotNil(t, chat.PaymentScheduledAt)
	assert.Equal(t, closedAt.Add(domain.SettleDelay), *chat.PaymentScheduledAt)

	// Payout is scheduled, not executed: the seller has nothing yet.
	assert.Equal(t, int64(0), f.store.users[f.seller.ID].BalanceCents)

	released, err := f.escrow.ReleaseScheduledPayments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, released, "payment must not release before the delay elapses")

	f.advance(domain.SettleDelay)
	released, err = f.escrow.ReleaseScheduledPayments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	assert.Equal(t, int64(40_00), f.store.users[f.seller.ID].BalanceCents)
	assert.Equal(t, int64(40_00), f.store.users[f.seller.ID].TotalEarningsCents)
	assert.Equal(t, models.StatusCompleted, f.store.transactions[f.entry.ID].Status)

	var sale *models.Transaction
	for _, tr := range f.store.transactions {
		if tr.Type == models.TransactionSale {
			sale = tr
		}
	}
	require.NotNil(t, sale, "seller-side sale entry must be written on payout")
	assert.Equal(t, f.seller.ID, sale.UserID)
	assert.Equal(t, int64(40_00), sale.AmountCents)
	assert.Equal(t, models.StatusCompleted, sale.Status)

	// A second sweep finds nothing; the payout happened at most once.
	released, err = f.escrow.ReleaseScheduledPayments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, released)
	assert.Equal(t, int64(40_00), f.store.users[f.seller.ID].BalanceCents)

	// Money is conserved across the whole lifecycle.
	total := f.store.users[f.buyer.ID].BalanceCents + f.store.users[f.seller.ID].BalanceCents
	assert.Equal(t, int64(100_00), total)
}

func TestSellerCloseRefundsBuyer(t *testing.T) {
	ctx := context.Background()
	f := setupEscrow(t)

	// The refund pays back what was escrowed at purchase time, even if the
	// listing was repriced since.
	f.store.products[f.product.ID].PriceCents = 99_99

	chat, err := f.escrow.CloseChat(ctx, f.chat.ID, f.seller.ID, domain.ClosedBySeller)
	require.NoError(t, err)
	assert.Equal(t, models.ChatRefundedBuyer, chat.Status)
	assert.Equal(t, domain.ClosedBySeller, chat.ClosedBy)
	assert.Nil(t, chat.PaymentScheduledAt)

	assert.Equal(t, int64(100_00), f.store.users[f.buyer.ID].BalanceCents)
	assert.Equal(t, int64(0), f.store.users[f.seller.ID].BalanceCents)
	assert.Equal(t, models.StatusFailed, f.store.transactions[f.entry.ID].Status)
	assert.Equal(t, 0, f.store.products[f.product.ID].Sales)
}

func TestCloseAuthorization(t *testing.T) {
	ctx := context.Background()
	f := setupEscrow(t)
	outsider := f.store.addUser("outsider", 0)

	_, err := f.escrow.CloseChat(ctx, f.chat.ID, outsider.ID, domain.ClosedByBuyer)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// A participant cannot close wearing the other side's role.
	_, err = f.escrow.CloseChat(ctx, f.chat.ID, f.seller.ID, domain.ClosedByBuyer)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.escrow.CloseChat(ctx, f.chat.ID, f.buyer.ID, domain.ClosedBySeller)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.escrow.CloseChat(ctx, f.chat.ID, f.buyer.ID, "arbiter")
	assert.True(t, domain.IsValidation(err))

	assert.Equal(t, models.ChatActive, f.store.chats[f.chat.ID].Status)
}

func TestTerminalStatusAbsorbs(t *testing.T) {
	ctx := context.Background()
	f := setupEscrow(t)

	_, err := f.escrow.CloseChat(ctx, f.chat.ID, f.buyer.ID, domain.ClosedByBuyer)
	require.NoError(t, err)

	_, err = f.escrow.CloseChat(ctx, f.chat.ID, f.seller.ID, domain.ClosedBySeller)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.escrow.CloseChat(ctx, f.chat.ID, f.buyer.ID, domain.ClosedByBuyer)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.escrow.ResolveChat(ctx, f.chat.ID, domain.ResolutionBuyer)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// The losing close must not have moved any money.
	assert.Equal(t, int64(60_00), f.store.users[f.buyer.ID].BalanceCents)
	assert.Equal(t, models.ChatSettledSeller, f.store.chats[f.chat.ID].Status)
}

func TestResolveRequiresReview(t *testing.T) {
	ctx := context.Background()
	f := setupEscrow(t)

	_, err := f.escrow.ResolveChat(ctx, f.chat.ID, domain.ResolutionSeller)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, models.ChatActive, f.store.chats[f.chat.ID].Status)
}

func TestExpirySweep(t *testing.T) {
	ctx := context.Background()
	f := setupEscrow(t)

	flagged, err := f.escrow.ExpireChats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, flagged)

	f.advance(domain.ChatWindow)
	flagged, err = f.escrow.ExpireChats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, flagged)
	assert.Equal(t, models.ChatUnderReview, f.store.chats[f.chat.ID].Status)

	msgs := f.store.chatMessages(f.chat.ID)
	require.NotEmpty(t, msgs)
	last := msgs[len(msgs)-1]
	assert.Equal(t, models.SenderSystem, last.SenderType)
	assert.Contains(t, last.Body, "expired")

	// The sweep is idempotent.
	flagged, err = f.escrow.ExpireChats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, flagged)

	// Participants can keep talking while the dispute is under review.
	_, err = f.escrow.SendMessage(ctx, f.chat.ID, f.buyer.ID, "still waiting on the login")
	assert.NoError(t, err)
}

func TestAdminResolution(t *testing.T) {
	ctx := context.Background()

	t.Run("for the seller", func(t *testing.T) {
		f := setupEscrow(t)
		f.advance(domain.ChatWindow)
		_, err := f.escrow.ExpireChats(ctx)
		require.NoError(t, err)

		chat, err := f.escrow.ResolveChat(ctx, f.chat.ID, domain.ResolutionSeller)
		require.NoError(t, err)
		assert.Equal(t, models.ChatResolvedSeller, chat.Status)
		assert.Equal(t, domain.ClosedByAdmin, chat.ClosedBy)
		require.NotNil(t, chat.PaymentScheduledAt)

		f.advance(domain.SettleDelay)
		released, err := f.escrow.ReleaseScheduledPayments(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, released)
		assert.Equal(t, int64(40_00), f.store.users[f.seller.ID].BalanceCents)
	})

	t.Run("for the buyer", func(t *testing.T) {
		f := setupEscrow(t)
		f.advance(domain.ChatWindow)
		_, err := f.escrow.ExpireChats(ctx)
		require.NoError(t, err)

		chat, err := f.escrow.ResolveChat(ctx, f.chat.ID, domain.ResolutionBuyer)
		require.NoError(t, err)
		assert.Equal(t, models.ChatResolvedBuyer, chat.Status)
		assert.Equal(t, int64(100_00), f.store.users[f.buyer.ID].BalanceCents)
		assert.Equal(t, models.StatusFailed, f.store.transactions[f.entry.ID].Status)
	})
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()
	f := setupEscrow(t)
	outsider := f.store.addUser("outsider", 0)

	msg, err := f.escrow.SendMessage(ctx, f.chat.ID, f.buyer.ID, "is the recovery email included?")
	require.NoError(t, err)
	assert.Equal(t, models.SenderUser, msg.SenderType)
	require.NotNil(t, msg.SenderID)
	assert.Equal(t, f.buyer.ID, *msg.SenderID)

	_, err = f.escrow.SendMessage(ctx, f.chat.ID, outsider.ID, "hello")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.escrow.SendMessage(ctx, f.chat.ID, f.buyer.ID, "")
	assert.True(t, domain.IsValidation(err))

	_, err = f.escrow.CloseChat(ctx, f.chat.ID, f.buyer.ID, domain.ClosedByBuyer)
	require.NoError(t, err)
	_, err = f.escrow.SendMessage(ctx, f.chat.ID, f.buyer.ID, "too late")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
