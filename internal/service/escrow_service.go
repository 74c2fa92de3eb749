package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tiro/internal/domain"
	"tiro/internal/models"

	"github.com/sirupsen/logrus"
)

// EscrowService owns the chat lifecycle: explicit closes, admin
// resolutions, message flow and the two scheduler passes. Every transition
// is a compare-and-swap on the persisted status, so replays and races
// degrade to no-ops instead of double payments.
type EscrowService struct {
	store Store
	log   *logrus.Logger
	now   func() time.Time
}

func NewEscrowService(store Store, log *logrus.Logger) *EscrowService {
	return &EscrowService{store: store, log: log, now: time.Now}
}

// CloseChat handles the two voluntary endings of an active chat:
// the buyer closing in the seller's favor (payout scheduled after the
// settlement delay) or the seller closing in the buyer's favor (immediate
// refund). role must match the caller's side of the chat.
func (s *EscrowService) CloseChat(ctx context.Context, chatID, userID uint, role string) (*models.Chat, error) {
	now := s.now()

	err := s.store.Atomic(ctx, func(tx Store) error {
		chat, err := tx.Chats().GetDetailed(ctx, chatID)
		if err != nil {
			return err
		}
		if !chat.Participant(userID) {
			return domain.ErrForbidden
		}

		switch role {
		case domain.ClosedByBuyer:
			if userID != chat.BuyerID {
				return domain.ErrForbidden
			}
			return s.settleToSeller(ctx, tx, chat, models.ChatActive, models.ChatSettledSeller, domain.ClosedByBuyer, now)
		case domain.ClosedBySeller:
			if userID != chat.SellerID {
				return domain.ErrForbidden
			}
			return s.refundBuyer(ctx, tx, chat, models.ChatActive, models.ChatRefundedBuyer, domain.ClosedBySeller, now)
		default:
			return domain.NewValidationError("unknown role %q", role)
		}
	})
	if err != nil {
		return nil, err
	}
	return s.store.Chats().GetDetailed(ctx, chatID)
}

// ResolveChat is the admin ruling on a chat that timed out into
// under_review. resolution names who receives the funds.
func (s *EscrowService) ResolveChat(ctx context.Context, chatID uint, resolution string) (*models.Chat, error) {
	now := s.now()

	err := s.store.Atomic(ctx, func(tx Store) error {
		chat, err := tx.Chats().GetDetailed(ctx, chatID)
		if err != nil {
			return err
		}
		switch resolution {
		case domain.ResolutionSeller:
			return s.settleToSeller(ctx, tx, chat, models.ChatUnderReview, models.ChatResolvedSeller, domain.ClosedByAdmin, now)
		case domain.ResolutionBuyer:
			return s.refundBuyer(ctx, tx, chat, models.ChatUnderReview, models.ChatResolvedBuyer, domain.ClosedByAdmin, now)
		default:
			return domain.NewValidationError("unknown resolution %q", resolution)
		}
	})
	if err != nil {
		return nil, err
	}
	return s.store.Chats().GetDetailed(ctx, chatID)
}

// settleToSeller marks the chat in the seller's favor and schedules the
// payout; the seller is not credited here. Settlement happens in
// ReleaseScheduledPayments once the delay elapses.
func (s *EscrowService) settleToSeller(ctx context.Context, tx Store, chat *models.Chat, from, to models.ChatStatus, closedBy string, now time.Time) error {
	payAt := now.Add(domain.SettleDelay)
	ok, err := tx.Chats().Close(ctx, chat.ID, from, to, now, closedBy, &payAt)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidState
	}
	return s.systemMessage(ctx, tx, chat.ID,
		fmt.Sprintf("Chat closed in favor of the seller by %s. Payment will be released at %s.",
			closedBy, payAt.UTC().Format(time.RFC3339)))
}

// refundBuyer ends the chat in the buyer's favor: full refund now, the
// purchase entry fails and the sale is undone.
func (s *EscrowService) refundBuyer(ctx context.Context, tx Store, chat *models.Chat, from, to models.ChatStatus, closedBy string, now time.Time) error {
	ok, err := tx.Chats().Close(ctx, chat.ID, from, to, now, closedBy, nil)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidState
	}

	amount, err := s.escrowAmount(ctx, tx, chat)
	if err != nil {
		return err
	}
	if err := tx.Users().AdjustBalance(ctx, chat.BuyerID, amount); err != nil {
		return err
	}
	if chat.TransactionID != nil {
		if _, err := tx.Transactions().SetStatus(ctx, *chat.TransactionID, models.StatusPending, models.StatusFailed); err != nil {
			return err
		}
	}
	if err := tx.Products().IncrementSales(ctx, chat.ProductID, -1); err != nil {
		return err
	}
	return s.systemMessage(ctx, tx, chat.ID,
		fmt.Sprintf("Chat closed in favor of the buyer by %s. The purchase amount was refunded.", closedBy))
}

// SendMessage appends a user message. Terminal chats accept nothing.
func (s *EscrowService) SendMessage(ctx context.Context, chatID, senderID uint, body string) (*models.Message, error) {
	if body == "" {
		return nil, domain.NewValidationError("message cannot be empty")
	}
	var msg *models.Message
	err := s.store.Atomic(ctx, func(tx Store) error {
		chat, err := tx.Chats().GetByID(ctx, chatID)
		if err != nil {
			return err
		}
		if !chat.Participant(senderID) {
			return domain.ErrForbidden
		}
		if chat.Status.Terminal() {
			return domain.ErrInvalidState
		}
		sender := senderID
		msg = &models.Message{
			ChatID:     chatID,
			SenderID:   &sender,
			SenderType: models.SenderUser,
			Body:       body,
		}
		return tx.Messages().Create(ctx, msg)
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *EscrowService) GetChat(ctx context.Context, chatID, userID uint) (*models.Chat, error) {
	chat, err := s.store.Chats().GetDetailed(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.Participant(userID) {
		return nil, domain.ErrForbidden
	}
	return chat, nil
}

func (s *EscrowService) ListChats(ctx context.Context, userID uint) ([]models.Chat, error) {
	return s.store.Chats().ListByUser(ctx, userID)
}

// ExpireChats is the expiry pass: every active chat past its deadline is
// flagged for admin review. One chat's failure never aborts the sweep.
func (s *EscrowService) ExpireChats(ctx context.Context) (int, error) {
	now := s.now()
	expired, err := s.store.Chats().ListExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	var flagged int
	for i := range expired {
		chat := expired[i]
		err := s.store.Atomic(ctx, func(tx Store) error {
			ok, err := tx.Chats().MarkUnderReview(ctx, chat.ID)
			if err != nil {
				return err
			}
			if !ok {
				return nil // someone else transitioned it since the scan
			}
			flagged++
			return s.systemMessage(ctx, tx, chat.ID,
				"The negotiation window has expired. This chat is now under admin review.")
		})
		if err != nil {
			s.log.WithError(err).WithField("chat_id", chat.ID).Error("expiry pass: chat failed")
		}
	}
	return flagged, nil
}

// ReleaseScheduledPayments is the payment pass: for every seller-favoring
// chat whose delay has elapsed it credits the seller, completes the buyer's
// purchase entry and writes the sale entry. Clearing payment_scheduled_at
// inside the same transaction as the credit makes the payout at-most-once
// no matter how often the sweep runs.
func (s *EscrowService) ReleaseScheduledPayments(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.store.Chats().ListPaymentsDue(ctx, now)
	if err != nil {
		return 0, err
	}

	var released int
	for i := range due {
		chat := due[i]
		err := s.store.Atomic(ctx, func(tx Store) error {
			ok, err := tx.Chats().ClearScheduledPayment(ctx, chat.ID, chat.Status)
			if err != nil {
				return err
			}
			if !ok {
				return nil // already paid by a concurrent sweep
			}
			return s.paySeller(ctx, tx, &chat)
		})
		if err != nil {
			s.log.WithError(err).WithField("chat_id", chat.ID).Error("payment pass: chat failed")
			continue
		}
		released++
	}
	return released, nil
}

func (s *EscrowService) paySeller(ctx context.Context, tx Store, chat *models.Chat) error {
	amount, err := s.escrowAmount(ctx, tx, chat)
	if err != nil {
		return err
	}
	if err := tx.Users().AdjustBalance(ctx, chat.SellerID, amount); err != nil {
		return err
	}
	if err := tx.Users().AddEarnings(ctx, chat.SellerID, amount); err != nil {
		return err
	}
	if chat.TransactionID != nil {
		if _, err := tx.Transactions().SetStatus(ctx, *chat.TransactionID, models.StatusPending, models.StatusCompleted); err != nil {
			return err
		}
	}
	product, err := tx.Products().GetByID(ctx, chat.ProductID)
	if err != nil {
		return err
	}
	sale := &models.Transaction{
		UserID:      chat.SellerID,
		Type:        models.TransactionSale,
		AmountCents: amount,
		Status:      models.StatusCompleted,
		Description: fmt.Sprintf("Sold %q", product.Title),
		Reference:   newReference(),
	}
	if err := tx.Transactions().Create(ctx, sale); err != nil {
		return err
	}
	return s.systemMessage(ctx, tx, chat.ID, "Payment has been released to the seller.")
}

// escrowAmount reads the held amount off the linked purchase entry, which
// is immutable; the product price may have changed since the sale. Falls
// back to the current product price if the link was severed.
func (s *EscrowService) escrowAmount(ctx context.Context, tx Store, chat *models.Chat) (int64, error) {
	if chat.TransactionID != nil {
		entry, err := tx.Transactions().GetByID(ctx, *chat.TransactionID)
		if err == nil {
			return entry.AmountCents, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return 0, err
		}
	}
	product, err := tx.Products().GetByID(ctx, chat.ProductID)
	if err != nil {
		return 0, err
	}
	return product.PriceCents, nil
}

func (s *EscrowService) systemMessage(ctx context.Context, tx Store, chatID uint, body string) error {
	return tx.Messages().Create(ctx, &models.Message{
		ChatID:     chatID,
		SenderType: models.SenderSystem,
		Body:       body,
	})
}
