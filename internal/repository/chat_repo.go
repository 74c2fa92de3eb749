package repository

import (
	"context"
	"time"

	"tiro/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Create(ctx context.Context, c *models.Chat) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(c).Error, "create chat")
}

func (r *ChatRepository) GetByID(ctx context.Context, id uint) (*models.Chat, error) {
	var c models.Chat
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *ChatRepository) GetDetailed(ctx context.Context, id uint) (*models.Chat, error) {
	var c models.Chat
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Buyer").Preload("Seller").
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&c, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *ChatRepository) ListByUser(ctx context.Context, userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Buyer").Preload("Seller").
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("created_at DESC").Find(&chats).Error
	if err != nil {
		return nil, errors.Wrap(err, "list user chats")
	}
	return chats, nil
}

func (r *ChatRepository) ListExpired(ctx context.Context, now time.Time) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", models.ChatActive, now).
		Find(&chats).Error
	if err != nil {
		return nil, errors.Wrap(err, "list expired chats")
	}
	return chats, nil
}

func (r *ChatRepository) ListPaymentsDue(ctx context.Context, now time.Time) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.WithContext(ctx).
		Where("payment_scheduled_at IS NOT NULL AND payment_scheduled_at <= ? AND status IN ?",
			now, []models.ChatStatus{models.ChatSettledSeller, models.ChatResolvedSeller}).
		Find(&chats).Error
	if err != nil {
		return nil, errors.Wrap(err, "list due payments")
	}
	return chats, nil
}

// Close is a compare-and-swap on the status column: when two parties race
// to close in the same tick, the first committed write wins and the loser
// sees zero rows affected.
func (r *ChatRepository) Close(ctx context.Context, id uint, from, to models.ChatStatus, closedAt time.Time, closedBy string, paymentAt *time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Chat{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":               to,
			"closed_at":            closedAt,
			"closed_by":            closedBy,
			"payment_scheduled_at": paymentAt,
		})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "close chat")
	}
	return res.RowsAffected > 0, nil
}

func (r *ChatRepository) MarkUnderReview(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Chat{}).
		Where("id = ? AND status = ?", id, models.ChatActive).
		Update("status", models.ChatUnderReview)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "mark chat under review")
	}
	return res.RowsAffected > 0, nil
}

func (r *ChatRepository) ClearScheduledPayment(ctx context.Context, id uint, st models.ChatStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Chat{}).
		Where("id = ? AND status = ? AND payment_scheduled_at IS NOT NULL", id, st).
		Update("payment_scheduled_at", nil)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "clear scheduled payment")
	}
	return res.RowsAffected > 0, nil
}
