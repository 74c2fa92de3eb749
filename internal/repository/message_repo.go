package repository

import (
	"context"

	"tiro/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(m).Error, "create message")
}

func (r *MessageRepository) ListByChat(ctx context.Context, chatID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).Preload("Sender").
		Where("chat_id = ?", chatID).
		Order("created_at ASC").Find(&msgs).Error
	if err != nil {
		return nil, errors.Wrap(err, "list chat messages")
	}
	return msgs, nil
}
