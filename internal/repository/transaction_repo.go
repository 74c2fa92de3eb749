package repository

import (
	"context"

	"tiro/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *models.Transaction) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(t).Error, "create transaction")
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var t models.Transaction
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID uint) ([]models.Transaction, error) {
	var list []models.Transaction
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&list).Error
	if err != nil {
		return nil, errors.Wrap(err, "list user transactions")
	}
	return list, nil
}

func (r *TransactionRepository) List(ctx context.Context) ([]models.Transaction, error) {
	var list []models.Transaction
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, errors.Wrap(err, "list transactions")
	}
	return list, nil
}

// SetStatus is the single write path for status changes. The WHERE clause
// makes pending -> completed/failed a one-shot transition: a second settle
// attempt matches zero rows.
func (r *TransactionRepository) SetStatus(ctx context.Context, id uint, from, to models.TransactionStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "set transaction status")
	}
	return res.RowsAffected > 0, nil
}
