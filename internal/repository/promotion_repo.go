package repository

import (
	"context"
	"time"

	"tiro/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type PromotionRepository struct {
	db *gorm.DB
}

func NewPromotionRepository(db *gorm.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

func (r *PromotionRepository) Create(ctx context.Context, p *models.Promotion) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(p).Error, "create promotion")
}

func (r *PromotionRepository) ListActive(ctx context.Context, now time.Time) ([]models.Promotion, error) {
	var promos []models.Promotion
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND end_date > ?", true, now).
		Order("start_date DESC").Find(&promos).Error
	if err != nil {
		return nil, errors.Wrap(err, "list active promotions")
	}
	return promos, nil
}

func (r *PromotionRepository) ListByProduct(ctx context.Context, productID uint) ([]models.Promotion, error) {
	var promos []models.Promotion
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).
		Order("start_date DESC").Find(&promos).Error
	if err != nil {
		return nil, errors.Wrap(err, "list product promotions")
	}
	return promos, nil
}
