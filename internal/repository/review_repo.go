package repository

import (
	"context"

	"tiro/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *models.Review) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(rv).Error, "create review")
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).Preload("Buyer").
		Where("product_id = ?", productID).
		Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, errors.Wrap(err, "list product reviews")
	}
	return reviews, nil
}

func (r *ReviewRepository) ListBySeller(ctx context.Context, sellerID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).
		Order("created_at DESC").Find(&reviews).Error
	if err != nil {
		return nil, errors.Wrap(err, "list seller reviews")
	}
	return reviews, nil
}
