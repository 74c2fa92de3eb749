package repository

import (
	"context"

	"tiro/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(p).Error, "create product")
}

func (r *ProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).Preload("Seller").First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Preload("Seller").
		Where("is_active = ?", true).
		Order("created_at DESC").Find(&products).Error
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

func (r *ProductRepository) ListBySeller(ctx context.Context, sellerID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).
		Order("created_at DESC").Find(&products).Error
	if err != nil {
		return nil, errors.Wrap(err, "list seller products")
	}
	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	return errors.Wrap(r.db.WithContext(ctx).Save(p).Error, "update product")
}

func (r *ProductRepository) IncrementViews(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	return errors.Wrap(res.Error, "increment views")
}

func (r *ProductRepository) IncrementSales(ctx context.Context, id uint, delta int) error {
	// GREATEST floors the counter at zero when a refund decrements it.
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("sales", gorm.Expr("GREATEST(sales + ?, 0)", delta))
	return errors.Wrap(res.Error, "increment sales")
}
