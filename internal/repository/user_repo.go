package repository

import (
	"context"

	"tiro/internal/domain"
	"tiro/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return errors.Wrap(r.db.WithContext(ctx).Create(u).Error, "create user")
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	return errors.Wrap(r.db.WithContext(ctx).Save(u).Error, "update user")
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return users, nil
}

// AdjustBalance relies on a guarded UPDATE instead of read-then-write: the
// WHERE clause re-validates the balance at commit time, so two competing
// debits can never drive the balance negative.
func (r *UserRepository) AdjustBalance(ctx context.Context, id uint, deltaCents int64) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND balance_cents + ? >= 0", id, deltaCents).
		UpdateColumn("balance_cents", gorm.Expr("balance_cents + ?", deltaCents))
	if res.Error != nil {
		return errors.Wrap(res.Error, "adjust balance")
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return errors.Wrap(err, "adjust balance")
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrInsufficientBalance
	}
	return nil
}

func (r *UserRepository) AddEarnings(ctx context.Context, id uint, cents int64) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("total_earnings_cents", gorm.Expr("total_earnings_cents + ?", cents))
	if res.Error != nil {
		return errors.Wrap(res.Error, "add earnings")
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
