package service

import (
	"context"
	"fmt"
	"time"

	"tiro/internal/domain"
	"tiro/internal/models"
)

// PromotionService sells listing boosts from the seller's balance. Same
// atomicity rules as any money-moving operation: debit, promotion row and
// ledger entry commit together or not at all.
type PromotionService struct {
	store Store
	now   func() time.Time
}

func NewPromotionService(store Store) *PromotionService {
	return &PromotionService{store: store, now: time.Now}
}

func (s *PromotionService) Purchase(ctx context.Context, userID, productID uint, tier string, endDate time.Time) (*models.Promotion, error) {
	price, ok := domain.PromotionTierPriceCents[tier]
	if !ok {
		return nil, domain.NewValidationError("unknown promotion tier %q", tier)
	}
	if !endDate.After(s.now()) {
		return nil, domain.NewValidationError("end date must be in the future")
	}

	var promo *models.Promotion
	err := s.store.Atomic(ctx, func(tx Store) error {
		product, err := tx.Products().GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product.SellerID != userID {
			return domain.ErrForbidden
		}
		if err := tx.Users().AdjustBalance(ctx, userID, -price); err != nil {
			return err
		}
		promo = &models.Promotion{
			ProductID:  productID,
			Tier:       tier,
			PriceCents: price,
			StartDate:  s.now(),
			EndDate:    endDate,
			IsActive:   true,
		}
		if err := tx.Promotions().Create(ctx, promo); err != nil {
			return err
		}
		return tx.Transactions().Create(ctx, &models.Transaction{
			UserID:      userID,
			Type:        models.TransactionPromotion,
			AmountCents: price,
			Status:      models.StatusCompleted,
			Description: fmt.Sprintf("Promotion: %s tier until %s", tier, endDate.Format("2006-01-02")),
			Reference:   newReference(),
		})
	})
	if err != nil {
		return nil, err
	}
	return promo, nil
}

func (s *PromotionService) ListActive(ctx context.Context) ([]models.Promotion, error) {
	return s.store.Promotions().ListActive(ctx, s.now())
}

func (s *PromotionService) ListByProduct(ctx context.Context, productID uint) ([]models.Promotion, error) {
	return s.store.Promotions().ListByProduct(ctx, productID)
}
