package service

import (
	"context"

	"tiro/internal/domain"
	"tiro/internal/models"
)

type ReviewService struct {
	store Store
}

func NewReviewService(store Store) *ReviewService {
	return &ReviewService{store: store}
}

// Create stores the review and recomputes the seller's average rating in
// the same transaction.
func (s *ReviewService) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if review.Rating < 1 || review.Rating > 5 {
		return nil, domain.NewValidationError("rating must be between 1 and 5")
	}

	err := s.store.Atomic(ctx, func(tx Store) error {
		product, err := tx.Products().GetByID(ctx, review.ProductID)
		if err != nil {
			return err
		}
		review.SellerID = product.SellerID
		if review.BuyerID == review.SellerID {
			return domain.ErrForbidden
		}
		if err := tx.Reviews().Create(ctx, review); err != nil {
			return err
		}

		all, err := tx.Reviews().ListBySeller(ctx, review.SellerID)
		if err != nil {
			return err
		}
		var sum int
		for _, r := range all {
			sum += r.Rating
		}
		seller, err := tx.Users().GetByID(ctx, review.SellerID)
		if err != nil {
			return err
		}
		seller.Rating = float64(sum) / float64(len(all))
		seller.TotalReviews = len(all)
		return tx.Users().Update(ctx, seller)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	return s.store.Reviews().ListByProduct(ctx, productID)
}
