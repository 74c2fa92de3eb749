package service

import (
	"context"

	"tiro/internal/domain"
	"tiro/internal/models"
	"tiro/pkg/creds"
)

// ProductService owns listing CRUD plus credential encryption at rest.
type ProductService struct {
	store  Store
	cipher *creds.Cipher
}

func NewProductService(store Store, cipher *creds.Cipher) *ProductService {
	return &ProductService{store: store, cipher: cipher}
}

type CreateProductInput struct {
	SellerID    uint
	Title       string
	Description string
	PriceCents  int64
	Category    string
	ImageURL    string
	Credentials models.Credentials
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if in.Title == "" {
		return nil, domain.NewValidationError("title is required")
	}
	if in.PriceCents <= 0 {
		return nil, domain.NewValidationError("price must be greater than 0")
	}
	if _, err := s.store.Users().GetByID(ctx, in.SellerID); err != nil {
		return nil, err
	}

	p := &models.Product{
		SellerID:    in.SellerID,
		Title:       in.Title,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		IsActive:    true,
	}
	var err error
	if p.AccountUsername, err = s.cipher.Encrypt(in.Credentials.AccountUsername); err != nil {
		return nil, err
	}
	if p.AccountPassword, err = s.cipher.Encrypt(in.Credentials.AccountPassword); err != nil {
		return nil, err
	}
	if p.AccountEmail, err = s.cipher.Encrypt(in.Credentials.AccountEmail); err != nil {
		return nil, err
	}
	if p.AccountEmailPassword, err = s.cipher.Encrypt(in.Credentials.AccountEmailPassword); err != nil {
		return nil, err
	}
	if err := s.store.Products().Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the listing and counts the view. The view counter is best
// effort; a failed bump never hides the product.
func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Products().IncrementViews(ctx, id); err == nil {
		p.Views++
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.store.Products().List(ctx)
}

func (s *ProductService) ListBySeller(ctx context.Context, sellerID uint) ([]models.Product, error) {
	return s.store.Products().ListBySeller(ctx, sellerID)
}
