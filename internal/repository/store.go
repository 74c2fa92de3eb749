package repository

import (
	"context"

	"tiro/internal/service"

	"gorm.io/gorm"
)

// Store is the gorm-backed implementation of service.Store. Atomic rebinds
// every repository to one database transaction so a state-changing
// operation either fully commits or fully rolls back.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() service.UserRepository               { return NewUserRepository(s.db) }
func (s *Store) Products() service.ProductRepository         { return NewProductRepository(s.db) }
func (s *Store) Transactions() service.TransactionRepository { return NewTransactionRepository(s.db) }
func (s *Store) Chats() service.ChatRepository               { return NewChatRepository(s.db) }
func (s *Store) Messages() service.MessageRepository         { return NewMessageRepository(s.db) }
func (s *Store) Reviews() service.ReviewRepository           { return NewReviewRepository(s.db) }
func (s *Store) Promotions() service.PromotionRepository     { return NewPromotionRepository(s.db) }

func (s *Store) Atomic(ctx context.Context, fn func(service.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
