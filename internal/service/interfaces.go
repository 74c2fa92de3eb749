package service

import (
	"context"
	"time"

	"tiro/internal/models"
)

// Store bundles the repositories behind one seam so services can run
// multi-step mutations through Atomic. The gorm implementation lives in
// internal/repository; tests use an in-memory fake.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Transactions() TransactionRepository
	Chats() ChatRepository
	Messages() MessageRepository
	Reviews() ReviewRepository
	Promotions() PromotionRepository

	// Atomic runs fn against a Store bound to a single database
	// transaction; either every write in fn commits or none do.
	Atomic(ctx context.Context, fn func(Store) error) error
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	List(ctx context.Context) ([]models.User, error)

	// AdjustBalance applies deltaCents to the user's balance with a guarded
	// update that refuses to take the balance negative. Returns
	// domain.ErrInsufficientBalance or domain.ErrNotFound accordingly.
	AdjustBalance(ctx context.Context, id uint, deltaCents int64) error
	AddEarnings(ctx context.Context, id uint, cents int64) error
}

type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error) // preloads Seller
	List(ctx context.Context) ([]models.Product, error)
	ListBySeller(ctx context.Context, sellerID uint) ([]models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	// IncrementSales adds delta to the sales counter, flooring at zero.
	IncrementSales(ctx context.Context, id uint, delta int) error
	IncrementViews(ctx context.Context, id uint) error
}

type TransactionRepository interface {
	Create(ctx context.Context, t *models.Transaction) error
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Transaction, error)
	List(ctx context.Context) ([]models.Transaction, error)

	// SetStatus flips the entry from one status to another; false means the
	// entry was not in the expected status (or does not exist), so a
	// settlement can never be applied twice.
	SetStatus(ctx context.Context, id uint, from, to models.TransactionStatus) (bool, error)
}

type ChatRepository interface {
	Create(ctx context.Context, c *models.Chat) error
	GetByID(ctx context.Context, id uint) (*models.Chat, error)
	GetDetailed(ctx context.Context, id uint) (*models.Chat, error) // product, buyer, seller, messages
	ListByUser(ctx context.Context, userID uint) ([]models.Chat, error)
	ListExpired(ctx context.Context, now time.Time) ([]models.Chat, error)
	ListPaymentsDue(ctx context.Context, now time.Time) ([]models.Chat, error)

	// Close transitions the chat out of `from`; false means the chat had
	// already left that status, so whichever close commits first wins.
	Close(ctx context.Context, id uint, from, to models.ChatStatus, closedAt time.Time, closedBy string, paymentAt *time.Time) (bool, error)
	// MarkUnderReview flips an active chat to under_review.
	MarkUnderReview(ctx context.Context, id uint) (bool, error)
	// ClearScheduledPayment unsets payment_scheduled_at while the chat is
	// still in status st; false means another sweep got there first.
	ClearScheduledPayment(ctx context.Context, id uint, st models.ChatStatus) (bool, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *models.Message) error
	ListByChat(ctx context.Context, chatID uint) ([]models.Message, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, r *models.Review) error
	ListByProduct(ctx context.Context, productID uint) ([]models.Review, error)
	ListBySeller(ctx context.Context, sellerID uint) ([]models.Review, error)
}

type PromotionRepository interface {
	Create(ctx context.Context, p *models.Promotion) error
	ListActive(ctx context.Context, now time.Time) ([]models.Promotion, error)
	ListByProduct(ctx context.Context, productID uint) ([]models.Promotion, error)
}

// ProofRelay delivers a deposit proof image to the admin channel. Delivery
// must succeed before the pending entry is created.
type ProofRelay interface {
	SendDepositProof(ctx context.Context, photo []byte, filename, caption string) error
}

// ProofUploader stores the proof image and returns its public URL.
type ProofUploader interface {
	UploadImage(ctx context.Context, file []byte, folder, publicID string) (string, error)
}

// InvoiceClient creates a hosted payment invoice with the crypto gateway.
type InvoiceClient interface {
	CreateInvoice(ctx context.Context, amountCents int64, currency, orderID, description string) (invoiceID, invoiceURL string, err error)
}
