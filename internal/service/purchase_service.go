package service

import (
	"context"
	"fmt"
	"time"

	"tiro/internal/domain"
	"tiro/internal/models"
	"tiro/pkg/creds"

	"github.com/sirupsen/logrus"
)

// PurchaseService executes the atomic buy: funds move out of the buyer's
// balance into escrow, a pending ledger entry is written and the escrow
// chat opens, all in one transaction.
type PurchaseService struct {
	store  Store
	cipher *creds.Cipher
	log    *logrus.Logger
	now    func() time.Time
}

func NewPurchaseService(store Store, cipher *creds.Cipher, log *logrus.Logger) *PurchaseService {
	return &PurchaseService{store: store, cipher: cipher, log: log, now: time.Now}
}

// PurchaseResult is handed back to the buyer exactly once; Credentials are
// decrypted only here, never persisted in the clear.
type PurchaseResult struct {
	Transaction *models.Transaction `json:"transaction"`
	Chat        *models.Chat        `json:"chat"`
	Buyer       *models.User        `json:"buyer"`
	Product     *models.Product     `json:"product"`
	Credentials *models.Credentials `json:"credentials"`
}

func (s *PurchaseService) Purchase(ctx context.Context, buyerID, productID uint) (*PurchaseResult, error) {
	now := s.now()
	var result PurchaseResult

	err := s.store.Atomic(ctx, func(tx Store) error {
		buyer, err := tx.Users().GetByID(ctx, buyerID)
		if err != nil {
			return err
		}
		if buyer.IsBanned {
			return domain.ErrForbidden
		}
		product, err := tx.Products().GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if !product.IsActive {
			return domain.ErrNotFound
		}
		if product.SellerID == buyerID {
			return domain.ErrSelfPurchase
		}

		// Guarded debit; fails with ErrInsufficientBalance before anything
		// else is written.
		if err := tx.Users().AdjustBalance(ctx, buyerID, -product.PriceCents); err != nil {
			return err
		}
		if err := tx.Products().IncrementSales(ctx, productID, 1); err != nil {
			return err
		}

		entry := &models.Transaction{
			UserID:      buyerID,
			Type:        models.TransactionPurchase,
			AmountCents: product.PriceCents,
			Status:      models.StatusPending,
			Description: fmt.Sprintf("Purchased %q", product.Title),
			Reference:   newReference(),
		}
		if err := tx.Transactions().Create(ctx, entry); err != nil {
			return err
		}

		chat := &models.Chat{
			ProductID:     productID,
			BuyerID:       buyerID,
			SellerID:      product.SellerID,
			TransactionID: &entry.ID,
			Status:        models.ChatActive,
			ExpiresAt:     now.Add(domain.ChatWindow),
		}
		if err := tx.Chats().Create(ctx, chat); err != nil {
			return err
		}

		buyer.BalanceCents -= product.PriceCents
		result = PurchaseResult{
			Transaction: entry,
			Chat:        chat,
			Buyer:       buyer,
			Product:     product,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	credentials, err := s.decryptCredentials(result.Product)
	if err != nil {
		// The purchase itself committed; surface the product without
		// credentials rather than pretending it failed.
		s.log.WithError(err).WithField("product_id", productID).
			Error("credential decryption failed after purchase")
	} else {
		result.Credentials = credentials
	}

	s.log.WithFields(logrus.Fields{
		"buyer_id":   buyerID,
		"product_id": productID,
		"chat_id":    result.Chat.ID,
		"amount":     result.Transaction.AmountCents,
	}).Info("purchase completed")
	return &result, nil
}

func (s *PurchaseService) decryptCredentials(p *models.Product) (*models.Credentials, error) {
	username, err := s.cipher.Decrypt(p.AccountUsername)
	if err != nil {
		return nil, err
	}
	password, err := s.cipher.Decrypt(p.AccountPassword)
	if err != nil {
		return nil, err
	}
	email, err := s.cipher.Decrypt(p.AccountEmail)
	if err != nil {
		return nil, err
	}
	emailPassword, err := s.cipher.Decrypt(p.AccountEmailPassword)
	if err != nil {
		return nil, err
	}
	return &models.Credentials{
		AccountUsername:      username,
		AccountPassword:      password,
		AccountEmail:         email,
		AccountEmailPassword: emailPassword,
	}, nil
}
