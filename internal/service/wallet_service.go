package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tiro/internal/domain"
	"tiro/internal/models"

	"github.com/sirupsen/logrus"
)

// WalletService is the admin-gated money-movement pipeline. Deposits credit
// nothing until an admin approves; withdrawals debit up front and refund on
// rejection. Each pending entry settles exactly once.
type WalletService struct {
	store    Store
	relay    ProofRelay
	uploader ProofUploader
	invoices InvoiceClient
	log      *logrus.Logger
	now      func() time.Time
}

func NewWalletService(store Store, relay ProofRelay, uploader ProofUploader, invoices InvoiceClient, log *logrus.Logger) *WalletService {
	return &WalletService{
		store:    store,
		relay:    relay,
		uploader: uploader,
		invoices: invoices,
		log:      log,
		now:      time.Now,
	}
}

// FeeDetails is returned to the user up front so the net credit is never a
// surprise; the ledger entry itself records the gross amount.
type FeeDetails struct {
	GrossCents int64 `json:"gross_cents"`
	FeeCents   int64 `json:"fee_cents"`
	NetCents   int64 `json:"net_cents"`
}

func depositFee(grossCents int64) FeeDetails {
	fee := grossCents * domain.DepositFeePercent / 100
	return FeeDetails{GrossCents: grossCents, FeeCents: fee, NetCents: grossCents - fee}
}

type DepositRequest struct {
	UserID         uint
	AmountCents    int64
	Method         string
	PayerReference string
	Proof          []byte
	ProofFilename  string
}

// RequestDeposit creates a pending deposit entry after the proof image has
// been delivered to the admin channel. Relay failure aborts the whole
// request; no orphaned pending entry may exist without its proof.
func (s *WalletService) RequestDeposit(ctx context.Context, req DepositRequest) (*models.Transaction, *FeeDetails, error) {
	if req.AmountCents <= 0 {
		return nil, nil, domain.NewValidationError("amount must be greater than 0")
	}
	if len(req.Proof) == 0 {
		return nil, nil, domain.NewValidationError("proof of payment image is required")
	}
	user, err := s.store.Users().GetByID(ctx, req.UserID)
	if err != nil {
		return nil, nil, err
	}

	reference := newReference()
	if s.uploader != nil {
		if _, err := s.uploader.UploadImage(ctx, req.Proof, "deposit-proofs", reference); err != nil {
			s.log.WithError(err).Warn("deposit proof upload failed, relaying image directly")
		}
	}

	fee := depositFee(req.AmountCents)
	caption := fmt.Sprintf("New deposit request\nUser: %s\nAmount: $%.2f\nFee: $%.2f\nMethod: %s\nTime: %s",
		user.Username,
		float64(fee.GrossCents)/100,
		float64(fee.FeeCents)/100,
		req.Method,
		s.now().UTC().Format(time.RFC3339))
	if req.PayerReference != "" {
		caption += "\nPayer reference: " + req.PayerReference
	}
	if err := s.relay.SendDepositProof(ctx, req.Proof, req.ProofFilename, caption); err != nil {
		s.log.WithError(err).WithField("user_id", req.UserID).Error("deposit proof relay failed")
		return nil, nil, domain.ErrExternalRelay
	}

	entry := &models.Transaction{
		UserID:         req.UserID,
		Type:           models.TransactionDeposit,
		AmountCents:    req.AmountCents,
		Status:         models.StatusPending,
		Description:    fmt.Sprintf("Deposit via %s", req.Method),
		Reference:      reference,
		PayerReference: req.PayerReference,
	}
	if err := s.store.Transactions().Create(ctx, entry); err != nil {
		return nil, nil, err
	}
	return entry, &fee, nil
}

// CreateCryptoDepositInvoice asks the gateway for a hosted invoice and
// records a pending deposit referencing it. Payment confirmation is out of
// band; the admin settles the entry like any other deposit.
func (s *WalletService) CreateCryptoDepositInvoice(ctx context.Context, userID uint, amountCents int64) (*models.Transaction, string, error) {
	if amountCents <= 0 {
		return nil, "", domain.NewValidationError("amount must be greater than 0")
	}
	if s.invoices == nil {
		return nil, "", domain.NewValidationError("crypto deposits are not enabled")
	}
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, "", err
	}

	reference := newReference()
	invoiceID, invoiceURL, err := s.invoices.CreateInvoice(ctx, amountCents, "usd", reference, "Tiro wallet deposit")
	if err != nil {
		return nil, "", domain.ErrExternalRelay
	}
	entry := &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionDeposit,
		AmountCents: amountCents,
		Status:      models.StatusPending,
		Description: fmt.Sprintf("Crypto deposit, invoice %s", invoiceID),
		Reference:   reference,
	}
	if err := s.store.Transactions().Create(ctx, entry); err != nil {
		return nil, "", err
	}
	return entry, invoiceURL, nil
}

type WithdrawRequest struct {
	UserID      uint
	AmountCents int64
	Method      string
	Destination string
}

// RequestWithdraw validates the destination, then debits the balance and
// writes the pending entry in one atomic unit. The funds are reserved
// immediately so pending withdrawals cannot be double-spent.
func (s *WalletService) RequestWithdraw(ctx context.Context, req WithdrawRequest) (*models.Transaction, error) {
	if req.AmountCents <= 0 {
		return nil, domain.NewValidationError("amount must be greater than 0")
	}
	if err := validateDestination(req.Method, req.Destination, req.AmountCents); err != nil {
		return nil, err
	}

	var entry *models.Transaction
	err := s.store.Atomic(ctx, func(tx Store) error {
		if err := tx.Users().AdjustBalance(ctx, req.UserID, -req.AmountCents); err != nil {
			return err
		}
		entry = &models.Transaction{
			UserID:        req.UserID,
			Type:          models.TransactionWithdraw,
			AmountCents:   req.AmountCents,
			Status:        models.StatusPending,
			Description:   fmt.Sprintf("Withdrawal to %s", req.Method),
			Reference:     newReference(),
			AccountNumber: maskAccountNumber(req.Destination),
		}
		return tx.Transactions().Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"user_id": req.UserID,
		"amount":  req.AmountCents,
		"method":  req.Method,
	}).Info("withdrawal requested")
	return entry, nil
}

// validateDestination enforces per-method destination formats before any
// money moves.
func validateDestination(method, destination string, amountCents int64) error {
	switch method {
	case domain.MethodZainCash:
		if !digitsOnly(destination) || len(destination) < 10 || len(destination) > 11 {
			return domain.NewValidationError("zain cash wallet must be 10-11 digits")
		}
	case domain.MethodBank:
		if !digitsOnly(destination) || len(destination) < 10 || len(destination) > 20 {
			return domain.NewValidationError("bank account must be 10-20 digits")
		}
	case domain.MethodUSDTTRC20:
		if !strings.HasPrefix(destination, "T") || len(destination) != 34 {
			return domain.NewValidationError("TRC-20 address must start with T and be 34 characters")
		}
		if amountCents < domain.MinCryptoWithdrawCents {
			return domain.NewValidationError("minimum crypto withdrawal is $%.2f", float64(domain.MinCryptoWithdrawCents)/100)
		}
	default:
		return domain.NewValidationError("unknown withdrawal method %q", method)
	}
	return nil
}

// SettleTransaction is the admin approval API. The pending -> final flip is
// a guarded update, so double settlement is impossible; the balance effect
// rides in the same transaction as the flip.
func (s *WalletService) SettleTransaction(ctx context.Context, txID uint, status models.TransactionStatus) (*models.Transaction, error) {
	if status != models.StatusCompleted && status != models.StatusFailed {
		return nil, domain.NewValidationError("status must be completed or failed")
	}

	err := s.store.Atomic(ctx, func(tx Store) error {
		entry, err := tx.Transactions().GetByID(ctx, txID)
		if err != nil {
			return err
		}
		if !entry.Settleable() {
			return domain.ErrInvalidState
		}
		ok, err := tx.Transactions().SetStatus(ctx, txID, models.StatusPending, status)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInvalidState
		}

		switch {
		case entry.Type == models.TransactionDeposit && status == models.StatusCompleted:
			// Credit net of the platform fee; the entry keeps the gross.
			return tx.Users().AdjustBalance(ctx, entry.UserID, depositFee(entry.AmountCents).NetCents)
		case entry.Type == models.TransactionWithdraw && status == models.StatusFailed:
			// The optimistic debit is rolled back in full.
			return tx.Users().AdjustBalance(ctx, entry.UserID, entry.AmountCents)
		default:
			// deposit+failed: nothing was credited; withdraw+completed:
			// the debit already happened at request time.
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"transaction_id": txID, "status": status}).Info("transaction settled")
	return s.store.Transactions().GetByID(ctx, txID)
}

func (s *WalletService) GetBalance(ctx context.Context, userID uint) (*models.User, error) {
	return s.store.Users().GetByID(ctx, userID)
}

func (s *WalletService) ListTransactions(ctx context.Context, userID uint) ([]models.Transaction, error) {
	return s.store.Transactions().ListByUser(ctx, userID)
}

func (s *WalletService) ListAllTransactions(ctx context.Context) ([]models.Transaction, error) {
	return s.store.Transactions().List(ctx)
}
