package service

import (
	"context"

	"tiro/internal/models"
)

// AdminService backs the moderation surface: user flags and the
// marketplace stats dashboard.
type AdminService struct {
	store Store
}

func NewAdminService(store Store) *AdminService {
	return &AdminService{store: store}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.Users().List(ctx)
}

type UserFlags struct {
	Verified *bool
	Banned   *bool
}

func (s *AdminService) UpdateUserFlags(ctx context.Context, userID uint, flags UserFlags) (*models.User, error) {
	u, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if flags.Verified != nil {
		u.IsVerified = *flags.Verified
	}
	if flags.Banned != nil {
		u.IsBanned = *flags.Banned
	}
	if err := s.store.Users().Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

type Stats struct {
	TotalUsers          int   `json:"total_users"`
	TotalProducts       int   `json:"total_products"`
	CompletedSales      int   `json:"completed_sales"`
	SalesVolumeCents    int64 `json:"sales_volume_cents"`
	PendingDeposits     int   `json:"pending_deposits"`
	PendingWithdrawals  int   `json:"pending_withdrawals"`
	HeldInBalancesCents int64 `json:"held_in_balances_cents"`
}

func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.store.Products().List(ctx)
	if err != nil {
		return nil, err
	}
	transactions, err := s.store.Transactions().List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalUsers:    len(users),
		TotalProducts: len(products),
	}
	for i := range users {
		stats.HeldInBalancesCents += users[i].BalanceCents
	}
	for i := range transactions {
		t := &transactions[i]
		switch {
		case t.Type == models.TransactionSale && t.Status == models.StatusCompleted:
			stats.CompletedSales++
			stats.SalesVolumeCents += t.AmountCents
		case t.Type == models.TransactionDeposit && t.Status == models.StatusPending:
			stats.PendingDeposits++
		case t.Type == models.TransactionWithdraw && t.Status == models.StatusPending:
			stats.PendingWithdrawals++
		}
	}
	return stats, nil
}
