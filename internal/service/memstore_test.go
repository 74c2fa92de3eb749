package service

import (
	"context"
	"sort"
	"time"

	"tiro/internal/domain"
	"tiro/internal/models"
)

// memStore is an in-memory Store for the service tests. It mirrors the
// guarded-update semantics of the gorm layer (balance floor, status
// compare-and-swap, scheduled-payment clear) so the services see the same
// behavior they get from MySQL. Tests run it from a single goroutine;
// Atomic snapshots the state and restores it when fn fails.
type memStore struct {
	users        map[uint]*models.User
	products     map[uint]*models.Product
	transactions map[uint]*models.Transaction
	chats        map[uint]*models.Chat
	messages     map[uint]*models.Message
	reviews      map[uint]*models.Review
	promotions   map[uint]*models.Promotion
	lastID       uint
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[uint]*models.User),
		products:     make(map[uint]*models.Product),
		transactions: make(map[uint]*models.Transaction),
		chats:        make(map[uint]*models.Chat),
		messages:     make(map[uint]*models.Message),
		reviews:      make(map[uint]*models.Review),
		promotions:   make(map[uint]*models.Promotion),
	}
}

func (m *memStore) seq() uint {
	m.lastID++
	return m.lastID
}

func (m *memStore) Users() UserRepository               { return memUsers{m} }
func (m *memStore) Products() ProductRepository         { return memProducts{m} }
func (m *memStore) Transactions() TransactionRepository { return memTransactions{m} }
func (m *memStore) Chats() ChatRepository               { return memChats{m} }
func (m *memStore) Messages() MessageRepository         { return memMessages{m} }
func (m *memStore) Reviews() ReviewRepository           { return memReviews{m} }
func (m *memStore) Promotions() PromotionRepository     { return memPromotions{m} }

func (m *memStore) Atomic(_ context.Context, fn func(Store) error) error {
	snap := m.clone()
	if err := fn(m); err != nil {
		*m = *snap
		return err
	}
	return nil
}

func (m *memStore) clone() *memStore {
	c := newMemStore()
	c.lastID = m.lastID
	for id, v := range m.users {
		u := *v
		c.users[id] = &u
	}
	for id, v := range m.products {
		p := *v
		c.products[id] = &p
	}
	for id, v := range m.transactions {
		t := *v
		c.transactions[id] = &t
	}
	for id, v := range m.chats {
		ch := *v
		c.chats[id] = &ch
	}
	for id, v := range m.messages {
		msg := *v
		c.messages[id] = &msg
	}
	for id, v := range m.reviews {
		r := *v
		c.reviews[id] = &r
	}
	for id, v := range m.promotions {
		p := *v
		c.promotions[id] = &p
	}
	return c
}

// Seed helpers.

func (m *memStore) addUser(username string, balanceCents int64) *models.User {
	u := &models.User{
		ID:           m.seq(),
		Username:     username,
		Role:         domain.RoleUser,
		BalanceCents: balanceCents,
	}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addProduct(sellerID uint, title string, priceCents int64) *models.Product {
	p := &models.Product{
		ID:         m.seq(),
		SellerID:   sellerID,
		Title:      title,
		PriceCents: priceCents,
		IsActive:   true,
	}
	m.products[p.ID] = p
	return p
}

func (m *memStore) chatMessages(chatID uint) []models.Message {
	var out []models.Message
	for _, msg := range m.messages {
		if msg.ChatID == chatID {
			out = append(out, *msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) error {
	u.ID = r.s.seq()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r memUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memUsers) Update(_ context.Context, u *models.User) error {
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r memUsers) List(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range r.s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memUsers) AdjustBalance(_ context.Context, id uint, deltaCents int64) error {
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	if u.BalanceCents+deltaCents < 0 {
		return domain.ErrInsufficientBalance
	}
	u.BalanceCents += deltaCents
	return nil
}

func (r memUsers) AddEarnings(_ context.Context, id uint, cents int64) error {
	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.TotalEarningsCents += cents
	return nil
}

type memProducts struct{ s *memStore }

func (r memProducts) Create(_ context.Context, p *models.Product) error {
	p.ID = r.s.seq()
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r memProducts) GetByID(_ context.Context, id uint) (*models.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	if seller, ok := r.s.users[p.SellerID]; ok {
		sc := *seller
		cp.Seller = &sc
	}
	return &cp, nil
}

func (r memProducts) List(_ context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range r.s.products {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memProducts) ListBySeller(_ context.Context, sellerID uint) ([]models.Product, error) {
	var out []models.Product
	for _, p := range r.s.products {
		if p.SellerID == sellerID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memProducts) Update(_ context.Context, p *models.Product) error {
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	cp.Seller = nil
	r.s.products[p.ID] = &cp
	return nil
}

func (r memProducts) IncrementViews(_ context.Context, id uint) error {
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Views++
	return nil
}

func (r memProducts) IncrementSales(_ context.Context, id uint, delta int) error {
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Sales += delta
	if p.Sales < 0 {
		p.Sales = 0
	}
	return nil
}

type memTransactions struct{ s *memStore }

func (r memTransactions) Create(_ context.Context, t *models.Transaction) error {
	t.ID = r.s.seq()
	cp := *t
	r.s.transactions[t.ID] = &cp
	return nil
}

func (r memTransactions) GetByID(_ context.Context, id uint) (*models.Transaction, error) {
	t, ok := r.s.transactions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r memTransactions) ListByUser(_ context.Context, userID uint) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range r.s.transactions {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memTransactions) List(_ context.Context) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range r.s.transactions {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memTransactions) SetStatus(_ context.Context, id uint, from, to models.TransactionStatus) (bool, error) {
	t, ok := r.s.transactions[id]
	if !ok || t.Status != from {
		return false, nil
	}
	t.Status = to
	return true, nil
}

type memChats struct{ s *memStore }

func (r memChats) Create(_ context.Context, c *models.Chat) error {
	c.ID = r.s.seq()
	cp := *c
	r.s.chats[c.ID] = &cp
	return nil
}

func (r memChats) GetByID(_ context.Context, id uint) (*models.Chat, error) {
	c, ok := r.s.chats[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r memChats) GetDetailed(_ context.Context, id uint) (*models.Chat, error) {
	c, ok := r.s.chats[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	if p, ok := r.s.products[c.ProductID]; ok {
		pc := *p
		cp.Product = &pc
	}
	if b, ok := r.s.users[c.BuyerID]; ok {
		bc := *b
		cp.Buyer = &bc
	}
	if sl, ok := r.s.users[c.SellerID]; ok {
		sc := *sl
		cp.Seller = &sc
	}
	cp.Messages = r.s.chatMessages(id)
	return &cp, nil
}

func (r memChats) ListByUser(_ context.Context, userID uint) ([]models.Chat, error) {
	var out []models.Chat
	for _, c := range r.s.chats {
		if c.BuyerID == userID || c.SellerID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memChats) ListExpired(_ context.Context, now time.Time) ([]models.Chat, error) {
	var out []models.Chat
	for _, c := range r.s.chats {
		if c.Status == models.ChatActive && !c.ExpiresAt.After(now) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memChats) ListPaymentsDue(_ context.Context, now time.Time) ([]models.Chat, error) {
	var out []models.Chat
	for _, c := range r.s.chats {
		if c.Status.FavorsSeller() && c.PaymentScheduledAt != nil && !c.PaymentScheduledAt.After(now) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memChats) Close(_ context.Context, id uint, from, to models.ChatStatus, closedAt time.Time, closedBy string, paymentAt *time.Time) (bool, error) {
	c, ok := r.s.chats[id]
	if !ok || c.Status != from {
		return false, nil
	}
	at := closedAt
	c.Status = to
	c.ClosedAt = &at
	c.ClosedBy = closedBy
	c.PaymentScheduledAt = paymentAt
	return true, nil
}

func (r memChats) MarkUnderReview(_ context.Context, id uint) (bool, error) {
	c, ok := r.s.chats[id]
	if !ok || c.Status != models.ChatActive {
		return false, nil
	}
	c.Status = models.ChatUnderReview
	return true, nil
}

func (r memChats) ClearScheduledPayment(_ context.Context, id uint, st models.ChatStatus) (bool, error) {
	c, ok := r.s.chats[id]
	if !ok || c.Status != st || c.PaymentScheduledAt == nil {
		return false, nil
	}
	c.PaymentScheduledAt = nil
	return true, nil
}

type memMessages struct{ s *memStore }

func (r memMessages) Create(_ context.Context, m *models.Message) error {
	m.ID = r.s.seq()
	cp := *m
	r.s.messages[m.ID] = &cp
	return nil
}

func (r memMessages) ListByChat(_ context.Context, chatID uint) ([]models.Message, error) {
	return r.s.chatMessages(chatID), nil
}

type memReviews struct{ s *memStore }

func (r memReviews) Create(_ context.Context, rv *models.Review) error {
	rv.ID = r.s.seq()
	cp := *rv
	r.s.reviews[rv.ID] = &cp
	return nil
}

func (r memReviews) ListByProduct(_ context.Context, productID uint) ([]models.Review, error) {
	var out []models.Review
	for _, rv := range r.s.reviews {
		if rv.ProductID == productID {
			out = append(out, *rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memReviews) ListBySeller(_ context.Context, sellerID uint) ([]models.Review, error) {
	var out []models.Review
	for _, rv := range r.s.reviews {
		if rv.SellerID == sellerID {
			out = append(out, *rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memPromotions struct{ s *memStore }

func (r memPromotions) Create(_ context.Context, p *models.Promotion) error {
	p.ID = r.s.seq()
	cp := *p
	r.s.promotions[p.ID] = &cp
	return nil
}

func (r memPromotions) ListActive(_ context.Context, now time.Time) ([]models.Promotion, error) {
	var out []models.Promotion
	for _, p := range r.s.promotions {
		if p.IsActive && p.EndDate.After(now) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memPromotions) ListByProduct(_ context.Context, productID uint) ([]models.Promotion, error) {
	var out []models.Promotion
	for _, p := range r.s.promotions {
		if p.ProductID == productID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
