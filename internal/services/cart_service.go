package services

import (
	"context"
	"errors"
	"fmt"

	"gymfit/internal/domain"
	applog "gymfit/internal/log"
	"gymfit/internal/metrics"
	"gymfit/internal/validate"
)

// ProductReader is the read side of the catalog the cart needs.
type ProductReader interface {
	Get(ctx context.Context, id string) (domain.Product, error)
}

type CartService struct {
	Strategy CartStrategy
	Products ProductReader
	locks    *keyedMutex
}

func NewCartService(strategy CartStrategy, products ProductReader) *CartService {
	return &CartService{Strategy: strategy, Products: products, locks: newKeyedMutex()}
}

type CartView struct {
	Items      []domain.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice float64           `json:"totalPrice"`
}

func TotalItems(items []domain.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func TotalPrice(items []domain.CartItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}

func (s *CartService) lock(sess *Session) func() { return s.locks.Lock(sess.ID) }

// Add puts qty more units of productID in the cart (1..50 per request).
func (s *CartService) Add(ctx context.Context, sess *Session, productID string, qty int) error {
	if _, ok := validate.ID(productID); !ok {
		return invalid("productId", "invalid product id")
	}
	qty = validate.ClampQty(qty)

	unlock := s.lock(sess)
	defer unlock()

	p, err := s.Products.Get(ctx, productID)
	if err != nil {
		return err
	}
	repo := s.Strategy.For(sess)
	lines, err := repo.Lines(ctx)
	if err != nil {
		return fmt.Errorf("cart lines: %w", err)
	}
	line := domain.CartLine{ProductID: p.ID, UnitPrice: p.Price}
	for _, l := range lines {
		if l.ProductID == p.ID {
			line = l
		}
	}
	want := line.Quantity + qty
	line.Quantity = validate.ClampQty(want)
	if line.Quantity < want {
		return invalid("quantity", fmt.Sprintf("at most %d units per product", validate.MaxQty))
	}
	if line.Quantity > p.Stock {
		return fmt.Errorf("%w: %s has %d", ErrInsufficientStock, p.ID, p.Stock)
	}
	if err := repo.Upsert(ctx, line); err != nil {
		return fmt.Errorf("cart add: %w", err)
	}
	metrics.RecordCartOp("add", repo.Name())
	return nil
}

func (s *CartService) Remove(ctx context.Context, sess *Session, productID string) error {
	unlock := s.lock(sess)
	defer unlock()
	return s.remove(ctx, sess, productID)
}

func (s *CartService) remove(ctx context.Context, sess *Session, productID string) error {
	repo := s.Strategy.For(sess)
	if err := repo.Remove(ctx, productID); err != nil {
		return fmt.Errorf("cart remove: %w", err)
	}
	metrics.RecordCartOp("remove", repo.Name())
	return nil
}

// UpdateQuantity sets the line's quantity; qty <= 0 removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, sess *Session, productID string, qty int) error {
	unlock := s.lock(sess)
	defer unlock()

	if qty <= 0 {
		return s.remove(ctx, sess, productID)
	}
	qty = validate.ClampQty(qty)

	p, err := s.Products.Get(ctx, productID)
	if err != nil {
		return err
	}
	if qty > p.Stock {
		return fmt.Errorf("%w: %s has %d", ErrInsufficientStock, p.ID, p.Stock)
	}
	repo := s.Strategy.For(sess)
	lines, err := repo.Lines(ctx)
	if err != nil {
		return fmt.Errorf("cart lines: %w", err)
	}
	line := domain.CartLine{ProductID: p.ID, UnitPrice: p.Price}
	for _, l := range lines {
		if l.ProductID == p.ID {
			line = l
		}
	}
	line.Quantity = qty
	if err := repo.Upsert(ctx, line); err != nil {
		return fmt.Errorf("cart update: %w", err)
	}
	metrics.RecordCartOp("update", repo.Name())
	return nil
}

// Clear empties the session's cart, and the guest cart kept under the
// session id as well.
func (s *CartService) Clear(ctx context.Context, sess *Session) error {
	unlock := s.lock(sess)
	defer unlock()
	return s.clear(ctx, sess)
}

func (s *CartService) clear(ctx context.Context, sess *Session) error {
	repo := s.Strategy.For(sess)
	if err := repo.Clear(ctx); err != nil {
		return fmt.Errorf("cart clear: %w", err)
	}
	if sess.Authenticated() {
		if err := s.Strategy.Guest(sess.ID).Clear(ctx); err != nil {
			applog.Warn("cart.clear_local", err, map[string]any{"sid": sess.ID})
		}
	}
	metrics.RecordCartOp("clear", repo.Name())
	return nil
}

// Items resolves the cart lines against the catalog. Lines whose product
// no longer exists are skipped.
func (s *CartService) Items(ctx context.Context, sess *Session) ([]domain.CartItem, error) {
	lines, err := s.Strategy.For(sess).Lines(ctx)
	if err != nil {
		return nil, fmt.Errorf("cart lines: %w", err)
	}
	items := make([]domain.CartItem, 0, len(lines))
	for _, l := range lines {
		p, err := s.Products.Get(ctx, l.ProductID)
		if errors.Is(err, domain.ErrNotFound) {
			applog.Warn("cart.stale_line", err, map[string]any{"product_id": l.ProductID})
			continue
		}
		if err != nil {
			return nil, err
		}
		if l.UnitPrice > 0 {
			p.Price = l.UnitPrice
		}
		items = append(items, domain.CartItem{Product: p, Quantity: l.Quantity})
	}
	return items, nil
}

func (s *CartService) View(ctx context.Context, sess *Session) (CartView, error) {
	items, err := s.Items(ctx, sess)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Items: items, TotalItems: TotalItems(items), TotalPrice: TotalPrice(items)}, nil
}

func (s *CartService) TotalItems(ctx context.Context, sess *Session) (int, error) {
	items, err := s.Items(ctx, sess)
	return TotalItems(items), err
}

func (s *CartService) TotalPrice(ctx context.Context, sess *Session) (float64, error) {
	items, err := s.Items(ctx, sess)
	return TotalPrice(items), err
}

// Reload re-reads the cart from its store. It is called after sign-in so
// the session reflects the backend cart.
func (s *CartService) Reload(ctx context.Context, sess *Session) (CartView, error) {
	unlock := s.lock(sess)
	defer unlock()
	return s.View(ctx, sess)
}

// MergeGuest moves the session's guest lines into the now signed-in
// user's backend cart, adding quantities for products already there.
// Merged quantities are capped at the product's stock; lines for missing
// or sold-out products are dropped.
func (s *CartService) MergeGuest(ctx context.Context, sess *Session) error {
	if !sess.Authenticated() {
		return ErrNotAuthenticated
	}
	unlock := s.lock(sess)
	defer unlock()

	guest := s.Strategy.Guest(sess.ID)
	glines, err := guest.Lines(ctx)
	if err != nil {
		return err
	}
	if len(glines) == 0 {
		return nil
	}
	user := s.Strategy.For(sess)
	ulines, err := user.Lines(ctx)
	if err != nil {
		return fmt.Errorf("cart merge: %w", err)
	}
	have := map[string]domain.CartLine{}
	for _, l := range ulines {
		have[l.ProductID] = l
	}
	for _, g := range glines {
		p, err := s.Products.Get(ctx, g.ProductID)
		if errors.Is(err, domain.ErrNotFound) {
			applog.Warn("cart.merge_stale", err, map[string]any{"product_id": g.ProductID})
			continue
		}
		if err != nil {
			return fmt.Errorf("cart merge: %w", err)
		}
		line := g
		if u, ok := have[g.ProductID]; ok {
			line = u
			line.Quantity = validate.ClampQty(u.Quantity + g.Quantity)
		}
		if line.Quantity > p.Stock {
			applog.Warn("cart.merge_capped", nil, map[string]any{
				"product_id": p.ID, "qty": line.Quantity, "stock": p.Stock,
			})
			line.Quantity = p.Stock
		}
		if line.Quantity < 1 {
			continue
		}
		if err := user.Upsert(ctx, line); err != nil {
			return fmt.Errorf("cart merge: %w", err)
		}
	}
	metrics.RecordCartOp("merge", user.Name())
	return guest.Clear(ctx)
}

// Forget drops the guest cart kept under sid. The backend cart is kept.
func (s *CartService) Forget(ctx context.Context, sid string) error {
	return s.Strategy.Guest(sid).Clear(ctx)
}
