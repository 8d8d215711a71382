package services

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"electrostore/internal/domain"
	"electrostore/internal/validate"
)

type CartService struct {
	DB    *sqlx.DB
	Carts CartStore
	Prods ProductStore
}

func NewCartService(db *sqlx.DB, carts CartStore, prods ProductStore) *CartService {
	return &CartService{DB: db, Carts: carts, Prods: prods}
}

type CartView struct {
	Lines []domain.CartLine `json:"lines"`
	Total decimal.Decimal   `json:"total"`
}

func (s *CartService) View(ctx context.Context, userID string) (CartView, error) {
	lines, err := s.Carts.Lines(ctx, s.DB, userID, false)
	if err != nil {
		return CartView{}, err
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return CartView{Lines: lines, Total: total.Round(2)}, nil
}

// Add puts qty units of productID in the cart, merging with an existing line.
func (s *CartService) Add(ctx context.Context, userID, productID string, qty int) (domain.CartLine, error) {
	if !validate.Qty(qty) {
		return domain.CartLine{}, fmt.Errorf("%w: quantity must be between 1 and %d", domain.ErrInvalidArgument, validate.MaxQty)
	}
	if _, err := s.Prods.Get(ctx, s.DB, productID); err != nil {
		return domain.CartLine{}, err
	}
	if err := s.Carts.Add(ctx, s.DB, userID, productID, qty); err != nil {
		return domain.CartLine{}, err
	}
	return s.Carts.Line(ctx, s.DB, userID, productID)
}

// Update sets the quantity of an existing line.
func (s *CartService) Update(ctx context.Context, userID, productID string, qty int) (domain.CartLine, error) {
	if !validate.Qty(qty) {
		return domain.CartLine{}, fmt.Errorf("%w: quantity must be between 1 and %d", domain.ErrInvalidArgument, validate.MaxQty)
	}
	if err := s.Carts.SetQuantity(ctx, s.DB, userID, productID, qty); err != nil {
		return domain.CartLine{}, err
	}
	return s.Carts.Line(ctx, s.DB, userID, productID)
}

func (s *CartService) Remove(ctx context.Context, userID, productID string) error {
	return s.Carts.Remove(ctx, s.DB, userID, productID)
}

// Clear empties the cart. Clearing an empty cart is not an error.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	_, err := s.Carts.Clear(ctx, s.DB, userID)
	return err
}
