package services

import (
	"context"

	"github.com/k-krishaa/Books/internal/models"
	"github.com/k-krishaa/Books/internal/repository"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type CartService struct {
	Carts   *repository.CartRepository
	Catalog *repository.CatalogRepository
}

func NewCartService(carts *repository.CartRepository, catalog *repository.CatalogRepository) *CartService {
	return &CartService{Carts: carts, Catalog: catalog}
}

// CartTotal sums price × quantity over the lines.
func CartTotal(lines []models.CartLine) decimal.Decimal {
	return lo.Reduce(lines, func(acc decimal.Decimal, l models.CartLine, _ int) decimal.Decimal {
		return acc.Add(l.LineTotal())
	}, decimal.Zero)
}

// BuildCart wraps lines with their totals.
func BuildCart(lines []models.CartLine) *models.Cart {
	return &models.Cart{
		Lines:      lines,
		Total:      CartTotal(lines),
		TotalItems: lo.SumBy(lines, func(l models.CartLine) int { return l.Quantity }),
	}
}

// Add puts qty copies of a product in the cart, incrementing an existing line.
// Stock is not checked here.
func (s *CartService) Add(ctx context.Context, userID, productID int64, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if _, err := s.Catalog.GetProduct(ctx, productID); err != nil {
		return err
	}
	return s.Carts.AddOrIncrement(ctx, userID, productID, qty)
}

// Update sets the quantity of one of the user's lines. Zero or less removes it.
func (s *CartService) Update(ctx context.Context, userID, itemID int64, qty int) error {
	item, err := s.Carts.GetItemForUser(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if qty <= 0 {
		return s.Carts.DeleteItem(ctx, item.ID)
	}
	return s.Carts.SetQuantity(ctx, item.ID, qty)
}

func (s *CartService) Remove(ctx context.Context, userID, itemID int64) error {
	item, err := s.Carts.GetItemForUser(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.Carts.DeleteItem(ctx, item.ID)
}

func (s *CartService) View(ctx context.Context, userID int64) (*models.Cart, error) {
	lines, err := s.Carts.Lines(ctx, s.Carts.DB, userID, false)
	if err != nil {
		return nil, err
	}
	return BuildCart(lines), nil
}
