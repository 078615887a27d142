package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/k-krishaa/Books/internal/models"
	"github.com/k-krishaa/Books/internal/repository"
)

type CheckoutService struct {
	DB      *sql.DB
	Carts   *repository.CartRepository
	Catalog *repository.CatalogRepository
	Orders  *repository.OrderRepository

	now func() time.Time
}

func NewCheckoutService(db *sql.DB, carts *repository.CartRepository, catalog *repository.CatalogRepository, orders *repository.OrderRepository) *CheckoutService {
	return &CheckoutService{DB: db, Carts: carts, Catalog: catalog, Orders: orders, now: time.Now}
}

// Checkout converts the user's cart into a completed order.
//
// Everything happens in one transaction: the cart and product rows are locked,
// the order and its items are written at current prices, stock is decremented
// and the cart is emptied. Stock may go negative; that is logged, not refused.
func (s *CheckoutService) Checkout(ctx context.Context, userID int64) (*models.Order, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback()

	lines, err := s.Carts.Lines(ctx, tx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		UserID:    userID,
		Total:     CartTotal(lines),
		Status:    models.OrderStatusCompleted,
		CreatedAt: s.now(),
	}
	if err := s.Orders.Insert(ctx, tx, order); err != nil {
		return nil, err
	}

	for _, l := range lines {
		item := models.OrderItem{
			OrderID:   order.ID,
			ProductID: l.ProductID,
			Title:     l.Title,
			Quantity:  l.Quantity,
			UnitPrice: l.Price,
		}
		if err := s.Orders.InsertItem(ctx, tx, &item); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)

		if err := s.Catalog.DecrementStock(ctx, tx, l.ProductID, l.Quantity); err != nil {
			return nil, err
		}
		if l.Stock < l.Quantity {
			log.Printf("WARNING: order %d oversells product %d (stock %d, ordered %d)", order.ID, l.ProductID, l.Stock, l.Quantity)
		}
	}

	if _, err := s.Carts.Clear(ctx, tx, userID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}
	return order, nil
}
