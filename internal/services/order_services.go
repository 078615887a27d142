package services

import (
	"context"

	"github.com/k-krishaa/Books/internal/models"
	"github.com/k-krishaa/Books/internal/repository"
)

type OrderService struct {
	Repo *repository.OrderRepository
}

func NewOrderService(r *repository.OrderRepository) *OrderService {
	return &OrderService{Repo: r}
}

// ForUser lists the user's orders, newest first, without items.
func (s *OrderService) ForUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Detail returns one of the user's orders with its items.
// Someone else's order is reported as not found.
func (s *OrderService) Detail(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	o, err := s.Repo.GetForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.Items(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}
