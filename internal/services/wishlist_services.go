package services

import (
	"context"

	"github.com/k-krishaa/Books/internal/models"
	"github.com/k-krishaa/Books/internal/repository"
)

type WishlistService struct {
	Wishlist *repository.WishlistRepository
	Catalog  *repository.CatalogRepository
}

func NewWishlistService(w *repository.WishlistRepository, catalog *repository.CatalogRepository) *WishlistService {
	return &WishlistService{Wishlist: w, Catalog: catalog}
}

// Add saves a product for later. Adding it twice is a no-op; added reports
// whether anything changed.
func (s *WishlistService) Add(ctx context.Context, userID, productID int64) (added bool, err error) {
	if _, err := s.Catalog.GetProduct(ctx, productID); err != nil {
		return false, err
	}
	return s.Wishlist.Add(ctx, userID, productID)
}

func (s *WishlistService) Remove(ctx context.Context, userID, itemID int64) error {
	item, err := s.Wishlist.GetItemForUser(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.Wishlist.DeleteItem(ctx, item.ID)
}

func (s *WishlistService) List(ctx context.Context, userID int64) ([]models.WishlistItem, error) {
	return s.Wishlist.List(ctx, userID)
}
