package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WishlistItem defines the struct for the 'wishlist_items' table
type WishlistItem struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Joined product fields for the wishlist page.
	Title    string          `json:"title" db:"-"`
	Author   string          `json:"author" db:"-"`
	Price    decimal.Decimal `json:"price" db:"-"`
	ImageURL string          `json:"imageUrl" db:"-"`
	Stock    int             `json:"stock" db:"-"`
}
