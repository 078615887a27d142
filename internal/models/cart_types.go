package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem defines the struct for the 'cart_items' table
type CartItem struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartLine is a cart item joined with the product's current data.
type CartLine struct {
	ItemID    int64           `json:"itemId"`
	ProductID int64           `json:"productId"`
	Title     string          `json:"title"`
	Author    string          `json:"author"`
	ImageURL  string          `json:"imageUrl"`
	Price     decimal.Decimal `json:"price"` // current product price
	Stock     int             `json:"stock"`
	Quantity  int             `json:"quantity"`
}

// LineTotal is price × quantity at the product's current price.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the rendered view of a user's cart.
type Cart struct {
	Lines      []CartLine      `json:"lines"`
	Total      decimal.Decimal `json:"total"`
	TotalItems int             `json:"totalItems"`
}

func (c Cart) IsEmpty() bool { return len(c.Lines) == 0 }
