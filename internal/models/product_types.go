package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the model for the 'products' table.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Author      string          `json:"author" db:"author"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	CategoryID  int64           `json:"categoryId" db:"category_id"`
	ImageURL    string          `json:"imageUrl" db:"image_url"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`

	// Joined from categories, populated by catalog queries.
	CategoryName string `json:"categoryName,omitempty" db:"-"`
}

// InStock reports whether at least one copy is available.
func (p Product) InStock() bool { return p.Stock > 0 }
