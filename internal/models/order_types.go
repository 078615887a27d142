package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderStatusCompleted = "completed"

// Order is the model for the 'orders' table
type Order struct {
	ID        int64           `json:"id" db:"id"`
	UserID    int64           `json:"userId" db:"user_id"`
	Total     decimal.Decimal `json:"total" db:"total"`
	Status    string          `json:"status" db:"status"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`

	Items    []OrderItem `json:"items,omitempty" db:"-"`
	Username string      `json:"username,omitempty" db:"-"` // admin listings
}

// OrderItem is the model for the 'order_items' table
type OrderItem struct {
	ID        int64           `json:"id" db:"id"`
	OrderID   int64           `json:"orderId" db:"order_id"`
	ProductID int64           `json:"productId" db:"product_id"`
	Title     string          `json:"title" db:"title"` // Title at the time of purchase
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"` // Price at the time of purchase
}

// LineTotal is the frozen unit price × quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// AdminStats is the admin dashboard summary.
type AdminStats struct {
	Products     int             `json:"products"`
	Orders       int             `json:"orders"`
	Users        int             `json:"users"`
	Revenue      decimal.Decimal `json:"revenue"`
	RecentOrders []Order         `json:"recentOrders"`
}
