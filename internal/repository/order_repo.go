package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/k-krishaa/Books/internal/models"
	"github.com/shopspring/decimal"
)

type OrderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// Insert writes the order header and sets o.ID.
func (r *OrderRepository) Insert(ctx context.Context, q Querier, o *models.Order) error {
	res, err := q.ExecContext(ctx,
		"INSERT INTO orders (user_id, total, status, created_at) VALUES (?, ?, ?, ?)",
		o.UserID, o.Total, o.Status, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = id
	return nil
}

// InsertItem snapshots one purchased line.
func (r *OrderRepository) InsertItem(ctx context.Context, q Querier, it *models.OrderItem) error {
	res, err := q.ExecContext(ctx,
		"INSERT INTO order_items (order_id, product_id, title, quantity, unit_price) VALUES (?, ?, ?, ?, ?)",
		it.OrderID, it.ProductID, it.Title, it.Quantity, it.UnitPrice)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = id
	return nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, total, status, created_at
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// GetForUser returns the order only if it belongs to userID.
func (r *OrderRepository) GetForUser(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	var o models.Order
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, total, status, created_at FROM orders WHERE id = ? AND user_id = ?", orderID, userID).
		Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (r *OrderRepository) Items(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, order_id, product_id, title, quantity, unit_price
		FROM order_items
		WHERE order_id = ?
		ORDER BY id ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Title, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Recent returns the newest orders across all users with the buyer's username.
func (r *OrderRepository) Recent(ctx context.Context, limit int) ([]models.Order, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT o.id, o.user_id, o.total, o.status, o.created_at, COALESCE(u.username, '')
		FROM orders o
		LEFT JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt, &o.Username); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Summary returns store-wide counts and revenue in one round trip.
func (r *OrderRepository) Summary(ctx context.Context) (products, orders, users int, revenue decimal.Decimal, err error) {
	err = r.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM users),
			(SELECT COALESCE(SUM(total), 0) FROM orders)`).
		Scan(&products, &orders, &users, &revenue)
	return products, orders, users, revenue, err
}
