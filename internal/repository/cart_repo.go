package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/k-krishaa/Books/internal/models"
)

type CartRepository struct {
	DB *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{DB: db}
}

// AddOrIncrement inserts a cart row or adds qty to the existing (user, product) row.
func (r *CartRepository) AddOrIncrement(ctx context.Context, userID, productID int64, qty int) error {
	now := time.Now()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			quantity = quantity + VALUES(quantity),
			updated_at = VALUES(updated_at)`,
		userID, productID, qty, now, now)
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

// GetItemForUser returns the cart row only if it belongs to userID.
func (r *CartRepository) GetItemForUser(ctx context.Context, userID, itemID int64) (*models.CartItem, error) {
	var it models.CartItem
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE id = ? AND user_id = ?`, itemID, userID).
		Scan(&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &it, nil
}

func (r *CartRepository) SetQuantity(ctx context.Context, itemID int64, qty int) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE cart_items SET quantity = ?, updated_at = ? WHERE id = ?", qty, time.Now(), itemID)
	if err != nil {
		return fmt.Errorf("update cart item %d: %w", itemID, err)
	}
	return affectedOne(res)
}

func (r *CartRepository) DeleteItem(ctx context.Context, itemID int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM cart_items WHERE id = ?", itemID)
	if err != nil {
		return fmt.Errorf("delete cart item %d: %w", itemID, err)
	}
	return affectedOne(res)
}

// Lines returns the user's cart joined with current product data, oldest first.
// With forUpdate the product and cart rows stay locked until q's transaction ends.
func (r *CartRepository) Lines(ctx context.Context, q Querier, userID int64, forUpdate bool) ([]models.CartLine, error) {
	query := `
		SELECT ci.id, ci.product_id, p.title, p.author, p.image_url, p.price, p.stock, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = ?
		ORDER BY ci.id ASC`
	if forUpdate {
		query += "\n\t\tFOR UPDATE"
	}

	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var l models.CartLine
		if err := rows.Scan(&l.ItemID, &l.ProductID, &l.Title, &l.Author, &l.ImageURL, &l.Price, &l.Stock, &l.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// Clear deletes every cart row of a user and returns how many were removed.
func (r *CartRepository) Clear(ctx context.Context, q Querier, userID int64) (int64, error) {
	res, err := q.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return res.RowsAffected()
}
