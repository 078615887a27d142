package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/k-krishaa/Books/internal/models"
)

type WishlistRepository struct {
	DB *sql.DB
}

func NewWishlistRepository(db *sql.DB) *WishlistRepository {
	return &WishlistRepository{DB: db}
}

// Add saves (user, product) unless it is already saved. It reports whether a row was inserted.
func (r *WishlistRepository) Add(ctx context.Context, userID, productID int64) (bool, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM wishlist_items WHERE user_id = ? AND product_id = ?", userID, productID).Scan(&id)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO wishlist_items (user_id, product_id, created_at) VALUES (?, ?, ?)",
		userID, productID, time.Now())
	if err != nil {
		if isDuplicateKey(err) {
			// A concurrent add won the race.
			return false, nil
		}
		return false, fmt.Errorf("insert wishlist item: %w", err)
	}
	return true, nil
}

// GetItemForUser returns the wishlist row only if it belongs to userID.
func (r *WishlistRepository) GetItemForUser(ctx context.Context, userID, itemID int64) (*models.WishlistItem, error) {
	var it models.WishlistItem
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, product_id, created_at FROM wishlist_items WHERE id = ? AND user_id = ?", itemID, userID).
		Scan(&it.ID, &it.UserID, &it.ProductID, &it.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &it, nil
}

func (r *WishlistRepository) DeleteItem(ctx context.Context, itemID int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM wishlist_items WHERE id = ?", itemID)
	if err != nil {
		return fmt.Errorf("delete wishlist item %d: %w", itemID, err)
	}
	return affectedOne(res)
}

func (r *WishlistRepository) List(ctx context.Context, userID int64) ([]models.WishlistItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT w.id, w.user_id, w.product_id, w.created_at, p.title, p.author, p.price, p.image_url, p.stock
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = ?
		ORDER BY w.created_at DESC, w.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.WishlistItem
	for rows.Next() {
		var it models.WishlistItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductID, &it.CreatedAt, &it.Title, &it.Author, &it.Price, &it.ImageURL, &it.Stock); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
