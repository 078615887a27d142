package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/k-krishaa/Books/internal/models"
)

const userColumns = "id, username, email, password_hash, is_admin, created_at"

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func scanUser(s scanner) (*models.User, error) {
	var u models.User
	if err := s.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE username = ?", username).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a user and returns ErrDuplicate when the username is taken.
func (r *UserRepository) Create(ctx context.Context, u *models.User) (int64, error) {
	u.CreatedAt = time.Now()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, is_admin, created_at) VALUES (?, ?, ?, ?, ?)",
		u.Username, u.Email, u.PasswordHash, u.IsAdmin, u.CreatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = id
	return id, nil
}

func (r *UserRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET is_admin = ? WHERE id = ?", isAdmin, id)
	if err != nil {
		return fmt.Errorf("update admin flag for user %d: %w", id, err)
	}
	return affectedOne(res)
}
