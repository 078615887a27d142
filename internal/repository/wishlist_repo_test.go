package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistAddIsIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWishlistRepository(db)

	// first add inserts
	mock.ExpectQuery("SELECT id FROM wishlist_items").
		WithArgs(1, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO wishlist_items").
		WithArgs(1, 10, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	// second add finds the row and does nothing
	mock.ExpectQuery("SELECT id FROM wishlist_items").
		WithArgs(1, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	inserted, err := repo.Add(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Add(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.False(t, inserted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWishlistAddRaceIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM wishlist_items").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO wishlist_items").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	inserted, err := NewWishlistRepository(db).Add(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
