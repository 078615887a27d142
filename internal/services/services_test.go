package services

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var (
	productCols  = []string{"id", "title", "author", "description", "price", "stock", "category_id", "image_url", "created_at", "updated_at", "category_name"}
	cartLineCols = []string{"id", "product_id", "title", "author", "image_url", "price", "stock", "quantity"}
	userCols     = []string{"id", "username", "email", "password_hash", "is_admin", "created_at"}
)
