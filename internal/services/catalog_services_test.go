package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/k-krishaa/Books/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogQuery(t *testing.T) {
	q := NewCatalogQuery("3", "  dune ", "PRICE_DESC")
	id, ok := q.Category.Get()
	assert.True(t, ok)
	assert.Equal(t, int64(3), id)
	assert.Equal(t, "dune", q.Search)
	assert.Equal(t, repository.SortPriceDesc, q.Sort)
	assert.False(t, q.InvalidCategory)

	q = NewCatalogQuery("", "", "bogus")
	assert.True(t, q.Category.IsAbsent())
	assert.Equal(t, repository.SortNameAsc, q.Sort)

	for _, raw := range []string{"abc", "-1", "0", "1.5"} {
		assert.True(t, NewCatalogQuery(raw, "", "").InvalidCategory, raw)
	}
}

func TestSearchInvalidCategoryIsEmpty(t *testing.T) {
	db, _ := newMock(t)
	svc := NewCatalogService(repository.NewCatalogRepository(db))

	products, err := svc.Search(context.Background(), NewCatalogQuery("fiction", "", ""))
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestSearchPassesFilter(t *testing.T) {
	db, mock := newMock(t)
	svc := NewCatalogService(repository.NewCatalogRepository(db))
	now := time.Now()

	mock.ExpectQuery("WHERE p.category_id = (.+)ORDER BY p.price ASC").
		WithArgs(2, "%sky%", "%sky%").
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(4, "Sky", "Lin", "", "5.00", 1, 2, "", now, now, "Science"))

	products, err := svc.Search(context.Background(), NewCatalogQuery("2", "Sky", "price_asc"))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Sky", products[0].Title)
}

func TestSearchMissingCategoryIsEmpty(t *testing.T) {
	db, mock := newMock(t)
	svc := NewCatalogService(repository.NewCatalogRepository(db))

	mock.ExpectQuery("WHERE p.category_id").WithArgs(999).WillReturnRows(sqlmock.NewRows(productCols))

	products, err := svc.Search(context.Background(), NewCatalogQuery("999", "", ""))
	require.NoError(t, err)
	assert.Empty(t, products)
}
