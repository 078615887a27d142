package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/k-krishaa/Books/internal/models"
	"github.com/k-krishaa/Books/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckoutService(t *testing.T) (*CheckoutService, sqlmock.Sqlmock) {
	db, mock := newMock(t)
	return NewCheckoutService(db,
		repository.NewCartRepository(db),
		repository.NewCatalogRepository(db),
		repository.NewOrderRepository(db),
	), mock
}

func TestCheckoutCreatesOrderAtCurrentPrices(t *testing.T) {
	svc, mock := newCheckoutService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM cart_items ci(.+)FOR UPDATE").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(cartLineCols).
			AddRow(1, 10, "Dune", "Herbert", "", "12.99", 5, 2).
			AddRow(2, 11, "Emma", "Austen", "", "9.99", 0, 1))
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(1, "35.97", models.OrderStatusCompleted, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(100, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(100, 10, "Dune", 2, "12.99").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE products SET stock = stock -").
		WithArgs(2, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(100, 11, "Emma", 1, "9.99").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("UPDATE products SET stock = stock -").
		WithArgs(1, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM cart_items WHERE user_id").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	order, err := svc.Checkout(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), order.ID)
	assert.Equal(t, "35.97", order.Total.StringFixed(2))
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Dune", order.Items[0].Title)
	assert.Equal(t, "25.98", order.Items[0].LineTotal().StringFixed(2))
}

func TestCheckoutEmptyCartCreatesNothing(t *testing.T) {
	svc, mock := newCheckoutService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM cart_items ci").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(cartLineCols))
	mock.ExpectRollback()

	order, err := svc.Checkout(context.Background(), 1)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, order)
}

func TestCheckoutRollsBackOnFailure(t *testing.T) {
	svc, mock := newCheckoutService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM cart_items ci").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(cartLineCols).AddRow(1, 10, "Dune", "Herbert", "", "12.99", 5, 1))
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO order_items").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := svc.Checkout(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
