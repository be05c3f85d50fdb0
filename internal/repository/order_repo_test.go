package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderCountByPrefix(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders"`).
		WithArgs("VTE-20260830-%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.CountByPrefix(context.Background(), "VTE-20260830-")
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderFindByIDForUpdateLocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)
	orderID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "order_code", "total_amount", "paid_amount", "remaining_amount", "payment_status"}).
		AddRow(orderID, "VTE-20260830-00003", "100000", "40000", "60000", "partial")
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = .+ FOR UPDATE`).
		WillReturnRows(rows)

	order, err := repo.FindByIDForUpdate(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, "VTE-20260830-00003", order.OrderCode)
	assert.True(t, order.RemainingAmount.Equal(decimal.NewFromInt(60000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderListPaymentsOrdering(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)
	orderID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "order_id", "amount", "method"}).
		AddRow(uuid.New(), orderID, "40000", "cash").
		AddRow(uuid.New(), orderID, "60000", "bank_transfer")
	mock.ExpectQuery(`SELECT \* FROM "order_payments" WHERE order_id = .+ ORDER BY created_at asc`).
		WillReturnRows(rows)

	payments, err := repo.ListPayments(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "cash", payments[0].Method)
	assert.Equal(t, "bank_transfer", payments[1].Method)
}
