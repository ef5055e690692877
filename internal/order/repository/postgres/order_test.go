package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abobakr505/Skandr-Shop/internal/order/domain"
	"github.com/Abobakr505/Skandr-Shop/internal/order/repository"
	"github.com/Abobakr505/Skandr-Shop/pkg/database"
	apperrors "github.com/Abobakr505/Skandr-Shop/pkg/errors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func testOrder() *domain.Order {
	now := time.Now().UTC()
	return &domain.Order{
		ID:              "order-1",
		CustomerName:    "أحمد محمد",
		CustomerPhone:   "+201001234567",
		CustomerAddress: "شارع التحرير، القاهرة",
		Notes:           "بدون بصل",
		Status:          domain.OrderStatusPending,
		TotalAmount:     45000,
		IdempotencyKey:  "idem-key-1",
		Lines: []domain.OrderLine{
			{ID: "line-1", OrderID: "order-1", ProductID: "prod-1", ProductName: "شاورما فراخ", Price: 15000, Quantity: 3},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)
	order := testOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(order.ID, order.CustomerName, order.CustomerPhone, order.CustomerAddress,
			order.Notes, order.Status, order.TotalAmount, order.IdempotencyKey,
			order.CreatedAt, order.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs("line-1", "order-1", "prod-1", "شاورما فراخ", int64(15000), 3).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), order)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_LineInsertFailsRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)
	order := testOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(order.ID, order.CustomerName, order.CustomerPhone, order.CustomerAddress,
			order.Notes, order.Status, order.TotalAmount, order.IdempotencyKey,
			order.CreatedAt, order.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs("line-1", "order-1", "prod-1", "شاورما فراخ", int64(15000), 3).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), order)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert order line")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_DuplicateIdempotencyKey(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)
	order := testOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(order.ID, order.CustomerName, order.CustomerPhone, order.CustomerAddress,
			order.Notes, order.Status, order.TotalAmount, order.IdempotencyKey,
			order.CreatedAt, order.UpdatedAt).
		WillReturnError(errors.New(`duplicate key value violates unique constraint "orders_idempotency_key_key" (SQLSTATE 23505)`))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), order)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)
	now := time.Now().UTC()

	linesJSON := []byte(`[{"id":"line-1","order_id":"order-1","product_id":"prod-1","product_name":"شاورما فراخ","price":15000,"quantity":3}]`)

	rows := pgxmock.NewRows([]string{
		"id", "customer_name", "customer_phone", "customer_address",
		"notes", "status", "total_amount", "idempotency_key",
		"created_at", "updated_at", "lines",
	}).AddRow("order-1", "أحمد محمد", "+201001234567", "شارع التحرير، القاهرة",
		"بدون بصل", domain.OrderStatusPending, int64(45000), "idem-key-1", now, now, linesJSON)

	mock.ExpectQuery("SELECT .+ FROM orders o").
		WithArgs("order-1").
		WillReturnRows(rows)

	order, err := repo.GetByID(context.Background(), "order-1")

	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "شاورما فراخ", order.Lines[0].ProductName)
	assert.Equal(t, int64(15000), order.Lines[0].Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM orders o").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByIdempotencyKey(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "customer_name", "customer_phone", "customer_address",
		"notes", "status", "total_amount", "idempotency_key",
		"created_at", "updated_at", "lines",
	}).AddRow("order-1", "أحمد محمد", "+201001234567", "شارع التحرير، القاهرة",
		"", domain.OrderStatusPending, int64(45000), "idem-key-1", now, now, []byte(`[]`))

	mock.ExpectQuery("SELECT .+ FROM orders o").
		WithArgs("idem-key-1").
		WillReturnRows(rows)

	order, err := repo.GetByIdempotencyKey(context.Background(), "idem-key-1")

	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Empty(t, order.Lines)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "customer_name", "customer_phone", "customer_address",
		"notes", "status", "total_amount", "idempotency_key",
		"created_at", "updated_at", "total_count",
	}).
		AddRow("order-1", "أحمد", "+201001234567", "القاهرة", "", domain.OrderStatusPending, int64(45000), "k1", now, now, 2).
		AddRow("order-2", "سارة", "+201007654321", "الجيزة", "", domain.OrderStatusConfirmed, int64(30000), "k2", now, now, 2)

	mock.ExpectQuery("SELECT .+ FROM orders").
		WithArgs(20, 0).
		WillReturnRows(rows)

	lineRows := pgxmock.NewRows([]string{"id", "order_id", "product_id", "product_name", "price", "quantity"}).
		AddRow("line-1", "order-1", "prod-1", "شاورما فراخ", int64(15000), 3).
		AddRow("line-2", "order-2", "prod-2", "كبدة اسكندراني", int64(10000), 3)

	mock.ExpectQuery("SELECT .+ FROM order_items").
		WithArgs([]string{"order-1", "order-2"}).
		WillReturnRows(lineRows)

	orders, total, err := repo.List(context.Background(), repository.OrderFilter{Page: 1, PerPage: 20})

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, orders, 2)
	require.Len(t, orders[0].Lines, 1)
	assert.Equal(t, "شاورما فراخ", orders[0].Lines[0].ProductName)
	require.Len(t, orders[1].Lines, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_StatusFilter(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)

	rows := pgxmock.NewRows([]string{
		"id", "customer_name", "customer_phone", "customer_address",
		"notes", "status", "total_amount", "idempotency_key",
		"created_at", "updated_at", "total_count",
	})

	status := domain.OrderStatusDelivered
	mock.ExpectQuery("SELECT .+ FROM orders").
		WithArgs(status, 10, 0).
		WillReturnRows(rows)

	orders, total, err := repo.List(context.Background(), repository.OrderFilter{
		Status:  &status,
		Page:    1,
		PerPage: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)

	mock.ExpectExec("UPDATE orders").
		WithArgs(domain.OrderStatusConfirmed, pgxmock.AnyArg(), "order-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateStatus(context.Background(), "order-1", domain.OrderStatusConfirmed)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewOrderRepository(mock)

	mock.ExpectExec("UPDATE orders").
		WithArgs(domain.OrderStatusConfirmed, pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.OrderStatusConfirmed)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
