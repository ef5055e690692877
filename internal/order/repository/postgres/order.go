package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Abobakr505/Skandr-Shop/internal/order/domain"
	"github.com/Abobakr505/Skandr-Shop/internal/order/repository"
	"github.com/Abobakr505/Skandr-Shop/pkg/database"
	apperrors "github.com/Abobakr505/Skandr-Shop/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts the order header and all lines within a single transaction.
// A duplicate idempotency key maps to ErrAlreadyExists so the caller can
// fetch and return the original order.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orderQuery := `
		INSERT INTO orders (id, customer_name, customer_phone, customer_address, notes, status, total_amount, idempotency_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = tx.Exec(ctx, orderQuery,
		o.ID,
		o.CustomerName,
		o.CustomerPhone,
		o.CustomerAddress,
		o.Notes,
		o.Status,
		o.TotalAmount,
		o.IdempotencyKey,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("order", "idempotency_key", o.IdempotencyKey)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	lineQuery := `
		INSERT INTO order_items (id, order_id, product_id, product_name, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, line := range o.Lines {
		_, err = tx.Exec(ctx, lineQuery,
			line.ID,
			line.OrderID,
			line.ProductID,
			line.ProductName,
			line.Price,
			line.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID, eagerly loading its lines.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.getOneBy(ctx, "o.id", id)
}

// GetByIdempotencyKey retrieves an order by the idempotency key it was
// created with.
func (r *OrderRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error) {
	return r.getOneBy(ctx, "o.idempotency_key", key)
}

// getOneBy fetches order and lines in a single query using LEFT JOIN +
// JSONB_AGG to avoid a second round trip for the lines.
func (r *OrderRepository) getOneBy(ctx context.Context, column, value string) (*domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT
			o.id, o.customer_name, o.customer_phone, o.customer_address,
			o.notes, o.status, o.total_amount, o.idempotency_key,
			o.created_at, o.updated_at,
			COALESCE(
				JSONB_AGG(
					JSONB_BUILD_OBJECT(
						'id', oi.id,
						'order_id', oi.order_id,
						'product_id', oi.product_id,
						'product_name', oi.product_name,
						'price', oi.price,
						'quantity', oi.quantity
					) ORDER BY oi.id
				) FILTER (WHERE oi.id IS NOT NULL),
				'[]'::jsonb
			) AS lines
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE %s = $1
		GROUP BY o.id, o.customer_name, o.customer_phone, o.customer_address,
			o.notes, o.status, o.total_amount, o.idempotency_key,
			o.created_at, o.updated_at`, column)

	var (
		o         domain.Order
		linesJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, value).Scan(
		&o.ID,
		&o.CustomerName,
		&o.CustomerPhone,
		&o.CustomerAddress,
		&o.Notes,
		&o.Status,
		&o.TotalAmount,
		&o.IdempotencyKey,
		&o.CreatedAt,
		&o.UpdatedAt,
		&linesJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", value)
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if len(linesJSON) > 0 && string(linesJSON) != "null" && string(linesJSON) != "[]" {
		if err := json.Unmarshal(linesJSON, &o.Lines); err != nil {
			return nil, fmt.Errorf("unmarshal order lines: %w", err)
		}
	} else {
		o.Lines = []domain.OrderLine{}
	}

	return &o, nil
}

// List returns orders matching the given filter with the total count.
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Use count(*) OVER() for total count in a single query.
	query := fmt.Sprintf(`
		SELECT id, customer_name, customer_phone, customer_address, notes, status, total_amount, idempotency_key, created_at, updated_at,
			   count(*) OVER() AS total_count
		FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var totalCount int
	orders := make([]domain.Order, 0)

	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.CustomerName,
			&o.CustomerPhone,
			&o.CustomerAddress,
			&o.Notes,
			&o.Status,
			&o.TotalAmount,
			&o.IdempotencyKey,
			&o.CreatedAt,
			&o.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	// Batch-load lines for all orders in a single query to avoid N+1.
	if len(orders) > 0 {
		orderIDs := make([]string, len(orders))
		for i := range orders {
			orderIDs[i] = orders[i].ID
		}

		linesQuery := `
			SELECT id, order_id, product_id, product_name, price, quantity
			FROM order_items
			WHERE order_id = ANY($1)
			ORDER BY id`

		lineRows, err := r.pool.Query(ctx, linesQuery, orderIDs)
		if err != nil {
			return nil, 0, fmt.Errorf("batch load order lines: %w", err)
		}
		defer lineRows.Close()

		linesByOrderID := make(map[string][]domain.OrderLine, len(orders))
		for lineRows.Next() {
			var line domain.OrderLine
			if err := lineRows.Scan(
				&line.ID,
				&line.OrderID,
				&line.ProductID,
				&line.ProductName,
				&line.Price,
				&line.Quantity,
			); err != nil {
				return nil, 0, fmt.Errorf("scan order line: %w", err)
			}
			linesByOrderID[line.OrderID] = append(linesByOrderID[line.OrderID], line)
		}
		if err := lineRows.Err(); err != nil {
			return nil, 0, fmt.Errorf("iterate order line rows: %w", err)
		}

		for i := range orders {
			if lines, ok := linesByOrderID[orders[i].ID]; ok {
				orders[i].Lines = lines
			} else {
				orders[i].Lines = []domain.OrderLine{}
			}
		}
	}

	return orders, totalCount, nil
}

// UpdateStatus changes the status of an order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
