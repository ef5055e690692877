package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cartdomain "github.com/Abobakr505/Skandr-Shop/internal/cart/domain"
	"github.com/Abobakr505/Skandr-Shop/internal/order/domain"
	"github.com/Abobakr505/Skandr-Shop/internal/order/repository"
	apperrors "github.com/Abobakr505/Skandr-Shop/pkg/errors"
)

// CartStore is the slice of the cart layer the checkout flow needs. It is
// satisfied by the Redis cart repository.
type CartStore interface {
	Get(ctx context.Context, sessionID string) (*cartdomain.Cart, error)
	Delete(ctx context.Context, sessionID string) error
}

// EventPublisher publishes order lifecycle events. Failures are logged and
// never surfaced to the caller.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, o *domain.Order) error
	PublishOrderStatusChanged(ctx context.Context, orderID, oldStatus, newStatus, reason string) error
}

// SubmitOrderInput carries the customer details collected at checkout.
// Pricing is never part of the input. Totals are computed from the cart.
type SubmitOrderInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	Notes           string
	IdempotencyKey  string
}

// OrderService implements the checkout workflow and order administration.
type OrderService struct {
	repo          repository.OrderRepository
	carts         CartStore
	events        EventPublisher
	logger        *slog.Logger
	submitTimeout time.Duration
}

// NewOrderService creates a new order service.
func NewOrderService(
	repo repository.OrderRepository,
	carts CartStore,
	events EventPublisher,
	logger *slog.Logger,
	submitTimeout time.Duration,
) *OrderService {
	return &OrderService{
		repo:          repo,
		carts:         carts,
		events:        events,
		logger:        logger,
		submitTimeout: submitTimeout,
	}
}

// SubmitOrder turns the session's cart into a persisted order. The header
// and all lines are written in one transaction, so a failure leaves no
// partial order behind. Resubmitting with the same idempotency key returns
// the order created by the first attempt.
func (s *OrderService) SubmitOrder(ctx context.Context, sessionID string, input SubmitOrderInput) (*domain.Order, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()

	key := input.IdempotencyKey
	if key == "" {
		key = uuid.New().String()
	} else {
		existing, err := s.repo.GetByIdempotencyKey(ctx, key)
		if err == nil {
			s.logger.InfoContext(ctx, "checkout replayed",
				slog.String("order_id", existing.ID),
				slog.String("idempotency_key", key),
			)
			return existing, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("lookup idempotency key: %w", err)
		}
	}

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidInput("cart is empty")
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:              uuid.New().String(),
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		CustomerAddress: input.CustomerAddress,
		Notes:           input.Notes,
		Status:          domain.OrderStatusPending,
		TotalAmount:     cart.TotalAmount(),
		IdempotencyKey:  key,
		Lines:           make([]domain.OrderLine, 0, len(cart.Lines)),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, line := range cart.Lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Price:       line.Price,
			Quantity:    line.Quantity,
		})
	}

	if err := s.repo.Create(ctx, order); err != nil {
		// A concurrent submit with the same key won the race. Return its order.
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return s.repo.GetByIdempotencyKey(ctx, key)
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	// Cart cleanup and event publishing run after commit and never fail
	// the checkout.
	if err := s.carts.Delete(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("order_id", order.ID),
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.events.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order submitted",
		slog.String("order_id", order.ID),
		slog.Int64("total_amount", order.TotalAmount),
		slog.Int("lines", len(order.Lines)),
	)

	return order, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// ListOrders returns orders matching the filter with the total count.
func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	if filter.Status != nil && !domain.IsValidStatus(*filter.Status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid status: %s", *filter.Status))
	}
	return s.repo.List(ctx, filter)
}

// UpdateOrderStatus moves an order to a new status, enforcing the allowed
// transitions.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id, newStatus string) (*domain.Order, error) {
	if !domain.IsValidStatus(newStatus) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid status: %s", newStatus))
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.CanTransitionTo(newStatus) {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot transition order from %s to %s", order.Status, newStatus))
	}

	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	oldStatus := order.Status
	order.Status = newStatus
	order.UpdatedAt = time.Now().UTC()

	if err := s.events.PublishOrderStatusChanged(ctx, id, oldStatus, newStatus, ""); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish status changed event",
			slog.String("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", id),
		slog.String("old_status", oldStatus),
		slog.String("new_status", newStatus),
	)

	return order, nil
}

// CancelOrder cancels an order if its current status allows it.
func (s *OrderService) CancelOrder(ctx context.Context, id, reason string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.CanTransitionTo(domain.OrderStatusCanceled) {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot cancel order in status %s", order.Status))
	}

	if err := s.repo.UpdateStatus(ctx, id, domain.OrderStatusCanceled); err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	oldStatus := order.Status
	order.Status = domain.OrderStatusCanceled
	order.UpdatedAt = time.Now().UTC()

	if err := s.events.PublishOrderStatusChanged(ctx, id, oldStatus, domain.OrderStatusCanceled, reason); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish status changed event",
			slog.String("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order canceled",
		slog.String("order_id", id),
		slog.String("reason", reason),
	)

	return order, nil
}
