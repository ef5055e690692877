package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/Abobakr505/Skandr-Shop/internal/cart/domain"
	"github.com/Abobakr505/Skandr-Shop/internal/order/domain"
	"github.com/Abobakr505/Skandr-Shop/internal/order/repository"
	"github.com/Abobakr505/Skandr-Shop/internal/order/service"
	apperrors "github.com/Abobakr505/Skandr-Shop/pkg/errors"
)

const (
	sessionID = "9a1f0c3e-5b2d-4f6a-8c7e-1d2b3a4c5d6e"
	orderID   = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
)

// --- Mocks ---

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type mockCartStore struct {
	mock.Mock
}

func (m *mockCartStore) Get(ctx context.Context, sessionID string) (*cartdomain.Cart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartdomain.Cart), args.Error(1)
}

func (m *mockCartStore) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) PublishOrderCreated(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockEventPublisher) PublishOrderStatusChanged(ctx context.Context, orderID, oldStatus, newStatus, reason string) error {
	args := m.Called(ctx, orderID, oldStatus, newStatus, reason)
	return args.Error(0)
}

// --- Helpers ---

func testRouter(repo *mockOrderRepository, carts *mockCartStore, events *mockEventPublisher) http.Handler {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := service.NewOrderService(repo, carts, events, logger, 10*time.Second)
	handler := NewOrderHandler(svc, logger)

	r := chi.NewRouter()
	r.Post("/api/v1/checkout", handler.Checkout)
	r.Route("/api/v1/admin/orders", func(r chi.Router) {
		r.Get("/", handler.ListOrders)
		r.Get("/{id}", handler.GetOrder)
		r.Patch("/{id}/status", handler.UpdateStatus)
		r.Post("/{id}/cancel", handler.Cancel)
	})
	return r
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return rec, env
}

func validCheckout() CheckoutRequest {
	return CheckoutRequest{
		Name:    "أحمد محمد",
		Phone:   "+201001234567",
		Address: "شارع التحرير، القاهرة",
	}
}

func testCart() *cartdomain.Cart {
	return &cartdomain.Cart{
		ID:        "cart-1",
		SessionID: sessionID,
		Lines: []cartdomain.CartLine{
			{ProductID: "prod-1", Name: "شاورما فراخ", Price: 15000, Quantity: 2},
		},
	}
}

// --- Tests ---

func TestCheckout_Success(t *testing.T) {
	repo := new(mockOrderRepository)
	carts := new(mockCartStore)
	events := new(mockEventPublisher)

	carts.On("Get", mock.Anything, sessionID).Return(testCart(), nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
	carts.On("Delete", mock.Anything, sessionID).Return(nil)
	events.On("PublishOrderCreated", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	router := testRouter(repo, carts, events)
	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/checkout", validCheckout(),
		map[string]string{SessionHeader: sessionID})

	require.Equal(t, http.StatusCreated, rec.Code)
	var order domain.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, int64(30000), order.TotalAmount)
	require.Len(t, order.Lines, 1)
	repo.AssertExpectations(t)
}

func TestCheckout_MissingSession(t *testing.T) {
	router := testRouter(new(mockOrderRepository), new(mockCartStore), new(mockEventPublisher))

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/checkout", validCheckout(), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestCheckout_ValidationError(t *testing.T) {
	router := testRouter(new(mockOrderRepository), new(mockCartStore), new(mockEventPublisher))

	req := validCheckout()
	req.Phone = ""
	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/checkout", req,
		map[string]string{SessionHeader: sessionID})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Fields, "Phone")
}

func TestCheckout_EmptyCart(t *testing.T) {
	carts := new(mockCartStore)
	carts.On("Get", mock.Anything, sessionID).Return(&cartdomain.Cart{SessionID: sessionID}, nil)

	router := testRouter(new(mockOrderRepository), carts, new(mockEventPublisher))
	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/checkout", validCheckout(),
		map[string]string{SessionHeader: sessionID})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
}

func TestCheckout_IdempotentReplay(t *testing.T) {
	repo := new(mockOrderRepository)
	existing := &domain.Order{ID: orderID, Status: domain.OrderStatusPending, IdempotencyKey: "idem-1"}
	repo.On("GetByIdempotencyKey", mock.Anything, "idem-1").Return(existing, nil)

	router := testRouter(repo, new(mockCartStore), new(mockEventPublisher))
	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/checkout", validCheckout(),
		map[string]string{SessionHeader: sessionID, IdempotencyKeyHeader: "idem-1"})

	require.Equal(t, http.StatusCreated, rec.Code)
	var order domain.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, orderID, order.ID)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetOrder_Success(t *testing.T) {
	repo := new(mockOrderRepository)
	repo.On("GetByID", mock.Anything, orderID).
		Return(&domain.Order{ID: orderID, Status: domain.OrderStatusConfirmed}, nil)

	router := testRouter(repo, new(mockCartStore), new(mockEventPublisher))
	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/admin/orders/"+orderID, nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var order domain.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, orderID, order.ID)
}

func TestGetOrder_InvalidID(t *testing.T) {
	router := testRouter(new(mockOrderRepository), new(mockCartStore), new(mockEventPublisher))

	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/admin/orders/not-a-uuid", nil, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_PARAMETER", env.Error.Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	repo := new(mockOrderRepository)
	repo.On("GetByID", mock.Anything, orderID).Return(nil, apperrors.NotFound("order", orderID))

	router := testRouter(repo, new(mockCartStore), new(mockEventPublisher))
	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/admin/orders/"+orderID, nil, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
}

func TestListOrders_Paginated(t *testing.T) {
	repo := new(mockOrderRepository)
	repo.On("List", mock.Anything, mock.AnythingOfType("repository.OrderFilter")).
		Return([]domain.Order{{ID: orderID, Status: domain.OrderStatusPending}}, 1, nil)

	router := testRouter(repo, new(mockCartStore), new(mockEventPublisher))
	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/admin/orders?page=1&per_page=10", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Data       []domain.Order `json:"data"`
		TotalCount int            `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.TotalCount)
	require.Len(t, page.Data, 1)
}

func TestListOrders_StatusFilter(t *testing.T) {
	repo := new(mockOrderRepository)
	repo.On("List", mock.Anything, mock.MatchedBy(func(f repository.OrderFilter) bool {
		return f.Status != nil && *f.Status == domain.OrderStatusDelivered
	})).Return([]domain.Order{}, 0, nil)

	router := testRouter(repo, new(mockCartStore), new(mockEventPublisher))
	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/admin/orders?status=delivered", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestUpdateStatus_Success(t *testing.T) {
	repo := new(mockOrderRepository)
	events := new(mockEventPublisher)
	repo.On("GetByID", mock.Anything, orderID).
		Return(&domain.Order{ID: orderID, Status: domain.OrderStatusPending}, nil)
	repo.On("UpdateStatus", mock.Anything, orderID, domain.OrderStatusConfirmed).Return(nil)
	events.On("PublishOrderStatusChanged", mock.Anything, orderID,
		domain.OrderStatusPending, domain.OrderStatusConfirmed, "").Return(nil)

	router := testRouter(repo, new(mockCartStore), events)
	rec, env := doJSON(t, router, http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status",
		UpdateStatusRequest{Status: domain.OrderStatusConfirmed}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var order domain.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
}

func TestUpdateStatus_DisallowedTransition(t *testing.T) {
	repo := new(mockOrderRepository)
	repo.On("GetByID", mock.Anything, orderID).
		Return(&domain.Order{ID: orderID, Status: domain.OrderStatusDelivered}, nil)

	router := testRouter(repo, new(mockCartStore), new(mockEventPublisher))
	rec, env := doJSON(t, router, http.MethodPatch, "/api/v1/admin/orders/"+orderID+"/status",
		UpdateStatusRequest{Status: domain.OrderStatusPreparing}, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
}

func TestCancel_EmptyBody(t *testing.T) {
	repo := new(mockOrderRepository)
	events := new(mockEventPublisher)
	repo.On("GetByID", mock.Anything, orderID).
		Return(&domain.Order{ID: orderID, Status: domain.OrderStatusPending}, nil)
	repo.On("UpdateStatus", mock.Anything, orderID, domain.OrderStatusCanceled).Return(nil)
	events.On("PublishOrderStatusChanged", mock.Anything, orderID,
		domain.OrderStatusPending, domain.OrderStatusCanceled, "").Return(nil)

	router := testRouter(repo, new(mockCartStore), events)
	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/admin/orders/"+orderID+"/cancel", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var order domain.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, domain.OrderStatusCanceled, order.Status)
}
