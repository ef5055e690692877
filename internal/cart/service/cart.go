package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cartdomain "github.com/Abobakr505/Skandr-Shop/internal/cart/domain"
	"github.com/Abobakr505/Skandr-Shop/internal/cart/repository"
	catalogdomain "github.com/Abobakr505/Skandr-Shop/internal/catalog/domain"
	apperrors "github.com/Abobakr505/Skandr-Shop/pkg/errors"
)

// Cart operation upper-bound limits to prevent abuse.
const (
	// MaxQuantityPerLine is the maximum quantity allowed for a single line.
	MaxQuantityPerLine = 100
	// MaxLinesPerCart is the maximum number of distinct lines in a cart.
	MaxLinesPerCart = 50
)

// ProductGetter resolves product snapshots for cart mutations. Pricing is
// server-side authoritative: clients send product ids and quantities only.
type ProductGetter interface {
	GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error)
}

// CartService implements the business logic for session cart operations.
type CartService struct {
	repo    repository.CartRepository
	catalog ProductGetter
	logger  *slog.Logger
	cartTTL time.Duration
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, catalog ProductGetter, logger *slog.Logger, cartTTL time.Duration) *CartService {
	return &CartService{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
		cartTTL: cartTTL,
	}
}

// GetCart retrieves the cart for a session. If no cart exists, returns an
// empty cart without persisting it.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*cartdomain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddItem adds a product to the session's cart. The product snapshot (name,
// unit price, image) is resolved from the catalog; a line for the same
// product merges by increasing quantity.
func (s *CartService) AddItem(ctx context.Context, sessionID, productID string, quantity int) (*cartdomain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if quantity < 1 {
		return nil, apperrors.InvalidInput("quantity must be at least 1")
	}
	if quantity > MaxQuantityPerLine {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerLine))
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("resolve product for cart: %w", err)
	}

	cart, err := s.getOrCreateCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if i := cart.FindLineIndex(productID); i >= 0 {
		if cart.Lines[i].Quantity+quantity > MaxQuantityPerLine {
			return nil, apperrors.InvalidInput(fmt.Sprintf("combined quantity must not exceed %d", MaxQuantityPerLine))
		}
	} else if len(cart.Lines) >= MaxLinesPerCart {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d lines", MaxLinesPerCart))
	}

	cart.AddLine(cartdomain.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		ImageURL:  product.ImageURL,
		Quantity:  quantity,
	})

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
		slog.Int64("cart_total", cart.TotalAmount()),
	)

	return cart, nil
}

// SetQuantity sets the quantity of a line directly. Quantities below 1 are
// clamped up to 1 by the cart; removing a line is an explicit RemoveItem.
func (s *CartService) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*cartdomain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if quantity > MaxQuantityPerLine {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerLine))
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get cart for update: %w", err)
	}

	if !cart.SetQuantity(productID, quantity) {
		return nil, apperrors.NotFound("cart line", productID)
	}

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "cart line quantity updated",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// RemoveItem removes a line from the cart. Removing an absent product id is
// a no-op that returns the cart unchanged.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (*cartdomain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart for remove: %w", err)
	}

	if cart.FindLineIndex(productID) < 0 {
		return cart, nil
	}

	cart.RemoveLine(productID)

	if err := s.saveCart(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "line removed from cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
	)

	return cart, nil
}

// ClearCart removes the session's cart entirely.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return nil
}

// getOrCreateCart retrieves the cart for a session, creating an empty one if
// it does not exist.
func (s *CartService) getOrCreateCart(ctx context.Context, sessionID string) (*cartdomain.Cart, error) {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newEmptyCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// saveCart stamps the cart and persists it, refreshing the TTL.
func (s *CartService) saveCart(ctx context.Context, cart *cartdomain.Cart) error {
	now := time.Now().UTC()
	cart.UpdatedAt = now
	cart.ExpiresAt = now.Add(s.cartTTL)

	if err := s.repo.Save(ctx, cart); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// newEmptyCart creates a new empty cart for the given session.
func (s *CartService) newEmptyCart(sessionID string) *cartdomain.Cart {
	now := time.Now().UTC()
	return &cartdomain.Cart{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Lines:     []cartdomain.CartLine{},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.cartTTL),
	}
}
