package repository

import (
	"context"

	"github.com/Abobakr505/Skandr-Shop/internal/cart/domain"
)

// CartRepository defines the interface for session cart persistence.
type CartRepository interface {
	// Get retrieves the cart for a session id.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the session
	// and resetting its TTL.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the cart for a session id.
	Delete(ctx context.Context, sessionID string) error
}
