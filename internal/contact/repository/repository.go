package repository

import (
	"context"

	"github.com/Abobakr505/Skandr-Shop/internal/contact/domain"
)

// MessageRepository defines the interface for contact message persistence.
type MessageRepository interface {
	// Create persists a new contact message.
	Create(ctx context.Context, msg *domain.ContactMessage) error

	// List returns contact messages ordered by newest first, with the
	// total count for pagination.
	List(ctx context.Context, page, perPage int) ([]domain.ContactMessage, int, error)
}
