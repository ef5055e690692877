package domain

import (
	"strings"
	"time"

	apperrors "github.com/Abobakr505/Skandr-Shop/pkg/errors"
)

// ContactMessage is a message submitted through the storefront contact form.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks required fields.
func (m *ContactMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return apperrors.InvalidInput("name is required")
	}
	if strings.TrimSpace(m.Email) == "" {
		return apperrors.InvalidInput("email is required")
	}
	if strings.TrimSpace(m.Message) == "" {
		return apperrors.InvalidInput("message is required")
	}
	return nil
}
