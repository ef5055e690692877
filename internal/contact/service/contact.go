package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Abobakr505/Skandr-Shop/internal/contact/domain"
	"github.com/Abobakr505/Skandr-Shop/internal/contact/mailer"
	"github.com/Abobakr505/Skandr-Shop/internal/contact/repository"
)

// SubmitMessageInput carries the contact form fields.
type SubmitMessageInput struct {
	Name    string
	Email   string
	Message string
}

// ContactService persists contact messages and forwards them to the shop inbox.
type ContactService struct {
	repo   repository.MessageRepository
	mailer mailer.Mailer
	logger *slog.Logger
}

// NewContactService creates a new contact service.
func NewContactService(repo repository.MessageRepository, m mailer.Mailer, logger *slog.Logger) *ContactService {
	return &ContactService{
		repo:   repo,
		mailer: m,
		logger: logger,
	}
}

// SubmitMessage stores the message and sends the inbox notification. The
// submission succeeds once the message is persisted. A notification failure
// is logged only.
func (s *ContactService) SubmitMessage(ctx context.Context, input SubmitMessageInput) (*domain.ContactMessage, error) {
	msg := &domain.ContactMessage{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Email:     input.Email,
		Message:   input.Message,
		CreatedAt: time.Now().UTC(),
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("save contact message: %w", err)
	}

	if err := s.mailer.SendContactNotification(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "failed to send contact notification",
			slog.String("message_id", msg.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "contact message received",
		slog.String("message_id", msg.ID),
	)

	return msg, nil
}

// ListMessages returns stored contact messages, newest first.
func (s *ContactService) ListMessages(ctx context.Context, page, perPage int) ([]domain.ContactMessage, int, error) {
	return s.repo.List(ctx, page, perPage)
}
