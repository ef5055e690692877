package postgres

import (
	"context"
	"fmt"

	"github.com/Abobakr505/Skandr-Shop/internal/contact/domain"
	"github.com/Abobakr505/Skandr-Shop/pkg/database"
)

// MessageRepository implements repository.MessageRepository using PostgreSQL.
type MessageRepository struct {
	pool database.DBTX
}

// NewMessageRepository creates a new PostgreSQL-backed contact message repository.
func NewMessageRepository(pool database.DBTX) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Create persists a new contact message.
func (r *MessageRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, name, email, message, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, msg.ID, msg.Name, msg.Email, msg.Message, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}

	return nil
}

// List returns contact messages ordered by newest first.
func (r *MessageRepository) List(ctx context.Context, page, perPage int) ([]domain.ContactMessage, int, error) {
	if perPage <= 0 {
		perPage = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * perPage
	}

	query := `
		SELECT id, name, email, message, created_at,
			   count(*) OVER() AS total_count
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	var totalCount int
	messages := make([]domain.ContactMessage, 0)

	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.CreatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan contact message: %w", err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate contact message rows: %w", err)
	}

	return messages, totalCount, nil
}
