package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abobakr505/Skandr-Shop/internal/contact/domain"
	"github.com/Abobakr505/Skandr-Shop/pkg/database"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestMessageRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewMessageRepository(mock)
	now := time.Now().UTC()

	msg := &domain.ContactMessage{
		ID:        "msg-1",
		Name:      "سارة علي",
		Email:     "sara@example.com",
		Message:   "هل يوجد توصيل للمعادي؟",
		CreatedAt: now,
	}

	mock.ExpectExec("INSERT INTO contact_messages").
		WithArgs(msg.ID, msg.Name, msg.Email, msg.Message, msg.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), msg)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_Create_Error(t *testing.T) {
	mock := newMock(t)
	repo := NewMessageRepository(mock)

	mock.ExpectExec("INSERT INTO contact_messages").
		WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), &domain.ContactMessage{ID: "msg-1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert contact message")
}

func TestMessageRepository_List(t *testing.T) {
	mock := newMock(t)
	repo := NewMessageRepository(mock)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"id", "name", "email", "message", "created_at", "total_count"}).
		AddRow("msg-2", "أحمد", "ahmed@example.com", "متى تفتحون؟", now, 2).
		AddRow("msg-1", "سارة", "sara@example.com", "هل يوجد توصيل؟", now.Add(-time.Hour), 2)

	mock.ExpectQuery("SELECT .+ FROM contact_messages").
		WithArgs(20, 0).
		WillReturnRows(rows)

	messages, total, err := repo.List(context.Background(), 1, 20)

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, messages, 2)
	assert.Equal(t, "msg-2", messages[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_List_Empty(t *testing.T) {
	mock := newMock(t)
	repo := NewMessageRepository(mock)

	rows := pgxmock.NewRows([]string{"id", "name", "email", "message", "created_at", "total_count"})

	mock.ExpectQuery("SELECT .+ FROM contact_messages").
		WithArgs(10, 10).
		WillReturnRows(rows)

	messages, total, err := repo.List(context.Background(), 2, 10)

	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, messages)
}
