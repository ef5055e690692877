package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Abobakr505/Skandr-Shop/internal/contact/domain"
	apperrors "github.com/Abobakr505/Skandr-Shop/pkg/errors"
)

type mockMessageRepository struct {
	mock.Mock
}

func (m *mockMessageRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockMessageRepository) List(ctx context.Context, page, perPage int) ([]domain.ContactMessage, int, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.ContactMessage), args.Int(1), args.Error(2)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendContactNotification(ctx context.Context, msg *domain.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func newService(repo *mockMessageRepository, m *mockMailer) *ContactService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewContactService(repo, m, logger)
}

func validInput() SubmitMessageInput {
	return SubmitMessageInput{
		Name:    "سارة علي",
		Email:   "sara@example.com",
		Message: "هل يوجد توصيل للمعادي؟",
	}
}

func TestSubmitMessage_Success(t *testing.T) {
	repo := new(mockMessageRepository)
	m := new(mockMailer)
	svc := newService(repo, m)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ContactMessage")).Return(nil)
	m.On("SendContactNotification", mock.Anything, mock.AnythingOfType("*domain.ContactMessage")).Return(nil)

	msg, err := svc.SubmitMessage(context.Background(), validInput())

	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "سارة علي", msg.Name)
	assert.False(t, msg.CreatedAt.IsZero())
	repo.AssertExpectations(t)
	m.AssertExpectations(t)
}

func TestSubmitMessage_MissingFields(t *testing.T) {
	repo := new(mockMessageRepository)
	svc := newService(repo, new(mockMailer))

	input := validInput()
	input.Message = "   "

	_, err := svc.SubmitMessage(context.Background(), input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitMessage_PersistFailure(t *testing.T) {
	repo := new(mockMessageRepository)
	m := new(mockMailer)
	svc := newService(repo, m)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ContactMessage")).
		Return(errors.New("database down"))

	_, err := svc.SubmitMessage(context.Background(), validInput())

	require.Error(t, err)
	m.AssertNotCalled(t, "SendContactNotification", mock.Anything, mock.Anything)
}

func TestSubmitMessage_MailFailureDoesNotFailSubmission(t *testing.T) {
	repo := new(mockMessageRepository)
	m := new(mockMailer)
	svc := newService(repo, m)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ContactMessage")).Return(nil)
	m.On("SendContactNotification", mock.Anything, mock.AnythingOfType("*domain.ContactMessage")).
		Return(errors.New("smtp unavailable"))

	msg, err := svc.SubmitMessage(context.Background(), validInput())

	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
}

func TestListMessages(t *testing.T) {
	repo := new(mockMessageRepository)
	svc := newService(repo, new(mockMailer))

	repo.On("List", mock.Anything, 1, 20).
		Return([]domain.ContactMessage{{ID: "msg-1"}}, 1, nil)

	messages, total, err := svc.ListMessages(context.Background(), 1, 20)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, messages, 1)
}
