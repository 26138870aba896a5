package messages

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	messageRepo "github.com/bellefontaine/circuit-booking/internal/infra/storage/message"
	"github.com/bellefontaine/circuit-booking/internal/service/messages/models"
	"github.com/bellefontaine/circuit-booking/pkg/logger"
)

const replyTemplate = "tpl_reply"

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, msg *domain.ContactMessage) (*domain.ContactMessage, error) {
	args := m.Called(ctx, msg)
	if v := args.Get(0); v != nil {
		return v.(*domain.ContactMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactMessage, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.ContactMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, filter domain.MessagesFilter) ([]*domain.ContactMessage, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]*domain.ContactMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) MarkRead(ctx context.Context, id uuid.UUID) (*domain.ContactMessage, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.ContactMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) SaveReply(ctx context.Context, id uuid.UUID, reply string) (*domain.ContactMessage, error) {
	args := m.Called(ctx, id, reply)
	if v := args.Get(0); v != nil {
		return v.(*domain.ContactMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, to, templateID string, data map[string]interface{}) error {
	return m.Called(ctx, to, templateID, data).Error(0)
}

var (
	admin = domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin}
	pilot = domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}
)

func newMessage(status domain.MessageStatus) *domain.ContactMessage {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return &domain.ContactMessage{
		ID:        uuid.New(),
		FullName:  "Lea Martin",
		Email:     "lea@example.com",
		Message:   "Is the track open on Sunday?",
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreate(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, &mockNotifier{}, replyTemplate, logger.NewNop())

	stored := newMessage(domain.MessagePending)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.ContactMessage) bool {
		return m.FullName == "Lea Martin" && m.Status == domain.MessagePending
	})).Return(stored, nil).Once()

	resp, err := svc.Create(context.Background(), &models.CreateMessageRequest{
		FullName: "  Lea Martin ",
		Email:    "lea@example.com",
		Message:  "Is the track open on Sunday?",
	})

	require.NoError(t, err)
	assert.Equal(t, stored.ID.String(), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.False(t, resp.Read)
	repo.AssertExpectations(t)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateMessageRequest
	}{
		{name: "missing name", req: models.CreateMessageRequest{Email: "a@b.fr", Message: "hi"}},
		{name: "bad email", req: models.CreateMessageRequest{FullName: "A", Email: "not-an-email", Message: "hi"}},
		{name: "blank message", req: models.CreateMessageRequest{FullName: "A", Email: "a@b.fr", Message: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			svc := NewService(repo, &mockNotifier{}, replyTemplate, logger.NewNop())

			_, err := svc.Create(context.Background(), &tt.req)

			assert.ErrorIs(t, err, domain.ErrValidation)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestList(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, &mockNotifier{}, replyTemplate, logger.NewNop())

	unread := false
	repo.On("List", mock.Anything, domain.MessagesFilter{
		Read:       &unread,
		Search:     "sunday",
		SortBy:     domain.SortByName,
		Descending: false,
	}).Return([]*domain.ContactMessage{newMessage(domain.MessagePending)}, nil).Once()

	resp, err := svc.List(context.Background(), admin, &models.ListMessagesRequest{
		Read:   &unread,
		Search: " sunday ",
		SortBy: "name",
		Order:  "asc",
	})

	require.NoError(t, err)
	assert.Len(t, resp.Messages, 1)
	repo.AssertExpectations(t)
}

func TestList_Rejections(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, &mockNotifier{}, replyTemplate, logger.NewNop())

	_, err := svc.List(context.Background(), domain.Anonymous(), &models.ListMessagesRequest{})
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	_, err = svc.List(context.Background(), pilot, &models.ListMessagesRequest{})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = svc.List(context.Background(), admin, &models.ListMessagesRequest{SortBy: "email"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.List(context.Background(), admin, &models.ListMessagesRequest{Order: "sideways"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestReply_SendsEmail(t *testing.T) {
	repo := &mockRepo{}
	notifier := &mockNotifier{}
	svc := NewService(repo, notifier, replyTemplate, logger.NewNop())

	msg := newMessage(domain.MessagePending)
	replied := *msg
	text := "Yes, from 9am."
	replied.Status = domain.MessageReplied
	replied.AdminResponse = &text
	replied.Read = true

	repo.On("SaveReply", mock.Anything, msg.ID, text).Return(&replied, nil).Once()
	notifier.On("Send", mock.Anything, "lea@example.com", replyTemplate, map[string]interface{}{
		"to_name": "Lea Martin",
		"message": text,
	}).Return(nil).Once()

	resp, err := svc.Reply(context.Background(), admin, msg.ID, &models.ReplyRequest{Text: "  Yes, from 9am.  "})

	require.NoError(t, err)
	assert.True(t, resp.EmailSent)
	assert.Equal(t, "replied", resp.Message.Status)
	require.NotNil(t, resp.Message.AdminResponse)
	assert.Equal(t, text, *resp.Message.AdminResponse)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

// Ответ сохраняется, даже если письмо не ушло
func TestReply_RelayFailureKeepsReply(t *testing.T) {
	repo := &mockRepo{}
	notifier := &mockNotifier{}
	svc := NewService(repo, notifier, replyTemplate, logger.NewNop())

	msg := newMessage(domain.MessageReplied)
	repo.On("SaveReply", mock.Anything, msg.ID, "ok").Return(msg, nil).Once()
	notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: status 502", domain.ErrRelay)).Once()

	resp, err := svc.Reply(context.Background(), admin, msg.ID, &models.ReplyRequest{Text: "ok"})

	require.NoError(t, err)
	assert.False(t, resp.EmailSent)
	repo.AssertExpectations(t)
}

func TestReply_Rejections(t *testing.T) {
	repo := &mockRepo{}
	notifier := &mockNotifier{}
	svc := NewService(repo, notifier, replyTemplate, logger.NewNop())

	id := uuid.New()
	repo.On("SaveReply", mock.Anything, id, "hello").Return(nil, messageRepo.ErrMessageNotFound).Once()

	_, err := svc.Reply(context.Background(), pilot, id, &models.ReplyRequest{Text: "hello"})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = svc.Reply(context.Background(), admin, id, &models.ReplyRequest{Text: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Reply(context.Background(), admin, id, &models.ReplyRequest{Text: "hello"})
	assert.ErrorIs(t, err, ErrMessageNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkReadAndDelete(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, &mockNotifier{}, replyTemplate, logger.NewNop())

	msg := newMessage(domain.MessagePending)
	read := *msg
	read.Read = true
	repo.On("MarkRead", mock.Anything, msg.ID).Return(&read, nil).Once()
	repo.On("Delete", mock.Anything, msg.ID).Return(nil).Once()
	repo.On("Delete", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

	resp, err := svc.MarkRead(context.Background(), admin, msg.ID)
	require.NoError(t, err)
	assert.True(t, resp.Read)

	require.NoError(t, svc.Delete(context.Background(), admin, msg.ID))

	err = svc.Delete(context.Background(), admin, uuid.New())
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, domain.ErrStorage)

	err = svc.Delete(context.Background(), pilot, msg.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	repo.AssertExpectations(t)
}
