package messages

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	messageRepo "github.com/bellefontaine/circuit-booking/internal/infra/storage/message"
	"github.com/bellefontaine/circuit-booking/internal/service/messages/models"
)

// Service сервис обращений из формы обратной связи
type Service struct {
	messageRepo   MessageRepository
	notifier      Notifier
	replyTemplate string
	logger        Logger
}

// NewService создает новый экземпляр сервиса обращений
func NewService(messageRepo MessageRepository, notifier Notifier, replyTemplate string, logger Logger) *Service {
	return &Service{
		messageRepo:   messageRepo,
		notifier:      notifier,
		replyTemplate: replyTemplate,
		logger:        logger,
	}
}

// Create сохраняет обращение из публичной формы
func (s *Service) Create(ctx context.Context, req *models.CreateMessageRequest) (*models.MessageResponse, error) {
	msg, err := domain.NewContactMessage(req.FullName, req.Email, req.Message)
	if err != nil {
		s.logger.Warn("CreateMessage: validation failed: %v", err)
		return nil, err
	}

	created, err := s.messageRepo.Create(ctx, msg)
	if err != nil {
		s.logger.Error("CreateMessage: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateMessage: successfully created message id=%s", created.ID)
	return models.FromDomainMessage(created), nil
}

// List список обращений для администратора
func (s *Service) List(ctx context.Context, identity domain.Identity, req *models.ListMessagesRequest) (*models.MessageListResponse, error) {
	if err := identity.RequireAdmin(); err != nil {
		s.logger.Warn("ListMessages: access denied for user=%s", identity.UserID)
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	messages, err := s.messageRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListMessages: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListMessages: successfully fetched %d messages", len(messages))
	return models.FromDomainMessageList(messages), nil
}

// MarkRead помечает обращение прочитанным
func (s *Service) MarkRead(ctx context.Context, identity domain.Identity, id uuid.UUID) (*models.MessageResponse, error) {
	if err := identity.RequireAdmin(); err != nil {
		s.logger.Warn("MarkRead: access denied for user=%s", identity.UserID)
		return nil, err
	}

	msg, err := s.messageRepo.MarkRead(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("MarkRead", id, err)
	}

	return models.FromDomainMessage(msg), nil
}

// Reply сохраняет ответ и отправляет его автору письмом.
// Ошибка отправки не отменяет сохраненный ответ, она отражается в EmailSent.
func (s *Service) Reply(ctx context.Context, identity domain.Identity, id uuid.UUID, req *models.ReplyRequest) (*models.ReplyResponse, error) {
	if err := identity.RequireAdmin(); err != nil {
		s.logger.Warn("Reply: access denied for user=%s", identity.UserID)
		return nil, err
	}

	s.logger.Info("Reply: admin=%s replying to message id=%s", identity.UserID, id)

	// 1. Проверяем текст ответа
	text, err := domain.ValidateReply(req.Text)
	if err != nil {
		return nil, err
	}

	// 2. Сохраняем ответ
	msg, err := s.messageRepo.SaveReply(ctx, id, text)
	if err != nil {
		return nil, s.mapRepoError("Reply", id, err)
	}

	// 3. Отправляем письмо автору обращения
	data := map[string]interface{}{
		"to_name": msg.FullName,
		"message": text,
	}

	emailSent := true
	if err := s.notifier.Send(ctx, msg.Email, s.replyTemplate, data); err != nil {
		s.logger.Warn("Reply: reply to message id=%s saved but email to %s failed: %v", id, msg.Email, err)
		emailSent = false
	}

	s.logger.Info("Reply: successfully replied to message id=%s, emailSent=%t", id, emailSent)
	return &models.ReplyResponse{
		Message:   *models.FromDomainMessage(msg),
		EmailSent: emailSent,
	}, nil
}

// Delete удаляет обращение
func (s *Service) Delete(ctx context.Context, identity domain.Identity, id uuid.UUID) error {
	if err := identity.RequireAdmin(); err != nil {
		s.logger.Warn("DeleteMessage: access denied for user=%s", identity.UserID)
		return err
	}

	if err := s.messageRepo.Delete(ctx, id); err != nil {
		return s.mapRepoError("DeleteMessage", id, err)
	}

	s.logger.Info("DeleteMessage: successfully deleted message id=%s", id)
	return nil
}

func (s *Service) mapRepoError(op string, id uuid.UUID, err error) error {
	if errors.Is(err, messageRepo.ErrMessageNotFound) {
		s.logger.Warn("%s: message id=%s not found", op, id)
		return ErrMessageNotFound
	}
	s.logger.Error("%s: repository error for message id=%s: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
