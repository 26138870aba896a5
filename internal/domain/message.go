package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MessageStatus статус обращения
type MessageStatus string

const (
	MessageUnread  MessageStatus = "unread"
	MessagePending MessageStatus = "pending"
	MessageReplied MessageStatus = "replied"
)

// ContactMessage represents a message sent through the public contact form
type ContactMessage struct {
	ID            uuid.UUID
	FullName      string
	Email         string
	Message       string
	Status        MessageStatus
	AdminResponse *string
	Read          bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewContactMessage проверяет и нормализует данные формы обратной связи
func NewContactMessage(fullName, email, message string) (*ContactMessage, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)

	if fullName == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrValidation)
	}
	if len(fullName) > MaxContactNameLength {
		return nil, fmt.Errorf("%w: full name must not exceed %d characters", ErrValidation, MaxContactNameLength)
	}
	if len(email) > MaxContactEmailLength {
		return nil, fmt.Errorf("%w: email must not exceed %d characters", ErrValidation, MaxContactEmailLength)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", ErrValidation)
	}
	if len(message) > MaxMessageLength {
		return nil, fmt.Errorf("%w: message must not exceed %d characters", ErrValidation, MaxMessageLength)
	}

	return &ContactMessage{
		FullName: fullName,
		Email:    email,
		Message:  message,
		Status:   MessagePending,
	}, nil
}

// IsReplied returns true if an administrator already answered
func (m *ContactMessage) IsReplied() bool {
	return m.Status == MessageReplied
}

// ValidateReply проверяет текст ответа администратора
func ValidateReply(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: reply must not be empty", ErrValidation)
	}
	if len(text) > MaxReplyLength {
		return "", fmt.Errorf("%w: reply must not exceed %d characters", ErrValidation, MaxReplyLength)
	}
	return text, nil
}

// MessageSortField поле сортировки списка обращений
type MessageSortField string

const (
	SortByDate   MessageSortField = "date"
	SortByStatus MessageSortField = "status"
	SortByName   MessageSortField = "name"
)

// IsValid returns true for date, status or name
func (f MessageSortField) IsValid() bool {
	return f == SortByDate || f == SortByStatus || f == SortByName
}

// MessagesFilter фильтр и сортировка обращений
type MessagesFilter struct {
	Read       *bool  // nil - все
	Replied    *bool  // true - replied, false - pending, nil - все
	Search     string // подстрока в имени, email или тексте
	SortBy     MessageSortField
	Descending bool
}
