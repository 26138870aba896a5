package models

import (
	"errors"
	"strings"
	"time"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

var (
	// ErrInvalidSort возвращается при неизвестном поле сортировки
	ErrInvalidSort = errors.New("sort must be one of date, status, name")

	// ErrInvalidOrder возвращается при неизвестном направлении сортировки
	ErrInvalidOrder = errors.New("order must be asc or desc")
)

// Request модели

// CreateMessageRequest данные формы обратной связи
type CreateMessageRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

// ListMessagesRequest фильтр и сортировка списка обращений
type ListMessagesRequest struct {
	Read    *bool  // nil - все
	Replied *bool  // nil - все
	Search  string // Подстрока в имени, email или тексте
	SortBy  string // date (по умолчанию), status, name
	Order   string // desc (по умолчанию) или asc
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListMessagesRequest) ToDomainFilter() (domain.MessagesFilter, error) {
	filter := domain.MessagesFilter{
		Read:       r.Read,
		Replied:    r.Replied,
		Search:     strings.TrimSpace(r.Search),
		SortBy:     domain.SortByDate,
		Descending: true,
	}

	if r.SortBy != "" {
		filter.SortBy = domain.MessageSortField(r.SortBy)
		if !filter.SortBy.IsValid() {
			return filter, ErrInvalidSort
		}
	}

	switch strings.ToLower(r.Order) {
	case "", "desc":
	case "asc":
		filter.Descending = false
	default:
		return filter, ErrInvalidOrder
	}

	return filter, nil
}

// ReplyRequest ответ администратора
type ReplyRequest struct {
	Text string `json:"text"`
}

// Response модели

// MessageResponse ответ с данными обращения
type MessageResponse struct {
	ID            string    `json:"id"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	Message       string    `json:"message"`
	Status        string    `json:"status"`
	AdminResponse *string   `json:"adminResponse,omitempty"`
	Read          bool      `json:"read"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// MessageListResponse ответ со списком обращений
type MessageListResponse struct {
	Messages []MessageResponse `json:"messages"`
}

// ReplyResponse результат ответа на обращение
type ReplyResponse struct {
	Message   MessageResponse `json:"message"`
	EmailSent bool            `json:"emailSent"`
}

// Методы конвертации

// FromDomainMessage конвертирует domain модель в DTO
func FromDomainMessage(m *domain.ContactMessage) *MessageResponse {
	if m == nil {
		return nil
	}

	return &MessageResponse{
		ID:            m.ID.String(),
		FullName:      m.FullName,
		Email:         m.Email,
		Message:       m.Message,
		Status:        string(m.Status),
		AdminResponse: m.AdminResponse,
		Read:          m.Read,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromDomainMessageList конвертирует список domain моделей в DTO
func FromDomainMessageList(messages []*domain.ContactMessage) *MessageListResponse {
	resp := &MessageListResponse{
		Messages: make([]MessageResponse, 0, len(messages)),
	}

	for _, m := range messages {
		if msgResp := FromDomainMessage(m); msgResp != nil {
			resp.Messages = append(resp.Messages, *msgResp)
		}
	}

	return resp
}
