package models

import (
	"time"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

// Request модели

// CreateSlotRequest запрос на создание слота
type CreateSlotRequest struct {
	Date             string `json:"date"`                       // "2025-06-01"
	Circuit1Capacity *int   `json:"circuit1Capacity,omitempty"` // По умолчанию из конфигурации
	Circuit2Capacity *int   `json:"circuit2Capacity,omitempty"` // По умолчанию из конфигурации
}

// EditDateRequest запрос на перенос слота
type EditDateRequest struct {
	Date string `json:"date"`
}

// ListSlotsRequest запрос списка слотов для администратора
type ListSlotsRequest struct {
	From *time.Time
	To   *time.Time
}

// Response модели

// SlotResponse ответ с данными слота
type SlotResponse struct {
	ID                string    `json:"id"`
	Date              string    `json:"date"`
	Circuit1Capacity  int       `json:"circuit1Capacity"`
	Circuit2Capacity  int       `json:"circuit2Capacity"`
	Circuit1Available int       `json:"circuit1Available"`
	Circuit2Available int       `json:"circuit2Available"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// SlotListResponse ответ со списком слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.Slot) *SlotResponse {
	if s == nil {
		return nil
	}

	return &SlotResponse{
		ID:                s.ID.String(),
		Date:              s.Date.Format(domain.DateFormat),
		Circuit1Capacity:  s.Circuit1Capacity,
		Circuit2Capacity:  s.Circuit2Capacity,
		Circuit1Available: s.Circuit1Available,
		Circuit2Available: s.Circuit2Available,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// FromDomainSlotList конвертирует список domain моделей в DTO
func FromDomainSlotList(slots []*domain.Slot) *SlotListResponse {
	resp := &SlotListResponse{
		Slots: make([]SlotResponse, 0, len(slots)),
	}

	for _, slot := range slots {
		if slotResp := FromDomainSlot(slot); slotResp != nil {
			resp.Slots = append(resp.Slots, *slotResp)
		}
	}

	return resp
}
