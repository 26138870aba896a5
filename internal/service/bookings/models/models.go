package models

import (
	"errors"
	"time"

	"github.com/bellefontaine/circuit-booking/internal/domain"
)

var (
	// ErrInvalidCircuit возвращается при номере трассы вне {1, 2}
	ErrInvalidCircuit = errors.New("circuit must be 1 or 2")

	// ErrInvalidPeriod возвращается, когда начало периода позже конца
	ErrInvalidPeriod = errors.New("from must not be after to")
)

// Request модели

// UpdatePaymentRequest запрос на изменение статуса оплаты
type UpdatePaymentRequest struct {
	Status string `json:"status"` // "pending", "paid" или пусто для переключения
}

// GetCircuitBookingsRequest запрос на получение бронирований трассы
type GetCircuitBookingsRequest struct {
	Circuit int        `json:"circuit"`
	From    *time.Time `json:"from,omitempty"` // Начало периода (опционально)
	To      *time.Time `json:"to,omitempty"`   // Конец периода (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetCircuitBookingsRequest) ToDomainFilter() (domain.CircuitBookingsFilter, error) {
	filter := domain.CircuitBookingsFilter{
		Circuit: domain.Circuit(r.Circuit),
		From:    r.From,
		To:      r.To,
	}

	if !filter.Circuit.IsValid() {
		return filter, ErrInvalidCircuit
	}
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return filter, ErrInvalidPeriod
	}

	return filter, nil
}

// Response модели

// PilotResponse контакты пилота
type PilotResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID             string `json:"id"`
	UserID         string `json:"userId"`
	SlotID         string `json:"slotId"`
	Circuit        int    `json:"circuit"`
	NumberOfPilots int    `json:"numberOfPilots"`
	PaymentStatus  string `json:"paymentStatus"`

	// Денормализованные данные
	SlotDate *string        `json:"slotDate,omitempty"` // "2025-06-01"
	Pilot    *PilotResponse `json:"pilot,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:             b.ID.String(),
		UserID:         b.UserID.String(),
		SlotID:         b.SlotID.String(),
		Circuit:        int(b.Circuit),
		NumberOfPilots: b.NumberOfPilots,
		PaymentStatus:  string(b.PaymentStatus),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}

	if b.SlotDate != nil {
		date := b.SlotDate.Format(domain.DateFormat)
		resp.SlotDate = &date
	}

	if b.Pilot != nil {
		resp.Pilot = &PilotResponse{
			ID:        b.Pilot.ID.String(),
			Email:     b.Pilot.Email,
			FirstName: b.Pilot.FirstName,
			LastName:  b.Pilot.LastName,
		}
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
