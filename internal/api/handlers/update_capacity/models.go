package update_capacity

import (
	"errors"
	"strconv"

	"github.com/google/uuid"

	"github.com/bellefontaine/circuit-booking/internal/domain"
	slotModels "github.com/bellefontaine/circuit-booking/internal/service/slots/models"
	updateCapacity "github.com/bellefontaine/circuit-booking/internal/usecase/update_capacity"
)

var errMissingCapacity = errors.New("circuit1Capacity and circuit2Capacity are required")

// UpdateCapacityRequest HTTP request model
type UpdateCapacityRequest struct {
	Circuit1Capacity *int `json:"circuit1Capacity"`
	Circuit2Capacity *int `json:"circuit2Capacity"`
}

// UpdateCapacityResponse HTTP response model
type UpdateCapacityResponse struct {
	Slot *slotModels.SlotResponse `json:"slot"`
	// Drift по номеру трассы: расхождение остатка с суммой бронирований, исправленное при сохранении
	Drift map[string]int `json:"drift,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateCapacityRequest) ToUseCaseRequest(identity domain.Identity, slotID uuid.UUID) (*updateCapacity.Request, error) {
	if r.Circuit1Capacity == nil || r.Circuit2Capacity == nil {
		return nil, errMissingCapacity
	}

	return &updateCapacity.Request{
		Identity:         identity,
		SlotID:           slotID,
		Circuit1Capacity: *r.Circuit1Capacity,
		Circuit2Capacity: *r.Circuit2Capacity,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateCapacity.Response) *UpdateCapacityResponse {
	out := &UpdateCapacityResponse{Slot: slotModels.FromDomainSlot(resp.Slot)}

	for circuit, drift := range resp.Drift {
		if drift == 0 {
			continue
		}
		if out.Drift == nil {
			out.Drift = make(map[string]int)
		}
		out.Drift[strconv.Itoa(int(circuit))] = drift
	}

	return out
}
