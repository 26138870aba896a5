package delete_slot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bellefontaine/circuit-booking/internal/api/middleware"
	"github.com/bellefontaine/circuit-booking/internal/domain"
	deleteSlot "github.com/bellefontaine/circuit-booking/internal/usecase/delete_slot"
	"github.com/bellefontaine/circuit-booking/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *deleteSlot.Request) (*deleteSlot.Report, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*deleteSlot.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

var admin = domain.Identity{UserID: uuid.New(), Role: domain.RoleAdmin}

func serve(h *Handler, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/admin/slots/{slotId}", h.Handle).Methods(http.MethodDelete)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodDelete, path, nil)
	} else {
		req = httptest.NewRequest(http.MethodDelete, path, strings.NewReader(body))
	}
	req = req.WithContext(middleware.WithIdentity(req.Context(), admin))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_ReportsPartialDelivery(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, logger.NewNop())
	slotID := uuid.New()
	noEmail := uuid.New()

	uc.On("Execute", mock.Anything, &deleteSlot.Request{
		Identity: admin,
		SlotID:   slotID,
		Reason:   "Track flooded",
	}).Return(&deleteSlot.Report{
		Slot:             &domain.Slot{ID: slotID, Date: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)},
		BookingsRemoved:  3,
		Notified:         2,
		FailedRecipients: []string{"bob@example.com"},
		MissingContacts:  []uuid.UUID{noEmail},
	}, nil).Once()

	rec := serve(h, "/api/v1/admin/slots/"+slotID.String(), `{"reason":"Track flooded"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DeleteSlotResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "2025-06-20", resp.Date)
	assert.Equal(t, 3, resp.BookingsRemoved)
	assert.Equal(t, 2, resp.Notified)
	assert.Equal(t, []string{"bob@example.com"}, resp.FailedRecipients)
	assert.Equal(t, []string{noEmail.String()}, resp.MissingContacts)
	uc.AssertExpectations(t)
}

func TestHandle_EmptyBodyIsAllowed(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, logger.NewNop())
	slotID := uuid.New()

	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *deleteSlot.Request) bool {
		return req.SlotID == slotID && req.Reason == ""
	})).Return(&deleteSlot.Report{Slot: &domain.Slot{ID: slotID}}, nil).Once()

	rec := serve(h, "/api/v1/admin/slots/"+slotID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"failedRecipients":[]`)
	assert.Contains(t, rec.Body.String(), `"missingContacts":[]`)
}

func TestHandle_Errors(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, logger.NewNop())

	rec := serve(h, "/api/v1/admin/slots/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h, "/api/v1/admin/slots/"+uuid.NewString(), `{"reason":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, deleteSlot.ErrSlotNotFound).Once()
	rec = serve(h, "/api/v1/admin/slots/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "slot not found")
}
