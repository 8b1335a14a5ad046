package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/venuedesk/tableops/internal/domain"
	"github.com/venuedesk/tableops/internal/service/runtime"
)

type MockRuntimeUseCase struct {
	mock.Mock
}

func (m *MockRuntimeUseCase) FloorState(ctx context.Context, venueID int64) (*runtime.FloorView, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*runtime.FloorView), args.Error(1)
}

func TestFloorHandler_floor(t *testing.T) {
	mockService := &MockRuntimeUseCase{}
	handler := NewFloorHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "venue_id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/api/venues/1/floor", nil)

	seatedSince := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	staffID := "staff-7"
	reservation := domain.Reservation{ID: 42, VenueID: 1, CustomerName: "Dupont", PartySize: 4,
		StartAt: seatedSince.Add(2 * time.Hour), EndAt: seatedSince.Add(4 * time.Hour),
		Status: domain.ReservationStatusBooked}

	view := &runtime.FloorView{
		Tables: []runtime.TableState{
			{
				Resource:    domain.Resource{ID: 1, VenueID: 1, Label: "T1", Capacity: 2, Active: true},
				Status:      domain.SessionStatusOccupied,
				Overlay:     domain.OverlayNone,
				SeatedSince: &seatedSince,
				StaffID:     &staffID,
			},
			{
				Resource:    domain.Resource{ID: 2, VenueID: 1, Label: "T2", Capacity: 4, Active: true},
				Status:      domain.SessionStatusFree,
				Overlay:     domain.OverlayReservedLater,
				Reservation: &reservation,
			},
		},
		Unassigned: []domain.Reservation{{ID: 44, VenueID: 1, Status: domain.ReservationStatusBooked}},
	}

	mockService.On("FloorState", c.Request.Context(), int64(1)).Return(view, nil)

	handler.floor(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response floorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Tables, 2)
	assert.Len(t, response.Unassigned, 1)

	assert.Equal(t, string(domain.SessionStatusOccupied), response.Tables[0].Status)
	assert.NotNil(t, response.Tables[0].SeatedSince)
	assert.Nil(t, response.Tables[0].Reservation)

	assert.Equal(t, string(domain.OverlayReservedLater), response.Tables[1].Overlay)
	assert.NotNil(t, response.Tables[1].Reservation)
	assert.Equal(t, int64(42), response.Tables[1].Reservation.ID)

	mockService.AssertExpectations(t)
}

func TestFloorHandler_floor_Error(t *testing.T) {
	mockService := &MockRuntimeUseCase{}
	handler := NewFloorHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "venue_id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/api/venues/1/floor", nil)

	mockService.On("FloorState", c.Request.Context(), int64(1)).Return(nil, assert.AnError)

	handler.floor(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
