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

	"github.com/venuedesk/tableops/config"
	"github.com/venuedesk/tableops/internal/service/dashboard"
)

type MockDashboardUseCase struct {
	mock.Mock
}

func (m *MockDashboardUseCase) Counters(ctx context.Context, venueID int64, loc *time.Location, window time.Duration) (*dashboard.Counters, error) {
	args := m.Called(ctx, venueID, loc, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.Counters), args.Error(1)
}

func dashboardDefaults() config.VenueConfig {
	return config.VenueConfig{DefaultTimezone: "UTC", LiveWindowMinutes: 30}
}

func TestDashboardHandler_counters(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService, dashboardDefaults())

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "venue_id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/api/venues/1/dashboard", nil)

	counters := &dashboard.Counters{LiveCount: 3, TodayCount: 8, HistoryCount: 120, ActiveResourceCount: 2}

	mockService.On("Counters", c.Request.Context(), int64(1), time.UTC, 30*time.Minute).Return(counters, nil)

	handler.counters(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dashboard.Counters
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), response.LiveCount)
	assert.Equal(t, int64(120), response.HistoryCount)

	mockService.AssertExpectations(t)
}

func TestDashboardHandler_counters_Overrides(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService, dashboardDefaults())

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "venue_id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/api/venues/1/dashboard?timezone=America/Chicago&live_window_minutes=45", nil)

	chicago, err := time.LoadLocation("America/Chicago")
	assert.NoError(t, err)

	mockService.On("Counters", c.Request.Context(), int64(1), chicago, 45*time.Minute).
		Return(&dashboard.Counters{}, nil)

	handler.counters(c)

	assert.Equal(t, http.StatusOK, w.Code)

	mockService.AssertExpectations(t)
}

func TestDashboardHandler_counters_UnknownTimezone(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService, dashboardDefaults())

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "venue_id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/api/venues/1/dashboard?timezone=Mars/Olympus", nil)

	handler.counters(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	mockService.AssertNotCalled(t, "Counters")
}

func TestDashboardHandler_counters_BadWindow(t *testing.T) {
	mockService := &MockDashboardUseCase{}
	handler := NewDashboardHandler(mockService, dashboardDefaults())

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "venue_id", Value: "1"}}
	c.Request = httptest.NewRequest("GET", "/api/venues/1/dashboard?live_window_minutes=-5", nil)

	handler.counters(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	mockService.AssertNotCalled(t, "Counters")
}
