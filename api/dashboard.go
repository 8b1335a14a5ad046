package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/venuedesk/tableops/config"
	"github.com/venuedesk/tableops/internal/domain"
	"github.com/venuedesk/tableops/internal/service/dashboard"
)

type DashboardHandler struct {
	service  dashboard.DashboardUseCase
	defaults config.VenueConfig
}

func NewDashboardHandler(service dashboard.DashboardUseCase, defaults config.VenueConfig) *DashboardHandler {
	return &DashboardHandler{service: service, defaults: defaults}
}

func (h *DashboardHandler) Register(router *gin.RouterGroup) {
	router.GET("/dashboard", h.counters)
}

// counters answers GET /dashboard. Timezone and live window default from
// venue config and can be overridden per request.
func (h *DashboardHandler) counters(c *gin.Context) {
	venueID, ok := paramInt64(c, "venue_id")
	if !ok {
		return
	}

	tz := c.DefaultQuery("timezone", h.defaults.DefaultTimezone)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		respondError(c, fmt.Errorf("%w: unknown timezone %q", domain.ErrInvalidArgument, tz))
		return
	}

	window := time.Duration(h.defaults.LiveWindowMinutes) * time.Minute
	if raw := c.Query("live_window_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			respondError(c, fmt.Errorf("%w: live_window_minutes must be a positive integer", domain.ErrInvalidArgument))
			return
		}
		window = time.Duration(minutes) * time.Minute
	}

	counters, err := h.service.Counters(c.Request.Context(), venueID, loc, window)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counters)
}
