package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/venuedesk/tableops/internal/domain"
	"github.com/venuedesk/tableops/internal/service/registry"
	"github.com/venuedesk/tableops/internal/service/transition"
)

type TableHandler struct {
	registry    registry.RegistryUseCase
	transitions transition.TransitionUseCase
}

func NewTableHandler(reg registry.RegistryUseCase, tr transition.TransitionUseCase) *TableHandler {
	return &TableHandler{registry: reg, transitions: tr}
}

func (h *TableHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.DELETE("/:table_id", h.deactivate)
	router.POST("/:table_id/seat", h.seat)
	router.POST("/:table_id/close", h.close)
}

type tableResponse struct {
	ID       int64  `json:"id"`
	VenueID  int64  `json:"venue_id"`
	Label    string `json:"label"`
	Capacity int    `json:"capacity"`
	Active   bool   `json:"active"`
}

type sessionResponse struct {
	SessionID int64  `json:"session_id"`
	TableID   int64  `json:"table_id"`
	Status    string `json:"status"`
	OpenedAt  string `json:"opened_at"`
}

func (h *TableHandler) create(c *gin.Context) {
	venueID, ok := paramInt64(c, "venue_id")
	if !ok {
		return
	}

	var req registry.RegisterTableInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resource, session, err := h.registry.Register(c.Request.Context(), venueID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"table":   toTableResponse(resource),
		"session": toSessionResponse(session),
	})
}

func (h *TableHandler) deactivate(c *gin.Context) {
	venueID, ok := paramInt64(c, "venue_id")
	if !ok {
		return
	}
	tableID, ok := paramInt64(c, "table_id")
	if !ok {
		return
	}

	if err := h.registry.Deactivate(c.Request.Context(), venueID, tableID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TableHandler) seat(c *gin.Context) {
	venueID, ok := paramInt64(c, "venue_id")
	if !ok {
		return
	}
	tableID, ok := paramInt64(c, "table_id")
	if !ok {
		return
	}

	var req transition.SeatPartyInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	session, err := h.transitions.SeatParty(c.Request.Context(), venueID, tableID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSessionResponse(session))
}

func (h *TableHandler) close(c *gin.Context) {
	venueID, ok := paramInt64(c, "venue_id")
	if !ok {
		return
	}
	tableID, ok := paramInt64(c, "table_id")
	if !ok {
		return
	}

	session, err := h.transitions.CloseTable(c.Request.Context(), venueID, tableID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(session))
}

func toTableResponse(r *domain.Resource) tableResponse {
	return tableResponse{ID: r.ID, VenueID: r.VenueID, Label: r.Label, Capacity: r.Capacity, Active: r.Active}
}

func toSessionResponse(s *domain.Session) sessionResponse {
	return sessionResponse{
		SessionID: s.ID,
		TableID:   s.ResourceID,
		Status:    string(s.Status),
		OpenedAt:  s.OpenedAt.Format(time.RFC3339),
	}
}
